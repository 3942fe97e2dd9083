package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chimgan/sales/internal/utils"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Manage item categories",
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Manage item tags",
}

func init() {
	categoriesCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List categories",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				ctx, done, err := connect(cmd)
				if err != nil {
					return err
				}
				defer done()
				cats, err := current.categories.ListCategories(ctx)
				if err != nil {
					return err
				}
				for _, c := range cats {
					fmt.Printf("%s  %-24s %s\n", c.ID, c.Slug, c.Name)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "create [name]",
			Short: "Create a category; the slug is derived from the name",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, done, err := connect(cmd)
				if err != nil {
					return err
				}
				defer done()
				c, err := current.categories.CreateCategory(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Printf("created %s (%s)\n", c.Slug, c.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete [id]",
			Short: "Delete a category",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := utils.ParseSixID(args[0])
				if err != nil {
					return fmt.Errorf("invalid id %q: %w", args[0], err)
				}
				ctx, done, err := connect(cmd)
				if err != nil {
					return err
				}
				defer done()
				return current.categories.DeleteCategory(ctx, id)
			},
		},
	)

	tagsCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List tags",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				ctx, done, err := connect(cmd)
				if err != nil {
					return err
				}
				defer done()
				tags, err := current.categories.ListTags(ctx)
				if err != nil {
					return err
				}
				for _, t := range tags {
					fmt.Printf("%s  %-24s %s\n", t.ID, t.Slug, t.Name)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "create [name]",
			Short: "Create a tag",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, done, err := connect(cmd)
				if err != nil {
					return err
				}
				defer done()
				t, err := current.categories.CreateTag(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Printf("created %s (%s)\n", t.Slug, t.ID)
				return nil
			},
		},
	)

	rootCmd.AddCommand(categoriesCmd, tagsCmd)
}
