package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chimgan/sales/internal/models"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Inspect and override e-mail templates",
}

var templatesShowCmd = &cobra.Command{
	Use:   "show [template] [locale]",
	Short: "Print the template used for a locale",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, done, err := connect(cmd)
		if err != nil {
			return err
		}
		defer done()
		tmpl, err := current.templates.GetTemplate(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Subject: %s\n\n%s\n", tmpl.Subject, tmpl.Body)
		return nil
	},
}

var templatesSetCmd = &cobra.Command{
	Use:   "set [template] [locale]",
	Short: "Store an override; the body is read from --body-file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, _ := cmd.Flags().GetString("subject")
		bodyFile, _ := cmd.Flags().GetString("body-file")
		body, err := os.ReadFile(bodyFile)
		if err != nil {
			return fmt.Errorf("reading body: %w", err)
		}

		ctx, done, err := connect(cmd)
		if err != nil {
			return err
		}
		defer done()
		err = current.templates.SaveTemplate(ctx, &models.EmailTemplate{
			TemplateID: args[0],
			Locale:     args[1],
			Subject:    subject,
			Body:       string(body),
		})
		if err != nil {
			return err
		}
		fmt.Printf("saved %s/%s\n", args[0], args[1])
		return nil
	},
}

var templatesResetCmd = &cobra.Command{
	Use:   "reset [template] [locale]",
	Short: "Remove an override so the built-in template applies again",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, done, err := connect(cmd)
		if err != nil {
			return err
		}
		defer done()
		return current.templates.DeleteTemplate(ctx, args[0], args[1])
	},
}

func init() {
	templatesSetCmd.Flags().String("subject", "", "Subject line")
	templatesSetCmd.Flags().String("body-file", "", "File with the template body")
	_ = templatesSetCmd.MarkFlagRequired("subject")
	_ = templatesSetCmd.MarkFlagRequired("body-file")

	templatesCmd.AddCommand(templatesShowCmd, templatesSetCmd, templatesResetCmd)
	rootCmd.AddCommand(templatesCmd)
}
