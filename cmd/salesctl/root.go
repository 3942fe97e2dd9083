package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/chimgan/sales/internal/cache"
	"github.com/chimgan/sales/internal/config"
	"github.com/chimgan/sales/internal/db"
	"github.com/chimgan/sales/internal/services"
)

// env holds the connections and services a command runs against.
type env struct {
	settings   services.IConfigService
	categories services.ICategoryService
	users      services.IUserService
	templates  services.IEmailTemplateService
}

var current *env

var rootCmd = &cobra.Command{
	Use:          "salesctl",
	Short:        "Operator tool for the classifieds marketplace",
	Long:         "salesctl manages settings, taxonomy, accounts and e-mail templates directly in the marketplace store.",
	SilenceUsage: true,
}

// Execute runs the command tree.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Duration("timeout", 30*time.Second, "Timeout for each command")
}

// connect opens MongoDB and Redis. Commands that need the store call it from RunE.
func connect(cmd *cobra.Command) (context.Context, context.CancelFunc, error) {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)

	cfg, err := config.Load("cli")
	if err != nil {
		cancel()
		return nil, nil, err
	}
	client, database, err := db.ConnectDB(ctx, cfg.MongoURI, cfg.MongoDbName)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("connecting to MongoDB: %w", err)
	}
	rdb, err := cache.ConnectRedis(ctx, cfg)
	if err != nil {
		_ = db.DisconnectDB(client)
		cancel()
		return nil, nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	current = &env{
		settings:   services.NewConfigService(database, cfg, rdb),
		categories: services.NewCategoryService(database),
		users:      services.NewUserService(database, cfg),
		templates:  services.NewEmailTemplateService(database),
	}
	return ctx, func() {
		_ = cache.DisconnectRedis(rdb)
		_ = db.DisconnectDB(client)
		cancel()
	}, nil
}
