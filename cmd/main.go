package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dtroode/blog-server/database"
	"github.com/dtroode/blog-server/internal/config"
	"github.com/dtroode/blog-server/internal/logger"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

var rootCmd = &cobra.Command{
	Use:          "blog-server",
	Short:        "Blog backend with password, Google and token authentication",
	Version:      buildVersion,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations and serve the REST API",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE:  runMigrate,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("Build version: %s\nBuild date: %s\nBuild commit: %s\n",
		buildVersion, buildDate, buildCommit))
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel)

	if err := database.Migrate(cmd.Context(), cfg.Database.DSN); err != nil {
		log.Error("failed to apply migrations", "error", err)
		return err
	}

	log.Info("migrations applied")
	return nil
}
