package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tychan/site-api/pkg/config"
	"github.com/tychan/site-api/pkg/database"
)

// cfg is loaded once before any subcommand runs.
var cfg *config.Config

// rootCmd runs the API server when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:           "site-api",
	Short:         "HTTP API behind the personal website: accounts, changelog, projects and bills.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// load .env file if present so env lookups pick values from it
		// this is best-effort: if no .env exists, continue (use defaults or real env)
		_ = godotenv.Load()

		c, err := config.Load()
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, hashPasswordCmd, settingsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func openDB() (*sqlx.DB, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	return db, nil
}
