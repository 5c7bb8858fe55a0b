package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tychan/site-api/internal/account"
	"github.com/tychan/site-api/internal/setting"
	settingrepo "github.com/tychan/site-api/internal/setting/repo"
	"github.com/tychan/site-api/pkg/database"
	"github.com/tychan/site-api/pkg/utilities"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create any missing tables.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		if err := database.EnsureSchema(cmd.Context(), db); err != nil {
			return err
		}
		color.Green("schema is up to date (%s)", cfg.Database.Driver)
		return nil
	},
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print the bcrypt hash stored for a password.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := account.NewAccountService(nil, account.BcryptHasher{Cost: cfg.BcryptCost})
		hash, err := svc.GeneratePasswordHash(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Read and write page content settings.",
}

var settingsPutCmd = &cobra.Command{
	Use:     "put <category> <key> <json>",
	Short:   "Create or replace a setting.",
	Example: `  site-api settings put section_display_mode log '{"display_mode":"timeline"}'`,
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := utilities.SetSnowflakeNode(cfg.SnowflakeNode); err != nil {
			return err
		}
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		svc := setting.NewService(settingrepo.NewRepo(db))
		if _, err := svc.Put(cmd.Context(), args[0], args[1], []byte(args[2])); err != nil {
			return err
		}
		color.Green("saved %s/%s", args[0], args[1])
		return nil
	},
}

var settingsListCmd = &cobra.Command{
	Use:   "list <category>",
	Short: "Show every setting in a category.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		all, err := setting.NewService(settingrepo.NewRepo(db)).List(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(all) == 0 {
			color.Yellow("no settings in %s", args[0])
			return nil
		}
		key := color.New(color.FgCyan).SprintFunc()
		for _, st := range all {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", key(st.Key), st.Metadata)
		}
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsPutCmd, settingsListCmd)
}
