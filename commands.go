package main

import (
	"fmt"

	"github.com/kasuganosora/campaign-table/model"
	"github.com/kasuganosora/campaign-table/seed"
	"github.com/kasuganosora/campaign-table/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if _, err := openDB(cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema up to date (%s)\n", cfg.Database.Mode)
		return nil
	},
}

var (
	seedFile  string
	seedReset bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load races, classes and campaign documents from a YAML file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		f, err := seed.LoadFile(seedFile)
		if err != nil {
			return err
		}
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		res, err := seed.NewSeeder(db, store.NewGorm(db), logger).Apply(cmd.Context(), f, seed.Options{Reset: seedReset})
		if err != nil {
			logger.Error("seed stopped", zap.Error(err))
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d races, %d classes, %d characters, %d monsters, %d npcs\n",
			res.Races, res.Classes, res.Characters, res.Monsters, res.Npcs)
		return nil
	},
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage game master accounts",
}

var (
	userEmail    string
	userPassword string
	userRole     string
)

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		acc, err := seed.CreateAccount(cmd.Context(), db, userEmail, userPassword, userRole)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "account %d created: %s (%s)\n", acc.ID, acc.Email, acc.Role)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "seeds/seed.yaml", "seed file to load")
	seedCmd.Flags().BoolVar(&seedReset, "reset", false, "empty the seeded tables first")

	userAddCmd.Flags().StringVar(&userEmail, "email", "", "login email")
	userAddCmd.Flags().StringVar(&userPassword, "password", "", "login password")
	userAddCmd.Flags().StringVar(&userRole, "role", model.RoleAdmin, "account role (admin or user)")
	_ = userAddCmd.MarkFlagRequired("email")
	_ = userAddCmd.MarkFlagRequired("password")
	userCmd.AddCommand(userAddCmd)
}
