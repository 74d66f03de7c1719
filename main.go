package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/kasuganosora/campaign-table/cache"
	"github.com/kasuganosora/campaign-table/config"
	dbadapter "github.com/kasuganosora/campaign-table/db"
	"github.com/kasuganosora/campaign-table/model"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "campaign",
	Short:         "Shared combat table server for tabletop campaigns",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config/config.yaml", "path to the YAML config file")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, userCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file. A missing default file falls back to
// built-in defaults so the CLI works from a bare checkout.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err == nil {
		return cfg, nil
	}
	if !cmd.Flags().Changed("config") && errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return nil, fmt.Errorf("config: %w", err)
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Server.Debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := dbadapter.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("db migrate: %w", err)
	}
	return db, nil
}

func cacheConfig(cfg *config.Config) cache.CacheConfig {
	return cache.CacheConfig{
		RedisAddr:       cfg.Cache.RedisAddr,
		RedisPassword:   cfg.Cache.RedisPassword,
		RedisDB:         cfg.Cache.RedisDB,
		LocalGCInterval: cfg.Cache.LocalGCInterval,
		LocalPubSubBuf:  cfg.Cache.LocalPubSubBuf,
	}
}
