package db

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/kasuganosora/campaign-table/config"
	dbmysql "github.com/kasuganosora/campaign-table/db/mysql"
	dbsqlite "github.com/kasuganosora/campaign-table/db/sqlite"
	"gorm.io/gorm"
)

const (
	ModeSQLite = "sqlite"
	ModeMySQL  = "mysql"
	ModeMemory = "memory"
)

// Open returns a *gorm.DB for the configured database mode.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	switch cfg.Mode {
	case ModeSQLite:
		return dbsqlite.Open(cfg.SQLitePath)
	case ModeMemory:
		// Each call gets its own named database so parallel tests never share state.
		return dbsqlite.OpenMemory(uuid.NewString())
	case ModeMySQL:
		return dbmysql.Open(cfg.MySQLDSN, dbmysql.Pool{
			MaxOpen: cfg.MySQLMaxOpen,
			MaxIdle: cfg.MySQLMaxIdle,
			MaxLife: cfg.MySQLMaxLife,
		})
	default:
		return nil, fmt.Errorf("db: unknown mode %q", cfg.Mode)
	}
}
