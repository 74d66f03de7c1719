package mysql

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	driver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Pool sizes the connection pool.
type Pool struct {
	MaxOpen int
	MaxIdle int
	MaxLife time.Duration
}

// NormalizeDSN forces the options the JSON columns and timestamps of the
// campaign tables depend on: parsed UTC times and utf8mb4.
func NormalizeDSN(dsn string) (string, error) {
	cfg, err := driver.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("mysql: invalid dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	if !hasParam(dsn, "charset") {
		if cfg.Params == nil {
			cfg.Params = map[string]string{}
		}
		cfg.Params["charset"] = "utf8mb4"
	}
	return cfg.FormatDSN(), nil
}

// hasParam reports whether the query part of dsn sets key. The driver keeps
// charset out of Config.Params, so the raw string is checked.
func hasParam(dsn, key string) bool {
	_, query, ok := strings.Cut(dsn[strings.LastIndex(dsn, "/")+1:], "?")
	if !ok {
		return false
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return false
	}
	return values.Has(key)
}

// Open creates a GORM *DB backed by MySQL with a connection pool.
func Open(dsn string, pool Pool) (*gorm.DB, error) {
	dsn, err := NormalizeDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(pool.MaxOpen)
	sqlDB.SetMaxIdleConns(pool.MaxIdle)
	sqlDB.SetConnMaxLifetime(pool.MaxLife)
	return db, nil
}
