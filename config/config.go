package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override,
// e.g. CAMPAIGN_SECURITY_JWT_SECRET.
const EnvPrefix = "CAMPAIGN"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Security SecurityConfig `mapstructure:"security"`
	Combat   CombatConfig   `mapstructure:"combat"`
	Seed     SeedConfig     `mapstructure:"seed"`
}

type ServerConfig struct {
	Port     int      `mapstructure:"port"`
	Debug    bool     `mapstructure:"debug"`
	AdminKey string   `mapstructure:"admin_key"`
	AdminIPs []string `mapstructure:"admin_ips"` // empty allows any address
}

type DatabaseConfig struct {
	Mode         string        `mapstructure:"mode"` // sqlite | mysql | memory
	SQLitePath   string        `mapstructure:"sqlite_path"`
	MySQLDSN     string        `mapstructure:"mysql_dsn"`
	MySQLMaxOpen int           `mapstructure:"mysql_max_open"`
	MySQLMaxIdle int           `mapstructure:"mysql_max_idle"`
	MySQLMaxLife time.Duration `mapstructure:"mysql_max_life"`
}

type CacheConfig struct {
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	LocalGCInterval time.Duration `mapstructure:"local_gc_interval"`
	LocalPubSubBuf  int           `mapstructure:"local_pubsub_buf"`
}

type SecurityConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	JWTTTLH        time.Duration `mapstructure:"jwt_ttl_h"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
	// AllowedOrigins lists the WebSocket/SSE origins that are permitted.
	// An empty slice allows all origins (useful for local development only).
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CombatConfig tunes the combat table engine.
type CombatConfig struct {
	MaxSpawnQuantity     int           `mapstructure:"max_spawn_quantity"`
	SpawnLockTTL         time.Duration `mapstructure:"spawn_lock_ttl"`
	PendingRetryInterval time.Duration `mapstructure:"pending_retry_interval"`
	PendingMaxAttempts   int           `mapstructure:"pending_max_attempts"`
	StoreTimeout         time.Duration `mapstructure:"store_timeout"`
}

// SeedConfig holds the bootstrap game master account created by `seed`.
type SeedConfig struct {
	AdminEmail    string `mapstructure:"admin_email"`
	AdminPassword string `mapstructure:"admin_password"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.debug", false)
	v.SetDefault("database.mode", "sqlite")
	v.SetDefault("database.sqlite_path", "./data/campaign.db")
	v.SetDefault("database.mysql_max_open", 50)
	v.SetDefault("database.mysql_max_idle", 10)
	v.SetDefault("database.mysql_max_life", "1h")
	v.SetDefault("cache.local_gc_interval", "30s")
	v.SetDefault("cache.local_pubsub_buf", 256)
	v.SetDefault("security.jwt_ttl_h", "72h")
	v.SetDefault("security.rate_limit_rps", 100)
	v.SetDefault("security.rate_limit_burst", 200)
	v.SetDefault("combat.max_spawn_quantity", 20)
	v.SetDefault("combat.spawn_lock_ttl", "10s")
	v.SetDefault("combat.pending_retry_interval", "15s")
	v.SetDefault("combat.pending_max_attempts", 20)
	v.SetDefault("combat.store_timeout", "5s")
}

// Load reads config from the given YAML file path. Environment variables
// prefixed with CAMPAIGN_ override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration obtained from defaults alone.
// Used by tests and by CLI commands run without a config file.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	_ = v.Unmarshal(cfg)
	return cfg
}
