package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Log       LogConfig       `mapstructure:"log"`
	Store     StoreConfig     `mapstructure:"store"`
	Lock      LockConfig      `mapstructure:"lock"`
	Workers   WorkersConfig   `mapstructure:"workers"`
	Submitter SubmitterConfig `mapstructure:"submitter"`
	API       APIConfig       `mapstructure:"api"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

// Addr returns the HTTP listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	PoolSize    int           `mapstructure:"pool_size"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type StoreConfig struct {
	Driver string `mapstructure:"driver"` // postgres, memory
}

type LockConfig struct {
	MaxLockAge      time.Duration `mapstructure:"max_lock_age"` // 0 disables the reaper
	TxTimeout       time.Duration `mapstructure:"tx_timeout"`
	ConflictRetries int           `mapstructure:"conflict_retries"`
	ConflictBackoff time.Duration `mapstructure:"conflict_backoff"` // base wait between retries, doubled each time
}

type WorkersConfig struct {
	PaymentInterval    time.Duration `mapstructure:"payment_interval"`
	RegistryInterval   time.Duration `mapstructure:"registry_interval"`
	CollateralInterval time.Duration `mapstructure:"collateral_interval"`
	ReaperInterval     time.Duration `mapstructure:"reaper_interval"`
	PaymentActions     []string      `mapstructure:"payment_actions"`
	RegistryStates     []string      `mapstructure:"registry_states"`
}

type SubmitterConfig struct {
	URL      string        `mapstructure:"url"`
	Secret   string        `mapstructure:"secret"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Attempts int           `mapstructure:"attempts"`
	Backoff  time.Duration `mapstructure:"backoff"`
}

type APIConfig struct {
	Secret string `mapstructure:"secret"` // shared HMAC secret; empty disables signed-request auth
}

type MetricsConfig struct {
	Namespace string `mapstructure:"namespace"`
}

// Validate checks cross-field constraints that defaults cannot express.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("store.driver must be %q or %q, got %q", DriverPostgres, DriverMemory, c.Store.Driver)
	}
	if c.Lock.MaxLockAge < 0 {
		return fmt.Errorf("lock.max_lock_age must not be negative")
	}
	if c.Lock.TxTimeout <= 0 {
		return fmt.Errorf("lock.tx_timeout must be positive")
	}
	if c.Lock.ConflictRetries < 1 {
		return fmt.Errorf("lock.conflict_retries must be at least 1")
	}
	if c.Lock.ConflictBackoff < 0 {
		return fmt.Errorf("lock.conflict_backoff must not be negative")
	}
	if c.API.Secret != "" && !c.Redis.Enabled {
		return fmt.Errorf("api.secret requires redis.enabled for nonce replay protection")
	}
	return nil
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: EWL_ (Escrow Wallet Ledger).
// Nested keys use underscore: EWL_DATABASE_HOST, EWL_LOCK_MAX_LOCK_AGE, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "escrow_ledger")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("store.driver", DriverPostgres)
	v.SetDefault("lock.max_lock_age", "30m")
	v.SetDefault("lock.tx_timeout", "2m")
	v.SetDefault("lock.conflict_retries", 3)
	v.SetDefault("lock.conflict_backoff", "25ms")
	v.SetDefault("workers.payment_interval", "20s")
	v.SetDefault("workers.registry_interval", "30s")
	v.SetDefault("workers.collateral_interval", "30s")
	v.SetDefault("workers.reaper_interval", "1m")
	v.SetDefault("workers.payment_actions", []string{
		"FUNDS_LOCKING_REQUESTED",
		"SUBMIT_RESULT_REQUESTED",
		"AUTHORIZE_REFUND_REQUESTED",
		"WITHDRAW_REQUESTED",
		"SET_REFUND_REQUESTED_REQUESTED",
		"UNSET_REFUND_REQUESTED_REQUESTED",
		"WITHDRAW_REFUND_REQUESTED",
	})
	v.SetDefault("workers.registry_states", []string{"REGISTRATION_REQUESTED", "DEREGISTRATION_REQUESTED"})
	v.SetDefault("submitter.url", "")
	v.SetDefault("submitter.secret", "")
	v.SetDefault("submitter.timeout", "30s")
	v.SetDefault("submitter.attempts", 3)
	v.SetDefault("submitter.backoff", "2s")
	v.SetDefault("api.secret", "")
	v.SetDefault("metrics.namespace", "escrow")

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: EWL_DATABASE_HOST -> database.host
	v.SetEnvPrefix("EWL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
