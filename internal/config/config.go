package config

import (
	"fmt"
	"strings"

	"github.com/joytest-admin/joytest-data-sub000/internal/pkg/constants"
	"github.com/spf13/viper"
)

type Config struct {
	Port             string   `mapstructure:"PORT"`
	Env              string   `mapstructure:"ENV"`
	LogLevel         string   `mapstructure:"LOG_LEVEL"`
	DatabaseURL      string   `mapstructure:"DATABASE_URL"`
	DBMaxConns       int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns       int32    `mapstructure:"DB_MIN_CONNS"`
	DBConnectRetries uint64   `mapstructure:"DB_CONNECT_RETRIES"`
	DBLogQueries     bool     `mapstructure:"DB_LOG_QUERIES"`
	AuthSecret       string   `mapstructure:"AUTH_SECRET"`
	CORSOrigins      []string `mapstructure:"CORS_ORIGINS"`
}

var keys = []string{
	"PORT",
	"ENV",
	"LOG_LEVEL",
	"DATABASE_URL",
	"DB_MAX_CONNS",
	"DB_MIN_CONNS",
	"DB_CONNECT_RETRIES",
	"DB_LOG_QUERIES",
	constants.ViperSecretKey,
	"CORS_ORIGINS",
}

// Load reads configuration from an optional .env file and the environment.
// Values are also left in the global viper instance so that lookups such as
// viper.GetString(constants.ViperSecretKey) keep working.
func Load() (*Config, error) {
	v := viper.GetViper()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("DB_CONNECT_RETRIES", 5)
	v.SetDefault("DB_LOG_QUERIES", false)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")

	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	// missing .env is fine
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if len(cfg.CORSOrigins) == 1 && strings.Contains(cfg.CORSOrigins[0], ",") {
		cfg.CORSOrigins = strings.Split(cfg.CORSOrigins[0], ",")
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

// Validate checks settings that Load cannot default.
func (c *Config) Validate() error {
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) must not exceed DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if !c.IsDev() && c.AuthSecret == "" {
		return fmt.Errorf("%s is required outside development", constants.ViperSecretKey)
	}
	if c.AuthSecret != "" && len(c.AuthSecret) < 16 {
		return fmt.Errorf("%s must be at least 16 characters", constants.ViperSecretKey)
	}
	return nil
}
