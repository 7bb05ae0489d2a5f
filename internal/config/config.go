package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported values for DB.Driver.
const (
	DriverMongo    = "mongodb"
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

type Config struct {
	HTTP struct {
		Port string
	}
	DB struct {
		Driver string
		DSN    string
		Name   string
	}
	JWT struct {
		Secret string
		TTL    time.Duration
	}
	CORS struct {
		Origins []string
	}
	Log struct {
		Level  string
		Format string
	}
}

// Addr is the listen address derived from the configured port.
func (c *Config) Addr() string {
	return ":" + c.HTTP.Port
}

// IsSQL reports whether the configured driver is served by the sqlx stores.
func (c *Config) IsSQL() bool {
	return c.DB.Driver != DriverMongo
}

// Load reads config from an optional .env file, the environment (LINKPAGE_
// prefix, plus the bare PORT, MONGO_URI and JWT_SECRET names) and an optional
// linkpage.yaml.
func Load() (*Config, error) {
	_ = godotenv.Load() // optional .env file

	v := viper.New()
	v.SetEnvPrefix("LINKPAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("linkpage")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	_ = v.BindEnv("http.port", "LINKPAGE_HTTP_PORT", "PORT")
	_ = v.BindEnv("db.dsn", "LINKPAGE_DB_DSN", "MONGO_URI")
	_ = v.BindEnv("jwt.secret", "LINKPAGE_JWT_SECRET", "JWT_SECRET")

	v.SetDefault("http.port", "3000")
	v.SetDefault("db.driver", DriverMongo)
	v.SetDefault("db.name", "linkpage")
	v.SetDefault("jwt.ttl", "1h")
	v.SetDefault("cors.origins", "*")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	cfg := &Config{}
	cfg.HTTP.Port = strings.TrimPrefix(v.GetString("http.port"), ":")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.DB.Name = v.GetString("db.name")
	cfg.JWT.Secret = v.GetString("jwt.secret")
	cfg.CORS.Origins = splitList(v.GetString("cors.origins"))
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")

	ttl, err := time.ParseDuration(v.GetString("jwt.ttl"))
	if err != nil {
		return nil, fmt.Errorf("invalid LINKPAGE_JWT_TTL: %w", err)
	}
	cfg.JWT.TTL = ttl

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that have no usable default.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverMongo, DriverSQLite, DriverPostgres, DriverMySQL:
	default:
		return fmt.Errorf("unsupported LINKPAGE_DB_DRIVER %q: must be mongodb, sqlite3, postgres, or mysql", c.DB.Driver)
	}
	if c.DB.DSN == "" {
		return errors.New("LINKPAGE_DB_DSN (or MONGO_URI) is required")
	}
	if c.DB.Driver == DriverMongo && c.DB.Name == "" {
		return errors.New("LINKPAGE_DB_NAME must not be empty")
	}
	if c.JWT.Secret == "" {
		return errors.New("LINKPAGE_JWT_SECRET (or JWT_SECRET) is required")
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("LINKPAGE_JWT_TTL must be positive, got %s", c.JWT.TTL)
	}
	if c.HTTP.Port == "" {
		return errors.New("LINKPAGE_HTTP_PORT must not be empty")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
