package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		CachePath      string        `envconfig:"CACHE_PATH" default:"windowrun.db"`
		RemoteURL      string        `envconfig:"REMOTE_URL" default:"http://localhost:8080"`
		RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"15s"`
		AdminKey       string        `envconfig:"ADMIN_KEY"`
	}

	Operator struct {
		Email    string `envconfig:"OPERATOR_EMAIL"`
		Password string `envconfig:"OPERATOR_PASSWORD"`
	}

	DB struct {
		Driver   string `envconfig:"DB_DRIVER" default:"memory"`
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"windowrun"`
		DSN      string `envconfig:"DATABASE_URL"`
	}

	Server struct {
		Port    int           `envconfig:"PORT" default:"8080"`
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}
}

// ConnectionString returns the server's database DSN. An explicit
// DATABASE_URL wins over the individual DB_* parts.
func (c *Config) ConnectionString() string {
	if c.DB.DSN != "" {
		return c.DB.DSN
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
