package database

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// DriverPostgres selects lib/pq.
	DriverPostgres = "postgres"
	// DriverSQLite selects the pure-Go modernc.org/sqlite driver.
	DriverSQLite = "sqlite"
)

// Config holds database connection settings.
type Config struct {
	Driver         string `yaml:"driver" envconfig:"DB_DRIVER"`
	DSN            string `yaml:"dsn" envconfig:"DATABASE_URL"`
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	Path           string `yaml:"path" envconfig:"DB_PATH"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
}

// DataSource returns the driver specific connection string.
func (c Config) DataSource() (string, error) {
	switch c.Driver {
	case DriverPostgres:
		if strings.TrimSpace(c.DSN) != "" {
			return c.DSN, nil
		}
		if c.Host == "" || c.Name == "" {
			return "", fmt.Errorf("database: host and name are required for postgres")
		}
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(c.User, c.Password),
			Host:   c.Host + ":" + defaultString(c.Port, "5432"),
			Path:   "/" + c.Name,
		}
		q := u.Query()
		q.Set("sslmode", defaultString(c.SSLMode, "disable"))
		u.RawQuery = q.Encode()
		return u.String(), nil
	case DriverSQLite:
		path := defaultString(strings.TrimSpace(c.Path), strings.TrimSpace(c.DSN))
		if path == "" {
			return "", fmt.Errorf("database: path is required for sqlite")
		}
		return path, nil
	default:
		return "", fmt.Errorf("database: unsupported driver %q", c.Driver)
	}
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
