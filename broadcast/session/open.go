package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-redis/redis/v9"
	"github.com/jmoiron/sqlx"

	coredatabase "github.com/m3rciful/groupcaster/core/database"
	"github.com/m3rciful/groupcaster/core/logger"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = coredatabase.DriverPostgres
	DriverSQLite   = coredatabase.DriverSQLite
	DriverRedis    = "redis"
)

// Config selects and configures the session backing.
type Config struct {
	Driver    string              `yaml:"driver" envconfig:"STORAGE_DRIVER"`
	DB        coredatabase.Config `yaml:"db"`
	RedisURL  string              `yaml:"redis_url" envconfig:"REDIS_URL"`
	KeyPrefix string              `yaml:"key_prefix" envconfig:"REDIS_KEY_PREFIX"`
	TTL       time.Duration       `yaml:"ttl" envconfig:"SESSION_TTL"`
}

// Normalize validates the driver and fills defaults.
func (c *Config) Normalize() error {
	c.Driver = strings.ToLower(strings.TrimSpace(c.Driver))
	switch c.Driver {
	case "":
		c.Driver = DriverMemory
	case "sqlite3":
		c.Driver = DriverSQLite
	case "postgresql":
		c.Driver = DriverPostgres
	}
	switch c.Driver {
	case DriverMemory:
	case DriverPostgres, DriverSQLite:
		c.DB.Driver = c.Driver
		if _, err := c.DB.DataSource(); err != nil {
			return fmt.Errorf("storage: %w", err)
		}
	case DriverRedis:
		if strings.TrimSpace(c.RedisURL) == "" {
			return fmt.Errorf("storage: redis_url is required for the redis driver")
		}
		if c.TTL < 0 {
			return fmt.Errorf("storage: ttl must be >= 0")
		}
	default:
		return fmt.Errorf("storage: unknown driver %q; allowed: memory, postgres, sqlite, redis", c.Driver)
	}
	return nil
}

// UsesSQL reports whether the backing needs a database connection.
func (c Config) UsesSQL() bool {
	return c.Driver == DriverPostgres || c.Driver == DriverSQLite
}

// Open builds the configured store. db must be connected and migrated when
// UsesSQL is true; it is ignored otherwise.
func Open(ctx context.Context, cfg Config, db *sqlx.DB) (Store, error) {
	var (
		store Store
		attrs = []slog.Attr{slog.String("event", "store.open"), slog.String("driver", cfg.Driver)}
	)
	switch cfg.Driver {
	case "", DriverMemory:
		store = NewMemoryStore()
	case DriverPostgres, DriverSQLite:
		if db == nil {
			return nil, fmt.Errorf("session: %s store requires a database connection", cfg.Driver)
		}
		store = NewSQLStore(db)
	case DriverRedis:
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("session: parse redis url: %w", err)
		}
		client := redis.NewClient(opt)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("session: redis ping: %w", err)
		}
		store = NewRedisStore(client, cfg.KeyPrefix, cfg.TTL)
		attrs = append(attrs, slog.String("host", opt.Addr), slog.Duration("ttl", cfg.TTL))
	default:
		return nil, fmt.Errorf("session: unknown driver %q", cfg.Driver)
	}
	logger.Session.LogAttrs(ctx, slog.LevelInfo, "session store ready", attrs...)
	return store, nil
}
