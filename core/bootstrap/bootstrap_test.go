package bootstrap

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"
	"time"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/m3rciful/groupcaster/core/config"
	coredatabase "github.com/m3rciful/groupcaster/core/database"
)

func TestRunSkipsDatabaseWithoutDriver(t *testing.T) {
	var loggerCalls int
	res, err := Run(Options{
		Config:     &coreconfig.Config{},
		LoggerInit: func(*coreconfig.Config) error { loggerCalls++; return nil },
		Connect: func(coredatabase.Config, time.Duration) (*sqlx.DB, error) {
			t.Fatal("connect must not be called")
			return nil, nil
		},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.DB != nil || loggerCalls != 1 {
		t.Fatalf("unexpected result db=%v logger calls=%d", res.DB, loggerCalls)
	}
}

func TestRunPropagatesMigrationFailure(t *testing.T) {
	db, err := sqlx.Open(coredatabase.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	_, err = Run(Options{
		Config:        &coreconfig.Config{},
		Database:      coredatabase.Config{Driver: coredatabase.DriverSQLite, Path: "unused"},
		Migrations:    fstest.MapFS{},
		MigrationsDir: "migrations",
		LoggerInit:    func(*coreconfig.Config) error { return nil },
		Connect: func(coredatabase.Config, time.Duration) (*sqlx.DB, error) {
			return db, nil
		},
		Migrate: func(*sqlx.DB, fs.FS, string) error { return errors.New("boom") },
	})
	if err == nil {
		t.Fatal("expected migration error")
	}
	if err := db.Ping(); err == nil {
		t.Fatal("database handle left open after migration failure")
	}
}

func TestRunRequiresConfig(t *testing.T) {
	if _, err := Run(Options{}); err == nil {
		t.Fatal("expected error for nil config")
	}
}
