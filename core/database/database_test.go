package database

import (
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"
)

func TestDataSourcePostgresFromParts(t *testing.T) {
	dsn, err := Config{Driver: DriverPostgres, Host: "db", User: "bot", Password: "p@ss", Name: "casts"}.DataSource()
	if err != nil {
		t.Fatalf("data source: %v", err)
	}
	if dsn != "postgres://bot:p%40ss@db:5432/casts?sslmode=disable" {
		t.Fatalf("dsn = %q", dsn)
	}
}

func TestDataSourcePrefersDSN(t *testing.T) {
	dsn, err := Config{Driver: DriverPostgres, DSN: "postgres://x/y", Host: "ignored"}.DataSource()
	if err != nil || dsn != "postgres://x/y" {
		t.Fatalf("dsn = %q err = %v", dsn, err)
	}
}

func TestDataSourceErrors(t *testing.T) {
	for _, cfg := range []Config{
		{Driver: DriverPostgres},
		{Driver: DriverSQLite},
		{Driver: "mysql", DSN: "x"},
	} {
		if _, err := cfg.DataSource(); err == nil {
			t.Errorf("%+v: expected error", cfg)
		}
	}
}

func TestConnectAndMigrateSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "casts.db")
	db, err := Connect(Config{Driver: DriverSQLite, Path: path}, time.Second)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer db.Close()

	fsys := fstest.MapFS{
		"migrations/000001_create_things.up.sql":   {Data: []byte("CREATE TABLE things (id INTEGER PRIMARY KEY, name TEXT NOT NULL);")},
		"migrations/000001_create_things.down.sql": {Data: []byte("DROP TABLE things;")},
	}
	if err := RunMigrations(db, fsys, "migrations"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// A second run is a no-op.
	if err := RunMigrations(db, fsys, "migrations"); err != nil {
		t.Fatalf("migrate again: %v", err)
	}

	if _, err := db.Exec(db.Rebind("INSERT INTO things (id, name) VALUES (?, ?)"), 1, "alpha"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	var name string
	if err := db.Get(&name, db.Rebind("SELECT name FROM things WHERE id = ?"), 1); err != nil {
		t.Fatalf("select: %v", err)
	}
	if !strings.EqualFold(name, "alpha") {
		t.Fatalf("name = %q", name)
	}
}
