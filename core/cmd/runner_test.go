package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	coreconfig "github.com/m3rciful/groupcaster/core/config"
	coretelegram "github.com/m3rciful/groupcaster/core/telegram"
)

type carrier struct{ cfg *coreconfig.Config }

func (c carrier) CoreConfig() *coreconfig.Config { return c.cfg }

type fakeApp struct{ closed bool }

func (a *fakeApp) TelegramRunOptions() (coretelegram.RunOptions, error) {
	return coretelegram.RunOptions{}, nil
}

func (a *fakeApp) Close() error { a.closed = true; return nil }

func TestRunLoadsEnvFileAndRunsHooks(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("GROUPCASTER_TEST_TOKEN=from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("GROUPCASTER_TEST_TOKEN") })
	t.Setenv("CONFIG_PATH", "")

	app := &fakeApp{}
	var (
		gotPath  = "unset"
		started  bool
		stopped  bool
		loggerDn bool
	)
	err := Run(Options{
		EnvFiles: []string{filepath.Join(dir, "missing.env"), envPath},
		LoadConfig: func(path string) (ConfigCarrier, error) {
			gotPath = path
			if os.Getenv("GROUPCASTER_TEST_TOKEN") != "from-dotenv" {
				t.Errorf(".env not loaded before config")
			}
			return carrier{cfg: &coreconfig.Config{}}, nil
		},
		Bootstrap:      func(ConfigCarrier) (TelegramApp, error) { return app, nil },
		ShutdownLogger: func() error { loggerDn = true; return nil },
		RunTelegram: func(ctx context.Context, opts coretelegram.RunOptions) error {
			if err := opts.OnStart(ctx, coretelegram.Runtime{}); err != nil {
				return err
			}
			started = true
			stopped = opts.OnStop(ctx, coretelegram.Runtime{}) == nil
			return nil
		},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if gotPath != "" {
		t.Fatalf("config path = %q, want empty", gotPath)
	}
	if !started || !stopped || !loggerDn || !app.closed {
		t.Fatalf("started=%v stopped=%v logger=%v closed=%v", started, stopped, loggerDn, app.closed)
	}
}

func TestRunPropagatesLoadError(t *testing.T) {
	err := Run(Options{
		LoadConfig: func(string) (ConfigCarrier, error) { return nil, errors.New("bad yaml") },
		Bootstrap:  func(ConfigCarrier) (TelegramApp, error) { return nil, nil },
	})
	if err == nil {
		t.Fatal("expected error")
	}
}
