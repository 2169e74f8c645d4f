package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizeInfersWebhookFromURL(t *testing.T) {
	cfg := &Config{
		Telegram: TelegramConfig{Token: "123:abc"},
		Webhook:  WebhookConfig{URL: "https://bot.example.org/"},
	}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeWebhook {
		t.Fatalf("run mode = %q, want webhook", cfg.Telegram.RunMode)
	}
	if cfg.Webhook.URL != "https://bot.example.org" {
		t.Fatalf("url = %q, trailing slash not trimmed", cfg.Webhook.URL)
	}
	if cfg.Webhook.Listen != DefaultWebhookListen || cfg.Webhook.Port != DefaultWebhookPort {
		t.Fatalf("unexpected listener %s:%d", cfg.Webhook.Listen, cfg.Webhook.Port)
	}
}

func TestNormalizeDefaultsToLongpoll(t *testing.T) {
	cfg := &Config{Telegram: TelegramConfig{Token: "123:abc", RunMode: "polling"}}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run mode = %q, want longpoll", cfg.Telegram.RunMode)
	}
	if cfg.Sender.Workers != 1 {
		t.Fatalf("sender workers = %d, want 1", cfg.Sender.Workers)
	}
}

func TestNormalizeRejectsInvalid(t *testing.T) {
	cases := map[string]*Config{
		"no token":       {},
		"bad mode":       {Telegram: TelegramConfig{Token: "t", RunMode: "carrier-pigeon"}},
		"webhook no url": {Telegram: TelegramConfig{Token: "t", RunMode: RunModeWebhook}},
		"plain http":     {Telegram: TelegramConfig{Token: "t"}, Webhook: WebhookConfig{URL: "http://insecure"}},
		"bad exclude":    {Telegram: TelegramConfig{Token: "t"}, RateLimit: RateLimitConfig{ExcludeUpdates: []string{"poll"}}},
	}
	for name, cfg := range cases {
		if err := Normalize(cfg); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadWithoutFileUsesEnv(t *testing.T) {
	t.Setenv("BOT_TOKEN", "42:env-token")
	t.Setenv("WEBHOOK_URL", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.Token != "42:env-token" {
		t.Fatalf("token = %q", cfg.Telegram.Token)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "telegram:\n  token: file-token\n  run_mode: longpoll\nlogging:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BOT_TOKEN", "env-token")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.Token != "env-token" {
		t.Fatalf("token = %q, want env override", cfg.Telegram.Token)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level = %q, want value from file", cfg.Logging.Level)
	}
}
