// Package app wires configuration, storage and the Telegram runtime into
// the broadcast bot.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/groupcaster/broadcast/handlers"
	"github.com/m3rciful/groupcaster/broadcast/platform"
	"github.com/m3rciful/groupcaster/broadcast/service"
	"github.com/m3rciful/groupcaster/broadcast/session"
	"github.com/m3rciful/groupcaster/core/bootstrap"
	"github.com/m3rciful/groupcaster/core/logger"
	tg "github.com/m3rciful/groupcaster/core/telegram"
	tgsender "github.com/m3rciful/groupcaster/core/telegram/sender"
)

// App holds the long-lived components of the bot.
type App struct {
	cfg      *Config
	db       *sqlx.DB
	store    session.Store
	platform *platform.Telebot
	service  *service.Service
	handlers *handlers.Handlers
	registry *tg.Registry
}

// BootstrapOptions allows tests to replace infrastructure steps.
type BootstrapOptions struct {
	Bootstrap bootstrap.Options
	// Registry receives the bot's commands; nil starts from an empty one.
	// Commands added beforehand are served alongside the broadcast ones.
	Registry *tg.Registry
}

// Bootstrap initializes logging, the session store and the handlers.
func Bootstrap(cfg *Config, opts BootstrapOptions) (*App, error) {
	bopts := opts.Bootstrap
	bopts.Config = cfg.CoreConfig()
	if cfg.Storage.UsesSQL() {
		bopts.Database = cfg.Storage.DB
		bopts.Migrations = session.Migrations
		bopts.MigrationsDir = session.MigrationsDir
	}
	res, err := bootstrap.Run(bopts)
	if err != nil {
		return nil, err
	}

	store, err := session.Open(context.Background(), cfg.Storage, res.DB)
	if err != nil {
		if res.DB != nil {
			_ = res.DB.Close()
		}
		return nil, err
	}

	reg := opts.Registry
	if reg == nil {
		reg = tg.NewRegistry()
	}
	p := platform.NewTelebot(nil)
	svc := service.New(p, store, service.Options{
		Confirm:   cfg.Broadcast.Confirm,
		MaxGroups: cfg.Broadcast.MaxGroups,
	})
	a := &App{
		cfg:      cfg,
		db:       res.DB,
		store:    store,
		platform: p,
		service:  svc,
		handlers: handlers.New(svc, reg),
		registry: reg,
	}
	if err := a.handlers.Register(); err != nil {
		return nil, errors.Join(fmt.Errorf("register handlers: %w", err), a.Close())
	}
	return a, nil
}

// TelegramRunOptions builds the runtime options for RunTelegram.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	core := a.cfg.CoreConfig()
	return tg.RunOptions{
		Config:   core,
		Registry: a.registry,
		DispatcherOptions: tgsender.Options{
			Workers:    core.Sender.Workers,
			QueueSize:  core.Sender.QueueSize,
			MaxRetries: core.Sender.MaxRetries,
		},
		Middlewares: tg.DefaultMiddlewares(core, a.handlers.OnLimited),
		Routes:      a.handlers.Routes(core.Telegram.AdminID),
		OnStart: func(ctx context.Context, rt tg.Runtime) error {
			a.platform.Attach(rt.Bot)
			if rt.Dispatcher != nil {
				a.handlers.SetQueue(rt.Dispatcher)
			}
			attrs := []slog.Attr{
				slog.String("event", "wired"),
				slog.String("driver", a.cfg.Storage.Driver),
				slog.Bool("confirm", a.cfg.Broadcast.Confirm),
				slog.Int("max_groups", a.cfg.Broadcast.MaxGroups),
			}
			if rt.Bot != nil && rt.Bot.Me != nil {
				attrs = append(attrs, slog.String("username", rt.Bot.Me.Username))
			}
			logger.Broadcast.LogAttrs(ctx, slog.LevelInfo, "broadcast wired", attrs...)
			return nil
		},
	}, nil
}

// Close releases the session store and the database connection.
func (a *App) Close() error {
	var errs []error
	if c, ok := a.store.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
