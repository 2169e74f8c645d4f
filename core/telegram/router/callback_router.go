package router

import (
	"log/slog"
	"time"

	tg "github.com/m3rciful/groupcaster/core/telegram"
	"github.com/m3rciful/groupcaster/core/telegram/callbacks"
	"github.com/m3rciful/groupcaster/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// CallbackOptions customises fallback behaviour for callbacks.
type CallbackOptions struct {
	// NotFound overrides the registry answer for unknown keys.
	NotFound tele.HandlerFunc
}

// CallbackRoute returns the single OnCallback route that dispatches button
// presses by unique key. Known callbacks are acknowledged before the handler
// runs so the client stops its spinner even if the handler is slow.
func CallbackRoute(reg *tg.Registry, opts CallbackOptions) tg.Route {
	notFound := opts.NotFound
	if notFound == nil {
		notFound = reg.CallbackNotFound()
	}
	handler := func(c tele.Context) error {
		if c.Callback() == nil {
			return nil
		}
		start := time.Now()
		key, _ := callbacks.ParseCallbackData(c.Callback())
		name := "callback." + normalizeHandlerName(key)
		extras := []slog.Attr{slog.String("cb_key", key)}

		run, ok := reg.GetCallback(key)
		if !ok {
			extras = append(extras, slog.String("reason", "not_found"))
			run = notFound
		} else {
			_ = c.Respond()
		}
		return handleWithSummary(c, name, start, "", "", func() error {
			return run(c)
		}, extras...)
	}
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}
