package middleware

import (
	"log/slog"

	"github.com/m3rciful/groupcaster/core/logger"

	tele "gopkg.in/telebot.v4"
)

// PrivateOnlyMiddleware drops updates that do not come from a private chat.
// Callbacks are judged by the chat of the message carrying the button.
func PrivateOnlyMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		chat := c.Chat()
		if chat == nil || chat.Type != tele.ChatPrivate {
			if logger.ShouldSampleDebug() {
				attrs := []slog.Attr{slog.String("event", "tg.not_private"), slog.String("status", "skip")}
				if chat != nil {
					attrs = append(attrs,
						slog.Int64("chat_id", chat.ID),
						slog.String("chat_type", string(chat.Type)),
					)
				}
				logger.TG.LogAttrs(logger.Background(), slog.LevelDebug, "update ignored", attrs...)
			}
			return nil
		}
		return next(c)
	}
}
