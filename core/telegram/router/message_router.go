package router

import (
	"strings"
	"time"

	tg "github.com/m3rciful/groupcaster/core/telegram"
	"github.com/m3rciful/groupcaster/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// Conversation receives the plain messages that are not commands.
type Conversation interface {
	HandleText(c tele.Context) error
	HandleMedia(c tele.Context) error
}

// MessageOptions controls fallback behaviour for text, media and document updates.
type MessageOptions struct {
	UnknownCommand  tele.HandlerFunc
	UnknownDocument tele.HandlerFunc
}

// MessageRoutes builds handlers for text, photo, video and document updates.
// Slash-prefixed text is resolved through the registry (aliases included)
// before it reaches the conversation.
func MessageRoutes(conv Conversation, reg *tg.Registry, opts MessageOptions) []tg.Route {
	textHandler := func(c tele.Context) error {
		start := time.Now()
		text := strings.TrimSpace(c.Text())

		if strings.HasPrefix(text, "/") {
			name, _, _ := strings.Cut(strings.Fields(text)[0], "@")
			if reg != nil {
				if key, cmd, ok := reg.LookupCommand(name); ok && cmd.Handler != nil && !cmd.AdminOnly {
					return handleWithSummary(c, normalizeHandlerName(key), start, "", "", func() error {
						return cmd.Handler(c)
					})
				}
			}
			if opts.UnknownCommand != nil {
				return handleWithSummary(c, "unknown_command", start, "", "", func() error {
					return opts.UnknownCommand(c)
				})
			}
			logHandlerSummary(c, "unknown_command", start, "skip", "ok", nil)
			return nil
		}

		if conv != nil {
			return handleWithSummary(c, "text", start, "", "", func() error {
				return conv.HandleText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	mediaHandler := func(c tele.Context) error {
		start := time.Now()
		if conv == nil {
			logHandlerSummary(c, "media", start, "skip", "ok", nil)
			return nil
		}
		return handleWithSummary(c, "media", start, "", "", func() error {
			return conv.HandleMedia(c)
		})
	}

	docHandler := func(c tele.Context) error {
		start := time.Now()
		if opts.UnknownDocument != nil {
			return handleWithSummary(c, "unexpected_document", start, "", "", func() error {
				return opts.UnknownDocument(c)
			})
		}
		logHandlerSummary(c, "unexpected_document", start, "skip", "ok", nil)
		return nil
	}

	wrap := func(h tele.HandlerFunc) tele.HandlerFunc {
		return middleware.RecoverMiddleware(middleware.LoggerMiddleware(h))
	}
	return []tg.Route{
		{Endpoint: tele.OnText, Handler: wrap(textHandler)},
		{Endpoint: tele.OnPhoto, Handler: wrap(mediaHandler)},
		{Endpoint: tele.OnVideo, Handler: wrap(mediaHandler)},
		{Endpoint: tele.OnDocument, Handler: wrap(docHandler)},
	}
}
