package helpers

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/m3rciful/groupcaster/core/logger"
	"github.com/m3rciful/groupcaster/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

var globalDispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher wires the asynchronous sender used by helper functions.
func SetDispatcher(d *sender.Dispatcher) {
	globalDispatcher.Store(d)
}

func currentDispatcher() *sender.Dispatcher {
	return globalDispatcher.Load()
}

func sendAsync(c tele.Context, action, endpoint string, withKeyboard bool, run func() error) error {
	countReply(c, withKeyboard)
	disp := currentDispatcher()
	if disp == nil {
		return run()
	}

	ctx := BuildContext(c)
	if err := disp.Enqueue(ctx, action, endpoint, run); err != nil {
		if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
			logger.Warn(ctx, "tg.sender", "queue.fallback",
				slog.String("action", action),
				slog.String("endpoint", endpoint),
				slog.String("err", err.Error()),
			)
			return run()
		}
		return err
	}
	return nil
}

// SendText sends raw text (no parse mode) to the current recipient.
func SendText(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	opts := &tele.SendOptions{DisableWebPagePreview: true}
	if len(markup) > 0 && markup[0] != nil {
		opts.ReplyMarkup = markup[0]
	}
	return sendAsync(c, "send.text", "sendMessage", opts.ReplyMarkup != nil, func() error {
		return c.Send(text, opts)
	})
}

// SendMedia sends a photo, video or album to the current recipient.
func SendMedia(c tele.Context, what any, markup ...*tele.ReplyMarkup) error {
	action, endpoint := "send.media", "sendMedia"
	switch v := what.(type) {
	case *tele.Photo:
		action, endpoint = "send.photo", "sendPhoto"
	case *tele.Video:
		action, endpoint = "send.video", "sendVideo"
	case tele.Album:
		return sendAsync(c, "send.album", "sendMediaGroup", false, func() error {
			return c.SendAlbum(v)
		})
	}
	var opts []any
	if len(markup) > 0 && markup[0] != nil {
		opts = append(opts, markup[0])
	}
	return sendAsync(c, action, endpoint, len(opts) > 0, func() error {
		return c.Send(what, opts...)
	})
}
