package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/m3rciful/groupcaster/core/logger"
	tghelpers "github.com/m3rciful/groupcaster/core/telegram/helpers"

	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v4"
)

// RateLimitOptions configures behaviour of the rate limit middleware.
type RateLimitOptions struct {
	// Interval is the refill period of one token per user.
	Interval  time.Duration
	Burst     int
	Exclude   map[string]struct{}
	OnLimited tele.HandlerFunc
	// IdleTTL drops limiters of users that were quiet for this long; 0 -> 10m.
	IdleTTL time.Duration
}

type userLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
	// albums holds media groups already admitted, by album id.
	albums map[string]time.Time
}

// albumWindow bounds how long the remaining items of an admitted album pass
// without being charged.
const albumWindow = time.Minute

// RateLimitMiddleware returns a middleware that applies a token bucket per user.
// Telegram delivers every album item as its own update; an album costs one
// token, charged on its first item.
func RateLimitMiddleware(opts RateLimitOptions) tele.MiddlewareFunc {
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = 10 * time.Minute
	}
	var (
		mu        sync.Mutex
		limiters  = make(map[int64]*userLimiter)
		lastSweep time.Time
	)
	allow := func(userID int64, albumID string, now time.Time) bool {
		mu.Lock()
		defer mu.Unlock()
		if now.Sub(lastSweep) > opts.IdleTTL {
			for id, ul := range limiters {
				if now.Sub(ul.lastSeen) > opts.IdleTTL {
					delete(limiters, id)
				}
			}
			lastSweep = now
		}
		ul, ok := limiters[userID]
		if !ok {
			ul = &userLimiter{lim: rate.NewLimiter(rate.Every(opts.Interval), opts.Burst)}
			limiters[userID] = ul
		}
		ul.lastSeen = now
		if albumID != "" {
			for id, seen := range ul.albums {
				if now.Sub(seen) > albumWindow {
					delete(ul.albums, id)
				}
			}
			if _, admitted := ul.albums[albumID]; admitted {
				return true
			}
		}
		if !ul.lim.AllowN(now, 1) {
			return false
		}
		if albumID != "" {
			if ul.albums == nil {
				ul.albums = make(map[string]time.Time)
			}
			ul.albums[albumID] = now
		}
		return true
	}

	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Interval <= 0 {
				return next(c)
			}

			if _, skip := opts.Exclude[updateKind(c.Update())]; skip {
				return next(c)
			}

			var albumID string
			if m := c.Message(); m != nil {
				albumID = m.AlbumID
			}
			if allow(user.ID, albumID, time.Now()) {
				return next(c)
			}

			logger.TG.LogAttrs(tghelpers.BuildContext(c), slog.LevelWarn, "rate limit",
				slog.String("event", "tg.rate_limit"),
				slog.String("status", "rate_limited"),
				slog.Int64("user_id", user.ID),
			)
			if opts.OnLimited != nil {
				_ = opts.OnLimited(c)
			}
			return nil
		}
	}
}

func updateKind(upd tele.Update) string {
	switch {
	case upd.Callback != nil:
		return "callback"
	case upd.Message != nil:
		return "message"
	}
	return "other"
}
