package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/m3rciful/groupcaster/broadcast/platform"
	"github.com/m3rciful/groupcaster/broadcast/session"
	"github.com/m3rciful/groupcaster/core/logger"
)

var (
	// ErrNoGroups means the owner has not registered any group yet.
	ErrNoGroups = errors.New("no groups registered")
	// ErrNoPost means the owner has not stored a post yet.
	ErrNoPost = errors.New("no post stored")
)

const maxLoggedTargets = 10

// Report is the outcome of one broadcast.
type Report struct {
	Total    int
	Sent     int
	Failures []Failure
}

// Dispatch sends the stored post to every registered group in order, one
// attempt per group. Failures are collected and never stop the loop. The
// session is left untouched so the same post can be sent again.
func (s *Service) Dispatch(ctx context.Context, sess *session.Session) (Report, error) {
	if len(sess.Groups) == 0 {
		return Report{}, ErrNoGroups
	}
	if !PostReady(sess.Post) {
		return Report{}, ErrNoPost
	}

	start := time.Now()
	rep := Report{Total: len(sess.Groups)}
	for _, g := range sess.Groups {
		if err := s.sendPost(ctx, g.ID, sess.Post); err != nil {
			reason := platform.Reason(err)
			rep.Failures = append(rep.Failures, Failure{Target: g.Label(), ChatID: g.ID, Reason: reason})
			logger.LogEvent(ctx, logger.Broadcast, slog.LevelWarn, "dispatch.target_failed",
				slog.Int64("chat_id", g.ID),
				slog.String("target", g.Label()),
				slog.String("reason", reason),
			)
			continue
		}
		rep.Sent++
	}

	failed := make([]string, len(rep.Failures))
	for i, f := range rep.Failures {
		failed[i] = f.Target
	}
	targets, more := logger.SummarizeStrings(failed, maxLoggedTargets)

	status := "ok"
	switch {
	case rep.Sent == 0:
		status = "fail"
	case len(rep.Failures) > 0:
		status = "partial"
	}
	logger.LogEvent(ctx, logger.Broadcast, slog.LevelInfo, "dispatch",
		slog.String("status", status),
		slog.String("post_kind", string(sess.Post.Kind)),
		slog.Int("count", rep.Total),
		slog.Int("sent", rep.Sent),
		slog.Int("failed", len(rep.Failures)),
		slog.String("target", targets),
		slog.Bool("truncated", more),
		slog.Duration("duration", time.Since(start)),
	)
	return rep, nil
}

func (s *Service) sendPost(ctx context.Context, chatID int64, p *session.Post) error {
	var err error
	switch p.Kind {
	case session.PostText:
		_, err = s.platform.SendText(ctx, chatID, p.Text)
	case session.PostPhoto, session.PostVideo:
		err = s.sendItem(ctx, chatID, p.Items[0], p.Caption)
	case session.PostAlbum:
		if len(p.Items) == 1 {
			err = s.sendItem(ctx, chatID, p.Items[0], p.Caption)
			break
		}
		media := make([]platform.Media, len(p.Items))
		for i, it := range p.Items {
			media[i] = platform.Media{Video: it.Kind == session.PostVideo, FileID: it.FileID}
		}
		_, err = s.platform.SendMediaGroup(ctx, chatID, media, p.Caption)
	default:
		err = fmt.Errorf("unsupported post kind %q", p.Kind)
	}
	return err
}

func (s *Service) sendItem(ctx context.Context, chatID int64, it session.MediaItem, caption string) error {
	var err error
	if it.Kind == session.PostVideo {
		_, err = s.platform.SendVideo(ctx, chatID, it.FileID, caption)
	} else {
		_, err = s.platform.SendPhoto(ctx, chatID, it.FileID, caption)
	}
	return err
}
