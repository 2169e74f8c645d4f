package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/m3rciful/groupcaster/broadcast/platform"
	"github.com/m3rciful/groupcaster/broadcast/session"
	"github.com/m3rciful/groupcaster/broadcast/targets"
	"github.com/m3rciful/groupcaster/core/logger"
)

// Failure pairs a target with the reason it could not be used.
type Failure struct {
	Target string
	ChatID int64
	Reason string
}

// Registration summarizes one batch of group references.
type Registration struct {
	Found    int
	Added    []session.Group
	Existing []session.Group
	Failures []Failure
}

// Registered reports whether at least one target ended up in the group list.
func (r Registration) Registered() bool {
	return len(r.Added)+len(r.Existing) > 0
}

// Register extracts targets from text, verifies each through the platform and
// appends the usable ones to sess. Per-target failures never abort the batch.
func (s *Service) Register(ctx context.Context, sess *session.Session, text string) Registration {
	found := targets.Extract(text)
	res := Registration{Found: len(found)}
	for _, t := range found {
		chat, err := s.resolve(ctx, t)
		if err != nil {
			res.Failures = append(res.Failures, Failure{Target: t.Value, Reason: platform.Reason(err)})
			continue
		}
		if sess.HasGroup(chat.ID) {
			res.Existing = append(res.Existing, session.Group{ID: chat.ID, Handle: t.Value, Title: chat.Title})
			continue
		}
		if len(sess.Groups) >= s.opts.MaxGroups {
			res.Failures = append(res.Failures, Failure{
				Target: t.Value,
				ChatID: chat.ID,
				Reason: fmt.Sprintf("group limit reached (%d)", s.opts.MaxGroups),
			})
			continue
		}
		g := session.Group{ID: chat.ID, Handle: t.Value, Title: chat.Title}
		sess.AddGroup(g)
		res.Added = append(res.Added, g)
	}

	logger.LogEvent(ctx, logger.Broadcast, slog.LevelInfo, "register",
		slog.Int("count", res.Found),
		slog.String("target", logger.SanitizeLimit(strings.Join(targets.Handles(found), " "), 256)),
		slog.Int("groups", len(sess.Groups)),
		slog.Int("failed", len(res.Failures)),
	)
	return res
}

func (s *Service) resolve(ctx context.Context, t targets.Target) (platform.Chat, error) {
	var (
		chat platform.Chat
		err  error
	)
	switch t.Kind {
	case targets.KindInvite:
		chat, err = s.platform.JoinChat(ctx, t.Value)
	default:
		chat, err = s.platform.ResolveChat(ctx, t.Value)
	}
	if err != nil {
		return platform.Chat{}, err
	}

	status, err := s.platform.Membership(ctx, chat.ID)
	if err != nil {
		return platform.Chat{}, err
	}
	if !status.CanPost() {
		logger.LogEvent(ctx, logger.Broadcast, slog.LevelDebug, "register.not_member",
			slog.String("target", t.Value),
			slog.Int64("chat_id", chat.ID),
			slog.String("state", string(status)),
		)
		return platform.Chat{}, fmt.Errorf("%s: %w", t.Value, platform.ErrNotMember)
	}
	return chat, nil
}
