// Package service implements group registration, post capture and broadcast
// dispatch on top of the per-owner session state machine.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/m3rciful/groupcaster/broadcast/platform"
	"github.com/m3rciful/groupcaster/broadcast/session"
	"github.com/m3rciful/groupcaster/core/logger"
)

// DefaultMaxGroups caps the number of groups one owner may register.
const DefaultMaxGroups = 50

// Options tunes the service behaviour.
type Options struct {
	// Confirm asks the owner to confirm a broadcast before it runs.
	Confirm bool
	// MaxGroups caps registered groups per owner; 0 means DefaultMaxGroups.
	MaxGroups int
	Now       func() time.Time
}

// Service owns the broadcast workflow for every owner.
type Service struct {
	platform platform.Platform
	store    session.Store
	opts     Options

	locksMu sync.Mutex
	locks   map[int64]*sync.Mutex
}

// New builds a Service. Nil store falls back to an in-memory one.
func New(p platform.Platform, store session.Store, opts Options) *Service {
	if store == nil {
		store = session.NewMemoryStore()
	}
	if opts.MaxGroups <= 0 {
		opts.MaxGroups = DefaultMaxGroups
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		platform: p,
		store:    store,
		opts:     opts,
		locks:    make(map[int64]*sync.Mutex),
	}
}

// Stats is a snapshot for the admin diagnostics command.
type Stats struct {
	Sessions int
}

// Stats reports the number of stored sessions.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count sessions: %w", err)
	}
	return Stats{Sessions: n}, nil
}

// Session returns a copy of the owner's session, or session.ErrNotFound.
func (s *Service) Session(ctx context.Context, ownerID int64) (*session.Session, error) {
	return s.store.Get(ctx, ownerID)
}

func (s *Service) lock(ownerID int64) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	mu, ok := s.locks[ownerID]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[ownerID] = mu
	}
	return mu
}

// update loads (or creates) the owner's session, applies fn and stores the
// result. Updates for the same owner are serialized so album items arriving
// on parallel goroutines are not lost.
func (s *Service) update(ctx context.Context, ownerID int64, fn func(*session.Session) ([]Reply, error)) ([]Reply, error) {
	mu := s.lock(ownerID)
	mu.Lock()
	defer mu.Unlock()

	sess, err := s.store.Get(ctx, ownerID)
	switch {
	case errors.Is(err, session.ErrNotFound):
		sess = session.New(ownerID)
	case err != nil:
		return nil, fmt.Errorf("load session %d: %w", ownerID, err)
	}

	from := sess.State
	replies, err := fn(sess)
	if err != nil {
		return nil, err
	}
	sess.UpdatedAt = s.opts.Now()
	if err := s.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session %d: %w", ownerID, err)
	}
	if from != sess.State {
		logger.LogEvent(ctx, logger.Session, slog.LevelDebug, "state.transition",
			slog.Int64("user_id", ownerID),
			slog.String("from_state", string(from)),
			slog.String("to_state", string(sess.State)),
		)
	}
	return replies, nil
}
