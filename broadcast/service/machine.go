package service

import (
	"context"
	"errors"

	"github.com/m3rciful/groupcaster/broadcast/session"
)

// Start greets the owner. A new session (or one without groups) starts
// waiting for group links right away.
func (s *Service) Start(ctx context.Context, ownerID int64) ([]Reply, error) {
	return s.update(ctx, ownerID, func(sess *session.Session) ([]Reply, error) {
		if len(sess.Groups) == 0 {
			sess.State = session.StateEditingGroups
			return []Reply{{Text: TextWelcome}}, nil
		}
		sess.State = session.StateIdle
		return []Reply{{Text: welcomeBack(sess), Buttons: idleButtons()}}, nil
	})
}

// EditGroups switches the owner to group entry.
func (s *Service) EditGroups(ctx context.Context, ownerID int64) ([]Reply, error) {
	return s.update(ctx, ownerID, func(sess *session.Session) ([]Reply, error) {
		sess.State = session.StateEditingGroups
		return []Reply{{Text: TextAskGroups, Buttons: [][]Button{{btnCancel()}}}}, nil
	})
}

// EditPost switches the owner to post entry.
func (s *Service) EditPost(ctx context.Context, ownerID int64) ([]Reply, error) {
	return s.update(ctx, ownerID, func(sess *session.Session) ([]Reply, error) {
		sess.State = session.StateEditingPost
		return []Reply{{Text: TextAskPost, Buttons: [][]Button{{btnCancel()}}}}, nil
	})
}

// Cancel returns the owner to Idle from any state.
func (s *Service) Cancel(ctx context.Context, ownerID int64) ([]Reply, error) {
	return s.update(ctx, ownerID, func(sess *session.Session) ([]Reply, error) {
		sess.State = session.StateIdle
		sess.ConfirmPending = false
		return []Reply{{Text: TextCancelled, Buttons: idleButtons()}}, nil
	})
}

// HandleText interprets a plain text message according to the owner's state.
func (s *Service) HandleText(ctx context.Context, ownerID int64, text string) ([]Reply, error) {
	return s.update(ctx, ownerID, func(sess *session.Session) ([]Reply, error) {
		switch sess.State {
		case session.StateEditingPost:
			return s.capture(sess, Content{Kind: session.PostText, Text: text}), nil
		case session.StateEditingGroups:
			return s.register(ctx, sess, text), nil
		}
		// Before any group is known, links are accepted without pressing a button.
		if len(sess.Groups) == 0 {
			return s.register(ctx, sess, text), nil
		}
		return []Reply{{Text: TextIdleHint, Buttons: idleButtons()}}, nil
	})
}

// HandleMedia interprets a photo or video message according to the owner's state.
func (s *Service) HandleMedia(ctx context.Context, ownerID int64, c Content) ([]Reply, error) {
	return s.update(ctx, ownerID, func(sess *session.Session) ([]Reply, error) {
		switch {
		case ContinuesAlbum(sess, c):
			if _, err := Capture(sess, c); err != nil {
				return captureError(err), nil
			}
			return nil, nil
		case sess.State == session.StateEditingGroups:
			return []Reply{{Text: TextMediaWhileGroups, Buttons: [][]Button{{btnCancel()}}}}, nil
		case sess.State == session.StateEditingPost, sess.Post == nil:
			return s.capture(sess, c), nil
		}
		return []Reply{{Text: TextPostExists, Buttons: [][]Button{{btnEditPost()}}}}, nil
	})
}

func (s *Service) register(ctx context.Context, sess *session.Session, text string) []Reply {
	res := s.Register(ctx, sess, text)
	if res.Found == 0 {
		return []Reply{{Text: TextNoTargets}}
	}
	if res.Registered() {
		sess.State = session.StateIdle
		return []Reply{{Text: registrationText(res), Buttons: [][]Button{{btnEditGroups()}}}}
	}
	return []Reply{{Text: registrationText(res), Buttons: [][]Button{{btnCancel()}}}}
}

func (s *Service) capture(sess *session.Session, c Content) []Reply {
	if _, err := Capture(sess, c); err != nil {
		return captureError(err)
	}
	sess.State = session.StateIdle
	return []Reply{{Text: postSavedText(sess.Post), Buttons: [][]Button{{btnEditPost()}}}}
}

func captureError(err error) []Reply {
	if errors.Is(err, ErrAlbumFull) {
		return []Reply{{Text: TextAlbumFull}}
	}
	return []Reply{{Text: TextEmptyContent}}
}

// Send starts a broadcast, or asks for confirmation first when enabled.
func (s *Service) Send(ctx context.Context, ownerID int64) ([]Reply, error) {
	return s.update(ctx, ownerID, func(sess *session.Session) ([]Reply, error) {
		if replies, ok := precondition(sess); !ok {
			return replies, nil
		}
		if s.opts.Confirm {
			sess.ConfirmPending = true
			return []Reply{{
				Text: confirmText(sess.Groups),
				Buttons: [][]Button{{
					{Text: "✅ Confirm", Unique: CallbackSendConfirm},
					{Text: "❌ Cancel", Unique: CallbackSendCancel},
				}},
			}}, nil
		}
		return s.dispatch(ctx, sess)
	})
}

// ConfirmSend runs a broadcast the owner confirmed. A confirmation is used
// at most once; stale or repeated presses do not broadcast again.
func (s *Service) ConfirmSend(ctx context.Context, ownerID int64) ([]Reply, error) {
	return s.update(ctx, ownerID, func(sess *session.Session) ([]Reply, error) {
		if !sess.ConfirmPending {
			return []Reply{{Text: TextConfirmExpired}}, nil
		}
		sess.ConfirmPending = false
		if replies, ok := precondition(sess); !ok {
			return replies, nil
		}
		return s.dispatch(ctx, sess)
	})
}

// CancelSend drops a pending confirmation.
func (s *Service) CancelSend(ctx context.Context, ownerID int64) ([]Reply, error) {
	return s.update(ctx, ownerID, func(sess *session.Session) ([]Reply, error) {
		sess.ConfirmPending = false
		return []Reply{{Text: TextSendCancelled}}, nil
	})
}

func precondition(sess *session.Session) ([]Reply, bool) {
	switch {
	case len(sess.Groups) == 0:
		return []Reply{{Text: TextNoGroups, Buttons: [][]Button{{btnEditGroups()}}}}, false
	case !PostReady(sess.Post):
		return []Reply{{Text: TextNoPost, Buttons: [][]Button{{btnEditPost()}}}}, false
	}
	return nil, true
}

func (s *Service) dispatch(ctx context.Context, sess *session.Session) ([]Reply, error) {
	head := Reply{Text: sendingText(sess.Groups)}
	rep, err := s.Dispatch(ctx, sess)
	switch {
	case errors.Is(err, ErrNoGroups):
		return []Reply{{Text: TextNoGroups}}, nil
	case errors.Is(err, ErrNoPost):
		return []Reply{{Text: TextNoPost}}, nil
	case err != nil:
		return nil, err
	}
	return append([]Reply{head}, reportReplies(rep)...), nil
}

// ShowGroups lists the registered groups with editing buttons.
func (s *Service) ShowGroups(ctx context.Context, ownerID int64) ([]Reply, error) {
	return s.update(ctx, ownerID, func(sess *session.Session) ([]Reply, error) {
		return []Reply{{Text: groupsText(sess.Groups), Buttons: groupsButtons(sess.Groups)}}, nil
	})
}

// ShowPost re-sends the stored post as a preview.
func (s *Service) ShowPost(ctx context.Context, ownerID int64) ([]Reply, error) {
	return s.update(ctx, ownerID, func(sess *session.Session) ([]Reply, error) {
		if !PostReady(sess.Post) {
			return []Reply{{Text: TextNoPostSaved, Buttons: [][]Button{{btnEditPost()}}}}, nil
		}
		return []Reply{{Post: sess.Post, Buttons: [][]Button{{btnEditPost()}}}}, nil
	})
}

// ClearGroups forgets every registered group.
func (s *Service) ClearGroups(ctx context.Context, ownerID int64) ([]Reply, error) {
	return s.update(ctx, ownerID, func(sess *session.Session) ([]Reply, error) {
		sess.Groups = nil
		return []Reply{{Text: TextGroupsCleared, Buttons: [][]Button{{btnEditGroups()}}}}, nil
	})
}

// RemoveGroup forgets a single group and shows the updated list.
func (s *Service) RemoveGroup(ctx context.Context, ownerID, chatID int64) ([]Reply, error) {
	return s.update(ctx, ownerID, func(sess *session.Session) ([]Reply, error) {
		if !sess.RemoveGroup(chatID) {
			return []Reply{{Text: TextGroupGone}}, nil
		}
		return []Reply{{Text: groupsText(sess.Groups), Buttons: groupsButtons(sess.Groups)}}, nil
	})
}
