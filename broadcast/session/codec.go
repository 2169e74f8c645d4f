package session

import (
	"encoding/json"
	"fmt"
	"time"
)

// record is the serialized form shared by the SQL and Redis stores.
type record struct {
	OwnerID   int64   `json:"owner_id"`
	State     string  `json:"state"`
	Groups    []Group `json:"groups,omitempty"`
	Post      *Post   `json:"post,omitempty"`
	Pending   bool    `json:"confirm_pending,omitempty"`
	UpdatedAt int64   `json:"updated_at"`
}

func toRecord(s *Session) record {
	return record{
		OwnerID:   s.OwnerID,
		State:     string(s.State),
		Groups:    s.Groups,
		Post:      s.Post,
		Pending:   s.ConfirmPending,
		UpdatedAt: s.UpdatedAt.UnixMilli(),
	}
}

func (r record) session() *Session {
	s := &Session{
		OwnerID: r.OwnerID,
		State:   State(r.State),
		Groups:  r.Groups,
		Post:    r.Post,
	}
	s.ConfirmPending = r.Pending
	if s.State == "" {
		s.State = StateIdle
	}
	if r.UpdatedAt != 0 {
		s.UpdatedAt = time.UnixMilli(r.UpdatedAt).UTC()
	}
	return s
}

func encodeSession(s *Session) ([]byte, error) {
	data, err := json.Marshal(toRecord(s))
	if err != nil {
		return nil, fmt.Errorf("session: encode %d: %w", s.OwnerID, err)
	}
	return data, nil
}

func decodeSession(data []byte) (*Session, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("session: decode: %w", err)
	}
	return r.session(), nil
}
