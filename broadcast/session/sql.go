package session

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Migrations holds the schema for SQLStore, applied with golang-migrate.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory of Migrations that holds the SQL files.
const MigrationsDir = "migrations"

type sqlRow struct {
	OwnerID    int64          `db:"owner_id"`
	State      string         `db:"state"`
	GroupsJSON string         `db:"groups_json"`
	PostJSON   sql.NullString `db:"post_json"`
	Pending    bool           `db:"confirm_pending"`
	UpdatedAt  int64          `db:"updated_at"`
}

const (
	selectSessionSQL = `SELECT owner_id, state, groups_json, post_json, confirm_pending, updated_at
FROM broadcast_sessions WHERE owner_id = ?`

	upsertSessionSQL = `INSERT INTO broadcast_sessions (owner_id, state, groups_json, post_json, confirm_pending, updated_at)
VALUES (:owner_id, :state, :groups_json, :post_json, :confirm_pending, :updated_at)
ON CONFLICT (owner_id) DO UPDATE SET
	state = excluded.state,
	groups_json = excluded.groups_json,
	post_json = excluded.post_json,
	confirm_pending = excluded.confirm_pending,
	updated_at = excluded.updated_at`

	deleteSessionSQL = `DELETE FROM broadcast_sessions WHERE owner_id = ?`
	countSessionsSQL = `SELECT COUNT(*) FROM broadcast_sessions`
)

// SQLStore keeps sessions in the broadcast_sessions table (postgres or sqlite).
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore wraps an open, migrated database.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Get loads the owner's session.
func (s *SQLStore) Get(ctx context.Context, ownerID int64) (*Session, error) {
	var row sqlRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(selectSessionSQL), ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session: select %d: %w", ownerID, err)
	}

	rec := record{OwnerID: row.OwnerID, State: row.State, Pending: row.Pending, UpdatedAt: row.UpdatedAt}
	if row.GroupsJSON != "" {
		if err := json.Unmarshal([]byte(row.GroupsJSON), &rec.Groups); err != nil {
			return nil, fmt.Errorf("session: decode groups of %d: %w", ownerID, err)
		}
	}
	if row.PostJSON.Valid && row.PostJSON.String != "" {
		rec.Post = &Post{}
		if err := json.Unmarshal([]byte(row.PostJSON.String), rec.Post); err != nil {
			return nil, fmt.Errorf("session: decode post of %d: %w", ownerID, err)
		}
	}
	return rec.session(), nil
}

// Put inserts or replaces the owner's session.
func (s *SQLStore) Put(ctx context.Context, sess *Session) error {
	rec := toRecord(sess)
	groups, err := json.Marshal(rec.Groups)
	if err != nil {
		return fmt.Errorf("session: encode groups of %d: %w", sess.OwnerID, err)
	}
	row := sqlRow{
		OwnerID:    rec.OwnerID,
		State:      rec.State,
		GroupsJSON: string(groups),
		Pending:    rec.Pending,
		UpdatedAt:  rec.UpdatedAt,
	}
	if rec.Post != nil {
		post, err := json.Marshal(rec.Post)
		if err != nil {
			return fmt.Errorf("session: encode post of %d: %w", sess.OwnerID, err)
		}
		row.PostJSON = sql.NullString{String: string(post), Valid: true}
	}
	if _, err := s.db.NamedExecContext(ctx, upsertSessionSQL, row); err != nil {
		return fmt.Errorf("session: upsert %d: %w", sess.OwnerID, err)
	}
	return nil
}

// Delete removes the owner's session.
func (s *SQLStore) Delete(ctx context.Context, ownerID int64) error {
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(deleteSessionSQL), ownerID); err != nil {
		return fmt.Errorf("session: delete %d: %w", ownerID, err)
	}
	return nil
}

// Count returns the number of stored sessions.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, countSessionsSQL); err != nil {
		return 0, fmt.Errorf("session: count: %w", err)
	}
	return n, nil
}
