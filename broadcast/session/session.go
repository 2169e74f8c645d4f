// Package session holds the per-owner broadcast session and its stores.
package session

import (
	"context"
	"errors"
	"slices"
	"time"
)

// ErrNotFound is returned by stores when the owner has no session yet.
var ErrNotFound = errors.New("session: not found")

// State is the owner's position in the broadcast conversation.
type State string

const (
	StateIdle          State = "idle"
	StateEditingGroups State = "editing_groups"
	StateEditingPost   State = "editing_post"
)

// PostKind identifies the content shape of a stored post.
type PostKind string

const (
	PostPhoto PostKind = "photo"
	PostVideo PostKind = "video"
	PostText  PostKind = "text"
	PostAlbum PostKind = "album"
)

// MaxAlbumItems is the Telegram limit for a single media group.
const MaxAlbumItems = 10

// Group is a registered broadcast target.
type Group struct {
	ID int64 `json:"id"`
	// Handle is what the owner typed: "@name" or the invite link.
	Handle string `json:"handle"`
	Title  string `json:"title,omitempty"`
}

// Label returns a human readable name for replies.
func (g Group) Label() string {
	switch {
	case g.Handle != "":
		return g.Handle
	case g.Title != "":
		return g.Title
	}
	return "chat"
}

// MediaItem is one photo or video of a post, referenced by provider file id.
type MediaItem struct {
	Kind   PostKind `json:"kind"`
	FileID string   `json:"file_id"`
}

// Post is the content that gets broadcast.
type Post struct {
	Kind    PostKind    `json:"kind"`
	Items   []MediaItem `json:"items,omitempty"`
	Text    string      `json:"text,omitempty"`
	Caption string      `json:"caption,omitempty"`
	AlbumID string      `json:"album_id,omitempty"`
}

// Session is the broadcast state of one owner.
type Session struct {
	OwnerID int64
	Groups  []Group
	Post    *Post
	State   State
	// ConfirmPending is set while a broadcast waits for the owner's confirmation.
	ConfirmPending bool
	UpdatedAt      time.Time
}

// New returns an idle session without groups or post.
func New(ownerID int64) *Session {
	return &Session{OwnerID: ownerID, State: StateIdle}
}

// HasGroup reports whether chatID is already registered.
func (s *Session) HasGroup(chatID int64) bool {
	return slices.ContainsFunc(s.Groups, func(g Group) bool { return g.ID == chatID })
}

// AddGroup appends g unless a group with the same chat id exists.
func (s *Session) AddGroup(g Group) bool {
	if s.HasGroup(g.ID) {
		return false
	}
	s.Groups = append(s.Groups, g)
	return true
}

// RemoveGroup drops the group with chatID and reports whether it was present.
func (s *Session) RemoveGroup(chatID int64) bool {
	n := len(s.Groups)
	s.Groups = slices.DeleteFunc(s.Groups, func(g Group) bool { return g.ID == chatID })
	return len(s.Groups) != n
}

// Clone returns a deep copy so stores never share slices with callers.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Groups = slices.Clone(s.Groups)
	if s.Post != nil {
		p := *s.Post
		p.Items = slices.Clone(s.Post.Items)
		out.Post = &p
	}
	return &out
}

// Store persists sessions keyed by owner id.
type Store interface {
	// Get returns ErrNotFound when the owner has no session.
	Get(ctx context.Context, ownerID int64) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, ownerID int64) error
	Count(ctx context.Context) (int, error)
}
