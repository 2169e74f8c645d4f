package service

import (
	"errors"
	"strings"

	"github.com/m3rciful/groupcaster/broadcast/session"
)

var (
	// ErrEmptyContent is returned for messages without a usable post body.
	ErrEmptyContent = errors.New("message has no photo, video or text")
	// ErrAlbumFull is returned when an album already holds MaxAlbumItems items.
	ErrAlbumFull = errors.New("album item limit reached")
)

// Content is one inbound owner message reduced to what a post needs.
type Content struct {
	Kind    session.PostKind
	FileID  string
	Text    string
	Caption string
	// AlbumID is the Telegram media group id, empty for single messages.
	AlbumID string
}

// ContinuesAlbum reports whether c belongs to the album already stored in sess.
func ContinuesAlbum(sess *session.Session, c Content) bool {
	return c.AlbumID != "" && sess.Post != nil &&
		sess.Post.Kind == session.PostAlbum && sess.Post.AlbumID == c.AlbumID
}

// Capture stores c as the owner's post, replacing any previous one. Media that
// continues the stored album is appended instead; appended reports that case.
func Capture(sess *session.Session, c Content) (appended bool, err error) {
	if ContinuesAlbum(sess, c) {
		if c.FileID == "" {
			return false, ErrEmptyContent
		}
		if len(sess.Post.Items) >= session.MaxAlbumItems {
			return false, ErrAlbumFull
		}
		sess.Post.Items = append(sess.Post.Items, session.MediaItem{Kind: c.Kind, FileID: c.FileID})
		if sess.Post.Caption == "" {
			sess.Post.Caption = c.Caption
		}
		return true, nil
	}

	switch c.Kind {
	case session.PostPhoto, session.PostVideo:
		if c.FileID == "" {
			return false, ErrEmptyContent
		}
		post := &session.Post{
			Kind:    c.Kind,
			Items:   []session.MediaItem{{Kind: c.Kind, FileID: c.FileID}},
			Caption: c.Caption,
		}
		if c.AlbumID != "" {
			post.Kind = session.PostAlbum
			post.AlbumID = c.AlbumID
		}
		sess.Post = post
	case session.PostText:
		text := strings.TrimSpace(c.Text)
		if text == "" {
			return false, ErrEmptyContent
		}
		sess.Post = &session.Post{Kind: session.PostText, Text: text}
	default:
		return false, ErrEmptyContent
	}
	return false, nil
}

// PostReady reports whether p can be broadcast.
func PostReady(p *session.Post) bool {
	if p == nil {
		return false
	}
	if p.Kind == session.PostText {
		return strings.TrimSpace(p.Text) != ""
	}
	return len(p.Items) > 0
}
