// Package platform describes the messaging capabilities the broadcaster needs
// and implements them on top of the Telegram Bot API.
package platform

import (
	"context"
	"errors"
)

var (
	// ErrNotMember means the bot cannot post to the chat because it left or was removed.
	ErrNotMember = errors.New("bot is not a member of this chat")
	// ErrJoinUnsupported means the account cannot accept invite links.
	ErrJoinUnsupported = errors.New("bots cannot join chats by invite link")
	// ErrNotAttached is returned before a bot client is attached to the adapter.
	ErrNotAttached = errors.New("platform: bot client not attached")
)

// Chat is a resolved group or channel.
type Chat struct {
	ID       int64
	Title    string
	Username string
	Type     string
}

// MemberStatus is the bot's role in a chat.
type MemberStatus string

const (
	StatusCreator       MemberStatus = "creator"
	StatusAdministrator MemberStatus = "administrator"
	StatusMember        MemberStatus = "member"
	StatusRestricted    MemberStatus = "restricted"
	StatusLeft          MemberStatus = "left"
	StatusKicked        MemberStatus = "kicked"
)

// CanPost reports whether the status still lets the bot reach the chat.
func (s MemberStatus) CanPost() bool {
	return s != StatusLeft && s != StatusKicked
}

// Media is one element of a media group.
type Media struct {
	Video  bool
	FileID string
}

// Receipt identifies the messages produced by a send.
type Receipt struct {
	ChatID     int64
	MessageIDs []int
}

// Platform is the set of messaging operations used by registration and dispatch.
type Platform interface {
	ResolveChat(ctx context.Context, handle string) (Chat, error)
	JoinChat(ctx context.Context, inviteLink string) (Chat, error)
	Membership(ctx context.Context, chatID int64) (MemberStatus, error)
	SendPhoto(ctx context.Context, chatID int64, fileID, caption string) (Receipt, error)
	SendVideo(ctx context.Context, chatID int64, fileID, caption string) (Receipt, error)
	SendText(ctx context.Context, chatID int64, text string) (Receipt, error)
	SendMediaGroup(ctx context.Context, chatID int64, items []Media, caption string) (Receipt, error)
}
