package platform

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"
)

// Telebot implements Platform with a telebot client. The client may be
// attached after construction, once the bot runtime has created it.
type Telebot struct {
	bot atomic.Pointer[tele.Bot]
}

// NewTelebot returns an adapter; bot may be nil and attached later.
func NewTelebot(bot *tele.Bot) *Telebot {
	t := &Telebot{}
	if bot != nil {
		t.bot.Store(bot)
	}
	return t
}

// Attach sets the client used for API calls.
func (t *Telebot) Attach(bot *tele.Bot) {
	t.bot.Store(bot)
}

func (t *Telebot) client(ctx context.Context) (*tele.Bot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b := t.bot.Load()
	if b == nil {
		return nil, ErrNotAttached
	}
	return b, nil
}

// ResolveChat looks up a public chat by "@username".
func (t *Telebot) ResolveChat(ctx context.Context, handle string) (Chat, error) {
	b, err := t.client(ctx)
	if err != nil {
		return Chat{}, err
	}
	if !strings.HasPrefix(handle, "@") {
		handle = "@" + handle
	}
	chat, err := b.ChatByUsername(handle)
	if err != nil {
		return Chat{}, fmt.Errorf("resolve %s: %w", handle, err)
	}
	return fromTeleChat(chat), nil
}

// JoinChat always fails: the Bot API offers no way for a bot to accept an invite link.
func (t *Telebot) JoinChat(_ context.Context, inviteLink string) (Chat, error) {
	return Chat{}, fmt.Errorf("join %s: %w", inviteLink, ErrJoinUnsupported)
}

// Membership returns the bot's own status in chatID.
func (t *Telebot) Membership(ctx context.Context, chatID int64) (MemberStatus, error) {
	b, err := t.client(ctx)
	if err != nil {
		return "", err
	}
	member, err := b.ChatMemberOf(&tele.Chat{ID: chatID}, b.Me)
	if err != nil {
		return "", fmt.Errorf("membership in %d: %w", chatID, err)
	}
	status := MemberStatus(member.Role)
	// Restricted users that already left keep the "restricted" role.
	if status == StatusRestricted && !member.Member {
		status = StatusLeft
	}
	return status, nil
}

// SendPhoto posts a photo by file id.
func (t *Telebot) SendPhoto(ctx context.Context, chatID int64, fileID, caption string) (Receipt, error) {
	return t.send(ctx, chatID, &tele.Photo{File: tele.File{FileID: fileID}, Caption: caption})
}

// SendVideo posts a video by file id.
func (t *Telebot) SendVideo(ctx context.Context, chatID int64, fileID, caption string) (Receipt, error) {
	return t.send(ctx, chatID, &tele.Video{File: tele.File{FileID: fileID}, Caption: caption})
}

// SendText posts a plain text message.
func (t *Telebot) SendText(ctx context.Context, chatID int64, text string) (Receipt, error) {
	return t.send(ctx, chatID, text)
}

// SendMediaGroup posts items as one album; caption goes on the first item.
func (t *Telebot) SendMediaGroup(ctx context.Context, chatID int64, items []Media, caption string) (Receipt, error) {
	b, err := t.client(ctx)
	if err != nil {
		return Receipt{}, err
	}
	album := BuildAlbum(items, caption)
	if len(album) == 0 {
		return Receipt{}, fmt.Errorf("send album to %d: no items", chatID)
	}
	msgs, err := b.SendAlbum(tele.ChatID(chatID), album)
	if err != nil {
		return Receipt{}, fmt.Errorf("send album to %d: %w", chatID, err)
	}
	r := Receipt{ChatID: chatID}
	for _, m := range msgs {
		r.MessageIDs = append(r.MessageIDs, m.ID)
	}
	return r, nil
}

// BuildAlbum converts items to a telebot album with caption on the first element.
func BuildAlbum(items []Media, caption string) tele.Album {
	album := make(tele.Album, 0, len(items))
	for i, it := range items {
		c := ""
		if i == 0 {
			c = caption
		}
		if it.Video {
			album = append(album, &tele.Video{File: tele.File{FileID: it.FileID}, Caption: c})
		} else {
			album = append(album, &tele.Photo{File: tele.File{FileID: it.FileID}, Caption: c})
		}
	}
	return album
}

func (t *Telebot) send(ctx context.Context, chatID int64, what any) (Receipt, error) {
	b, err := t.client(ctx)
	if err != nil {
		return Receipt{}, err
	}
	msg, err := b.Send(tele.ChatID(chatID), what)
	if err != nil {
		return Receipt{}, fmt.Errorf("send to %d: %w", chatID, err)
	}
	r := Receipt{ChatID: chatID}
	if msg != nil {
		r.MessageIDs = []int{msg.ID}
	}
	return r, nil
}

func fromTeleChat(c *tele.Chat) Chat {
	if c == nil {
		return Chat{}
	}
	title := c.Title
	if title == "" {
		title = strings.TrimSpace(c.FirstName + " " + c.LastName)
	}
	return Chat{ID: c.ID, Title: title, Username: c.Username, Type: string(c.Type)}
}
