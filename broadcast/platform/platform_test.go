package platform

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

func TestReasonClassification(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("membership in 1: %w", ErrNotMember), "bot is not a member of this chat"},
		{fmt.Errorf("join x: %w", ErrJoinUnsupported), "bots cannot join by invite link; add the bot to the group and send its @username"},
		{fmt.Errorf("resolve @foo: %w", tele.NewError(400, "Bad Request: chat not found")), "chat not found"},
		{tele.NewError(403, "Forbidden: bot was kicked from the supergroup chat"), "bot is not a member of this chat"},
		{tele.NewError(400, "Bad Request: not enough rights to send photos to the chat"), "bot is not allowed to post in this chat"},
		{errors.New("telegram: Forbidden: something new (403)"), "forbidden: telegram: Forbidden: something new (403)"},
		{errors.New(`Post "https://api.telegram.org/bot123:ABC_def/sendPhoto": EOF`), `Post "https://api.telegram.org/bot<redacted>/sendPhoto": EOF`},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Reason(tc.err), "err %v", tc.err)
	}
	require.Empty(t, Reason(nil))
}

func TestMemberStatusCanPost(t *testing.T) {
	require.True(t, StatusAdministrator.CanPost())
	require.True(t, StatusMember.CanPost())
	require.True(t, StatusRestricted.CanPost())
	require.False(t, StatusLeft.CanPost())
	require.False(t, StatusKicked.CanPost())
}

func TestTelebotRequiresAttachedClient(t *testing.T) {
	p := NewTelebot(nil)
	_, err := p.SendText(context.Background(), 1, "hi")
	require.ErrorIs(t, err, ErrNotAttached)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.ResolveChat(ctx, "@foo")
	require.ErrorIs(t, err, context.Canceled)
}

func TestTelebotJoinUnsupported(t *testing.T) {
	_, err := NewTelebot(nil).JoinChat(context.Background(), "https://t.me/+abc")
	require.ErrorIs(t, err, ErrJoinUnsupported)
}

func TestBuildAlbumCaptionOnFirst(t *testing.T) {
	album := BuildAlbum([]Media{{FileID: "p1"}, {Video: true, FileID: "v2"}}, "hello")
	require.Len(t, album, 2)
	photo, ok := album[0].(*tele.Photo)
	require.True(t, ok)
	require.Equal(t, "p1", photo.FileID)
	require.Equal(t, "hello", photo.Caption)
	video, ok := album[1].(*tele.Video)
	require.True(t, ok)
	require.Equal(t, "v2", video.FileID)
	require.Empty(t, video.Caption)
}

func TestFromTeleChat(t *testing.T) {
	got := fromTeleChat(&tele.Chat{ID: -100, Title: "Foo", Username: "foo", Type: tele.ChatSuperGroup})
	require.Equal(t, Chat{ID: -100, Title: "Foo", Username: "foo", Type: "supergroup"}, got)
	require.Equal(t, Chat{}, fromTeleChat(nil))
}
