package router

import (
	"errors"
	"testing"

	tg "github.com/m3rciful/groupcaster/core/telegram"
	"github.com/m3rciful/groupcaster/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

type fakeConversation struct {
	texts, media int
}

func (f *fakeConversation) HandleText(tele.Context) error  { f.texts++; return nil }
func (f *fakeConversation) HandleMedia(tele.Context) error { f.media++; return nil }

func newBot(t *testing.T) *tele.Bot {
	t.Helper()
	b, err := tele.NewBot(tele.Settings{Offline: true})
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func privateMessage(b *tele.Bot, m *tele.Message) tele.Context {
	m.Sender = &tele.User{ID: 5}
	m.Chat = &tele.Chat{ID: 5, Type: tele.ChatPrivate}
	return b.NewContext(tele.Update{ID: 10, Message: m})
}

func routeFor(t *testing.T, routes []tg.Route, endpoint string) tele.HandlerFunc {
	t.Helper()
	for _, r := range routes {
		if r.Endpoint == endpoint {
			return r.Handler
		}
	}
	t.Fatalf("no route for %q", endpoint)
	return nil
}

func TestMessageRoutesDispatch(t *testing.T) {
	b := newBot(t)
	reg := tg.NewRegistry()
	var cancels int
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     func(tele.Context) error { cancels++; return nil },
		Description: "Cancel",
		Aliases:     []string{"stop"},
	})
	var unknown int
	conv := &fakeConversation{}
	routes := MessageRoutes(conv, reg, MessageOptions{
		UnknownCommand: func(tele.Context) error { unknown++; return nil },
	})

	text := routeFor(t, routes, tele.OnText)
	_ = text(privateMessage(b, &tele.Message{Text: "@foo https://t.me/bar"}))
	_ = text(privateMessage(b, &tele.Message{Text: "/stop@groupcaster_bot"}))
	_ = text(privateMessage(b, &tele.Message{Text: "/nope"}))
	if conv.texts != 1 || cancels != 1 || unknown != 1 {
		t.Fatalf("texts=%d cancels=%d unknown=%d", conv.texts, cancels, unknown)
	}

	photo := routeFor(t, routes, tele.OnPhoto)
	video := routeFor(t, routes, tele.OnVideo)
	_ = photo(privateMessage(b, &tele.Message{Photo: &tele.Photo{File: tele.File{FileID: "p"}}}))
	_ = video(privateMessage(b, &tele.Message{Video: &tele.Video{File: tele.File{FileID: "v"}}}))
	if conv.media != 2 {
		t.Fatalf("media = %d, want 2", conv.media)
	}
}

func TestDeriveErrorCode(t *testing.T) {
	if got := deriveErrorCode(&tele.Error{Code: 403, Description: "Forbidden"}); got != "TG_403" {
		t.Fatalf("code = %q", got)
	}
	if got := deriveErrorCode(errors.New("x")); got != "ERRORSTRING" {
		t.Fatalf("code = %q", got)
	}
}

func TestCommandRoutesAliasesAndAdminGate(t *testing.T) {
	b := newBot(t)
	reg := tg.NewRegistry()
	var sends, stats, rejected int
	_ = reg.RegisterCommand("/send", commands.Command{
		Handler:     func(tele.Context) error { sends++; return nil },
		Description: "Send",
		Aliases:     []string{"broadcast"},
	})
	_ = reg.RegisterCommand("/stats", commands.Command{
		Handler:     func(tele.Context) error { stats++; return nil },
		Description: "Stats",
		AdminOnly:   true,
	})
	routes := CommandRoutes(reg, CommandRouteOptions{
		AdminID:       99,
		OnAdminReject: func(tele.Context) error { rejected++; return nil },
	})
	if len(routes) != 3 {
		t.Fatalf("routes = %d, want 3", len(routes))
	}
	if routes[0].Endpoint != "/send" || routes[1].Endpoint != "/broadcast" || routes[2].Endpoint != "/stats" {
		t.Fatalf("unexpected order: %v %v %v", routes[0].Endpoint, routes[1].Endpoint, routes[2].Endpoint)
	}

	_ = routeFor(t, routes, "/broadcast")(privateMessage(b, &tele.Message{Text: "/broadcast"}))
	_ = routeFor(t, routes, "/stats")(privateMessage(b, &tele.Message{Text: "/stats"}))
	if sends != 1 || stats != 0 || rejected != 1 {
		t.Fatalf("sends=%d stats=%d rejected=%d", sends, stats, rejected)
	}
}
