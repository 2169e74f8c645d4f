// Package handlers binds the broadcast workflow to Telegram commands,
// callbacks and conversation messages.
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/m3rciful/groupcaster/broadcast/service"
	"github.com/m3rciful/groupcaster/broadcast/session"
	"github.com/m3rciful/groupcaster/core/logger"
	tg "github.com/m3rciful/groupcaster/core/telegram"
	"github.com/m3rciful/groupcaster/core/telegram/callbacks"
	"github.com/m3rciful/groupcaster/core/telegram/commands"
	tghelpers "github.com/m3rciful/groupcaster/core/telegram/helpers"
	"github.com/m3rciful/groupcaster/core/telegram/router"

	tele "gopkg.in/telebot.v4"
)

// Workflow is the part of the broadcast service the handlers drive.
type Workflow interface {
	Start(ctx context.Context, ownerID int64) ([]service.Reply, error)
	EditGroups(ctx context.Context, ownerID int64) ([]service.Reply, error)
	EditPost(ctx context.Context, ownerID int64) ([]service.Reply, error)
	Cancel(ctx context.Context, ownerID int64) ([]service.Reply, error)
	HandleText(ctx context.Context, ownerID int64, text string) ([]service.Reply, error)
	HandleMedia(ctx context.Context, ownerID int64, c service.Content) ([]service.Reply, error)
	Send(ctx context.Context, ownerID int64) ([]service.Reply, error)
	ConfirmSend(ctx context.Context, ownerID int64) ([]service.Reply, error)
	CancelSend(ctx context.Context, ownerID int64) ([]service.Reply, error)
	ShowGroups(ctx context.Context, ownerID int64) ([]service.Reply, error)
	ShowPost(ctx context.Context, ownerID int64) ([]service.Reply, error)
	ClearGroups(ctx context.Context, ownerID int64) ([]service.Reply, error)
	RemoveGroup(ctx context.Context, ownerID, chatID int64) ([]service.Reply, error)
	Stats(ctx context.Context) (service.Stats, error)
}

// QueueStats exposes counters of the outbound reply queue.
type QueueStats interface {
	DoneCount() uint64
	ErrorCount() uint64
	Pending() int
}

// Handlers serves the owner's private chat.
type Handlers struct {
	wf    Workflow
	reg   *tg.Registry
	out   Output
	queue QueueStats
}

// New returns handlers that reply through the shared helper dispatcher.
func New(wf Workflow, reg *tg.Registry) *Handlers {
	return &Handlers{wf: wf, reg: reg, out: helperOutput{}}
}

// WithOutput replaces the reply sink.
func (h *Handlers) WithOutput(out Output) *Handlers {
	h.out = out
	return h
}

// SetQueue wires reply queue counters into /stats.
func (h *Handlers) SetQueue(q QueueStats) {
	h.queue = q
}

const (
	textHelpHeader     = "Commands:\n"
	textUnknownCommand = "Unknown command. /help lists commands."
	textDocument       = "⚠️ Files are not supported. Send the photo or video as media."
	textFailed         = "⚠️ Something went wrong, please try again."
	textSlowDown       = "⏳ Too many messages, slow down a little."
)

// Register adds commands and callbacks to reg.
func (h *Handlers) Register() error {
	cmds := []struct {
		name string
		cmd  commands.Command
	}{
		{"/start", commands.Command{Handler: h.owner(h.wf.Start), Description: "Start or show the current setup"}},
		{"/send", commands.Command{Handler: h.owner(h.wf.Send), Description: "Broadcast the post to all groups", Aliases: []string{"broadcast"}}},
		{"/groups", commands.Command{Handler: h.owner(h.wf.ShowGroups), Description: "Show registered groups"}},
		{"/post", commands.Command{Handler: h.owner(h.wf.ShowPost), Description: "Preview the stored post"}},
		{"/cancel", commands.Command{Handler: h.owner(h.wf.Cancel), Description: "Stop editing", Aliases: []string{"stop"}}},
		{"/help", commands.Command{Handler: h.Help, Description: "List commands"}},
		{"/stats", commands.Command{Handler: h.Stats, Description: "Bot statistics", AdminOnly: true, Hidden: true}},
	}
	for _, c := range cmds {
		if err := h.reg.RegisterCommand(c.name, c.cmd); err != nil {
			return err
		}
	}

	cbs := map[string]tele.HandlerFunc{
		service.CallbackEditGroups:  h.owner(h.wf.EditGroups),
		service.CallbackEditPost:    h.owner(h.wf.EditPost),
		service.CallbackClearGroups: h.owner(h.wf.ClearGroups),
		service.CallbackCancel:      h.owner(h.wf.Cancel),
		service.CallbackSendConfirm: h.owner(h.wf.ConfirmSend),
		service.CallbackSendCancel:  h.owner(h.wf.CancelSend),
		service.CallbackRemoveGroup: h.removeGroup,
	}
	for key, fn := range cbs {
		if err := h.reg.RegisterCallback(key, fn); err != nil {
			return err
		}
	}
	return nil
}

// Routes returns every route the broadcast bot serves.
func (h *Handlers) Routes(adminID int64) []tg.Route {
	routes := router.CommandRoutes(h.reg, router.CommandRouteOptions{AdminID: adminID})
	routes = append(routes, router.CallbackRoute(h.reg, router.CallbackOptions{}))
	routes = append(routes, router.MessageRoutes(h, h.reg, router.MessageOptions{
		UnknownCommand:  h.textReply(textUnknownCommand),
		UnknownDocument: h.textReply(textDocument),
	})...)
	return routes
}

// OnLimited tells a throttled owner to slow down.
func (h *Handlers) OnLimited(c tele.Context) error {
	return h.out.Text(c, textSlowDown, nil)
}

// HandleText routes a non-command text message into the workflow.
func (h *Handlers) HandleText(c tele.Context) error {
	return h.run(c, func(ctx context.Context, owner int64) ([]service.Reply, error) {
		return h.wf.HandleText(ctx, owner, c.Text())
	})
}

// HandleMedia routes a photo or video message into the workflow.
func (h *Handlers) HandleMedia(c tele.Context) error {
	content, ok := contentFrom(c.Message())
	if !ok {
		return nil
	}
	return h.run(c, func(ctx context.Context, owner int64) ([]service.Reply, error) {
		return h.wf.HandleMedia(ctx, owner, content)
	})
}

// Help lists the visible commands.
func (h *Handlers) Help(c tele.Context) error {
	return h.out.Text(c, textHelpHeader+h.reg.HelpText(), nil)
}

// Stats reports session and reply queue counters.
func (h *Handlers) Stats(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	st, err := h.wf.Stats(ctx)
	if err != nil {
		return h.fail(ctx, c, err)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Sessions: %d", st.Sessions)
	if h.queue != nil {
		fmt.Fprintf(&b, "\nReplies sent: %d\nReply errors: %d\nQueued: %d",
			h.queue.DoneCount(), h.queue.ErrorCount(), h.queue.Pending())
	}
	return h.out.Text(c, b.String(), nil)
}

func (h *Handlers) removeGroup(c tele.Context) error {
	chatID, err := callbacks.PayloadInt64(c)
	if err != nil {
		logger.LogEvent(tghelpers.BuildContext(c), logger.Broadcast, slog.LevelWarn, "remove_group.bad_payload",
			slog.String("payload", callbacks.CallbackPayload(c)),
		)
		return nil
	}
	return h.run(c, func(ctx context.Context, owner int64) ([]service.Reply, error) {
		return h.wf.RemoveGroup(ctx, owner, chatID)
	})
}

func (h *Handlers) owner(fn func(context.Context, int64) ([]service.Reply, error)) tele.HandlerFunc {
	return func(c tele.Context) error {
		return h.run(c, fn)
	}
}

func (h *Handlers) textReply(text string) tele.HandlerFunc {
	return func(c tele.Context) error {
		return h.out.Text(c, text, nil)
	}
}

func (h *Handlers) run(c tele.Context, fn func(context.Context, int64) ([]service.Reply, error)) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	replies, err := fn(ctx, sender.ID)
	if err != nil {
		return h.fail(ctx, c, err)
	}
	return h.render(c, replies)
}

func (h *Handlers) fail(ctx context.Context, c tele.Context, err error) error {
	logger.LogEvent(ctx, logger.Broadcast, slog.LevelError, "handler.failed",
		slog.String("err", err.Error()),
	)
	_ = h.out.Text(c, textFailed, nil)
	return err
}

func contentFrom(m *tele.Message) (service.Content, bool) {
	if m == nil {
		return service.Content{}, false
	}
	switch {
	case m.Photo != nil:
		return service.Content{Kind: session.PostPhoto, FileID: m.Photo.FileID, Caption: m.Caption, AlbumID: m.AlbumID}, true
	case m.Video != nil:
		return service.Content{Kind: session.PostVideo, FileID: m.Video.FileID, Caption: m.Caption, AlbumID: m.AlbumID}, true
	}
	return service.Content{}, false
}
