package handlers

import (
	"fmt"

	"github.com/m3rciful/groupcaster/broadcast/platform"
	"github.com/m3rciful/groupcaster/broadcast/service"
	"github.com/m3rciful/groupcaster/broadcast/session"
	tghelpers "github.com/m3rciful/groupcaster/core/telegram/helpers"
	"github.com/m3rciful/groupcaster/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// Output delivers replies to the current chat.
type Output interface {
	Text(c tele.Context, text string, markup *tele.ReplyMarkup) error
	Media(c tele.Context, what any, markup *tele.ReplyMarkup) error
}

type helperOutput struct{}

func (helperOutput) Text(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	return tghelpers.SendText(c, text, markup)
}

func (helperOutput) Media(c tele.Context, what any, markup *tele.ReplyMarkup) error {
	return tghelpers.SendMedia(c, what, markup)
}

func (h *Handlers) render(c tele.Context, replies []service.Reply) error {
	for _, r := range replies {
		markup := buildMarkup(r.Buttons)
		var err error
		if r.Post != nil {
			err = h.preview(c, r.Post, markup)
		} else {
			err = h.out.Text(c, r.Text, markup)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// preview re-sends the stored post. Albums cannot carry buttons, so the
// markup follows in a separate message.
func (h *Handlers) preview(c tele.Context, p *session.Post, markup *tele.ReplyMarkup) error {
	switch {
	case p.Kind == session.PostText:
		return h.out.Text(c, p.Text, markup)
	case p.Kind != session.PostAlbum, len(p.Items) == 1:
		return h.out.Media(c, single(p.Items[0], p.Caption), markup)
	}
	items := make([]platform.Media, len(p.Items))
	for i, it := range p.Items {
		items[i] = platform.Media{Video: it.Kind == session.PostVideo, FileID: it.FileID}
	}
	if err := h.out.Media(c, platform.BuildAlbum(items, p.Caption), nil); err != nil {
		return err
	}
	return h.out.Text(c, fmt.Sprintf("🖼 Album with %d items.", len(p.Items)), markup)
}

func single(it session.MediaItem, caption string) any {
	if it.Kind == session.PostVideo {
		return &tele.Video{File: tele.File{FileID: it.FileID}, Caption: caption}
	}
	return &tele.Photo{File: tele.File{FileID: it.FileID}, Caption: caption}
}

func buildMarkup(rows [][]service.Button) *tele.ReplyMarkup {
	if len(rows) == 0 {
		return nil
	}
	kb := make([][]keyboard.InlineBtn, len(rows))
	for i, row := range rows {
		kb[i] = make([]keyboard.InlineBtn, len(row))
		for j, b := range row {
			kb[i][j] = keyboard.InlineBtn{Text: b.Text, Unique: b.Unique, Data: b.Data}
		}
	}
	return keyboard.InlineButtonsRows(kb...)
}
