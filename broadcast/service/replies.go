package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/m3rciful/groupcaster/broadcast/session"
)

// Callback keys of the inline buttons the service hands out.
const (
	CallbackEditGroups  = "edit_groups"
	CallbackEditPost    = "edit_post"
	CallbackClearGroups = "clear_groups"
	CallbackRemoveGroup = "remove_group"
	CallbackCancel      = "cancel"
	CallbackSendConfirm = "send_confirm"
	CallbackSendCancel  = "send_cancel"
)

// Button is an inline button attached to a reply.
type Button struct {
	Text   string
	Unique string
	Data   string
}

// Reply is one message for the owner. When Post is set the stored post is
// re-sent as a preview and Text is ignored.
type Reply struct {
	Text    string
	Post    *session.Post
	Buttons [][]Button
}

// Reply texts.
const (
	TextWelcome = "👋 Hi!\n" +
		"1️⃣ Send public group links or @usernames (space or newline separated).\n" +
		"2️⃣ Send a photo, video, album or text: that becomes the post.\n" +
		"3️⃣ /send to broadcast.\n\n" +
		"🛠 Edit buttons appear after the first input."
	TextAskGroups        = "Send new group links or @usernames (space or newline separated)."
	TextAskPost          = "Send the new post: a photo, video, album or text."
	TextNoTargets        = "🤷 No group links found. Send @username or https://t.me/<name> links."
	TextMediaWhileGroups = "⚠️ Waiting for group links right now. Send links, or press Cancel to stop editing groups."
	TextIdleHint         = "ℹ️ Press “Edit groups” to add groups or “Edit post” to replace the post. /help lists commands."
	TextPostExists       = "ℹ️ A post is already saved. Press “Edit post” to replace it."
	TextNoGroups         = "⚠️ Send group links first."
	TextNoPost           = "⚠️ Send a post first: a photo, video, album or text."
	TextNoPostSaved      = "Post not saved yet."
	TextGroupsEmpty      = "Groups not set."
	TextGroupsCleared    = "🧹 Groups cleared."
	TextGroupGone        = "This group is no longer registered."
	TextCancelled        = "↩️ Cancelled."
	TextSendCancelled    = "❎ Broadcast cancelled."
	TextConfirmExpired   = "⌛ This confirmation is no longer valid. Use /send again."
	TextAlbumFull        = "⚠️ An album holds at most 10 items; the rest were skipped."
	TextEmptyContent     = "⚠️ Nothing to save: send a photo, video or text."
)

func btnEditGroups() Button { return Button{Text: "✏️ Edit groups", Unique: CallbackEditGroups} }
func btnEditPost() Button   { return Button{Text: "✏️ Edit post", Unique: CallbackEditPost} }
func btnCancel() Button     { return Button{Text: "❌ Cancel", Unique: CallbackCancel} }

func idleButtons() [][]Button {
	return [][]Button{{btnEditGroups(), btnEditPost()}}
}

func welcomeBack(sess *session.Session) string {
	post := "not set"
	if PostReady(sess.Post) {
		post = string(sess.Post.Kind)
	}
	return fmt.Sprintf("👋 Welcome back!\nGroups: %d\nPost: %s\n\n/send to broadcast.", len(sess.Groups), post)
}

func registrationText(r Registration) string {
	var b strings.Builder
	switch {
	case len(r.Added) > 0:
		fmt.Fprintf(&b, "✅ Groups added: %d", len(r.Added))
		for _, g := range r.Added {
			b.WriteString("\n" + groupLine(g))
		}
	case len(r.Existing) == 0:
		b.WriteString("❌ No groups added.")
	}
	if len(r.Existing) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Already registered: %d", len(r.Existing))
	}
	if len(r.Failures) > 0 {
		b.WriteString("\n\n❌ Errors:")
		writeFailures(&b, r.Failures)
	}
	return b.String()
}

func postSavedText(p *session.Post) string {
	switch p.Kind {
	case session.PostVideo:
		return "🎬 Post saved."
	case session.PostText:
		return "📝 Post saved."
	case session.PostAlbum:
		return "🖼 Album saved. Further items of the same album are added automatically."
	}
	return "📸 Post saved."
}

func sendingText(groups []session.Group) string {
	lines := make([]string, len(groups))
	for i, g := range groups {
		lines[i] = g.Label()
	}
	return "▶️ Sending post to:\n" + strings.Join(lines, "\n")
}

func confirmText(groups []session.Group) string {
	lines := make([]string, len(groups))
	for i, g := range groups {
		lines[i] = g.Label()
	}
	return fmt.Sprintf("📤 Send the post to %d groups?\n%s", len(groups), strings.Join(lines, "\n"))
}

func reportReplies(rep Report) []Reply {
	out := []Reply{{Text: fmt.Sprintf("✅ Sent: %d", rep.Sent)}}
	if len(rep.Failures) > 0 {
		var b strings.Builder
		b.WriteString("❌ Errors:")
		writeFailures(&b, rep.Failures)
		out = append(out, Reply{Text: b.String()})
	}
	return out
}

func groupsText(groups []session.Group) string {
	if len(groups) == 0 {
		return TextGroupsEmpty
	}
	var b strings.Builder
	b.WriteString("Your groups:")
	for i, g := range groups {
		fmt.Fprintf(&b, "\n%d. %s", i+1, groupLine(g))
	}
	return b.String()
}

func groupsButtons(groups []session.Group) [][]Button {
	rows := [][]Button{{btnEditGroups()}}
	if len(groups) == 0 {
		return rows
	}
	rows[0] = append(rows[0], Button{Text: "🧹 Clear groups", Unique: CallbackClearGroups})
	var row []Button
	for _, g := range groups {
		row = append(row, Button{
			Text:   "🗑 " + g.Label(),
			Unique: CallbackRemoveGroup,
			Data:   strconv.FormatInt(g.ID, 10),
		})
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

func groupLine(g session.Group) string {
	if g.Title != "" && g.Title != g.Handle {
		return g.Label() + " (" + g.Title + ")"
	}
	return g.Label()
}

func writeFailures(b *strings.Builder, fs []Failure) {
	for _, f := range fs {
		b.WriteString("\n" + f.Target + ": " + f.Reason)
	}
}
