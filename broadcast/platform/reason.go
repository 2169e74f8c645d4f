package platform

import (
	"errors"
	"fmt"
	"strings"

	tgsender "github.com/m3rciful/groupcaster/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// Reason turns a platform failure into the short text shown to the owner.
// Unclassified errors keep their raw text with any bot token redacted.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrNotMember):
		return ErrNotMember.Error()
	case errors.Is(err, ErrJoinUnsupported):
		return "bots cannot join by invite link; add the bot to the group and send its @username"
	}

	var flood tele.FloodError
	if errors.As(err, &flood) {
		return fmt.Sprintf("flood limit reached, retry after %ds", flood.RetryAfter)
	}

	desc := err.Error()
	var apiErr *tele.Error
	if errors.As(err, &apiErr) && apiErr.Description != "" {
		desc = apiErr.Description
	}
	lower := strings.ToLower(desc)
	switch {
	case strings.Contains(lower, "chat not found"), strings.Contains(lower, "username not found"),
		strings.Contains(lower, "username_invalid"), strings.Contains(lower, "username_not_occupied"):
		return "chat not found"
	case strings.Contains(lower, "bot was kicked"), strings.Contains(lower, "bot is not a member"),
		strings.Contains(lower, "bot was blocked"):
		return ErrNotMember.Error()
	case strings.Contains(lower, "not enough rights"), strings.Contains(lower, "have no rights"),
		strings.Contains(lower, "chat_write_forbidden"), strings.Contains(lower, "chat_send_photos_forbidden"),
		strings.Contains(lower, "chat_send_videos_forbidden"):
		return "bot is not allowed to post in this chat"
	case strings.Contains(lower, "forbidden"):
		return "forbidden: " + tgsender.Redact(desc)
	}
	return tgsender.Redact(err.Error())
}
