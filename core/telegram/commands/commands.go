// Package commands describes bot commands kept in the registry.
package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command is one slash command. Hidden commands stay out of the Telegram
// menu and /help; AdminOnly commands run only for the configured admin.
// Aliases are extra names without the leading slash, such as "stop".
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	AdminOnly   bool
	Hidden      bool
	Aliases     []string
}
