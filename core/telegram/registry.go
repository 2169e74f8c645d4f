package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/m3rciful/groupcaster/core/logger"
	"github.com/m3rciful/groupcaster/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

var (
	// ErrInvalidCommand rejects commands without a slash name, handler or description.
	ErrInvalidCommand = errors.New("invalid command")
	// ErrDuplicate reports a command, alias or callback key registered twice.
	ErrDuplicate = errors.New("already registered")
)

// Registry holds bot commands and callbacks.
type Registry struct {
	mu        sync.RWMutex
	commands  map[string]commands.Command
	aliases   map[string]string
	callbacks map[string]tele.HandlerFunc
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		commands:  make(map[string]commands.Command),
		aliases:   make(map[string]string),
		callbacks: make(map[string]tele.HandlerFunc),
	}
}

func slashed(name string) string {
	if strings.HasPrefix(name, "/") {
		return name
	}
	return "/" + name
}

// RegisterCommand adds cmd under name ("/start") together with its aliases.
func (r *Registry) RegisterCommand(name string, cmd commands.Command) error {
	if !strings.HasPrefix(name, "/") || len(name) < 2 || cmd.Handler == nil || cmd.Description == "" {
		wireSkip("register.command.skip", name, ErrInvalidCommand)
		return fmt.Errorf("command %q: %w", name, ErrInvalidCommand)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	names := []string{name}
	for _, a := range cmd.Aliases {
		names = append(names, slashed(a))
	}
	for _, n := range names {
		_, taken := r.commands[n]
		if _, alias := r.aliases[n]; taken || alias {
			wireSkip("register.command.duplicate", n, ErrDuplicate)
			return fmt.Errorf("command %q: %w", n, ErrDuplicate)
		}
	}
	r.commands[name] = cmd
	for _, n := range names[1:] {
		r.aliases[n] = name
	}
	return nil
}

// ListCommands returns commands sorted by name. visibleOnly drops hidden and
// admin-only entries, which is what the Telegram menu shows.
func (r *Registry) ListCommands(visibleOnly bool) []tele.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]tele.Command, 0, len(r.commands))
	for name, meta := range r.commands {
		if visibleOnly && (meta.Hidden || meta.AdminOnly) {
			continue
		}
		list = append(list, tele.Command{Text: name, Description: meta.Description})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Text < list[j].Text })
	return list
}

// LookupCommand resolves a command name or alias, with or without the
// leading slash, to its canonical name.
func (r *Registry) LookupCommand(name string) (string, commands.Command, bool) {
	name = slashed(name)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if canonical, ok := r.aliases[name]; ok {
		name = canonical
	}
	cmd, ok := r.commands[name]
	if !ok {
		return "", commands.Command{}, false
	}
	return name, cmd, true
}

// Commands returns a copy of the registered commands keyed by canonical name.
func (r *Registry) Commands() map[string]commands.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]commands.Command, len(r.commands))
	for k, v := range r.commands {
		out[k] = v
	}
	return out
}

// RegisterCallback maps a button key to its handler.
func (r *Registry) RegisterCallback(key string, handler tele.HandlerFunc) error {
	if key == "" || handler == nil {
		wireSkip("register.callback.skip", key, ErrInvalidCommand)
		return errors.New("invalid callback registration")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.callbacks[key]; exists {
		wireSkip("register.callback.duplicate", key, ErrDuplicate)
		return fmt.Errorf("callback %q: %w", key, ErrDuplicate)
	}
	r.callbacks[key] = handler
	return nil
}

// GetCallback returns the handler registered for key.
func (r *Registry) GetCallback(key string) (tele.HandlerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.callbacks[key]
	return h, ok
}

// ListCallbacks returns sorted keys.
func (r *Registry) ListCallbacks() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.callbacks))
	for k := range r.callbacks {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// CallbackNotFound answers presses of buttons from older bot versions.
func (r *Registry) CallbackNotFound() tele.HandlerFunc {
	return func(c tele.Context) error {
		return c.Respond(&tele.CallbackResponse{Text: "This button is no longer supported"})
	}
}

// HelpText renders visible commands as "/cmd - description" lines.
func (r *Registry) HelpText() string {
	var lines []string
	for _, cmd := range r.ListCommands(true) {
		lines = append(lines, cmd.Text+" - "+cmd.Description)
	}
	return strings.Join(lines, "\n")
}

func wireSkip(event, name string, reason error) {
	logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, event,
		slog.String("name", name),
		slog.String("reason", reason.Error()),
	)
}

// InitBotCommands publishes the visible commands to the Telegram menu.
func InitBotCommands(bot *tele.Bot, reg *Registry) {
	list := reg.ListCommands(true)
	if err := bot.SetCommands(list); err != nil {
		logger.TWire.LogAttrs(context.Background(), slog.LevelError, "register.commands.set_failed",
			slog.String("err", err.Error()),
		)
		return
	}
	logger.TWire.LogAttrs(context.Background(), slog.LevelInfo, "register.commands.set",
		slog.Int("count", len(list)),
	)
}
