package telegram

import (
	"errors"
	"testing"

	"github.com/m3rciful/groupcaster/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

func noop(tele.Context) error { return nil }

func TestRegistryListCommandsHidesAdminAndHidden(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "Start"})
	reg.RegisterCommand("/send", commands.Command{Handler: noop, Description: "Broadcast"})
	reg.RegisterCommand("/stats", commands.Command{Handler: noop, Description: "Stats", AdminOnly: true, Hidden: true})
	if err := reg.RegisterCommand("nope", commands.Command{Handler: noop, Description: "no slash"}); !errors.Is(err, ErrInvalidCommand) {
		t.Fatalf("no slash: err = %v", err)
	}

	visible := reg.ListCommands(true)
	if len(visible) != 2 || visible[0].Text != "/send" || visible[1].Text != "/start" {
		t.Fatalf("unexpected visible commands: %+v", visible)
	}
	if got := len(reg.ListCommands(false)); got != 3 {
		t.Fatalf("all commands = %d, want 3", got)
	}
	if want := "/send - Broadcast\n/start - Start"; reg.HelpText() != want {
		t.Fatalf("help = %q", reg.HelpText())
	}
}

func TestRegistryLookupAlias(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/cancel", commands.Command{Handler: noop, Description: "Cancel", Aliases: []string{"stop"}})
	for _, name := range []string{"/stop", "stop", "cancel"} {
		key, _, ok := reg.LookupCommand(name)
		if !ok || key != "/cancel" {
			t.Fatalf("lookup %q = %q %v", name, key, ok)
		}
	}
	err := reg.RegisterCommand("/stop", commands.Command{Handler: noop, Description: "Stop"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("alias collision: err = %v", err)
	}
	if _, _, ok := reg.LookupCommand("hello there"); ok {
		t.Fatal("plain text must not resolve to a command")
	}
}

func TestRegistryCallbacks(t *testing.T) {
	reg := NewRegistry()
	if err := reg.RegisterCallback("edit_post", noop); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.RegisterCallback("edit_post", noop); err == nil {
		t.Fatal("duplicate callback accepted")
	}
	if _, ok := reg.GetCallback("edit_post"); !ok {
		t.Fatal("callback not found")
	}
	if names := reg.ListCallbacks(); len(names) != 1 || names[0] != "edit_post" {
		t.Fatalf("callbacks = %v", names)
	}
}
