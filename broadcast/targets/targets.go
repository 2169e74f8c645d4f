// Package targets extracts Telegram group references from free-form text.
package targets

import (
	"regexp"
	"strings"
)

// Kind tells how a target must be resolved.
type Kind string

const (
	// KindUsername is a public @username, resolved by name.
	KindUsername Kind = "username"
	// KindInvite is a private invite link, kept verbatim.
	KindInvite Kind = "invite"
)

// Target is a normalized group reference.
type Target struct {
	Kind Kind
	// Value is "@name" for usernames and the matched link for invites.
	Value string
}

func (t Target) String() string { return t.Value }

// MaxUsernameLen is the longest public username Telegram accepts.
const MaxUsernameLen = 32

var (
	tokenRe = regexp.MustCompile(
		`(?i)(?:https?://)?(?:www\.)?(?:t|telegram)\.me/(?:(\+|joinchat/)([A-Za-z0-9_-]+)|([A-Za-z0-9_]+))` +
			`|@([A-Za-z0-9_]+)`)

	reservedPaths = map[string]struct{}{
		"s": {}, "c": {}, "share": {}, "addstickers": {}, "addemoji": {},
		"proxy": {}, "socks": {}, "addtheme": {}, "iv": {}, "joinchat": {},
	}
)

// Extract returns the distinct targets found in text, in order of appearance.
// Text without any reference yields an empty slice.
func Extract(text string) []Target {
	out := []Target{}
	seen := make(map[string]struct{})
	for _, m := range tokenRe.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		if start > 0 && !boundaryBefore(text[start-1]) {
			continue
		}
		if end < len(text) && isNameByte(text[end]) {
			continue
		}

		var t Target
		switch {
		case m[4] >= 0:
			t = Target{Kind: KindInvite, Value: text[start:end]}
		case m[6] >= 0:
			name := text[m[6]:m[7]]
			if _, reserved := reservedPaths[strings.ToLower(name)]; reserved || !validUsername(name) {
				continue
			}
			t = Target{Kind: KindUsername, Value: "@" + name}
		case m[8] >= 0:
			name := text[m[8]:m[9]]
			if !validUsername(name) {
				continue
			}
			t = Target{Kind: KindUsername, Value: "@" + name}
		default:
			continue
		}

		key := t.Value
		if t.Kind == KindUsername {
			key = strings.ToLower(key)
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Handles renders targets as their display values.
func Handles(ts []Target) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Value
	}
	return out
}

// validUsername requires a leading letter and at most MaxUsernameLen
// characters. Short names such as @foo are accepted.
func validUsername(name string) bool {
	if name == "" || len(name) > MaxUsernameLen {
		return false
	}
	first := name[0] | 0x20
	return 'a' <= first && first <= 'z'
}

func isNameByte(b byte) bool {
	return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

// boundaryBefore rejects matches glued to a preceding word, e-mail local part or path.
func boundaryBefore(b byte) bool {
	return !isNameByte(b) && b != '.' && b != '/' && b != '@' && b != '-'
}
