package targets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractMixedReferences(t *testing.T) {
	got := Extract("check @foo and https://t.me/bar")
	require.Equal(t, []string{"@foo", "@bar"}, Handles(got))
	require.Equal(t, KindUsername, got[0].Kind)
	require.Equal(t, KindUsername, got[1].Kind)
}

func TestExtractLinkForms(t *testing.T) {
	text := "t.me/one http://t.me/two https://telegram.me/three\nhttps://www.t.me/four (t.me/five)"
	require.Equal(t, []string{"@one", "@two", "@three", "@four", "@five"}, Handles(Extract(text)))
}

func TestExtractInviteLinksKeptVerbatim(t *testing.T) {
	got := Extract("join https://t.me/+AbC-123_x and t.me/joinchat/QwErTy please")
	require.Len(t, got, 2)
	require.Equal(t, Target{Kind: KindInvite, Value: "https://t.me/+AbC-123_x"}, got[0])
	require.Equal(t, Target{Kind: KindInvite, Value: "t.me/joinchat/QwErTy"}, got[1])
}

func TestExtractDeduplicatesCaseInsensitively(t *testing.T) {
	got := Extract("@Foo @foo https://t.me/FOO @bar")
	require.Equal(t, []string{"@Foo", "@bar"}, Handles(got))
}

func TestExtractRejectsMalformed(t *testing.T) {
	long := strings.Repeat("a", MaxUsernameLen+1)
	cases := []string{
		"mail me at someone@example.com",
		"foo@bar",
		"@" + long,
		"https://t.me/" + long,
		"https://t.me/share/url?url=x",
		"t.me/s/channel",
		"@1",
		"@_hidden",
		"https://t.me/2fast",
		"at.me/bar",
		"no references here",
		"",
	}
	for _, text := range cases {
		require.Empty(t, Extract(text), "text %q", text)
	}
}

func TestExtractAcceptsMaxLengthAndPunctuation(t *testing.T) {
	name := strings.Repeat("b", MaxUsernameLen)
	got := Extract("groups: @" + name + ", @with_underscore. @x1!")
	require.Equal(t, []string{"@" + name, "@with_underscore", "@x1"}, Handles(got))
}

func TestExtractEmptyResultIsNonNil(t *testing.T) {
	got := Extract("nothing")
	require.NotNil(t, got)
	require.Len(t, got, 0)
}

func TestExtractOnlyWellFormedTokens(t *testing.T) {
	text := "@ok t.me/+inv1 junk@mail.com t.me/c/123 @" + strings.Repeat("z", 40) + " https://t.me/fine/42"
	for _, tg := range Extract(text) {
		switch tg.Kind {
		case KindUsername:
			require.Regexp(t, `^@[A-Za-z0-9_]{1,32}$`, tg.Value)
		case KindInvite:
			require.Regexp(t, `t\.me/(\+|joinchat/)`, tg.Value)
		default:
			t.Fatalf("unexpected kind %q", tg.Kind)
		}
	}
	require.Equal(t, []string{"@ok", "t.me/+inv1", "@fine"}, Handles(Extract(text)))
}
