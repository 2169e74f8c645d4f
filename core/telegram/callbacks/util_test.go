package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		cb      *tele.Callback
		key     string
		payload string
	}{
		{cb: nil},
		{cb: &tele.Callback{Data: "\fremove_group|-1001234"}, key: "remove_group", payload: "-1001234"},
		{cb: &tele.Callback{Data: "\fedit_post"}, key: "edit_post"},
		{cb: &tele.Callback{Data: "edit_groups"}, key: "edit_groups"},
		{cb: &tele.Callback{Unique: "send_confirm", Data: "x"}, key: "send_confirm", payload: "x"},
	}
	for _, tc := range cases {
		key, payload := ParseCallbackData(tc.cb)
		if key != tc.key || payload != tc.payload {
			t.Errorf("ParseCallbackData(%+v) = %q,%q want %q,%q", tc.cb, key, payload, tc.key, tc.payload)
		}
	}
}

func TestPayloadInt64(t *testing.T) {
	b, err := tele.NewBot(tele.Settings{Offline: true})
	if err != nil {
		t.Fatal(err)
	}
	c := b.NewContext(tele.Update{Callback: &tele.Callback{Data: "\fremove_group|-1001234"}})
	id, err := PayloadInt64(c)
	if err != nil || id != -1001234 {
		t.Fatalf("payload = %d, %v", id, err)
	}
	if got := CallbackPayload(c); got != "-1001234" {
		t.Fatalf("raw payload = %q", got)
	}
}
