package keyboard

import "testing"

func TestInlineButtonsRowsLayout(t *testing.T) {
	rm := InlineButtonsRows(
		[]InlineBtn{{Text: "a", Unique: "remove_group", Data: "1"}, {Text: "b", Unique: "remove_group", Data: "2"}},
		[]InlineBtn{{Text: "c", Unique: "remove_group", Data: "3"}},
	)
	if len(rm.InlineKeyboard) != 2 || len(rm.InlineKeyboard[0]) != 2 || len(rm.InlineKeyboard[1]) != 1 {
		t.Fatalf("unexpected layout: %+v", rm.InlineKeyboard)
	}
	if rm.InlineKeyboard[1][0].Unique != "remove_group" || rm.InlineKeyboard[1][0].Data != "3" {
		t.Fatalf("unexpected button: %+v", rm.InlineKeyboard[1][0])
	}
}

func TestInlineButtonsRowsSkipsEmpty(t *testing.T) {
	if rm := InlineButtonsRows(nil, []InlineBtn{}); rm != nil {
		t.Fatalf("expected nil markup, got %+v", rm)
	}
	rm := InlineButtonsRows(nil, []InlineBtn{{Text: "❌ Cancel", Unique: "cancel"}})
	if len(rm.InlineKeyboard) != 1 || rm.InlineKeyboard[0][0].Text != "❌ Cancel" {
		t.Fatalf("unexpected markup: %+v", rm.InlineKeyboard)
	}
}
