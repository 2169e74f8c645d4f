package helpers

import tele "gopkg.in/telebot.v4"

const (
	counterMessages = "messages"
	counterKeyboard = "kb"
)

// ResetCounters zeroes the per-update reply counters.
func ResetCounters(c tele.Context) {
	c.Set(counterMessages, 0)
	c.Set(counterKeyboard, false)
}

// Counters returns how many replies the current update produced and whether
// any of them carried a keyboard. Replies are counted when queued.
func Counters(c tele.Context) (int, bool) {
	n, _ := c.Get(counterMessages).(int)
	kb, _ := c.Get(counterKeyboard).(bool)
	return n, kb
}

func countReply(c tele.Context, withKeyboard bool) {
	n, _ := c.Get(counterMessages).(int)
	c.Set(counterMessages, n+1)
	if withKeyboard {
		c.Set(counterKeyboard, true)
	}
}
