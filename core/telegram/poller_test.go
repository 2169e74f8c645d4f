package telegram

import (
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"
)

func TestBuildPollerWebhook(t *testing.T) {
	p := BuildPoller(PollerOptions{
		RunMode: "webhook",
		Webhook: WebhookOptions{Listen: "0.0.0.0", Port: 10000, URL: "https://bot.example.org", SecretToken: "s3cret"},
	})
	wh, ok := p.(*tele.Webhook)
	if !ok {
		t.Fatalf("poller = %T, want *tele.Webhook", p)
	}
	if wh.Listen != "0.0.0.0:10000" {
		t.Fatalf("listen = %q", wh.Listen)
	}
	if wh.Endpoint == nil || wh.Endpoint.PublicURL != "https://bot.example.org" {
		t.Fatalf("unexpected endpoint %+v", wh.Endpoint)
	}
	if wh.SecretToken != "s3cret" {
		t.Fatalf("secret token not propagated")
	}
}

func TestBuildPollerLongpollDefaultTimeout(t *testing.T) {
	p := BuildPoller(PollerOptions{RunMode: "longpoll"})
	lp, ok := p.(*tele.LongPoller)
	if !ok {
		t.Fatalf("poller = %T, want *tele.LongPoller", p)
	}
	if lp.Timeout != 10*time.Second {
		t.Fatalf("timeout = %s", lp.Timeout)
	}
}
