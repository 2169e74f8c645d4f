package service

import (
	"context"
	"errors"
	"sync"

	"github.com/m3rciful/groupcaster/broadcast/platform"
)

type sendCall struct {
	Method  string
	ChatID  int64
	FileID  string
	Caption string
	Text    string
	Items   []platform.Media
}

type fakePlatform struct {
	mu       sync.Mutex
	chats    map[string]platform.Chat
	statuses map[int64]platform.MemberStatus
	sendErr  map[int64]error
	sends    []sendCall
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		chats:    make(map[string]platform.Chat),
		statuses: make(map[int64]platform.MemberStatus),
		sendErr:  make(map[int64]error),
	}
}

func (f *fakePlatform) addChat(handle string, id int64, status platform.MemberStatus) {
	f.chats[handle] = platform.Chat{ID: id, Title: "title " + handle, Username: handle[1:], Type: "supergroup"}
	f.statuses[id] = status
}

func (f *fakePlatform) calls() []sendCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sendCall(nil), f.sends...)
}

func (f *fakePlatform) ResolveChat(_ context.Context, handle string) (platform.Chat, error) {
	chat, ok := f.chats[handle]
	if !ok {
		return platform.Chat{}, errors.New("telegram: Bad Request: chat not found (400)")
	}
	return chat, nil
}

func (f *fakePlatform) JoinChat(_ context.Context, link string) (platform.Chat, error) {
	return platform.Chat{}, errors.Join(platform.ErrJoinUnsupported, errors.New(link))
}

func (f *fakePlatform) Membership(_ context.Context, chatID int64) (platform.MemberStatus, error) {
	return f.statuses[chatID], nil
}

func (f *fakePlatform) record(c sendCall) (platform.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends = append(f.sends, c)
	if err := f.sendErr[c.ChatID]; err != nil {
		return platform.Receipt{}, err
	}
	return platform.Receipt{ChatID: c.ChatID, MessageIDs: []int{len(f.sends)}}, nil
}

func (f *fakePlatform) SendPhoto(_ context.Context, chatID int64, fileID, caption string) (platform.Receipt, error) {
	return f.record(sendCall{Method: "photo", ChatID: chatID, FileID: fileID, Caption: caption})
}

func (f *fakePlatform) SendVideo(_ context.Context, chatID int64, fileID, caption string) (platform.Receipt, error) {
	return f.record(sendCall{Method: "video", ChatID: chatID, FileID: fileID, Caption: caption})
}

func (f *fakePlatform) SendText(_ context.Context, chatID int64, text string) (platform.Receipt, error) {
	return f.record(sendCall{Method: "text", ChatID: chatID, Text: text})
}

func (f *fakePlatform) SendMediaGroup(_ context.Context, chatID int64, items []platform.Media, caption string) (platform.Receipt, error) {
	return f.record(sendCall{Method: "album", ChatID: chatID, Items: items, Caption: caption})
}
