package publishers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeTelegramBot struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeTelegramBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func TestTelegramPublisherSendsText(t *testing.T) {
	bot := &fakeTelegramBot{}
	pub := &telegramPublisher{id: "chat", chatID: 42, bot: bot, log: noopLogger{}}

	if err := pub.Publish(context.Background(), sampleReviewsEvent()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(bot.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(bot.sent))
	}
	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("unexpected chattable %T", bot.sent[0])
	}
	if msg.ChatID != 42 || !strings.HasPrefix(msg.Text, "crabigator has 12 reviews waiting") {
		t.Fatalf("unexpected message %+v", msg)
	}
}

func TestTelegramPublisherErrors(t *testing.T) {
	pub := &telegramPublisher{id: "chat", chatID: 42, bot: &fakeTelegramBot{err: errors.New("forbidden")}, log: noopLogger{}}
	if err := pub.Publish(context.Background(), sampleUnlockEvent()); err == nil {
		t.Fatalf("expected send error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bot := &fakeTelegramBot{}
	pub.bot = bot
	if err := pub.Publish(ctx, sampleUnlockEvent()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(bot.sent) != 0 {
		t.Fatalf("cancelled publish should not send")
	}
}

func TestTelegramBuilderAgainstFakeAPI(t *testing.T) {
	var texts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/botTOKEN/getMe":
			fmt.Fprint(w, `{"ok":true,"result":{"id":7,"is_bot":true,"first_name":"crab","username":"crab_bot"}}`)
		case "/botTOKEN/sendMessage":
			if err := r.ParseForm(); err != nil {
				t.Errorf("parse form: %v", err)
			}
			if got := r.PostForm.Get("chat_id"); got != "42" {
				t.Errorf("chat_id = %q", got)
			}
			texts = append(texts, r.PostForm.Get("text"))
			fmt.Fprint(w, `{"ok":true,"result":{"message_id":99,"date":0,"chat":{"id":42,"type":"private"}}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	pub, err := newTelegramPublisher(context.Background(), PublisherConfig{
		ID:   "chat",
		Type: TypeTelegram,
		Telegram: &TelegramPublisherConfig{
			Token:       "TOKEN",
			ChatID:      42,
			APIEndpoint: srv.URL + "/bot%s/%s",
		},
	}, nil)
	if err != nil {
		t.Fatalf("newTelegramPublisher: %v", err)
	}

	if err := pub.Publish(context.Background(), sampleUnlockEvent()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(texts) != 1 || !strings.Contains(texts[0], "unlocked kanji 上") {
		t.Fatalf("unexpected texts %q", texts)
	}
}

func TestTelegramBuilderRejectsBadToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"ok":false,"error_code":401,"description":"Unauthorized"}`)
	}))
	defer srv.Close()

	_, err := newTelegramPublisher(context.Background(), PublisherConfig{
		ID:       "chat",
		Type:     TypeTelegram,
		Telegram: &TelegramPublisherConfig{Token: "bad", ChatID: 1, APIEndpoint: srv.URL + "/bot%s/%s"},
	}, nil)
	if err == nil {
		t.Fatalf("expected error for rejected token")
	}
}
