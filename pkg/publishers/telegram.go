package publishers

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jonesinator/crabigator/pkg/httpclient"
)

const telegramTimeout = 10 * time.Second

type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type telegramPublisher struct {
	id     string
	chatID int64
	bot    telegramSender
	log    Logger
}

// newTelegramPublisher authenticates the bot token with getMe before
// returning, so a bad token fails at startup.
func newTelegramPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.Telegram == nil {
		return nil, fmt.Errorf("publisher %q missing telegram configuration", cfg.ID)
	}

	c := cfg.Telegram
	endpoint := c.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	httpc := httpclient.NewRestyHTTPClient(httpclient.Options{Timeout: telegramTimeout}).GetClient()

	bot, err := tgbotapi.NewBotAPIWithClient(c.Token, endpoint, httpc)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}

	return &telegramPublisher{
		id:     cfg.ID,
		chatID: c.ChatID,
		bot:    bot,
		log:    ensureLogger(log),
	}, nil
}

func (p *telegramPublisher) ID() string   { return p.id }
func (p *telegramPublisher) Type() string { return TypeTelegram }

// Publish sends the event's text rendering to the configured chat.
func (p *telegramPublisher) Publish(ctx context.Context, evt Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := p.bot.Send(tgbotapi.NewMessage(p.chatID, evt.Text()))
	if err != nil {
		p.log.ErrorObj("telegram publisher send failed", "publisher_telegram_error", deliveryFields(p.id, evt, err))
		return fmt.Errorf("send telegram message: %w", err)
	}
	fields := deliveryFields(p.id, evt, nil)
	fields["message_id"] = msg.MessageID
	p.log.DebugObj("telegram publisher delivered event", "publisher_telegram_delivery", fields)
	return nil
}
