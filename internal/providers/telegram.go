// Package providers holds the outbound message sinks.
package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"health-assistant/internal/utils"
)

// TelegramSink delivers notifier messages over the Telegram Bot API.
// It satisfies notifier.Sink.
type TelegramSink struct {
	bot     *bot.Bot
	limiter *rate.Limiter
	logger  *logrus.Logger
}

// NewTelegramSink initializes the bot once and applies a global rate limit
// across all chats.
func NewTelegramSink(token string, ratePerSecond int, logger *logrus.Logger) (*TelegramSink, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	return &TelegramSink{
		bot:     b,
		limiter: rate.NewLimiter(rate.Limit(float64(ratePerSecond)), ratePerSecond),
		logger:  logger,
	}, nil
}

// Send delivers one message to a chat, retrying transient failures. The
// caller bounds ctx with the delivery timeout.
func (s *TelegramSink) Send(ctx context.Context, chatID int64, text string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram rate limit wait: %w", err)
	}

	return utils.Retry(s.logger, 3, time.Second, func() error {
		params := &bot.SendMessageParams{
			ChatID: chatID,
			Text:   text,
		}
		if _, err := s.bot.SendMessage(ctx, params); err != nil {
			return fmt.Errorf("failed to send Telegram message to chat_id %d: %w", chatID, err)
		}
		return nil
	})
}
