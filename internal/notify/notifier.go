// Package notify delivers messages to the operator Telegram channel.
package notify

import (
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ErrDisabled is returned when no Telegram credentials are configured.
// Callers treat it like any other delivery failure: log and move on,
// and never record an alert as sent.
var ErrDisabled = errors.New("operator notifications are disabled")

// Notifier delivers one rendered message to the operator channel.
type Notifier interface {
	Notify(text string) error
}

// Telegram sends operator messages through the shared bot client.
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram wraps an authorized bot client and the operator chat id.
func NewTelegram(api *tgbotapi.BotAPI, chatID int64) *Telegram {
	return &Telegram{api: api, chatID: chatID}
}

// Notify sends the text to the operator chat as HTML.
func (t *Telegram) Notify(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send operator message: %w", err)
	}
	return nil
}

// Disabled is the notifier used when no bot token is configured.
type Disabled struct{}

// Notify always fails with ErrDisabled.
func (Disabled) Notify(string) error {
	return ErrDisabled
}
