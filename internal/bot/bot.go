// Package bot is the Telegram front-end: registered users link their
// account by sharing their phone number, then query field status
// through the menu.
package bot

import (
	"context"
	"log/slog"

	"github.com/aqllidala/fieldwatch/internal/store"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the shared Telegram client and the store.
type Bot struct {
	api       *tgbotapi.BotAPI
	st        *store.Store
	logger    *slog.Logger
	threshold int // global moisture threshold for status symbols
}

// New builds the bot on an already-authorized client.
func New(api *tgbotapi.BotAPI, logger *slog.Logger, st *store.Store, globalThreshold int) *Bot {
	return &Bot{
		api:       api,
		st:        st,
		logger:    logger,
		threshold: globalThreshold,
	}
}

// Start registers the command menu and launches the long-polling
// update loop. Returns a stop function that halts polling and waits
// for the loop to drain.
func (b *Bot) Start() (stop func()) {
	commands := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Boshlash / Запустить"},
		tgbotapi.BotCommand{Command: "help", Description: "Yordam / Помощь"},
		tgbotapi.BotCommand{Command: "status", Description: "Maydonlar holati / Статус полей"},
		tgbotapi.BotCommand{Command: "settings", Description: "Sozlamalar / Настройки"},
	)
	if _, err := b.api.Request(commands); err != nil {
		b.logger.Warn("Failed to register bot commands", "error", err)
	} else {
		b.logger.Info("Bot commands registered in Telegram menu")
	}

	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = 30
	updates := b.api.GetUpdatesChan(updateCfg)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range updates {
			b.handleUpdate(context.Background(), update)
		}
	}()

	b.logger.Info("Bot started and polling", "username", b.api.Self.UserName)

	return func() {
		b.api.StopReceivingUpdates()
		<-done
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallback(update.CallbackQuery)
		return
	}

	msg := update.Message
	if msg == nil {
		return
	}

	if msg.Contact != nil {
		b.handleContact(ctx, msg)
		return
	}

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.handleStart(ctx, msg)
		case "help":
			b.reply(msg.Chat.ID, helpText)
		case "status":
			b.handleFields(ctx, msg)
		case "settings":
			b.handleSettings(msg)
		}
		return
	}

	switch msg.Text {
	case buttonFieldsUz, buttonFieldsRu:
		b.handleFields(ctx, msg)
	case buttonReportsUz:
		b.reply(msg.Chat.ID, reportsText)
	case buttonSettingsUz:
		b.handleSettings(msg)
	case buttonSupportUz:
		b.reply(msg.Chat.ID, supportText)
	case buttonPaymentUz:
		b.reply(msg.Chat.ID, paymentText)
	}
}

// reply sends a plain HTML message without a keyboard change.
func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send bot reply", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) replyWithKeyboard(chatID int64, text string, keyboard interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send bot reply", "chat_id", chatID, "error", err)
	}
}
