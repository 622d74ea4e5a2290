package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aqllidala/fieldwatch/internal/store"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpText = "📖 Yordam:\n\n" +
	"/start - Botni qayta ishga tushirish\n" +
	"/status - Barcha maydonlar holati\n" +
	"/settings - Sozlamalarni o'zgartirish\n\n" +
	"Qo'llab-quvvatlash: @AqlliDala_Support"

const reportsText = "📊 Hisobotlar bo'limi\n\n" +
	"Tez orada qo'shiladi:\n" +
	"• Haftalik hisobot\n" +
	"• Oylik hisobot\n" +
	"• Tejamkorlik statistikasi"

const supportText = "📞 Qo'llab-quvvatlash xizmati\n\n" +
	"Telefon: +998 (__) ___ __ __\n" +
	"Telegram: @AqlliDala_Support\n" +
	"Email: support@aqllidala.uz\n\n" +
	"Ish vaqti: 9:00 - 18:00 (Dushanba - Shanba)"

const paymentText = "💳 Obuna to'lovi\n\n" +
	"Narx: 100,000 so'm / gektar / oy\n\n" +
	"To'lov usullari:\n" +
	"• Click\n" +
	"• Payme\n" +
	"• Uzum Pay\n\n" +
	"Tez orada to'lov tizimi qo'shiladi."

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.st.UserByTelegramID(ctx, msg.From.ID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			b.logger.Error("Failed to look up user", "telegram_id", msg.From.ID, "error", err)
		}
		b.replyWithKeyboard(msg.Chat.ID,
			"Assalomu alaykum! 🤝\n"+
				"Aqlli Dala botiga xush kelibsiz.\n\n"+
				"Ma'lumotlaringizni ko'rish uchun iltimos, telefon raqamingizni yuboring (pastdagi tugmani bosing).",
			registrationKeyboard())
		return
	}

	b.replyWithKeyboard(msg.Chat.ID,
		fmt.Sprintf("Xush kelibsiz, %s! 👋\n\nMaydonlaringiz holatini ko'rish uchun quyidagi tugmalardan foydalaning:", user.FullName),
		mainKeyboard())
}

// handleContact links the shared phone number to an existing user row.
// The phone must already exist (landing-page registration); the bot
// never registers users on its own.
func (b *Bot) handleContact(ctx context.Context, msg *tgbotapi.Message) {
	phone := msg.Contact.PhoneNumber
	if !strings.HasPrefix(phone, "+") {
		phone = "+" + phone
	}

	err := b.st.SyncTelegram(ctx, phone, msg.From.ID, msg.From.UserName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			b.reply(msg.Chat.ID,
				"Kechirasiz, bu raqam tizimda topilmadi. ❌\n"+
					"Avval aqllidala.uz saytida ro'yxatdan o'ting yoki qo'llab-quvvatlash xizmatiga murojaat qiling.")
			return
		}
		b.logger.Error("Failed to sync contact", "phone", phone, "error", err)
		b.reply(msg.Chat.ID, "Kechirasiz, xatolik yuz berdi. Birozdan so'ng qayta urinib ko'ring.")
		return
	}

	user, err := b.st.UserByTelegramID(ctx, msg.From.ID)
	name := ""
	if err == nil {
		name = user.FullName
	}
	b.replyWithKeyboard(msg.Chat.ID,
		fmt.Sprintf("Rahmat, %s! ✅\nAkkauntingiz muvaffaqiyatli bog'landi.", name),
		mainKeyboard())
}

// handleFields renders one status line per owned field.
func (b *Bot) handleFields(ctx context.Context, msg *tgbotapi.Message) {
	fields, err := b.st.FieldsByTelegramID(ctx, msg.From.ID)
	if err != nil {
		b.logger.Error("Failed to list fields", "telegram_id", msg.From.ID, "error", err)
		b.reply(msg.Chat.ID, "Kechirasiz, xatolik yuz berdi. Birozdan so'ng qayta urinib ko'ring.")
		return
	}
	if len(fields) == 0 {
		b.reply(msg.Chat.ID,
			"⚠️ Sizda hali bog'langan maydonlar yo'q.\n"+
				"Yangi maydon qo'shish uchun biz bilan bog'laning.")
		return
	}

	var sb strings.Builder
	sb.WriteString("🚜 Maydonlaringiz holati:\n\n")
	for _, field := range fields {
		reading, err := b.st.LatestTelemetry(ctx, field.FieldName)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			b.logger.Error("Failed to fetch latest reading", "field", field.FieldName, "error", err)
			reading = nil
		}
		sb.WriteString(RenderFieldLine(field, reading, b.threshold))
	}

	b.reply(msg.Chat.ID, sb.String())
}

func (b *Bot) handleSettings(msg *tgbotapi.Message) {
	b.replyWithKeyboard(msg.Chat.ID, "⚙️ Sozlamalar", settingsKeyboard())
}

func (b *Bot) handleCallback(cq *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		b.logger.Warn("Failed to answer callback", "error", err)
	}

	switch cq.Data {
	case callbackBackMain:
		if cq.Message != nil {
			if _, err := b.api.Request(tgbotapi.NewDeleteMessage(cq.Message.Chat.ID, cq.Message.MessageID)); err != nil {
				b.logger.Warn("Failed to delete settings message", "error", err)
			}
			b.replyWithKeyboard(cq.Message.Chat.ID, "Bosh menyu:", mainKeyboard())
		}
	case callbackSetThreshold, callbackChangeLang:
		// Stubs, like the reports and payment sections.
		if cq.Message != nil {
			b.reply(cq.Message.Chat.ID, "Tez orada qo'shiladi.")
		}
	}
}
