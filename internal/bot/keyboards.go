package bot

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// Main-menu button labels. The Russian variants exist because early
// users got the Russian keyboard before the Uzbek texts landed.
const (
	buttonFieldsUz   = "🚜 Mening maydonlarim"
	buttonFieldsRu   = "🚜 Мои поля"
	buttonReportsUz  = "📊 Hisobotlar"
	buttonSettingsUz = "⚙️ Sozlamalar"
	buttonSupportUz  = "📞 Yordam"
	buttonPaymentUz  = "💳 To'lov"
)

// Inline callback data values.
const (
	callbackSetThreshold = "set_threshold"
	callbackChangeLang   = "change_lang"
	callbackBackMain     = "back_main"
)

func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonFieldsUz),
			tgbotapi.NewKeyboardButton(buttonReportsUz),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonSettingsUz),
			tgbotapi.NewKeyboardButton(buttonSupportUz),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonPaymentUz),
		),
	)
}

func registrationKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonContact("📲 Telefon raqamni yuborish"),
		),
	)
	kb.OneTimeKeyboard = true
	return kb
}

func settingsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌡 Namlik chegarasi", callbackSetThreshold),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌐 Til / Язык", callbackChangeLang),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Orqaga", callbackBackMain),
		),
	)
}
