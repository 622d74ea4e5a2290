package notify

import "fmt"

// RenderLead formats the operator card for a new landing-page lead.
// Empty optional fields render as a dash, matching the landing page.
func RenderLead(name, contact, region, message string) string {
	return fmt.Sprintf(
		"<b>🚜 Aqlli Dala — новая заявка</b>\n\n"+
			"<b>Имя/хозяйство:</b> %s\n"+
			"<b>Контакт:</b> %s\n"+
			"<b>Регион:</b> %s\n"+
			"<b>Комментарий:</b> %s",
		name, contact, orDash(region), orDash(message),
	)
}

// RenderLowMoistureAlert formats the operator alert for a field whose
// latest reading is under threshold. The same text is stored in the
// alert log, so the log reflects exactly what was sent.
func RenderLowMoistureAlert(fieldID string, moisture, threshold int) string {
	return fmt.Sprintf(
		"🚨 DIQQAT! Namlik past!\n\n"+
			"🚜 Maydon: %s\n"+
			"💧 Namlik: %d%% (Norma: %d%% dan yuqori)\n\n"+
			"✅ Tavsiya: Sug'orishni hoziroq boshlang.",
		fieldID, moisture, threshold,
	)
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
