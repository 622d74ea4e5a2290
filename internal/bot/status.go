package bot

import (
	"fmt"

	"github.com/aqllidala/fieldwatch/internal/models"
)

// RenderFieldLine formats one field's status block. reading may be nil
// when the field has never reported. The symbol reflects the field's
// own threshold when it has one, the global threshold otherwise.
func RenderFieldLine(field models.Field, reading *models.TelemetryReading, globalThreshold int) string {
	if reading == nil {
		return fmt.Sprintf("⚪ <b>%s</b> (%s) - Ma'lumot yo'q\n\n", field.FieldName, field.CropType)
	}

	threshold := globalThreshold
	if field.MoistureThreshold != nil {
		threshold = *field.MoistureThreshold
	}

	status := "🟢"
	if reading.Moisture < threshold {
		status = "🔴"
	}

	return fmt.Sprintf(
		"%s <b>%s</b> (%s)\n   Namlik: %d%% | Harorat: %.1f°C\n   Batareya: %d%%\n\n",
		status, field.FieldName, field.CropType,
		reading.Moisture, reading.Temperature, reading.BatteryLevel,
	)
}
