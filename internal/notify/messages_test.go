package notify

import (
	"strings"
	"testing"
)

func TestRenderLead(t *testing.T) {
	text := RenderLead("Karim", "+998907778899", "", "")

	if !strings.Contains(text, "Karim") || !strings.Contains(text, "+998907778899") {
		t.Errorf("lead card must carry name and contact, got %q", text)
	}
	if !strings.Contains(text, "Регион:</b> —") || !strings.Contains(text, "Комментарий:</b> —") {
		t.Errorf("empty optional fields render as dashes, got %q", text)
	}
}

func TestRenderLowMoistureAlert(t *testing.T) {
	text := RenderLowMoistureAlert("F1", 10, 25)

	for _, want := range []string{"F1", "10%", "25%"} {
		if !strings.Contains(text, want) {
			t.Errorf("alert text missing %q: %q", want, text)
		}
	}
}

func TestDisabledNotifier(t *testing.T) {
	err := Disabled{}.Notify("anything")
	if err != ErrDisabled {
		t.Errorf("expected ErrDisabled, got %v", err)
	}
}
