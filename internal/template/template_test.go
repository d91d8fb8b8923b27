package template

import (
	"errors"
	"testing"
)

func TestSlotsCopies(t *testing.T) {
	first, err := Slots(Postmortem)
	if err != nil {
		t.Fatalf("slots: %v", err)
	}
	if len(first) != 5 {
		t.Fatalf("postmortem slots = %d, want 5", len(first))
	}
	first[0].Importance = 0

	second, _ := Slots(Postmortem)
	if second[0].Importance != 1.0 {
		t.Error("Slots must return independent copies")
	}
}

func TestSlotsUnknown(t *testing.T) {
	if _, err := Slots("shopping_list"); !errors.Is(err, ErrUnknownTemplate) {
		t.Errorf("expected ErrUnknownTemplate, got %v", err)
	}
}

func TestSlotsAreWellFormed(t *testing.T) {
	for _, name := range Names() {
		slots, err := Slots(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		seen := make(map[string]bool)
		for _, s := range slots {
			if s.Name == "" || s.Description == "" || s.Type == "" {
				t.Errorf("%s: incomplete slot %+v", name, s)
			}
			if s.Importance <= 0 || s.Importance > 1 {
				t.Errorf("%s/%s: importance %f out of range", name, s.Name, s.Importance)
			}
			if seen[s.Name] {
				t.Errorf("%s: duplicate slot %s", name, s.Name)
			}
			seen[s.Name] = true
		}
	}
}

func TestFallbackQuestionLanguages(t *testing.T) {
	en := FallbackQuestion(Postmortem, "impact", "English")
	if en == "" {
		t.Fatal("missing english fallback")
	}
	ja := FallbackQuestion(Postmortem, "impact", "ja")
	if ja == en {
		t.Error("japanese fallback should differ from english")
	}
	// Unknown language codes default to english.
	if got := FallbackQuestion(Postmortem, "impact", "fr"); got != en {
		t.Errorf("unexpected fallback for unknown language: %q", got)
	}
}

func TestFallbackQuestionGeneric(t *testing.T) {
	if got := FallbackQuestion(Recipe, "no_such_slot", "English"); got == "" {
		t.Error("unknown slot should still produce a generic prompt")
	}
	if got := FallbackQuestion("no_such_template", "impact", "English"); got == "" {
		t.Error("unknown template should still produce a prompt")
	}
}

func TestEverySlotHasFallback(t *testing.T) {
	for _, name := range Names() {
		slots, _ := Slots(name)
		generic := FallbackQuestion(name, "definitely_not_a_slot", "English")
		for _, s := range slots {
			if FallbackQuestion(name, s.Name, "English") == generic {
				t.Errorf("%s/%s: falls through to generic question", name, s.Name)
			}
			if FallbackQuestion(name, s.Name, "Japanese") == generic {
				t.Errorf("%s/%s: missing japanese fallback", name, s.Name)
			}
		}
	}
}
