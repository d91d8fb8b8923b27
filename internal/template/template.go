package template

import (
	"errors"
	"sort"
	"strings"

	"github.com/elicitlabs/elicit/internal/domain"
)

var ErrUnknownTemplate = errors.New("unknown template")

// Template names.
const (
	Postmortem = "postmortem"
	SOP        = "sop"
	Recipe     = "recipe"
	DailyWork  = "daily_work"
)

// fallbackText holds the curated per-language question asked when no
// generated candidate is available for a slot.
type fallbackText struct {
	en string
	ja string
}

type definition struct {
	slots     []domain.Slot
	fallbacks map[string]fallbackText
	generic   fallbackText
}

// Names lists the available template names, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Known reports whether a template with the given name exists.
func Known(name string) bool {
	_, ok := registry[name]
	return ok
}

// Slots returns a fresh copy of the template's slot definitions.
func Slots(name string) ([]domain.Slot, error) {
	def, ok := registry[name]
	if !ok {
		return nil, ErrUnknownTemplate
	}
	out := make([]domain.Slot, len(def.slots))
	for i, s := range def.slots {
		out[i] = s.Clone()
	}
	return out, nil
}

// FallbackQuestion returns the curated question for a template slot in the
// requested language. Unknown slots get the template's generic prompt;
// unknown templates get a neutral one.
func FallbackQuestion(template, slot, language string) string {
	def, ok := registry[template]
	if !ok {
		return "Could you share more details?"
	}
	text, ok := def.fallbacks[slot]
	if !ok {
		text = def.generic
	}
	if japanese(language) && text.ja != "" {
		return text.ja
	}
	return text.en
}

func japanese(language string) bool {
	return strings.HasPrefix(strings.ToLower(language), "ja")
}
