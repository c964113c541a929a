package rulebook

import (
	"strings"

	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/shared"
)

// ChoicePlaceholder is replaced by a variable feat's recorded choice
const ChoicePlaceholder = "$choice"

// Bonus is a single typed numeric effect on a derived statistic.
// Key narrows the target (a skill, a save, a weapon type, a school); empty applies to all.
type Bonus struct {
	Target shared.Target    `yaml:"target" json:"target"`
	Key    string           `yaml:"key,omitempty" json:"key,omitempty"`
	Type   shared.BonusType `yaml:"type,omitempty" json:"type,omitempty"`
	Value  int              `yaml:"value" json:"value"`

	// Per and Max scale spell bonuses with caster level: Value + min(Max, CL/Per)
	Per int `yaml:"per,omitempty" json:"per,omitempty"`
	Max int `yaml:"max,omitempty" json:"max,omitempty"`
}

// Scaled resolves a caster-level dependent bonus into a flat one
func (b Bonus) Scaled(casterLevel int) Bonus {
	if b.Per <= 0 {
		return b
	}
	extra := casterLevel / b.Per
	if b.Max > 0 && extra > b.Max {
		extra = b.Max
	}
	b.Value += extra
	b.Per, b.Max = 0, 0
	return b
}

// withChoice substitutes the placeholder in Key
func (b Bonus) withChoice(choice string) Bonus {
	b.Key = strings.ReplaceAll(b.Key, ChoicePlaceholder, choice)
	return b
}
