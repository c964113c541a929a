package spellcasting

import (
	"fmt"

	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/character"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/shared"
)

// ReasonCode names why a cast is illegal
type ReasonCode string

const (
	ReasonNoClassLevels     ReasonCode = "no_class_levels"
	ReasonNotOnClassList    ReasonCode = "not_on_class_list"
	ReasonSpellLevelTooHigh ReasonCode = "spell_level_too_high"
	ReasonMetamagicNotKnown ReasonCode = "metamagic_not_known"
)

// Reason explains an illegal cast
type Reason struct {
	Code     ReasonCode `json:"code"`
	Subject  string     `json:"subject,omitempty"`
	Required int        `json:"required"`
	Actual   int        `json:"actual"`
}

func (r Reason) String() string {
	switch r.Code {
	case ReasonNoClassLevels:
		return fmt.Sprintf("no levels in %s", r.Subject)
	case ReasonNotOnClassList:
		return fmt.Sprintf("not on the %s spell list", r.Subject)
	case ReasonSpellLevelTooHigh:
		return fmt.Sprintf("spell level %d exceeds max castable %s level %d", r.Required, r.Subject, r.Actual)
	case ReasonMetamagicNotKnown:
		return fmt.Sprintf("does not know metamagic feat %s", r.Subject)
	}
	return string(r.Code)
}

// Quantity is a resolved range, duration or area dimension
type Quantity struct {
	Value int    `json:"value"`
	Unit  string `json:"unit"`
}

func (q Quantity) String() string {
	if q.Value == 0 {
		return q.Unit
	}
	return fmt.Sprintf("%d %s", q.Value, q.Unit)
}

// ResolvedSpell is a spell instance after caster level substitution and metamagic
type ResolvedSpell struct {
	Key    string        `json:"key"`
	Name   string        `json:"name"`
	Class  string        `json:"class"`
	School shared.School `json:"school"`

	BaseLevel      int `json:"base_level"`
	EffectiveLevel int `json:"effective_level"`
	CasterLevel    int `json:"caster_level"`

	// Applied lists metamagic feats in the order they were applied
	Applied []string `json:"applied,omitempty"`

	Components  []rulebook.Component `json:"components,omitempty"`
	CastingTime string               `json:"casting_time,omitempty"`
	Range       *Quantity            `json:"range,omitempty"`
	Duration    *Quantity            `json:"duration,omitempty"`
	Area        *rulebook.Area       `json:"area,omitempty"`

	Effect rulebook.EffectKind `json:"effect,omitempty"`
	Dice   *rulebook.Dice      `json:"dice,omitempty"`
	// Expression is the dice with every formula transform wrapped around it in order
	Expression string  `json:"expression,omitempty"`
	Expected   float64 `json:"expected,omitempty"`

	Save            *rulebook.SpellSave `json:"save,omitempty"`
	SaveDC          int                 `json:"save_dc"`
	SpellResistance bool                `json:"spell_resistance,omitempty"`
}

// CastResult is the outcome of resolving a cast
type CastResult struct {
	Legal  bool           `json:"legal"`
	Reason *Reason        `json:"reason,omitempty"`
	Spell  *ResolvedSpell `json:"spell,omitempty"`
}

// CastOutcome is a cast applied to a character
type CastOutcome struct {
	CastResult
	Character *character.Character    `json:"character"`
	Derived   *character.DerivedStats `json:"derived,omitempty"`
}
