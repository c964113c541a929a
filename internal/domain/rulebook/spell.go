package rulebook

import "github.com/KirkDiggler/dnd-rules-engine/internal/domain/shared"

// Component is a spell component
type Component string

const (
	ComponentVerbal      Component = "V"
	ComponentSomatic     Component = "S"
	ComponentMaterial    Component = "M"
	ComponentFocus       Component = "F"
	ComponentDivineFocus Component = "DF"
)

// EffectKind says what a spell's formula measures
type EffectKind string

const (
	EffectNone    EffectKind = ""
	EffectDamage  EffectKind = "damage"
	EffectHealing EffectKind = "healing"
)

// Measure is a caster-level scaled quantity: Base + PerLevel * (CL / Per)
type Measure struct {
	Base     int    `yaml:"base,omitempty" json:"base,omitempty"`
	PerLevel int    `yaml:"per_level,omitempty" json:"per_level,omitempty"`
	Per      int    `yaml:"per,omitempty" json:"per,omitempty"`
	Unit     string `yaml:"unit" json:"unit"`
}

// Resolve evaluates the measure at a caster level
func (m Measure) Resolve(casterLevel int) int {
	per := m.Per
	if per <= 0 {
		per = 1
	}
	return m.Base + m.PerLevel*(casterLevel/per)
}

// Area is a spell's area of effect
type Area struct {
	Shape string `yaml:"shape" json:"shape"`
	Size  int    `yaml:"size" json:"size"`
}

// SpellSave describes the saving throw a spell allows
type SpellSave struct {
	Type   shared.Save `yaml:"type" json:"type"`
	Effect string      `yaml:"effect,omitempty" json:"effect,omitempty"`
}

// SpellDefinition is a catalog spell
type SpellDefinition struct {
	Key    string         `yaml:"key" json:"key"`
	Name   string         `yaml:"name" json:"name"`
	School shared.School  `yaml:"school" json:"school"`
	Levels map[string]int `yaml:"levels" json:"levels"`

	Components  []Component `yaml:"components,omitempty" json:"components,omitempty"`
	CastingTime string      `yaml:"casting_time,omitempty" json:"casting_time,omitempty"`
	Range       *Measure    `yaml:"range,omitempty" json:"range,omitempty"`
	Duration    *Measure    `yaml:"duration,omitempty" json:"duration,omitempty"`
	Area        *Area       `yaml:"area,omitempty" json:"area,omitempty"`

	Effect          EffectKind `yaml:"effect,omitempty" json:"effect,omitempty"`
	Formula         *Formula   `yaml:"formula,omitempty" json:"formula,omitempty"`
	Save            *SpellSave `yaml:"save,omitempty" json:"save,omitempty"`
	SpellResistance bool       `yaml:"spell_resistance,omitempty" json:"spell_resistance,omitempty"`

	// Persistent bonuses apply for as long as the spell stays active on its target
	Persistent []Bonus `yaml:"persistent,omitempty" json:"persistent,omitempty"`
}

func (s *SpellDefinition) CatalogKey() string {
	return s.Key
}

// LevelFor returns the spell's base level on a class's list
func (s *SpellDefinition) LevelFor(class string) (int, bool) {
	level, ok := s.Levels[class]
	return level, ok
}

// IsPersistent reports whether casting leaves an ongoing effect
func (s *SpellDefinition) IsPersistent() bool {
	return len(s.Persistent) > 0
}
