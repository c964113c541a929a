package character

import (
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/shared"
)

// EncumbranceTier is the load category for carried weight
type EncumbranceTier string

const (
	EncumbranceLight      EncumbranceTier = "light"
	EncumbranceMedium     EncumbranceTier = "medium"
	EncumbranceHeavy      EncumbranceTier = "heavy"
	EncumbranceOverloaded EncumbranceTier = "overloaded"
)

// Encumbrance is carried weight with the thresholds it was judged against
type Encumbrance struct {
	Weight float64         `json:"weight"`
	Tier   EncumbranceTier `json:"tier"`
	Light  float64         `json:"light"`
	Medium float64         `json:"medium"`
	Heavy  float64         `json:"heavy"`
}

// AbilityStat is an ability score after bonuses
type AbilityStat struct {
	Base     int `json:"base"`
	Score    int `json:"score"`
	Modifier int `json:"modifier"`
}

// ArmorClass is the AC breakdown
type ArmorClass struct {
	Total      int `json:"total"`
	Touch      int `json:"touch"`
	FlatFooted int `json:"flat_footed"`

	Armor      int `json:"armor"`
	Shield     int `json:"shield"`
	Dexterity  int `json:"dexterity"`
	Natural    int `json:"natural"`
	Deflection int `json:"deflection"`
	Dodge      int `json:"dodge"`
	Misc       int `json:"misc"`

	// MaxDexBonus is the most restrictive cap in effect, nil when uncapped
	MaxDexBonus *int `json:"max_dex_bonus,omitempty"`
}

// Attack is one equipped weapon's attack line
type Attack struct {
	ItemID      string      `json:"item_id"`
	ItemKey     string      `json:"item"`
	Slot        shared.Slot `json:"slot"`
	AttackBonus int         `json:"attack_bonus"`
	Damage      string      `json:"damage"`
	DamageBonus int         `json:"damage_bonus"`
	Extra       []string    `json:"extra,omitempty"`
}

// Contribution is one bonus considered for one statistic and whether it applied
type Contribution struct {
	Stat    string           `json:"stat"`
	Source  string           `json:"source"`
	Target  shared.Target    `json:"target"`
	Key     string           `json:"key,omitempty"`
	Type    shared.BonusType `json:"type,omitempty"`
	Value   int              `json:"value"`
	Applied bool             `json:"applied"`
}

// DerivedStats is the recomputable snapshot of a character
type DerivedStats struct {
	Abilities       map[shared.Attribute]AbilityStat `json:"abilities"`
	Level           int                              `json:"level"`
	BaseAttackBonus int                              `json:"base_attack_bonus"`
	MaxHitPoints    int                              `json:"max_hit_points"`
	ArmorClass      ArmorClass                       `json:"armor_class"`
	Saves           map[shared.Save]int              `json:"saves"`
	Initiative      int                              `json:"initiative"`
	Speed           int                              `json:"speed"`
	Skills          map[string]int                   `json:"skills"`
	ArmorCheck      int                              `json:"armor_check_penalty"`
	Attacks         []Attack                         `json:"attacks,omitempty"`

	CasterLevels   map[string]int        `json:"caster_levels,omitempty"`
	MaxSpellLevels map[string]int        `json:"max_spell_levels,omitempty"`
	SpellSlots     map[string][]int      `json:"spell_slots,omitempty"`
	SpellDCBonus   map[shared.School]int `json:"spell_dc_bonus,omitempty"`

	ClassFeatures []string    `json:"class_features,omitempty"`
	Encumbrance   Encumbrance `json:"encumbrance"`

	// Incomplete lists variable feats held without a sub-choice
	Incomplete    []string       `json:"incomplete,omitempty"`
	Contributions []Contribution `json:"contributions,omitempty"`
}

// Modifier returns the effective ability modifier
func (d *DerivedStats) Modifier(attr shared.Attribute) int {
	return d.Abilities[attr].Modifier
}

// IsComplete reports whether every variable feat has its sub-choice
func (d *DerivedStats) IsComplete() bool {
	return len(d.Incomplete) == 0
}
