package rulebook

import "github.com/KirkDiggler/dnd-rules-engine/internal/domain/shared"

// VariableKind says what a variable feat's runtime choice names
type VariableKind string

const (
	VariableNone   VariableKind = ""
	VariableSkill  VariableKind = "skill"
	VariableWeapon VariableKind = "weapon"
	VariableSchool VariableKind = "school"
)

// FeatEffect is either fixed (Variable empty) or a template resolved against a choice
type FeatEffect struct {
	Variable VariableKind `yaml:"variable,omitempty" json:"variable,omitempty"`
	Bonuses  []Bonus      `yaml:"bonuses,omitempty" json:"bonuses,omitempty"`
}

// IsVariable reports whether the effect needs a sub-choice
func (e FeatEffect) IsVariable() bool {
	return e.Variable != VariableNone
}

// Resolve instantiates the effect's bonuses. A variable effect without a choice
// resolves to nothing and reports false.
func (e FeatEffect) Resolve(choice string) ([]Bonus, bool) {
	if !e.IsVariable() {
		return append([]Bonus(nil), e.Bonuses...), true
	}
	if choice == "" {
		return nil, false
	}

	out := make([]Bonus, 0, len(e.Bonuses))
	for _, b := range e.Bonuses {
		out = append(out, b.withChoice(choice))
	}
	return out, true
}

// Prerequisites is the predicate set a character must satisfy to take a feat
type Prerequisites struct {
	Abilities       map[shared.Attribute]int `yaml:"abilities,omitempty" json:"abilities,omitempty"`
	BaseAttackBonus int                      `yaml:"base_attack_bonus,omitempty" json:"base_attack_bonus,omitempty"`
	CasterLevel     int                      `yaml:"caster_level,omitempty" json:"caster_level,omitempty"`
	Skills          map[string]int           `yaml:"skills,omitempty" json:"skills,omitempty"`
	Feats           []string                 `yaml:"feats,omitempty" json:"feats,omitempty"`
	// SameChoiceFeats must be held with the same choice as the feat being taken
	SameChoiceFeats []string `yaml:"same_choice_feats,omitempty" json:"same_choice_feats,omitempty"`
	Race            string   `yaml:"race,omitempty" json:"race,omitempty"`
	Classes         []string `yaml:"classes,omitempty" json:"classes,omitempty"`
	Level           int      `yaml:"level,omitempty" json:"level,omitempty"`
}

// FormulaTransform is how a metamagic feat rewrites a spell's numeric effect
type FormulaTransform string

const (
	FormulaUnchanged FormulaTransform = ""
	FormulaEmpower   FormulaTransform = "empower"
	FormulaMaximize  FormulaTransform = "maximize"
)

// MetamagicDefinition describes the transform a metamagic feat applies to a spell
type MetamagicDefinition struct {
	LevelIncrease      int              `yaml:"level_increase" json:"level_increase"`
	Formula            FormulaTransform `yaml:"formula,omitempty" json:"formula,omitempty"`
	RangeMultiplier    int              `yaml:"range_multiplier,omitempty" json:"range_multiplier,omitempty"`
	DurationMultiplier int              `yaml:"duration_multiplier,omitempty" json:"duration_multiplier,omitempty"`
	AreaMultiplier     int              `yaml:"area_multiplier,omitempty" json:"area_multiplier,omitempty"`
	CastingTime        string           `yaml:"casting_time,omitempty" json:"casting_time,omitempty"`
	DropComponents     []Component      `yaml:"drop_components,omitempty" json:"drop_components,omitempty"`
}

// FeatDefinition is a catalog feat
type FeatDefinition struct {
	Key           string               `yaml:"key" json:"key"`
	Name          string               `yaml:"name" json:"name"`
	Description   string               `yaml:"description,omitempty" json:"description,omitempty"`
	Prerequisites *Prerequisites       `yaml:"prerequisites,omitempty" json:"prerequisites,omitempty"`
	Effect        FeatEffect           `yaml:"effect,omitempty" json:"effect,omitempty"`
	Metamagic     *MetamagicDefinition `yaml:"metamagic,omitempty" json:"metamagic,omitempty"`

	// Fighter marks feats a fighter may take as a class bonus feat
	Fighter bool `yaml:"fighter,omitempty" json:"fighter,omitempty"`
}

func (f *FeatDefinition) CatalogKey() string {
	return f.Key
}

// IsVariable reports whether the feat needs a sub-choice before its effect applies
func (f *FeatDefinition) IsVariable() bool {
	return f.Effect.IsVariable()
}

// IsMetamagic reports whether the feat transforms spells
func (f *FeatDefinition) IsMetamagic() bool {
	return f.Metamagic != nil
}
