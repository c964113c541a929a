package rulebook

import "github.com/KirkDiggler/dnd-rules-engine/internal/domain/shared"

// Progression is a base attack bonus progression
type Progression string

const (
	ProgressionGood    Progression = "good"
	ProgressionAverage Progression = "average"
	ProgressionPoor    Progression = "poor"
)

// CasterKind is a class's spell progression
type CasterKind string

const (
	CasterNone    CasterKind = ""
	CasterFull    CasterKind = "full"
	CasterBard    CasterKind = "bard"
	CasterLimited CasterKind = "limited"
)

// ClassDefinition is a catalog class
type ClassDefinition struct {
	Key         string        `yaml:"key" json:"key"`
	Name        string        `yaml:"name" json:"name"`
	HitDie      int           `yaml:"hit_die" json:"hit_die"`
	SkillPoints int           `yaml:"skill_points" json:"skill_points"`
	BaseAttack  Progression   `yaml:"base_attack" json:"base_attack"`
	GoodSaves   []shared.Save `yaml:"good_saves,omitempty" json:"good_saves,omitempty"`
	ClassSkills []string      `yaml:"class_skills,omitempty" json:"class_skills,omitempty"`

	Caster         CasterKind       `yaml:"caster,omitempty" json:"caster,omitempty"`
	CastingAbility shared.Attribute `yaml:"casting_ability,omitempty" json:"casting_ability,omitempty"`

	// BonusFeatLevels are class levels that grant a choice from the fighter bonus feat list
	BonusFeatLevels []int            `yaml:"bonus_feat_levels,omitempty" json:"bonus_feat_levels,omitempty"`
	Features        map[int][]string `yaml:"features,omitempty" json:"features,omitempty"`
}

func (c *ClassDefinition) CatalogKey() string {
	return c.Key
}

// IsSpellcaster reports whether the class casts spells
func (c *ClassDefinition) IsSpellcaster() bool {
	return c.Caster != CasterNone
}

// IsClassSkill reports whether a skill is on the class list
func (c *ClassDefinition) IsClassSkill(skill string) bool {
	for _, s := range c.ClassSkills {
		if s == skill {
			return true
		}
	}
	return false
}

// HasGoodSave reports whether the class uses the good progression for a save
func (c *ClassDefinition) HasGoodSave(save shared.Save) bool {
	for _, s := range c.GoodSaves {
		if s == save {
			return true
		}
	}
	return false
}

// GrantsBonusFeat reports whether reaching classLevel grants a class bonus feat
func (c *ClassDefinition) GrantsBonusFeat(classLevel int) bool {
	for _, l := range c.BonusFeatLevels {
		if l == classLevel {
			return true
		}
	}
	return false
}

// FeaturesThrough lists features gained from level 1 through classLevel in level order
func (c *ClassDefinition) FeaturesThrough(classLevel int) []string {
	var out []string
	for l := 1; l <= classLevel; l++ {
		out = append(out, c.Features[l]...)
	}
	return out
}
