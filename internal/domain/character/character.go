package character

import (
	"slices"

	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/shared"
)

// ClassLevel is one entry of a character's ordered class list
type ClassLevel struct {
	Class string `json:"class" yaml:"class"`
	Level int    `json:"level" yaml:"level"`
}

// HitPoints records one hit-die result per character level. Maximum is derived.
type HitPoints struct {
	Current int   `json:"current" yaml:"current"`
	Rolls   []int `json:"rolls,omitempty" yaml:"rolls,omitempty"`
}

// SkillRanks is the authoritative investment in one skill
type SkillRanks struct {
	Ranks      int  `json:"ranks" yaml:"ranks"`
	ClassSkill bool `json:"class_skill,omitempty" yaml:"class_skill,omitempty"`
}

// FeatInstance is a taken feat and, for variable feats, its sub-choice
type FeatInstance struct {
	Key    string `json:"key" yaml:"key"`
	Choice string `json:"choice,omitempty" yaml:"choice,omitempty"`
}

// ItemInstance is a carried item
type ItemInstance struct {
	ID       string      `json:"id" yaml:"id"`
	Key      string      `json:"key" yaml:"key"`
	Quantity int         `json:"quantity" yaml:"quantity"`
	Equipped bool        `json:"equipped,omitempty" yaml:"equipped,omitempty"`
	Slot     shared.Slot `json:"slot,omitempty" yaml:"slot,omitempty"`
}

// Count returns the quantity, treating zero as a single item
func (i ItemInstance) Count() int {
	if i.Quantity < 1 {
		return 1
	}
	return i.Quantity
}

// SpellBook holds known and prepared spells by spell level
type SpellBook struct {
	Known    map[int][]string `json:"known,omitempty" yaml:"known,omitempty"`
	Prepared map[int][]string `json:"prepared,omitempty" yaml:"prepared,omitempty"`
}

// ActiveSpell is a persistent spell effect currently in force on the character
type ActiveSpell struct {
	SpellKey    string `json:"spell" yaml:"spell"`
	CasterClass string `json:"caster_class" yaml:"caster_class"`
	CasterLevel int    `json:"caster_level" yaml:"caster_level"`
}

// Character is the authoritative character record. Everything in DerivedStats can be
// recomputed from it and the catalogs.
type Character struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Race       string `json:"race" yaml:"race"`
	Experience int    `json:"experience" yaml:"experience"`

	// Version is maintained by the repository for optimistic concurrency
	Version int64 `json:"version" yaml:"version,omitempty"`

	Abilities    shared.AbilityScores  `json:"abilities" yaml:"abilities"`
	Classes      []ClassLevel          `json:"classes,omitempty" yaml:"classes,omitempty"`
	HitPoints    HitPoints             `json:"hit_points" yaml:"hit_points"`
	Skills       map[string]SkillRanks `json:"skills,omitempty" yaml:"skills,omitempty"`
	Feats        []FeatInstance        `json:"feats,omitempty" yaml:"feats,omitempty"`
	Inventory    []ItemInstance        `json:"inventory,omitempty" yaml:"inventory,omitempty"`
	Spells       map[string]SpellBook  `json:"spells,omitempty" yaml:"spells,omitempty"`
	ActiveSpells []ActiveSpell         `json:"active_spells,omitempty" yaml:"active_spells,omitempty"`
}

// New creates a level 0 character with base abilities and nothing else
func New(id, name, race string, abilities shared.AbilityScores) *Character {
	return &Character{
		ID:        id,
		Name:      name,
		Race:      race,
		Abilities: abilities,
	}
}

// Level returns the total character level
func (c *Character) Level() int {
	total := 0
	for _, cl := range c.Classes {
		total += cl.Level
	}
	return total
}

// ClassLevel returns the character's level in a class
func (c *Character) ClassLevel(class string) int {
	for _, cl := range c.Classes {
		if cl.Class == class {
			return cl.Level
		}
	}
	return 0
}

// HasFeat reports whether any instance of the feat is held
func (c *Character) HasFeat(key string) bool {
	for _, f := range c.Feats {
		if f.Key == key {
			return true
		}
	}
	return false
}

// HasFeatChoice reports whether the feat is held with the given choice
func (c *Character) HasFeatChoice(key, choice string) bool {
	for _, f := range c.Feats {
		if f.Key == key && f.Choice == choice {
			return true
		}
	}
	return false
}

// AddFeat adds the instance unless an identical one is already held
func (c *Character) AddFeat(key, choice string) bool {
	if c.HasFeatChoice(key, choice) {
		return false
	}
	c.Feats = append(c.Feats, FeatInstance{Key: key, Choice: choice})
	return true
}

// RemoveFeat removes the matching instance if held
func (c *Character) RemoveFeat(key, choice string) bool {
	for i, f := range c.Feats {
		if f.Key == key && f.Choice == choice {
			c.Feats = append(c.Feats[:i:i], c.Feats[i+1:]...)
			return true
		}
	}
	return false
}

// Item returns the inventory index of an item instance, or -1
func (c *Character) Item(id string) int {
	for i, item := range c.Inventory {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Equipped returns the equipped item instances in inventory order
func (c *Character) Equipped() []ItemInstance {
	var out []ItemInstance
	for _, item := range c.Inventory {
		if item.Equipped {
			out = append(out, item)
		}
	}
	return out
}

// Occupants returns the inventory indexes of items equipped in a slot
func (c *Character) Occupants(slot shared.Slot) []int {
	var out []int
	for i, item := range c.Inventory {
		if item.Equipped && item.Slot == slot {
			out = append(out, i)
		}
	}
	return out
}

// ActiveSpell returns the index of an active spell, or -1
func (c *Character) ActiveSpell(spellKey string) int {
	for i, s := range c.ActiveSpells {
		if s.SpellKey == spellKey {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}

	clone := *c
	// slices.Clone keeps nil and empty distinct so repeated no-op actions compare equal
	clone.Classes = slices.Clone(c.Classes)
	clone.HitPoints.Rolls = slices.Clone(c.HitPoints.Rolls)
	clone.Feats = slices.Clone(c.Feats)
	clone.Inventory = slices.Clone(c.Inventory)
	clone.ActiveSpells = slices.Clone(c.ActiveSpells)

	if c.Skills != nil {
		clone.Skills = make(map[string]SkillRanks, len(c.Skills))
		for k, v := range c.Skills {
			clone.Skills[k] = v
		}
	}

	if c.Spells != nil {
		clone.Spells = make(map[string]SpellBook, len(c.Spells))
		for class, book := range c.Spells {
			clone.Spells[class] = SpellBook{
				Known:    cloneSpellLevels(book.Known),
				Prepared: cloneSpellLevels(book.Prepared),
			}
		}
	}

	return &clone
}

func cloneSpellLevels(in map[int][]string) map[int][]string {
	if in == nil {
		return nil
	}
	out := make(map[int][]string, len(in))
	for level, spells := range in {
		out[level] = slices.Clone(spells)
	}
	return out
}
