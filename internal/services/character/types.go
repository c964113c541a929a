package character

import (
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/character"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/shared"
	"github.com/KirkDiggler/dnd-rules-engine/internal/engine/progression"
)

// CreateCharacterInput contains all data needed to create a character
type CreateCharacterInput struct {
	Name       string
	RaceKey    string
	Abilities  shared.AbilityScores
	Experience int
}

// CharacterOutput is a character with its derived statistics
type CharacterOutput struct {
	Character *character.Character    `json:"character"`
	Derived   *character.DerivedStats `json:"derived"`
}

// AwardExperienceInput adds experience to a character
type AwardExperienceInput struct {
	CharacterID string
	Amount      int
}

// FeatInput names a feat and, for variable feats, its sub-choice
type FeatInput struct {
	CharacterID string
	FeatKey     string
	Choice      string
}

// CastInput is a spell cast with metamagic in application order
type CastInput struct {
	CharacterID string
	SpellKey    string
	CasterClass string
	Metamagic   []string
}

// DismissInput ends an active spell
type DismissInput struct {
	CharacterID string
	SpellKey    string
}

// EquipInput puts an inventory item into a slot; an empty slot picks the default
type EquipInput struct {
	CharacterID string
	ItemID      string
	Slot        shared.Slot
}

// UnequipInput returns an item to the pack
type UnequipInput struct {
	CharacterID string
	ItemID      string
}

// AddItemInput adds catalog items to the inventory
type AddItemInput struct {
	CharacterID string
	ItemKey     string
	Quantity    int
}

// RemoveItemInput removes items; a zero quantity removes the whole stack
type RemoveItemInput struct {
	CharacterID string
	ItemID      string
	Quantity    int
}

// FeatChoice is a feat picked during a level-up
type FeatChoice struct {
	Key    string
	Choice string
}

// LevelUpInput carries every choice a level-up can need. Choices for steps the new
// level does not include are ignored.
type LevelUpInput struct {
	CharacterID string
	ClassKey    string

	// HitDieRoll is a result rolled elsewhere; zero rolls the hit die
	HitDieRoll int
	Skills     map[string]int
	Ability    shared.Attribute
	Feat       *FeatChoice
	ClassFeat  *FeatChoice

	// DryRun stops at Review and saves nothing
	DryRun bool
}

// LevelUpOutput is the reviewed or committed level-up
type LevelUpOutput struct {
	Character  *character.Character    `json:"character"`
	Derived    *character.DerivedStats `json:"derived"`
	NewLevel   int                     `json:"new_level"`
	ClassLevel int                     `json:"class_level"`
	HitDieRoll int                     `json:"hit_die_roll"`
	Steps      progression.Step        `json:"steps"`
	Committed  bool                    `json:"committed"`
}
