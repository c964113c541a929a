package testutils

import (
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/character"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/shared"
)

// CreateTestFighter creates a level 2 human fighter with an empty inventory.
// Str 16, Dex 14, Con 14, Int 10, Wis 12, Cha 8; hit die rolls 10 and 6.
func CreateTestFighter(id string) *character.Character {
	char := character.New(id, "Valeros", "human", shared.AbilityScores{
		Strength:     16,
		Dexterity:    14,
		Constitution: 14,
		Intelligence: 10,
		Wisdom:       12,
		Charisma:     8,
	})
	char.Experience = 1000
	char.Classes = []character.ClassLevel{{Class: "fighter", Level: 2}}
	char.HitPoints = character.HitPoints{Current: 20, Rolls: []int{10, 6}}
	char.Skills = map[string]character.SkillRanks{
		"climb": {Ranks: 5, ClassSkill: true},
		"jump":  {Ranks: 5, ClassSkill: true},
	}
	return char
}

// CreateTestWizard creates a level 5 elf wizard.
// Str 8, Dex 14, Con 12, Int 16, Wis 12, Cha 10.
func CreateTestWizard(id string) *character.Character {
	char := character.New(id, "Ezren", "elf", shared.AbilityScores{
		Strength:     8,
		Dexterity:    14,
		Constitution: 12,
		Intelligence: 16,
		Wisdom:       12,
		Charisma:     10,
	})
	char.Experience = 10000
	char.Classes = []character.ClassLevel{{Class: "wizard", Level: 5}}
	char.HitPoints = character.HitPoints{Current: 17, Rolls: []int{4, 3, 2, 4, 1}}
	char.Skills = map[string]character.SkillRanks{
		"concentration": {Ranks: 8, ClassSkill: true},
		"spellcraft":    {Ranks: 8, ClassSkill: true},
	}
	char.Spells = map[string]character.SpellBook{
		"wizard": {Known: map[int][]string{
			1: {"magic_missile", "mage_armor", "shield"},
			3: {"fireball"},
		}},
	}
	return char
}

// CreateTestCharacter creates a level 0 human with average scores
func CreateTestCharacter(id, name string) *character.Character {
	return character.New(id, name, "human", shared.AbilityScores{
		Strength: 10, Dexterity: 10, Constitution: 10, Intelligence: 10, Wisdom: 10, Charisma: 10,
	})
}

// GiveItem adds an unequipped item instance
func GiveItem(char *character.Character, id, key string) *character.Character {
	char.Inventory = append(char.Inventory, character.ItemInstance{ID: id, Key: key, Quantity: 1})
	return char
}

// EquipItem adds an item instance already equipped in slot
func EquipItem(char *character.Character, id, key string, slot shared.Slot) *character.Character {
	char.Inventory = append(char.Inventory, character.ItemInstance{
		ID:       id,
		Key:      key,
		Quantity: 1,
		Equipped: true,
		Slot:     slot,
	})
	return char
}
