package calculators

import "github.com/KirkDiggler/dnd-rules-engine/internal/domain/rulebook"

const (
	maxFullSpellLevel    = 9
	maxBardSpellLevel    = 6
	maxLimitedSpellLevel = 4

	// limited casters gain spells at this class level
	limitedCasterStart = 4
)

// CasterLevel returns the effective caster level for a class level
func CasterLevel(kind rulebook.CasterKind, classLevel int) int {
	switch kind {
	case rulebook.CasterFull, rulebook.CasterBard:
		return classLevel
	case rulebook.CasterLimited:
		if classLevel < limitedCasterStart {
			return 0
		}
		return classLevel / 2
	}
	return 0
}

// MaxSpellLevel returns the highest castable spell level. ok is false when the class
// cannot cast at all at this level.
func MaxSpellLevel(kind rulebook.CasterKind, classLevel int) (level int, ok bool) {
	if classLevel < 1 {
		return 0, false
	}

	switch kind {
	case rulebook.CasterFull:
		return min(maxFullSpellLevel, (classLevel+1)/2), true
	case rulebook.CasterBard:
		return min(maxBardSpellLevel, classLevel/2), true
	case rulebook.CasterLimited:
		if classLevel < limitedCasterStart {
			return 0, false
		}
		return min(maxLimitedSpellLevel, (classLevel-1)/3), true
	}
	return 0, false
}

// SpellSlots returns spells per day indexed by spell level, including bonus slots for the
// casting ability modifier. Limited casters have no 0-level slots.
func SpellSlots(kind rulebook.CasterKind, classLevel, abilityMod int) []int {
	maxLevel, ok := MaxSpellLevel(kind, classLevel)
	if !ok {
		return nil
	}

	slots := make([]int, maxLevel+1)
	for s := 0; s <= maxLevel; s++ {
		slots[s] = baseSlots(kind, classLevel, s)
		if s > 0 && slots[s] >= 0 {
			slots[s] += BonusSlots(abilityMod, s)
		}
		if slots[s] < 0 {
			slots[s] = 0
		}
	}
	return slots
}

// BonusSlots returns extra spells per day for a high casting ability
func BonusSlots(abilityMod, spellLevel int) int {
	if spellLevel < 1 || abilityMod < spellLevel {
		return 0
	}
	return 1 + (abilityMod-spellLevel)/4
}

func baseSlots(kind rulebook.CasterKind, classLevel, spellLevel int) int {
	switch kind {
	case rulebook.CasterFull:
		if spellLevel == 0 {
			if classLevel == 1 {
				return 3
			}
			return 4
		}
		first := 2*spellLevel - 1
		return min(4, 1+(classLevel-first+1)/2)
	case rulebook.CasterBard:
		if spellLevel == 0 {
			if classLevel == 1 {
				return 2
			}
			return 3
		}
		first := 2 * spellLevel
		return min(4, 1+(classLevel-first)/2)
	case rulebook.CasterLimited:
		if spellLevel == 0 {
			return -1
		}
		first := 3*spellLevel + 1
		return min(3, (classLevel-first)/4)
	}
	return 0
}
