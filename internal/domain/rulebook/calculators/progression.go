package calculators

import (
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/character"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/shared"
)

// BaseAttack returns a single class's BAB contribution
func BaseAttack(p rulebook.Progression, level int) int {
	switch p {
	case rulebook.ProgressionGood:
		return level
	case rulebook.ProgressionAverage:
		return level * 3 / 4
	}
	return level / 2
}

// BaseSave returns a single class's base save contribution
func BaseSave(good bool, level int) int {
	if level < 1 {
		return 0
	}
	if good {
		return 2 + level/2
	}
	return level / 3
}

// TotalBaseAttack sums BAB across a multiclass list
func TotalBaseAttack(classes []character.ClassLevel, catalog *rulebook.Catalog[*rulebook.ClassDefinition]) (int, error) {
	total := 0
	for _, cl := range classes {
		class, err := catalog.Lookup(cl.Class)
		if err != nil {
			return 0, err
		}
		total += BaseAttack(class.BaseAttack, cl.Level)
	}
	return total, nil
}

// TotalBaseSave sums base saves across a multiclass list
func TotalBaseSave(save shared.Save, classes []character.ClassLevel, catalog *rulebook.Catalog[*rulebook.ClassDefinition]) (int, error) {
	total := 0
	for _, cl := range classes {
		class, err := catalog.Lookup(cl.Class)
		if err != nil {
			return 0, err
		}
		total += BaseSave(class.HasGoodSave(save), cl.Level)
	}
	return total, nil
}

// TotalCasterLevel sums levels in spellcasting classes
func TotalCasterLevel(classes []character.ClassLevel, catalog *rulebook.Catalog[*rulebook.ClassDefinition]) (int, error) {
	total := 0
	for _, cl := range classes {
		class, err := catalog.Lookup(cl.Class)
		if err != nil {
			return 0, err
		}
		if class.IsSpellcaster() {
			total += cl.Level
		}
	}
	return total, nil
}
