package calculators

import (
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/character"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/shared"
)

const (
	lightLoadPerStrength  = 10
	mediumLoadPerStrength = 20
	heavyLoadPerStrength  = 30
)

// Encumbrance places a carried weight into a load tier for a Strength score and size
func Encumbrance(weight float64, strength int, size shared.Size) character.Encumbrance {
	m := size.CarryingMultiplier()
	str := float64(max(strength, 0))

	e := character.Encumbrance{
		Weight: weight,
		Light:  str * lightLoadPerStrength * m,
		Medium: str * mediumLoadPerStrength * m,
		Heavy:  str * heavyLoadPerStrength * m,
	}

	switch {
	case weight <= e.Light:
		e.Tier = character.EncumbranceLight
	case weight <= e.Medium:
		e.Tier = character.EncumbranceMedium
	case weight <= e.Heavy:
		e.Tier = character.EncumbranceHeavy
	default:
		e.Tier = character.EncumbranceOverloaded
	}
	return e
}
