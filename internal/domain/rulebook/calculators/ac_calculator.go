package calculators

import "github.com/KirkDiggler/dnd-rules-engine/internal/domain/character"

const baseArmorClass = 10

// ACComponents are the already-merged inputs to an armor class computation
type ACComponents struct {
	Armor      int
	Shield     int
	Natural    int
	Deflection int
	Dodge      int
	Misc       int

	DexModifier int
	// MaxDexBonus is the most restrictive cap, nil when no source defines one
	MaxDexBonus *int
}

// ACCalculator computes total, touch and flat-footed armor class
type ACCalculator struct{}

// NewACCalculator creates a new AC calculator
func NewACCalculator() *ACCalculator {
	return &ACCalculator{}
}

// Calculate applies the max dex cap and builds the three AC values.
// Touch drops armor, shield and natural. Flat-footed drops positive Dex and dodge.
func (c *ACCalculator) Calculate(in ACComponents) character.ArmorClass {
	dex := in.DexModifier
	if in.MaxDexBonus != nil && dex > *in.MaxDexBonus {
		dex = *in.MaxDexBonus
	}

	ac := character.ArmorClass{
		Armor:      in.Armor,
		Shield:     in.Shield,
		Dexterity:  dex,
		Natural:    in.Natural,
		Deflection: in.Deflection,
		Dodge:      in.Dodge,
		Misc:       in.Misc,
	}
	if in.MaxDexBonus != nil {
		limit := *in.MaxDexBonus
		ac.MaxDexBonus = &limit
	}

	ac.Total = baseArmorClass + in.Armor + in.Shield + dex + in.Natural + in.Deflection + in.Dodge + in.Misc
	ac.Touch = baseArmorClass + dex + in.Deflection + in.Dodge + in.Misc

	// a Dex penalty still applies when caught flat-footed
	ac.FlatFooted = baseArmorClass + in.Armor + in.Shield + min(dex, 0) + in.Natural + in.Deflection + in.Misc

	return ac
}
