package dice

import (
	toolkitdice "github.com/KirkDiggler/rpg-toolkit/dice"

	rulerr "github.com/KirkDiggler/dnd-rules-engine/internal/errors"
)

type toolkitRoller struct{}

// NewRoller returns a Roller backed by the rpg-toolkit dice package
func NewRoller() Roller {
	return &toolkitRoller{}
}

// Roll rolls each die separately so the individual results are kept
func (r *toolkitRoller) Roll(count, sides, bonus int) (*RollResult, error) {
	if count < 1 || sides < 1 {
		return nil, rulerr.InvalidArgumentf("cannot roll %dd%d", count, sides)
	}

	rolls := make([]int, count)
	for i := range rolls {
		roll, err := toolkitdice.NewRoll(1, sides)
		if err != nil {
			return nil, rulerr.Wrapf(err, "failed to roll d%d", sides)
		}
		rolls[i] = roll.GetValue()
	}
	return NewResult(sides, bonus, rolls...), nil
}
