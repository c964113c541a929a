package mockdice

import (
	"fmt"
	"sync"

	"github.com/KirkDiggler/dnd-rules-engine/internal/dice"
)

// ManualMockRoller returns predetermined die results in order
type ManualMockRoller struct {
	mu        sync.Mutex
	rolls     []int
	rollIndex int
}

// NewManualMockRoller creates a roller that will return rolls in order
func NewManualMockRoller(rolls ...int) *ManualMockRoller {
	return &ManualMockRoller{rolls: rolls}
}

// SetRolls replaces the remaining rolls
func (m *ManualMockRoller) SetRolls(rolls ...int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = rolls
	m.rollIndex = 0
}

// Roll implements dice.Roller
func (m *ManualMockRoller) Roll(count, sides, bonus int) (*dice.RollResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.rollIndex+count > len(m.rolls) {
		return nil, fmt.Errorf("no more predetermined rolls available (used %d of %d)", m.rollIndex, len(m.rolls))
	}

	rolls := append([]int(nil), m.rolls[m.rollIndex:m.rollIndex+count]...)
	m.rollIndex += count
	for _, v := range rolls {
		if v < 1 || v > sides {
			return nil, fmt.Errorf("predetermined roll %d is not a d%d result", v, sides)
		}
	}
	return dice.NewResult(sides, bonus, rolls...), nil
}
