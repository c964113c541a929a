// Package dice rolls hit dice and other random values for character progression
package dice

//go:generate mockgen -destination=mock/mock_roller.go -package=mockdice -source=roller.go

// Roller rolls dice. Inject a fake in tests to make progression deterministic.
type Roller interface {
	// Roll rolls count dice with the given sides and adds bonus
	Roll(count, sides, bonus int) (*RollResult, error)
}

// RollResult holds the individual dice and their sum
type RollResult struct {
	Count int   `json:"count"`
	Sides int   `json:"sides"`
	Bonus int   `json:"bonus,omitempty"`
	Rolls []int `json:"rolls"`
	Total int   `json:"total"`
}

// Raw is the total without the bonus
func (r *RollResult) Raw() int {
	return r.Total - r.Bonus
}

// NewResult builds a result from already rolled dice
func NewResult(sides, bonus int, rolls ...int) *RollResult {
	total := bonus
	for _, v := range rolls {
		total += v
	}
	return &RollResult{
		Count: len(rolls),
		Sides: sides,
		Bonus: bonus,
		Rolls: rolls,
		Total: total,
	}
}
