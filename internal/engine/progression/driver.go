package progression

import (
	"github.com/KirkDiggler/dnd-rules-engine/internal/dice"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/character"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/rulebook/calculators"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/shared"
	"github.com/KirkDiggler/dnd-rules-engine/internal/engine/aggregate"
	"github.com/KirkDiggler/dnd-rules-engine/internal/engine/feats"
	rulerr "github.com/KirkDiggler/dnd-rules-engine/internal/errors"
)

// Driver starts level-up transactions
type Driver struct {
	catalogs   *rulebook.Catalogs
	granter    *feats.Granter
	aggregator *aggregate.Aggregator
	roller     dice.Roller
}

// Option configures a Driver
type Option func(*Driver)

// WithRoller sets the roller used for hit dice
func WithRoller(roller dice.Roller) Option {
	return func(d *Driver) {
		d.roller = roller
	}
}

// NewDriver creates a progression driver
func NewDriver(catalogs *rulebook.Catalogs, granter *feats.Granter, aggregator *aggregate.Aggregator, opts ...Option) *Driver {
	d := &Driver{
		catalogs:   catalogs,
		granter:    granter,
		aggregator: aggregator,
		roller:     dice.NewRoller(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// CanLevelUp reports whether the character has the experience for another level
func (d *Driver) CanLevelUp(char *character.Character) bool {
	return char != nil && calculators.CanLevelUp(char.Experience, char.Level())
}

// Begin opens a level-up in classKey. The character is copied; nothing changes on it
// until Finalize.
func (d *Driver) Begin(char *character.Character, classKey string) (*LevelUp, error) {
	if char == nil {
		return nil, rulerr.InvalidArgument("character is required")
	}

	class, err := d.catalogs.Class(classKey)
	if err != nil {
		return nil, err
	}
	race, err := d.catalogs.Race(char.Race)
	if err != nil {
		return nil, err
	}

	level := char.Level()
	if !calculators.CanLevelUp(char.Experience, level) {
		if level >= calculators.MaxLevel {
			return nil, rulerr.InvalidTransitionf("character is already level %d", calculators.MaxLevel).
				WithMeta("level", level)
		}
		return nil, rulerr.InvalidTransitionf("level %d requires %d experience, has %d",
			level+1, calculators.XPForLevel(level+1), char.Experience).
			WithMeta("level", level)
	}

	newLevel := level + 1
	classLevel := char.ClassLevel(classKey) + 1
	firstLevel := level == 0

	return &LevelUp{
		NewLevel:    newLevel,
		ClassKey:    classKey,
		ClassLevel:  classLevel,
		CurrentStep: StepHitPoints,
		Steps:       stepsFor(newLevel, class.GrantsBonusFeat(classLevel)),
		SkillBudget: calculators.SkillPoints(
			class.SkillPoints,
			char.Abilities.Modifier(shared.AttributeIntelligence),
			race.SkillPoints,
			firstLevel,
		),
		driver:     d,
		base:       char.Clone(),
		class:      class,
		firstLevel: firstLevel,
		ranks:      make(map[string]int),
	}, nil
}
