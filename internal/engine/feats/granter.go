package feats

import (
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/character"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/shared"
	"github.com/KirkDiggler/dnd-rules-engine/internal/engine/aggregate"
	"github.com/KirkDiggler/dnd-rules-engine/internal/engine/prerequisites"
	rulerr "github.com/KirkDiggler/dnd-rules-engine/internal/errors"
)

// Outcome is the result of a feat grant, choice or revoke
type Outcome struct {
	// Granted is false when prerequisites were not met
	Granted bool `json:"granted"`
	// Changed is false when the character already matched the requested state
	Changed bool                  `json:"changed"`
	Result  *prerequisites.Result `json:"prerequisites,omitempty"`

	Character *character.Character    `json:"character"`
	Derived   *character.DerivedStats `json:"derived,omitempty"`
}

// Granter adds and removes feats. Every call returns a new character; the input is
// never modified.
type Granter struct {
	catalogs   *rulebook.Catalogs
	validator  *prerequisites.Validator
	aggregator *aggregate.Aggregator
}

// NewGranter creates a granter
func NewGranter(catalogs *rulebook.Catalogs, validator *prerequisites.Validator, aggregator *aggregate.Aggregator) *Granter {
	return &Granter{
		catalogs:   catalogs,
		validator:  validator,
		aggregator: aggregator,
	}
}

// Grant adds a feat instance. A variable feat may be granted without a choice; it is then
// reported as incomplete until Choose records one.
func (g *Granter) Grant(char *character.Character, featKey, choice string) (*Outcome, error) {
	if char == nil {
		return nil, rulerr.InvalidArgument("character is required")
	}

	def, err := g.catalogs.Feat(featKey)
	if err != nil {
		return nil, err
	}
	if err := g.CheckChoice(def, choice); err != nil {
		return nil, err
	}

	if char.HasFeatChoice(featKey, choice) || (!def.IsVariable() && char.HasFeat(featKey)) {
		return g.unchanged(char, true)
	}

	result, err := g.validator.ValidateDefinition(def, choice, char)
	if err != nil {
		return nil, err
	}
	if !result.Eligible {
		return &Outcome{Granted: false, Result: result, Character: char.Clone()}, nil
	}

	next := char.Clone()
	next.AddFeat(featKey, choice)

	derived, err := g.aggregator.Aggregate(next)
	if err != nil {
		return nil, err
	}
	return &Outcome{Granted: true, Changed: true, Result: result, Character: next, Derived: derived}, nil
}

// Choose records the sub-choice of a variable feat that was granted without one
func (g *Granter) Choose(char *character.Character, featKey, choice string) (*Outcome, error) {
	if char == nil {
		return nil, rulerr.InvalidArgument("character is required")
	}

	def, err := g.catalogs.Feat(featKey)
	if err != nil {
		return nil, err
	}
	if !def.IsVariable() {
		return nil, rulerr.InvalidArgumentf("feat '%s' takes no choice", featKey)
	}
	if choice == "" {
		return nil, rulerr.IncompleteVariableSelectionf("feat '%s' requires a %s choice", featKey, def.Effect.Variable)
	}
	if err := g.CheckChoice(def, choice); err != nil {
		return nil, err
	}

	if char.HasFeatChoice(featKey, choice) {
		if !char.HasFeatChoice(featKey, "") {
			return g.unchanged(char, true)
		}
		return nil, rulerr.AlreadyExistsf("feat '%s' already taken for '%s'", featKey, choice)
	}
	if !char.HasFeatChoice(featKey, "") {
		return nil, rulerr.NotFoundf("no unresolved '%s' feat to choose for", featKey)
	}

	result, err := g.validator.ValidateDefinition(def, choice, char)
	if err != nil {
		return nil, err
	}
	if !result.Eligible {
		return &Outcome{Granted: false, Result: result, Character: char.Clone()}, nil
	}

	next := char.Clone()
	next.RemoveFeat(featKey, "")
	next.AddFeat(featKey, choice)

	derived, err := g.aggregator.Aggregate(next)
	if err != nil {
		return nil, err
	}
	return &Outcome{Granted: true, Changed: true, Result: result, Character: next, Derived: derived}, nil
}

// Revoke removes a feat instance. Removing a feat another held feat depends on fails with
// a prerequisite error.
func (g *Granter) Revoke(char *character.Character, featKey, choice string) (*Outcome, error) {
	if char == nil {
		return nil, rulerr.InvalidArgument("character is required")
	}
	if _, err := g.catalogs.Feat(featKey); err != nil {
		return nil, err
	}

	if !char.HasFeatChoice(featKey, choice) {
		return g.unchanged(char, false)
	}

	next := char.Clone()
	next.RemoveFeat(featKey, choice)

	for _, held := range next.Feats {
		def, err := g.catalogs.Feat(held.Key)
		if err != nil {
			return nil, err
		}
		if dependsOn(def, held.Choice, featKey, choice) && !stillSatisfied(next, def, held.Choice, featKey) {
			return nil, rulerr.PrerequisiteNotMetf("feat '%s' is required by '%s'", featKey, held.Key).
				WithMeta("feat", featKey).
				WithMeta("required_by", held.Key)
		}
	}

	derived, err := g.aggregator.Aggregate(next)
	if err != nil {
		return nil, err
	}
	return &Outcome{Granted: false, Changed: true, Character: next, Derived: derived}, nil
}

// Available lists feats the character could take now
func (g *Granter) Available(char *character.Character) ([]string, error) {
	return g.validator.Available(char)
}

// CheckChoice rejects choices on fixed feats and choices that name nothing in the rules
func (g *Granter) CheckChoice(def *rulebook.FeatDefinition, choice string) error {
	if choice == "" {
		return nil
	}

	switch def.Effect.Variable {
	case rulebook.VariableNone:
		return rulerr.InvalidArgumentf("feat '%s' takes no choice", def.Key)
	case rulebook.VariableSkill:
		if _, ok := shared.LookupSkill(choice); ok {
			return nil
		}
	case rulebook.VariableSchool:
		for _, school := range shared.Schools {
			if string(school) == choice {
				return nil
			}
		}
	case rulebook.VariableWeapon:
		for _, item := range g.catalogs.Items.All() {
			if item.IsWeapon() && item.FocusKey() == choice {
				return nil
			}
		}
	}
	return rulerr.InvalidArgumentf("'%s' is not a valid %s for feat '%s'", choice, def.Effect.Variable, def.Key)
}

func (g *Granter) unchanged(char *character.Character, granted bool) (*Outcome, error) {
	next := char.Clone()
	derived, err := g.aggregator.Aggregate(next)
	if err != nil {
		return nil, err
	}
	return &Outcome{Granted: granted, Changed: false, Character: next, Derived: derived}, nil
}

// dependsOn reports whether def (held with choice) names removed as a prerequisite
func dependsOn(def *rulebook.FeatDefinition, choice, removed, removedChoice string) bool {
	p := def.Prerequisites
	if p == nil {
		return false
	}
	for _, f := range p.Feats {
		if f == removed {
			return true
		}
	}
	for _, f := range p.SameChoiceFeats {
		if f == removed && choice == removedChoice {
			return true
		}
	}
	return false
}

// stillSatisfied reports whether another instance of removed still satisfies def
func stillSatisfied(char *character.Character, def *rulebook.FeatDefinition, choice, removed string) bool {
	for _, f := range def.Prerequisites.SameChoiceFeats {
		if f == removed {
			return char.HasFeatChoice(removed, choice)
		}
	}
	return char.HasFeat(removed)
}
