package spellcasting

import (
	"fmt"

	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/character"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-rules-engine/internal/engine/aggregate"
	rulerr "github.com/KirkDiggler/dnd-rules-engine/internal/errors"
)

const baseSaveDC = 10

// Resolver computes legality and parameters of spell casts
type Resolver struct {
	catalogs   *rulebook.Catalogs
	aggregator *aggregate.Aggregator
}

// NewResolver creates a resolver
func NewResolver(catalogs *rulebook.Catalogs, aggregator *aggregate.Aggregator) *Resolver {
	return &Resolver{
		catalogs:   catalogs,
		aggregator: aggregator,
	}
}

// ResolveCast decides whether char may cast spellKey as casterClass with the metamagic
// feats applied in the given order. Errors are reserved for unknown ids.
func (r *Resolver) ResolveCast(char *character.Character, spellKey, casterClass string, metamagic []string) (*CastResult, error) {
	if char == nil {
		return nil, rulerr.InvalidArgument("character is required")
	}

	spell, err := r.catalogs.Spell(spellKey)
	if err != nil {
		return nil, err
	}
	class, err := r.catalogs.Class(casterClass)
	if err != nil {
		return nil, err
	}
	transforms, err := r.metamagic(metamagic)
	if err != nil {
		return nil, err
	}

	derived, err := r.aggregator.Aggregate(char)
	if err != nil {
		return nil, err
	}

	if reason := r.legality(char, derived, spell, class, transforms); reason != nil {
		return &CastResult{Legal: false, Reason: reason}, nil
	}

	return &CastResult{Legal: true, Spell: r.resolve(derived, spell, class, transforms)}, nil
}

// Cast applies a legal cast. Spells with persistent bonuses become active on the
// character; casting one that is already active refreshes it.
func (r *Resolver) Cast(char *character.Character, spellKey, casterClass string, metamagic []string) (*CastOutcome, error) {
	result, err := r.ResolveCast(char, spellKey, casterClass, metamagic)
	if err != nil {
		return nil, err
	}
	if !result.Legal {
		return &CastOutcome{CastResult: *result, Character: char.Clone()}, nil
	}

	next := char.Clone()
	spell, err := r.catalogs.Spell(spellKey)
	if err != nil {
		return nil, err
	}
	if spell.IsPersistent() {
		active := character.ActiveSpell{
			SpellKey:    spellKey,
			CasterClass: casterClass,
			CasterLevel: result.Spell.CasterLevel,
		}
		if i := next.ActiveSpell(spellKey); i >= 0 {
			next.ActiveSpells[i] = active
		} else {
			next.ActiveSpells = append(next.ActiveSpells, active)
		}
	}

	derived, err := r.aggregator.Aggregate(next)
	if err != nil {
		return nil, err
	}
	return &CastOutcome{CastResult: *result, Character: next, Derived: derived}, nil
}

// Dismiss ends an active spell. Dismissing an inactive spell changes nothing.
func (r *Resolver) Dismiss(char *character.Character, spellKey string) (*CastOutcome, error) {
	if char == nil {
		return nil, rulerr.InvalidArgument("character is required")
	}
	if _, err := r.catalogs.Spell(spellKey); err != nil {
		return nil, err
	}

	next := char.Clone()
	if i := next.ActiveSpell(spellKey); i >= 0 {
		next.ActiveSpells = append(next.ActiveSpells[:i:i], next.ActiveSpells[i+1:]...)
	}

	derived, err := r.aggregator.Aggregate(next)
	if err != nil {
		return nil, err
	}
	return &CastOutcome{CastResult: CastResult{Legal: true}, Character: next, Derived: derived}, nil
}

// metamagic looks up the transforms in caller order
func (r *Resolver) metamagic(keys []string) ([]*rulebook.FeatDefinition, error) {
	out := make([]*rulebook.FeatDefinition, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		def, err := r.catalogs.Feat(key)
		if err != nil {
			return nil, err
		}
		if !def.IsMetamagic() {
			return nil, rulerr.InvalidArgumentf("feat '%s' is not a metamagic feat", key)
		}
		if seen[key] {
			return nil, rulerr.InvalidArgumentf("metamagic feat '%s' applied twice", key)
		}
		seen[key] = true
		out = append(out, def)
	}
	return out, nil
}

func (r *Resolver) legality(
	char *character.Character,
	derived *character.DerivedStats,
	spell *rulebook.SpellDefinition,
	class *rulebook.ClassDefinition,
	transforms []*rulebook.FeatDefinition,
) *Reason {
	if char.ClassLevel(class.Key) < 1 {
		return &Reason{Code: ReasonNoClassLevels, Subject: class.Key}
	}

	base, ok := spell.LevelFor(class.Key)
	if !ok {
		return &Reason{Code: ReasonNotOnClassList, Subject: class.Key}
	}

	maxLevel, ok := derived.MaxSpellLevels[class.Key]
	if !ok {
		maxLevel = -1
	}
	if base > maxLevel {
		return &Reason{Code: ReasonSpellLevelTooHigh, Subject: class.Key, Required: base, Actual: maxLevel}
	}

	for _, t := range transforms {
		if !char.HasFeat(t.Key) {
			return &Reason{Code: ReasonMetamagicNotKnown, Subject: t.Key}
		}
	}
	return nil
}

// resolve substitutes caster level and folds the metamagic transforms in order
func (r *Resolver) resolve(
	derived *character.DerivedStats,
	spell *rulebook.SpellDefinition,
	class *rulebook.ClassDefinition,
	transforms []*rulebook.FeatDefinition,
) *ResolvedSpell {
	base, _ := spell.LevelFor(class.Key)
	cl := derived.CasterLevels[class.Key]

	rs := &ResolvedSpell{
		Key:             spell.Key,
		Name:            spell.Name,
		Class:           class.Key,
		School:          spell.School,
		BaseLevel:       base,
		EffectiveLevel:  base,
		CasterLevel:     cl,
		Components:      append([]rulebook.Component(nil), spell.Components...),
		CastingTime:     spell.CastingTime,
		Effect:          spell.Effect,
		Save:            spell.Save,
		SpellResistance: spell.SpellResistance,
	}
	if spell.Range != nil {
		rs.Range = &Quantity{Value: spell.Range.Resolve(cl), Unit: spell.Range.Unit}
	}
	if spell.Duration != nil {
		rs.Duration = &Quantity{Value: spell.Duration.Resolve(cl), Unit: spell.Duration.Unit}
	}
	if spell.Area != nil {
		area := *spell.Area
		rs.Area = &area
	}
	if spell.Formula != nil {
		dice := spell.Formula.Resolve(cl)
		rs.Dice = &dice
		rs.Expression = dice.String()
	}

	f := fold{scale: 1}
	for _, t := range transforms {
		f.apply(rs, t)
	}
	if rs.Dice != nil {
		if f.maximized {
			// empowering a maximized spell adds half a normal roll, not half the maximum
			rs.Expected = float64(rs.Dice.Max()) + rs.Dice.Average()*(f.scale-1)
		} else {
			rs.Expected = rs.Dice.Average() * f.scale
		}
	}

	rs.SaveDC = baseSaveDC + rs.EffectiveLevel + derived.Modifier(class.CastingAbility) + derived.SpellDCBonus[spell.School]
	return rs
}

// fold carries the numeric effect of formula transforms across the metamagic list
type fold struct {
	scale     float64
	maximized bool
}

// apply performs one metamagic transform
func (f *fold) apply(rs *ResolvedSpell, feat *rulebook.FeatDefinition) {
	m := feat.Metamagic
	rs.Applied = append(rs.Applied, feat.Key)
	rs.EffectiveLevel += m.LevelIncrease

	if rs.Dice != nil {
		switch m.Formula {
		case rulebook.FormulaEmpower:
			rs.Expression = fmt.Sprintf("1.5*(%s)", rs.Expression)
			f.scale *= 1.5
		case rulebook.FormulaMaximize:
			rs.Expression = fmt.Sprintf("max(%s)", rs.Expression)
			f.maximized = true
		}
	}

	if m.RangeMultiplier > 1 && rs.Range != nil {
		rs.Range.Value *= m.RangeMultiplier
	}
	if m.DurationMultiplier > 1 && rs.Duration != nil {
		rs.Duration.Value *= m.DurationMultiplier
	}
	if m.AreaMultiplier > 1 && rs.Area != nil {
		rs.Area.Size *= m.AreaMultiplier
	}
	if m.CastingTime != "" {
		rs.CastingTime = m.CastingTime
	}
	if len(m.DropComponents) > 0 {
		rs.Components = dropComponents(rs.Components, m.DropComponents)
	}
}

func dropComponents(components, drop []rulebook.Component) []rulebook.Component {
	var out []rulebook.Component
	for _, c := range components {
		keep := true
		for _, d := range drop {
			if c == d {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, c)
		}
	}
	return out
}
