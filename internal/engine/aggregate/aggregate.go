package aggregate

import (
	"fmt"

	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/character"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/rulebook/calculators"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/shared"
	rulerr "github.com/KirkDiggler/dnd-rules-engine/internal/errors"
)

// Stacking selects how same-typed bonuses combine
type Stacking string

const (
	// StackingTyped keeps only the highest bonus of each non-stacking type
	StackingTyped Stacking = "typed"
	// StackingFlat sums every bonus
	StackingFlat Stacking = "flat"
)

// ParseStacking accepts "typed" or "flat"; empty means typed
func ParseStacking(s string) (Stacking, error) {
	switch Stacking(s) {
	case "", StackingTyped:
		return StackingTyped, nil
	case StackingFlat:
		return StackingFlat, nil
	}
	return "", rulerr.InvalidArgumentf("unknown stacking mode '%s'", s)
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithStacking sets the stacking mode
func WithStacking(s Stacking) Option {
	return func(a *Aggregator) { a.stacking = s }
}

// Aggregator folds every active rule element of a character into DerivedStats
type Aggregator struct {
	catalogs *rulebook.Catalogs
	stacking Stacking
	ac       *calculators.ACCalculator
}

// New returns an aggregator over catalogs, stacking typed bonuses unless told otherwise
func New(catalogs *rulebook.Catalogs, opts ...Option) *Aggregator {
	a := &Aggregator{
		catalogs: catalogs,
		stacking: StackingTyped,
		ac:       calculators.NewACCalculator(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Stacking returns the configured stacking mode
func (a *Aggregator) Stacking() Stacking {
	return a.stacking
}

// Aggregate computes the derived snapshot. It reads char only and is deterministic.
func (a *Aggregator) Aggregate(char *character.Character) (*character.DerivedStats, error) {
	if char == nil {
		return nil, rulerr.InvalidArgument("character is required")
	}

	race, err := a.catalogs.Race(char.Race)
	if err != nil {
		return nil, err
	}

	l := newLedger(a.stacking)

	incomplete, err := a.collectFeats(l, char)
	if err != nil {
		return nil, err
	}
	weapons, err := a.collectItems(l, char)
	if err != nil {
		return nil, err
	}
	if err := a.collectSpells(l, char); err != nil {
		return nil, err
	}

	d := &character.DerivedStats{
		Abilities:  make(map[shared.Attribute]character.AbilityStat, len(shared.Attributes)),
		Level:      char.Level(),
		Saves:      make(map[shared.Save]int, len(shared.Saves)),
		Skills:     make(map[string]int, len(shared.Skills)),
		Incomplete: incomplete,
	}

	// abilities first; everything below reads effective modifiers
	for _, attr := range shared.Attributes {
		bonus, _ := l.resolve("ability:"+string(attr), shared.TargetAbility, string(attr))
		base := char.Abilities.Get(attr)
		d.Abilities[attr] = character.AbilityStat{
			Base:     base,
			Score:    base + bonus,
			Modifier: shared.AbilityModifier(base + bonus),
		}
	}

	if d.BaseAttackBonus, err = calculators.TotalBaseAttack(char.Classes, a.catalogs.Classes); err != nil {
		return nil, err
	}

	a.armorClass(l, d)

	d.ArmorCheck, _ = l.resolve("armor_check", shared.TargetArmorCheck)

	for _, save := range shared.Saves {
		base, err := calculators.TotalBaseSave(save, char.Classes, a.catalogs.Classes)
		if err != nil {
			return nil, err
		}
		bonus, _ := l.resolve("save:"+string(save), shared.TargetSave, string(save))
		d.Saves[save] = base + d.Modifier(save.Attribute()) + bonus
	}

	initiative, _ := l.resolve("initiative", shared.TargetInitiative)
	d.Initiative = d.Modifier(shared.AttributeDexterity) + initiative

	speed, _ := l.resolve("speed", shared.TargetSpeed)
	d.Speed = race.Speed + speed

	hp, _ := l.resolve("hit_points", shared.TargetHitPoints)
	d.MaxHitPoints = maxHitPoints(char.HitPoints.Rolls, d.Modifier(shared.AttributeConstitution)) + hp

	for _, skill := range shared.Skills {
		bonus, _ := l.resolve("skill:"+skill.Key, shared.TargetSkill, skill.Key)
		total := char.Skills[skill.Key].Ranks + d.Modifier(skill.Attribute) + bonus
		if skill.ArmorCheck {
			total += d.ArmorCheck
		}
		d.Skills[skill.Key] = total
	}

	for _, w := range weapons {
		d.Attacks = append(d.Attacks, a.attack(l, d, w))
	}

	if err := a.spellcasting(l, char, d); err != nil {
		return nil, err
	}

	d.ClassFeatures, err = a.classFeatures(char)
	if err != nil {
		return nil, err
	}

	weight, err := a.carriedWeight(char)
	if err != nil {
		return nil, err
	}
	d.Encumbrance = calculators.Encumbrance(weight, d.Abilities[shared.AttributeStrength].Score, race.Size)

	d.Contributions = l.audit
	return d, nil
}

func (a *Aggregator) armorClass(l *ledger, d *character.DerivedStats) {
	maxDex := l.resolveCap("max_dex", shared.TargetMaxDex)
	_, applied := l.resolve("ac", shared.TargetArmorClass)

	in := calculators.ACComponents{
		DexModifier: d.Modifier(shared.AttributeDexterity),
		MaxDexBonus: maxDex,
	}
	for _, b := range applied {
		switch b.Type {
		case shared.BonusArmor:
			in.Armor += b.Value
		case shared.BonusShield:
			in.Shield += b.Value
		case shared.BonusNatural:
			in.Natural += b.Value
		case shared.BonusDeflection:
			in.Deflection += b.Value
		case shared.BonusDodge:
			in.Dodge += b.Value
		default:
			in.Misc += b.Value
		}
	}
	d.ArmorClass = a.ac.Calculate(in)
}

func (a *Aggregator) attack(l *ledger, d *character.DerivedStats, w weapon) character.Attack {
	keys := []string{w.def.FocusKey(), localKey(w.instance.ID)}
	stat := fmt.Sprintf("%s/%s", w.instance.Key, w.instance.ID)

	str := d.Modifier(shared.AttributeStrength)
	ability := str
	if w.def.Ranged {
		ability = d.Modifier(shared.AttributeDexterity)
	}

	attackBonus, _ := l.resolve("attack:"+stat, shared.TargetAttack, keys...)
	damageBonus, _ := l.resolve("damage:"+stat, shared.TargetDamage, keys...)

	atk := character.Attack{
		ItemID:      w.instance.ID,
		ItemKey:     w.instance.Key,
		Slot:        w.instance.Slot,
		AttackBonus: d.BaseAttackBonus + ability + attackBonus,
		DamageBonus: strengthToDamage(str, w) + damageBonus,
	}

	atk.Damage = w.def.Damage
	if atk.DamageBonus > 0 {
		atk.Damage = fmt.Sprintf("%s+%d", w.def.Damage, atk.DamageBonus)
	} else if atk.DamageBonus < 0 {
		atk.Damage = fmt.Sprintf("%s%d", w.def.Damage, atk.DamageBonus)
	}

	for _, p := range w.def.Properties {
		if p.Dice != "" {
			atk.Extra = append(atk.Extra, fmt.Sprintf("%s %s", p.Dice, p.DamageType))
		}
	}
	return atk
}

// strengthToDamage applies 1.5x Str to two-handed and half Str to off-hand bonuses.
// Penalties always apply in full; ranged weapons add none.
func strengthToDamage(str int, w weapon) int {
	switch {
	case w.def.Ranged:
		return 0
	case str <= 0:
		return str
	case w.def.TwoHanded:
		return str * 3 / 2
	case w.instance.Slot == shared.SlotOffHand:
		return str / 2
	}
	return str
}

func (a *Aggregator) spellcasting(l *ledger, char *character.Character, d *character.DerivedStats) error {
	for _, cl := range char.Classes {
		class, err := a.catalogs.Class(cl.Class)
		if err != nil {
			return err
		}
		if !class.IsSpellcaster() {
			continue
		}

		if d.CasterLevels == nil {
			d.CasterLevels = make(map[string]int)
			d.MaxSpellLevels = make(map[string]int)
			d.SpellSlots = make(map[string][]int)
		}

		bonus, _ := l.resolve("caster_level:"+class.Key, shared.TargetCasterLevel, class.Key)
		d.CasterLevels[class.Key] = calculators.CasterLevel(class.Caster, cl.Level) + bonus

		if maxLevel, ok := calculators.MaxSpellLevel(class.Caster, cl.Level); ok {
			d.MaxSpellLevels[class.Key] = maxLevel
			d.SpellSlots[class.Key] = calculators.SpellSlots(class.Caster, cl.Level, d.Modifier(class.CastingAbility))
		}
	}

	for _, school := range shared.Schools {
		bonus, _ := l.resolve("spell_dc:"+string(school), shared.TargetSpellDC, string(school))
		if bonus == 0 {
			continue
		}
		if d.SpellDCBonus == nil {
			d.SpellDCBonus = make(map[shared.School]int)
		}
		d.SpellDCBonus[school] = bonus
	}
	return nil
}

func (a *Aggregator) classFeatures(char *character.Character) ([]string, error) {
	var features []string
	seen := make(map[string]bool)
	for _, cl := range char.Classes {
		class, err := a.catalogs.Class(cl.Class)
		if err != nil {
			return nil, err
		}
		for _, f := range class.FeaturesThrough(cl.Level) {
			if !seen[f] {
				seen[f] = true
				features = append(features, f)
			}
		}
	}
	return features, nil
}

// carriedWeight sums weight x quantity over the whole inventory, equipped or not
func (a *Aggregator) carriedWeight(char *character.Character) (float64, error) {
	total := 0.0
	for _, item := range char.Inventory {
		def, err := a.catalogs.Item(item.Key)
		if err != nil {
			return 0, err
		}
		total += def.Weight * float64(item.Count())
	}
	return total, nil
}

// maxHitPoints sums each level's hit-die roll plus Con, at least 1 per level
func maxHitPoints(rolls []int, conMod int) int {
	total := 0
	for _, r := range rolls {
		total += max(1, r+conMod)
	}
	return total
}
