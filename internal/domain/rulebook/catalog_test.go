package rulebook_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/shared"
	rulerr "github.com/KirkDiggler/dnd-rules-engine/internal/errors"
)

func TestNewCatalog(t *testing.T) {
	c, err := rulebook.NewCatalog("feat",
		&rulebook.FeatDefinition{Key: "toughness"},
		&rulebook.FeatDefinition{Key: "dodge"},
	)
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"dodge", "toughness"}, c.Keys())

	feat, ok := c.Get("dodge")
	require.True(t, ok)
	assert.Equal(t, "dodge", feat.Key)

	_, err = c.Lookup("cleave")
	require.Error(t, err)
	assert.True(t, rulerr.IsUnknownCatalogEntry(err))
	assert.Equal(t, "feat", rulerr.GetMeta(err)["kind"])
}

func TestNewCatalog_RejectsDuplicates(t *testing.T) {
	_, err := rulebook.NewCatalog("item",
		&rulebook.ItemDefinition{Key: "longsword"},
		&rulebook.ItemDefinition{Key: "longsword"},
	)
	require.Error(t, err)
	assert.True(t, rulerr.IsAlreadyExists(err))

	_, err = rulebook.NewCatalog("item", &rulebook.ItemDefinition{})
	assert.True(t, rulerr.IsInvalidArgument(err))
}

func TestNilCatalog(t *testing.T) {
	var c *rulebook.Catalog[*rulebook.SpellDefinition]
	assert.Zero(t, c.Len())
	assert.Nil(t, c.All())
	_, err := c.Lookup("fireball")
	assert.True(t, rulerr.IsUnknownCatalogEntry(err))
}

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"classes.yaml": {Data: []byte(`
- key: wizard
  name: Wizard
  hit_die: 4
  skill_points: 2
  base_attack: poor
  good_saves: [will]
  caster: full
  casting_ability: Int
  features:
    1: [scribe_scroll]
`)},
		"feats.yaml": {Data: []byte(`
- key: spell_focus
  name: Spell Focus
  effect:
    variable: school
    bonuses:
      - {target: spell_dc, key: $choice, value: 1}
`)},
		"spells.yaml": {Data: []byte(`
- key: fireball
  name: Fireball
  school: evocation
  levels: {wizard: 3}
  formula: 1d6/level max 10d6
`)},
	}

	c, err := rulebook.Load(fsys)
	require.NoError(t, err)

	wizard, err := c.Class("wizard")
	require.NoError(t, err)
	assert.Equal(t, rulebook.CasterFull, wizard.Caster)
	assert.Equal(t, shared.AttributeIntelligence, wizard.CastingAbility)
	assert.Equal(t, []string{"scribe_scroll"}, wizard.FeaturesThrough(3))

	fireball, err := c.Spell("fireball")
	require.NoError(t, err)
	level, ok := fireball.LevelFor("wizard")
	assert.True(t, ok)
	assert.Equal(t, 3, level)
	assert.Equal(t, "10d6", fireball.Formula.Resolve(20).String())

	focus, err := c.Feat("spell_focus")
	require.NoError(t, err)
	assert.True(t, focus.IsVariable())

	// no items or races file
	assert.Zero(t, c.Items.Len())
	assert.Zero(t, c.Races.Len())
}

func TestLoad_UnknownField(t *testing.T) {
	fsys := fstest.MapFS{
		"races.yaml": {Data: []byte("- key: human\n  wings: true\n")},
	}
	_, err := rulebook.Load(fsys)
	require.Error(t, err)
	assert.True(t, rulerr.IsInvalidArgument(err))
}

func TestLoad_DanglingReference(t *testing.T) {
	fsys := fstest.MapFS{
		"feats.yaml": {Data: []byte(`
- key: cleave
  prerequisites:
    feats: [power_attack]
`)},
	}
	_, err := rulebook.Load(fsys)
	require.Error(t, err)
	assert.True(t, rulerr.IsUnknownCatalogEntry(err))
}

func TestFeatEffect_Resolve(t *testing.T) {
	effect := rulebook.FeatEffect{
		Variable: rulebook.VariableSkill,
		Bonuses:  []rulebook.Bonus{{Target: shared.TargetSkill, Key: rulebook.ChoicePlaceholder, Value: 3}},
	}

	bonuses, ok := effect.Resolve("")
	assert.False(t, ok)
	assert.Empty(t, bonuses)

	bonuses, ok = effect.Resolve("hide")
	require.True(t, ok)
	require.Len(t, bonuses, 1)
	assert.Equal(t, "hide", bonuses[0].Key)
	assert.Equal(t, rulebook.ChoicePlaceholder, effect.Bonuses[0].Key, "template is untouched")
}

func TestBonus_Scaled(t *testing.T) {
	b := rulebook.Bonus{Target: shared.TargetArmorClass, Type: shared.BonusDeflection, Value: 2, Per: 6, Max: 3}
	assert.Equal(t, 2, b.Scaled(5).Value)
	assert.Equal(t, 3, b.Scaled(6).Value)
	assert.Equal(t, 5, b.Scaled(20).Value)
	assert.Equal(t, 4, rulebook.Bonus{Value: 4}.Scaled(20).Value)
}

func TestItemDefinition_EligibleSlots(t *testing.T) {
	tests := []struct {
		name     string
		item     rulebook.ItemDefinition
		expected []shared.Slot
	}{
		{name: "one handed weapon", item: rulebook.ItemDefinition{Category: rulebook.CategoryWeapon}, expected: []shared.Slot{shared.SlotMainHand, shared.SlotOffHand}},
		{name: "two handed weapon", item: rulebook.ItemDefinition{Category: rulebook.CategoryWeapon, TwoHanded: true}, expected: []shared.Slot{shared.SlotMainHand}},
		{name: "armor", item: rulebook.ItemDefinition{Category: rulebook.CategoryArmor}, expected: []shared.Slot{shared.SlotBody}},
		{name: "shield", item: rulebook.ItemDefinition{Category: rulebook.CategoryShield}, expected: []shared.Slot{shared.SlotOffHand}},
		{name: "ring", item: rulebook.ItemDefinition{Category: rulebook.CategoryWearable, Slots: []shared.Slot{shared.SlotRing}}, expected: []shared.Slot{shared.SlotRing}},
		{name: "gear", item: rulebook.ItemDefinition{Category: rulebook.CategoryGear}, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.item.EligibleSlots())
		})
	}
}
