package srd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/rulebook/srd"
)

func TestCatalogs(t *testing.T) {
	c, err := srd.Catalogs()
	require.NoError(t, err)

	for _, key := range []string{"power_attack", "weapon_focus", "skill_focus", "empower_spell", "maximize_spell"} {
		_, err := c.Feat(key)
		assert.NoError(t, err, key)
	}
	for _, key := range []string{"fireball", "magic_missile", "cure_light_wounds", "mage_armor"} {
		_, err := c.Spell(key)
		assert.NoError(t, err, key)
	}
	for _, key := range []string{"greatsword", "heavy_steel_shield", "ring_of_protection_1", "full_plate"} {
		_, err := c.Item(key)
		assert.NoError(t, err, key)
	}
	for _, key := range []string{"fighter", "wizard", "bard", "paladin"} {
		_, err := c.Class(key)
		assert.NoError(t, err, key)
	}

	again, err := srd.Catalogs()
	require.NoError(t, err)
	assert.Same(t, c, again)
}

func TestCatalogs_Metamagic(t *testing.T) {
	c := srd.MustCatalogs()
	for _, feat := range c.Feats.All() {
		if feat.IsMetamagic() {
			assert.Positive(t, feat.Metamagic.LevelIncrease, feat.Key)
		}
	}
}
