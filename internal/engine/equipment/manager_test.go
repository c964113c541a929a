package equipment_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/character"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/rulebook/srd"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/shared"
	"github.com/KirkDiggler/dnd-rules-engine/internal/engine/aggregate"
	"github.com/KirkDiggler/dnd-rules-engine/internal/engine/equipment"
	rulerr "github.com/KirkDiggler/dnd-rules-engine/internal/errors"
	"github.com/KirkDiggler/dnd-rules-engine/internal/testutils"
	"github.com/KirkDiggler/dnd-rules-engine/internal/uuid"
)

type ManagerTestSuite struct {
	suite.Suite
	manager *equipment.Manager
	fighter *character.Character
}

func (s *ManagerTestSuite) SetupTest() {
	catalogs := srd.MustCatalogs()
	s.manager = equipment.NewManager(catalogs, aggregate.New(catalogs),
		equipment.WithIDGenerator(uuid.NewSequence("item")))
	s.fighter = testutils.CreateTestFighter("fighter-1")
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerTestSuite))
}

func (s *ManagerTestSuite) equip(char *character.Character, id string, slot shared.Slot) *equipment.Result {
	result, err := s.manager.Equip(char, id, slot)
	s.Require().NoError(err)
	return result
}

func (s *ManagerTestSuite) TestEquipDefaultSlots() {
	char := testutils.GiveItem(s.fighter, "sword", "longsword")
	testutils.GiveItem(char, "armor", "chain_shirt")
	testutils.GiveItem(char, "shield", "heavy_steel_shield")
	testutils.GiveItem(char, "cloak", "cloak_of_resistance_1")

	expected := map[string]shared.Slot{
		"sword":  shared.SlotMainHand,
		"armor":  shared.SlotBody,
		"shield": shared.SlotOffHand,
		"cloak":  shared.SlotShoulders,
	}
	for _, id := range []string{"sword", "armor", "shield", "cloak"} {
		result := s.equip(char, id, shared.SlotNone)
		s.Require().True(result.Legal, id)
		s.Equal(expected[id], result.Slot)
		char = result.Character
	}

	last := s.equip(char, "cloak", shared.SlotNone)
	// 10 + 4 armor + 2 shield + 2 dex
	s.Equal(18, last.Derived.ArmorClass.Total)
	s.Len(last.Derived.Attacks, 1)
}

func (s *ManagerTestSuite) TestRefusals() {
	char := testutils.GiveItem(s.fighter, "periapt", "periapt_of_wisdom_2")
	testutils.GiveItem(char, "rope", "rope")
	testutils.GiveItem(char, "sword", "longsword")

	tests := []struct {
		name string
		id   string
		slot shared.Slot
		code equipment.ReasonCode
	}{
		{name: "wearable with two slots needs a slot", id: "periapt", code: equipment.ReasonAmbiguousSlot},
		{name: "gear has no slot", id: "rope", code: equipment.ReasonNotEquippable},
		{name: "weapon on the body", id: "sword", slot: shared.SlotBody, code: equipment.ReasonSlotNotAllowed},
		{name: "unknown slot", id: "sword", slot: shared.Slot("tail"), code: equipment.ReasonSlotNotAllowed},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			result := s.equip(char, tt.id, tt.slot)
			s.False(result.Legal)
			s.Require().NotNil(result.Reason)
			s.Equal(tt.code, result.Reason.Code)
			s.Nil(result.Character)
			s.Nil(result.Derived)
			s.True(rulerr.IsIllegalSlotAssignment(result.Reason.Err()))
		})
	}

	named := s.equip(char, "periapt", shared.SlotNeck)
	s.True(named.Legal)
	s.Equal(14, named.Derived.Abilities[shared.AttributeWisdom].Score)
}

func (s *ManagerTestSuite) TestTwoHandedDisplacesOffHand() {
	char := testutils.EquipItem(s.fighter, "sword", "longsword", shared.SlotMainHand)
	testutils.EquipItem(char, "shield", "heavy_steel_shield", shared.SlotOffHand)
	testutils.GiveItem(char, "great", "greatsword")

	result := s.equip(char, "great", shared.SlotNone)
	s.Require().True(result.Legal)
	s.Equal([]string{"sword", "shield"}, result.Displaced)
	s.Empty(result.Character.Occupants(shared.SlotOffHand))
	s.Len(result.Character.Inventory, 3)
	s.Equal(0, result.Derived.ArmorClass.Shield)

	// the original is untouched
	s.Len(char.Occupants(shared.SlotOffHand), 1)
}

func (s *ManagerTestSuite) TestOffHandDisplacesTwoHander() {
	char := testutils.EquipItem(s.fighter, "great", "greatsword", shared.SlotMainHand)
	testutils.GiveItem(char, "shield", "light_steel_shield")

	result := s.equip(char, "shield", shared.SlotNone)
	s.Require().True(result.Legal)
	s.Equal([]string{"great"}, result.Displaced)
	s.Empty(result.Character.Occupants(shared.SlotMainHand))
}

func (s *ManagerTestSuite) TestOffHandKeepsOneHandedWeapon() {
	char := testutils.EquipItem(s.fighter, "sword", "longsword", shared.SlotMainHand)
	testutils.GiveItem(char, "dagger", "dagger")

	result := s.equip(char, "dagger", shared.SlotOffHand)
	s.Require().True(result.Legal)
	s.Empty(result.Displaced)
	s.Len(result.Derived.Attacks, 2)
}

func (s *ManagerTestSuite) TestSingleSlotDisplacesOccupant() {
	char := testutils.EquipItem(s.fighter, "leather", "leather_armor", shared.SlotBody)
	testutils.GiveItem(char, "plate", "full_plate")

	result := s.equip(char, "plate", shared.SlotNone)
	s.Require().True(result.Legal)
	s.Equal([]string{"leather"}, result.Displaced)
	s.Equal([]int{1}, result.Character.Occupants(shared.SlotBody))
}

func (s *ManagerTestSuite) TestRingCapacity() {
	char := testutils.EquipItem(s.fighter, "r1", "ring_of_protection_1", shared.SlotRing)
	testutils.EquipItem(char, "r2", "ring_of_climbing", shared.SlotRing)
	testutils.GiveItem(char, "r3", "ring_of_protection_2")

	result := s.equip(char, "r3", shared.SlotNone)
	s.False(result.Legal)
	s.Equal(equipment.ReasonSlotFull, result.Reason.Code)
	s.Equal("ring already holds 2 items", result.Reason.String())

	// re-equipping a worn ring is not a third ring
	again := s.equip(char, "r2", shared.SlotRing)
	s.True(again.Legal)
	s.Empty(again.Displaced)
	s.Equal(char, again.Character)
}

func (s *ManagerTestSuite) TestEquipIsIdempotent() {
	char := testutils.GiveItem(s.fighter, "sword", "longsword")

	first := s.equip(char, "sword", shared.SlotMainHand)
	second := s.equip(first.Character, "sword", shared.SlotMainHand)

	s.Equal(first.Character, second.Character)
	s.Equal(first.Derived, second.Derived)
	s.Empty(second.Displaced)
}

func (s *ManagerTestSuite) TestMoveBetweenSlots() {
	char := testutils.EquipItem(s.fighter, "sword", "longsword", shared.SlotMainHand)

	result := s.equip(char, "sword", shared.SlotOffHand)
	s.Require().True(result.Legal)
	s.Empty(result.Displaced)
	s.Empty(result.Character.Occupants(shared.SlotMainHand))
	s.Equal([]int{0}, result.Character.Occupants(shared.SlotOffHand))
}

func (s *ManagerTestSuite) TestUnequip() {
	char := testutils.EquipItem(s.fighter, "plate", "full_plate", shared.SlotBody)

	result, err := s.manager.Unequip(char, "plate")
	s.Require().NoError(err)
	s.False(result.Character.Inventory[0].Equipped)
	s.Equal(shared.SlotNone, result.Character.Inventory[0].Slot)
	s.Equal(12, result.Derived.ArmorClass.Total)

	again, err := s.manager.Unequip(result.Character, "plate")
	s.Require().NoError(err)
	s.Equal(result.Character, again.Character)

	_, err = s.manager.Unequip(char, "missing")
	s.True(rulerr.IsNotFound(err))
}

func (s *ManagerTestSuite) TestAddAndRemoveItems() {
	added, err := s.manager.AddItem(s.fighter, "arrows", 20)
	s.Require().NoError(err)
	s.Equal("item-1", added.ItemID)

	stacked, err := s.manager.AddItem(added.Character, "arrows", 20)
	s.Require().NoError(err)
	s.Equal("item-1", stacked.ItemID)
	s.Require().Len(stacked.Character.Inventory, 1)
	s.Equal(40, stacked.Character.Inventory[0].Quantity)

	sword, err := s.manager.AddItem(stacked.Character, "longsword", 1)
	s.Require().NoError(err)
	s.Equal("item-2", sword.ItemID)

	partial, err := s.manager.RemoveItem(sword.Character, "item-1", 15)
	s.Require().NoError(err)
	s.Equal(25, partial.Character.Inventory[0].Quantity)

	all, err := s.manager.RemoveItem(partial.Character, "item-1", 0)
	s.Require().NoError(err)
	s.Require().Len(all.Character.Inventory, 1)
	s.Equal("longsword", all.Character.Inventory[0].Key)

	_, err = s.manager.AddItem(s.fighter, "vorpal_sword", 1)
	s.True(rulerr.IsUnknownCatalogEntry(err))
	_, err = s.manager.AddItem(s.fighter, "arrows", 0)
	s.True(rulerr.IsInvalidArgument(err))
	_, err = s.manager.RemoveItem(s.fighter, "item-9", 1)
	s.True(rulerr.IsNotFound(err))
}

func (s *ManagerTestSuite) TestRemovingEquippedItemDropsItsBonuses() {
	char := testutils.EquipItem(s.fighter, "ring", "ring_of_protection_2", shared.SlotRing)

	result, err := s.manager.RemoveItem(char, "ring", 0)
	s.Require().NoError(err)
	s.Empty(result.Character.Inventory)
	s.Equal(0, result.Derived.ArmorClass.Deflection)
}

func (s *ManagerTestSuite) TestRemoveLastItemTwice() {
	added, err := s.manager.AddItem(s.fighter, "longsword", 1)
	s.Require().NoError(err)

	removed, err := s.manager.RemoveItem(added.Character, added.ItemID, 0)
	s.Require().NoError(err)
	s.Empty(removed.Character.Inventory)

	_, err = s.manager.RemoveItem(removed.Character, added.ItemID, 0)
	s.True(rulerr.IsNotFound(err))

	missing, err := s.manager.Equip(removed.Character, "missing", shared.SlotNone)
	s.Nil(missing)
	s.True(rulerr.IsNotFound(err))

	encumbrance, err := s.manager.Encumbrance(removed.Character)
	s.Require().NoError(err)
	s.Equal(0.0, encumbrance.Weight)
	s.Equal(removed.Character, removed.Character.Clone())
}

func (s *ManagerTestSuite) TestEncumbranceRoundTrip() {
	start, err := s.manager.Encumbrance(s.fighter)
	s.Require().NoError(err)
	s.Equal(0.0, start.Weight)
	s.Equal(character.EncumbranceLight, start.Tier)

	// Str 16, medium size: light 160, medium 320, heavy 480
	added, err := s.manager.AddItem(s.fighter, "full_plate", 4)
	s.Require().NoError(err)
	s.Equal(200.0, added.Derived.Encumbrance.Weight)
	s.Equal(character.EncumbranceMedium, added.Derived.Encumbrance.Tier)

	heavier, err := s.manager.AddItem(added.Character, "tower_shield", 4)
	s.Require().NoError(err)
	s.Equal(380.0, heavier.Derived.Encumbrance.Weight)
	s.Equal(character.EncumbranceHeavy, heavier.Derived.Encumbrance.Tier)

	removed, err := s.manager.RemoveItem(heavier.Character, added.ItemID, 0)
	s.Require().NoError(err)
	removed, err = s.manager.RemoveItem(removed.Character, heavier.ItemID, 0)
	s.Require().NoError(err)

	end, err := s.manager.Encumbrance(removed.Character)
	s.Require().NoError(err)
	s.Equal(0.0, end.Weight)
	s.Equal(character.EncumbranceLight, end.Tier)
}
