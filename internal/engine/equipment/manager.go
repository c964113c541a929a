package equipment

import (
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/character"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/shared"
	"github.com/KirkDiggler/dnd-rules-engine/internal/engine/aggregate"
	rulerr "github.com/KirkDiggler/dnd-rules-engine/internal/errors"
	"github.com/KirkDiggler/dnd-rules-engine/internal/uuid"
)

// Manager moves item instances in and out of body slots
type Manager struct {
	catalogs   *rulebook.Catalogs
	aggregator *aggregate.Aggregator
	ids        uuid.Generator
}

// Option configures a Manager
type Option func(*Manager)

// WithIDGenerator sets the generator used for new item instances
func WithIDGenerator(ids uuid.Generator) Option {
	return func(m *Manager) {
		m.ids = ids
	}
}

// NewManager creates an equipment manager
func NewManager(catalogs *rulebook.Catalogs, aggregator *aggregate.Aggregator, opts ...Option) *Manager {
	m := &Manager{
		catalogs:   catalogs,
		aggregator: aggregator,
		ids:        uuid.NewGenerator(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DefaultSlot returns the slot an item goes to when none is named
func DefaultSlot(def *rulebook.ItemDefinition) (shared.Slot, bool) {
	switch def.Category {
	case rulebook.CategoryWeapon:
		return shared.SlotMainHand, true
	case rulebook.CategoryArmor:
		return shared.SlotBody, true
	case rulebook.CategoryShield:
		return shared.SlotOffHand, true
	}

	if slots := def.EligibleSlots(); len(slots) == 1 {
		return slots[0], true
	}
	return shared.SlotNone, false
}

// Equip puts an inventory item into slot, or into its default slot when slot is empty.
// Equipping an item where it already sits changes nothing.
func (m *Manager) Equip(char *character.Character, itemID string, slot shared.Slot) (*Result, error) {
	if char == nil {
		return nil, rulerr.InvalidArgument("character is required")
	}

	idx := char.Item(itemID)
	if idx < 0 {
		return nil, rulerr.NotFoundf("item '%s' not found in inventory", itemID)
	}
	inst := char.Inventory[idx]
	def, err := m.catalogs.Item(inst.Key)
	if err != nil {
		return nil, err
	}

	refuse := func(code ReasonCode, slot shared.Slot, options []shared.Slot) *Result {
		return &Result{Reason: &Reason{Code: code, ItemID: itemID, ItemKey: def.Key, Slot: slot, Options: options}}
	}

	eligible := def.EligibleSlots()
	if len(eligible) == 0 {
		return refuse(ReasonNotEquippable, slot, nil), nil
	}
	if slot == shared.SlotNone {
		var ok bool
		if slot, ok = DefaultSlot(def); !ok {
			return refuse(ReasonAmbiguousSlot, slot, eligible), nil
		}
	}
	if !def.AllowsSlot(slot) {
		return refuse(ReasonSlotNotAllowed, slot, eligible), nil
	}

	next := char.Clone()
	var displaced []string

	if !(inst.Equipped && inst.Slot == slot) {
		others := occupantsExcept(next, slot, itemID)

		if slot.Capacity() > 1 {
			if len(others) >= slot.Capacity() {
				return refuse(ReasonSlotFull, slot, nil), nil
			}
		} else {
			displaced = append(displaced, unequip(next, others)...)
		}

		switch {
		case def.TwoHanded && slot == shared.SlotMainHand:
			displaced = append(displaced, unequip(next, occupantsExcept(next, shared.SlotOffHand, itemID))...)
		case slot == shared.SlotOffHand:
			mainHand := occupantsExcept(next, shared.SlotMainHand, itemID)
			twoHanded, err := m.twoHanded(next, mainHand)
			if err != nil {
				return nil, err
			}
			displaced = append(displaced, unequip(next, twoHanded)...)
		}

		next.Inventory[idx].Equipped = true
		next.Inventory[idx].Slot = slot
	}

	derived, err := m.aggregator.Aggregate(next)
	if err != nil {
		return nil, err
	}
	return &Result{
		Legal:     true,
		ItemID:    itemID,
		Slot:      slot,
		Displaced: displaced,
		Character: next,
		Derived:   derived,
	}, nil
}

// Unequip returns an item to the pack. Unequipping an unequipped item changes nothing.
func (m *Manager) Unequip(char *character.Character, itemID string) (*Result, error) {
	if char == nil {
		return nil, rulerr.InvalidArgument("character is required")
	}

	idx := char.Item(itemID)
	if idx < 0 {
		return nil, rulerr.NotFoundf("item '%s' not found in inventory", itemID)
	}

	next := char.Clone()
	unequip(next, []int{idx})

	derived, err := m.aggregator.Aggregate(next)
	if err != nil {
		return nil, err
	}
	return &Result{Legal: true, ItemID: itemID, Character: next, Derived: derived}, nil
}

// AddItem puts quantity of a catalog item into the inventory. Gear merges into an
// existing stack of the same item.
func (m *Manager) AddItem(char *character.Character, itemKey string, quantity int) (*Result, error) {
	if char == nil {
		return nil, rulerr.InvalidArgument("character is required")
	}
	if quantity < 1 {
		return nil, rulerr.InvalidArgumentf("quantity must be positive, got %d", quantity)
	}
	def, err := m.catalogs.Item(itemKey)
	if err != nil {
		return nil, err
	}

	next := char.Clone()
	var id string
	if def.Category == rulebook.CategoryGear {
		for i := range next.Inventory {
			if next.Inventory[i].Key == itemKey {
				next.Inventory[i].Quantity = next.Inventory[i].Count() + quantity
				id = next.Inventory[i].ID
				break
			}
		}
	}
	if id == "" {
		id = m.ids.New()
		next.Inventory = append(next.Inventory, character.ItemInstance{ID: id, Key: itemKey, Quantity: quantity})
	}

	derived, err := m.aggregator.Aggregate(next)
	if err != nil {
		return nil, err
	}
	return &Result{Legal: true, ItemID: id, Character: next, Derived: derived}, nil
}

// RemoveItem takes quantity of an instance out of the inventory, or all of it when
// quantity is zero. A removed equipped item stops contributing.
func (m *Manager) RemoveItem(char *character.Character, itemID string, quantity int) (*Result, error) {
	if char == nil {
		return nil, rulerr.InvalidArgument("character is required")
	}
	if quantity < 0 {
		return nil, rulerr.InvalidArgumentf("quantity must not be negative, got %d", quantity)
	}

	idx := char.Item(itemID)
	if idx < 0 {
		return nil, rulerr.NotFoundf("item '%s' not found in inventory", itemID)
	}

	next := char.Clone()
	if quantity > 0 && quantity < next.Inventory[idx].Count() {
		next.Inventory[idx].Quantity = next.Inventory[idx].Count() - quantity
	} else {
		next.Inventory = append(next.Inventory[:idx:idx], next.Inventory[idx+1:]...)
	}

	derived, err := m.aggregator.Aggregate(next)
	if err != nil {
		return nil, err
	}
	return &Result{Legal: true, ItemID: itemID, Character: next, Derived: derived}, nil
}

// Encumbrance reports the character's carried load
func (m *Manager) Encumbrance(char *character.Character) (character.Encumbrance, error) {
	derived, err := m.aggregator.Aggregate(char)
	if err != nil {
		return character.Encumbrance{}, err
	}
	return derived.Encumbrance, nil
}

func (m *Manager) twoHanded(char *character.Character, indexes []int) ([]int, error) {
	var out []int
	for _, i := range indexes {
		def, err := m.catalogs.Item(char.Inventory[i].Key)
		if err != nil {
			return nil, err
		}
		if def.TwoHanded {
			out = append(out, i)
		}
	}
	return out, nil
}

func occupantsExcept(char *character.Character, slot shared.Slot, itemID string) []int {
	var out []int
	for _, i := range char.Occupants(slot) {
		if char.Inventory[i].ID != itemID {
			out = append(out, i)
		}
	}
	return out
}

// unequip clears the slot of each indexed instance and returns the ids it moved
func unequip(char *character.Character, indexes []int) []string {
	var ids []string
	for _, i := range indexes {
		if !char.Inventory[i].Equipped {
			continue
		}
		char.Inventory[i].Equipped = false
		char.Inventory[i].Slot = shared.SlotNone
		ids = append(ids, char.Inventory[i].ID)
	}
	return ids
}
