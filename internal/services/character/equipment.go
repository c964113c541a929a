package character

import (
	"context"
	"log"

	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/character"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/events"
	"github.com/KirkDiggler/dnd-rules-engine/internal/engine/equipment"
	rulerr "github.com/KirkDiggler/dnd-rules-engine/internal/errors"
)

// Equip puts an inventory item into a slot. A refused assignment is returned as a
// result with a reason and saves nothing.
func (s *service) Equip(ctx context.Context, input *EquipInput) (*equipment.Result, error) {
	if input == nil || input.ItemID == "" {
		return nil, rulerr.InvalidArgument("item ID is required")
	}

	var (
		result  *equipment.Result
		changed bool
	)
	_, err := s.mutate(ctx, input.CharacterID, func(char *character.Character) (*character.Character, error) {
		var err error
		result, err = s.equipment.Equip(char, input.ItemID, input.Slot)
		if err != nil || !result.Legal {
			return nil, err
		}
		before := char.Inventory[char.Item(input.ItemID)]
		if changed = !before.Equipped || before.Slot != result.Slot; !changed {
			return nil, nil
		}
		return result.Character, nil
	})
	if err != nil {
		return nil, rulerr.Wrapf(err, "failed to equip '%s'", input.ItemID).
			WithMeta("operation", "Equip").
			WithMeta("character_id", input.CharacterID)
	}

	if !result.Legal {
		log.Printf("[CHARACTER] %s cannot equip %s: %s", input.CharacterID, input.ItemID, result.Reason)
		return result, nil
	}
	if changed {
		log.Printf("[CHARACTER] %s equipped %s in %s (displaced %v)", input.CharacterID, input.ItemID, result.Slot, result.Displaced)
		s.emit(ctx, events.NewGameEvent(events.OnItemEquipped).
			WithActor(result.Character).
			WithContext(events.ContextItemID, input.ItemID).
			WithContext(events.ContextSlot, string(result.Slot)).
			WithContext(events.ContextDisplaced, result.Displaced))
	}
	return result, nil
}

// Unequip returns an item to the pack
func (s *service) Unequip(ctx context.Context, input *UnequipInput) (*equipment.Result, error) {
	if input == nil || input.ItemID == "" {
		return nil, rulerr.InvalidArgument("item ID is required")
	}

	var (
		result  *equipment.Result
		changed bool
	)
	_, err := s.mutate(ctx, input.CharacterID, func(char *character.Character) (*character.Character, error) {
		var err error
		result, err = s.equipment.Unequip(char, input.ItemID)
		if err != nil {
			return nil, err
		}
		if changed = char.Inventory[char.Item(input.ItemID)].Equipped; !changed {
			return nil, nil
		}
		return result.Character, nil
	})
	if err != nil {
		return nil, rulerr.Wrapf(err, "failed to unequip '%s'", input.ItemID).
			WithMeta("operation", "Unequip").
			WithMeta("character_id", input.CharacterID)
	}

	if changed {
		log.Printf("[CHARACTER] %s unequipped %s", input.CharacterID, input.ItemID)
		s.emit(ctx, events.NewGameEvent(events.OnItemUnequipped).
			WithActor(result.Character).
			WithContext(events.ContextItemID, input.ItemID))
	}
	return result, nil
}

// AddItem puts catalog items into the inventory
func (s *service) AddItem(ctx context.Context, input *AddItemInput) (*equipment.Result, error) {
	if input == nil || input.ItemKey == "" {
		return nil, rulerr.InvalidArgument("item key is required")
	}

	var result *equipment.Result
	_, err := s.mutate(ctx, input.CharacterID, func(char *character.Character) (*character.Character, error) {
		var err error
		if result, err = s.equipment.AddItem(char, input.ItemKey, input.Quantity); err != nil {
			return nil, err
		}
		return result.Character, nil
	})
	if err != nil {
		return nil, rulerr.Wrapf(err, "failed to add '%s'", input.ItemKey).
			WithMeta("operation", "AddItem").
			WithMeta("character_id", input.CharacterID)
	}

	log.Printf("[CHARACTER] %s added %dx %s as %s", input.CharacterID, input.Quantity, input.ItemKey, result.ItemID)
	s.emit(ctx, events.NewGameEvent(events.OnItemAdded).
		WithActor(result.Character).
		WithContext(events.ContextItemID, result.ItemID).
		WithContext(events.ContextItemKey, input.ItemKey).
		WithContext(events.ContextQuantity, input.Quantity))
	return result, nil
}

// RemoveItem takes items out of the inventory
func (s *service) RemoveItem(ctx context.Context, input *RemoveItemInput) (*equipment.Result, error) {
	if input == nil || input.ItemID == "" {
		return nil, rulerr.InvalidArgument("item ID is required")
	}

	var result *equipment.Result
	_, err := s.mutate(ctx, input.CharacterID, func(char *character.Character) (*character.Character, error) {
		var err error
		if result, err = s.equipment.RemoveItem(char, input.ItemID, input.Quantity); err != nil {
			return nil, err
		}
		return result.Character, nil
	})
	if err != nil {
		return nil, rulerr.Wrapf(err, "failed to remove '%s'", input.ItemID).
			WithMeta("operation", "RemoveItem").
			WithMeta("character_id", input.CharacterID)
	}

	log.Printf("[CHARACTER] %s removed %s", input.CharacterID, input.ItemID)
	s.emit(ctx, events.NewGameEvent(events.OnItemRemoved).
		WithActor(result.Character).
		WithContext(events.ContextItemID, input.ItemID).
		WithContext(events.ContextQuantity, input.Quantity))
	return result, nil
}
