package equipment

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/character"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/shared"
	rulerr "github.com/KirkDiggler/dnd-rules-engine/internal/errors"
)

// ReasonCode names why a slot assignment was refused
type ReasonCode string

const (
	ReasonNotEquippable  ReasonCode = "not_equippable"
	ReasonSlotNotAllowed ReasonCode = "slot_not_allowed"
	ReasonAmbiguousSlot  ReasonCode = "ambiguous_slot"
	ReasonSlotFull       ReasonCode = "slot_full"
)

// Reason explains an illegal slot assignment
type Reason struct {
	Code    ReasonCode    `json:"code"`
	ItemID  string        `json:"item_id"`
	ItemKey string        `json:"item_key"`
	Slot    shared.Slot   `json:"slot,omitempty"`
	Options []shared.Slot `json:"options,omitempty"`
}

func (r Reason) String() string {
	switch r.Code {
	case ReasonNotEquippable:
		return fmt.Sprintf("%s cannot be equipped", r.ItemKey)
	case ReasonSlotNotAllowed:
		return fmt.Sprintf("%s cannot be worn in %s", r.ItemKey, r.Slot)
	case ReasonAmbiguousSlot:
		return fmt.Sprintf("%s fits %s; name a slot", r.ItemKey, joinSlots(r.Options))
	case ReasonSlotFull:
		return fmt.Sprintf("%s already holds %d items", r.Slot, r.Slot.Capacity())
	}
	return string(r.Code)
}

// Err converts the reason into an illegal_slot_assignment error for callers that
// treat a refusal as a failure
func (r Reason) Err() error {
	return rulerr.IllegalSlotAssignmentf("%s", r.String()).
		WithMeta("reason", string(r.Code)).
		WithMeta("item_id", r.ItemID).
		WithMeta("slot", string(r.Slot))
}

// Result is the outcome of an equipment operation. Character and Derived are nil
// when the operation was refused.
type Result struct {
	Legal     bool                    `json:"legal"`
	Reason    *Reason                 `json:"reason,omitempty"`
	ItemID    string                  `json:"item_id,omitempty"`
	Slot      shared.Slot             `json:"slot,omitempty"`
	Displaced []string                `json:"displaced,omitempty"`
	Character *character.Character    `json:"character,omitempty"`
	Derived   *character.DerivedStats `json:"derived,omitempty"`
}

func joinSlots(slots []shared.Slot) string {
	parts := make([]string, len(slots))
	for i, s := range slots {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
