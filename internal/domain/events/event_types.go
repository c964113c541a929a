package events

import rpgevents "github.com/KirkDiggler/rpg-toolkit/events"

// EventType is a change to a character record
type EventType int

const (
	OnCharacterCreated EventType = iota
	OnCharacterDeleted
	OnFeatGranted
	OnFeatChoiceChanged
	OnFeatRevoked
	OnItemAdded
	OnItemRemoved
	OnItemEquipped
	OnItemUnequipped
	OnSpellCast
	OnSpellDismissed
	OnLevelUp
)

var names = map[EventType]string{
	OnCharacterCreated:  "character.created",
	OnCharacterDeleted:  "character.deleted",
	OnFeatGranted:       "feat.granted",
	OnFeatChoiceChanged: "feat.choice_changed",
	OnFeatRevoked:       "feat.revoked",
	OnItemAdded:         "item.added",
	OnItemRemoved:       "item.removed",
	OnItemEquipped:      "item.equipped",
	OnItemUnequipped:    "item.unequipped",
	OnSpellCast:         "spell.cast",
	OnSpellDismissed:    "spell.dismissed",
	OnLevelUp:           "character.level_up",
}

// String returns the event name
func (e EventType) String() string {
	if name, ok := names[e]; ok {
		return name
	}
	return "unknown"
}

// ToolkitName is the rpg-toolkit event name the type is published under.
// Spell casts use the toolkit's own name so toolkit listeners see them.
func (e EventType) ToolkitName() string {
	if e == OnSpellCast {
		return rpgevents.EventOnSpellCast
	}
	return "rules." + e.String()
}
