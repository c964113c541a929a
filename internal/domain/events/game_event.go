package events

import "github.com/KirkDiggler/dnd-rules-engine/internal/domain/character"

// GameEvent is a committed change to a character
type GameEvent struct {
	Type    EventType
	Actor   *character.Character
	Context map[string]any
}

// NewGameEvent creates a new game event
func NewGameEvent(eventType EventType) *GameEvent {
	return &GameEvent{
		Type:    eventType,
		Context: make(map[string]any),
	}
}

// WithActor sets the character the event is about
func (e *GameEvent) WithActor(actor *character.Character) *GameEvent {
	e.Actor = actor
	return e
}

// WithContext adds context data to the event
func (e *GameEvent) WithContext(key string, value any) *GameEvent {
	e.Context[key] = value
	return e
}

// GetIntContext retrieves an int value from the context
func (e *GameEvent) GetIntContext(key string) (int, bool) {
	val, exists := e.Context[key]
	if !exists {
		return 0, false
	}
	intVal, ok := val.(int)
	return intVal, ok
}

// GetStringContext retrieves a string value from the context
func (e *GameEvent) GetStringContext(key string) (string, bool) {
	val, exists := e.Context[key]
	if !exists {
		return "", false
	}
	strVal, ok := val.(string)
	return strVal, ok
}
