package events

import (
	"context"
	"log"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/core"
	rpgevents "github.com/KirkDiggler/rpg-toolkit/events"
)

// contextKeys are the fields carried across the toolkit bus
var contextKeys = []string{
	ContextFeatKey, ContextFeatChoice, ContextPrevChoice,
	ContextItemID, ContextItemKey, ContextQuantity, ContextSlot, ContextDisplaced,
	ContextSpellKey, ContextCasterClass, ContextCasterLevel, ContextSpellLevel, ContextSpellSaveDC, ContextMetamagic,
	ContextClass, ContextClassLevel, ContextLevel, ContextHitDieRoll,
}

// ToolkitBus publishes character events on rpg-toolkit's event bus
type ToolkitBus struct {
	bus *rpgevents.Bus
	mu  sync.RWMutex

	// eventType -> listener -> subscriptionID
	subscriptions map[EventType]map[EventListener]string
}

var _ Publisher = (*ToolkitBus)(nil)

// NewToolkitBus creates a bus backed by a fresh rpg-toolkit bus
func NewToolkitBus() *ToolkitBus {
	return &ToolkitBus{
		bus:           rpgevents.NewBus(),
		subscriptions: make(map[EventType]map[EventListener]string),
	}
}

// GetRPGBus returns the underlying rpg-toolkit event bus
func (tb *ToolkitBus) GetRPGBus() *rpgevents.Bus {
	return tb.bus
}

// Subscribe adds a listener for a specific event type
func (tb *ToolkitBus) Subscribe(eventType EventType, listener EventListener) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	handler := func(ctx context.Context, e rpgevents.Event) error {
		return listener.HandleEvent(convertToGameEvent(e, eventType))
	}

	id := tb.bus.SubscribeFunc(eventType.ToolkitName(), listener.Priority(), handler)

	if tb.subscriptions[eventType] == nil {
		tb.subscriptions[eventType] = make(map[EventListener]string)
	}
	tb.subscriptions[eventType][listener] = id
}

// Unsubscribe removes a listener for a specific event type
func (tb *ToolkitBus) Unsubscribe(eventType EventType, listener EventListener) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	listeners, ok := tb.subscriptions[eventType]
	if !ok {
		return
	}
	id, ok := listeners[listener]
	if !ok {
		return
	}
	if err := tb.bus.Unsubscribe(id); err != nil {
		log.Printf("[EVENTS] failed to unsubscribe %s: %v", id, err)
	}
	delete(listeners, listener)
	if len(listeners) == 0 {
		delete(tb.subscriptions, eventType)
	}
}

// Emit publishes the event to every listener of its type
func (tb *ToolkitBus) Emit(ctx context.Context, event *GameEvent) error {
	var source core.Entity
	if event.Actor != nil {
		source = WrapCharacter(event.Actor)
	}

	tkEvent := rpgevents.NewGameEvent(event.Type.ToolkitName(), source, nil)
	for k, v := range event.Context {
		tkEvent.Context().Set(k, v)
	}

	return tb.bus.Publish(ctx, tkEvent)
}

// ListenerCount returns the number of listeners for an event type
func (tb *ToolkitBus) ListenerCount(eventType EventType) int {
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	return len(tb.subscriptions[eventType])
}

// Clear removes all listeners
func (tb *ToolkitBus) Clear() {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	for _, listeners := range tb.subscriptions {
		for _, id := range listeners {
			if err := tb.bus.Unsubscribe(id); err != nil {
				log.Printf("[EVENTS] failed to unsubscribe %s: %v", id, err)
			}
		}
	}
	tb.subscriptions = make(map[EventType]map[EventListener]string)
}

func convertToGameEvent(tkEvent rpgevents.Event, eventType EventType) *GameEvent {
	event := NewGameEvent(eventType)

	if source := tkEvent.Source(); source != nil {
		if entity, ok := source.(*CharacterEntity); ok {
			event.Actor = entity.Character
		}
	}

	for _, key := range contextKeys {
		if value, ok := tkEvent.Context().Get(key); ok {
			event.Context[key] = value
		}
	}

	return event
}
