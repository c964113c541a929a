package events

import (
	"context"
	"testing"

	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/character"
	rpgevents "github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingListener struct {
	priority int
	events   []*GameEvent
	err      error
}

func (r *recordingListener) Priority() int {
	return r.priority
}

func (r *recordingListener) HandleEvent(event *GameEvent) error {
	r.events = append(r.events, event)
	return r.err
}

func TestToolkitBus_SubscribeAndEmit(t *testing.T) {
	bus := NewToolkitBus()
	listener := &recordingListener{}
	bus.Subscribe(OnFeatGranted, listener)

	actor := &character.Character{ID: "char-1", Name: "Tordek"}
	event := NewGameEvent(OnFeatGranted).
		WithActor(actor).
		WithContext(ContextFeatKey, "weapon_focus").
		WithContext(ContextFeatChoice, "longsword").
		WithContext("ignored", true)

	require.NoError(t, bus.Emit(context.Background(), event))

	require.Len(t, listener.events, 1)
	got := listener.events[0]
	assert.Equal(t, OnFeatGranted, got.Type)
	assert.Equal(t, "char-1", got.Actor.ID)

	featKey, ok := got.GetStringContext(ContextFeatKey)
	assert.True(t, ok)
	assert.Equal(t, "weapon_focus", featKey)
	_, ok = got.Context["ignored"]
	assert.False(t, ok, "unknown keys are not carried")
}

func TestToolkitBus_OnlyMatchingType(t *testing.T) {
	bus := NewToolkitBus()
	equipped := &recordingListener{}
	bus.Subscribe(OnItemEquipped, equipped)

	require.NoError(t, bus.Emit(context.Background(), NewGameEvent(OnItemUnequipped)))
	assert.Empty(t, equipped.events)

	require.NoError(t, bus.Emit(context.Background(), NewGameEvent(OnItemEquipped).WithContext(ContextQuantity, 3)))
	require.Len(t, equipped.events, 1)
	qty, ok := equipped.events[0].GetIntContext(ContextQuantity)
	assert.True(t, ok)
	assert.Equal(t, 3, qty)
}

func TestToolkitBus_MultipleListeners(t *testing.T) {
	bus := NewToolkitBus()

	var order []string
	first := &orderListener{name: "first", priority: 10, order: &order}
	second := &orderListener{name: "second", priority: 50, order: &order}
	bus.Subscribe(OnLevelUp, second)
	bus.Subscribe(OnLevelUp, first)

	require.NoError(t, bus.Emit(context.Background(), NewGameEvent(OnLevelUp)))
	assert.Len(t, order, 2)
	assert.ElementsMatch(t, []string{"first", "second"}, order)
}

func TestToolkitBus_Unsubscribe(t *testing.T) {
	bus := NewToolkitBus()
	listener := &recordingListener{}

	bus.Subscribe(OnSpellCast, listener)
	assert.Equal(t, 1, bus.ListenerCount(OnSpellCast))

	bus.Unsubscribe(OnSpellCast, listener)
	assert.Equal(t, 0, bus.ListenerCount(OnSpellCast))

	// unknown listener is a no-op
	bus.Unsubscribe(OnSpellCast, &recordingListener{})

	require.NoError(t, bus.Emit(context.Background(), NewGameEvent(OnSpellCast)))
	assert.Empty(t, listener.events)
}

func TestToolkitBus_Clear(t *testing.T) {
	bus := NewToolkitBus()
	bus.Subscribe(OnFeatGranted, &recordingListener{})
	bus.Subscribe(OnFeatRevoked, &recordingListener{})

	bus.Clear()

	assert.Equal(t, 0, bus.ListenerCount(OnFeatGranted))
	assert.Equal(t, 0, bus.ListenerCount(OnFeatRevoked))
}

func TestToolkitBus_SpellCastUsesToolkitName(t *testing.T) {
	bus := NewToolkitBus()

	var seen []string
	bus.GetRPGBus().SubscribeFunc(rpgevents.EventOnSpellCast, 0, func(_ context.Context, e rpgevents.Event) error {
		seen = append(seen, e.Source().GetID())
		return nil
	})

	actor := &character.Character{ID: "wiz-1"}
	require.NoError(t, bus.Emit(context.Background(), NewGameEvent(OnSpellCast).WithActor(actor)))
	assert.Equal(t, []string{"wiz-1"}, seen)
}

func TestEventTypeNames(t *testing.T) {
	assert.Equal(t, "character.created", OnCharacterCreated.String())
	assert.Equal(t, "rules.character.created", OnCharacterCreated.ToolkitName())
	assert.Equal(t, rpgevents.EventOnSpellCast, OnSpellCast.ToolkitName())
	assert.Equal(t, "unknown", EventType(99).String())
}

type orderListener struct {
	name     string
	priority int
	order    *[]string
}

func (o *orderListener) Priority() int {
	return o.priority
}

func (o *orderListener) HandleEvent(*GameEvent) error {
	*o.order = append(*o.order, o.name)
	return nil
}
