package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/events"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/shared"
	rulerr "github.com/KirkDiggler/dnd-rules-engine/internal/errors"
	"github.com/KirkDiggler/dnd-rules-engine/internal/services"
	characterService "github.com/KirkDiggler/dnd-rules-engine/internal/services/character"
)

type createdListener struct {
	names []string
}

func (c *createdListener) Priority() int { return 0 }

func (c *createdListener) HandleEvent(event *events.GameEvent) error {
	c.names = append(c.names, event.Actor.Name)
	return nil
}

func TestNewProviderDefaults(t *testing.T) {
	provider, err := services.NewProvider(&services.ProviderConfig{})
	require.NoError(t, err)
	require.NotNil(t, provider.Catalogs)

	listener := &createdListener{}
	provider.Events.Subscribe(events.OnCharacterCreated, listener)

	_, err = provider.CharacterService.CreateCharacter(context.Background(), &characterService.CreateCharacterInput{
		Name:      "Kyra",
		RaceKey:   "human",
		Abilities: shared.AbilityScores{Strength: 10, Dexterity: 12, Constitution: 12, Intelligence: 10, Wisdom: 16, Charisma: 13},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Kyra"}, listener.names)
}

func TestNewProviderRejectsUnknownStacking(t *testing.T) {
	_, err := services.NewProvider(&services.ProviderConfig{Stacking: "stacked"})
	require.Error(t, err)
	assert.True(t, rulerr.IsInvalidArgument(err))
}
