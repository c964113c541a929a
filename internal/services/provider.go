package services

import (
	"github.com/KirkDiggler/dnd-rules-engine/internal/dice"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/events"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/rulebook/srd"
	"github.com/KirkDiggler/dnd-rules-engine/internal/engine/aggregate"
	"github.com/KirkDiggler/dnd-rules-engine/internal/repositories/characters"
	characterService "github.com/KirkDiggler/dnd-rules-engine/internal/services/character"
)

// Provider holds all service instances
type Provider struct {
	Catalogs         *rulebook.Catalogs
	Events           *events.ToolkitBus
	CharacterService characterService.Service
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	// Catalogs defaults to the embedded reference catalogs
	Catalogs *rulebook.Catalogs
	// CharacterRepository defaults to an in-memory repository
	CharacterRepository characters.Repository
	Stacking            aggregate.Stacking
	Roller              dice.Roller
}

// NewProvider creates a new service provider with all services initialized
func NewProvider(cfg *ProviderConfig) (*Provider, error) {
	catalogs := cfg.Catalogs
	if catalogs == nil {
		var err error
		if catalogs, err = srd.Catalogs(); err != nil {
			return nil, err
		}
	}

	charRepo := cfg.CharacterRepository
	if charRepo == nil {
		charRepo = characters.NewInMemoryRepository()
	}

	stacking, err := aggregate.ParseStacking(string(cfg.Stacking))
	if err != nil {
		return nil, err
	}

	bus := events.NewToolkitBus()

	charService := characterService.NewService(&characterService.ServiceConfig{
		Catalogs:   catalogs,
		Repository: charRepo,
		Aggregator: aggregate.New(catalogs, aggregate.WithStacking(stacking)),
		Publisher:  bus,
		Roller:     cfg.Roller,
	})

	return &Provider{
		Catalogs:         catalogs,
		Events:           bus,
		CharacterService: charService,
	}, nil
}
