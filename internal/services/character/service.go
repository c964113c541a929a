package character

import (
	"context"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/dnd-rules-engine/internal/dice"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/character"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/events"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-rules-engine/internal/engine/aggregate"
	"github.com/KirkDiggler/dnd-rules-engine/internal/engine/equipment"
	"github.com/KirkDiggler/dnd-rules-engine/internal/engine/feats"
	"github.com/KirkDiggler/dnd-rules-engine/internal/engine/prerequisites"
	"github.com/KirkDiggler/dnd-rules-engine/internal/engine/progression"
	"github.com/KirkDiggler/dnd-rules-engine/internal/engine/spellcasting"
	rulerr "github.com/KirkDiggler/dnd-rules-engine/internal/errors"
	"github.com/KirkDiggler/dnd-rules-engine/internal/repositories/characters"
	"github.com/KirkDiggler/dnd-rules-engine/internal/uuid"
)

// Repository is an alias for the character repository interface
type Repository = characters.Repository

// Service loads characters, runs them through the rules engine and saves the result.
// Mutations of one character are serialized; a second concurrent mutation of the
// same character fails with a conflict.
type Service interface {
	// CreateCharacter stores a new level 0 character
	CreateCharacter(ctx context.Context, input *CreateCharacterInput) (*CharacterOutput, error)

	// GetCharacter retrieves a character by ID
	GetCharacter(ctx context.Context, characterID string) (*character.Character, error)

	// ListCharacters returns every stored character
	ListCharacters(ctx context.Context) ([]*character.Character, error)

	// DeleteCharacter removes a character
	DeleteCharacter(ctx context.Context, characterID string) error

	// AwardExperience adds experience points
	AwardExperience(ctx context.Context, input *AwardExperienceInput) (*CharacterOutput, error)

	// Derive recomputes a character's derived statistics
	Derive(ctx context.Context, characterID string) (*CharacterOutput, error)

	// DeriveAll recomputes every character concurrently
	DeriveAll(ctx context.Context) ([]*CharacterOutput, error)

	// ValidateFeat checks feat prerequisites without changing the character
	ValidateFeat(ctx context.Context, input *FeatInput) (*prerequisites.Result, error)

	// AvailableFeats lists feats the character could take now
	AvailableFeats(ctx context.Context, characterID string) ([]string, error)

	// GrantFeat adds a feat when its prerequisites are met
	GrantFeat(ctx context.Context, input *FeatInput) (*feats.Outcome, error)

	// ChooseFeat records the sub-choice of a variable feat granted without one
	ChooseFeat(ctx context.Context, input *FeatInput) (*feats.Outcome, error)

	// RevokeFeat removes a feat nothing else depends on
	RevokeFeat(ctx context.Context, input *FeatInput) (*feats.Outcome, error)

	// ResolveCast previews a cast without changing the character
	ResolveCast(ctx context.Context, input *CastInput) (*spellcasting.CastResult, error)

	// Cast applies a cast, activating persistent spells
	Cast(ctx context.Context, input *CastInput) (*spellcasting.CastOutcome, error)

	// Dismiss ends an active spell
	Dismiss(ctx context.Context, input *DismissInput) (*spellcasting.CastOutcome, error)

	// Equip puts an inventory item into a slot
	Equip(ctx context.Context, input *EquipInput) (*equipment.Result, error)

	// Unequip returns an item to the pack
	Unequip(ctx context.Context, input *UnequipInput) (*equipment.Result, error)

	// AddItem puts catalog items into the inventory
	AddItem(ctx context.Context, input *AddItemInput) (*equipment.Result, error)

	// RemoveItem takes items out of the inventory
	RemoveItem(ctx context.Context, input *RemoveItemInput) (*equipment.Result, error)

	// LevelUp runs a complete level-up transaction from one set of choices
	LevelUp(ctx context.Context, input *LevelUpInput) (*LevelUpOutput, error)
}

// service implements the Service interface
type service struct {
	catalogs   *rulebook.Catalogs
	repository Repository
	publisher  events.Publisher
	ids        uuid.Generator
	locks      *locker

	aggregator *aggregate.Aggregator
	validator  *prerequisites.Validator
	granter    *feats.Granter
	resolver   *spellcasting.Resolver
	equipment  *equipment.Manager
	driver     *progression.Driver
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Catalogs   *rulebook.Catalogs // Required
	Repository Repository         // Required

	// Optional; built from Catalogs when nil
	Aggregator *aggregate.Aggregator
	Publisher  events.Publisher
	IDs        uuid.Generator
	Roller     dice.Roller
}

// NewService creates a new character service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Catalogs == nil {
		panic("catalogs are required")
	}
	if cfg.Repository == nil {
		panic("repository is required")
	}

	svc := &service{
		catalogs:   cfg.Catalogs,
		repository: cfg.Repository,
		publisher:  cfg.Publisher,
		ids:        cfg.IDs,
		aggregator: cfg.Aggregator,
		locks:      newLocker(),
	}
	if svc.ids == nil {
		svc.ids = uuid.NewGenerator()
	}
	if svc.aggregator == nil {
		svc.aggregator = aggregate.New(cfg.Catalogs)
	}

	var driverOpts []progression.Option
	if cfg.Roller != nil {
		driverOpts = append(driverOpts, progression.WithRoller(cfg.Roller))
	}

	svc.validator = prerequisites.NewValidator(cfg.Catalogs)
	svc.granter = feats.NewGranter(cfg.Catalogs, svc.validator, svc.aggregator)
	svc.resolver = spellcasting.NewResolver(cfg.Catalogs, svc.aggregator)
	svc.equipment = equipment.NewManager(cfg.Catalogs, svc.aggregator, equipment.WithIDGenerator(svc.ids))
	svc.driver = progression.NewDriver(cfg.Catalogs, svc.granter, svc.aggregator, driverOpts...)

	return svc
}

// CreateCharacter stores a new level 0 character
func (s *service) CreateCharacter(ctx context.Context, input *CreateCharacterInput) (*CharacterOutput, error) {
	if err := s.validateCreate(input); err != nil {
		return nil, rulerr.Wrap(err, "invalid character creation input").
			WithMeta("operation", "CreateCharacter")
	}

	char := character.New(s.ids.New(), strings.TrimSpace(input.Name), input.RaceKey, input.Abilities)
	char.Experience = input.Experience

	derived, err := s.aggregator.Aggregate(char)
	if err != nil {
		return nil, err
	}

	if err := s.repository.Create(ctx, char); err != nil {
		return nil, rulerr.Wrap(err, "failed to save character").
			WithMeta("character_id", char.ID)
	}

	log.Printf("[CHARACTER] Created %s (%s) as %s", char.Name, char.ID, char.Race)
	s.emit(ctx, events.NewGameEvent(events.OnCharacterCreated).WithActor(char))

	return &CharacterOutput{Character: char, Derived: derived}, nil
}

func (s *service) validateCreate(input *CreateCharacterInput) error {
	if input == nil {
		return rulerr.InvalidArgument("input is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return rulerr.InvalidArgument("name is required")
	}
	if _, err := s.catalogs.Race(input.RaceKey); err != nil {
		return err
	}
	if input.Experience < 0 {
		return rulerr.InvalidArgumentf("experience must not be negative, got %d", input.Experience)
	}
	for _, score := range []int{
		input.Abilities.Strength, input.Abilities.Dexterity, input.Abilities.Constitution,
		input.Abilities.Intelligence, input.Abilities.Wisdom, input.Abilities.Charisma,
	} {
		if score < 1 {
			return rulerr.InvalidArgumentf("ability scores must be positive, got %d", score)
		}
	}
	return nil
}

// GetCharacter retrieves a character by ID
func (s *service) GetCharacter(ctx context.Context, characterID string) (*character.Character, error) {
	if characterID == "" {
		return nil, rulerr.InvalidArgument("character ID is required")
	}
	return s.repository.Get(ctx, characterID)
}

// ListCharacters returns every stored character
func (s *service) ListCharacters(ctx context.Context) ([]*character.Character, error) {
	return s.repository.List(ctx)
}

// DeleteCharacter removes a character
func (s *service) DeleteCharacter(ctx context.Context, characterID string) error {
	if characterID == "" {
		return rulerr.InvalidArgument("character ID is required")
	}

	release, err := s.locks.acquire(characterID)
	if err != nil {
		return err
	}
	defer release()

	if err := s.repository.Delete(ctx, characterID); err != nil {
		return rulerr.Wrapf(err, "failed to delete character '%s'", characterID).
			WithMeta("operation", "DeleteCharacter")
	}

	log.Printf("[CHARACTER] Deleted %s", characterID)
	s.emit(ctx, events.NewGameEvent(events.OnCharacterDeleted).
		WithActor(&character.Character{ID: characterID}))
	return nil
}

// AwardExperience adds experience points
func (s *service) AwardExperience(ctx context.Context, input *AwardExperienceInput) (*CharacterOutput, error) {
	if input == nil || input.Amount < 1 {
		return nil, rulerr.InvalidArgument("a positive experience amount is required")
	}

	var out *CharacterOutput
	_, err := s.mutate(ctx, input.CharacterID, func(char *character.Character) (*character.Character, error) {
		next := char.Clone()
		next.Experience += input.Amount

		derived, err := s.aggregator.Aggregate(next)
		if err != nil {
			return nil, err
		}
		out = &CharacterOutput{Character: next, Derived: derived}
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[CHARACTER] %s gained %d experience (total %d, can level up: %t)",
		input.CharacterID, input.Amount, out.Character.Experience, s.driver.CanLevelUp(out.Character))
	return out, nil
}

// Derive recomputes a character's derived statistics
func (s *service) Derive(ctx context.Context, characterID string) (*CharacterOutput, error) {
	char, err := s.GetCharacter(ctx, characterID)
	if err != nil {
		return nil, err
	}

	derived, err := s.aggregator.Aggregate(char)
	if err != nil {
		return nil, rulerr.Wrapf(err, "failed to derive character '%s'", characterID)
	}
	return &CharacterOutput{Character: char, Derived: derived}, nil
}

// DeriveAll recomputes every character concurrently over the shared catalogs
func (s *service) DeriveAll(ctx context.Context) ([]*CharacterOutput, error) {
	chars, err := s.repository.List(ctx)
	if err != nil {
		return nil, rulerr.Wrap(err, "failed to list characters")
	}

	out := make([]*CharacterOutput, len(chars))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for i, char := range chars {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			derived, err := s.aggregator.Aggregate(char)
			if err != nil {
				return rulerr.Wrapf(err, "failed to derive character '%s'", char.ID)
			}
			out[i] = &CharacterOutput{Character: char, Derived: derived}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// mutation is an engine call against a loaded character. It returns the character to
// save, or nil when nothing changed.
type mutation func(char *character.Character) (*character.Character, error)

func (s *service) mutate(ctx context.Context, characterID string, fn mutation) (*character.Character, error) {
	if characterID == "" {
		return nil, rulerr.InvalidArgument("character ID is required")
	}

	release, err := s.locks.acquire(characterID)
	if err != nil {
		return nil, err
	}
	defer release()

	char, err := s.repository.Get(ctx, characterID)
	if err != nil {
		return nil, err
	}

	next, err := fn(char)
	if err != nil || next == nil {
		return nil, err
	}

	next.Version = char.Version
	if err := s.repository.Update(ctx, next); err != nil {
		return nil, rulerr.Wrapf(err, "failed to save character '%s'", characterID).
			WithMeta("character_id", characterID)
	}
	return next, nil
}

// emit publishes after a committed change. Publishing failures never undo the change.
func (s *service) emit(ctx context.Context, event *events.GameEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Emit(ctx, event); err != nil {
		log.Printf("[CHARACTER] Failed to publish %s: %v", event.Type, err)
	}
}
