package character

import (
	"context"
	"log"

	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/character"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/events"
	"github.com/KirkDiggler/dnd-rules-engine/internal/engine/feats"
	"github.com/KirkDiggler/dnd-rules-engine/internal/engine/prerequisites"
	rulerr "github.com/KirkDiggler/dnd-rules-engine/internal/errors"
)

// ValidateFeat checks feat prerequisites without changing the character
func (s *service) ValidateFeat(ctx context.Context, input *FeatInput) (*prerequisites.Result, error) {
	if err := validateFeatInput(input); err != nil {
		return nil, err
	}

	char, err := s.GetCharacter(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}
	return s.validator.ValidateChoice(input.FeatKey, input.Choice, char)
}

// AvailableFeats lists feats the character could take now
func (s *service) AvailableFeats(ctx context.Context, characterID string) ([]string, error) {
	char, err := s.GetCharacter(ctx, characterID)
	if err != nil {
		return nil, err
	}
	return s.granter.Available(char)
}

// GrantFeat adds a feat when its prerequisites are met
func (s *service) GrantFeat(ctx context.Context, input *FeatInput) (*feats.Outcome, error) {
	return s.featChange(ctx, input, "GrantFeat", events.OnFeatGranted, s.granter.Grant)
}

// ChooseFeat records the sub-choice of a variable feat granted without one
func (s *service) ChooseFeat(ctx context.Context, input *FeatInput) (*feats.Outcome, error) {
	return s.featChange(ctx, input, "ChooseFeat", events.OnFeatChoiceChanged, s.granter.Choose)
}

// RevokeFeat removes a feat nothing else depends on
func (s *service) RevokeFeat(ctx context.Context, input *FeatInput) (*feats.Outcome, error) {
	return s.featChange(ctx, input, "RevokeFeat", events.OnFeatRevoked, s.granter.Revoke)
}

type featOp func(char *character.Character, featKey, choice string) (*feats.Outcome, error)

func (s *service) featChange(ctx context.Context, input *FeatInput, operation string, eventType events.EventType, op featOp) (*feats.Outcome, error) {
	if err := validateFeatInput(input); err != nil {
		return nil, err
	}

	var outcome *feats.Outcome
	_, err := s.mutate(ctx, input.CharacterID, func(char *character.Character) (*character.Character, error) {
		var err error
		outcome, err = op(char, input.FeatKey, input.Choice)
		if err != nil || !outcome.Changed {
			return nil, err
		}
		return outcome.Character, nil
	})
	if err != nil {
		return nil, rulerr.Wrapf(err, "failed to change feat '%s'", input.FeatKey).
			WithMeta("operation", operation).
			WithMeta("character_id", input.CharacterID)
	}

	if outcome.Changed {
		log.Printf("[CHARACTER] %s %s %s (%s)", operation, input.CharacterID, input.FeatKey, input.Choice)
		s.emit(ctx, events.NewGameEvent(eventType).
			WithActor(outcome.Character).
			WithContext(events.ContextFeatKey, input.FeatKey).
			WithContext(events.ContextFeatChoice, input.Choice))
	} else if outcome.Result != nil && !outcome.Result.Eligible {
		log.Printf("[CHARACTER] %s %s refused %s: %v", operation, input.CharacterID, input.FeatKey, outcome.Result.Reasons())
	}
	return outcome, nil
}

func validateFeatInput(input *FeatInput) error {
	if input == nil {
		return rulerr.InvalidArgument("input is required")
	}
	if input.FeatKey == "" {
		return rulerr.InvalidArgument("feat key is required")
	}
	return nil
}
