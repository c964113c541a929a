package character

import (
	"context"
	"log"
	"sort"

	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/character"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/events"
	"github.com/KirkDiggler/dnd-rules-engine/internal/engine/progression"
	rulerr "github.com/KirkDiggler/dnd-rules-engine/internal/errors"
)

// LevelUp drives one level-up transaction through every step it includes using the
// choices in input, then commits it. A dry run stops at Review.
func (s *service) LevelUp(ctx context.Context, input *LevelUpInput) (*LevelUpOutput, error) {
	if input == nil || input.ClassKey == "" {
		return nil, rulerr.InvalidArgument("class key is required")
	}

	var out *LevelUpOutput
	_, err := s.mutate(ctx, input.CharacterID, func(char *character.Character) (*character.Character, error) {
		tx, err := s.driver.Begin(char, input.ClassKey)
		if err != nil {
			return nil, err
		}
		if err := applyChoices(tx, input); err != nil {
			return nil, err
		}

		var outcome *progression.Outcome
		if input.DryRun {
			outcome, err = tx.Review()
		} else {
			outcome, err = tx.Finalize()
		}
		if err != nil {
			return nil, err
		}

		out = &LevelUpOutput{
			Character:  outcome.Character,
			Derived:    outcome.Derived,
			NewLevel:   tx.NewLevel,
			ClassLevel: tx.ClassLevel,
			HitDieRoll: tx.HitDieRoll(),
			Steps:      tx.Steps,
			Committed:  !input.DryRun,
		}
		if input.DryRun {
			return nil, nil
		}
		return outcome.Character, nil
	})
	if err != nil {
		return nil, rulerr.Wrapf(err, "failed to level up in '%s'", input.ClassKey).
			WithMeta("operation", "LevelUp").
			WithMeta("character_id", input.CharacterID)
	}

	if out.Committed {
		log.Printf("[CHARACTER] %s reached level %d (%s %d, hit die %d)",
			input.CharacterID, out.NewLevel, input.ClassKey, out.ClassLevel, out.HitDieRoll)
		s.emit(ctx, events.NewGameEvent(events.OnLevelUp).
			WithActor(out.Character).
			WithContext(events.ContextClass, input.ClassKey).
			WithContext(events.ContextClassLevel, out.ClassLevel).
			WithContext(events.ContextLevel, out.NewLevel).
			WithContext(events.ContextHitDieRoll, out.HitDieRoll))
	}
	return out, nil
}

// applyChoices walks the transaction to Review, feeding each step from input
func applyChoices(tx *progression.LevelUp, input *LevelUpInput) error {
	for tx.CurrentStep != progression.StepReview {
		var err error
		switch tx.CurrentStep {
		case progression.StepHitPoints:
			if input.HitDieRoll > 0 {
				err = tx.SetHitPointRoll(input.HitDieRoll)
			} else {
				_, err = tx.RollHitPoints()
			}
		case progression.StepSkillPoints:
			err = buySkills(tx, input.Skills)
		case progression.StepAttributes:
			err = tx.IncreaseAbility(input.Ability)
		case progression.StepFeats:
			if input.Feat == nil {
				return rulerr.InvalidArgumentf("level %d requires a feat", tx.NewLevel)
			}
			err = tx.SelectFeat(input.Feat.Key, input.Feat.Choice)
		case progression.StepClassFeatures:
			if input.ClassFeat == nil {
				return rulerr.InvalidArgumentf("%s level %d requires a bonus feat", tx.ClassKey, tx.ClassLevel)
			}
			err = tx.SelectClassFeat(input.ClassFeat.Key, input.ClassFeat.Choice)
		}
		if err != nil {
			return err
		}
		if err := tx.Advance(); err != nil {
			return err
		}
	}
	return nil
}

// buySkills spends in key order so the same input always fails the same way
func buySkills(tx *progression.LevelUp, skills map[string]int) error {
	keys := make([]string, 0, len(skills))
	for k := range skills {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := tx.BuyRanks(k, skills[k]); err != nil {
			return err
		}
	}
	return nil
}
