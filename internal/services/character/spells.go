package character

import (
	"context"
	"log"

	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/character"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/events"
	"github.com/KirkDiggler/dnd-rules-engine/internal/engine/spellcasting"
	rulerr "github.com/KirkDiggler/dnd-rules-engine/internal/errors"
)

// ResolveCast previews a cast without changing the character
func (s *service) ResolveCast(ctx context.Context, input *CastInput) (*spellcasting.CastResult, error) {
	if err := validateCastInput(input); err != nil {
		return nil, err
	}

	char, err := s.GetCharacter(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}
	return s.resolver.ResolveCast(char, input.SpellKey, input.CasterClass, input.Metamagic)
}

// Cast applies a cast. Only persistent spells change the stored character.
func (s *service) Cast(ctx context.Context, input *CastInput) (*spellcasting.CastOutcome, error) {
	if err := validateCastInput(input); err != nil {
		return nil, err
	}

	var outcome *spellcasting.CastOutcome
	_, err := s.mutate(ctx, input.CharacterID, func(char *character.Character) (*character.Character, error) {
		var err error
		outcome, err = s.resolver.Cast(char, input.SpellKey, input.CasterClass, input.Metamagic)
		if err != nil || !outcome.Legal {
			return nil, err
		}
		def, err := s.catalogs.Spell(input.SpellKey)
		if err != nil {
			return nil, err
		}
		if !def.IsPersistent() {
			return nil, nil
		}
		return outcome.Character, nil
	})
	if err != nil {
		return nil, rulerr.Wrapf(err, "failed to cast '%s'", input.SpellKey).
			WithMeta("operation", "Cast").
			WithMeta("character_id", input.CharacterID)
	}

	if !outcome.Legal {
		log.Printf("[CHARACTER] %s cannot cast %s: %s", input.CharacterID, input.SpellKey, outcome.Reason)
		return outcome, nil
	}

	spell := outcome.Spell
	log.Printf("[CHARACTER] %s cast %s at caster level %d (effective level %d)",
		input.CharacterID, spell.Key, spell.CasterLevel, spell.EffectiveLevel)
	s.emit(ctx, events.NewGameEvent(events.OnSpellCast).
		WithActor(outcome.Character).
		WithContext(events.ContextSpellKey, spell.Key).
		WithContext(events.ContextCasterClass, spell.Class).
		WithContext(events.ContextCasterLevel, spell.CasterLevel).
		WithContext(events.ContextSpellLevel, spell.EffectiveLevel).
		WithContext(events.ContextSpellSaveDC, spell.SaveDC).
		WithContext(events.ContextMetamagic, spell.Applied))
	return outcome, nil
}

// Dismiss ends an active spell
func (s *service) Dismiss(ctx context.Context, input *DismissInput) (*spellcasting.CastOutcome, error) {
	if input == nil || input.SpellKey == "" {
		return nil, rulerr.InvalidArgument("spell key is required")
	}

	var (
		outcome *spellcasting.CastOutcome
		active  bool
	)
	_, err := s.mutate(ctx, input.CharacterID, func(char *character.Character) (*character.Character, error) {
		var err error
		outcome, err = s.resolver.Dismiss(char, input.SpellKey)
		if err != nil {
			return nil, err
		}
		if active = char.ActiveSpell(input.SpellKey) >= 0; !active {
			return nil, nil
		}
		return outcome.Character, nil
	})
	if err != nil {
		return nil, rulerr.Wrapf(err, "failed to dismiss '%s'", input.SpellKey).
			WithMeta("operation", "Dismiss").
			WithMeta("character_id", input.CharacterID)
	}

	if active {
		log.Printf("[CHARACTER] %s dismissed %s", input.CharacterID, input.SpellKey)
		s.emit(ctx, events.NewGameEvent(events.OnSpellDismissed).
			WithActor(outcome.Character).
			WithContext(events.ContextSpellKey, input.SpellKey))
	}
	return outcome, nil
}

func validateCastInput(input *CastInput) error {
	if input == nil {
		return rulerr.InvalidArgument("input is required")
	}
	if input.SpellKey == "" || input.CasterClass == "" {
		return rulerr.InvalidArgument("spell key and caster class are required")
	}
	return nil
}
