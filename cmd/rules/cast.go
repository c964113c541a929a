package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/dnd-rules-engine/internal/engine/spellcasting"
	characterService "github.com/KirkDiggler/dnd-rules-engine/internal/services/character"
)

var castCmd = &cobra.Command{
	Use:   "cast SPELL",
	Short: "Resolve a spell cast, applying metamagic in the given order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		class, _ := cmd.Flags().GetString("class")
		metamagic, _ := cmd.Flags().GetStringSlice("metamagic")
		preview, _ := cmd.Flags().GetBool("preview")

		id, err := target(cmd.Context())
		if err != nil {
			return err
		}
		input := &characterService.CastInput{
			CharacterID: id,
			SpellKey:    args[0],
			CasterClass: class,
			Metamagic:   metamagic,
		}

		var result *spellcasting.CastResult
		var out any
		if preview {
			if result, err = current.provider.CharacterService.ResolveCast(cmd.Context(), input); err != nil {
				return err
			}
			out = result
		} else {
			outcome, err := current.provider.CharacterService.Cast(cmd.Context(), input)
			if err != nil {
				return err
			}
			if err := commit(cmd.Context(), id); err != nil {
				return err
			}
			result, out = &outcome.CastResult, outcome
		}

		return render(out, func(w io.Writer) { printCast(w, result) })
	},
}

var dismissCmd = &cobra.Command{
	Use:   "dismiss SPELL",
	Short: "End an active spell",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := target(cmd.Context())
		if err != nil {
			return err
		}
		outcome, err := current.provider.CharacterService.Dismiss(cmd.Context(), &characterService.DismissInput{
			CharacterID: id,
			SpellKey:    args[0],
		})
		if err != nil {
			return err
		}
		if err := commit(cmd.Context(), id); err != nil {
			return err
		}
		return render(outcome, func(w io.Writer) { printCharacter(w, outcome.Character, outcome.Derived) })
	},
}

func printCast(w io.Writer, result *spellcasting.CastResult) {
	if !result.Legal {
		fmt.Fprintf(w, "illegal cast: %s\n", result.Reason)
		return
	}

	spell := result.Spell
	fmt.Fprintf(w, "%s (%s %s)\n", spell.Name, label(spell.Class), label(string(spell.School)))
	fmt.Fprintf(w, "  spell level %d, effective %d, caster level %d\n", spell.BaseLevel, spell.EffectiveLevel, spell.CasterLevel)
	if len(spell.Applied) > 0 {
		fmt.Fprintf(w, "  metamagic: %s\n", strings.Join(spell.Applied, " then "))
	}
	if spell.CastingTime != "" {
		fmt.Fprintf(w, "  casting time: %s\n", spell.CastingTime)
	}
	if len(spell.Components) > 0 {
		fmt.Fprintf(w, "  components: %v\n", spell.Components)
	}
	if spell.Range != nil {
		fmt.Fprintf(w, "  range: %s\n", spell.Range)
	}
	if spell.Duration != nil {
		fmt.Fprintf(w, "  duration: %s\n", spell.Duration)
	}
	if spell.Expression != "" {
		fmt.Fprintf(w, "  %s: %s (expected %.1f)\n", spell.Effect, spell.Expression, spell.Expected)
	}
	if spell.Save != nil {
		fmt.Fprintf(w, "  save DC %d\n", spell.SaveDC)
	}
}

func init() {
	castCmd.Flags().String("class", "", "casting class")
	castCmd.Flags().StringSlice("metamagic", nil, "metamagic feats in application order")
	castCmd.Flags().Bool("preview", false, "resolve without changing the character")
	_ = castCmd.MarkFlagRequired("class")

	rootCmd.AddCommand(castCmd, dismissCmd)
}
