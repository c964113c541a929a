package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/dnd-rules-engine/internal/engine/feats"
	characterService "github.com/KirkDiggler/dnd-rules-engine/internal/services/character"
)

var featsCmd = &cobra.Command{
	Use:   "feats",
	Short: "Validate, grant and revoke feats",
}

var validateCmd = &cobra.Command{
	Use:   "validate FEAT [CHOICE]",
	Short: "Check a feat's prerequisites",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := target(cmd.Context())
		if err != nil {
			return err
		}
		input := featInput(id, args)
		result, err := current.provider.CharacterService.ValidateFeat(cmd.Context(), input)
		if err != nil {
			return err
		}
		return render(result, func(w io.Writer) {
			if result.Eligible {
				fmt.Fprintf(w, "%s: eligible\n", label(input.FeatKey))
				return
			}
			fmt.Fprintf(w, "%s: not eligible\n", label(input.FeatKey))
			for _, reason := range result.Reasons() {
				fmt.Fprintf(w, "  - %s\n", reason)
			}
		})
	},
}

var availableCmd = &cobra.Command{
	Use:   "available",
	Short: "List feats the character could take now",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := target(cmd.Context())
		if err != nil {
			return err
		}
		keys, err := current.provider.CharacterService.AvailableFeats(cmd.Context(), id)
		if err != nil {
			return err
		}
		return render(keys, func(w io.Writer) {
			for _, key := range keys {
				fmt.Fprintln(w, label(key))
			}
		})
	},
}

type featChange func(svc characterService.Service, ctx context.Context, input *characterService.FeatInput) (*feats.Outcome, error)

func featChangeCmd(use, short string, change featChange) *cobra.Command {
	return &cobra.Command{
		Use:   use + " FEAT [CHOICE]",
		Short: short,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := target(cmd.Context())
			if err != nil {
				return err
			}
			input := featInput(id, args)
			outcome, err := change(current.provider.CharacterService, cmd.Context(), input)
			if err != nil {
				return err
			}
			if err := commit(cmd.Context(), id); err != nil {
				return err
			}
			return render(outcome, func(w io.Writer) {
				switch {
				case outcome.Result != nil && !outcome.Result.Eligible:
					fmt.Fprintf(w, "%s refused: %s\n", label(input.FeatKey), strings.Join(outcome.Result.Reasons(), "; "))
				case !outcome.Changed:
					fmt.Fprintln(w, "no change")
				default:
					printCharacter(w, outcome.Character, outcome.Derived)
				}
			})
		},
	}
}

func featInput(id string, args []string) *characterService.FeatInput {
	input := &characterService.FeatInput{CharacterID: id, FeatKey: args[0]}
	if len(args) > 1 {
		input.Choice = args[1]
	}
	return input
}

func init() {
	featsCmd.AddCommand(validateCmd, availableCmd,
		featChangeCmd("grant", "Add a feat when its prerequisites are met", characterService.Service.GrantFeat),
		featChangeCmd("choose", "Record the choice of a variable feat", characterService.Service.ChooseFeat),
		featChangeCmd("revoke", "Remove a feat nothing else depends on", characterService.Service.RevokeFeat),
	)
	rootCmd.AddCommand(featsCmd)
}
