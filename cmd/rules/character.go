package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/shared"
	characterService "github.com/KirkDiggler/dnd-rules-engine/internal/services/character"
)

var createCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a level 0 character",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		race, _ := cmd.Flags().GetString("race")
		scores, _ := cmd.Flags().GetIntSlice("abilities")
		if len(scores) != len(shared.Attributes) {
			return fmt.Errorf("--abilities needs %d scores in Str,Dex,Con,Int,Wis,Cha order", len(shared.Attributes))
		}

		var abilities shared.AbilityScores
		for i, attr := range shared.Attributes {
			abilities = abilities.With(attr, scores[i])
		}

		out, err := current.provider.CharacterService.CreateCharacter(cmd.Context(), &characterService.CreateCharacterInput{
			Name:      args[0],
			RaceKey:   race,
			Abilities: abilities,
		})
		if err != nil {
			return err
		}

		if flagFile != "" {
			if err := writeCharacterFile(flagFile, out.Character); err != nil {
				return err
			}
		}
		return render(out, func(w io.Writer) { printCharacter(w, out.Character, out.Derived) })
	},
}

var showCmd = &cobra.Command{
	Use:     "derive",
	Aliases: []string{"show"},
	Short:   "Recompute and print a character's derived statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if all {
			outs, err := current.provider.CharacterService.DeriveAll(cmd.Context())
			if err != nil {
				return err
			}
			return render(outs, func(w io.Writer) {
				for _, out := range outs {
					printCharacter(w, out.Character, out.Derived)
				}
			})
		}

		id, err := target(cmd.Context())
		if err != nil {
			return err
		}
		out, err := current.provider.CharacterService.Derive(cmd.Context(), id)
		if err != nil {
			return err
		}
		return render(out, func(w io.Writer) { printCharacter(w, out.Character, out.Derived) })
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored characters",
	RunE: func(cmd *cobra.Command, args []string) error {
		chars, err := current.provider.CharacterService.ListCharacters(cmd.Context())
		if err != nil {
			return err
		}
		return render(chars, func(w io.Writer) {
			for _, char := range chars {
				fmt.Fprintf(w, "%s\t%s\t%s\tlevel %d\n", char.ID, char.Name, label(char.Race), char.Level())
			}
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a stored character",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagID == "" {
			return fmt.Errorf("--id is required")
		}
		return current.provider.CharacterService.DeleteCharacter(cmd.Context(), flagID)
	},
}

var xpCmd = &cobra.Command{
	Use:   "xp AMOUNT",
	Short: "Award experience points",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var amount int
		if _, err := fmt.Sscanf(args[0], "%d", &amount); err != nil {
			return fmt.Errorf("invalid amount %q", args[0])
		}

		id, err := target(cmd.Context())
		if err != nil {
			return err
		}
		out, err := current.provider.CharacterService.AwardExperience(cmd.Context(), &characterService.AwardExperienceInput{
			CharacterID: id,
			Amount:      amount,
		})
		if err != nil {
			return err
		}
		if err := commit(cmd.Context(), id); err != nil {
			return err
		}
		return render(out, func(w io.Writer) { printCharacter(w, out.Character, out.Derived) })
	},
}

func init() {
	createCmd.Flags().String("race", "human", "race key")
	createCmd.Flags().IntSlice("abilities", []int{10, 10, 10, 10, 10, 10}, "Str,Dex,Con,Int,Wis,Cha")
	showCmd.Flags().Bool("all", false, "derive every stored character")

	rootCmd.AddCommand(createCmd, showCmd, listCmd, deleteCmd, xpCmd)
}
