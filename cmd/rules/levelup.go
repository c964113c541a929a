package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/shared"
	characterService "github.com/KirkDiggler/dnd-rules-engine/internal/services/character"
)

var levelUpCmd = &cobra.Command{
	Use:   "levelup CLASS",
	Short: "Gain a level in a class",
	Long: `Runs the level-up steps in order: hit points, skill points, then an ability increase,
a feat and a class bonus feat when the new level grants them. Every choice is given up
front; --dry-run prints the reviewed character without saving it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		hitDie, _ := flags.GetInt("hp")
		skills, _ := flags.GetStringToInt("skill")
		ability, _ := flags.GetString("ability")
		feat, _ := flags.GetString("feat")
		classFeat, _ := flags.GetString("class-feat")
		dryRun, _ := flags.GetBool("dry-run")

		id, err := target(cmd.Context())
		if err != nil {
			return err
		}

		input := &characterService.LevelUpInput{
			CharacterID: id,
			ClassKey:    args[0],
			HitDieRoll:  hitDie,
			Skills:      skills,
			Feat:        featChoice(feat),
			ClassFeat:   featChoice(classFeat),
			DryRun:      dryRun,
		}
		if ability != "" {
			if input.Ability, err = shared.ParseAttribute(ability); err != nil {
				return err
			}
		}

		out, err := current.provider.CharacterService.LevelUp(cmd.Context(), input)
		if err != nil {
			return err
		}
		if !dryRun {
			if err := commit(cmd.Context(), id); err != nil {
				return err
			}
		}

		return render(out, func(w io.Writer) {
			state := "reached"
			if !out.Committed {
				state = "would reach"
			}
			fmt.Fprintf(w, "%s level %d (%s %d), hit die %d\n", state, out.NewLevel, label(args[0]), out.ClassLevel, out.HitDieRoll)
			printCharacter(w, out.Character, out.Derived)
		})
	},
}

// featChoice parses "weapon_focus:longsword"
func featChoice(s string) *characterService.FeatChoice {
	if s == "" {
		return nil
	}
	key, choice, _ := strings.Cut(s, ":")
	return &characterService.FeatChoice{Key: key, Choice: choice}
}

func init() {
	levelUpCmd.Flags().Int("hp", 0, "hit die result rolled at the table; rolls when omitted")
	levelUpCmd.Flags().StringToInt("skill", nil, "ranks to buy, e.g. climb=1,spot=1")
	levelUpCmd.Flags().String("ability", "", "ability score to increase (Str, Dex, ...)")
	levelUpCmd.Flags().String("feat", "", "feat gained at this level, FEAT[:CHOICE]")
	levelUpCmd.Flags().String("class-feat", "", "class bonus feat, FEAT[:CHOICE]")
	levelUpCmd.Flags().Bool("dry-run", false, "review without saving")

	rootCmd.AddCommand(levelUpCmd)
}
