package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/rulebook"
)

var catalogCmd = &cobra.Command{
	Use:       "catalog KIND [KEY]",
	Short:     "List catalog entries or show one",
	ValidArgs: []string{"feats", "spells", "items", "classes", "races"},
	Args:      cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalogs := current.provider.Catalogs

		var (
			keys   []string
			lookup func(string) (any, error)
		)
		switch args[0] {
		case "feats":
			keys, lookup = catalogs.Feats.Keys(), entry(catalogs.Feat)
		case "spells":
			keys, lookup = catalogs.Spells.Keys(), entry(catalogs.Spell)
		case "items":
			keys, lookup = catalogs.Items.Keys(), entry(catalogs.Item)
		case "classes":
			keys, lookup = catalogs.Classes.Keys(), entry(catalogs.Class)
		case "races":
			keys, lookup = catalogs.Races.Keys(), entry(catalogs.Race)
		default:
			return fmt.Errorf("unknown catalog %q", args[0])
		}

		if len(args) == 1 {
			return render(keys, func(w io.Writer) {
				for _, key := range keys {
					fmt.Fprintln(w, key)
				}
			})
		}

		def, err := lookup(args[1])
		if err != nil {
			return err
		}
		// definitions have no text form; both formats print JSON
		flagFormat = "json"
		return render(def, nil)
	},
}

func entry[T rulebook.Entry](get func(string) (T, error)) func(string) (any, error) {
	return func(key string) (any, error) {
		return get(key)
	}
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}
