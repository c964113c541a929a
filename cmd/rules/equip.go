package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/shared"
	"github.com/KirkDiggler/dnd-rules-engine/internal/engine/equipment"
	characterService "github.com/KirkDiggler/dnd-rules-engine/internal/services/character"
)

var equipCmd = &cobra.Command{
	Use:   "equip ITEM_ID [SLOT]",
	Short: "Equip an inventory item, in its default slot unless one is given",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := target(cmd.Context())
		if err != nil {
			return err
		}
		input := &characterService.EquipInput{CharacterID: id, ItemID: args[0]}
		if len(args) > 1 {
			input.Slot = shared.Slot(args[1])
		}
		result, err := current.provider.CharacterService.Equip(cmd.Context(), input)
		return finishEquipment(cmd, id, result, err)
	},
}

var unequipCmd = &cobra.Command{
	Use:   "unequip ITEM_ID",
	Short: "Return an item to the pack",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := target(cmd.Context())
		if err != nil {
			return err
		}
		result, err := current.provider.CharacterService.Unequip(cmd.Context(), &characterService.UnequipInput{
			CharacterID: id,
			ItemID:      args[0],
		})
		return finishEquipment(cmd, id, result, err)
	},
}

var addItemCmd = &cobra.Command{
	Use:   "add-item ITEM [QUANTITY]",
	Short: "Add catalog items to the inventory",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		quantity, err := quantityArg(args, 1)
		if err != nil {
			return err
		}
		id, err := target(cmd.Context())
		if err != nil {
			return err
		}
		result, err := current.provider.CharacterService.AddItem(cmd.Context(), &characterService.AddItemInput{
			CharacterID: id,
			ItemKey:     args[0],
			Quantity:    quantity,
		})
		return finishEquipment(cmd, id, result, err)
	},
}

var removeItemCmd = &cobra.Command{
	Use:   "remove-item ITEM_ID [QUANTITY]",
	Short: "Remove items from the inventory, all of the stack by default",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		quantity, err := quantityArg(args, 0)
		if err != nil {
			return err
		}
		id, err := target(cmd.Context())
		if err != nil {
			return err
		}
		result, err := current.provider.CharacterService.RemoveItem(cmd.Context(), &characterService.RemoveItemInput{
			CharacterID: id,
			ItemID:      args[0],
			Quantity:    quantity,
		})
		return finishEquipment(cmd, id, result, err)
	},
}

func quantityArg(args []string, fallback int) (int, error) {
	if len(args) < 2 {
		return fallback, nil
	}
	var n int
	if _, err := fmt.Sscanf(args[1], "%d", &n); err != nil {
		return 0, fmt.Errorf("invalid quantity %q", args[1])
	}
	return n, nil
}

func finishEquipment(cmd *cobra.Command, id string, result *equipment.Result, err error) error {
	if err != nil {
		return err
	}
	if err := commit(cmd.Context(), id); err != nil {
		return err
	}
	return render(result, func(w io.Writer) {
		if !result.Legal {
			fmt.Fprintf(w, "refused: %s\n", result.Reason)
			return
		}
		if result.Slot != shared.SlotNone {
			fmt.Fprintf(w, "%s -> %s\n", result.ItemID, result.Slot)
		}
		for _, displaced := range result.Displaced {
			fmt.Fprintf(w, "  displaced %s\n", displaced)
		}
		printCharacter(w, result.Character, result.Derived)
	})
}

func init() {
	rootCmd.AddCommand(equipCmd, unequipCmd, addItemCmd, removeItemCmd)
}
