package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/character"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/shared"
)

var title = cases.Title(language.English)

// render prints v as JSON, or through text in text mode
func render(v any, text func(w io.Writer)) error {
	if flagFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(os.Stdout)
	return nil
}

// label turns a catalog key such as power_attack into "Power Attack"
func label(key string) string {
	return title.String(strings.NewReplacer("_", " ", "-", " ").Replace(key))
}

func signed(n int) string {
	return fmt.Sprintf("%+d", n)
}

func printCharacter(w io.Writer, char *character.Character, d *character.DerivedStats) {
	classes := make([]string, 0, len(char.Classes))
	for _, cl := range char.Classes {
		classes = append(classes, fmt.Sprintf("%s %d", label(cl.Class), cl.Level))
	}
	if len(classes) == 0 {
		classes = append(classes, "level 0")
	}

	fmt.Fprintf(w, "%s (%s) - %s %s, %d xp\n", char.Name, char.ID, label(char.Race), strings.Join(classes, " / "), char.Experience)
	if d == nil {
		return
	}

	for _, attr := range shared.Attributes {
		stat := d.Abilities[attr]
		fmt.Fprintf(w, "  %-4s %2d (%s)", attr, stat.Score, signed(stat.Modifier))
		if stat.Score != stat.Base {
			fmt.Fprintf(w, "  base %d", stat.Base)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "  HP %d/%d  AC %d (touch %d, flat-footed %d)  Init %s  BAB %s  Speed %d\n",
		char.HitPoints.Current, d.MaxHitPoints, d.ArmorClass.Total, d.ArmorClass.Touch, d.ArmorClass.FlatFooted,
		signed(d.Initiative), signed(d.BaseAttackBonus), d.Speed)

	saves := make([]string, 0, len(shared.Saves))
	for _, save := range shared.Saves {
		saves = append(saves, fmt.Sprintf("%s %s", label(string(save)), signed(d.Saves[save])))
	}
	fmt.Fprintf(w, "  Saves: %s\n", strings.Join(saves, ", "))

	for _, atk := range d.Attacks {
		fmt.Fprintf(w, "  Attack: %s %s, %s%s\n", label(atk.ItemKey), signed(atk.AttackBonus), atk.Damage, bonus(atk.DamageBonus))
	}

	if len(char.Feats) > 0 {
		names := make([]string, 0, len(char.Feats))
		for _, f := range char.Feats {
			name := label(f.Key)
			if f.Choice != "" {
				name += " (" + f.Choice + ")"
			}
			names = append(names, name)
		}
		fmt.Fprintf(w, "  Feats: %s\n", strings.Join(names, ", "))
	}
	if len(d.Incomplete) > 0 {
		fmt.Fprintf(w, "  Needs a choice: %s\n", strings.Join(d.Incomplete, ", "))
	}

	skills := make([]string, 0, len(d.Skills))
	for skill := range d.Skills {
		skills = append(skills, skill)
	}
	sort.Strings(skills)
	for _, skill := range skills {
		if char.Skills[skill].Ranks == 0 && d.Skills[skill] == 0 {
			continue
		}
		fmt.Fprintf(w, "  %-16s %s\n", label(skill), signed(d.Skills[skill]))
	}

	for class, level := range d.CasterLevels {
		fmt.Fprintf(w, "  %s caster level %d, max spell level %d, slots %v\n",
			label(class), level, d.MaxSpellLevels[class], d.SpellSlots[class])
	}

	e := d.Encumbrance
	fmt.Fprintf(w, "  Load: %.1f lb (%s; light %.0f, medium %.0f, heavy %.0f)\n", e.Weight, e.Tier, e.Light, e.Medium, e.Heavy)
}

func bonus(n int) string {
	if n == 0 {
		return ""
	}
	return signed(n)
}
