package aggregate

import (
	"fmt"

	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/character"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-rules-engine/internal/domain/shared"
)

// weapon is an equipped weapon with its definition
type weapon struct {
	instance character.ItemInstance
	def      *rulebook.ItemDefinition
}

// localKey scopes a bonus to a single item instance
func localKey(instanceID string) string {
	return "@" + instanceID
}

func featSource(f character.FeatInstance) string {
	if f.Choice != "" {
		return fmt.Sprintf("feat:%s(%s)", f.Key, f.Choice)
	}
	return "feat:" + f.Key
}

func itemSource(item character.ItemInstance) string {
	return fmt.Sprintf("item:%s/%s", item.Key, item.ID)
}

func spellSource(s character.ActiveSpell) string {
	return "spell:" + s.SpellKey
}

// collectFeats adds every resolved feat effect and returns variable feats lacking a choice
func (a *Aggregator) collectFeats(l *ledger, char *character.Character) ([]string, error) {
	var incomplete []string
	for _, f := range char.Feats {
		def, err := a.catalogs.Feat(f.Key)
		if err != nil {
			return nil, err
		}

		bonuses, ok := def.Effect.Resolve(f.Choice)
		if !ok {
			incomplete = append(incomplete, f.Key)
			continue
		}
		l.add(featSource(f), bonuses...)
	}
	return incomplete, nil
}

// collectItems adds bonuses from every equipped item and returns equipped weapons in
// inventory order
func (a *Aggregator) collectItems(l *ledger, char *character.Character) ([]weapon, error) {
	var weapons []weapon
	for _, item := range char.Inventory {
		def, err := a.catalogs.Item(item.Key)
		if err != nil {
			return nil, err
		}
		if !item.Equipped {
			continue
		}

		source := itemSource(item)
		switch def.Category {
		case rulebook.CategoryArmor:
			l.add(source, rulebook.Bonus{Target: shared.TargetArmorClass, Type: shared.BonusArmor, Value: def.ArmorBonus + def.Enhancement})
		case rulebook.CategoryShield:
			l.add(source, rulebook.Bonus{Target: shared.TargetArmorClass, Type: shared.BonusShield, Value: def.ShieldBonus + def.Enhancement})
		case rulebook.CategoryWeapon:
			weapons = append(weapons, weapon{instance: item, def: def})
			key := localKey(item.ID)
			if def.AttackBonus != 0 {
				l.add(source, rulebook.Bonus{Target: shared.TargetAttack, Key: key, Type: shared.BonusEnhancement, Value: def.AttackBonus})
			}
			if def.Enhancement != 0 {
				l.add(source,
					rulebook.Bonus{Target: shared.TargetAttack, Key: key, Type: shared.BonusEnhancement, Value: def.Enhancement},
					rulebook.Bonus{Target: shared.TargetDamage, Key: key, Type: shared.BonusEnhancement, Value: def.Enhancement},
				)
			}
			if def.DamageBonus != 0 {
				l.add(source, rulebook.Bonus{Target: shared.TargetDamage, Key: key, Value: def.DamageBonus})
			}
		}

		if def.MaxDexBonus != nil {
			l.add(source, rulebook.Bonus{Target: shared.TargetMaxDex, Value: *def.MaxDexBonus})
		}
		if def.ArmorCheckPenalty != 0 {
			l.add(source, rulebook.Bonus{Target: shared.TargetArmorCheck, Value: def.ArmorCheckPenalty})
		}

		for _, p := range def.Properties {
			bonuses := p.Bonuses
			if def.IsWeapon() {
				bonuses = scopeToWeapon(bonuses, item.ID)
			}
			l.add(source, bonuses...)
		}
	}
	return weapons, nil
}

// scopeToWeapon makes a weapon property's unkeyed attack and damage bonuses local to it
func scopeToWeapon(bonuses []rulebook.Bonus, instanceID string) []rulebook.Bonus {
	out := make([]rulebook.Bonus, len(bonuses))
	for i, b := range bonuses {
		if b.Key == "" && (b.Target == shared.TargetAttack || b.Target == shared.TargetDamage) {
			b.Key = localKey(instanceID)
		}
		out[i] = b
	}
	return out
}

// collectSpells adds the persistent bonuses of every active spell at its caster level
func (a *Aggregator) collectSpells(l *ledger, char *character.Character) error {
	for _, active := range char.ActiveSpells {
		def, err := a.catalogs.Spell(active.SpellKey)
		if err != nil {
			return err
		}
		for _, b := range def.Persistent {
			l.add(spellSource(active), b.Scaled(active.CasterLevel))
		}
	}
	return nil
}
