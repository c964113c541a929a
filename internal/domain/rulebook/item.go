package rulebook

import "github.com/KirkDiggler/dnd-rules-engine/internal/domain/shared"

// Category is an item's broad kind
type Category string

const (
	CategoryWeapon   Category = "weapon"
	CategoryArmor    Category = "armor"
	CategoryShield   Category = "shield"
	CategoryWearable Category = "wearable"
	CategoryGear     Category = "gear"
)

// Property is a tagged special effect on an item
type Property struct {
	Tag        string  `yaml:"tag" json:"tag"`
	Bonuses    []Bonus `yaml:"bonuses,omitempty" json:"bonuses,omitempty"`
	Dice       string  `yaml:"dice,omitempty" json:"dice,omitempty"`
	DamageType string  `yaml:"damage_type,omitempty" json:"damage_type,omitempty"`
}

// ItemDefinition is a catalog item
type ItemDefinition struct {
	Key      string        `yaml:"key" json:"key"`
	Name     string        `yaml:"name" json:"name"`
	Category Category      `yaml:"category" json:"category"`
	Slots    []shared.Slot `yaml:"slots,omitempty" json:"slots,omitempty"`
	Weight   float64       `yaml:"weight" json:"weight"`

	// Weapons
	TwoHanded  bool   `yaml:"two_handed,omitempty" json:"two_handed,omitempty"`
	Ranged     bool   `yaml:"ranged,omitempty" json:"ranged,omitempty"`
	WeaponType string `yaml:"weapon_type,omitempty" json:"weapon_type,omitempty"`
	Damage     string `yaml:"damage,omitempty" json:"damage,omitempty"`

	// Armor and shields
	ArmorBonus        int  `yaml:"armor_bonus,omitempty" json:"armor_bonus,omitempty"`
	ShieldBonus       int  `yaml:"shield_bonus,omitempty" json:"shield_bonus,omitempty"`
	MaxDexBonus       *int `yaml:"max_dex_bonus,omitempty" json:"max_dex_bonus,omitempty"`
	ArmorCheckPenalty int  `yaml:"armor_check_penalty,omitempty" json:"armor_check_penalty,omitempty"`

	AttackBonus int        `yaml:"attack_bonus,omitempty" json:"attack_bonus,omitempty"`
	DamageBonus int        `yaml:"damage_bonus,omitempty" json:"damage_bonus,omitempty"`
	Enhancement int        `yaml:"enhancement,omitempty" json:"enhancement,omitempty"`
	Properties  []Property `yaml:"properties,omitempty" json:"properties,omitempty"`
}

func (i *ItemDefinition) CatalogKey() string {
	return i.Key
}

// IsWeapon reports whether the item makes attacks
func (i *ItemDefinition) IsWeapon() bool {
	return i.Category == CategoryWeapon
}

// FocusKey is the weapon type that Weapon Focus style choices match against
func (i *ItemDefinition) FocusKey() string {
	if i.WeaponType != "" {
		return i.WeaponType
	}
	return i.Key
}

// EligibleSlots lists the slots the item may occupy
func (i *ItemDefinition) EligibleSlots() []shared.Slot {
	if len(i.Slots) > 0 {
		return i.Slots
	}

	switch i.Category {
	case CategoryWeapon:
		if i.TwoHanded {
			return []shared.Slot{shared.SlotMainHand}
		}
		return []shared.Slot{shared.SlotMainHand, shared.SlotOffHand}
	case CategoryArmor:
		return []shared.Slot{shared.SlotBody}
	case CategoryShield:
		return []shared.Slot{shared.SlotOffHand}
	}
	return nil
}

// AllowsSlot reports whether the item may occupy slot
func (i *ItemDefinition) AllowsSlot(slot shared.Slot) bool {
	for _, s := range i.EligibleSlots() {
		if s == slot {
			return true
		}
	}
	return false
}
