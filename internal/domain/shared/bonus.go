package shared

// Target names the derived statistic a bonus modifies
type Target string

const (
	TargetAbility     Target = "ability"
	TargetArmorClass  Target = "ac"
	TargetMaxDex      Target = "max_dex"
	TargetArmorCheck  Target = "armor_check"
	TargetSave        Target = "save"
	TargetSkill       Target = "skill"
	TargetAttack      Target = "attack"
	TargetDamage      Target = "damage"
	TargetInitiative  Target = "initiative"
	TargetHitPoints   Target = "hit_points"
	TargetSpeed       Target = "speed"
	TargetSpellDC     Target = "spell_dc"
	TargetCasterLevel Target = "caster_level"
)

// Capped reports whether sources for this target combine by taking the minimum
func (t Target) Capped() bool {
	return t == TargetMaxDex
}

// BonusType is the d20 bonus type used for stacking
type BonusType string

const (
	BonusUntyped      BonusType = ""
	BonusArmor        BonusType = "armor"
	BonusShield       BonusType = "shield"
	BonusNatural      BonusType = "natural"
	BonusDeflection   BonusType = "deflection"
	BonusDodge        BonusType = "dodge"
	BonusEnhancement  BonusType = "enhancement"
	BonusCompetence   BonusType = "competence"
	BonusInsight      BonusType = "insight"
	BonusLuck         BonusType = "luck"
	BonusMorale       BonusType = "morale"
	BonusResistance   BonusType = "resistance"
	BonusSacred       BonusType = "sacred"
	BonusCircumstance BonusType = "circumstance"
	BonusSize         BonusType = "size"
)

// Stacks reports whether multiple bonuses of this type all apply
func (b BonusType) Stacks() bool {
	switch b {
	case BonusUntyped, BonusDodge, BonusCircumstance:
		return true
	}
	return false
}
