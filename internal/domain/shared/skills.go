package shared

// Skill describes a skill's key ability and whether armor check penalties apply
type Skill struct {
	Key        string
	Attribute  Attribute
	ArmorCheck bool
}

var Skills = []Skill{
	{Key: "appraise", Attribute: AttributeIntelligence},
	{Key: "balance", Attribute: AttributeDexterity, ArmorCheck: true},
	{Key: "bluff", Attribute: AttributeCharisma},
	{Key: "climb", Attribute: AttributeStrength, ArmorCheck: true},
	{Key: "concentration", Attribute: AttributeConstitution},
	{Key: "diplomacy", Attribute: AttributeCharisma},
	{Key: "hide", Attribute: AttributeDexterity, ArmorCheck: true},
	{Key: "intimidate", Attribute: AttributeCharisma},
	{Key: "jump", Attribute: AttributeStrength, ArmorCheck: true},
	{Key: "knowledge-arcana", Attribute: AttributeIntelligence},
	{Key: "knowledge-religion", Attribute: AttributeIntelligence},
	{Key: "listen", Attribute: AttributeWisdom},
	{Key: "move-silently", Attribute: AttributeDexterity, ArmorCheck: true},
	{Key: "perform", Attribute: AttributeCharisma},
	{Key: "ride", Attribute: AttributeDexterity},
	{Key: "search", Attribute: AttributeIntelligence},
	{Key: "spellcraft", Attribute: AttributeIntelligence},
	{Key: "spot", Attribute: AttributeWisdom},
	{Key: "survival", Attribute: AttributeWisdom},
	{Key: "swim", Attribute: AttributeStrength, ArmorCheck: true},
	{Key: "tumble", Attribute: AttributeDexterity, ArmorCheck: true},
	{Key: "use-magic-device", Attribute: AttributeCharisma},
}

// LookupSkill finds a skill by key
func LookupSkill(key string) (Skill, bool) {
	for _, s := range Skills {
		if s.Key == key {
			return s, true
		}
	}
	return Skill{}, false
}
