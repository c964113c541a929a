package shared

import "fmt"

type Attribute string

var Attributes = []Attribute{AttributeStrength, AttributeDexterity, AttributeConstitution, AttributeIntelligence, AttributeWisdom, AttributeCharisma}

const (
	AttributeNone         Attribute = ""
	AttributeStrength     Attribute = "Str"
	AttributeDexterity    Attribute = "Dex"
	AttributeConstitution Attribute = "Con"
	AttributeIntelligence Attribute = "Int"
	AttributeWisdom       Attribute = "Wis"
	AttributeCharisma     Attribute = "Cha"
)

// Valid reports whether the attribute is one of the six named scores
func (a Attribute) Valid() bool {
	for _, attr := range Attributes {
		if a == attr {
			return true
		}
	}
	return false
}

// ParseAttribute accepts either the short key ("Str") or the full name ("strength")
func ParseAttribute(s string) (Attribute, error) {
	switch s {
	case "Str", "str", "STR", "strength", "Strength":
		return AttributeStrength, nil
	case "Dex", "dex", "DEX", "dexterity", "Dexterity":
		return AttributeDexterity, nil
	case "Con", "con", "CON", "constitution", "Constitution":
		return AttributeConstitution, nil
	case "Int", "int", "INT", "intelligence", "Intelligence":
		return AttributeIntelligence, nil
	case "Wis", "wis", "WIS", "wisdom", "Wisdom":
		return AttributeWisdom, nil
	case "Cha", "cha", "CHA", "charisma", "Charisma":
		return AttributeCharisma, nil
	}
	return AttributeNone, fmt.Errorf("unknown attribute %q", s)
}

// AbilityModifier returns floor((score-10)/2)
func AbilityModifier(score int) int {
	d := score - 10
	if d < 0 {
		return (d - 1) / 2
	}
	return d / 2
}

// AbilityScores holds the six authoritative ability scores
type AbilityScores struct {
	Strength     int `json:"str" yaml:"str"`
	Dexterity    int `json:"dex" yaml:"dex"`
	Constitution int `json:"con" yaml:"con"`
	Intelligence int `json:"int" yaml:"int"`
	Wisdom       int `json:"wis" yaml:"wis"`
	Charisma     int `json:"cha" yaml:"cha"`
}

// Get returns the score for an attribute, 0 for AttributeNone
func (s AbilityScores) Get(attr Attribute) int {
	switch attr {
	case AttributeStrength:
		return s.Strength
	case AttributeDexterity:
		return s.Dexterity
	case AttributeConstitution:
		return s.Constitution
	case AttributeIntelligence:
		return s.Intelligence
	case AttributeWisdom:
		return s.Wisdom
	case AttributeCharisma:
		return s.Charisma
	}
	return 0
}

// With returns a copy with one score replaced
func (s AbilityScores) With(attr Attribute, score int) AbilityScores {
	switch attr {
	case AttributeStrength:
		s.Strength = score
	case AttributeDexterity:
		s.Dexterity = score
	case AttributeConstitution:
		s.Constitution = score
	case AttributeIntelligence:
		s.Intelligence = score
	case AttributeWisdom:
		s.Wisdom = score
	case AttributeCharisma:
		s.Charisma = score
	}
	return s
}

// Modifier returns the ability modifier for an attribute
func (s AbilityScores) Modifier(attr Attribute) int {
	return AbilityModifier(s.Get(attr))
}
