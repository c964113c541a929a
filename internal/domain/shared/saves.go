package shared

type Save string

const (
	SaveFortitude Save = "fortitude"
	SaveReflex    Save = "reflex"
	SaveWill      Save = "will"
)

var Saves = []Save{SaveFortitude, SaveReflex, SaveWill}

// Attribute returns the ability that governs the save
func (s Save) Attribute() Attribute {
	switch s {
	case SaveFortitude:
		return AttributeConstitution
	case SaveReflex:
		return AttributeDexterity
	case SaveWill:
		return AttributeWisdom
	}
	return AttributeNone
}
