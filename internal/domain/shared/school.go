package shared

type School string

const (
	SchoolAbjuration    School = "abjuration"
	SchoolConjuration   School = "conjuration"
	SchoolDivination    School = "divination"
	SchoolEnchantment   School = "enchantment"
	SchoolEvocation     School = "evocation"
	SchoolIllusion      School = "illusion"
	SchoolNecromancy    School = "necromancy"
	SchoolTransmutation School = "transmutation"
)

var Schools = []School{
	SchoolAbjuration, SchoolConjuration, SchoolDivination, SchoolEnchantment,
	SchoolEvocation, SchoolIllusion, SchoolNecromancy, SchoolTransmutation,
}
