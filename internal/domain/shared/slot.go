package shared

type Slot string

const (
	SlotNone      Slot = ""
	SlotHead      Slot = "head"
	SlotEyes      Slot = "eyes"
	SlotNeck      Slot = "neck"
	SlotShoulders Slot = "shoulders"
	SlotBody      Slot = "body"
	SlotArms      Slot = "arms"
	SlotHands     Slot = "hands"
	SlotRing      Slot = "ring"
	SlotWaist     Slot = "waist"
	SlotFeet      Slot = "feet"
	SlotMainHand  Slot = "main-hand"
	SlotOffHand   Slot = "off-hand"
)

// RingCapacity is how many rings may be worn at once
const RingCapacity = 2

var Slots = []Slot{
	SlotHead, SlotEyes, SlotNeck, SlotShoulders, SlotBody, SlotArms,
	SlotHands, SlotRing, SlotWaist, SlotFeet, SlotMainHand, SlotOffHand,
}

// Capacity returns how many items the slot holds at once
func (s Slot) Capacity() int {
	switch s {
	case SlotNone:
		return 0
	case SlotRing:
		return RingCapacity
	}
	for _, known := range Slots {
		if s == known {
			return 1
		}
	}
	return 0
}
