package outfit

import "fmt"

// ComponentSlot indexes a clothing layer
type ComponentSlot int

const (
	ComponentHead ComponentSlot = iota
	ComponentBeard
	ComponentHair
	ComponentTorso
	ComponentLegs
	ComponentHands
	ComponentFeet
	ComponentTeeth
	ComponentSpecial
	ComponentSpecial2
	ComponentDecal
	ComponentJacket
)

const NumComponentSlots = 12

var componentSlotNames = [NumComponentSlots]string{
	"head", "beard", "hair", "torso", "legs", "hands",
	"feet", "teeth", "special", "special2", "decal", "jacket",
}

func (s ComponentSlot) Valid() bool {
	return s >= 0 && s < NumComponentSlots
}

func (s ComponentSlot) String() string {
	if !s.Valid() {
		return fmt.Sprintf("component(%d)", int(s))
	}
	return componentSlotNames[s]
}

// PropSlot indexes an attachable accessory
type PropSlot int

const (
	PropHead PropSlot = iota
	PropEyes
	PropEars
	PropMouth
	PropLeftHand
	PropRightHand
	PropLeftWrist
	PropRightWrist
	PropHip
)

const NumPropSlots = 9

var propSlotNames = [NumPropSlots]string{
	"head", "eyes", "ears", "mouth", "left_hand",
	"right_hand", "left_wrist", "right_wrist", "hip",
}

func (s PropSlot) Valid() bool {
	return s >= 0 && s < NumPropSlots
}

func (s PropSlot) String() string {
	if !s.Valid() {
		return fmt.Sprintf("prop(%d)", int(s))
	}
	return propSlotNames[s]
}
