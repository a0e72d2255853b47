package formats

import "outfitmem/outfit"

// Cherax keys components and props by display name
var cheraxComponentNames = [outfit.NumComponentSlots]string{
	"Head",
	"Beard",
	"Hair",
	"Torso",
	"Legs",
	"Hands",
	"Feet",
	"Teeth",
	"Special",
	"Special 2",
	"Decal",
	"Tuxedo/Jacket Bib",
}

var cheraxPropNames = map[int]string{
	int(outfit.PropHead):       "Hat",
	int(outfit.PropEyes):       "Glasses",
	int(outfit.PropEars):       "Earwear",
	int(outfit.PropLeftWrist):  "Watch",
	int(outfit.PropRightWrist): "Bracelet",
}

var (
	cheraxComponentSlots = map[string]int{}
	cheraxPropSlots      = map[string]int{}
)

func init() {
	for slot, name := range cheraxComponentNames {
		cheraxComponentSlots[name] = slot
	}
	for slot, name := range cheraxPropNames {
		cheraxPropSlots[name] = slot
	}
}

// CheraxComponentName returns the Cherax name of a component slot
func CheraxComponentName(slot int) (string, bool) {
	if !outfit.ComponentSlot(slot).Valid() {
		return "", false
	}
	return cheraxComponentNames[slot], true
}

func CheraxComponentSlot(name string) (int, bool) {
	slot, ok := cheraxComponentSlots[name]
	return slot, ok
}

// CheraxPropName returns the Cherax name of a prop slot; only five slots have one
func CheraxPropName(slot int) (string, bool) {
	name, ok := cheraxPropNames[slot]
	return name, ok
}

func CheraxPropSlot(name string) (int, bool) {
	slot, ok := cheraxPropSlots[name]
	return slot, ok
}

const (
	ModelNameMale   = "Online Male"
	ModelNameFemale = "Online Female"
)

// ModelNameToHash maps a Stand model name; unrecognized names become the male model
func ModelNameToHash(name string) uint32 {
	if name == ModelNameFemale {
		return outfit.ModelFreemodeFemale
	}
	return outfit.ModelFreemodeMale
}

// ModelHashToName is the inverse; unrecognized hashes become the male name
func ModelHashToName(hash uint32) string {
	if hash == outfit.ModelFreemodeFemale {
		return ModelNameFemale
	}
	return ModelNameMale
}
