// Package layout describes where the outfit data lives inside one build of
// the target: the process name, the two signatures and every field offset.
// Retargeting to a new build means shipping a new profile, not new code.
package layout

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"outfitmem/outfit"
)

// Layout is a versioned memory layout profile
type Layout struct {
	Version     int
	Build       string
	ProcessName string

	WorldSignature  string
	OutfitSignature string

	// RIP-relative operand position and total instruction length shared by both signatures
	RelativeDisplacement      uint32
	RelativeInstructionLength uint32

	// worldBase + PlayerOffset holds the player pointer, the model hash is at player + ModelOffset
	PlayerOffset uint32
	ModelOffset  uint32

	// distance from a drawable field to its texture field
	TextureOffset uint32

	ComponentOffsets map[int]uint32
	PropOffsets      map[int]uint32

	NameChain     []uint32
	NameMaxLength uint32
}

const (
	DefaultProcessName     = "GTA5.exe"
	DefaultWorldSignature  = "48 8B 05 ? ? ? ? 45 0F C6 C0"
	DefaultOutfitSignature = "48 8D 3D ? ? ? ? 80 3E 00 0F 84 ? ? ? ?"
)

// Default returns the built-in profile
func Default() *Layout {
	return &Layout{
		Version:                   1,
		Build:                     "default",
		ProcessName:               DefaultProcessName,
		WorldSignature:            DefaultWorldSignature,
		OutfitSignature:           DefaultOutfitSignature,
		RelativeDisplacement:      3,
		RelativeInstructionLength: 7,
		PlayerOffset:              0x08,
		ModelOffset:               0x20,
		TextureOffset:             0x890,
		ComponentOffsets: map[int]uint32{
			int(outfit.ComponentHead):     0x3F40,
			int(outfit.ComponentHair):     0x3F48,
			int(outfit.ComponentTorso):    0x3F90,
			int(outfit.ComponentLegs):     0x3F58,
			int(outfit.ComponentHands):    0x3F50,
			int(outfit.ComponentFeet):     0x3F68,
			int(outfit.ComponentSpecial):  0x3F78,
			int(outfit.ComponentSpecial2): 0x3F80,
			int(outfit.ComponentDecal):    0x3F88,
		},
		PropOffsets: map[int]uint32{
			int(outfit.PropHead):       0x5058,
			int(outfit.PropEyes):       0x5060,
			int(outfit.PropEars):       0x5068,
			int(outfit.PropLeftWrist):  0x5088,
			int(outfit.PropRightWrist): 0x5090,
		},
		NameChain:     []uint32{0x8, 0x10A8, 0xFC},
		NameMaxLength: 255,
	}
}

// ComponentOffset returns the drawable field offset of a component slot
func (l *Layout) ComponentOffset(slot int) (uint32, bool) {
	off, ok := l.ComponentOffsets[slot]
	return off, ok
}

// PropOffset returns the drawable field offset of a prop slot
func (l *Layout) PropOffset(slot int) (uint32, bool) {
	off, ok := l.PropOffsets[slot]
	return off, ok
}

func (l *Layout) Clone() *Layout {
	c := *l
	c.ComponentOffsets = make(map[int]uint32, len(l.ComponentOffsets))
	for k, v := range l.ComponentOffsets {
		c.ComponentOffsets[k] = v
	}
	c.PropOffsets = make(map[int]uint32, len(l.PropOffsets))
	for k, v := range l.PropOffsets {
		c.PropOffsets[k] = v
	}
	c.NameChain = append([]uint32(nil), l.NameChain...)
	return &c
}

// Validate reports every problem with the profile at once
func (l *Layout) Validate() error {
	var errs []error

	if strings.TrimSpace(l.ProcessName) == "" {
		errs = append(errs, errors.New("process name is empty"))
	}
	if !hasFixedByte(l.WorldSignature) {
		errs = append(errs, errors.New("world signature has no fixed bytes"))
	}
	if !hasFixedByte(l.OutfitSignature) {
		errs = append(errs, errors.New("outfit signature has no fixed bytes"))
	}
	if l.RelativeInstructionLength < l.RelativeDisplacement+4 {
		errs = append(errs, fmt.Errorf("instruction length %d cannot hold a displacement at %d",
			l.RelativeInstructionLength, l.RelativeDisplacement))
	}
	if l.TextureOffset == 0 {
		errs = append(errs, errors.New("texture offset is zero"))
	}
	if l.NameMaxLength == 0 {
		errs = append(errs, errors.New("name max length is zero"))
	}

	for _, slot := range sortedKeys(l.ComponentOffsets) {
		if !outfit.ComponentSlot(slot).Valid() {
			errs = append(errs, fmt.Errorf("component slot %d out of range", slot))
		}
	}
	for _, slot := range sortedKeys(l.PropOffsets) {
		if !outfit.PropSlot(slot).Valid() {
			errs = append(errs, fmt.Errorf("prop slot %d out of range", slot))
		}
	}

	return errors.Join(errs...)
}

func hasFixedByte(sig string) bool {
	for _, tok := range strings.Fields(sig) {
		if tok != "?" && tok != "??" {
			return true
		}
	}
	return false
}

func sortedKeys(m map[int]uint32) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
