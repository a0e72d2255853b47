package formats

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"outfitmem/outfit"
)

// StandOutfit is Stand's "Key: Value" text outfit
type StandOutfit struct {
	ModelName string

	Head, HeadVariation                   int
	Mask, MaskVariation                   int
	Hair, HairColour, HairColourHighlight int
	Top, TopVariation                     int
	GlovesTorso, GlovesTorsoVariation     int
	Top2, Top2Variation                   int
	Top3, Top3Variation                   int
	ParachuteBag, ParachuteBagVariation   int
	Pants, PantsVariation                 int
	Shoes, ShoesVariation                 int
	Accessories, AccessoriesVariation     int
	Decals, DecalsVariation               int
	Hat, HatVariation                     int
	Glasses, GlassesVariation             int
	Earwear, EarwearVariation             int
	Watch, WatchVariation                 int
	Bracelet, BraceletVariation           int
}

const standModelKey = "Model"

// standKeys is the file order; the highlight key carries an escaped colon
var standKeys = []struct {
	key   string
	field func(*StandOutfit) *int
}{
	{"Head", func(s *StandOutfit) *int { return &s.Head }},
	{"Head Variation", func(s *StandOutfit) *int { return &s.HeadVariation }},
	{"Mask", func(s *StandOutfit) *int { return &s.Mask }},
	{"Mask Variation", func(s *StandOutfit) *int { return &s.MaskVariation }},
	{"Hair", func(s *StandOutfit) *int { return &s.Hair }},
	{"Hair Colour", func(s *StandOutfit) *int { return &s.HairColour }},
	{`Hair Colour\: Highlight`, func(s *StandOutfit) *int { return &s.HairColourHighlight }},
	{"Top", func(s *StandOutfit) *int { return &s.Top }},
	{"Top Variation", func(s *StandOutfit) *int { return &s.TopVariation }},
	{"Gloves / Torso", func(s *StandOutfit) *int { return &s.GlovesTorso }},
	{"Gloves / Torso Variation", func(s *StandOutfit) *int { return &s.GlovesTorsoVariation }},
	{"Top 2", func(s *StandOutfit) *int { return &s.Top2 }},
	{"Top 2 Variation", func(s *StandOutfit) *int { return &s.Top2Variation }},
	{"Top 3", func(s *StandOutfit) *int { return &s.Top3 }},
	{"Top 3 Variation", func(s *StandOutfit) *int { return &s.Top3Variation }},
	{"Parachute / Bag", func(s *StandOutfit) *int { return &s.ParachuteBag }},
	{"Parachute / Bag Variation", func(s *StandOutfit) *int { return &s.ParachuteBagVariation }},
	{"Pants", func(s *StandOutfit) *int { return &s.Pants }},
	{"Pants Variation", func(s *StandOutfit) *int { return &s.PantsVariation }},
	{"Shoes", func(s *StandOutfit) *int { return &s.Shoes }},
	{"Shoes Variation", func(s *StandOutfit) *int { return &s.ShoesVariation }},
	{"Accessories", func(s *StandOutfit) *int { return &s.Accessories }},
	{"Accessories Variation", func(s *StandOutfit) *int { return &s.AccessoriesVariation }},
	{"Decals", func(s *StandOutfit) *int { return &s.Decals }},
	{"Decals Variation", func(s *StandOutfit) *int { return &s.DecalsVariation }},
	{"Hat", func(s *StandOutfit) *int { return &s.Hat }},
	{"Hat Variation", func(s *StandOutfit) *int { return &s.HatVariation }},
	{"Glasses", func(s *StandOutfit) *int { return &s.Glasses }},
	{"Glasses Variation", func(s *StandOutfit) *int { return &s.GlassesVariation }},
	{"Earwear", func(s *StandOutfit) *int { return &s.Earwear }},
	{"Earwear Variation", func(s *StandOutfit) *int { return &s.EarwearVariation }},
	{"Watch", func(s *StandOutfit) *int { return &s.Watch }},
	{"Watch Variation", func(s *StandOutfit) *int { return &s.WatchVariation }},
	{"Bracelet", func(s *StandOutfit) *int { return &s.Bracelet }},
	{"Bracelet Variation", func(s *StandOutfit) *int { return &s.BraceletVariation }},
}

var standKeyIndex = func() map[string]int {
	m := make(map[string]int, len(standKeys))
	for i, k := range standKeys {
		m[k.key] = i
	}
	return m
}()

// StandKeys returns every key a Stand file can hold, Model first
func StandKeys() []string {
	out := make([]string, 0, len(standKeys)+1)
	out = append(out, standModelKey)
	for _, k := range standKeys {
		out = append(out, k.key)
	}
	return out
}

// NewStandOutfit returns Stand's defaults: female model, nothing worn on
// the accessory and prop slots.
func NewStandOutfit() *StandOutfit {
	return &StandOutfit{
		ModelName:        ModelNameFemale,
		Accessories:      -1,
		Hat:              -1,
		HatVariation:     -1,
		Glasses:          -1,
		GlassesVariation: -1,
		Earwear:          -1,
		EarwearVariation: -1,
		Watch:            -1,
		Bracelet:         -1,
	}
}

// splitStandLine splits at the first colon not escaped by a backslash
func splitStandLine(line string) (key, value string, ok bool) {
	for i := 0; i < len(line); i++ {
		if line[i] == ':' && (i == 0 || line[i-1] != '\\') {
			return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:]), true
		}
	}
	return "", "", false
}

// DecodeStand parses the text format. Unknown keys are ignored and values
// that are not integers read as 0.
func DecodeStand(data []byte) (*StandOutfit, error) {
	data, err := Normalize(data)
	if err != nil {
		return nil, err
	}

	s := NewStandOutfit()
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		key, value, ok := splitStandLine(scanner.Text())
		if !ok {
			continue
		}

		if key == standModelKey {
			s.ModelName = value
			continue
		}

		if i, ok := standKeyIndex[key]; ok {
			*standKeys[i].field(s) = parseStandInt(value)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("stand: %w", err)
	}
	return s, nil
}

func (s *StandOutfit) Encode() ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s: %s\n", standModelKey, s.ModelName)
	for _, k := range standKeys {
		fmt.Fprintf(&buf, "%s: %d\n", k.key, *k.field(s))
	}
	return buf.Bytes(), nil
}

// standSlot ties a drawable/texture key pair to a canonical slot
type standSlot struct {
	slot              int
	drawable, texture func(*StandOutfit) *int
}

var standComponents = []standSlot{
	{int(outfit.ComponentHead), func(s *StandOutfit) *int { return &s.Head }, func(s *StandOutfit) *int { return &s.HeadVariation }},
	{int(outfit.ComponentBeard), func(s *StandOutfit) *int { return &s.Mask }, func(s *StandOutfit) *int { return &s.MaskVariation }},
	{int(outfit.ComponentHair), func(s *StandOutfit) *int { return &s.Hair }, nil},
	{int(outfit.ComponentTorso), func(s *StandOutfit) *int { return &s.GlovesTorso }, func(s *StandOutfit) *int { return &s.GlovesTorsoVariation }},
	{int(outfit.ComponentLegs), func(s *StandOutfit) *int { return &s.Pants }, func(s *StandOutfit) *int { return &s.PantsVariation }},
	{int(outfit.ComponentFeet), func(s *StandOutfit) *int { return &s.Shoes }, func(s *StandOutfit) *int { return &s.ShoesVariation }},
	{int(outfit.ComponentSpecial), func(s *StandOutfit) *int { return &s.Top }, func(s *StandOutfit) *int { return &s.TopVariation }},
	{int(outfit.ComponentSpecial2), func(s *StandOutfit) *int { return &s.Top2 }, func(s *StandOutfit) *int { return &s.Top2Variation }},
	{int(outfit.ComponentDecal), func(s *StandOutfit) *int { return &s.Decals }, func(s *StandOutfit) *int { return &s.DecalsVariation }},
}

var standProps = []standSlot{
	{int(outfit.PropHead), func(s *StandOutfit) *int { return &s.Hat }, func(s *StandOutfit) *int { return &s.HatVariation }},
	{int(outfit.PropEyes), func(s *StandOutfit) *int { return &s.Glasses }, func(s *StandOutfit) *int { return &s.GlassesVariation }},
	{int(outfit.PropEars), func(s *StandOutfit) *int { return &s.Earwear }, func(s *StandOutfit) *int { return &s.EarwearVariation }},
	{int(outfit.PropLeftWrist), func(s *StandOutfit) *int { return &s.Watch }, func(s *StandOutfit) *int { return &s.WatchVariation }},
	{int(outfit.PropRightWrist), func(s *StandOutfit) *int { return &s.Bracelet }, func(s *StandOutfit) *int { return &s.BraceletVariation }},
}

// StandToCanonical maps the nine component and five prop pairs Stand shares
// with the canonical model. Top 3, Parachute / Bag, Accessories and the hair
// colours have no slot.
func StandToCanonical(s *StandOutfit) *outfit.Outfit {
	o := outfit.New()
	o.Model = ModelNameToHash(s.ModelName)

	for _, m := range standComponents {
		c := outfit.Component{Drawable: *m.drawable(s)}
		if m.texture != nil {
			c.Texture = *m.texture(s)
		}
		o.Components[m.slot] = c
	}
	for _, m := range standProps {
		o.Props[m.slot] = outfit.Prop{Drawable: *m.drawable(s), Texture: *m.texture(s)}
	}

	return o
}

// CanonicalToStand fills mapped slots present in o and leaves Stand's
// defaults everywhere else. Hair keeps only its drawable.
func CanonicalToStand(o *outfit.Outfit) *StandOutfit {
	s := NewStandOutfit()
	s.ModelName = ModelHashToName(o.Model)

	for _, m := range standComponents {
		c, ok := o.Components[m.slot]
		if !ok {
			continue
		}
		*m.drawable(s) = c.Drawable
		if m.texture != nil {
			*m.texture(s) = c.Texture
		}
	}
	for _, m := range standProps {
		p, ok := o.Props[m.slot]
		if !ok {
			continue
		}
		*m.drawable(s) = p.Drawable
		*m.texture(s) = p.Texture
	}

	return s
}
