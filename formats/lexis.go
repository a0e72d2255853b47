package formats

import (
	"bytes"
	"encoding/json"
	"fmt"

	"outfitmem/outfit"
)

// LexisOutfit holds parallel arrays indexed by slot
type LexisOutfit struct {
	Component          []Int  `json:"component"`
	ComponentVariation []Int  `json:"component variation"`
	Model              Uint32 `json:"model"`
	Prop               []Int  `json:"prop"`
	PropVariation      []Int  `json:"prop variation"`
}

type lexisFile struct {
	Outfit *LexisOutfit `json:"outfit"`
}

func NewLexisOutfit() *LexisOutfit {
	l := &LexisOutfit{}
	l.fit()
	return l
}

// fit pads short arrays (components with 0, props with -1) and truncates long ones
func (l *LexisOutfit) fit() {
	l.Component = fitInts(l.Component, outfit.NumComponentSlots, 0)
	l.ComponentVariation = fitInts(l.ComponentVariation, outfit.NumComponentSlots, 0)
	l.Prop = fitInts(l.Prop, outfit.NumPropSlots, -1)
	l.PropVariation = fitInts(l.PropVariation, outfit.NumPropSlots, -1)
}

func fitInts(in []Int, n int, pad Int) []Int {
	out := make([]Int, n)
	for i := range out {
		if i < len(in) {
			out[i] = in[i]
		} else {
			out[i] = pad
		}
	}
	return out
}

// DecodeLexis accepts the body wrapped in {"outfit": ...} or bare
func DecodeLexis(data []byte) (*LexisOutfit, error) {
	data, err := Normalize(data)
	if err != nil {
		return nil, err
	}

	var wrapped struct {
		Outfit json.RawMessage `json:"outfit"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("lexis: %w", err)
	}

	body := data
	if len(wrapped.Outfit) > 0 && !bytes.Equal(bytes.TrimSpace(wrapped.Outfit), []byte("null")) {
		body = wrapped.Outfit
	}

	l := &LexisOutfit{}
	if err := json.Unmarshal(body, l); err != nil {
		return nil, fmt.Errorf("lexis: %w", err)
	}
	l.fit()
	return l, nil
}

func (l *LexisOutfit) Encode() ([]byte, error) {
	l.fit()
	return json.MarshalIndent(lexisFile{Outfit: l}, "", "    ")
}

// LexisToCanonical fills every slot. Lexis has no palette, it reads as 0.
func LexisToCanonical(l *LexisOutfit) *outfit.Outfit {
	l.fit()
	o := outfit.New()
	o.Model = uint32(l.Model)

	for i := 0; i < outfit.NumComponentSlots; i++ {
		o.Components[i] = outfit.Component{Drawable: int(l.Component[i]), Texture: int(l.ComponentVariation[i])}
	}
	for i := 0; i < outfit.NumPropSlots; i++ {
		o.Props[i] = outfit.Prop{Drawable: int(l.Prop[i]), Texture: int(l.PropVariation[i])}
	}

	return o
}

func CanonicalToLexis(o *outfit.Outfit) *LexisOutfit {
	l := NewLexisOutfit()
	l.Model = Uint32(o.Model)

	for slot, c := range o.Components {
		if !outfit.ComponentSlot(slot).Valid() {
			continue
		}
		l.Component[slot] = Int(c.Drawable)
		l.ComponentVariation[slot] = Int(c.Texture)
	}
	for slot, p := range o.Props {
		if !outfit.PropSlot(slot).Valid() {
			continue
		}
		l.Prop[slot] = Int(p.Drawable)
		l.PropVariation[slot] = Int(p.Texture)
	}

	return l
}
