package formats

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"outfitmem/outfit"
)

type YimBlendData struct {
	IsParent      Bool    `json:"is_parent"`
	ShapeFirstID  Int     `json:"shape_first_id"`
	ShapeMix      Float32 `json:"shape_mix"`
	ShapeSecondID Int     `json:"shape_second_id"`
	ShapeThirdID  Int     `json:"shape_third_id"`
	SkinFirstID   Int     `json:"skin_first_id"`
	SkinMix       Float32 `json:"skin_mix"`
	SkinSecondID  Int     `json:"skin_second_id"`
	SkinThirdID   Int     `json:"skin_third_id"`
	ThirdMix      Float32 `json:"third_mix"`
}

type YimSlot struct {
	DrawableID Int `json:"drawable_id"`
	TextureID  Int `json:"texture_id"`
}

// YimSlots is keyed by slot number and written in numeric order
type YimSlots map[int]YimSlot

func (s YimSlots) MarshalJSON() ([]byte, error) {
	keys := make([]int, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		v, err := json.Marshal(s[k])
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "%q:", strconv.Itoa(k))
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON skips keys that are not slot numbers
func (s *YimSlots) UnmarshalJSON(data []byte) error {
	var raw map[string]YimSlot
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(YimSlots, len(raw))
	for k, v := range raw {
		slot, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		out[slot] = v
	}
	*s = out
	return nil
}

// YimOutfit is the YimMenu outfit file and the closest schema to the
// canonical model.
type YimOutfit struct {
	BlendData  YimBlendData `json:"blend_data"`
	Components YimSlots     `json:"components"`
	Props      YimSlots     `json:"props"`
	Model      Uint32       `json:"model"`
}

func NewYimOutfit() *YimOutfit {
	b := outfit.DefaultBlendData()
	return &YimOutfit{
		BlendData:  blendToYim(b),
		Components: make(YimSlots),
		Props:      make(YimSlots),
		Model:      Uint32(outfit.ModelFreemodeMale),
	}
}

// DecodeYim reads a YimMenu file. A missing or zero model means the male model.
func DecodeYim(data []byte) (*YimOutfit, error) {
	data, err := Normalize(data)
	if err != nil {
		return nil, err
	}

	y := NewYimOutfit()
	y.Model = 0
	if err := json.Unmarshal(data, y); err != nil {
		return nil, fmt.Errorf("yimmenu: %w", err)
	}
	if y.Components == nil {
		y.Components = make(YimSlots)
	}
	if y.Props == nil {
		y.Props = make(YimSlots)
	}
	if y.Model == 0 {
		y.Model = Uint32(outfit.ModelFreemodeMale)
	}
	return y, nil
}

func (y *YimOutfit) Encode() ([]byte, error) {
	return json.MarshalIndent(y, "", "    ")
}

func blendToYim(b outfit.BlendData) YimBlendData {
	return YimBlendData{
		IsParent:      Bool(b.IsParent),
		ShapeFirstID:  Int(b.ShapeFirstID),
		ShapeMix:      Float32(b.ShapeMix),
		ShapeSecondID: Int(b.ShapeSecondID),
		ShapeThirdID:  Int(b.ShapeThirdID),
		SkinFirstID:   Int(b.SkinFirstID),
		SkinMix:       Float32(b.SkinMix),
		SkinSecondID:  Int(b.SkinSecondID),
		SkinThirdID:   Int(b.SkinThirdID),
		ThirdMix:      Float32(b.ThirdMix),
	}
}

func blendFromYim(y YimBlendData) outfit.BlendData {
	return outfit.BlendData{
		IsParent:      bool(y.IsParent),
		ShapeFirstID:  int(y.ShapeFirstID),
		ShapeSecondID: int(y.ShapeSecondID),
		ShapeThirdID:  int(y.ShapeThirdID),
		ShapeMix:      float32(y.ShapeMix),
		SkinFirstID:   int(y.SkinFirstID),
		SkinSecondID:  int(y.SkinSecondID),
		SkinThirdID:   int(y.SkinThirdID),
		SkinMix:       float32(y.SkinMix),
		ThirdMix:      float32(y.ThirdMix),
	}
}

// YimToCanonical keeps every in-range slot. Palettes are not stored by
// YimMenu and read as 0.
func YimToCanonical(y *YimOutfit) *outfit.Outfit {
	o := outfit.New()
	o.Blend = blendFromYim(y.BlendData)
	o.Model = uint32(y.Model)

	for slot, s := range y.Components {
		if !outfit.ComponentSlot(slot).Valid() {
			continue
		}
		o.Components[slot] = outfit.Component{Drawable: int(s.DrawableID), Texture: int(s.TextureID)}
	}
	for slot, s := range y.Props {
		if !outfit.PropSlot(slot).Valid() {
			continue
		}
		o.Props[slot] = outfit.Prop{Drawable: int(s.DrawableID), Texture: int(s.TextureID)}
	}

	return o
}

func CanonicalToYim(o *outfit.Outfit) *YimOutfit {
	y := NewYimOutfit()
	y.BlendData = blendToYim(o.Blend)
	if o.Model != 0 {
		y.Model = Uint32(o.Model)
	}

	for slot, c := range o.Components {
		if !outfit.ComponentSlot(slot).Valid() {
			continue
		}
		y.Components[slot] = YimSlot{DrawableID: Int(c.Drawable), TextureID: Int(c.Texture)}
	}
	for slot, p := range o.Props {
		if !outfit.PropSlot(slot).Valid() {
			continue
		}
		y.Props[slot] = YimSlot{DrawableID: Int(p.Drawable), TextureID: Int(p.Texture)}
	}

	return y
}
