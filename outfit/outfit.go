// Package outfit holds the canonical appearance model every file format and
// the live memory mapper convert to and from.
package outfit

import (
	"errors"
	"fmt"
	"sort"
)

// Known model identities
const (
	ModelFreemodeMale   uint32 = 1885233650
	ModelFreemodeFemale uint32 = 2627665880
)

// Component is one clothing layer. Drawable -1 means the slot is empty.
type Component struct {
	Drawable int
	Texture  int
	Palette  int
}

// Prop is an accessory. (-1, -1) means unworn.
type Prop struct {
	Drawable int
	Texture  int
}

func EmptyProp() Prop {
	return Prop{Drawable: -1, Texture: -1}
}

// BlendData carries head blend parameters. Only the YimMenu schema stores
// them; everything else leaves DefaultBlendData in place.
type BlendData struct {
	IsParent      bool
	ShapeFirstID  int
	ShapeSecondID int
	ShapeThirdID  int
	ShapeMix      float32
	SkinFirstID   int
	SkinSecondID  int
	SkinThirdID   int
	SkinMix       float32
	ThirdMix      float32
}

func DefaultBlendData() BlendData {
	return BlendData{
		SkinFirstID:  31,
		SkinSecondID: 43,
		SkinMix:      0.5,
	}
}

// Outfit is the canonical model. The slot maps are sparse: a missing key is
// unknown, which is not the same as an explicit empty Component or Prop.
type Outfit struct {
	Blend      BlendData
	Components map[int]Component
	Props      map[int]Prop
	Model      uint32
}

func New() *Outfit {
	return &Outfit{
		Blend:      DefaultBlendData(),
		Components: make(map[int]Component),
		Props:      make(map[int]Prop),
	}
}

// Clone returns a deep copy
func (o *Outfit) Clone() *Outfit {
	c := &Outfit{
		Blend:      o.Blend,
		Model:      o.Model,
		Components: make(map[int]Component, len(o.Components)),
		Props:      make(map[int]Prop, len(o.Props)),
	}
	for k, v := range o.Components {
		c.Components[k] = v
	}
	for k, v := range o.Props {
		c.Props[k] = v
	}
	return c
}

func (o *Outfit) Component(slot ComponentSlot) (Component, bool) {
	c, ok := o.Components[int(slot)]
	return c, ok
}

func (o *Outfit) SetComponent(slot ComponentSlot, c Component) {
	if o.Components == nil {
		o.Components = make(map[int]Component)
	}
	o.Components[int(slot)] = c
}

func (o *Outfit) Prop(slot PropSlot) (Prop, bool) {
	p, ok := o.Props[int(slot)]
	return p, ok
}

func (o *Outfit) SetProp(slot PropSlot, p Prop) {
	if o.Props == nil {
		o.Props = make(map[int]Prop)
	}
	o.Props[int(slot)] = p
}

// IsFemale reports whether the model is the female identity. Anything else
// is treated as male.
func (o *Outfit) IsFemale() bool {
	return o.Model == ModelFreemodeFemale
}

// ValidateComponent checks a component against the catalog's magnitude limits
func ValidateComponent(c Component) error {
	if c.Drawable < -1 || c.Drawable >= 1000 {
		return fmt.Errorf("drawable %d outside [-1, 1000)", c.Drawable)
	}
	if c.Texture < 0 || c.Texture >= 100 {
		return fmt.Errorf("texture %d outside [0, 100)", c.Texture)
	}
	return nil
}

// ValidateProp checks a prop against the catalog's magnitude limits
func ValidateProp(p Prop) error {
	if p.Drawable < -1 || p.Drawable >= 500 {
		return fmt.Errorf("drawable %d outside [-1, 500)", p.Drawable)
	}
	if p.Texture < -1 || p.Texture >= 50 {
		return fmt.Errorf("texture %d outside [-1, 50)", p.Texture)
	}
	return nil
}

func ValidateModel(model uint32) error {
	switch model {
	case ModelFreemodeMale, ModelFreemodeFemale:
		return nil
	}
	return fmt.Errorf("unknown model %d", model)
}

// Validate collects every range problem. The result is advisory: writes and
// conversions never call it.
func (o *Outfit) Validate() error {
	var errs []error

	if err := ValidateModel(o.Model); err != nil {
		errs = append(errs, err)
	}

	for _, slot := range sortedSlots(o.Components) {
		if !ComponentSlot(slot).Valid() {
			errs = append(errs, fmt.Errorf("component slot %d out of range", slot))
			continue
		}
		if err := ValidateComponent(o.Components[slot]); err != nil {
			errs = append(errs, fmt.Errorf("component %s: %w", ComponentSlot(slot), err))
		}
	}

	for _, slot := range sortedSlots(o.Props) {
		if !PropSlot(slot).Valid() {
			errs = append(errs, fmt.Errorf("prop slot %d out of range", slot))
			continue
		}
		if err := ValidateProp(o.Props[slot]); err != nil {
			errs = append(errs, fmt.Errorf("prop %s: %w", PropSlot(slot), err))
		}
	}

	return errors.Join(errs...)
}

func sortedSlots[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
