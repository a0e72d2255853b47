package formats

import (
	"encoding/json"
	"fmt"
	"sort"

	"outfitmem/outfit"
)

const (
	cheraxFormatTag = "Cherax Entity"
	cheraxType      = 2
	cheraxBaseFlags = 66855
)

type CheraxComponent struct {
	Drawable Int `json:"drawable"`
	Texture  Int `json:"texture"`
	Palette  Int `json:"palette"`
}

type CheraxProp struct {
	Drawable Int `json:"drawable"`
	Texture  Int `json:"texture"`
}

// CheraxOutfit is a Cherax entity file. Names the tables do not know are
// kept in UnknownComponents/UnknownProps so callers can report them; the
// conversion to the canonical model drops them.
type CheraxOutfit struct {
	Format     string                     `json:"format"`
	Type       Int                        `json:"type"`
	Model      Uint32                     `json:"model"`
	BaseFlags  Uint32                     `json:"baseFlags"`
	Components map[string]CheraxComponent `json:"components"`
	Props      map[string]CheraxProp      `json:"props"`

	UnknownComponents []string `json:"-"`
	UnknownProps      []string `json:"-"`
}

func NewCheraxOutfit() *CheraxOutfit {
	return &CheraxOutfit{
		Format:     cheraxFormatTag,
		Type:       cheraxType,
		BaseFlags:  cheraxBaseFlags,
		Components: make(map[string]CheraxComponent),
		Props:      make(map[string]CheraxProp),
	}
}

func DecodeCherax(data []byte) (*CheraxOutfit, error) {
	data, err := Normalize(data)
	if err != nil {
		return nil, err
	}

	c := &CheraxOutfit{}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("cherax: %w", err)
	}
	if c.Components == nil {
		c.Components = make(map[string]CheraxComponent)
	}
	if c.Props == nil {
		c.Props = make(map[string]CheraxProp)
	}

	for name := range c.Components {
		if _, ok := CheraxComponentSlot(name); !ok {
			c.UnknownComponents = append(c.UnknownComponents, name)
		}
	}
	for name := range c.Props {
		if _, ok := CheraxPropSlot(name); !ok {
			c.UnknownProps = append(c.UnknownProps, name)
		}
	}
	sort.Strings(c.UnknownComponents)
	sort.Strings(c.UnknownProps)

	if len(c.UnknownComponents) > 0 || len(c.UnknownProps) > 0 {
		log.Warn("cherax: unrecognized slot names will be dropped: components=", c.UnknownComponents, " props=", c.UnknownProps)
	}

	return c, nil
}

func (c *CheraxOutfit) Encode() ([]byte, error) {
	return json.MarshalIndent(c, "", "    ")
}

func CheraxToCanonical(c *CheraxOutfit) *outfit.Outfit {
	o := outfit.New()
	o.Model = uint32(c.Model)

	for name, comp := range c.Components {
		slot, ok := CheraxComponentSlot(name)
		if !ok {
			continue
		}
		o.Components[slot] = outfit.Component{
			Drawable: int(comp.Drawable),
			Texture:  int(comp.Texture),
			Palette:  int(comp.Palette),
		}
	}

	for name, prop := range c.Props {
		slot, ok := CheraxPropSlot(name)
		if !ok {
			continue
		}
		o.Props[slot] = outfit.Prop{
			Drawable: int(prop.Drawable),
			Texture:  int(prop.Texture),
		}
	}

	return o
}

// CanonicalToCherax writes every slot that has a Cherax name. Props in
// slots 3, 4, 5 and 8 have none and are lost.
func CanonicalToCherax(o *outfit.Outfit) *CheraxOutfit {
	c := NewCheraxOutfit()
	c.Model = Uint32(o.Model)

	for slot, comp := range o.Components {
		name, ok := CheraxComponentName(slot)
		if !ok {
			continue
		}
		c.Components[name] = CheraxComponent{
			Drawable: Int(comp.Drawable),
			Texture:  Int(comp.Texture),
			Palette:  Int(comp.Palette),
		}
	}

	for slot, prop := range o.Props {
		name, ok := CheraxPropName(slot)
		if !ok {
			continue
		}
		c.Props[name] = CheraxProp{
			Drawable: Int(prop.Drawable),
			Texture:  Int(prop.Texture),
		}
	}

	return c
}
