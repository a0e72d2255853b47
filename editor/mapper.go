package editor

import (
	"errors"
	"fmt"
	"math"

	"outfitmem/layout"
	"outfitmem/outfit"
	"outfitmem/process"
)

var (
	// ErrUnmappedSlot is returned by single-slot reads of a slot the layout has no offset for
	ErrUnmappedSlot = errors.New("slot has no mapped offset")

	ErrNameTooLong = errors.New("outfit name too long")

	// ErrValueOutOfRange is returned for drawables or textures that do not fit the int32 fields
	ErrValueOutOfRange = errors.New("value does not fit in int32")
)

// Mapper turns slot numbers into field addresses under the outfit base
type Mapper struct {
	binder *Binder
}

func NewMapper(b *Binder) *Mapper {
	return &Mapper{binder: b}
}

func (m *Mapper) target() (process.Memory, Bases, *layout.Layout, error) {
	bases, err := m.binder.Bases()
	if err != nil {
		return nil, Bases{}, nil, err
	}
	return m.binder.Process(), bases, m.binder.Layout(), nil
}

func readPair(mem process.Memory, addr, textureOffset process.ProcessMemoryAddress) (int, int, error) {
	drawable, err := process.Read[int32](mem, addr)
	if err != nil {
		return 0, 0, fmt.Errorf("drawable at %s: %w", addr.ToString(), err)
	}
	texture, err := process.Read[int32](mem, addr+textureOffset)
	if err != nil {
		return 0, 0, fmt.Errorf("texture at %s: %w", (addr + textureOffset).ToString(), err)
	}
	return int(drawable), int(texture), nil
}

func writePair(mem process.Memory, addr, textureOffset process.ProcessMemoryAddress, drawable, texture int) error {
	for _, v := range [...]int{drawable, texture} {
		if v < math.MinInt32 || v > math.MaxInt32 {
			return fmt.Errorf("%d: %w", v, ErrValueOutOfRange)
		}
	}
	if err := process.Write(mem, addr, int32(drawable)); err != nil {
		return fmt.Errorf("drawable at %s: %w", addr.ToString(), err)
	}
	if err := process.Write(mem, addr+textureOffset, int32(texture)); err != nil {
		return fmt.Errorf("texture at %s: %w", (addr + textureOffset).ToString(), err)
	}
	return nil
}

// ReadComponent reads one component slot. The palette is not stored in
// memory and reads as 0.
func (m *Mapper) ReadComponent(slot outfit.ComponentSlot) (outfit.Component, error) {
	mem, bases, l, err := m.target()
	if err != nil {
		return outfit.Component{}, err
	}

	off, ok := l.ComponentOffset(int(slot))
	if !ok {
		return outfit.Component{}, fmt.Errorf("component %s: %w", slot, ErrUnmappedSlot)
	}

	d, t, err := readPair(mem, bases.Outfit+process.ProcessMemoryAddress(off), process.ProcessMemoryAddress(l.TextureOffset))
	if err != nil {
		return outfit.Component{}, fmt.Errorf("component %s: %w", slot, err)
	}
	return outfit.Component{Drawable: d, Texture: t}, nil
}

// WriteComponent writes one component slot. Unmapped slots are skipped without error.
func (m *Mapper) WriteComponent(slot outfit.ComponentSlot, c outfit.Component) error {
	mem, bases, l, err := m.target()
	if err != nil {
		return err
	}

	off, ok := l.ComponentOffset(int(slot))
	if !ok {
		return nil
	}

	if err := writePair(mem, bases.Outfit+process.ProcessMemoryAddress(off), process.ProcessMemoryAddress(l.TextureOffset), c.Drawable, c.Texture); err != nil {
		return fmt.Errorf("component %s: %w", slot, err)
	}
	return nil
}

func (m *Mapper) ReadProp(slot outfit.PropSlot) (outfit.Prop, error) {
	mem, bases, l, err := m.target()
	if err != nil {
		return outfit.Prop{}, err
	}

	off, ok := l.PropOffset(int(slot))
	if !ok {
		return outfit.Prop{}, fmt.Errorf("prop %s: %w", slot, ErrUnmappedSlot)
	}

	d, t, err := readPair(mem, bases.Outfit+process.ProcessMemoryAddress(off), process.ProcessMemoryAddress(l.TextureOffset))
	if err != nil {
		return outfit.Prop{}, fmt.Errorf("prop %s: %w", slot, err)
	}
	return outfit.Prop{Drawable: d, Texture: t}, nil
}

// WriteProp writes one prop slot. Unmapped slots are skipped without error.
func (m *Mapper) WriteProp(slot outfit.PropSlot, p outfit.Prop) error {
	mem, bases, l, err := m.target()
	if err != nil {
		return err
	}

	off, ok := l.PropOffset(int(slot))
	if !ok {
		return nil
	}

	if err := writePair(mem, bases.Outfit+process.ProcessMemoryAddress(off), process.ProcessMemoryAddress(l.TextureOffset), p.Drawable, p.Texture); err != nil {
		return fmt.Errorf("prop %s: %w", slot, err)
	}
	return nil
}

// ReadOutfit reads the model, then components 0..11, then props 0..8, and
// stops at the first failure. Unmapped components stay unset; unmapped
// props are reported as unworn.
func (m *Mapper) ReadOutfit() (*outfit.Outfit, error) {
	if _, _, _, err := m.target(); err != nil {
		return nil, err
	}

	o := outfit.New()

	model, err := m.Model()
	if err != nil {
		return nil, err
	}
	o.Model = model

	for slot := outfit.ComponentSlot(0); slot < outfit.NumComponentSlots; slot++ {
		c, err := m.ReadComponent(slot)
		if errors.Is(err, ErrUnmappedSlot) {
			continue
		}
		if err != nil {
			return nil, err
		}
		o.Components[int(slot)] = c
	}

	for slot := outfit.PropSlot(0); slot < outfit.NumPropSlots; slot++ {
		p, err := m.ReadProp(slot)
		if errors.Is(err, ErrUnmappedSlot) {
			o.Props[int(slot)] = outfit.EmptyProp()
			continue
		}
		if err != nil {
			return nil, err
		}
		o.Props[int(slot)] = p
	}

	return o, nil
}

// WriteOutfit writes the slots present in o, components 0..11 then props
// 0..8. The first failure stops the sequence and slots already written
// stay written: there is no rollback. The model is not touched.
func (m *Mapper) WriteOutfit(o *outfit.Outfit) error {
	if _, _, _, err := m.target(); err != nil {
		return err
	}

	for slot := outfit.ComponentSlot(0); slot < outfit.NumComponentSlots; slot++ {
		c, ok := o.Component(slot)
		if !ok {
			continue
		}
		if err := m.WriteComponent(slot, c); err != nil {
			return err
		}
	}

	for slot := outfit.PropSlot(0); slot < outfit.NumPropSlots; slot++ {
		p, ok := o.Prop(slot)
		if !ok {
			continue
		}
		if err := m.WriteProp(slot, p); err != nil {
			return err
		}
	}

	return nil
}

func (m *Mapper) modelAddress() (process.Memory, process.ProcessMemoryAddress, error) {
	mem, bases, l, err := m.target()
	if err != nil {
		return nil, 0, err
	}

	addr, err := process.ResolvePointerChain(mem, bases.World+process.ProcessMemoryAddress(l.PlayerOffset), process.ProcessMemorySize(l.ModelOffset))
	if err != nil {
		return nil, 0, fmt.Errorf("player: %w", err)
	}
	return mem, addr, nil
}

// Model reads the player's model hash through the world root
func (m *Mapper) Model() (uint32, error) {
	mem, addr, err := m.modelAddress()
	if err != nil {
		return 0, err
	}

	model, err := process.Read[uint32](mem, addr)
	if err != nil {
		return 0, fmt.Errorf("model at %s: %w", addr.ToString(), err)
	}
	return model, nil
}

func (m *Mapper) SetModel(hash uint32) error {
	mem, addr, err := m.modelAddress()
	if err != nil {
		return err
	}

	if err := process.Write(mem, addr, hash); err != nil {
		return fmt.Errorf("model at %s: %w", addr.ToString(), err)
	}
	return nil
}

func (m *Mapper) nameAddress() (process.Memory, process.ProcessMemoryAddress, *layout.Layout, error) {
	mem, bases, l, err := m.target()
	if err != nil {
		return nil, 0, nil, err
	}

	offsets := make([]process.ProcessMemorySize, len(l.NameChain))
	for i, off := range l.NameChain {
		offsets[i] = process.ProcessMemorySize(off)
	}

	addr, err := process.ResolvePointerChain(mem, bases.Outfit, offsets...)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("outfit name: %w", err)
	}
	return mem, addr, l, nil
}

// OutfitName reads the NUL-terminated outfit name, at most NameMaxLength bytes
func (m *Mapper) OutfitName() (string, error) {
	mem, addr, l, err := m.nameAddress()
	if err != nil {
		return "", err
	}

	name, err := process.ReadNTS(mem, addr, process.ProcessMemorySize(l.NameMaxLength))
	if err != nil {
		return "", fmt.Errorf("outfit name at %s: %w", addr.ToString(), err)
	}
	return name, nil
}

func (m *Mapper) SetOutfitName(name string) error {
	if _, _, l, err := m.target(); err != nil {
		return err
	} else if len(name) > int(l.NameMaxLength) {
		return fmt.Errorf("%d bytes, limit %d: %w", len(name), l.NameMaxLength, ErrNameTooLong)
	}

	mem, addr, _, err := m.nameAddress()
	if err != nil {
		return err
	}

	if err := process.WriteNTS(mem, addr, name); err != nil {
		return fmt.Errorf("outfit name at %s: %w", addr.ToString(), err)
	}
	return nil
}
