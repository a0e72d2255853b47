package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// profileFile is the on-disk shape. Every field is optional, present fields
// override Default(). Slot tables are keyed by the slot number as a string;
// an offset of 0 removes that slot's mapping.
type profileFile struct {
	Version                   *int              `toml:"version" yaml:"version"`
	Build                     *string           `toml:"build" yaml:"build"`
	ProcessName               *string           `toml:"process_name" yaml:"process_name"`
	WorldSignature            *string           `toml:"world_signature" yaml:"world_signature"`
	OutfitSignature           *string           `toml:"outfit_signature" yaml:"outfit_signature"`
	RelativeDisplacement      *uint32           `toml:"relative_displacement" yaml:"relative_displacement"`
	RelativeInstructionLength *uint32           `toml:"relative_instruction_length" yaml:"relative_instruction_length"`
	PlayerOffset              *uint32           `toml:"player_offset" yaml:"player_offset"`
	ModelOffset               *uint32           `toml:"model_offset" yaml:"model_offset"`
	TextureOffset             *uint32           `toml:"texture_offset" yaml:"texture_offset"`
	Components                map[string]uint32 `toml:"components" yaml:"components"`
	Props                     map[string]uint32 `toml:"props" yaml:"props"`
	NameChain                 []uint32          `toml:"name_chain" yaml:"name_chain"`
	NameMaxLength             *uint32           `toml:"name_max_length" yaml:"name_max_length"`
}

// Load reads a .toml or .yaml/.yml profile over the built-in defaults and validates the result
func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout %s: %w", path, err)
	}

	var pf profileFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &pf); err != nil {
			return nil, fmt.Errorf("parse layout %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &pf); err != nil {
			return nil, fmt.Errorf("parse layout %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("layout %s: unsupported extension %q", path, ext)
	}

	l := Default()
	if err := pf.apply(l); err != nil {
		return nil, fmt.Errorf("layout %s: %w", path, err)
	}

	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("layout %s: %w", path, err)
	}

	return l, nil
}

func (pf *profileFile) apply(l *Layout) error {
	setInt(&l.Version, pf.Version)
	setString(&l.Build, pf.Build)
	setString(&l.ProcessName, pf.ProcessName)
	setString(&l.WorldSignature, pf.WorldSignature)
	setString(&l.OutfitSignature, pf.OutfitSignature)
	setUint32(&l.RelativeDisplacement, pf.RelativeDisplacement)
	setUint32(&l.RelativeInstructionLength, pf.RelativeInstructionLength)
	setUint32(&l.PlayerOffset, pf.PlayerOffset)
	setUint32(&l.ModelOffset, pf.ModelOffset)
	setUint32(&l.TextureOffset, pf.TextureOffset)
	setUint32(&l.NameMaxLength, pf.NameMaxLength)

	if pf.NameChain != nil {
		l.NameChain = append([]uint32(nil), pf.NameChain...)
	}

	if err := mergeSlots(l.ComponentOffsets, pf.Components); err != nil {
		return fmt.Errorf("components: %w", err)
	}
	if err := mergeSlots(l.PropOffsets, pf.Props); err != nil {
		return fmt.Errorf("props: %w", err)
	}
	return nil
}

func mergeSlots(dst map[int]uint32, src map[string]uint32) error {
	for key, off := range src {
		slot, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return fmt.Errorf("slot %q is not a number", key)
		}
		if off == 0 {
			delete(dst, slot)
			continue
		}
		dst[slot] = off
	}
	return nil
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setUint32(dst *uint32, src *uint32) {
	if src != nil {
		*dst = *src
	}
}
