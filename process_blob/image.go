package process_blob

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"outfitmem/process"
)

const metadataFile = "metadata.json"

type imageMetadata struct {
	Name string `json:"name"`
	Base uint64 `json:"base"`
	Size uint64 `json:"size"`
}

func blobFilename(base process.ProcessMemoryAddress, size int) string {
	return fmt.Sprintf("blob_0x%x_%d.bin", uint64(base), size)
}

// SaveModule copies the main module of proc into dirname so signatures can
// be tested against it later without the target running.
func SaveModule(proc process.Process, dirname string) (*ProcessBlob, error) {
	mod, err := proc.MainModule()
	if err != nil {
		return nil, err
	}

	data, err := proc.ReadMemory(mod.Base, mod.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", mod.String(), err)
	}

	blob := NewNamedProcessBlob(mod.Name, mod.Base, data)
	if err := blob.Save(dirname); err != nil {
		return nil, err
	}
	return blob, nil
}

// Save writes the metadata and the raw image into dirname
func (p *ProcessBlob) Save(dirname string) error {
	if err := os.MkdirAll(dirname, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dirname, err)
	}

	meta, err := json.MarshalIndent(imageMetadata{
		Name: p.name,
		Base: uint64(p.baseaddress),
		Size: uint64(len(p.data)),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dirname, metadataFile), meta, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	filename := filepath.Join(dirname, blobFilename(p.baseaddress, len(p.data)))
	if err := os.WriteFile(filename, p.data, 0o644); err != nil {
		return fmt.Errorf("failed to write blob %s: %w", filename, err)
	}

	return nil
}

// Load reads an image previously written by Save
func Load(dirname string) (*ProcessBlob, error) {
	metadataBytes, err := os.ReadFile(filepath.Join(dirname, metadataFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	var meta imageMetadata
	if err := json.Unmarshal(metadataBytes, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	base := process.ProcessMemoryAddress(meta.Base)
	filename := filepath.Join(dirname, blobFilename(base, int(meta.Size)))
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", filename, err)
	}

	if uint64(len(data)) != meta.Size {
		return nil, fmt.Errorf("blob %s holds %d bytes, metadata says %d", filename, len(data), meta.Size)
	}

	return NewNamedProcessBlob(meta.Name, base, data), nil
}

// LoadRaw maps a bare file at base, for images captured by other tools
func LoadRaw(path string, base process.ProcessMemoryAddress) (*ProcessBlob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return NewNamedProcessBlob(filepath.Base(path), base, data), nil
}
