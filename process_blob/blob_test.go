package process_blob

import (
	"errors"
	"testing"

	"outfitmem/process"

	"github.com/google/go-cmp/cmp"
)

func TestReadWriteBounds(t *testing.T) {
	blob := NewProcessBlob(0x1000, make([]byte, 16))

	if err := blob.WriteMemory(0x1004, []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("WriteMemory: %v", err)
	}

	got, err := blob.ReadMemory(0x1003, 6)
	if err != nil {
		t.Fatalf("ReadMemory: %v", err)
	}
	if diff := cmp.Diff([]byte{0, 1, 2, 3, 4, 0}, got); diff != "" {
		t.Errorf("ReadMemory mismatch (-want +got):\n%s", diff)
	}

	// returned slices must not alias the blob
	got[1] = 0xFF
	again, _ := blob.ReadMemory(0x1004, 1)
	if again[0] != 1 {
		t.Errorf("ReadMemory result aliases blob storage")
	}

	for _, tc := range []struct {
		addr process.ProcessMemoryAddress
		size process.ProcessMemorySize
	}{
		{0x0fff, 1},
		{0x100f, 2},
		{0x1010, 1},
		{0xFFFFFFFFFFFFFFFF, 2},
	} {
		if _, err := blob.ReadMemory(tc.addr, tc.size); !errors.Is(err, process.ErrAddressNotMapped) {
			t.Errorf("ReadMemory(%s, %d) err = %v, want ErrAddressNotMapped", tc.addr.ToString(), tc.size, err)
		}
	}

	if err := blob.WriteMemory(0x100e, []byte{1, 2, 3}); !errors.Is(err, process.ErrAddressNotMapped) {
		t.Errorf("WriteMemory past end err = %v", err)
	}
}

func TestTypedAccess(t *testing.T) {
	blob := NewProcessBlob(0x2000, make([]byte, 32))

	if err := process.Write[int32](blob, 0x2008, -7); err != nil {
		t.Fatalf("Write: %v", err)
	}
	v, err := process.Read[int32](blob, 0x2008)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if v != -7 {
		t.Errorf("Read = %d, want -7", v)
	}

	if _, err := process.Read[int32](blob, 0); !errors.Is(err, process.ErrInvalidPointer) {
		t.Errorf("Read at 0 err = %v, want ErrInvalidPointer", err)
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	src := NewNamedProcessBlob("GTA5.exe", 0x140000000, []byte{0x48, 0x8B, 0x05, 0x11, 0x22, 0x33, 0x44})

	if err := src.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	mod, err := got.MainModule()
	if err != nil {
		t.Fatalf("MainModule: %v", err)
	}
	want := process.Module{Name: "GTA5.exe", Base: 0x140000000, Size: 7}
	if diff := cmp.Diff(want, mod); diff != "" {
		t.Errorf("MainModule mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(src.Data(), got.Data()); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveModule(t *testing.T) {
	dir := t.TempDir()
	live := NewNamedProcessBlob("GTA5.exe", 0x7000, []byte{1, 2, 3, 4})

	saved, err := SaveModule(live, dir)
	if err != nil {
		t.Fatalf("SaveModule: %v", err)
	}
	if saved.Base() != 0x7000 {
		t.Errorf("Base = %s", saved.Base().ToString())
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff([]byte{1, 2, 3, 4}, loaded.Data()); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyBlobHasNoModule(t *testing.T) {
	if _, err := NewProcessBlob(0, nil).MainModule(); !errors.Is(err, process.ErrNotFound) {
		t.Errorf("MainModule err = %v, want ErrNotFound", err)
	}
}
