package search

import (
	"errors"
	"testing"

	"outfitmem/process"
	"outfitmem/process_blob"

	"github.com/google/go-cmp/cmp"
)

func anyPointer(process.ProcessMemoryAddress) bool { return true }

func TestSearchFindsNestedValue(t *testing.T) {
	const base = process.ProcessMemoryAddress(0x10000)
	blob := process_blob.NewProcessBlob(base, make([]byte, 0x400))

	// base+0x08 -> A, A+0x10 -> B, B+0x2C holds the value
	a := base + 0x100
	b := base + 0x200
	must(t, process.Write(blob, base+0x08, uint64(a)))
	must(t, process.Write(blob, a+0x10, uint64(b)))
	must(t, process.Write(blob, b+0x2C, uint32(1885233650)))

	results, err := Search(blob, base,
		WithSearchForType(uint32(1885233650)),
		WithMaxStructSize(0x40),
		WithPointerFilter(anyPointer),
	)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	want := []SearchResult{{Path: []process.ProcessMemorySize{0x08, 0x10, 0x2C}}}
	if diff := cmp.Diff(want, results); diff != "" {
		t.Errorf("Search mismatch (-want +got):\n%s", diff)
	}

	if _, ok := results[0].Chain(); ok {
		t.Error("path starting at +0x8 converted to a chain")
	}
	if _, err := results[0].Resolve(blob, base); !errors.Is(err, ErrNotChain) {
		t.Errorf("Resolve err = %v, want ErrNotChain", err)
	}

	if s := results[0].String(); s != "+0x8 -> +0x10 -> +0x2C" {
		t.Errorf("String() = %q", s)
	}
}

func TestSearchResultChain(t *testing.T) {
	const base = process.ProcessMemoryAddress(0x10000)
	blob := process_blob.NewProcessBlob(base, make([]byte, 0x5000))

	// *base = A, *(A+0x8) = B, *(B+0x10A8) = C, name at C+0xFC
	a := base + 0x400
	b := base + 0x800
	c := base + 0x3000
	must(t, process.Write(blob, base, uint64(a)))
	must(t, process.Write(blob, a+0x8, uint64(b)))
	must(t, process.Write(blob, b+0x10A8, uint64(c)))
	must(t, process.WriteNTS(blob, c+0xFC, "Casino Heist"))

	results, err := Search(blob, base,
		WithSearchForString("Casino Heist"),
		WithMaxStructSize(0x1200),
		WithMinAlignment(4),
		WithPointerFilter(anyPointer),
	)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1: %v", len(results), results)
	}

	chain, ok := results[0].Chain()
	if !ok {
		t.Fatalf("path %s did not convert", results[0].String())
	}
	want := []process.ProcessMemorySize{0x8, 0x10A8, 0xFC}
	if diff := cmp.Diff(want, chain); diff != "" {
		t.Errorf("Chain mismatch (-want +got):\n%s", diff)
	}
	if s := results[0].ChainString(); s != "[0x8, 0x10A8, 0xFC]" {
		t.Errorf("ChainString() = %q", s)
	}

	addr, err := results[0].Resolve(blob, base)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if addr != c+0xFC {
		t.Errorf("Resolve = %s, want %s", addr.ToString(), (c + 0xFC).ToString())
	}
	if name, err := process.ReadNTS(blob, addr, 32); err != nil || name != "Casino Heist" {
		t.Errorf("name at resolved address = %q, %v", name, err)
	}
}

func TestSearchString(t *testing.T) {
	const base = process.ProcessMemoryAddress(0x10000)
	blob := process_blob.NewProcessBlob(base, make([]byte, 0x100))
	must(t, process.WriteNTS(blob, base+0x20, "Dapper"))

	results, err := Search(blob, base, WithSearchForString("Dapper"), WithMaxStructSize(0x80), WithMaxDepth(0))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	want := []SearchResult{{Path: []process.ProcessMemorySize{0x20}}}
	if diff := cmp.Diff(want, results); diff != "" {
		t.Errorf("Search mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchMaxResults(t *testing.T) {
	const base = process.ProcessMemoryAddress(0x10000)
	blob := process_blob.NewProcessBlob(base, make([]byte, 0x40))
	for off := process.ProcessMemoryAddress(0); off < 0x40; off += 4 {
		must(t, process.Write(blob, base+off, uint32(7)))
	}

	results, err := Search(blob, base, WithSearchForType(uint32(7)), WithMaxStructSize(0x40), WithMaxResults(3))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("got %d results, want 3", len(results))
	}
}

func TestSearchRequiresTarget(t *testing.T) {
	if _, err := Search(process_blob.NewProcessBlob(0x1000, make([]byte, 8)), 0x1000); err == nil {
		t.Error("Search without target succeeded")
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
