package editor

import (
	"context"
	"errors"
	"testing"

	"outfitmem/layout"
	"outfitmem/process"
	"outfitmem/process_blob"
)

const (
	gameBase   = process.ProcessMemoryAddress(0x140000000)
	gameSize   = 0x20000
	worldInsn  = gameBase + 0x100
	worldSlot  = gameBase + 0x1000
	worldObj   = gameBase + 0x2000
	playerPed  = gameBase + 0x3000
	outfitInsn = gameBase + 0x200
	outfitRoot = gameBase + 0x8000
	nameLink1  = gameBase + 0x10000
	nameLink2  = gameBase + 0x11000
	nameLink3  = gameBase + 0x13000
	nameAddr   = nameLink3 + 0xFC
)

// fakeGame lays out a module image the default layout can attach to
func fakeGame(t *testing.T) *process_blob.ProcessBlob {
	t.Helper()
	blob := process_blob.NewNamedProcessBlob("GTA5.exe", gameBase, make([]byte, gameSize))

	put := func(addr process.ProcessMemoryAddress, b []byte) {
		if err := blob.WriteMemory(addr, b); err != nil {
			t.Fatal(err)
		}
	}
	ptr := func(at, to process.ProcessMemoryAddress) {
		if err := process.Write(blob, at, uint64(to)); err != nil {
			t.Fatal(err)
		}
	}
	rel := func(insn, target process.ProcessMemoryAddress) {
		if err := process.Write(blob, insn+3, int32(int64(target)-int64(insn+7))); err != nil {
			t.Fatal(err)
		}
	}

	put(worldInsn, []byte{0x48, 0x8B, 0x05, 0, 0, 0, 0, 0x45, 0x0F, 0xC6, 0xC0})
	rel(worldInsn, worldSlot)
	ptr(worldSlot, worldObj)
	ptr(worldObj+0x08, playerPed)
	if err := process.Write(blob, playerPed+0x20, uint32(1885233650)); err != nil {
		t.Fatal(err)
	}

	put(outfitInsn, []byte{0x48, 0x8D, 0x3D, 0, 0, 0, 0, 0x80, 0x3E, 0x00, 0x0F, 0x84, 0x11, 0x22, 0x33, 0x44})
	rel(outfitInsn, outfitRoot)

	ptr(outfitRoot, nameLink1)
	ptr(nameLink1+0x8, nameLink2)
	ptr(nameLink2+0x10A8, nameLink3)
	if err := process.WriteNTS(blob, nameAddr, "Casino Heist"); err != nil {
		t.Fatal(err)
	}

	return blob
}

// trackedProcess counts Close calls, records accesses and can fail reads
// or writes at chosen addresses
type trackedProcess struct {
	process.Process
	closed    int
	failRead  map[process.ProcessMemoryAddress]bool
	failWrite map[process.ProcessMemoryAddress]bool
	reads     []process.ProcessMemoryAddress
	writes    []process.ProcessMemoryAddress
}

var (
	errInjected     = errors.New("injected write failure")
	errInjectedRead = errors.New("injected read failure")
)

func (p *trackedProcess) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	p.reads = append(p.reads, addr)
	if p.failRead[addr] {
		return nil, errInjectedRead
	}
	return p.Process.ReadMemory(addr, size)
}

func (p *trackedProcess) WriteMemory(addr process.ProcessMemoryAddress, data []byte) error {
	if p.failWrite[addr] {
		return errInjected
	}
	p.writes = append(p.writes, addr)
	return p.Process.WriteMemory(addr, data)
}

func (p *trackedProcess) Close() error {
	p.closed++
	return p.Process.Close()
}

type fakeOpener struct {
	proc   process.Process
	err    error
	opened []string
}

func (o *fakeOpener) OpenProcessByName(name string) (process.Process, error) {
	o.opened = append(o.opened, name)
	if o.err != nil {
		return nil, o.err
	}
	return o.proc, nil
}

// attached returns a mapper attached to a fresh fake game
func attached(t *testing.T) (*Mapper, *trackedProcess, *process_blob.ProcessBlob) {
	t.Helper()
	blob := fakeGame(t)
	proc := &trackedProcess{Process: blob}
	b := NewBinder(&fakeOpener{proc: proc}, layout.Default())
	if err := b.Attach(context.Background()); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	return NewMapper(b), proc, blob
}
