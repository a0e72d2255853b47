// Package editor attaches to the running target, resolves the live world
// and outfit roots, and reads or writes outfit slots in place.
package editor

import (
	"context"
	"errors"
	"fmt"

	"outfitmem/layout"
	"outfitmem/process"
	"outfitmem/scan"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

var (
	// ErrNotAttached is returned by every memory operation before a successful Attach
	ErrNotAttached = errors.New("not attached")

	ErrAlreadyAttached = errors.New("already attached")
)

type State int

const (
	Detached State = iota
	Attaching
	Attached
)

func (s State) String() string {
	switch s {
	case Detached:
		return "detached"
	case Attaching:
		return "attaching"
	case Attached:
		return "attached"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Bases are the two resolved roots, valid only while attached
type Bases struct {
	World  process.ProcessMemoryAddress
	Outfit process.ProcessMemoryAddress
}

// Binder owns the process handle and the resolved bases. It is meant to be
// driven from a single goroutine.
type Binder struct {
	opener process.ProcessOpener
	layout *layout.Layout
	log    *logger.Logger

	state State
	proc  process.Process
	bases Bases
}

func NewBinder(opener process.ProcessOpener, l *layout.Layout) *Binder {
	if l == nil {
		l = layout.Default()
	}
	return &Binder{
		opener: opener,
		layout: l,
		log:    logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "binder")),
	}
}

func (b *Binder) State() State {
	return b.state
}

func (b *Binder) Layout() *layout.Layout {
	return b.layout
}

// Bases returns the resolved roots, or ErrNotAttached
func (b *Binder) Bases() (Bases, error) {
	if b.state != Attached {
		return Bases{}, ErrNotAttached
	}
	return b.bases, nil
}

// Process returns the attached process, or nil
func (b *Binder) Process() process.Process {
	if b.state != Attached {
		return nil
	}
	return b.proc
}

// Attach opens the process named by the layout and resolves both bases.
// On any failure the handle is closed and the binder is left Detached.
func (b *Binder) Attach(ctx context.Context) error {
	if b.state == Attached {
		return ErrAlreadyAttached
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	proc, err := b.opener.OpenProcessByName(b.layout.ProcessName)
	if err != nil {
		return fmt.Errorf("attach %s: %w", b.layout.ProcessName, err)
	}

	return b.AttachProcess(ctx, proc)
}

// AttachProcess resolves the bases inside an already opened process and
// takes ownership of it.
func (b *Binder) AttachProcess(ctx context.Context, proc process.Process) error {
	if b.state == Attached {
		return ErrAlreadyAttached
	}

	b.state = Attaching
	b.proc = proc

	bases, err := b.resolve(ctx, proc)
	if err != nil {
		b.rollback()
		return fmt.Errorf("attach %s: %w", b.layout.ProcessName, err)
	}

	b.bases = bases
	b.state = Attached
	b.log.Infoln("Attached to", proc.Name(), "pid", proc.GetPID(), "world", bases.World.ToString(), "outfit", bases.Outfit.ToString())
	return nil
}

func (b *Binder) resolve(ctx context.Context, proc process.Process) (Bases, error) {
	l := b.layout
	disp := process.ProcessMemorySize(l.RelativeDisplacement)
	insnLen := process.ProcessMemorySize(l.RelativeInstructionLength)

	if err := ctx.Err(); err != nil {
		return Bases{}, err
	}

	worldInsn, err := scan.Module(proc, scan.ParseSignature(l.WorldSignature))
	if err != nil {
		return Bases{}, fmt.Errorf("world signature: %w", err)
	}

	worldPtr, err := scan.ResolveRelative(proc, worldInsn, disp, insnLen)
	if err != nil {
		return Bases{}, fmt.Errorf("world operand: %w", err)
	}

	world, err := process.ReadPointer(proc, worldPtr)
	if err != nil {
		return Bases{}, fmt.Errorf("world pointer at %s: %w", worldPtr.ToString(), err)
	}
	if world == 0 {
		return Bases{}, fmt.Errorf("world pointer at %s is null: %w", worldPtr.ToString(), process.ErrNotFound)
	}

	if err := ctx.Err(); err != nil {
		return Bases{}, err
	}

	outfitInsn, err := scan.Module(proc, scan.ParseSignature(l.OutfitSignature))
	if err != nil {
		return Bases{}, fmt.Errorf("outfit signature: %w", err)
	}

	outfitBase, err := scan.ResolveRelative(proc, outfitInsn, disp, insnLen)
	if err != nil {
		return Bases{}, fmt.Errorf("outfit operand: %w", err)
	}
	if outfitBase == 0 {
		return Bases{}, fmt.Errorf("outfit base resolved to null: %w", process.ErrNotFound)
	}

	b.log.Debugln("world insn", worldInsn.ToString(), "outfit insn", outfitInsn.ToString())
	return Bases{World: world, Outfit: outfitBase}, nil
}

func (b *Binder) rollback() {
	if b.proc != nil {
		if err := b.proc.Close(); err != nil {
			b.log.Warn("close after failed attach: ", err)
		}
	}
	b.proc = nil
	b.bases = Bases{}
	b.state = Detached
}

// Detach closes the handle. It is safe to call in any state, any number of times.
func (b *Binder) Detach() error {
	if b.proc == nil {
		b.state = Detached
		b.bases = Bases{}
		return nil
	}

	err := b.proc.Close()
	b.proc = nil
	b.bases = Bases{}
	b.state = Detached
	b.log.Infoln("Detached")

	if err != nil {
		return fmt.Errorf("detach: %w", err)
	}
	return nil
}
