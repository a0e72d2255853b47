package editor

import (
	"context"
	"errors"
	"testing"

	"outfitmem/layout"
	"outfitmem/process"

	"github.com/google/go-cmp/cmp"
)

func TestAttach(t *testing.T) {
	proc := &trackedProcess{Process: fakeGame(t)}
	opener := &fakeOpener{proc: proc}
	b := NewBinder(opener, layout.Default())

	if b.State() != Detached {
		t.Fatalf("initial state %s", b.State())
	}
	if _, err := b.Bases(); !errors.Is(err, ErrNotAttached) {
		t.Errorf("Bases before attach err = %v", err)
	}

	if err := b.Attach(context.Background()); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	if diff := cmp.Diff([]string{"GTA5.exe"}, opener.opened); diff != "" {
		t.Errorf("opened (-want +got):\n%s", diff)
	}
	if b.State() != Attached {
		t.Errorf("state %s, want attached", b.State())
	}

	bases, err := b.Bases()
	if err != nil {
		t.Fatalf("Bases: %v", err)
	}
	if diff := cmp.Diff(Bases{World: worldObj, Outfit: outfitRoot}, bases); diff != "" {
		t.Errorf("Bases (-want +got):\n%s", diff)
	}

	if err := b.Attach(context.Background()); !errors.Is(err, ErrAlreadyAttached) {
		t.Errorf("second Attach err = %v", err)
	}
}

func TestAttachFailureRollsBack(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(t *testing.T, proc *trackedProcess, l *layout.Layout)
		wantErr error
	}{
		{
			name: "outfit signature missing",
			mutate: func(t *testing.T, proc *trackedProcess, l *layout.Layout) {
				l.OutfitSignature = "DE AD BE EF"
			},
			wantErr: process.ErrNotFound,
		},
		{
			name: "world signature missing",
			mutate: func(t *testing.T, proc *trackedProcess, l *layout.Layout) {
				l.WorldSignature = "DE AD BE EF ? 01"
			},
			wantErr: process.ErrNotFound,
		},
		{
			name: "world pointer null",
			mutate: func(t *testing.T, proc *trackedProcess, l *layout.Layout) {
				if err := process.Write(proc, worldSlot, uint64(0)); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: process.ErrNotFound,
		},
		{
			name: "world operand points outside the image",
			mutate: func(t *testing.T, proc *trackedProcess, l *layout.Layout) {
				if err := process.Write(proc, worldInsn+3, int32(-0x1000)); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: process.ErrAddressNotMapped,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			proc := &trackedProcess{Process: fakeGame(t)}
			l := layout.Default()
			tc.mutate(t, proc, l)

			b := NewBinder(&fakeOpener{proc: proc}, l)
			err := b.Attach(context.Background())
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Attach err = %v, want %v", err, tc.wantErr)
			}

			if b.State() != Detached {
				t.Errorf("state %s after failure", b.State())
			}
			if proc.closed != 1 {
				t.Errorf("process closed %d times, want 1", proc.closed)
			}
			if b.Process() != nil {
				t.Errorf("binder still holds the process")
			}
		})
	}
}

func TestAttachOpenFailure(t *testing.T) {
	b := NewBinder(&fakeOpener{err: process.ErrNotFound}, nil)
	if err := b.Attach(context.Background()); !errors.Is(err, process.ErrNotFound) {
		t.Errorf("Attach err = %v", err)
	}
	if b.State() != Detached {
		t.Errorf("state %s", b.State())
	}
}

func TestAttachCanceled(t *testing.T) {
	proc := &trackedProcess{Process: fakeGame(t)}
	opener := &fakeOpener{proc: proc}
	b := NewBinder(opener, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := b.Attach(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Attach err = %v", err)
	}
	if len(opener.opened) != 0 {
		t.Errorf("opened a process after cancel")
	}

	if err := b.AttachProcess(ctx, proc); !errors.Is(err, context.Canceled) {
		t.Errorf("AttachProcess err = %v", err)
	}
	if proc.closed != 1 || b.State() != Detached {
		t.Errorf("closed=%d state=%s", proc.closed, b.State())
	}
}

func TestDetachIdempotent(t *testing.T) {
	b := NewBinder(&fakeOpener{}, nil)
	if err := b.Detach(); err != nil {
		t.Fatalf("Detach on fresh binder: %v", err)
	}

	m, proc, _ := attached(t)
	for i := 0; i < 3; i++ {
		if err := m.binder.Detach(); err != nil {
			t.Fatalf("Detach #%d: %v", i, err)
		}
	}
	if proc.closed != 1 {
		t.Errorf("closed %d times, want 1", proc.closed)
	}
	if m.binder.State() != Detached {
		t.Errorf("state %s", m.binder.State())
	}
	if _, err := m.ReadOutfit(); !errors.Is(err, ErrNotAttached) {
		t.Errorf("ReadOutfit after detach err = %v", err)
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{Detached: "detached", Attaching: "attaching", Attached: "attached", State(9): "state(9)"} {
		if s.String() != want {
			t.Errorf("%d.String() = %q", int(s), s.String())
		}
	}
}
