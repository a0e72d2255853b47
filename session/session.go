// Package session is the surface the CLI and the HTTP API drive: load and
// export outfit files, attach to the target, read and write the live
// outfit, and keep backups of what was there before.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"

	"outfitmem/editor"
	"outfitmem/formats"
	"outfitmem/layout"
	"outfitmem/outfit"
	"outfitmem/process"
	"outfitmem/wardrobe"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

var log = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "session"))

// ErrNoWardrobe is returned by Backup and Restore when no store is configured
var ErrNoWardrobe = errors.New("no wardrobe configured")

type Options struct {
	// Store keeps backups; nil disables Backup, Restore and AutoBackup
	Store *wardrobe.Store

	// AutoBackup snapshots the live outfit before every Write
	AutoBackup bool

	// KeepBackups prunes automatic backups down to this many, 0 keeps all
	KeepBackups int
}

// Session is not safe for concurrent use
type Session struct {
	binder *editor.Binder
	mapper *editor.Mapper
	opts   Options
}

func New(opener process.ProcessOpener, l *layout.Layout, opts Options) *Session {
	b := editor.NewBinder(opener, l)
	return &Session{
		binder: b,
		mapper: editor.NewMapper(b),
		opts:   opts,
	}
}

func (s *Session) Binder() *editor.Binder {
	return s.binder
}

func (s *Session) Mapper() *editor.Mapper {
	return s.mapper
}

func (s *Session) Store() *wardrobe.Store {
	return s.opts.Store
}

// Load detects the format of data and converts it to the canonical model
func Load(data []byte) (*outfit.Outfit, formats.Format, error) {
	o, f, err := formats.Decode(data)
	if err != nil {
		return nil, f, fmt.Errorf("load: %w", err)
	}
	return o, f, nil
}

// LoadFile is Load on the contents of path
func LoadFile(path string) (*outfit.Outfit, formats.Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, formats.Unknown, fmt.Errorf("load %s: %w", path, err)
	}

	o, f, err := formats.Decode(data)
	if err != nil {
		return nil, f, fmt.Errorf("load %s: %w", path, err)
	}

	if err := o.Validate(); err != nil {
		log.Warn("loaded ", path, " with out of range values: ", err)
	}
	return o, f, nil
}

// Export serializes o in format f
func Export(o *outfit.Outfit, f formats.Format) ([]byte, error) {
	data, err := formats.Encode(o, f)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", f, err)
	}
	return data, nil
}

// ExportFile writes o to path in format f
func ExportFile(o *outfit.Outfit, f formats.Format, path string) error {
	data, err := Export(o, f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}

func (s *Session) Attach(ctx context.Context) error {
	if err := s.binder.Attach(ctx); err != nil {
		return fmt.Errorf("attach failed: %w", err)
	}
	return nil
}

// AttachProcess attaches to an already opened process, such as a loaded image
func (s *Session) AttachProcess(ctx context.Context, proc process.Process) error {
	if err := s.binder.AttachProcess(ctx, proc); err != nil {
		return fmt.Errorf("attach failed: %w", err)
	}
	return nil
}

func (s *Session) Detach() error {
	return s.binder.Detach()
}

func (s *Session) Attached() bool {
	return s.binder.State() == editor.Attached
}

// Read returns the live outfit
func (s *Session) Read() (*outfit.Outfit, error) {
	o, err := s.mapper.ReadOutfit()
	if err != nil {
		return nil, fmt.Errorf("read failed: %w", err)
	}
	return o, nil
}

// Write applies o to the live outfit. With AutoBackup the current outfit is
// saved first and a failed backup stops the write. A failed write may leave
// some slots applied.
func (s *Session) Write(o *outfit.Outfit) error {
	if !s.Attached() {
		return fmt.Errorf("write failed: %w", editor.ErrNotAttached)
	}

	if s.opts.AutoBackup && s.opts.Store != nil {
		if _, err := s.backup("before write", true); err != nil {
			return fmt.Errorf("write failed: %w", err)
		}
	}

	if err := s.mapper.WriteOutfit(o.Clone()); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	return nil
}

// Backup saves the live outfit to the wardrobe under name
func (s *Session) Backup(name string) (*wardrobe.Entry, error) {
	return s.backup(name, false)
}

func (s *Session) backup(name string, auto bool) (*wardrobe.Entry, error) {
	if s.opts.Store == nil {
		return nil, ErrNoWardrobe
	}

	live, err := s.mapper.ReadOutfit()
	if err != nil {
		return nil, fmt.Errorf("backup: %w", err)
	}

	kind := wardrobe.KindSaved
	if auto {
		kind = wardrobe.KindBackup
	}

	e, err := s.opts.Store.Save(name, kind, live)
	if err != nil {
		return nil, fmt.Errorf("backup: %w", err)
	}

	if auto && s.opts.KeepBackups > 0 {
		if _, err := s.opts.Store.Prune(wardrobe.KindBackup, s.opts.KeepBackups); err != nil {
			log.Warn("prune backups: ", err)
		}
	}

	log.Infoln("Backed up live outfit as", e.ID)
	return e, nil
}

// Restore writes a stored outfit back. An empty id restores the newest
// automatic backup. Restore never takes a backup of its own.
func (s *Session) Restore(id string) (*wardrobe.Entry, error) {
	if s.opts.Store == nil {
		return nil, ErrNoWardrobe
	}
	if !s.Attached() {
		return nil, fmt.Errorf("restore failed: %w", editor.ErrNotAttached)
	}

	var e *wardrobe.Entry
	var err error
	if id == "" {
		e, err = s.opts.Store.Latest(wardrobe.KindBackup)
	} else {
		e, err = s.opts.Store.Get(id)
	}
	if err != nil {
		return nil, fmt.Errorf("restore failed: %w", err)
	}

	if err := s.mapper.WriteOutfit(e.Outfit); err != nil {
		return nil, fmt.Errorf("restore failed: %w", err)
	}

	log.Infoln("Restored", e.ID, e.Name)
	return e, nil
}
