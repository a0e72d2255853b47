// Package wardrobe keeps outfit snapshots in SQLite: backups taken before a
// live write, and outfits saved by hand.
package wardrobe

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"outfitmem/formats"
	"outfitmem/outfit"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

var ErrNotFound = errors.New("wardrobe entry not found")

// Kind tells backups apart from outfits saved on purpose
type Kind string

const (
	KindBackup Kind = "backup"
	KindSaved  Kind = "saved"
)

// Entry is one stored outfit. Outfit is nil in List results.
type Entry struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Kind      Kind           `json:"kind"`
	Model     uint32         `json:"model"`
	CreatedAt time.Time      `json:"created_at"`
	Outfit    *outfit.Outfit `json:"-"`
}

// Store handles all database operations
type Store struct {
	db  *sql.DB
	log *logger.Logger
}

// New opens or creates the database at dbPath
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:  db,
		log: logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "wardrobe")),
	}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS outfits (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			kind TEXT NOT NULL,
			model INTEGER NOT NULL,
			body TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outfits_kind ON outfits(kind, created_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// Save stores a snapshot of o. The body is kept as YimMenu JSON, the one
// schema that carries every slot, the model and the blend data.
func (s *Store) Save(name string, kind Kind, o *outfit.Outfit) (*Entry, error) {
	if o == nil {
		return nil, errors.New("save: nil outfit")
	}

	body, err := formats.Encode(o, formats.YimMenu)
	if err != nil {
		return nil, fmt.Errorf("save %q: %w", name, err)
	}

	e := &Entry{
		ID:        uuid.New().String(),
		Name:      name,
		Kind:      kind,
		Model:     o.Model,
		CreatedAt: time.Now().UTC(),
		Outfit:    o.Clone(),
	}

	_, err = s.db.Exec(`
		INSERT INTO outfits (id, name, kind, model, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.ID, e.Name, string(e.Kind), int64(e.Model), string(body), e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("save %q: %w", name, err)
	}

	s.log.Debugln("Saved", e.Kind, e.ID, e.Name)
	return e, nil
}

// List returns entries newest first. An empty kind lists everything.
func (s *Store) List(kind Kind) ([]Entry, error) {
	var rows *sql.Rows
	var err error

	if kind != "" {
		rows, err = s.db.Query(`
			SELECT id, name, kind, model, created_at
			FROM outfits WHERE kind = ? ORDER BY created_at DESC, rowid DESC
		`, string(kind))
	} else {
		rows, err = s.db.Query(`
			SELECT id, name, kind, model, created_at
			FROM outfits ORDER BY created_at DESC, rowid DESC
		`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var k string
		var model int64
		if err := rows.Scan(&e.ID, &e.Name, &k, &model, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Kind = Kind(k)
		e.Model = uint32(model)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns the entry with its outfit decoded
func (s *Store) Get(id string) (*Entry, error) {
	var e Entry
	var k, body string
	var model int64

	err := s.db.QueryRow(`
		SELECT id, name, kind, model, body, created_at
		FROM outfits WHERE id = ?
	`, id).Scan(&e.ID, &e.Name, &k, &model, &body, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	e.Kind = Kind(k)
	e.Model = uint32(model)

	y, err := formats.DecodeYim([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", id, err)
	}
	e.Outfit = formats.YimToCanonical(y)
	return &e, nil
}

// Latest returns the newest entry of the given kind
func (s *Store) Latest(kind Kind) (*Entry, error) {
	var id string
	err := s.db.QueryRow(`
		SELECT id FROM outfits WHERE kind = ? ORDER BY created_at DESC, rowid DESC LIMIT 1
	`, string(kind)).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no %s: %w", kind, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

func (s *Store) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM outfits WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}

// Prune keeps the newest keep entries of a kind and deletes the rest
func (s *Store) Prune(kind Kind, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}

	res, err := s.db.Exec(`
		DELETE FROM outfits WHERE kind = ? AND id NOT IN (
			SELECT id FROM outfits WHERE kind = ? ORDER BY created_at DESC, rowid DESC LIMIT ?
		)
	`, string(kind), string(kind), keep)
	if err != nil {
		return 0, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Infoln("Pruned", n, kind, "entries")
	}
	return int(n), nil
}
