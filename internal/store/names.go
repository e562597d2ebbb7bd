package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Kind selects one of the named entity tables (artist, album, genre)
// together with its junction table.
type Kind string

const (
	KindArtist Kind = "artist"
	KindAlbum  Kind = "album"
	KindGenre  Kind = "genre"
)

// Kinds lists every named entity kind in display order
var Kinds = []Kind{KindArtist, KindAlbum, KindGenre}

// ErrNameRequired is returned when an artist, album or genre has an empty name
var ErrNameRequired = errors.New("name is required")

func (k Kind) validate() error {
	switch k {
	case KindArtist, KindAlbum, KindGenre:
		return nil
	}
	return fmt.Errorf("unknown kind %q", string(k))
}

// table is the entity table name. Kind values are whitelisted by
// validate, so they are safe to splice into SQL.
func (k Kind) table() string {
	return string(k)
}

// junction returns the junction table and its target column
func (k Kind) junction() (table, column string) {
	return "songs_" + string(k) + "s", string(k) + "_id"
}

// Named is a row of the artist, album or genre table
type Named struct {
	ID   int64
	Name string
}

// InsertNamed inserts a new artist, album or genre.
// A name already present fails with a unique violation.
func (s *Store) InsertNamed(kind Kind, name string) (int64, error) {
	if err := kind.validate(); err != nil {
		return 0, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrNameRequired
	}

	result, err := s.q.Exec(fmt.Sprintf("INSERT INTO %s (name) VALUES (?)", kind.table()), name)
	if err != nil {
		return 0, fmt.Errorf("failed to insert %s: %w", kind, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get %s ID: %w", kind, err)
	}
	return id, nil
}

// EnsureNamed returns the ID of the entity with the given name, inserting it first if needed
func (s *Store) EnsureNamed(kind Kind, name string) (int64, error) {
	if err := kind.validate(); err != nil {
		return 0, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrNameRequired
	}

	_, err := s.q.Exec(
		fmt.Sprintf("INSERT INTO %s (name) VALUES (?) ON CONFLICT(name) DO NOTHING", kind.table()),
		name,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert %s: %w", kind, err)
	}

	var id int64
	err = s.q.QueryRow(fmt.Sprintf("SELECT id FROM %s WHERE name = ?", kind.table()), name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to get %s ID: %w", kind, err)
	}
	return id, nil
}

// EnsureArtist returns the ID of the named artist, creating it if needed
func (s *Store) EnsureArtist(name string) (int64, error) {
	return s.EnsureNamed(KindArtist, name)
}

// EnsureAlbum returns the ID of the named album, creating it if needed
func (s *Store) EnsureAlbum(name string) (int64, error) {
	return s.EnsureNamed(KindAlbum, name)
}

// EnsureGenre returns the ID of the named genre, creating it if needed
func (s *Store) EnsureGenre(name string) (int64, error) {
	return s.EnsureNamed(KindGenre, name)
}

// GetNamedByID retrieves an artist, album or genre by ID
func (s *Store) GetNamedByID(kind Kind, id int64) (*Named, error) {
	if err := kind.validate(); err != nil {
		return nil, err
	}
	return s.queryNamed(kind, fmt.Sprintf("SELECT id, name FROM %s WHERE id = ?", kind.table()), id)
}

// GetNamedByName retrieves an artist, album or genre by exact name
func (s *Store) GetNamedByName(kind Kind, name string) (*Named, error) {
	if err := kind.validate(); err != nil {
		return nil, err
	}
	return s.queryNamed(kind, fmt.Sprintf("SELECT id, name FROM %s WHERE name = ?", kind.table()), strings.TrimSpace(name))
}

func (s *Store) queryNamed(kind Kind, query string, args ...any) (*Named, error) {
	n := &Named{}
	err := s.q.QueryRow(query, args...).Scan(&n.ID, &n.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", kind, err)
	}
	return n, nil
}

// ListNamed retrieves every artist, album or genre ordered by name
func (s *Store) ListNamed(kind Kind) ([]*Named, error) {
	if err := kind.validate(); err != nil {
		return nil, err
	}
	return s.queryNamedList(kind, fmt.Sprintf("SELECT id, name FROM %s ORDER BY name COLLATE NOCASE, id", kind.table()))
}

func (s *Store) queryNamedList(kind Kind, query string, args ...any) ([]*Named, error) {
	rows, err := s.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", kind, err)
	}
	defer rows.Close()

	var list []*Named
	for rows.Next() {
		n := &Named{}
		if err := rows.Scan(&n.ID, &n.Name); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", kind, err)
		}
		list = append(list, n)
	}

	return list, rows.Err()
}

// DeleteNamed removes an artist, album or genre and all of its song links
func (s *Store) DeleteNamed(kind Kind, id int64) error {
	if err := kind.validate(); err != nil {
		return err
	}
	result, err := s.q.Exec(fmt.Sprintf("DELETE FROM %s WHERE id = ?", kind.table()), id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}
	return expectOneRow(result, kind.table(), id)
}
