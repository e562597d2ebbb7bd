package store

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// File is a media file known to the catalog, addressed relative to the library root
type File struct {
	ID           int64
	RelativePath string
}

// CleanRelativePath normalizes a library-relative path to the form stored
// in file.relative_path: slash separated, no leading "./" or "/".
func CleanRelativePath(path string) (string, error) {
	p := filepath.ToSlash(filepath.Clean(strings.TrimSpace(path)))
	p = strings.TrimPrefix(p, "/")
	if p == "" || p == "." {
		return "", errors.New("relative path is required")
	}
	if p == ".." || strings.HasPrefix(p, "../") {
		return "", fmt.Errorf("path %q escapes the library root", path)
	}
	return p, nil
}

// InsertFile inserts a new file record. A path already in the catalog
// fails with a unique violation.
func (s *Store) InsertFile(f *File) error {
	path, err := CleanRelativePath(f.RelativePath)
	if err != nil {
		return err
	}

	result, err := s.q.Exec("INSERT INTO file (relative_path) VALUES (?)", path)
	if err != nil {
		return fmt.Errorf("failed to insert file: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get file ID: %w", err)
	}

	f.ID = id
	f.RelativePath = path
	return nil
}

// EnsureFile returns the ID of the file with the given path, inserting it first if needed
func (s *Store) EnsureFile(relativePath string) (int64, error) {
	path, err := CleanRelativePath(relativePath)
	if err != nil {
		return 0, err
	}

	_, err = s.q.Exec("INSERT INTO file (relative_path) VALUES (?) ON CONFLICT(relative_path) DO NOTHING", path)
	if err != nil {
		return 0, fmt.Errorf("failed to insert file: %w", err)
	}

	var id int64
	if err := s.q.QueryRow("SELECT id FROM file WHERE relative_path = ?", path).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to get file ID: %w", err)
	}
	return id, nil
}

// GetFileByID retrieves a file by its ID
func (s *Store) GetFileByID(id int64) (*File, error) {
	f := &File{}
	err := s.q.QueryRow("SELECT id, relative_path FROM file WHERE id = ?", id).Scan(&f.ID, &f.RelativePath)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	return f, nil
}

// GetFileByPath retrieves a file by its relative path
func (s *Store) GetFileByPath(relativePath string) (*File, error) {
	path, err := CleanRelativePath(relativePath)
	if err != nil {
		return nil, err
	}

	f := &File{}
	err = s.q.QueryRow("SELECT id, relative_path FROM file WHERE relative_path = ?", path).Scan(&f.ID, &f.RelativePath)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	return f, nil
}

// GetAllFiles retrieves all files ordered by ID
func (s *Store) GetAllFiles() ([]*File, error) {
	return s.queryFiles("SELECT id, relative_path FROM file ORDER BY id")
}

// GetUnclaimedFiles retrieves files that no song points at
func (s *Store) GetUnclaimedFiles() ([]*File, error) {
	return s.queryFiles(`
		SELECT f.id, f.relative_path
		FROM file f
		LEFT JOIN song s ON s.file_id = f.id
		WHERE s.id IS NULL
		ORDER BY f.id
	`)
}

func (s *Store) queryFiles(query string, args ...any) ([]*File, error) {
	rows, err := s.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()

	var files []*File
	for rows.Next() {
		f := &File{}
		if err := rows.Scan(&f.ID, &f.RelativePath); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, f)
	}

	return files, rows.Err()
}

// DeleteFile removes a file record. A song that claimed it keeps its
// metadata and loses the file link.
func (s *Store) DeleteFile(id int64) error {
	result, err := s.q.Exec("DELETE FROM file WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return expectOneRow(result, "file", id)
}

// expectOneRow maps a zero-row update/delete to ErrNotFound
func expectOneRow(result sql.Result, table string, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", table, id, ErrNotFound)
	}
	return nil
}
