package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrTitleRequired is returned when a song is written without a title
var ErrTitleRequired = errors.New("song title is required")

// Song is a catalog entry. Optional text fields are empty when unset and
// FileID is 0 when the song has no file.
type Song struct {
	ID           int64
	Title        string
	Source       string
	YoutubeID    string
	ThumbnailURL string
	FileID       int64
}

// HasFile reports whether the song is linked to a file
func (s *Song) HasFile() bool {
	return s.FileID != 0
}

const songColumns = `id, title, COALESCE(source, ''), COALESCE(youtube_id, ''),
	COALESCE(thumbnail_url, ''), file_id`

// InsertSong inserts a new song and sets its ID.
// A FileID already claimed by another song fails with a unique violation.
func (s *Store) InsertSong(song *Song) error {
	title := strings.TrimSpace(song.Title)
	if title == "" {
		return ErrTitleRequired
	}

	result, err := s.q.Exec(`
		INSERT INTO song (title, source, youtube_id, thumbnail_url, file_id)
		VALUES (?, ?, ?, ?, ?)
	`, title, nullString(song.Source), nullString(song.YoutubeID),
		nullString(song.ThumbnailURL), nullInt64(song.FileID))
	if err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get song ID: %w", err)
	}

	song.ID = id
	song.Title = title
	return nil
}

// GetSongByID retrieves a song by its ID
func (s *Store) GetSongByID(id int64) (*Song, error) {
	return s.querySong("SELECT "+songColumns+" FROM song WHERE id = ?", id)
}

// GetSongByFileID retrieves the song that claims the given file
func (s *Store) GetSongByFileID(fileID int64) (*Song, error) {
	return s.querySong("SELECT "+songColumns+" FROM song WHERE file_id = ?", fileID)
}

func (s *Store) querySong(query string, args ...any) (*Song, error) {
	song, err := scanSong(s.q.QueryRow(query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get song: %w", err)
	}
	return song, nil
}

// GetAllSongs retrieves all songs ordered by ID
func (s *Store) GetAllSongs() ([]*Song, error) {
	return s.querySongs("SELECT " + songColumns + " FROM song ORDER BY id")
}

// FindSongsByTitle returns songs whose title contains query, ignoring case
func (s *Store) FindSongsByTitle(query string) ([]*Song, error) {
	pattern := "%" + escapeLike(strings.TrimSpace(query)) + "%"
	return s.querySongs(
		"SELECT "+songColumns+" FROM song WHERE title LIKE ? ESCAPE '\\' ORDER BY id",
		pattern,
	)
}

func (s *Store) querySongs(query string, args ...any) ([]*Song, error) {
	rows, err := s.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var songs []*Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		songs = append(songs, song)
	}

	return songs, rows.Err()
}

// UpdateSong writes title, source, youtube_id and thumbnail_url.
// The file link is changed with SetSongFile.
func (s *Store) UpdateSong(song *Song) error {
	title := strings.TrimSpace(song.Title)
	if title == "" {
		return ErrTitleRequired
	}

	result, err := s.q.Exec(`
		UPDATE song SET title = ?, source = ?, youtube_id = ?, thumbnail_url = ?
		WHERE id = ?
	`, title, nullString(song.Source), nullString(song.YoutubeID),
		nullString(song.ThumbnailURL), song.ID)
	if err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}

	song.Title = title
	return expectOneRow(result, "song", song.ID)
}

// SetSongFile links a song to a file, or releases its file when fileID is 0
func (s *Store) SetSongFile(songID, fileID int64) error {
	result, err := s.q.Exec("UPDATE song SET file_id = ? WHERE id = ?", nullInt64(fileID), songID)
	if err != nil {
		return fmt.Errorf("failed to set song file: %w", err)
	}
	return expectOneRow(result, "song", songID)
}

// DeleteSong removes a song together with its artist, album and genre links
func (s *Store) DeleteSong(id int64) error {
	result, err := s.q.Exec("DELETE FROM song WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}
	return expectOneRow(result, "song", id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSong(row rowScanner) (*Song, error) {
	song := &Song{}
	var fileID sql.NullInt64
	err := row.Scan(&song.ID, &song.Title, &song.Source, &song.YoutubeID, &song.ThumbnailURL, &fileID)
	if err != nil {
		return nil, err
	}
	song.FileID = fileID.Int64
	return song, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
