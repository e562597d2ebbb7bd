package store

import (
	"fmt"
)

// Link associates a song with an artist, album or genre.
// Linking the same pair twice fails with a unique violation; an unknown
// song or target fails with a foreign key violation.
func (s *Store) Link(kind Kind, songID, targetID int64) error {
	if err := kind.validate(); err != nil {
		return err
	}
	table, column := kind.junction()

	_, err := s.q.Exec(
		fmt.Sprintf("INSERT INTO %s (song_id, %s) VALUES (?, ?)", table, column),
		songID, targetID,
	)
	if err != nil {
		return fmt.Errorf("failed to link song %d to %s %d: %w", songID, kind, targetID, err)
	}
	return nil
}

// Unlink removes one association. ErrNotFound if the pair does not exist.
func (s *Store) Unlink(kind Kind, songID, targetID int64) error {
	if err := kind.validate(); err != nil {
		return err
	}
	table, column := kind.junction()

	result, err := s.q.Exec(
		fmt.Sprintf("DELETE FROM %s WHERE song_id = ? AND %s = ?", table, column),
		songID, targetID,
	)
	if err != nil {
		return fmt.Errorf("failed to unlink song %d from %s %d: %w", songID, kind, targetID, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s link (%d, %d): %w", kind, songID, targetID, ErrNotFound)
	}
	return nil
}

// UnlinkAll removes every association of one kind from a song
func (s *Store) UnlinkAll(kind Kind, songID int64) error {
	if err := kind.validate(); err != nil {
		return err
	}
	table, _ := kind.junction()

	if _, err := s.q.Exec(fmt.Sprintf("DELETE FROM %s WHERE song_id = ?", table), songID); err != nil {
		return fmt.Errorf("failed to clear %s links of song %d: %w", kind, songID, err)
	}
	return nil
}

// LinksForSong returns the artists, albums or genres linked to a song, in ID order
func (s *Store) LinksForSong(kind Kind, songID int64) ([]*Named, error) {
	if err := kind.validate(); err != nil {
		return nil, err
	}
	table, column := kind.junction()

	return s.queryNamedList(kind, fmt.Sprintf(`
		SELECT t.id, t.name
		FROM %s j
		JOIN %s t ON t.id = j.%s
		WHERE j.song_id = ?
		ORDER BY t.id
	`, table, kind.table(), column), songID)
}

// ArtistsForSong returns the artists linked to a song
func (s *Store) ArtistsForSong(songID int64) ([]*Named, error) {
	return s.LinksForSong(KindArtist, songID)
}

// SongsFor returns the songs linked to an artist, album or genre, in ID order
func (s *Store) SongsFor(kind Kind, targetID int64) ([]*Song, error) {
	if err := kind.validate(); err != nil {
		return nil, err
	}
	table, column := kind.junction()

	return s.querySongs(fmt.Sprintf(`
		SELECT s.id, s.title, COALESCE(s.source, ''), COALESCE(s.youtube_id, ''),
		       COALESCE(s.thumbnail_url, ''), s.file_id
		FROM %s j
		JOIN song s ON s.id = j.song_id
		WHERE j.%s = ?
		ORDER BY s.id
	`, table, column), targetID)
}

// CountLinks returns the number of rows in a junction table
func (s *Store) CountLinks(kind Kind) (int, error) {
	if err := kind.validate(); err != nil {
		return 0, err
	}
	table, _ := kind.junction()

	var count int
	if err := s.q.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}
