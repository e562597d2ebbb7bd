package store

import "fmt"

// Stats holds row counts for the catalog tables
type Stats struct {
	Files          int
	Songs          int
	Artists        int
	Albums         int
	Genres         int
	ArtistLinks    int
	AlbumLinks     int
	GenreLinks     int
	SongsNoFile    int
	UnclaimedFiles int
}

// Stats counts rows in every catalog table
func (s *Store) Stats() (*Stats, error) {
	st := &Stats{}

	counts := []struct {
		dest  *int
		query string
	}{
		{&st.Files, "SELECT COUNT(*) FROM file"},
		{&st.Songs, "SELECT COUNT(*) FROM song"},
		{&st.Artists, "SELECT COUNT(*) FROM artist"},
		{&st.Albums, "SELECT COUNT(*) FROM album"},
		{&st.Genres, "SELECT COUNT(*) FROM genre"},
		{&st.ArtistLinks, "SELECT COUNT(*) FROM songs_artists"},
		{&st.AlbumLinks, "SELECT COUNT(*) FROM songs_albums"},
		{&st.GenreLinks, "SELECT COUNT(*) FROM songs_genres"},
		{&st.SongsNoFile, "SELECT COUNT(*) FROM song WHERE file_id IS NULL"},
		{&st.UnclaimedFiles, `SELECT COUNT(*) FROM file f
			WHERE NOT EXISTS (SELECT 1 FROM song s WHERE s.file_id = f.id)`},
	}

	for _, c := range counts {
		if err := s.q.QueryRow(c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("failed to count rows: %w", err)
		}
	}

	return st, nil
}
