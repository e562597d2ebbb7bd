package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/franz/music-catalog/internal/store"
)

// Summary describes the state of a catalog database
type Summary struct {
	GeneratedAt   time.Time
	DatabasePath  string
	DatabaseBytes int64
	SchemaVersion int
	Stats         store.Stats
}

// GenerateSummary collects row counts and file information for a catalog
func GenerateSummary(db *store.Store, dbPath string) (*Summary, error) {
	stats, err := db.Stats()
	if err != nil {
		return nil, err
	}

	version, err := db.SchemaVersion()
	if err != nil {
		return nil, fmt.Errorf("failed to read schema version: %w", err)
	}

	s := &Summary{
		GeneratedAt:   time.Now(),
		DatabasePath:  dbPath,
		SchemaVersion: version,
		Stats:         *stats,
	}

	// WAL content counts towards the on-disk footprint
	for _, p := range []string{dbPath, dbPath + "-wal"} {
		if info, err := os.Stat(p); err == nil {
			s.DatabaseBytes += info.Size()
		}
	}

	return s, nil
}

// WriteText renders the summary as aligned plain text
func (s *Summary) WriteText(w io.Writer) error {
	st := s.Stats
	lines := []struct {
		label string
		value string
	}{
		{"Database", fmt.Sprintf("%s (%s, schema v%d)", s.DatabasePath, humanize.Bytes(uint64(s.DatabaseBytes)), s.SchemaVersion)},
		{"Songs", humanize.Comma(int64(st.Songs))},
		{"  without file", humanize.Comma(int64(st.SongsNoFile))},
		{"Files", humanize.Comma(int64(st.Files))},
		{"  unclaimed", humanize.Comma(int64(st.UnclaimedFiles))},
		{"Artists", fmt.Sprintf("%s (%s links)", humanize.Comma(int64(st.Artists)), humanize.Comma(int64(st.ArtistLinks)))},
		{"Albums", fmt.Sprintf("%s (%s links)", humanize.Comma(int64(st.Albums)), humanize.Comma(int64(st.AlbumLinks)))},
		{"Genres", fmt.Sprintf("%s (%s links)", humanize.Comma(int64(st.Genres)), humanize.Comma(int64(st.GenreLinks)))},
	}

	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%-16s %s\n", l.label+":", l.value); err != nil {
			return err
		}
	}
	return nil
}
