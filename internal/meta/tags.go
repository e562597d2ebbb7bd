package meta

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// Tags is the catalog-relevant subset of an audio file's embedded metadata
type Tags struct {
	Title   string
	Artists []string
	Albums  []string
	Genres  []string
	Format  string
}

// ReadTags reads embedded tags from a single audio file.
// Missing titles fall back to the file name without extension.
func ReadTags(path string) (*Tags, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read tags: %w", err)
	}

	return tagsFromMetadata(m, path), nil
}

func tagsFromMetadata(m tag.Metadata, path string) *Tags {
	t := &Tags{
		Title:  CleanName(m.Title()),
		Format: string(m.Format()),
	}

	// Prefer the track artist; album artist only when the track has none
	t.Artists = SplitMulti(m.Artist())
	if len(t.Artists) == 0 {
		t.Artists = SplitMulti(m.AlbumArtist())
	}

	if album := CleanName(m.Album()); album != "" {
		t.Albums = []string{album}
	}
	t.Genres = SplitMulti(m.Genre())

	if t.Title == "" {
		base := filepath.Base(path)
		t.Title = CleanName(strings.TrimSuffix(base, filepath.Ext(base)))
	}

	return t
}
