// Package export writes a denormalized snapshot of the catalog as YAML or JSON.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/franz/music-catalog/internal/catalog"
	"github.com/franz/music-catalog/internal/store"
	"gopkg.in/yaml.v3"
)

// Format selects the output encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat accepts "yaml", "yml" and "json"
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml", "":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// Snapshot is the whole catalog with songs resolved to names and paths
type Snapshot struct {
	ExportedAt    time.Time `yaml:"exported_at" json:"exported_at"`
	SchemaVersion int       `yaml:"schema_version" json:"schema_version"`
	Songs         []Song    `yaml:"songs" json:"songs"`
	Files         []string  `yaml:"files" json:"files"`
	Artists       []string  `yaml:"artists" json:"artists"`
	Albums        []string  `yaml:"albums" json:"albums"`
	Genres        []string  `yaml:"genres" json:"genres"`
}

// Song is one exported song
type Song struct {
	ID           int64    `yaml:"id" json:"id"`
	Title        string   `yaml:"title" json:"title"`
	Source       string   `yaml:"source,omitempty" json:"source,omitempty"`
	YoutubeID    string   `yaml:"youtube_id,omitempty" json:"youtube_id,omitempty"`
	ThumbnailURL string   `yaml:"thumbnail_url,omitempty" json:"thumbnail_url,omitempty"`
	File         string   `yaml:"file,omitempty" json:"file,omitempty"`
	Artists      []string `yaml:"artists,omitempty" json:"artists,omitempty"`
	Albums       []string `yaml:"albums,omitempty" json:"albums,omitempty"`
	Genres       []string `yaml:"genres,omitempty" json:"genres,omitempty"`
}

// Build reads the full catalog into a Snapshot
func Build(c *catalog.Catalog) (*Snapshot, error) {
	st := c.Store()

	version, err := st.SchemaVersion()
	if err != nil {
		return nil, fmt.Errorf("failed to read schema version: %w", err)
	}

	snap := &Snapshot{
		ExportedAt:    time.Now().UTC(),
		SchemaVersion: version,
	}

	songs, err := st.GetAllSongs()
	if err != nil {
		return nil, err
	}
	for _, s := range songs {
		d, err := c.Get(s.ID)
		if err != nil {
			return nil, err
		}
		if d == nil {
			continue // deleted since GetAllSongs
		}

		rec := Song{
			ID:           d.Song.ID,
			Title:        d.Song.Title,
			Source:       d.Song.Source,
			YoutubeID:    d.Song.YoutubeID,
			ThumbnailURL: d.Song.ThumbnailURL,
			Artists:      namesOf(d.Artists),
			Albums:       namesOf(d.Albums),
			Genres:       namesOf(d.Genres),
		}
		if d.File != nil {
			rec.File = d.File.RelativePath
		}
		snap.Songs = append(snap.Songs, rec)
	}

	files, err := st.GetAllFiles()
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		snap.Files = append(snap.Files, f.RelativePath)
	}

	for _, kind := range store.Kinds {
		list, err := st.ListNamed(kind)
		if err != nil {
			return nil, err
		}
		names := namesOf(list)
		switch kind {
		case store.KindArtist:
			snap.Artists = names
		case store.KindAlbum:
			snap.Albums = names
		case store.KindGenre:
			snap.Genres = names
		}
	}

	return snap, nil
}

// Write encodes the snapshot to w
func Write(w io.Writer, snap *Snapshot, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported export format %q", format)
}

// WriteFile encodes the snapshot into a new file at path. Errors from the
// final close are returned, since a short write may only show up there.
func WriteFile(path string, snap *Snapshot, format Format) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	return Write(f, snap, format)
}

func namesOf(list []*store.Named) []string {
	if len(list) == 0 {
		return nil
	}
	out := make([]string, len(list))
	for i, n := range list {
		out[i] = n.Name
	}
	return out
}
