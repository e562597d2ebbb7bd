package catalog

import (
	"github.com/franz/music-catalog/internal/meta"
	"github.com/franz/music-catalog/internal/store"
)

// Filter narrows List. Empty fields match everything; set fields must all match.
type Filter struct {
	Title  string // case-insensitive substring
	Artist string
	Album  string
	Genre  string
}

func (f Filter) name(kind store.Kind) string {
	switch kind {
	case store.KindArtist:
		return f.Artist
	case store.KindAlbum:
		return f.Album
	case store.KindGenre:
		return f.Genre
	}
	return ""
}

// List returns the songs matching the filter in ID order
func (c *Catalog) List(f Filter) ([]*store.Song, error) {
	var (
		songs []*store.Song
		err   error
	)
	if f.Title != "" {
		songs, err = c.store.FindSongsByTitle(f.Title)
	} else {
		songs, err = c.store.GetAllSongs()
	}
	if err != nil {
		return nil, err
	}

	for _, kind := range store.Kinds {
		name := meta.CleanName(f.name(kind))
		if name == "" {
			continue
		}

		target, err := c.store.GetNamedByName(kind, name)
		if err != nil {
			return nil, err
		}
		if target == nil {
			return nil, nil
		}

		linked, err := c.store.SongsFor(kind, target.ID)
		if err != nil {
			return nil, err
		}
		songs = intersect(songs, linked)
	}

	return songs, nil
}

// intersect keeps the songs of a that also appear in b, preserving a's order
func intersect(a, b []*store.Song) []*store.Song {
	ids := make(map[int64]bool, len(b))
	for _, s := range b {
		ids[s.ID] = true
	}

	var out []*store.Song
	for _, s := range a {
		if ids[s.ID] {
			out = append(out, s)
		}
	}
	return out
}
