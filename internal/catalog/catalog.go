// Package catalog implements multi-table operations on the music catalog:
// adding a fully tagged song, re-tagging, and loading a song with all of
// its associations. Every mutation runs in one transaction.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/franz/music-catalog/internal/meta"
	"github.com/franz/music-catalog/internal/report"
	"github.com/franz/music-catalog/internal/store"
)

// ErrSongNotFound is returned when an operation names a song that does not exist
var ErrSongNotFound = errors.New("song not found")

// Entry describes a song together with the names it should be tagged with
type Entry struct {
	Title        string
	Source       string
	YoutubeID    string
	ThumbnailURL string
	FilePath     string // library-relative, optional
	Artists      []string
	Albums       []string
	Genres       []string
}

// Names returns the entry's names of the given kind
func (e *Entry) Names(kind store.Kind) []string {
	switch kind {
	case store.KindArtist:
		return e.Artists
	case store.KindAlbum:
		return e.Albums
	case store.KindGenre:
		return e.Genres
	}
	return nil
}

// Detail is a song with everything linked to it
type Detail struct {
	Song    *store.Song
	File    *store.File
	Artists []*store.Named
	Albums  []*store.Named
	Genres  []*store.Named
}

// Links returns the detail's linked entities of the given kind
func (d *Detail) Links(kind store.Kind) []*store.Named {
	switch kind {
	case store.KindArtist:
		return d.Artists
	case store.KindAlbum:
		return d.Albums
	case store.KindGenre:
		return d.Genres
	}
	return nil
}

// Catalog wraps a store with audit logging. The event logger may be nil.
type Catalog struct {
	store  *store.Store
	events *report.EventLogger
}

// New creates a Catalog
func New(st *store.Store, events *report.EventLogger) *Catalog {
	return &Catalog{store: st, events: events}
}

// Store returns the underlying store
func (c *Catalog) Store() *store.Store {
	return c.store
}

// Add inserts a song, its file and all of its names. Names are cleaned and
// de-duplicated; existing artists, albums and genres are reused.
// Nothing is written if any step fails.
func (c *Catalog) Add(e *Entry) (int64, error) {
	song := &store.Song{
		Title:        meta.CleanName(e.Title),
		Source:       strings.TrimSpace(e.Source),
		YoutubeID:    strings.TrimSpace(e.YoutubeID),
		ThumbnailURL: strings.TrimSpace(e.ThumbnailURL),
	}

	var pending []func()
	err := c.store.Transaction(func(tx *store.Store) error {
		var path string
		if e.FilePath != "" {
			var err error
			if path, err = store.CleanRelativePath(e.FilePath); err != nil {
				return err
			}
			if song.FileID, err = tx.EnsureFile(path); err != nil {
				return err
			}
		}

		if err := tx.InsertSong(song); err != nil {
			return err
		}
		pending = append(pending, func() {
			c.events.LogSong(report.EventSongAdded, song.ID, song.Title)
		})
		if song.HasFile() {
			pending = append(pending, func() {
				c.events.LogFile(report.EventFileClaimed, song.ID, song.FileID, path)
			})
		}

		for _, kind := range store.Kinds {
			events, err := c.linkNames(tx, kind, song.ID, e.Names(kind))
			if err != nil {
				return err
			}
			pending = append(pending, events...)
		}
		return nil
	})
	if err != nil {
		c.events.LogError("add", err)
		return 0, err
	}

	c.flush(pending)
	return song.ID, nil
}

// Get loads a song and everything linked to it. Returns nil, nil for an unknown ID.
func (c *Catalog) Get(songID int64) (*Detail, error) {
	song, err := c.store.GetSongByID(songID)
	if err != nil || song == nil {
		return nil, err
	}

	d := &Detail{Song: song}
	if song.HasFile() {
		if d.File, err = c.store.GetFileByID(song.FileID); err != nil {
			return nil, err
		}
	}

	if d.Artists, err = c.store.LinksForSong(store.KindArtist, songID); err != nil {
		return nil, err
	}
	if d.Albums, err = c.store.LinksForSong(store.KindAlbum, songID); err != nil {
		return nil, err
	}
	if d.Genres, err = c.store.LinksForSong(store.KindGenre, songID); err != nil {
		return nil, err
	}

	return d, nil
}

// Tag links a song to the named artists, albums or genres, creating them as
// needed. Names the song is already linked to are skipped.
func (c *Catalog) Tag(songID int64, kind store.Kind, names []string) error {
	var pending []func()
	err := c.store.Transaction(func(tx *store.Store) error {
		if err := requireSong(tx, songID); err != nil {
			return err
		}

		existing, err := tx.LinksForSong(kind, songID)
		if err != nil {
			return err
		}
		linked := make(map[string]bool, len(existing))
		for _, n := range existing {
			linked[n.Name] = true
		}

		var fresh []string
		for _, name := range meta.CleanNames(names) {
			if !linked[name] {
				fresh = append(fresh, name)
			}
		}

		pending, err = c.linkNames(tx, kind, songID, fresh)
		return err
	})
	if err != nil {
		c.events.LogError("tag", err)
		return err
	}

	c.flush(pending)
	return nil
}

// Untag removes the links between a song and the named entities.
// Unknown names and names that are not linked are ignored.
func (c *Catalog) Untag(songID int64, kind store.Kind, names []string) (int, error) {
	removed := 0
	var pending []func()
	err := c.store.Transaction(func(tx *store.Store) error {
		if err := requireSong(tx, songID); err != nil {
			return err
		}

		for _, name := range meta.CleanNames(names) {
			target, err := tx.GetNamedByName(kind, name)
			if err != nil {
				return err
			}
			if target == nil {
				continue
			}

			err = tx.Unlink(kind, songID, target.ID)
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}

			removed++
			pending = append(pending, func() {
				c.events.LogLink(report.EventUnlink, string(kind), songID, target.ID, name)
			})
		}
		return nil
	})
	if err != nil {
		c.events.LogError("untag", err)
		return 0, err
	}

	c.flush(pending)
	return removed, nil
}

// Retag replaces all of a song's links of one kind with the given names
func (c *Catalog) Retag(songID int64, kind store.Kind, names []string) error {
	return c.Replace(songID, map[store.Kind][]string{kind: names})
}

// Replace swaps the song's links for every kind in names in one
// transaction. Kinds missing from the map keep their links.
func (c *Catalog) Replace(songID int64, names map[store.Kind][]string) error {
	kinds := make([]store.Kind, 0, len(names))
	for kind := range names {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	var pending []func()
	err := c.store.Transaction(func(tx *store.Store) error {
		if err := requireSong(tx, songID); err != nil {
			return err
		}

		for _, kind := range kinds {
			if err := tx.UnlinkAll(kind, songID); err != nil {
				return err
			}
			events, err := c.linkNames(tx, kind, songID, names[kind])
			if err != nil {
				return err
			}
			pending = append(pending, events...)
		}
		return nil
	})
	if err != nil {
		c.events.LogError("retag", err)
		return err
	}

	c.flush(pending)
	return nil
}

// SetFile links a song to the file at relativePath, registering the file if
// needed. An empty path releases the song's current file.
func (c *Catalog) SetFile(songID int64, relativePath string) error {
	var (
		fileID int64
		path   string
	)
	err := c.store.Transaction(func(tx *store.Store) error {
		if err := requireSong(tx, songID); err != nil {
			return err
		}

		if relativePath != "" {
			var err error
			if path, err = store.CleanRelativePath(relativePath); err != nil {
				return err
			}
			if fileID, err = tx.EnsureFile(path); err != nil {
				return err
			}
		}
		return tx.SetSongFile(songID, fileID)
	})
	if err != nil {
		c.events.LogError("set-file", err)
		return err
	}

	if fileID == 0 {
		c.events.LogFile(report.EventFileRelease, songID, 0, "")
	} else {
		c.events.LogFile(report.EventFileClaimed, songID, fileID, path)
	}
	return nil
}

// Update rewrites a song's own columns
func (c *Catalog) Update(song *store.Song) error {
	song.Title = meta.CleanName(song.Title)
	if err := c.store.UpdateSong(song); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: %d", ErrSongNotFound, song.ID)
		}
		return err
	}
	c.events.LogSong(report.EventSongUpdated, song.ID, song.Title)
	return nil
}

// Delete removes a song; its artist, album and genre links go with it.
// The file record stays in the catalog, unclaimed.
func (c *Catalog) Delete(songID int64) error {
	song, err := c.store.GetSongByID(songID)
	if err != nil {
		return err
	}
	if song == nil {
		return fmt.Errorf("%w: %d", ErrSongNotFound, songID)
	}

	if err := c.store.DeleteSong(songID); err != nil {
		return err
	}
	c.events.LogSong(report.EventSongDeleted, songID, song.Title)
	return nil
}

// linkNames ensures every name exists and links it to the song. The
// returned events are logged once the transaction commits.
func (c *Catalog) linkNames(tx *store.Store, kind store.Kind, songID int64, names []string) ([]func(), error) {
	var events []func()
	for _, name := range meta.CleanNames(names) {
		existing, err := tx.GetNamedByName(kind, name)
		if err != nil {
			return nil, err
		}

		var targetID int64
		if existing != nil {
			targetID = existing.ID
		} else {
			if targetID, err = tx.InsertNamed(kind, name); err != nil {
				return nil, err
			}
			events = append(events, func() {
				c.events.LogName(report.EventNameAdded, string(kind), targetID, name)
			})
		}

		if err := tx.Link(kind, songID, targetID); err != nil {
			return nil, err
		}
		events = append(events, func() {
			c.events.LogLink(report.EventLink, string(kind), songID, targetID, name)
		})
	}
	return events, nil
}

func requireSong(tx *store.Store, songID int64) error {
	song, err := tx.GetSongByID(songID)
	if err != nil {
		return err
	}
	if song == nil {
		return fmt.Errorf("%w: %d", ErrSongNotFound, songID)
	}
	return nil
}

// flush writes events collected inside a transaction once it has committed
func (c *Catalog) flush(events []func()) {
	for _, fn := range events {
		fn()
	}
}
