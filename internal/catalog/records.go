package catalog

import (
	"github.com/franz/music-catalog/internal/meta"
	"github.com/franz/music-catalog/internal/report"
	"github.com/franz/music-catalog/internal/store"
)

// AddName inserts a new artist, album or genre. Existing names are rejected
// with a unique violation.
func (c *Catalog) AddName(kind store.Kind, name string) (int64, error) {
	name = meta.CleanName(name)
	id, err := c.store.InsertNamed(kind, name)
	if err != nil {
		c.events.LogError("add-"+string(kind), err)
		return 0, err
	}
	c.events.LogName(report.EventNameAdded, string(kind), id, name)
	return id, nil
}

// DeleteName removes an artist, album or genre together with its song links.
// Returns the number of links that went with it.
func (c *Catalog) DeleteName(kind store.Kind, id int64) (int, error) {
	var (
		name  string
		links int
	)
	err := c.store.Transaction(func(tx *store.Store) error {
		target, err := tx.GetNamedByID(kind, id)
		if err != nil {
			return err
		}
		if target != nil {
			name = target.Name
			songs, err := tx.SongsFor(kind, id)
			if err != nil {
				return err
			}
			links = len(songs)
		}
		return tx.DeleteNamed(kind, id)
	})
	if err != nil {
		c.events.LogError("delete-"+string(kind), err)
		return 0, err
	}
	c.events.LogName(report.EventNameDeleted, string(kind), id, name)
	return links, nil
}

// AddFile registers a library-relative path that no song claims yet
func (c *Catalog) AddFile(relativePath string) (*store.File, error) {
	f := &store.File{RelativePath: relativePath}
	if err := c.store.InsertFile(f); err != nil {
		c.events.LogError("add-file", err)
		return nil, err
	}
	c.events.LogFile(report.EventFileAdded, 0, f.ID, f.RelativePath)
	return f, nil
}

// DeleteFile removes a file record. The claiming song, if any, keeps its
// metadata and is returned so callers can report it.
func (c *Catalog) DeleteFile(id int64) (*store.Song, error) {
	var (
		path  string
		owner *store.Song
	)
	err := c.store.Transaction(func(tx *store.Store) error {
		f, err := tx.GetFileByID(id)
		if err != nil {
			return err
		}
		if f != nil {
			path = f.RelativePath
			if owner, err = tx.GetSongByFileID(id); err != nil {
				return err
			}
		}
		return tx.DeleteFile(id)
	})
	if err != nil {
		c.events.LogError("delete-file", err)
		return nil, err
	}

	var songID int64
	if owner != nil {
		songID = owner.ID
	}
	c.events.LogFile(report.EventFileDeleted, songID, id, path)
	return owner, nil
}
