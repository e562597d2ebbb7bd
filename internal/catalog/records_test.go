package catalog

import (
	"errors"
	"testing"

	"github.com/franz/music-catalog/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddNameAndDelete(t *testing.T) {
	c := newTestCatalog(t)

	id, err := c.AddName(store.KindGenre, "  Drum  and   Bass ")
	require.NoError(t, err)

	g, err := c.Store().GetNamedByID(store.KindGenre, id)
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, "Drum and Bass", g.Name)

	_, err = c.AddName(store.KindGenre, "Drum and Bass")
	assert.True(t, store.IsUniqueViolation(err))

	_, err = c.Add(&Entry{Title: "Song A", Genres: []string{"Drum and Bass"}})
	require.NoError(t, err)
	_, err = c.Add(&Entry{Title: "Song B", Genres: []string{"Drum and Bass"}})
	require.NoError(t, err)

	links, err := c.DeleteName(store.KindGenre, id)
	require.NoError(t, err)
	assert.Equal(t, 2, links)

	n, err := c.Store().CountLinks(store.KindGenre)
	require.NoError(t, err)
	assert.Zero(t, n)

	songs, err := c.List(Filter{})
	require.NoError(t, err)
	assert.Len(t, songs, 2, "songs survive when their genre is deleted")

	_, err = c.DeleteName(store.KindGenre, id)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestAddFileAndDelete(t *testing.T) {
	c := newTestCatalog(t)

	f, err := c.AddFile("/incoming/track.flac")
	require.NoError(t, err)
	assert.Equal(t, "incoming/track.flac", f.RelativePath)

	_, err = c.AddFile("incoming/track.flac")
	assert.True(t, store.IsUniqueViolation(err))

	owner, err := c.DeleteFile(f.ID)
	require.NoError(t, err)
	assert.Nil(t, owner)

	songID, err := c.Add(&Entry{Title: "Claimed", FilePath: "claimed.mp3"})
	require.NoError(t, err)
	d, err := c.Get(songID)
	require.NoError(t, err)

	owner, err = c.DeleteFile(d.File.ID)
	require.NoError(t, err)
	require.NotNil(t, owner)
	assert.Equal(t, songID, owner.ID)

	d, err = c.Get(songID)
	require.NoError(t, err)
	assert.Nil(t, d.File)

	_, err = c.DeleteFile(d.Song.ID + 100)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
