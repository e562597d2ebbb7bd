package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileInsertDuplicatePath(t *testing.T) {
	store := newTestStore(t)

	first := &File{RelativePath: "Artist/Album/01 Track.flac"}
	require.NoError(t, store.InsertFile(first))
	assert.NotZero(t, first.ID)

	err := store.InsertFile(&File{RelativePath: "Artist/Album/01 Track.flac"})
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err), "expected unique violation, got %v", err)
	assert.False(t, IsForeignKeyViolation(err))
}

func TestEnsureFileIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	id1, err := store.EnsureFile("./a/b.mp3")
	require.NoError(t, err)
	id2, err := store.EnsureFile("a/b.mp3")
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	f, err := store.GetFileByID(id1)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "a/b.mp3", f.RelativePath)
}

func TestCleanRelativePath(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"a/b.mp3", "a/b.mp3", false},
		{"./a//b.mp3", "a/b.mp3", false},
		{"/a/b.mp3", "a/b.mp3", false},
		{"  a/b.mp3 ", "a/b.mp3", false},
		{"", "", true},
		{".", "", true},
		{"../outside.mp3", "", true},
	}

	for _, tt := range tests {
		got, err := CleanRelativePath(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestNamedDuplicateName(t *testing.T) {
	for _, kind := range Kinds {
		t.Run(string(kind), func(t *testing.T) {
			store := newTestStore(t)

			_, err := store.InsertNamed(kind, "Hoshimachi Suisei")
			require.NoError(t, err)

			_, err = store.InsertNamed(kind, "Hoshimachi Suisei")
			require.Error(t, err)
			assert.True(t, IsUniqueViolation(err), "expected unique violation, got %v", err)
		})
	}
}

func TestEnsureNamedReturnsExisting(t *testing.T) {
	store := newTestStore(t)

	first, err := store.EnsureGenre("Japanese Pop")
	require.NoError(t, err)
	second, err := store.EnsureGenre("Japanese Pop")
	require.NoError(t, err)
	third, err := store.EnsureGenre("Japanese Rock")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(2), third)

	genres, err := store.ListNamed(KindGenre)
	require.NoError(t, err)
	assert.Len(t, genres, 2)
}

func TestNamedRejectsEmptyName(t *testing.T) {
	store := newTestStore(t)

	_, err := store.InsertNamed(KindAlbum, "   ")
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = store.EnsureNamed(Kind("label"), "x")
	assert.Error(t, err)
}

func TestSongWithoutRelations(t *testing.T) {
	store := newTestStore(t)

	song := &Song{Title: "Stellar Stellar"}
	require.NoError(t, store.InsertSong(song))
	assert.NotZero(t, song.ID)

	got, err := store.GetSongByID(song.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Stellar Stellar", got.Title)
	assert.False(t, got.HasFile())
	assert.Empty(t, got.Source)

	artists, err := store.ArtistsForSong(song.ID)
	require.NoError(t, err)
	assert.Empty(t, artists)
}

func TestSongRequiresTitle(t *testing.T) {
	store := newTestStore(t)
	assert.ErrorIs(t, store.InsertSong(&Song{Title: " "}), ErrTitleRequired)
}

func TestSongOptionalColumnsStoredAsNull(t *testing.T) {
	store := newTestStore(t)

	song := &Song{Title: "No Extras"}
	require.NoError(t, store.InsertSong(song))

	var nulls int
	err := store.db.QueryRow(`
		SELECT (source IS NULL) + (youtube_id IS NULL) + (thumbnail_url IS NULL) + (file_id IS NULL)
		FROM song WHERE id = ?`, song.ID).Scan(&nulls)
	require.NoError(t, err)
	assert.Equal(t, 4, nulls)
}

func TestSongFileClaim(t *testing.T) {
	store := newTestStore(t)

	fileID, err := store.EnsureFile("Suisei/Still Still Stellar/01.flac")
	require.NoError(t, err)

	first := &Song{
		Title:        "Stellar Stellar",
		Source:       "youtube",
		YoutubeID:    "a51VH9BYzZA",
		ThumbnailURL: "https://i.ytimg.com/vi/a51VH9BYzZA/hqdefault.jpg",
		FileID:       fileID,
	}
	require.NoError(t, store.InsertSong(first))

	got, err := store.GetSongByFileID(fileID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *first, *got)

	second := &Song{Title: "Another", FileID: fileID}
	err = store.InsertSong(second)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err), "expected unique violation, got %v", err)

	other := &Song{Title: "Another"}
	require.NoError(t, store.InsertSong(other))
	err = store.SetSongFile(other.ID, fileID)
	assert.True(t, IsUniqueViolation(err), "expected unique violation, got %v", err)
}

func TestSongUnknownFile(t *testing.T) {
	store := newTestStore(t)

	err := store.InsertSong(&Song{Title: "Ghost", FileID: 42})
	require.Error(t, err)
	assert.True(t, IsForeignKeyViolation(err), "expected foreign key violation, got %v", err)
}

func TestDeleteFileReleasesSong(t *testing.T) {
	store := newTestStore(t)

	fileID, err := store.EnsureFile("x.mp3")
	require.NoError(t, err)
	song := &Song{Title: "X", FileID: fileID}
	require.NoError(t, store.InsertSong(song))

	require.NoError(t, store.DeleteFile(fileID))

	got, err := store.GetSongByID(song.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.HasFile())

	assert.ErrorIs(t, store.DeleteFile(fileID), ErrNotFound)
}

func TestUpdateSong(t *testing.T) {
	store := newTestStore(t)

	song := &Song{Title: "Crossing Field", Source: "cd"}
	require.NoError(t, store.InsertSong(song))

	song.Title = "crossing field"
	song.Source = ""
	song.YoutubeID = "KId6eunoiWk"
	require.NoError(t, store.UpdateSong(song))

	got, err := store.GetSongByID(song.ID)
	require.NoError(t, err)
	assert.Equal(t, "crossing field", got.Title)
	assert.Empty(t, got.Source)
	assert.Equal(t, "KId6eunoiWk", got.YoutubeID)

	missing := &Song{ID: 999, Title: "nope"}
	assert.ErrorIs(t, store.UpdateSong(missing), ErrNotFound)
}

func TestFindSongsByTitle(t *testing.T) {
	store := newTestStore(t)

	for _, title := range []string{"Stellar Stellar", "Crossing Field", "100% Stellar"} {
		require.NoError(t, store.InsertSong(&Song{Title: title}))
	}

	songs, err := store.FindSongsByTitle("stellar")
	require.NoError(t, err)
	assert.Len(t, songs, 2)

	songs, err = store.FindSongsByTitle("100%")
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, "100% Stellar", songs[0].Title)
}

func TestLinkDuplicatePair(t *testing.T) {
	store := newTestStore(t)

	song := &Song{Title: "Stellar Stellar"}
	require.NoError(t, store.InsertSong(song))
	artistID, err := store.EnsureArtist("Hoshimachi Suisei")
	require.NoError(t, err)

	require.NoError(t, store.Link(KindArtist, song.ID, artistID))

	err = store.Link(KindArtist, song.ID, artistID)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err), "expected unique violation, got %v", err)
}

func TestLinkUnknownGenre(t *testing.T) {
	store := newTestStore(t)

	song := &Song{Title: "Stellar Stellar"}
	require.NoError(t, store.InsertSong(song))

	err := store.Link(KindGenre, song.ID, 12345)
	require.Error(t, err)
	assert.True(t, IsForeignKeyViolation(err), "expected foreign key violation, got %v", err)
	assert.False(t, IsUniqueViolation(err))
}

func TestLinkUnknownSong(t *testing.T) {
	store := newTestStore(t)

	albumID, err := store.EnsureAlbum("Still Still Stellar")
	require.NoError(t, err)

	err = store.Link(KindAlbum, 777, albumID)
	assert.True(t, IsForeignKeyViolation(err), "expected foreign key violation, got %v", err)
}

func TestLinksForSongInInsertOrder(t *testing.T) {
	store := newTestStore(t)

	song := &Song{Title: "Stellar Stellar"}
	require.NoError(t, store.InsertSong(song))
	a1, err := store.EnsureArtist("Hoshimachi Suisei")
	require.NoError(t, err)
	a2, err := store.EnsureArtist("Comet-chan")
	require.NoError(t, err)
	require.NoError(t, store.Link(KindArtist, song.ID, a1))
	require.NoError(t, store.Link(KindArtist, song.ID, a2))

	artists, err := store.ArtistsForSong(song.ID)
	require.NoError(t, err)
	assert.Equal(t, []*Named{
		{ID: a1, Name: "Hoshimachi Suisei"},
		{ID: a2, Name: "Comet-chan"},
	}, artists)

	songs, err := store.SongsFor(KindArtist, a2)
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, song.ID, songs[0].ID)
}

func TestUnlink(t *testing.T) {
	store := newTestStore(t)

	song := &Song{Title: "Song"}
	require.NoError(t, store.InsertSong(song))
	genreID, err := store.EnsureGenre("J-Pop")
	require.NoError(t, err)
	require.NoError(t, store.Link(KindGenre, song.ID, genreID))

	require.NoError(t, store.Unlink(KindGenre, song.ID, genreID))
	err = store.Unlink(KindGenre, song.ID, genreID)
	assert.True(t, errors.Is(err, ErrNotFound))

	n, err := store.CountLinks(KindGenre)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeleteSongCascadesLinks(t *testing.T) {
	store := newTestStore(t)

	song := &Song{Title: "Doomed"}
	require.NoError(t, store.InsertSong(song))
	keep := &Song{Title: "Survivor"}
	require.NoError(t, store.InsertSong(keep))

	artistID, err := store.EnsureArtist("A")
	require.NoError(t, err)
	albumID, err := store.EnsureAlbum("B")
	require.NoError(t, err)
	genreID, err := store.EnsureGenre("C")
	require.NoError(t, err)

	for _, id := range []int64{song.ID, keep.ID} {
		require.NoError(t, store.Link(KindArtist, id, artistID))
		require.NoError(t, store.Link(KindAlbum, id, albumID))
		require.NoError(t, store.Link(KindGenre, id, genreID))
	}

	require.NoError(t, store.DeleteSong(song.ID))
	assert.ErrorIs(t, store.DeleteSong(song.ID), ErrNotFound)

	for _, kind := range Kinds {
		n, err := store.CountLinks(kind)
		require.NoError(t, err)
		assert.Equal(t, 1, n, "%s links of the surviving song must remain", kind)
	}

	// the named rows themselves are not removed
	artist, err := store.GetNamedByID(KindArtist, artistID)
	require.NoError(t, err)
	assert.NotNil(t, artist)
}

func TestDeleteNamedCascadesLinks(t *testing.T) {
	store := newTestStore(t)

	song := &Song{Title: "Song"}
	require.NoError(t, store.InsertSong(song))
	artistID, err := store.EnsureArtist("Gone")
	require.NoError(t, err)
	require.NoError(t, store.Link(KindArtist, song.ID, artistID))

	require.NoError(t, store.DeleteNamed(KindArtist, artistID))

	artists, err := store.ArtistsForSong(song.ID)
	require.NoError(t, err)
	assert.Empty(t, artists)

	got, err := store.GetSongByID(song.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestGetUnclaimedFiles(t *testing.T) {
	store := newTestStore(t)

	claimed, err := store.EnsureFile("claimed.mp3")
	require.NoError(t, err)
	_, err = store.EnsureFile("loose.mp3")
	require.NoError(t, err)
	require.NoError(t, store.InsertSong(&Song{Title: "Claimer", FileID: claimed}))

	files, err := store.GetUnclaimedFiles()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "loose.mp3", files[0].RelativePath)
}

func TestErrorPredicatesIgnoreOtherErrors(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsForeignKeyViolation(errors.New("FOREIGN KEY constraint failed")))
	assert.False(t, IsUniqueViolation(ErrNotFound))
}
