package verify

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/franz/music-catalog/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel string, size int) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0644))
}

func TestVerifierRun(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Artist/Album/01.flac", 100)
	writeFile(t, root, "Artist/Album/02.flac", 50)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Artist/Folder.flac"), 0755))

	files := []*store.File{
		{ID: 1, RelativePath: "Artist/Album/01.flac"},
		{ID: 4, RelativePath: "Artist/Folder.flac"},
		{ID: 2, RelativePath: "Artist/Album/02.flac"},
		{ID: 3, RelativePath: "Gone/03.flac"},
	}

	v := New(&Config{LibraryRoot: root, Concurrency: 2})
	res, err := v.Run(context.Background(), files)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Checked)
	assert.Equal(t, 2, res.OK)
	assert.Equal(t, int64(150), res.TotalSize)

	require.Len(t, res.Problems, 2)
	assert.Equal(t, int64(3), res.Problems[0].File.ID)
	assert.Equal(t, StatusMissing, res.Problems[0].Status)
	assert.Equal(t, int64(4), res.Problems[1].File.ID)
	assert.Equal(t, StatusNotRegular, res.Problems[1].Status)
}

func TestVerifierWithStore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "present.mp3", 10)

	st, err := store.Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	defer st.Close()

	_, err = st.EnsureFile("present.mp3")
	require.NoError(t, err)
	_, err = st.EnsureFile("absent.mp3")
	require.NoError(t, err)

	files, err := st.GetAllFiles()
	require.NoError(t, err)

	res, err := New(&Config{LibraryRoot: root}).Run(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, res.Problems, 1)
	assert.Equal(t, "absent.mp3", res.Problems[0].File.RelativePath)
}

func TestVerifierRequiresRoot(t *testing.T) {
	_, err := New(&Config{}).Run(context.Background(), nil)
	assert.Error(t, err)

	_, err = New(&Config{LibraryRoot: filepath.Join(t.TempDir(), "nope")}).Run(context.Background(), nil)
	assert.Error(t, err)
}

func TestVerifierCancelled(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(&Config{LibraryRoot: root}).Run(ctx, []*store.File{{ID: 1, RelativePath: "a.mp3"}})
	assert.ErrorIs(t, err, context.Canceled)
}
