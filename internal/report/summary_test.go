package report

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/franz/music-catalog/internal/store"
)

func TestGenerateSummary(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	db, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer db.Close()

	fileID, err := db.EnsureFile("a/b.flac")
	if err != nil {
		t.Fatal(err)
	}
	song := &store.Song{Title: "B", FileID: fileID}
	if err := db.InsertSong(song); err != nil {
		t.Fatal(err)
	}
	genreID, err := db.EnsureGenre("Ambient")
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Link(store.KindGenre, song.ID, genreID); err != nil {
		t.Fatal(err)
	}

	summary, err := GenerateSummary(db, dbPath)
	if err != nil {
		t.Fatalf("GenerateSummary failed: %v", err)
	}

	if summary.Stats.Songs != 1 || summary.Stats.GenreLinks != 1 {
		t.Errorf("unexpected stats: %+v", summary.Stats)
	}
	if summary.DatabaseBytes == 0 {
		t.Error("expected a non-zero database size")
	}

	var buf bytes.Buffer
	if err := summary.WriteText(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Songs:", "Genres:", "1 (1 links)", "schema v2"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
