package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/franz/music-catalog/internal/store"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		arg     string
		want    int64
		wantErr bool
	}{
		{"1", 1, false},
		{"42", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := parseID(tt.arg)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseID(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseID(%q) = %d, want %d", tt.arg, got, tt.want)
		}
	}
}

func TestExplain(t *testing.T) {
	wrapped := fmt.Errorf("failed to delete song: %w", store.ErrNotFound)
	if got := explain(wrapped).Error(); !strings.HasPrefix(got, "no such record") {
		t.Errorf("explain(not found) = %q", got)
	}

	plain := errors.New("boom")
	if explain(plain) != plain {
		t.Error("explain should pass through unrelated errors")
	}
}

func TestLookupNamed(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	id, err := st.InsertNamed(store.KindArtist, "Perfume")
	if err != nil {
		t.Fatalf("failed to insert artist: %v", err)
	}
	// a name that parses as an ID of a different row
	if _, err := st.InsertNamed(store.KindArtist, "1999"); err != nil {
		t.Fatalf("failed to insert artist: %v", err)
	}

	byID, err := lookupNamed(st, store.KindArtist, fmt.Sprint(id))
	if err != nil || byID.Name != "Perfume" {
		t.Errorf("lookup by id = %+v, %v", byID, err)
	}

	byName, err := lookupNamed(st, store.KindArtist, "1999")
	if err != nil || byName.Name != "1999" {
		t.Errorf("lookup by numeric name = %+v, %v", byName, err)
	}

	if _, err := lookupNamed(st, store.KindArtist, "Nobody"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
