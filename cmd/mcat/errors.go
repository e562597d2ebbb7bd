package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/franz/music-catalog/internal/store"
)

// explain prefixes constraint failures with what they mean for the catalog
func explain(err error) error {
	switch {
	case store.IsUniqueViolation(err):
		return fmt.Errorf("already in the catalog (duplicate path, name, file claim or link): %w", err)
	case store.IsForeignKeyViolation(err):
		return fmt.Errorf("refers to a song, file, artist, album or genre that does not exist: %w", err)
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("no such record: %w", err)
	}
	return err
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
