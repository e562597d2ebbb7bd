package store

import (
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrNotFound is returned when an update or delete matches no row
var ErrNotFound = errors.New("not found")

// IsUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY
// constraint failure: duplicate path, name, file claim or junction pair.
func IsUniqueViolation(err error) bool {
	code, msg, ok := constraintError(err)
	if !ok {
		return false
	}
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return strings.Contains(msg, "UNIQUE constraint failed")
}

// IsForeignKeyViolation reports whether err is a FOREIGN KEY constraint failure
func IsForeignKeyViolation(err error) bool {
	code, msg, ok := constraintError(err)
	if !ok {
		return false
	}
	if code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
		return true
	}
	return strings.Contains(msg, "FOREIGN KEY constraint failed")
}

// constraintError extracts the extended result code and message of a
// SQLITE_CONSTRAINT error anywhere in err's chain.
func constraintError(err error) (int, string, bool) {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return 0, "", false
	}
	code := sqliteErr.Code()
	// Primary result code lives in the low byte
	if code&0xff != sqlite3.SQLITE_CONSTRAINT {
		return 0, "", false
	}
	return code, sqliteErr.Error(), true
}
