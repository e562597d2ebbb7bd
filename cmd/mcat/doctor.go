package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/franz/music-catalog/internal/store"
	"github.com/franz/music-catalog/internal/util"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run diagnostic checks on the catalog and configuration",
	Long: `Run diagnostic checks to ensure mcat can operate correctly.

This command checks:
- SQLite version
- Database accessibility and integrity
- Foreign key consistency of every table
- Schema version
- Library root accessibility

The database is opened read-only: doctor never creates, migrates or
writes to it.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

type checkResult struct {
	name    string
	message string
	error   bool
	warning bool
}

func runDoctor(cmd *cobra.Command, args []string) error {
	util.InfoLog("=== MCAT Doctor - Catalog Diagnostics ===")
	util.InfoLog("")

	results := []checkResult{checkSQLite()}
	results = append(results, checkDatabase(GetConfigString("db", defaultDBPath))...)
	if root := libraryRoot(); root != "" {
		results = append(results, checkLibrary(root))
	} else {
		results = append(results, checkResult{
			name:    "Library",
			warning: true,
			message: "no library root configured (file verify is unavailable)",
		})
	}

	util.InfoLog("")
	util.InfoLog("=== Diagnostic Results ===")
	util.InfoLog("")

	hasErrors := false
	hasWarnings := false

	for _, r := range results {
		symbol := "✓"
		if r.error {
			symbol = "✗"
			hasErrors = true
		} else if r.warning {
			symbol = "⚠"
			hasWarnings = true
		}

		line := fmt.Sprintf("[%s] %s", symbol, r.name)
		if r.message != "" {
			line += fmt.Sprintf(": %s", r.message)
		}

		if r.error {
			util.ErrorLog("%s", line)
		} else if r.warning {
			util.WarnLog("%s", line)
		} else {
			util.SuccessLog("%s", line)
		}
	}

	util.InfoLog("")
	if hasErrors {
		util.ErrorLog("❌ Some critical checks failed.")
		return fmt.Errorf("catalog diagnostics failed")
	} else if hasWarnings {
		util.WarnLog("⚠️  Some checks produced warnings.")
	} else {
		util.SuccessLog("✅ All checks passed!")
	}

	return nil
}

// checkSQLite verifies the embedded SQLite reports a version
func checkSQLite() checkResult {
	version := store.SQLiteVersion()
	if version == "" {
		return checkResult{
			name:    "SQLite",
			error:   true,
			message: "unable to determine version",
		}
	}

	return checkResult{
		name:    "SQLite",
		message: fmt.Sprintf("version %s (built-in)", version),
	}
}

// checkDatabase inspects an existing catalog read-only: integrity, foreign
// keys and schema version. A missing file is not an error.
func checkDatabase(dbPath string) []checkResult {
	if dbPath == "" {
		return []checkResult{{
			name:    "Database",
			warning: true,
			message: "no database path specified (use --db flag or config)",
		}}
	}

	info, err := os.Stat(dbPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []checkResult{{
				name:    "Database",
				message: fmt.Sprintf("%s (will be created by mcat init)", dbPath),
			}}
		}
		return []checkResult{{
			name:    "Database",
			error:   true,
			message: fmt.Sprintf("cannot access %s: %v", dbPath, err),
		}}
	}

	if !info.Mode().IsRegular() {
		return []checkResult{{
			name:    "Database",
			error:   true,
			message: fmt.Sprintf("%s is not a regular file", dbPath),
		}}
	}

	db, err := store.OpenReadOnly(dbPath)
	if err != nil {
		return []checkResult{{
			name:    "Database",
			error:   true,
			message: fmt.Sprintf("cannot open %s: %v", dbPath, err),
		}}
	}
	defer db.Close()

	if err := db.CheckIntegrity(); err != nil {
		return []checkResult{{
			name:    "Database",
			error:   true,
			message: fmt.Sprintf("integrity check failed: %v", err),
		}}
	}

	version, err := db.SchemaVersion()
	if err != nil {
		return []checkResult{{
			name:    "Database",
			error:   true,
			message: fmt.Sprintf("cannot read schema version: %v", err),
		}}
	}

	size := humanize.Bytes(uint64(info.Size()))
	if version < store.CurrentSchemaVersion {
		// Older catalogs may lack the tables Stats counts
		return []checkResult{
			{name: "Database", message: fmt.Sprintf("%s (%s)", dbPath, size)},
			checkForeignKeys(db),
			{
				name:    "Schema",
				warning: true,
				message: fmt.Sprintf("version %d, expected %d (run mcat init to upgrade)", version, store.CurrentSchemaVersion),
			},
		}
	}

	stats, err := db.Stats()
	if err != nil {
		return []checkResult{{
			name:    "Database",
			error:   true,
			message: fmt.Sprintf("cannot count rows: %v", err),
		}}
	}

	return []checkResult{
		{
			name:    "Database",
			message: fmt.Sprintf("%s (%s, %d songs, %d files)", dbPath, size, stats.Songs, stats.Files),
		},
		checkForeignKeys(db),
		schemaResult(version),
	}
}

func schemaResult(version int) checkResult {
	if version > store.CurrentSchemaVersion {
		return checkResult{
			name:    "Schema",
			warning: true,
			message: fmt.Sprintf("version %d is newer than this mcat (%d)", version, store.CurrentSchemaVersion),
		}
	}
	return checkResult{name: "Schema", message: fmt.Sprintf("version %d", version)}
}

// checkForeignKeys reports rows pointing at missing parents
func checkForeignKeys(db *store.Store) checkResult {
	violations, err := db.CheckForeignKeys()
	if err != nil {
		return checkResult{
			name:    "Foreign keys",
			error:   true,
			message: err.Error(),
		}
	}
	if len(violations) > 0 {
		v := violations[0]
		return checkResult{
			name:    "Foreign keys",
			error:   true,
			message: fmt.Sprintf("%d dangling reference(s), first: %s row %d -> %s", len(violations), v.Table, v.RowID, v.Parent),
		}
	}
	return checkResult{
		name:    "Foreign keys",
		message: "consistent",
	}
}

// checkLibrary verifies the library root is a readable directory
func checkLibrary(path string) checkResult {
	info, err := os.Stat(path)
	if err != nil {
		return checkResult{
			name:    "Library",
			error:   true,
			message: fmt.Sprintf("cannot access %s: %v", path, err),
		}
	}

	if !info.IsDir() {
		return checkResult{
			name:    "Library",
			error:   true,
			message: fmt.Sprintf("%s is not a directory", path),
		}
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return checkResult{
			name:    "Library",
			error:   true,
			message: fmt.Sprintf("cannot read %s: %v", path, err),
		}
	}

	return checkResult{
		name:    "Library",
		message: fmt.Sprintf("%s (%d entries)", path, len(entries)),
	}
}
