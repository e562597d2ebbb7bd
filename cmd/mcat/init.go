package main

import (
	"fmt"

	"github.com/franz/music-catalog/internal/store"
	"github.com/franz/music-catalog/internal/util"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the catalog database or upgrade its schema",
	Long: `Create the catalog database if it does not exist and apply any pending
schema migrations. Running init on an up-to-date catalog changes nothing.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dbPath := GetConfigString("db", defaultDBPath)

	st, err := store.OpenWithOptions(dbPath, &store.OpenOptions{
		NetworkOptimized: GetConfigBool("network-db"),
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	version, err := st.SchemaVersion()
	if err != nil {
		return err
	}

	util.SuccessLog("Catalog ready: %s (schema v%d, SQLite %s)", dbPath, version, store.SQLiteVersion())
	return nil
}
