package main

import (
	"fmt"
	"os"

	"github.com/franz/music-catalog/internal/catalog"
	"github.com/franz/music-catalog/internal/report"
	"github.com/franz/music-catalog/internal/store"
	"github.com/franz/music-catalog/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version is set at build time
	Version = "dev"

	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "mcat",
		Short: "Music catalog - songs, artists, albums, genres and their files",
		Long: `mcat manages a SQLite music catalog: songs with optional media files,
linked to any number of artists, albums and genres.

The database layout (file, song, artist, album, genre and the songs_*
junction tables) is shared with other tools that read the catalog.`,
		Version:           Version,
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/mcat.yaml or ./mcat.yaml)")
	rootCmd.PersistentFlags().String("db", defaultDBPath, "catalog database file")
	rootCmd.PersistentFlags().String("library", "", "library root that file paths are relative to")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "quiet output (errors only)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().Bool("network-db", false, "tune SQLite for a database on a network share")
	rootCmd.PersistentFlags().String("audit-dir", "", "write a JSONL audit log of catalog changes to this directory")

	for _, key := range []string{"db", "library", "verbose", "quiet", "no-color", "network-db", "audit-dir"} {
		viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key))
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.SetConfigName("mcat")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("MCAT")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && !viper.GetBool("quiet") {
		util.DebugLog("Using config file: %s", viper.ConfigFileUsed())
	}
}

func setupLogging(cmd *cobra.Command, args []string) error {
	util.SetOutput(cmd.ErrOrStderr())
	util.SetVerbose(GetConfigBool("verbose"))
	util.SetQuiet(GetConfigBool("quiet"))
	util.SetColors(!GetConfigBool("no-color") && util.StderrIsTerminal())
	return nil
}

// openCatalog opens the configured database and audit log.
// The returned func closes both.
func openCatalog() (*catalog.Catalog, func(), error) {
	dbPath := GetConfigString("db", defaultDBPath)

	st, err := store.OpenWithOptions(dbPath, &store.OpenOptions{
		NetworkOptimized: GetConfigBool("network-db"),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	util.DebugLog("Opened catalog %s", dbPath)

	var events *report.EventLogger
	if dir := GetConfigString("audit-dir", ""); dir != "" {
		events, err = report.NewEventLogger(dir, report.ParseLevel(GetConfigString("audit-level", "info")))
		if err != nil {
			st.Close()
			return nil, nil, err
		}
		util.DebugLog("Audit log: %s", events.Path())
	}

	closer := func() {
		if err := events.Close(); err != nil {
			util.WarnLog("Failed to close audit log: %v", err)
		}
		if err := st.Close(); err != nil {
			util.WarnLog("Failed to close database: %v", err)
		}
	}
	return catalog.New(st, events), closer, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", explain(err))
		os.Exit(1)
	}
}
