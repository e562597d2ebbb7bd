package main

import (
	"fmt"

	"github.com/franz/music-catalog/internal/export"
	"github.com/franz/music-catalog/internal/util"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the whole catalog as YAML or JSON",
	Long: `Write every song with its file path, artists, albums and genres, plus
the full file, artist, album and genre lists, as one YAML or JSON document.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("format", "f", "yaml", "output format: yaml or json")
	exportCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := export.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")

	c, closeCatalog, err := openCatalog()
	if err != nil {
		return err
	}
	defer closeCatalog()

	snap, err := export.Build(c)
	if err != nil {
		return err
	}

	if output == "" {
		return export.Write(cmd.OutOrStdout(), snap, format)
	}

	if err := export.WriteFile(output, snap, format); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	util.SuccessLog("Exported %d song(s) to %s", len(snap.Songs), output)
	return nil
}
