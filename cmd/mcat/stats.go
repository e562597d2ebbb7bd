package main

import (
	"github.com/franz/music-catalog/internal/report"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show row counts for every catalog table",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	c, closeCatalog, err := openCatalog()
	if err != nil {
		return err
	}
	defer closeCatalog()

	summary, err := report.GenerateSummary(c.Store(), GetConfigString("db", defaultDBPath))
	if err != nil {
		return err
	}
	return summary.WriteText(cmd.OutOrStdout())
}
