package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/franz/music-catalog/internal/store"
	"github.com/franz/music-catalog/internal/util"
	"github.com/franz/music-catalog/internal/verify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var fileCmd = &cobra.Command{
	Use:   "file",
	Short: "Manage media file records",
}

var fileAddCmd = &cobra.Command{
	Use:   "add PATH",
	Short: "Register a library-relative file path",
	Args:  cobra.ExactArgs(1),
	RunE:  runFileAdd,
}

var fileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List file records and the songs that claim them",
	Args:  cobra.NoArgs,
	RunE:  runFileList,
}

var fileRmCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"delete"},
	Short:   "Delete a file record; a claiming song keeps its metadata",
	Args:    cobra.ExactArgs(1),
	RunE:    runFileRm,
}

var fileVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that every file record exists under the library root",
	Long: `Stat every file record under the library root and report records whose
file is missing or is not a regular file. Nothing is changed.

Exits non-zero when problems are found.`,
	Args: cobra.NoArgs,
	RunE: runFileVerify,
}

func init() {
	rootCmd.AddCommand(fileCmd)
	fileCmd.AddCommand(fileAddCmd, fileListCmd, fileRmCmd, fileVerifyCmd)

	fileListCmd.Flags().Bool("unclaimed", false, "only files no song claims")

	fileVerifyCmd.Flags().Int("concurrency", defaultVerifyConcurrency, "number of concurrent stat calls")
	viper.BindPFlag("verify.concurrency", fileVerifyCmd.Flags().Lookup("concurrency"))
}

func runFileAdd(cmd *cobra.Command, args []string) error {
	c, closeCatalog, err := openCatalog()
	if err != nil {
		return err
	}
	defer closeCatalog()

	f, err := c.AddFile(args[0])
	if err != nil {
		return err
	}
	util.SuccessLog("Added file %d: %s", f.ID, f.RelativePath)
	fmt.Fprintln(cmd.OutOrStdout(), f.ID)
	return nil
}

func runFileList(cmd *cobra.Command, args []string) error {
	unclaimed, _ := cmd.Flags().GetBool("unclaimed")

	c, closeCatalog, err := openCatalog()
	if err != nil {
		return err
	}
	defer closeCatalog()

	var files []*store.File
	if unclaimed {
		files, err = c.Store().GetUnclaimedFiles()
	} else {
		files, err = c.Store().GetAllFiles()
	}
	if err != nil {
		return err
	}
	if len(files) == 0 {
		util.InfoLog("No files found")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPATH\tSONG")
	for _, f := range files {
		song, err := c.Store().GetSongByFileID(f.ID)
		if err != nil {
			return err
		}
		owner := "-"
		if song != nil {
			owner = fmt.Sprintf("%d %s", song.ID, song.Title)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", f.ID, f.RelativePath, owner)
	}
	return tw.Flush()
}

func runFileRm(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	c, closeCatalog, err := openCatalog()
	if err != nil {
		return err
	}
	defer closeCatalog()

	owner, err := c.DeleteFile(id)
	if err != nil {
		return err
	}
	if owner != nil {
		util.WarnLog("Song %d (%s) no longer has a file", owner.ID, owner.Title)
	}
	util.SuccessLog("Deleted file %d", id)
	return nil
}

func runFileVerify(cmd *cobra.Command, args []string) error {
	root := libraryRoot()
	if root == "" {
		return errors.New("no library root configured (use --library or MCAT_LIBRARY)")
	}

	c, closeCatalog, err := openCatalog()
	if err != nil {
		return err
	}
	defer closeCatalog()

	files, err := c.Store().GetAllFiles()
	if err != nil {
		return err
	}

	retry := util.DefaultRetryConfig()
	if GetConfigBool("network-db") {
		retry = util.NASRetryConfig()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	v := verify.New(&verify.Config{
		LibraryRoot:  root,
		Concurrency:  GetConfigInt("verify.concurrency", defaultVerifyConcurrency),
		Retry:        retry,
		// debug lines would tear through the bar
		ShowProgress: !util.IsQuiet() && !util.IsVerbose() && util.StderrIsTerminal(),
	})

	util.InfoLog("Verifying %d file(s) under %s", len(files), root)
	result, err := v.Run(ctx, files)
	if err != nil {
		return err
	}

	if len(result.Problems) > 0 {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSTATUS\tPATH\tERROR")
		for _, p := range result.Problems {
			msg := "-"
			if p.Err != nil {
				msg = p.Err.Error()
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.File.ID, p.Status, p.File.RelativePath, msg)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	util.InfoLog("Checked %d file(s), %d ok (%s)", result.Checked, result.OK, humanize.Bytes(uint64(result.TotalSize)))
	if len(result.Problems) > 0 {
		return fmt.Errorf("%d file record(s) have problems", len(result.Problems))
	}
	util.SuccessLog("All files present")
	return nil
}
