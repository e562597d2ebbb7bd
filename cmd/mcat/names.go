package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/franz/music-catalog/internal/store"
	"github.com/franz/music-catalog/internal/util"
	"github.com/spf13/cobra"
)

func init() {
	for _, kind := range store.Kinds {
		rootCmd.AddCommand(newNamedCmd(kind))
	}
}

// newNamedCmd builds the artist, album and genre command groups
func newNamedCmd(kind store.Kind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(kind),
		Short: fmt.Sprintf("Manage %ss", kind),
	}

	add := &cobra.Command{
		Use:   "add NAME",
		Short: fmt.Sprintf("Add a %s", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closeCatalog, err := openCatalog()
			if err != nil {
				return err
			}
			defer closeCatalog()

			id, err := c.AddName(kind, args[0])
			if err != nil {
				return err
			}
			util.SuccessLog("Added %s %d: %s", kind, id, args[0])
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %ss with their song counts", kind),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closeCatalog, err := openCatalog()
			if err != nil {
				return err
			}
			defer closeCatalog()

			all, err := c.Store().ListNamed(kind)
			if err != nil {
				return err
			}
			if len(all) == 0 {
				util.InfoLog("No %ss in the catalog", kind)
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSONGS")
			for _, n := range all {
				songs, err := c.Store().SongsFor(kind, n.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%d\t%s\t%d\n", n.ID, n.Name, len(songs))
			}
			return tw.Flush()
		},
	}

	rm := &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   fmt.Sprintf("Delete a %s and its song links", kind),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			c, closeCatalog, err := openCatalog()
			if err != nil {
				return err
			}
			defer closeCatalog()

			links, err := c.DeleteName(kind, id)
			if err != nil {
				return err
			}
			util.SuccessLog("Deleted %s %d (%d song link(s) removed)", kind, id, links)
			return nil
		},
	}

	songs := &cobra.Command{
		Use:   "songs ID|NAME",
		Short: fmt.Sprintf("List the songs linked to a %s", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closeCatalog, err := openCatalog()
			if err != nil {
				return err
			}
			defer closeCatalog()

			target, err := lookupNamed(c.Store(), kind, args[0])
			if err != nil {
				return err
			}

			linked, err := c.Store().SongsFor(kind, target.ID)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE")
			for _, s := range linked {
				fmt.Fprintf(tw, "%d\t%s\n", s.ID, s.Title)
			}
			return tw.Flush()
		},
	}

	cmd.AddCommand(add, list, rm, songs)
	return cmd
}

// lookupNamed resolves a numeric ID first, then an exact name
func lookupNamed(st *store.Store, kind store.Kind, arg string) (*store.Named, error) {
	if id, err := parseID(arg); err == nil {
		n, err := st.GetNamedByID(kind, id)
		if err != nil {
			return nil, err
		}
		if n != nil {
			return n, nil
		}
	}

	n, err := st.GetNamedByName(kind, arg)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, fmt.Errorf("%w: %s %q", store.ErrNotFound, kind, arg)
	}
	return n, nil
}
