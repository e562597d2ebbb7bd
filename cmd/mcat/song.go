package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/franz/music-catalog/internal/catalog"
	"github.com/franz/music-catalog/internal/meta"
	"github.com/franz/music-catalog/internal/store"
	"github.com/franz/music-catalog/internal/util"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var songCmd = &cobra.Command{
	Use:   "song",
	Short: "Add, inspect and edit songs",
}

var songAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a song with its file, artists, albums and genres",
	Long: `Add a song to the catalog in a single transaction.

Artists, albums and genres are created when they do not exist yet and
reused otherwise. --file registers the library-relative path if needed.

--from-tags reads title, artists, album and genre from one audio file's
embedded tags and links the song to that file. Explicit flags win over
values read from tags.`,
	Args: cobra.NoArgs,
	RunE: runSongAdd,
}

var songShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a song with its file and links",
	Args:  cobra.ExactArgs(1),
	RunE:  runSongShow,
}

var songListCmd = &cobra.Command{
	Use:   "list",
	Short: "List songs, optionally filtered",
	Args:  cobra.NoArgs,
	RunE:  runSongList,
}

var songEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change a song's title, source, YouTube ID or thumbnail",
	Args:  cobra.ExactArgs(1),
	RunE:  runSongEdit,
}

var songRmCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"delete"},
	Short:   "Delete a song and its artist, album and genre links",
	Long: `Delete a song. Its rows in songs_artists, songs_albums and songs_genres
are removed with it. The file record is kept and becomes unclaimed.`,
	Args: cobra.ExactArgs(1),
	RunE: runSongRm,
}

var songSetFileCmd = &cobra.Command{
	Use:   "set-file ID [PATH]",
	Short: "Link a song to a file, or release its file with --clear",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runSongSetFile,
}

var songTagCmd = &cobra.Command{
	Use:   "tag ID",
	Short: "Link a song to artists, albums or genres",
	Args:  cobra.ExactArgs(1),
	RunE:  runSongTag,
}

var songUntagCmd = &cobra.Command{
	Use:   "untag ID",
	Short: "Remove links between a song and artists, albums or genres",
	Args:  cobra.ExactArgs(1),
	RunE:  runSongUntag,
}

func init() {
	rootCmd.AddCommand(songCmd)
	songCmd.AddCommand(songAddCmd, songShowCmd, songListCmd, songEditCmd,
		songRmCmd, songSetFileCmd, songTagCmd, songUntagCmd)

	for _, c := range []*cobra.Command{songAddCmd, songEditCmd} {
		c.Flags().String("title", "", "song title")
		c.Flags().String("source", "", "where the song came from (e.g. youtube, cd)")
		c.Flags().String("youtube-id", "", "external video identifier")
		c.Flags().String("thumbnail", "", "thumbnail URL or path")
	}
	songAddCmd.Flags().String("file", "", "library-relative path of the media file")
	songAddCmd.Flags().String("from-tags", "", "prefill from this audio file's tags")

	for _, c := range []*cobra.Command{songAddCmd, songTagCmd, songUntagCmd} {
		addNameFlags(c)
	}
	songTagCmd.Flags().Bool("replace", false, "replace existing links of each given kind")

	songListCmd.Flags().String("title", "", "title contains (case-insensitive)")
	songListCmd.Flags().String("artist", "", "linked to this artist")
	songListCmd.Flags().String("album", "", "linked to this album")
	songListCmd.Flags().String("genre", "", "linked to this genre")

	songSetFileCmd.Flags().Bool("clear", false, "release the song's file")
}

// addNameFlags registers repeatable --artist/--album/--genre flags.
// StringArray keeps commas inside names intact.
func addNameFlags(c *cobra.Command) {
	c.Flags().StringArray("artist", nil, "artist name (repeatable)")
	c.Flags().StringArray("album", nil, "album name (repeatable)")
	c.Flags().StringArray("genre", nil, "genre name (repeatable)")
}

func nameFlags(cmd *cobra.Command) map[store.Kind][]string {
	out := make(map[store.Kind][]string, len(store.Kinds))
	for _, kind := range store.Kinds {
		names, _ := cmd.Flags().GetStringArray(string(kind))
		if len(names) > 0 {
			out[kind] = names
		}
	}
	return out
}

func runSongAdd(cmd *cobra.Command, args []string) error {
	entry := &catalog.Entry{}

	if tagPath, _ := cmd.Flags().GetString("from-tags"); tagPath != "" {
		if err := prefillFromTags(entry, tagPath); err != nil {
			return err
		}
	}

	if cmd.Flags().Changed("title") {
		entry.Title, _ = cmd.Flags().GetString("title")
	}
	entry.Source, _ = cmd.Flags().GetString("source")
	entry.YoutubeID, _ = cmd.Flags().GetString("youtube-id")
	entry.ThumbnailURL, _ = cmd.Flags().GetString("thumbnail")
	if cmd.Flags().Changed("file") {
		entry.FilePath, _ = cmd.Flags().GetString("file")
	}
	for kind, names := range nameFlags(cmd) {
		switch kind {
		case store.KindArtist:
			entry.Artists = names
		case store.KindAlbum:
			entry.Albums = names
		case store.KindGenre:
			entry.Genres = names
		}
	}

	if strings.TrimSpace(entry.Title) == "" {
		return errors.New("a title is required (--title or --from-tags)")
	}

	c, closeCatalog, err := openCatalog()
	if err != nil {
		return err
	}
	defer closeCatalog()

	id, err := c.Add(entry)
	if err != nil {
		return fmt.Errorf("failed to add song: %w", err)
	}

	util.SuccessLog("Added song %d: %s", id, entry.Title)
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}

// prefillFromTags fills entry from one audio file. The file is linked when
// it sits inside the library root.
func prefillFromTags(entry *catalog.Entry, path string) error {
	root := libraryRoot()
	if !filepath.IsAbs(path) && root != "" {
		path = filepath.Join(root, path)
	}

	tags, err := meta.ReadTags(path)
	if err != nil {
		return err
	}
	util.DebugLog("Read %s tags from %s", tags.Format, path)

	entry.Title = tags.Title
	entry.Artists = tags.Artists
	entry.Albums = tags.Albums
	entry.Genres = tags.Genres

	if root == "" {
		util.WarnLog("No library root configured; %s will not be linked", path)
		return nil
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		util.WarnLog("%s is outside the library root %s; not linking the file", path, root)
		return nil
	}
	entry.FilePath = filepath.ToSlash(rel)
	return nil
}

func runSongShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	c, closeCatalog, err := openCatalog()
	if err != nil {
		return err
	}
	defer closeCatalog()

	d, err := c.Get(id)
	if err != nil {
		return err
	}
	if d == nil {
		return fmt.Errorf("%w: %d", catalog.ErrSongNotFound, id)
	}

	printDetail(cmd.OutOrStdout(), d)
	return nil
}

func printDetail(w io.Writer, d *catalog.Detail) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	s := d.Song
	fmt.Fprintf(tw, "ID:\t%d\n", s.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", s.Title)
	printOptional(tw, "Source", s.Source)
	printOptional(tw, "YouTube ID", s.YoutubeID)
	printOptional(tw, "Thumbnail", s.ThumbnailURL)
	if d.File != nil {
		fmt.Fprintf(tw, "File:\t%s (file %d)\n", d.File.RelativePath, d.File.ID)
	} else {
		fmt.Fprintf(tw, "File:\t-\n")
	}
	for _, kind := range store.Kinds {
		fmt.Fprintf(tw, "%ss:\t%s\n", titleCase(string(kind)), joinNames(d.Links(kind)))
	}
}

var titleCase = cases.Title(language.English).String

func printOptional(w io.Writer, label, value string) {
	if value == "" {
		value = "-"
	}
	fmt.Fprintf(w, "%s:\t%s\n", label, value)
}

func joinNames(list []*store.Named) string {
	if len(list) == 0 {
		return "-"
	}
	names := make([]string, len(list))
	for i, n := range list {
		names[i] = n.Name
	}
	return strings.Join(names, "; ")
}

func runSongList(cmd *cobra.Command, args []string) error {
	var f catalog.Filter
	f.Title, _ = cmd.Flags().GetString("title")
	f.Artist, _ = cmd.Flags().GetString("artist")
	f.Album, _ = cmd.Flags().GetString("album")
	f.Genre, _ = cmd.Flags().GetString("genre")

	c, closeCatalog, err := openCatalog()
	if err != nil {
		return err
	}
	defer closeCatalog()

	songs, err := c.List(f)
	if err != nil {
		return err
	}
	if len(songs) == 0 {
		util.InfoLog("No songs found")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tARTISTS\tFILE")
	for _, s := range songs {
		artists, err := c.Store().ArtistsForSong(s.ID)
		if err != nil {
			return err
		}
		file := "-"
		if s.HasFile() {
			f, err := c.Store().GetFileByID(s.FileID)
			if err != nil {
				return err
			}
			if f != nil {
				file = f.RelativePath
			}
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.ID, s.Title, joinNames(artists), file)
	}
	return tw.Flush()
}

func runSongEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	c, closeCatalog, err := openCatalog()
	if err != nil {
		return err
	}
	defer closeCatalog()

	song, err := c.Store().GetSongByID(id)
	if err != nil {
		return err
	}
	if song == nil {
		return fmt.Errorf("%w: %d", catalog.ErrSongNotFound, id)
	}

	fields := map[string]*string{
		"title":      &song.Title,
		"source":     &song.Source,
		"youtube-id": &song.YoutubeID,
		"thumbnail":  &song.ThumbnailURL,
	}
	changed := false
	for flag, dest := range fields {
		if cmd.Flags().Changed(flag) {
			*dest, _ = cmd.Flags().GetString(flag)
			changed = true
		}
	}
	if !changed {
		return errors.New("nothing to change: pass --title, --source, --youtube-id or --thumbnail")
	}

	if err := c.Update(song); err != nil {
		return err
	}
	util.SuccessLog("Updated song %d", id)
	return nil
}

func runSongRm(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	c, closeCatalog, err := openCatalog()
	if err != nil {
		return err
	}
	defer closeCatalog()

	if err := c.Delete(id); err != nil {
		return err
	}
	util.SuccessLog("Deleted song %d", id)
	return nil
}

func runSongSetFile(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	clear, _ := cmd.Flags().GetBool("clear")

	var path string
	switch {
	case clear && len(args) == 2:
		return errors.New("pass either PATH or --clear, not both")
	case !clear && len(args) < 2:
		return errors.New("PATH is required unless --clear is set")
	case !clear:
		path = args[1]
	}

	c, closeCatalog, err := openCatalog()
	if err != nil {
		return err
	}
	defer closeCatalog()

	if err := c.SetFile(id, path); err != nil {
		return err
	}
	if clear {
		util.SuccessLog("Released file of song %d", id)
	} else {
		util.SuccessLog("Song %d now uses %s", id, path)
	}
	return nil
}

func runSongTag(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	replace, _ := cmd.Flags().GetBool("replace")

	byKind := nameFlags(cmd)
	if len(byKind) == 0 {
		return errors.New("pass at least one --artist, --album or --genre")
	}

	c, closeCatalog, err := openCatalog()
	if err != nil {
		return err
	}
	defer closeCatalog()

	if replace {
		if err := c.Replace(id, byKind); err != nil {
			return err
		}
		util.SuccessLog("Replaced tags of song %d", id)
		return nil
	}

	for _, kind := range store.Kinds {
		names, ok := byKind[kind]
		if !ok {
			continue
		}
		if err := c.Tag(id, kind, names); err != nil {
			return err
		}
	}

	util.SuccessLog("Tagged song %d", id)
	return nil
}

func runSongUntag(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	byKind := nameFlags(cmd)
	if len(byKind) == 0 {
		return errors.New("pass at least one --artist, --album or --genre")
	}

	c, closeCatalog, err := openCatalog()
	if err != nil {
		return err
	}
	defer closeCatalog()

	total := 0
	for _, kind := range store.Kinds {
		names, ok := byKind[kind]
		if !ok {
			continue
		}
		n, err := c.Untag(id, kind, names)
		if err != nil {
			return err
		}
		total += n
	}

	if total == 0 {
		util.WarnLog("Song %d had none of those links", id)
		return nil
	}
	util.SuccessLog("Removed %d link(s) from song %d", total, id)
	return nil
}
