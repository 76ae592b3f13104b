package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/notecards/internal/config"
	"github.com/user/notecards/internal/content"
	"github.com/user/notecards/internal/enrich"
)

var (
	addType    string
	addTitle   string
	addNote    string
	addJSON    bool
	addNoFetch bool
)

var addCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Save a link",
	Long: `Save a URL with its type, title and optional metadata.

A missing type is guessed from the URL. A missing title is read from the page
unless --no-fetch is set, in which case the URL stands in for it.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var t content.Type
		if addType != "" {
			t, _ = content.ParseType(addType)
		}
		draft := content.Draft{
			Type:      t,
			URL:       args[0],
			Title:     addTitle,
			Note:      addNote,
			Author:    optionalFlag(cmd, "author"),
			Thumbnail: optionalFlag(cmd, "thumbnail"),
			Duration:  optionalFlag(cmd, "duration"),
			Location:  optionalFlag(cmd, "location"),
		}

		s, err := openSession(nil)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := newEnricher(s.cfg, addNoFetch).Draft(cmd.Context(), &draft); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not read title: %v\n", err)
		}

		it, err := s.api.Create(cmd.Context(), draft)
		if err != nil {
			return fmt.Errorf("failed to add URL: %w", err)
		}

		if addJSON {
			return outputJSON(cmd.OutOrStdout(), it)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added: %s (%s)\n", it.Title, it.ID)
		return nil
	},
}

// newEnricher builds the metadata filler. Page reads are off when disabled in
// config or by noFetch.
func newEnricher(cfg *config.Config, noFetch bool) *enrich.Enricher {
	if noFetch || !cfg.Enrich.Enabled {
		return enrich.New(nil)
	}
	return enrich.New(enrich.NewReader(cfg.Enrich.ReaderURL, cfg.Enrich.Timeout))
}

// optionalFlag returns the flag's value only when it was given.
func optionalFlag(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	val, _ := cmd.Flags().GetString(name)
	return &val
}

// addOptionalFlags declares the optional metadata flags shared by add and update.
func addOptionalFlags(cmd *cobra.Command) {
	cmd.Flags().String("author", "", "Author, channel or artist")
	cmd.Flags().String("thumbnail", "", "Thumbnail image URL")
	cmd.Flags().String("duration", "", "Duration, e.g. 12:34")
	cmd.Flags().String("location", "", "Where it was saved from or refers to")
}

func init() {
	addCmd.Flags().StringVarP(&addType, "type", "t", "", "Content type (youtube, article, reddit, twitter, spotify, soundcloud, movie, book, image, video)")
	addCmd.Flags().StringVar(&addTitle, "title", "", "Title")
	addCmd.Flags().StringVarP(&addNote, "note", "n", "", "Personal note")
	addCmd.Flags().BoolVarP(&addJSON, "json", "j", false, "Output the created item as JSON")
	addCmd.Flags().BoolVar(&addNoFetch, "no-fetch", false, "Do not read the page to fill a missing title")
	addOptionalFlags(addCmd)
	rootCmd.AddCommand(addCmd)
}
