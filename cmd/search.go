package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/notecards/internal/view"
)

var (
	searchType      string
	jsonOutput      bool
	plaintextOutput bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search saved content",
	Long: "Match the query, case-insensitively, against title, author, note, type, " +
		"location and URL. An empty query lists everything.",
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		s, err := openSession(nil)
		if err != nil {
			return err
		}
		defer s.Close()

		items, err := s.api.ListAll(cmd.Context())
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		res := view.Derive(items, query, typeFilter(searchType))

		w := cmd.OutOrStdout()
		switch {
		case jsonOutput:
			return outputJSON(w, res.Items)
		case plaintextOutput:
			return outputPlaintext(w, res.Items)
		}
		if summary := view.ResultSummary(len(res.Items), query); summary != "" {
			fmt.Fprintf(w, "%s\n\n", summary)
		}
		return outputDefault(w, res.Items)
	},
}

func init() {
	searchCmd.Flags().StringVarP(&searchType, "type", "t", "", "Only show this content type")
	searchCmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	searchCmd.Flags().BoolVarP(&plaintextOutput, "plaintext", "p", false, "Output as plaintext")
	rootCmd.AddCommand(searchCmd)
}
