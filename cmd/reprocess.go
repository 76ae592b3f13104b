package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/notecards/internal/content"
	"github.com/user/notecards/internal/rpc"
)

var reprocessJSON bool

var reprocessCmd = &cobra.Command{
	Use:   "reprocess <id-or-url>",
	Short: "Fill in missing metadata for one item",
	Long:  "Read the page of one item, by ID or URL, and fill a missing title or YouTube thumbnail.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(nil)
		if err != nil {
			return err
		}
		defer s.Close()

		it, err := findItem(cmd, s.api, args[0])
		if err != nil {
			return err
		}

		patch, err := newEnricher(s.cfg, false).Patch(cmd.Context(), *it)
		if err != nil {
			return fmt.Errorf("reprocess failed: %w", err)
		}
		if patch.Empty() {
			fmt.Fprintf(cmd.OutOrStdout(), "Nothing to update: %s\n", it.URL)
			return nil
		}

		updated, err := s.api.Update(cmd.Context(), it.ID, patch)
		if err != nil {
			return fmt.Errorf("reprocess failed: %w", err)
		}

		if reprocessJSON {
			return outputJSON(cmd.OutOrStdout(), updated)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reprocessed: %s\n", updated.URL)
		fmt.Fprintf(cmd.OutOrStdout(), "Title: %s\n", updated.Title)
		return nil
	},
}

// findItem resolves an id, falling back to a URL match.
func findItem(cmd *cobra.Command, api rpc.API, idOrURL string) (*content.Item, error) {
	it, err := api.GetByID(cmd.Context(), idOrURL)
	if err == nil {
		return it, nil
	}
	if !errors.Is(err, content.ErrNotFound) && !errors.Is(err, content.ErrValidation) {
		return nil, err
	}

	items, listErr := api.ListAll(cmd.Context())
	if listErr != nil {
		return nil, listErr
	}
	for _, it := range items {
		if it.URL == idOrURL {
			return &it, nil
		}
	}
	return nil, fmt.Errorf("no item with id or url %s: %w", idOrURL, content.ErrNotFound)
}

func init() {
	reprocessCmd.Flags().BoolVarP(&reprocessJSON, "json", "j", false, "Output the updated item as JSON")
	rootCmd.AddCommand(reprocessCmd)
}
