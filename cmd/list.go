package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/notecards/internal/content"
	"github.com/user/notecards/internal/view"
)

var (
	listType      string
	listJSON      bool
	listPlaintext bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved content, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(nil)
		if err != nil {
			return err
		}
		defer s.Close()

		var items []content.Item
		if t := typeFilter(listType); t != view.All {
			items, err = s.api.GetByType(cmd.Context(), t)
		} else {
			items, err = s.api.ListAll(cmd.Context())
		}
		if err != nil {
			return fmt.Errorf("list failed: %w", err)
		}

		w := cmd.OutOrStdout()
		switch {
		case listJSON:
			return outputJSON(w, items)
		case listPlaintext:
			return outputPlaintext(w, items)
		default:
			return outputDefault(w, items)
		}
	},
}

func init() {
	listCmd.Flags().StringVarP(&listType, "type", "t", "", "Only list this content type")
	listCmd.Flags().BoolVarP(&listJSON, "json", "j", false, "Output as JSON")
	listCmd.Flags().BoolVarP(&listPlaintext, "plaintext", "p", false, "Output as plaintext")
	rootCmd.AddCommand(listCmd)
}
