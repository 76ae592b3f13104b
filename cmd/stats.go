package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/notecards/internal/view"
)

var (
	statsType string
	statsJSON bool
)

var statsCmd = &cobra.Command{
	Use:   "stats [query]",
	Short: "Count saved content per type",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(nil)
		if err != nil {
			return err
		}
		defer s.Close()

		items, err := s.api.ListAll(cmd.Context())
		if err != nil {
			return fmt.Errorf("stats failed: %w", err)
		}
		res := view.Derive(items, strings.Join(args, " "), typeFilter(statsType))

		if statsJSON {
			return outputJSON(cmd.OutOrStdout(), res.Stats)
		}
		return outputStats(cmd.OutOrStdout(), res.Stats)
	},
}

func init() {
	statsCmd.Flags().StringVarP(&statsType, "type", "t", "", "Only count this content type")
	statsCmd.Flags().BoolVarP(&statsJSON, "json", "j", false, "Output as JSON")
	rootCmd.AddCommand(statsCmd)
}
