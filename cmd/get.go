package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var getJSON bool

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one saved item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(nil)
		if err != nil {
			return err
		}
		defer s.Close()

		it, err := s.api.GetByID(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get failed: %w", err)
		}

		if getJSON {
			return outputJSON(cmd.OutOrStdout(), it)
		}
		return outputItem(cmd.OutOrStdout(), it)
	},
}

func init() {
	getCmd.Flags().BoolVarP(&getJSON, "json", "j", false, "Output as JSON")
	rootCmd.AddCommand(getCmd)
}
