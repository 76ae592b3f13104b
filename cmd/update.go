package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/notecards/internal/content"
)

var updateJSON bool

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change fields of a saved item",
	Long: "Change only the fields given as flags. Passing an empty value to " +
		"--author, --thumbnail, --duration or --location clears it.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patch := content.Patch{
			URL:       optionalFlag(cmd, "url"),
			Title:     optionalFlag(cmd, "title"),
			Note:      optionalFlag(cmd, "note"),
			Author:    optionalFlag(cmd, "author"),
			Thumbnail: optionalFlag(cmd, "thumbnail"),
			Duration:  optionalFlag(cmd, "duration"),
			Location:  optionalFlag(cmd, "location"),
		}
		if raw := optionalFlag(cmd, "type"); raw != nil {
			t, _ := content.ParseType(*raw)
			patch.Type = &t
		}

		s, err := openSession(nil)
		if err != nil {
			return err
		}
		defer s.Close()

		it, err := s.api.Update(cmd.Context(), args[0], patch)
		if err != nil {
			return fmt.Errorf("update failed: %w", err)
		}

		if updateJSON {
			return outputJSON(cmd.OutOrStdout(), it)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated: %s (%s)\n", it.Title, it.ID)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringP("type", "t", "", "Content type")
	updateCmd.Flags().String("url", "", "URL")
	updateCmd.Flags().String("title", "", "Title")
	updateCmd.Flags().StringP("note", "n", "", "Personal note")
	updateCmd.Flags().BoolVarP(&updateJSON, "json", "j", false, "Output the updated item as JSON")
	addOptionalFlags(updateCmd)
	rootCmd.AddCommand(updateCmd)
}
