package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/user/notecards/internal/logging"
	"github.com/user/notecards/internal/tui"
)

// v carries flag values into config.LoadWith so flags override env and file.
var v = viper.New()

var rootCmd = &cobra.Command{
	Use:   "notecards",
	Short: "Personal content dashboard",
	Long: "Save links to videos, articles, posts, music, movies, books and images, " +
		"then browse, search and filter them in a terminal dashboard or over HTTP.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(logging.Discard())
		if err != nil {
			return err
		}
		defer s.Close()

		return tui.Run(s.api)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("data-dir", "", "Data directory (default: ~/.notecards)")
	flags.String("server", "", "Talk to a notecards server at this URL instead of the local store")
	flags.String("store", "", "Store driver: sqlite or postgres")
	flags.String("dsn", "", "PostgreSQL connection string")
	flags.Bool("ephemeral", false, "Use an in-memory store that is discarded on exit")

	v.BindPFlag("data_dir", flags.Lookup("data-dir"))
	v.BindPFlag("server.url", flags.Lookup("server"))
	v.BindPFlag("store.driver", flags.Lookup("store"))
	v.BindPFlag("store.dsn", flags.Lookup("dsn"))
	v.BindPFlag("ephemeral", flags.Lookup("ephemeral"))
}
