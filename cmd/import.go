package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/notecards/internal/sources"
)

var (
	importDryRun      bool
	importVerbose     bool
	importFetchTitles bool
)

var importCmd = &cobra.Command{
	Use:   "import [raindrop|x|<file.json>]...",
	Short: "Import links from Raindrop, X or a JSON export",
	Long: `Import saved links. Links whose URL is already saved are skipped.

  raindrop     bookmarks from the raindrop CLI
  x            X bookmarks from the bird CLI
  <file.json>  a JSON array of items, such as the output of list --json

With no arguments, every installed CLI source is read.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		srcs, err := resolveSources(cmd, args)
		if err != nil {
			return err
		}

		s, err := openSession(nil)
		if err != nil {
			return err
		}
		defer s.Close()

		im := sources.NewImporter(s.api, newEnricher(s.cfg, !importFetchTitles), cmd.OutOrStdout())
		opts := sources.ImportOptions{DryRun: importDryRun, Verbose: importVerbose}

		var failed int
		for _, src := range srcs {
			res, err := im.Import(cmd.Context(), src, opts)
			if err != nil {
				return fmt.Errorf("import from %s: %w", src.Name(), err)
			}
			failed += res.Failed
		}
		if failed > 0 {
			return fmt.Errorf("%d links could not be imported", failed)
		}
		return nil
	},
}

func resolveSources(cmd *cobra.Command, args []string) ([]sources.Source, error) {
	if len(args) == 0 {
		var srcs []sources.Source
		for _, src := range []sources.Source{sources.NewRaindrop(), sources.NewTwitter()} {
			if src.Available() {
				srcs = append(srcs, src)
			}
		}
		if len(srcs) == 0 {
			return nil, fmt.Errorf("no sources available: install the raindrop or bird CLI, or pass a JSON file")
		}
		return srcs, nil
	}

	srcs := make([]sources.Source, 0, len(args))
	for _, arg := range args {
		var src sources.Source
		switch arg {
		case "raindrop":
			src = sources.NewRaindrop()
		case "x", "twitter":
			src = sources.NewTwitter()
		default:
			src = sources.NewFile(arg)
		}
		if !src.Available() {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s is not available, skipping\n", src.Name())
			continue
		}
		srcs = append(srcs, src)
	}
	if len(srcs) == 0 {
		return nil, fmt.Errorf("no sources available")
	}
	return srcs, nil
}

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Show what would be imported without saving")
	importCmd.Flags().BoolVarP(&importVerbose, "verbose", "v", false, "List every imported URL")
	importCmd.Flags().BoolVar(&importFetchTitles, "fetch-titles", false, "Read pages to fill missing titles (slow)")
	rootCmd.AddCommand(importCmd)
}
