package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/user/notecards/internal/content"
	"github.com/user/notecards/internal/enrich"
)

// Target is where imported drafts go. rpc.API satisfies it.
type Target interface {
	ListAll(ctx context.Context) ([]content.Item, error)
	Create(ctx context.Context, d content.Draft) (*content.Item, error)
}

// ImportOptions configures an import run
type ImportOptions struct {
	DryRun  bool // Report what would be added without writing
	Verbose bool // Print every added and failed URL
	Silent  bool // Suppress all output
}

// ImportResult counts what happened to the drafts of one source.
type ImportResult struct {
	Source  string
	Found   int
	Added   int
	Skipped int // already saved, or repeated within the source
	Failed  int
}

// Importer copies drafts from sources into a target, skipping URLs it
// already holds.
type Importer struct {
	target   Target
	enricher *enrich.Enricher
	out      io.Writer
}

// NewImporter builds an importer. A nil enricher leaves drafts as fetched.
func NewImporter(target Target, enricher *enrich.Enricher, out io.Writer) *Importer {
	if out == nil {
		out = io.Discard
	}
	return &Importer{target: target, enricher: enricher, out: out}
}

// Import fetches src and creates every draft whose URL is new. A draft the
// target rejects is counted and skipped; a forbidden or unavailable target
// stops the run.
func (im *Importer) Import(ctx context.Context, src Source, opts ImportOptions) (ImportResult, error) {
	res := ImportResult{Source: src.Name()}

	existing, err := im.target.ListAll(ctx)
	if err != nil {
		return res, fmt.Errorf("list existing items: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, it := range existing {
		seen[it.URL] = true
	}

	if !opts.Silent {
		fmt.Fprintf(im.out, "Fetching from %s...\n", src.Name())
	}
	drafts, err := src.Fetch(ctx)
	if err != nil {
		return res, fmt.Errorf("fetch %s: %w", src.Name(), err)
	}
	res.Found = len(drafts)

	verb := "Importing"
	if opts.DryRun {
		verb = "Checking"
	}

	for i, d := range drafts {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		im.progress(i+1, len(drafts), verb, opts)

		d.URL = strings.TrimSpace(d.URL)
		if seen[d.URL] {
			res.Skipped++
			continue
		}
		seen[d.URL] = true

		if im.enricher != nil {
			// A failed page read leaves the URL as title.
			_ = im.enricher.Draft(ctx, &d)
		}

		if opts.DryRun {
			if err := d.Validate(); err != nil {
				res.Failed++
				im.detail(opts, "  invalid %s: %v", d.URL, err)
				continue
			}
			res.Added++
			im.detail(opts, "  would add %s", d.URL)
			continue
		}

		if _, err := im.target.Create(ctx, d); err != nil {
			if errors.Is(err, content.ErrForbidden) || errors.Is(err, content.ErrStoreUnavailable) {
				im.endProgress(opts)
				return res, err
			}
			res.Failed++
			im.detail(opts, "  failed %s: %v", d.URL, err)
			continue
		}
		res.Added++
		im.detail(opts, "  added %s", d.URL)
	}
	im.endProgress(opts)

	if !opts.Silent {
		verb := "Added"
		if opts.DryRun {
			verb = "Would add"
		}
		fmt.Fprintf(im.out, "%s %d new %s items, skipped %d existing, %d failed\n",
			verb, res.Added, res.Source, res.Skipped, res.Failed)
	}
	return res, nil
}

func (im *Importer) detail(opts ImportOptions, format string, args ...any) {
	if opts.Silent || !opts.Verbose {
		return
	}
	fmt.Fprintf(im.out, "\n"+format+"\n", args...)
}

func (im *Importer) endProgress(opts ImportOptions) {
	if !opts.Silent {
		fmt.Fprintln(im.out)
	}
}

func (im *Importer) progress(current, total int, prefix string, opts ImportOptions) {
	if opts.Silent {
		return
	}
	fmt.Fprint(im.out, "\r"+progressLine(current, total, prefix))
}

func progressLine(current, total int, prefix string) string {
	const barWidth = 30
	filled := barWidth * current / total
	pct := float64(current) / float64(total) * 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	return fmt.Sprintf("%s [%s] %d/%d (%.0f%%)", prefix, bar, current, total, pct)
}
