// Package sources pulls saved links out of other tools so they can be
// imported as content items.
package sources

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/user/notecards/internal/content"
)

// Source yields drafts to import.
type Source interface {
	// Name identifies the source on the command line (raindrop, x, or a file path).
	Name() string
	// Available reports whether the source can be read, e.g. its CLI is installed.
	Available() bool
	Fetch(ctx context.Context) ([]content.Draft, error)
}

// runFunc runs a command and returns its stdout.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// runCommand sends stdout through a temp file. Some CLIs cut their output
// short when writing to a pipe, and bookmark dumps can be large.
func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	tmp, err := os.CreateTemp("", name+"-*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = tmp
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s failed: %w", name, err)
	}
	return os.ReadFile(tmp.Name())
}

func lookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
