package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/user/notecards/internal/content"
)

// File reads a JSON array of items, such as the output of `list --json`.
// Ids and timestamps in the file are ignored; the store assigns new ones.
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Name() string {
	return f.path
}

func (f *File) Available() bool {
	info, err := os.Stat(f.path)
	return err == nil && !info.IsDir()
}

func (f *File) Fetch(ctx context.Context) ([]content.Draft, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}

	var drafts []content.Draft
	if err := json.Unmarshal(data, &drafts); err != nil {
		// Also take a saved listAll response.
		var env struct {
			Result []content.Draft `json:"result"`
		}
		if envErr := json.Unmarshal(data, &env); envErr != nil || env.Result == nil {
			return nil, fmt.Errorf("parse %s: %w", f.path, err)
		}
		drafts = env.Result
	}
	return drafts, nil
}
