package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTitleFromContent(t *testing.T) {
	cases := []struct {
		name     string
		content  string
		fallback string
		want     string
	}{
		{
			name:     "prefix normalized",
			content:  "TITLE: Hello World\nBody",
			fallback: "https://example.com",
			want:     "Hello World",
		},
		{
			name:     "no prefix unchanged",
			content:  "Hello World\nBody",
			fallback: "https://example.com",
			want:     "Hello World",
		},
		{
			name:     "empty after stripping falls back",
			content:  "Title:   \nBody",
			fallback: "https://example.com",
			want:     "https://example.com",
		},
		{
			name:     "leading blank lines skipped",
			content:  "\n\n  Title: Go 1.22\n",
			fallback: "https://example.com",
			want:     "Go 1.22",
		},
		{
			name:     "empty page",
			content:  "",
			fallback: "https://example.com",
			want:     "https://example.com",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := extractTitleFromContent(tc.content, tc.fallback)
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExtractTitleFromContent_Truncates(t *testing.T) {
	got := extractTitleFromContent(strings.Repeat("é", 300), "x")
	assert.Equal(t, maxTitleLen, len([]rune(got)))
}

func TestReader_Title(t *testing.T) {
	var gotPath, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		fmt.Fprint(w, "Title: Structured Logging with slog\n\nURL Source: https://go.dev/blog/slog\n")
	}))
	defer srv.Close()

	title, err := NewReader(srv.URL, time.Second).Title(context.Background(), "https://go.dev/blog/slog")
	require.NoError(t, err)

	assert.Equal(t, "Structured Logging with slog", title)
	assert.Equal(t, "/https://go.dev/blog/slog", gotPath)
	assert.Equal(t, "text/plain", gotAccept)
}

func TestReader_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewReader(srv.URL, time.Second).Read(context.Background(), "https://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
