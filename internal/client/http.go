// Package client talks to a notecards server and binds the listAll query to a
// loading/data/error state for the dashboard.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/user/notecards/internal/content"
	"github.com/user/notecards/internal/rpc"
)

// HTTP calls the procedures of a remote server. Errors come back as the same
// content sentinels the server produced.
type HTTP struct {
	baseURL string
	client  *http.Client
}

var _ rpc.API = (*HTTP)(nil)

// NewHTTP creates a client for the server at baseURL, e.g. http://localhost:8080.
func NewHTTP(baseURL string, timeout time.Duration) *HTTP {
	return &HTTP{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTP) ListAll(ctx context.Context) ([]content.Item, error) {
	items := make([]content.Item, 0)
	if err := c.call(ctx, rpc.ProcListAll, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *HTTP) GetByID(ctx context.Context, id string) (*content.Item, error) {
	var it content.Item
	if err := c.call(ctx, rpc.ProcGetByID, rpc.IDInput{ID: id}, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

func (c *HTTP) GetByType(ctx context.Context, t content.Type) ([]content.Item, error) {
	items := make([]content.Item, 0)
	if err := c.call(ctx, rpc.ProcGetByType, rpc.TypeInput{Type: t}, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *HTTP) Create(ctx context.Context, d content.Draft) (*content.Item, error) {
	var it content.Item
	if err := c.call(ctx, rpc.ProcCreate, d, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

func (c *HTTP) Update(ctx context.Context, id string, p content.Patch) (*content.Item, error) {
	var it content.Item
	if err := c.call(ctx, rpc.ProcUpdate, rpc.UpdateInput{ID: id, Data: p}, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

func (c *HTTP) Delete(ctx context.Context, id string) error {
	return c.call(ctx, rpc.ProcDelete, rpc.IDInput{ID: id}, nil)
}

func (c *HTTP) Describe(ctx context.Context) (*rpc.Description, error) {
	var d rpc.Description
	if err := c.call(ctx, rpc.ProcDescribe, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// call posts input to the procedure and decodes the result into out.
func (c *HTTP) call(ctx context.Context, proc string, input, out any) error {
	var body []byte
	if input != nil {
		var err error
		if body, err = json.Marshal(input); err != nil {
			return fmt.Errorf("encode %s input: %w", proc, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rpc/"+proc, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", proc, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", proc, content.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	var env rpc.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s: %w: unexpected response (status %d): %v",
			proc, content.ErrStoreUnavailable, resp.StatusCode, err)
	}
	if env.Error != nil {
		return env.Error
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: %w: status %d", proc, content.ErrStoreUnavailable, resp.StatusCode)
	}

	if out == nil || len(env.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("decode %s result: %w", proc, err)
	}
	return nil
}
