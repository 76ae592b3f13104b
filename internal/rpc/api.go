// Package rpc exposes the content procedures (listAll, getById, getByType,
// create, update, delete, describe) and serves them over HTTP as JSON.
package rpc

import (
	"context"

	"github.com/user/notecards/internal/access"
	"github.com/user/notecards/internal/content"
)

// API is the procedure set. Procedures implements it against a store;
// client.HTTP implements it against a remote server.
type API interface {
	ListAll(ctx context.Context) ([]content.Item, error)
	GetByID(ctx context.Context, id string) (*content.Item, error)
	GetByType(ctx context.Context, t content.Type) ([]content.Item, error)
	Create(ctx context.Context, d content.Draft) (*content.Item, error)
	Update(ctx context.Context, id string, p content.Patch) (*content.Item, error)
	Delete(ctx context.Context, id string) error
	Describe(ctx context.Context) (*Description, error)
}

// Description tells clients what the deployment allows.
type Description struct {
	PublicMode bool              `json:"publicMode"`
	Features   access.FeatureSet `json:"features"`
	Types      []content.Type    `json:"types"`
}

// Procedure names as they appear in the URL path.
const (
	ProcListAll   = "listAll"
	ProcGetByID   = "getById"
	ProcGetByType = "getByType"
	ProcCreate    = "create"
	ProcUpdate    = "update"
	ProcDelete    = "delete"
	ProcDescribe  = "describe"
)

// IDInput is the input of getById and delete.
type IDInput struct {
	ID string `json:"id"`
}

// TypeInput is the input of getByType.
type TypeInput struct {
	Type content.Type `json:"type"`
}

// UpdateInput is the input of update.
type UpdateInput struct {
	ID   string        `json:"id"`
	Data content.Patch `json:"data"`
}
