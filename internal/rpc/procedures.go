package rpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/user/notecards/internal/access"
	"github.com/user/notecards/internal/content"
	"github.com/user/notecards/internal/db"
)

// Procedures runs each procedure against a store. Mutations are gated by the
// access policy and every input is validated before the store is touched.
type Procedures struct {
	store   db.Store
	policy  access.Policy
	log     *slog.Logger
	timeout time.Duration
}

// NewProcedures creates Procedures. A zero timeout leaves store calls bounded
// only by the caller's context.
func NewProcedures(store db.Store, policy access.Policy, logger *slog.Logger, timeout time.Duration) *Procedures {
	return &Procedures{
		store:   store,
		policy:  policy,
		log:     logger.With("component", "rpc"),
		timeout: timeout,
	}
}

var _ API = (*Procedures)(nil)

func (p *Procedures) ListAll(ctx context.Context) ([]content.Item, error) {
	p.start(ctx, ProcListAll)

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	items, err := p.store.List(ctx)
	if err != nil {
		return nil, p.storeError(ctx, ProcListAll, err)
	}
	return items, nil
}

func (p *Procedures) GetByID(ctx context.Context, id string) (*content.Item, error) {
	p.start(ctx, ProcGetByID)

	if err := content.ValidateID(id); err != nil {
		return nil, p.rejected(ctx, ProcGetByID, err)
	}

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	it, err := p.store.Get(ctx, id)
	if err != nil {
		return nil, p.storeError(ctx, ProcGetByID, err)
	}
	return it, nil
}

func (p *Procedures) GetByType(ctx context.Context, t content.Type) ([]content.Item, error) {
	p.start(ctx, ProcGetByType)

	if err := content.ValidateType(t); err != nil {
		return nil, p.rejected(ctx, ProcGetByType, err)
	}

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	items, err := p.store.ListByType(ctx, t)
	if err != nil {
		return nil, p.storeError(ctx, ProcGetByType, err)
	}
	return items, nil
}

func (p *Procedures) Create(ctx context.Context, d content.Draft) (*content.Item, error) {
	p.start(ctx, ProcCreate)

	if err := access.Guard(p.policy); err != nil {
		return nil, p.rejected(ctx, ProcCreate, err)
	}
	if err := d.Validate(); err != nil {
		return nil, p.rejected(ctx, ProcCreate, err)
	}

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	it, err := p.store.Create(ctx, d)
	if err != nil {
		return nil, p.storeError(ctx, ProcCreate, err)
	}

	p.log.InfoContext(ctx, "content created",
		slog.String("id", it.ID),
		slog.String("type", string(it.Type)),
		slog.String("request_id", RequestIDFromCtx(ctx)),
	)
	return it, nil
}

func (p *Procedures) Update(ctx context.Context, id string, patch content.Patch) (*content.Item, error) {
	p.start(ctx, ProcUpdate)

	if err := access.Guard(p.policy); err != nil {
		return nil, p.rejected(ctx, ProcUpdate, err)
	}
	if err := content.ValidateID(id); err != nil {
		return nil, p.rejected(ctx, ProcUpdate, err)
	}
	if err := patch.Validate(); err != nil {
		return nil, p.rejected(ctx, ProcUpdate, err)
	}

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	it, err := p.store.Update(ctx, id, patch)
	if err != nil {
		return nil, p.storeError(ctx, ProcUpdate, err)
	}

	p.log.InfoContext(ctx, "content updated",
		slog.String("id", it.ID),
		slog.String("request_id", RequestIDFromCtx(ctx)),
	)
	return it, nil
}

func (p *Procedures) Delete(ctx context.Context, id string) error {
	p.start(ctx, ProcDelete)

	if err := access.Guard(p.policy); err != nil {
		return p.rejected(ctx, ProcDelete, err)
	}
	if err := content.ValidateID(id); err != nil {
		return p.rejected(ctx, ProcDelete, err)
	}

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	if err := p.store.Delete(ctx, id); err != nil {
		return p.storeError(ctx, ProcDelete, err)
	}

	p.log.InfoContext(ctx, "content deleted",
		slog.String("id", id),
		slog.String("request_id", RequestIDFromCtx(ctx)),
	)
	return nil
}

func (p *Procedures) Describe(ctx context.Context) (*Description, error) {
	p.start(ctx, ProcDescribe)

	return &Description{
		PublicMode: access.Guard(p.policy) != nil,
		Features:   access.Features(p.policy),
		Types:      content.Types(),
	}, nil
}

func (p *Procedures) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.timeout)
}

func (p *Procedures) start(ctx context.Context, proc string) {
	p.log.DebugContext(ctx, "procedure called",
		slog.String("procedure", proc),
		slog.String("request_id", RequestIDFromCtx(ctx)),
	)
}

// rejected logs a policy or validation failure and returns err unchanged.
func (p *Procedures) rejected(ctx context.Context, proc string, err error) error {
	msg := "invalid input"
	if errors.Is(err, content.ErrForbidden) {
		msg = "mutation blocked"
	}
	p.log.WarnContext(ctx, msg,
		slog.String("procedure", proc),
		slog.String("error", err.Error()),
		slog.String("request_id", RequestIDFromCtx(ctx)),
	)
	return err
}

// storeError passes domain errors through and hides everything else behind
// content.ErrStoreUnavailable. The full error is only logged.
func (p *Procedures) storeError(ctx context.Context, proc string, err error) error {
	switch {
	case errors.Is(err, content.ErrNotFound):
		return err
	case errors.Is(err, content.ErrValidation), errors.Is(err, content.ErrForbidden):
		return p.rejected(ctx, proc, err)
	}

	p.log.ErrorContext(ctx, "store error",
		slog.String("procedure", proc),
		slog.String("error", err.Error()),
		slog.String("request_id", RequestIDFromCtx(ctx)),
	)
	return content.ErrStoreUnavailable
}
