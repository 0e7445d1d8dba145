package historymock

import (
	"context"
	"sync"

	"sourcing-workflow/internal/domain/history"
)

var (
	_ history.StatusRepository   = (*StatusRepo)(nil)
	_ history.ApprovalRepository = (*ApprovalRepo)(nil)
)

// StatusRepo is a function-backed mock. With no CreateFn it keeps rows in memory.
type StatusRepo struct {
	CreateFn       func(ctx context.Context, h *history.StatusHistory) error
	ListByEntityFn func(ctx context.Context, entityType string, entityID uint64) ([]history.StatusHistory, error)

	mu   sync.Mutex
	Rows []history.StatusHistory
}

func (m *StatusRepo) Create(ctx context.Context, h *history.StatusHistory) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, h)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rows = append(m.Rows, *h)
	return nil
}

func (m *StatusRepo) ListByEntity(ctx context.Context, entityType string, entityID uint64) ([]history.StatusHistory, error) {
	if m.ListByEntityFn != nil {
		return m.ListByEntityFn(ctx, entityType, entityID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []history.StatusHistory
	for _, r := range m.Rows {
		if r.EntityType == entityType && r.EntityID == entityID {
			out = append(out, r)
		}
	}
	return out, nil
}

// ApprovalRepo is a function-backed mock for approval history.
type ApprovalRepo struct {
	CreateFn         func(ctx context.Context, h *history.ApprovalHistory) error
	ListByLineItemFn func(ctx context.Context, lineItemID uint64) ([]history.ApprovalHistory, error)
}

func (m *ApprovalRepo) Create(ctx context.Context, h *history.ApprovalHistory) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, h)
	}
	return nil
}

func (m *ApprovalRepo) ListByLineItem(ctx context.Context, lineItemID uint64) ([]history.ApprovalHistory, error) {
	if m.ListByLineItemFn != nil {
		return m.ListByLineItemFn(ctx, lineItemID)
	}
	return nil, nil
}
