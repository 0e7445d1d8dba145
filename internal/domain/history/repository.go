package history

import "context"

type StatusRepository interface {
	Create(ctx context.Context, h *StatusHistory) error
	ListByEntity(ctx context.Context, entityType string, entityID uint64) ([]StatusHistory, error)
}

type ApprovalRepository interface {
	Create(ctx context.Context, h *ApprovalHistory) error
	// ListByLineItem returns newest first.
	ListByLineItem(ctx context.Context, lineItemID uint64) ([]ApprovalHistory, error)
}
