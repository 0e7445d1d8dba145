package statemachine

import (
	"context"

	"go.uber.org/zap"

	"sourcing-workflow/internal/domain/history"
)

// BestEffortHistory decorates a status history repository so Create never
// returns an error. Reads pass through untouched.
type BestEffortHistory struct {
	next history.StatusRepository
	log  *zap.Logger
}

func NewBestEffortHistory(next history.StatusRepository, log *zap.Logger) *BestEffortHistory {
	if log == nil {
		log = zap.NewNop()
	}
	return &BestEffortHistory{next: next, log: log}
}

func (b *BestEffortHistory) Create(ctx context.Context, h *history.StatusHistory) error {
	if b.next == nil {
		return nil
	}
	if err := b.next.Create(ctx, h); err != nil {
		b.log.Warn("status history write failed",
			zap.String("entity_type", h.EntityType),
			zap.Uint64("entity_id", h.EntityID),
			zap.String("from", h.FromStatus),
			zap.String("to", h.ToStatus),
			zap.Error(err),
		)
	}
	return nil
}

func (b *BestEffortHistory) ListByEntity(ctx context.Context, entityType string, entityID uint64) ([]history.StatusHistory, error) {
	if b.next == nil {
		return nil, nil
	}
	return b.next.ListByEntity(ctx, entityType, entityID)
}
