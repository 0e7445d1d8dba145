package mysql

import (
	"context"

	"gorm.io/gorm"

	"sourcing-workflow/internal/domain/history"
)

type StatusHistoryRepository struct{ db *gorm.DB }

func NewStatusHistoryRepository(db *gorm.DB) *StatusHistoryRepository {
	return &StatusHistoryRepository{db: db}
}

func (r *StatusHistoryRepository) Create(ctx context.Context, h *history.StatusHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *StatusHistoryRepository) ListByEntity(ctx context.Context, entityType string, entityID uint64) ([]history.StatusHistory, error) {
	var out []history.StatusHistory
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at, id").
		Find(&out).Error
	return out, err
}

// ApprovalHistoryRepository is insert and read only.
type ApprovalHistoryRepository struct{ db *gorm.DB }

func NewApprovalHistoryRepository(db *gorm.DB) *ApprovalHistoryRepository {
	return &ApprovalHistoryRepository{db: db}
}

func (r *ApprovalHistoryRepository) Create(ctx context.Context, h *history.ApprovalHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *ApprovalHistoryRepository) ListByLineItem(ctx context.Context, lineItemID uint64) ([]history.ApprovalHistory, error) {
	var out []history.ApprovalHistory
	err := r.db.WithContext(ctx).
		Where("rfq_line_item_id = ?", lineItemID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}
