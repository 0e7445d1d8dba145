package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	rfqDomain "sourcing-workflow/internal/domain/rfq"
	"sourcing-workflow/internal/domain/status"
)

type LineItemRepository struct{ db *gorm.DB }

func NewLineItemRepository(db *gorm.DB) *LineItemRepository { return &LineItemRepository{db: db} }

func (r *LineItemRepository) CreateBatch(ctx context.Context, items []rfqDomain.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *LineItemRepository) GetByID(ctx context.Context, id uint64) (*rfqDomain.LineItem, error) {
	var out rfqDomain.LineItem
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

// GetByIDForUpdate takes a row lock; sqlite drops the clause.
func (r *LineItemRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*rfqDomain.LineItem, error) {
	var out rfqDomain.LineItem
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return &out, res.Error
}

func (r *LineItemRepository) ListByRfq(ctx context.Context, rfqID uint64) ([]rfqDomain.LineItem, error) {
	var out []rfqDomain.LineItem
	err := r.db.WithContext(ctx).Where("rfq_id = ?", rfqID).Order("line_number").Find(&out).Error
	return out, err
}

func (r *LineItemRepository) ListByIDs(ctx context.Context, rfqID uint64, ids []uint64) ([]rfqDomain.LineItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []rfqDomain.LineItem
	err := r.db.WithContext(ctx).
		Where("rfq_id = ? AND id IN ?", rfqID, ids).
		Order("line_number").
		Find(&out).Error
	return out, err
}

func (r *LineItemRepository) ListByPO(ctx context.Context, poID uint64) ([]rfqDomain.LineItem, error) {
	var out []rfqDomain.LineItem
	err := r.db.WithContext(ctx).Where("po_id = ?", poID).Order("line_number").Find(&out).Error
	return out, err
}

func (r *LineItemRepository) ListByStatus(ctx context.Context, statuses ...string) ([]rfqDomain.LineItem, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	var out []rfqDomain.LineItem
	err := r.db.WithContext(ctx).
		Where("status IN ?", statuses).
		Order("updated_at, id").
		Find(&out).Error
	return out, err
}

func (r *LineItemRepository) ListAwaitingPurchaser(ctx context.Context, createdBy string) ([]rfqDomain.LineItem, error) {
	db := r.db.WithContext(ctx)
	owned := db.Session(&gorm.Session{NewDB: true}).
		Model(&rfqDomain.Rfq{}).
		Select("id").
		Where("created_by = ?", createdBy)

	var out []rfqDomain.LineItem
	err := db.
		Where("rfq_id IN (?)", owned).
		Where("status = ? OR (status = ? AND selected_quote_id IS NOT NULL)",
			status.LineItemPendingPO, status.LineItemDraft).
		Order("updated_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *LineItemRepository) ListAvailableForPO(ctx context.Context, rfqID uint64) ([]rfqDomain.LineItem, error) {
	var out []rfqDomain.LineItem
	err := r.db.WithContext(ctx).
		Where("rfq_id = ? AND status = ? AND po_id IS NULL AND selected_quote_id IS NOT NULL",
			rfqID, status.LineItemPendingPO).
		Order("line_number").
		Find(&out).Error
	return out, err
}

func (r *LineItemRepository) CountByRfq(ctx context.Context, rfqID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&rfqDomain.LineItem{}).Where("rfq_id = ?", rfqID).Count(&n).Error
	return n, err
}

func (r *LineItemRepository) CountBySelectedQuote(ctx context.Context, quoteID, exceptLineItemID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&rfqDomain.LineItem{}).
		Where("selected_quote_id = ? AND id <> ?", quoteID, exceptLineItemID).
		Count(&n).Error
	return n, err
}

func (r *LineItemRepository) Save(ctx context.Context, li *rfqDomain.LineItem) error {
	return r.db.WithContext(ctx).Save(li).Error
}

func (r *LineItemRepository) AssignPO(ctx context.Context, ids []uint64, poID uint64, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&rfqDomain.LineItem{}).
		Where("id IN ?", ids).
		Updates(map[string]any{"po_id": poID, "updated_at": at}).Error
}

func (r *LineItemRepository) ClearPO(ctx context.Context, poID uint64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&rfqDomain.LineItem{}).
		Where("po_id = ?", poID).
		Updates(map[string]any{"po_id": nil, "updated_at": at}).Error
}

func (r *LineItemRepository) DeleteByRfq(ctx context.Context, rfqID uint64) error {
	return r.db.WithContext(ctx).Where("rfq_id = ?", rfqID).Delete(&rfqDomain.LineItem{}).Error
}
