package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	quoteDomain "sourcing-workflow/internal/domain/quote"
	"sourcing-workflow/internal/domain/status"
)

type QuoteRepository struct{ db *gorm.DB }

func NewQuoteRepository(db *gorm.DB) *QuoteRepository { return &QuoteRepository{db: db} }

func (r *QuoteRepository) Create(ctx context.Context, q *quoteDomain.Quote) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *QuoteRepository) GetByID(ctx context.Context, id uint64) (*quoteDomain.Quote, error) {
	var out quoteDomain.Quote
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *QuoteRepository) ListByIDs(ctx context.Context, ids []uint64) ([]quoteDomain.Quote, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []quoteDomain.Quote
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&out).Error
	return out, err
}

func (r *QuoteRepository) Save(ctx context.Context, q *quoteDomain.Quote) error {
	return r.db.WithContext(ctx).Save(q).Error
}

func (r *QuoteRepository) UpdateStatus(ctx context.Context, id uint64, s string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&quoteDomain.Quote{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": s, "updated_at": at}).Error
}

func (r *QuoteRepository) ClearLatest(ctx context.Context, rfqID, supplierID uint64) error {
	return r.db.WithContext(ctx).
		Model(&quoteDomain.Quote{}).
		Where("rfq_id = ? AND supplier_id = ? AND is_latest = ?", rfqID, supplierID, true).
		Update("is_latest", false).Error
}

func (r *QuoteRepository) ListLatestByRfq(ctx context.Context, rfqID uint64) ([]quoteDomain.Quote, error) {
	var out []quoteDomain.Quote
	err := r.db.WithContext(ctx).
		Where("rfq_id = ? AND is_latest = ?", rfqID, true).
		Order("id").
		Find(&out).Error
	return out, err
}

func (r *QuoteRepository) GetLatestForSupplier(ctx context.Context, rfqID, supplierID uint64) (*quoteDomain.Quote, error) {
	var out quoteDomain.Quote
	res := r.db.WithContext(ctx).
		Where("rfq_id = ? AND supplier_id = ? AND is_latest = ?", rfqID, supplierID, true).
		Order("id DESC").
		First(&out)
	return &out, res.Error
}

func (r *QuoteRepository) CountSubmittedSuppliers(ctx context.Context, rfqID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&quoteDomain.Quote{}).
		Where("rfq_id = ? AND is_latest = ? AND status NOT IN ?",
			rfqID, true, []string{status.QuoteDraft, status.QuoteWithdrawn}).
		Distinct("supplier_id").
		Count(&n).Error
	return n, err
}

func (r *QuoteRepository) CreateLineItems(ctx context.Context, items []quoteDomain.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *QuoteRepository) ListLineItems(ctx context.Context, quoteIDs ...uint64) ([]quoteDomain.LineItem, error) {
	if len(quoteIDs) == 0 {
		return nil, nil
	}
	var out []quoteDomain.LineItem
	err := r.db.WithContext(ctx).Where("quote_id IN ?", quoteIDs).Order("quote_id, rfq_line_item_id").Find(&out).Error
	return out, err
}

func (r *QuoteRepository) GetLineItem(ctx context.Context, quoteID, rfqLineItemID uint64) (*quoteDomain.LineItem, error) {
	var out quoteDomain.LineItem
	res := r.db.WithContext(ctx).
		Where("quote_id = ? AND rfq_line_item_id = ?", quoteID, rfqLineItemID).
		First(&out)
	return &out, res.Error
}

func (r *QuoteRepository) ListAttachments(ctx context.Context, quoteIDs ...uint64) ([]quoteDomain.Attachment, error) {
	if len(quoteIDs) == 0 {
		return nil, nil
	}
	var out []quoteDomain.Attachment
	err := r.db.WithContext(ctx).Where("quote_id IN ?", quoteIDs).Order("id").Find(&out).Error
	return out, err
}
