package mysql

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	rfqDomain "sourcing-workflow/internal/domain/rfq"
)

const maxListLimit = 100

type RfqRepository struct{ db *gorm.DB }

func NewRfqRepository(db *gorm.DB) *RfqRepository { return &RfqRepository{db: db} }

func (r *RfqRepository) Create(ctx context.Context, x *rfqDomain.Rfq) error {
	return r.db.WithContext(ctx).Create(x).Error
}

func (r *RfqRepository) GetByID(ctx context.Context, id uint64) (*rfqDomain.Rfq, error) {
	var out rfqDomain.Rfq
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *RfqRepository) ListByIDs(ctx context.Context, ids []uint64) ([]rfqDomain.Rfq, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []rfqDomain.Rfq
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&out).Error
	return out, err
}

func (r *RfqRepository) Save(ctx context.Context, x *rfqDomain.Rfq) error {
	return r.db.WithContext(ctx).Save(x).Error
}

func (r *RfqRepository) UpdateStatus(ctx context.Context, id uint64, from, to string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&rfqDomain.Rfq{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": at})
	return res.RowsAffected > 0, res.Error
}

var rfqDetailColumns = []string{"title", "description", "currency", "budget_amount", "valid_until", "updated_at"}

func (r *RfqRepository) SaveDetails(ctx context.Context, x *rfqDomain.Rfq, whenStatus string) (bool, error) {
	q := r.db.WithContext(ctx).Model(&rfqDomain.Rfq{}).Where("id = ?", x.ID)
	if whenStatus != "" {
		q = q.Where("status = ?", whenStatus)
	}
	res := q.Select(rfqDetailColumns).Updates(map[string]any{
		"title":         x.Title,
		"description":   x.Description,
		"currency":      x.Currency,
		"budget_amount": x.BudgetAmount,
		"valid_until":   x.ValidUntil,
		"updated_at":    x.UpdatedAt,
	})
	return res.RowsAffected > 0, res.Error
}

func (r *RfqRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&rfqDomain.Rfq{}, id).Error
}

// List pages through RFQs newest first. Filters are composed with squirrel
// and executed through gorm so the same connection (and tx) is used.
func (r *RfqRepository) List(ctx context.Context, f rfqDomain.ListFilter) ([]rfqDomain.Rfq, int64, error) {
	page, limit := normalizePage(f.Page, f.Limit)

	where := sq.And{}
	if f.Status != "" {
		where = append(where, sq.Eq{"status": f.Status})
	}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		where = append(where, sq.Like{"title": "%" + kw + "%"})
	}
	if f.CreatedBy != "" {
		where = append(where, sq.Eq{"created_by": f.CreatedBy})
	}

	countQ := sq.Select("COUNT(*)").From("rfqs")
	pageQ := sq.Select("*").From("rfqs").
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(uint64((page - 1) * limit))
	if len(where) > 0 {
		countQ = countQ.Where(where)
		pageQ = pageQ.Where(where)
	}

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build rfq count: %w", err)
	}
	var total int64
	if err := r.db.WithContext(ctx).Raw(countSQL, countArgs...).Scan(&total).Error; err != nil {
		return nil, 0, err
	}

	pageSQL, pageArgs, err := pageQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build rfq page: %w", err)
	}
	var out []rfqDomain.Rfq
	if err := r.db.WithContext(ctx).Raw(pageSQL, pageArgs...).Scan(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return page, limit
}

type ReviewRepository struct{ db *gorm.DB }

func NewReviewRepository(db *gorm.DB) *ReviewRepository { return &ReviewRepository{db: db} }

func (r *ReviewRepository) Create(ctx context.Context, x *rfqDomain.Review) error {
	return r.db.WithContext(ctx).Create(x).Error
}

func (r *ReviewRepository) ListByRfq(ctx context.Context, rfqID uint64) ([]rfqDomain.Review, error) {
	var out []rfqDomain.Review
	err := r.db.WithContext(ctx).Where("rfq_id = ?", rfqID).Order("reviewed_at DESC, id DESC").Find(&out).Error
	return out, err
}
