package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	invDomain "sourcing-workflow/internal/domain/invitation"
)

type InvitationRepository struct{ db *gorm.DB }

func NewInvitationRepository(db *gorm.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

func (r *InvitationRepository) CreateBatch(ctx context.Context, items []invDomain.Invitation) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *InvitationRepository) ListByRfq(ctx context.Context, rfqID uint64) ([]invDomain.Invitation, error) {
	var out []invDomain.Invitation
	err := r.db.WithContext(ctx).Where("rfq_id = ?", rfqID).Order("id").Find(&out).Error
	return out, err
}

func (r *InvitationRepository) GetForSupplier(ctx context.Context, rfqID, supplierID uint64) (*invDomain.Invitation, error) {
	var out invDomain.Invitation
	res := r.db.WithContext(ctx).
		Where("rfq_id = ? AND supplier_id = ?", rfqID, supplierID).
		Order("id DESC").
		First(&out)
	return &out, res.Error
}

func (r *InvitationRepository) ListBySupplier(ctx context.Context, supplierID uint64, s string) ([]invDomain.Invitation, error) {
	q := r.db.WithContext(ctx).Where("supplier_id = ?", supplierID)
	if s != "" {
		q = q.Where("status = ?", s)
	}
	var out []invDomain.Invitation
	err := q.Order("invited_at DESC, id DESC").Find(&out).Error
	return out, err
}

func (r *InvitationRepository) CountActiveSuppliers(ctx context.Context, rfqID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&invDomain.Invitation{}).
		Where("rfq_id = ? AND status NOT IN ?", rfqID, invDomain.InactiveStatuses).
		Distinct("supplier_id").
		Count(&n).Error
	return n, err
}

func (r *InvitationRepository) MarkResponded(ctx context.Context, id uint64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&invDomain.Invitation{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": invDomain.StatusResponded, "responded_at": at, "updated_at": at}).Error
}

func (r *InvitationRepository) DeleteByRfq(ctx context.Context, rfqID uint64) error {
	return r.db.WithContext(ctx).Where("rfq_id = ?", rfqID).Delete(&invDomain.Invitation{}).Error
}
