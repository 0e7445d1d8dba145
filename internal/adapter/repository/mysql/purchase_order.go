package mysql

import (
	"context"

	"gorm.io/gorm"

	poDomain "sourcing-workflow/internal/domain/purchaseorder"
)

type PurchaseOrderRepository struct{ db *gorm.DB }

func NewPurchaseOrderRepository(db *gorm.DB) *PurchaseOrderRepository {
	return &PurchaseOrderRepository{db: db}
}

func (r *PurchaseOrderRepository) Create(ctx context.Context, po *poDomain.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(po).Error
}

func (r *PurchaseOrderRepository) GetByID(ctx context.Context, id uint64) (*poDomain.PurchaseOrder, error) {
	var out poDomain.PurchaseOrder
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *PurchaseOrderRepository) ListByRfq(ctx context.Context, rfqID uint64) ([]poDomain.PurchaseOrder, error) {
	var out []poDomain.PurchaseOrder
	err := r.db.WithContext(ctx).Where("rfq_id = ?", rfqID).Order("created_at DESC, id DESC").Find(&out).Error
	return out, err
}

func (r *PurchaseOrderRepository) Save(ctx context.Context, po *poDomain.PurchaseOrder) error {
	return r.db.WithContext(ctx).Save(po).Error
}

func (r *PurchaseOrderRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&poDomain.PurchaseOrder{}, id).Error
}
