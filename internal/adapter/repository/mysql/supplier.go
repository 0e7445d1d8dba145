package mysql

import (
	"context"

	"gorm.io/gorm"

	"sourcing-workflow/internal/domain/auditlog"
	"sourcing-workflow/internal/domain/supplier"
)

type SupplierRepository struct{ db *gorm.DB }

func NewSupplierRepository(db *gorm.DB) *SupplierRepository { return &SupplierRepository{db: db} }

func (r *SupplierRepository) GetByID(ctx context.Context, id uint64) (*supplier.Supplier, error) {
	var out supplier.Supplier
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *SupplierRepository) ListByIDs(ctx context.Context, ids []uint64) ([]supplier.Supplier, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []supplier.Supplier
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&out).Error
	return out, err
}

type AuditLogRepository struct{ db *gorm.DB }

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository { return &AuditLogRepository{db: db} }

func (r *AuditLogRepository) Create(ctx context.Context, e *auditlog.Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *AuditLogRepository) ListByEntity(ctx context.Context, entityType, entityID string) ([]auditlog.Entry, error) {
	var out []auditlog.Entry
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at, id").
		Find(&out).Error
	return out, err
}
