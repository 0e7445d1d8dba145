package mysql

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"sourcing-workflow/internal/domain/priceaudit"
)

type PriceAuditRepository struct{ db *gorm.DB }

func NewPriceAuditRepository(db *gorm.DB) *PriceAuditRepository {
	return &PriceAuditRepository{db: db}
}

func (r *PriceAuditRepository) FindLineRecords(ctx context.Context, rfqID, supplierID uint64, lineItemIDs []uint64) ([]priceaudit.Record, error) {
	if len(lineItemIDs) == 0 {
		return nil, nil
	}
	var out []priceaudit.Record
	err := r.db.WithContext(ctx).
		Where("rfq_id = ? AND supplier_id = ? AND rfq_line_item_id IN ?", rfqID, supplierID, lineItemIDs).
		Find(&out).Error
	return out, err
}

func (r *PriceAuditRepository) FindRfqRecord(ctx context.Context, rfqID, supplierID uint64) (*priceaudit.Record, error) {
	var out priceaudit.Record
	res := r.db.WithContext(ctx).
		Where("rfq_id = ? AND supplier_id = ? AND rfq_line_item_id IS NULL", rfqID, supplierID).
		First(&out)
	return &out, res.Error
}

func (r *PriceAuditRepository) ListByLineItem(ctx context.Context, lineItemID uint64) ([]priceaudit.Record, error) {
	var out []priceaudit.Record
	err := r.db.WithContext(ctx).Where("rfq_line_item_id = ?", lineItemID).Order("id").Find(&out).Error
	return out, err
}

func (r *PriceAuditRepository) ListByRfq(ctx context.Context, rfqID uint64) ([]priceaudit.Record, error) {
	var out []priceaudit.Record
	err := r.db.WithContext(ctx).Where("rfq_id = ?", rfqID).Order("id").Find(&out).Error
	return out, err
}

func (r *PriceAuditRepository) ListByRfqAndLineItems(ctx context.Context, rfqID uint64, lineItemIDs []uint64) ([]priceaudit.Record, error) {
	if len(lineItemIDs) == 0 {
		return nil, nil
	}
	var out []priceaudit.Record
	err := r.db.WithContext(ctx).
		Where("rfq_id = ? AND rfq_line_item_id IN ?", rfqID, lineItemIDs).
		Order("id").
		Find(&out).Error
	return out, err
}

// SaveAll inserts new rows and updates existing ones one by one.
func (r *PriceAuditRepository) SaveAll(ctx context.Context, records []priceaudit.Record) error {
	db := r.db.WithContext(ctx)
	for i := range records {
		if err := db.Save(&records[i]).Error; err != nil {
			return fmt.Errorf("save price audit record: %w", err)
		}
	}
	return nil
}

func (r *PriceAuditRepository) Report(ctx context.Context, rfqID uint64) ([]priceaudit.Record, error) {
	query, args, err := sq.Select("*").
		From("rfq_price_audit_records").
		Where(sq.Eq{"rfq_id": rfqID}).
		OrderBy("COALESCE(line_number, 0)", "supplier_name", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build price audit report: %w", err)
	}
	var out []priceaudit.Record
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
