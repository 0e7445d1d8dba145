package purchaseorder

import "context"

type Repository interface {
	Create(ctx context.Context, po *PurchaseOrder) error
	GetByID(ctx context.Context, id uint64) (*PurchaseOrder, error)
	ListByRfq(ctx context.Context, rfqID uint64) ([]PurchaseOrder, error)
	Save(ctx context.Context, po *PurchaseOrder) error
	Delete(ctx context.Context, id uint64) error
}
