package invitation

import (
	"context"
	"time"
)

type Repository interface {
	CreateBatch(ctx context.Context, items []Invitation) error
	ListByRfq(ctx context.Context, rfqID uint64) ([]Invitation, error)
	GetForSupplier(ctx context.Context, rfqID, supplierID uint64) (*Invitation, error)
	// ListBySupplier filters by status when status is not empty.
	ListBySupplier(ctx context.Context, supplierID uint64, status string) ([]Invitation, error)
	// CountActiveSuppliers counts distinct suppliers whose invitation is not inactive.
	CountActiveSuppliers(ctx context.Context, rfqID uint64) (int64, error)
	MarkResponded(ctx context.Context, id uint64, at time.Time) error
	DeleteByRfq(ctx context.Context, rfqID uint64) error
}
