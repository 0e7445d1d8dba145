package quote

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, q *Quote) error
	GetByID(ctx context.Context, id uint64) (*Quote, error)
	ListByIDs(ctx context.Context, ids []uint64) ([]Quote, error)
	Save(ctx context.Context, q *Quote) error
	UpdateStatus(ctx context.Context, id uint64, status string, at time.Time) error

	// ClearLatest drops is_latest on every quote of (rfqID, supplierID).
	ClearLatest(ctx context.Context, rfqID, supplierID uint64) error
	ListLatestByRfq(ctx context.Context, rfqID uint64) ([]Quote, error)
	GetLatestForSupplier(ctx context.Context, rfqID, supplierID uint64) (*Quote, error)
	// CountSubmittedSuppliers counts distinct suppliers whose latest quote is
	// neither draft nor withdrawn.
	CountSubmittedSuppliers(ctx context.Context, rfqID uint64) (int64, error)

	CreateLineItems(ctx context.Context, items []LineItem) error
	ListLineItems(ctx context.Context, quoteIDs ...uint64) ([]LineItem, error)
	GetLineItem(ctx context.Context, quoteID, rfqLineItemID uint64) (*LineItem, error)

	ListAttachments(ctx context.Context, quoteIDs ...uint64) ([]Attachment, error)
}
