package rfq

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, r *Rfq) error
	GetByID(ctx context.Context, id uint64) (*Rfq, error)
	ListByIDs(ctx context.Context, ids []uint64) ([]Rfq, error)
	Save(ctx context.Context, r *Rfq) error
	// UpdateStatus moves id from -> to only if it is still in from. It
	// reports false when another writer got there first.
	UpdateStatus(ctx context.Context, id uint64, from, to string, at time.Time) (bool, error)
	// SaveDetails writes the editable columns of r, leaving workflow columns
	// alone. A non-empty whenStatus guards the write like UpdateStatus.
	SaveDetails(ctx context.Context, r *Rfq, whenStatus string) (bool, error)
	Delete(ctx context.Context, id uint64) error
	List(ctx context.Context, f ListFilter) ([]Rfq, int64, error)
}

type LineItemRepository interface {
	CreateBatch(ctx context.Context, items []LineItem) error
	GetByID(ctx context.Context, id uint64) (*LineItem, error)
	// GetByIDForUpdate locks the row for the rest of the transaction.
	GetByIDForUpdate(ctx context.Context, id uint64) (*LineItem, error)
	ListByRfq(ctx context.Context, rfqID uint64) ([]LineItem, error)
	ListByIDs(ctx context.Context, rfqID uint64, ids []uint64) ([]LineItem, error)
	ListByPO(ctx context.Context, poID uint64) ([]LineItem, error)
	// ListByStatus returns the longest waiting first.
	ListByStatus(ctx context.Context, statuses ...string) ([]LineItem, error)
	// ListAwaitingPurchaser returns pending_po items and drafts with a chosen
	// quote, for RFQs created by createdBy, newest first.
	ListAwaitingPurchaser(ctx context.Context, createdBy string) ([]LineItem, error)
	ListAvailableForPO(ctx context.Context, rfqID uint64) ([]LineItem, error)
	CountByRfq(ctx context.Context, rfqID uint64) (int64, error)
	// CountBySelectedQuote counts other line items still pointing at quoteID.
	CountBySelectedQuote(ctx context.Context, quoteID, exceptLineItemID uint64) (int64, error)
	Save(ctx context.Context, li *LineItem) error
	AssignPO(ctx context.Context, ids []uint64, poID uint64, at time.Time) error
	ClearPO(ctx context.Context, poID uint64, at time.Time) error
	DeleteByRfq(ctx context.Context, rfqID uint64) error
}

type ReviewRepository interface {
	Create(ctx context.Context, r *Review) error
	ListByRfq(ctx context.Context, rfqID uint64) ([]Review, error)
}
