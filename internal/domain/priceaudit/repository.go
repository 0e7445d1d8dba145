package priceaudit

import "context"

type Repository interface {
	// FindLineRecords returns line-level rows of one supplier for the given line items.
	FindLineRecords(ctx context.Context, rfqID, supplierID uint64, lineItemIDs []uint64) ([]Record, error)
	// FindRfqRecord returns the rfq-level row (no line item) of one supplier.
	FindRfqRecord(ctx context.Context, rfqID, supplierID uint64) (*Record, error)
	ListByLineItem(ctx context.Context, lineItemID uint64) ([]Record, error)
	ListByRfq(ctx context.Context, rfqID uint64) ([]Record, error)
	ListByRfqAndLineItems(ctx context.Context, rfqID uint64, lineItemIDs []uint64) ([]Record, error)
	SaveAll(ctx context.Context, records []Record) error
	// Report is the ordered compliance view of one RFQ.
	Report(ctx context.Context, rfqID uint64) ([]Record, error)
}
