package priceauditmock

import (
	"context"
	"errors"

	"sourcing-workflow/internal/domain/priceaudit"
)

var _ priceaudit.Repository = (*Repo)(nil)

// ErrStorage is what Failing returns from every method.
var ErrStorage = errors.New("priceauditmock: storage unavailable")

// Repo is a function-backed mock; unset functions return empty results.
type Repo struct {
	FindLineRecordsFn       func(ctx context.Context, rfqID, supplierID uint64, lineItemIDs []uint64) ([]priceaudit.Record, error)
	FindRfqRecordFn         func(ctx context.Context, rfqID, supplierID uint64) (*priceaudit.Record, error)
	ListByLineItemFn        func(ctx context.Context, lineItemID uint64) ([]priceaudit.Record, error)
	ListByRfqFn             func(ctx context.Context, rfqID uint64) ([]priceaudit.Record, error)
	ListByRfqAndLineItemsFn func(ctx context.Context, rfqID uint64, lineItemIDs []uint64) ([]priceaudit.Record, error)
	SaveAllFn               func(ctx context.Context, records []priceaudit.Record) error
	ReportFn                func(ctx context.Context, rfqID uint64) ([]priceaudit.Record, error)
}

// Failing returns a repo whose every call fails with ErrStorage.
func Failing() *Repo {
	return &Repo{
		FindLineRecordsFn: func(context.Context, uint64, uint64, []uint64) ([]priceaudit.Record, error) {
			return nil, ErrStorage
		},
		FindRfqRecordFn: func(context.Context, uint64, uint64) (*priceaudit.Record, error) { return nil, ErrStorage },
		ListByLineItemFn: func(context.Context, uint64) ([]priceaudit.Record, error) { return nil, ErrStorage },
		ListByRfqFn:      func(context.Context, uint64) ([]priceaudit.Record, error) { return nil, ErrStorage },
		ListByRfqAndLineItemsFn: func(context.Context, uint64, []uint64) ([]priceaudit.Record, error) {
			return nil, ErrStorage
		},
		SaveAllFn: func(context.Context, []priceaudit.Record) error { return ErrStorage },
		ReportFn:  func(context.Context, uint64) ([]priceaudit.Record, error) { return nil, ErrStorage },
	}
}

func (m *Repo) FindLineRecords(ctx context.Context, rfqID, supplierID uint64, lineItemIDs []uint64) ([]priceaudit.Record, error) {
	if m.FindLineRecordsFn != nil {
		return m.FindLineRecordsFn(ctx, rfqID, supplierID, lineItemIDs)
	}
	return nil, nil
}

func (m *Repo) FindRfqRecord(ctx context.Context, rfqID, supplierID uint64) (*priceaudit.Record, error) {
	if m.FindRfqRecordFn != nil {
		return m.FindRfqRecordFn(ctx, rfqID, supplierID)
	}
	return &priceaudit.Record{RfqID: rfqID, SupplierID: supplierID}, nil
}

func (m *Repo) ListByLineItem(ctx context.Context, lineItemID uint64) ([]priceaudit.Record, error) {
	if m.ListByLineItemFn != nil {
		return m.ListByLineItemFn(ctx, lineItemID)
	}
	return nil, nil
}

func (m *Repo) ListByRfq(ctx context.Context, rfqID uint64) ([]priceaudit.Record, error) {
	if m.ListByRfqFn != nil {
		return m.ListByRfqFn(ctx, rfqID)
	}
	return nil, nil
}

func (m *Repo) ListByRfqAndLineItems(ctx context.Context, rfqID uint64, lineItemIDs []uint64) ([]priceaudit.Record, error) {
	if m.ListByRfqAndLineItemsFn != nil {
		return m.ListByRfqAndLineItemsFn(ctx, rfqID, lineItemIDs)
	}
	return nil, nil
}

func (m *Repo) SaveAll(ctx context.Context, records []priceaudit.Record) error {
	if m.SaveAllFn != nil {
		return m.SaveAllFn(ctx, records)
	}
	return nil
}

func (m *Repo) Report(ctx context.Context, rfqID uint64) ([]priceaudit.Record, error) {
	if m.ReportFn != nil {
		return m.ReportFn(ctx, rfqID)
	}
	return nil, nil
}
