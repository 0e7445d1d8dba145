// Package priceaudit keeps the denormalised compliance snapshot in step with
// quotes, selections and approval decisions. Every write entry point logs
// and swallows its own failures.
package priceaudit

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sourcing-workflow/internal/domain/priceaudit"
	"sourcing-workflow/internal/domain/quote"
	"sourcing-workflow/internal/domain/rfq"
	"sourcing-workflow/internal/domain/supplier"
	"sourcing-workflow/pkg/clock"
)

type Synchronizer struct {
	records   priceaudit.Repository
	rfqs      rfq.Repository
	lineItems rfq.LineItemRepository
	quotes    quote.Repository
	suppliers supplier.Repository
	clock     clock.Clock
	log       *zap.Logger
}

func NewSynchronizer(
	records priceaudit.Repository,
	rfqs rfq.Repository,
	lineItems rfq.LineItemRepository,
	quotes quote.Repository,
	suppliers supplier.Repository,
	clk clock.Clock,
	log *zap.Logger,
) *Synchronizer {
	if clk == nil {
		clk = clock.System
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Synchronizer{
		records: records, rfqs: rfqs, lineItems: lineItems, quotes: quotes, suppliers: suppliers,
		clock: clk, log: log.Named("price_audit"),
	}
}

// UpsertQuote writes one row per quoted line item, or a single rfq-level row
// when the quote carries no line prices. ipAddress overrides the quote's own.
func (s *Synchronizer) UpsertQuote(ctx context.Context, q *quote.Quote, ipAddress string) {
	if err := s.upsertQuote(ctx, q, ipAddress); err != nil {
		s.log.Warn("upsert quote audit failed", zap.Uint64("quote_id", q.ID), zap.Error(err))
	}
}

func (s *Synchronizer) upsertQuote(ctx context.Context, q *quote.Quote, ipAddress string) error {
	x, err := s.rfqs.GetByID(ctx, q.RfqID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	supplierName := s.supplierName(ctx, q.SupplierID)
	ip := normalizeIP(ipAddress)
	if ip == "" {
		ip = normalizeIP(q.IPAddress)
	}

	quoteLines, err := s.quotes.ListLineItems(ctx, q.ID)
	if err != nil {
		return err
	}
	if len(quoteLines) == 0 {
		return s.upsertRfqLevel(ctx, x, q, supplierName, ip)
	}

	rfqLines, err := s.lineItems.ListByRfq(ctx, q.RfqID)
	if err != nil {
		return err
	}
	lineByID := make(map[uint64]rfq.LineItem, len(rfqLines))
	for _, li := range rfqLines {
		lineByID[li.ID] = li
	}
	ids := make([]uint64, 0, len(quoteLines))
	for _, ql := range quoteLines {
		ids = append(ids, ql.RfqLineItemID)
	}
	existing, err := s.records.FindLineRecords(ctx, q.RfqID, q.SupplierID, ids)
	if err != nil {
		return err
	}
	byLine := make(map[uint64]priceaudit.Record, len(existing))
	for _, r := range existing {
		byLine[*r.RfqLineItemID] = r
	}

	now := s.clock.Now()
	out := make([]priceaudit.Record, 0, len(quoteLines))
	for _, ql := range quoteLines {
		li, ok := lineByID[ql.RfqLineItemID]
		if !ok {
			continue
		}
		rec, found := byLine[li.ID]
		if !found {
			lineID := li.ID
			rec = priceaudit.Record{RfqID: q.RfqID, RfqLineItemID: &lineID, CreatedAt: now}
		}
		lineNumber := li.LineNumber
		createdAt := x.CreatedAt
		rec.RfqTitle = x.Title
		rec.RfqCreatedAt = &createdAt
		rec.LineNumber = &lineNumber
		rec.Quantity = decimal.NewNullDecimal(li.Quantity)
		rec.QuoteID = &q.ID
		rec.SupplierID = q.SupplierID
		rec.SupplierName = supplierName
		rec.SupplierIP = ip
		rec.QuotedUnitPrice = ql.UnitPrice
		rec.QuotedTotalPrice = ql.TotalPrice
		rec.QuoteCurrency = q.Currency
		rec.QuoteSubmittedAt = q.SubmittedAt
		rec.ApprovalStatus = x.ApprovalStatus
		rec.SelectedQuoteID = li.SelectedQuoteID
		if li.SelectedQuoteID != nil && *li.SelectedQuoteID == q.ID {
			supplierID := q.SupplierID
			rec.SelectedSupplierID = &supplierID
			rec.SelectedSupplierName = supplierName
			rec.SelectedUnitPrice = ql.UnitPrice
			rec.SelectedCurrency = q.Currency
		}
		rec.UpdatedAt = now
		out = append(out, rec)
	}
	return s.records.SaveAll(ctx, out)
}

func (s *Synchronizer) upsertRfqLevel(ctx context.Context, x *rfq.Rfq, q *quote.Quote, supplierName, ip string) error {
	now := s.clock.Now()
	rec, err := s.records.FindRfqRecord(ctx, x.ID, q.SupplierID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		rec = &priceaudit.Record{RfqID: x.ID, SupplierID: q.SupplierID, CreatedAt: now}
	case err != nil:
		return err
	}

	createdAt := x.CreatedAt
	rec.RfqTitle = x.Title
	rec.RfqCreatedAt = &createdAt
	rec.QuoteID = &q.ID
	rec.SupplierName = supplierName
	rec.SupplierIP = ip
	rec.QuotedUnitPrice = decimal.NullDecimal{}
	rec.QuotedTotalPrice = decimal.NewNullDecimal(q.TotalAmount)
	rec.QuoteCurrency = q.Currency
	rec.QuoteSubmittedAt = q.SubmittedAt
	rec.ApprovalStatus = x.ApprovalStatus
	rec.SelectedQuoteID = x.SelectedQuoteID
	rec.ClearSelection()
	if x.SelectedQuoteID != nil && *x.SelectedQuoteID == q.ID {
		supplierID := q.SupplierID
		rec.SelectedSupplierID = &supplierID
		rec.SelectedSupplierName = supplierName
		rec.SelectedCurrency = q.Currency
	}
	rec.UpdatedAt = now
	return s.records.SaveAll(ctx, []priceaudit.Record{*rec})
}

// SyncSelectedForLineItem rewrites the selection fields of every row of one
// line item. Only the row of the selected quote keeps supplier details.
func (s *Synchronizer) SyncSelectedForLineItem(ctx context.Context, lineItemID uint64, selectedQuoteID *uint64) {
	if err := s.syncSelectedForLineItem(ctx, lineItemID, selectedQuoteID); err != nil {
		s.log.Warn("sync selected quote for line item failed", zap.Uint64("line_item_id", lineItemID), zap.Error(err))
	}
}

func (s *Synchronizer) syncSelectedForLineItem(ctx context.Context, lineItemID uint64, selectedQuoteID *uint64) error {
	recs, err := s.records.ListByLineItem(ctx, lineItemID)
	if err != nil || len(recs) == 0 {
		return err
	}

	var (
		q            *quote.Quote
		ql           *quote.LineItem
		supplierName string
	)
	if selectedQuoteID != nil {
		q, err = s.quotes.GetByID(ctx, *selectedQuoteID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			q = nil
		case err != nil:
			return err
		default:
			supplierName = s.supplierName(ctx, q.SupplierID)
			if ql, err = s.quotes.GetLineItem(ctx, q.ID, lineItemID); errors.Is(err, gorm.ErrRecordNotFound) {
				ql = nil
			} else if err != nil {
				return err
			}
		}
	}

	now := s.clock.Now()
	for i := range recs {
		r := &recs[i]
		r.SelectedQuoteID = selectedQuoteID
		r.ClearSelection()
		if selectedQuoteID != nil && r.QuoteID != nil && *r.QuoteID == *selectedQuoteID && q != nil {
			supplierID := q.SupplierID
			r.SelectedSupplierID = &supplierID
			r.SelectedSupplierName = supplierName
			r.SelectedCurrency = q.Currency
			if ql != nil {
				r.SelectedUnitPrice = ql.UnitPrice
			}
		}
		r.UpdatedAt = now
	}
	return s.records.SaveAll(ctx, recs)
}

// SyncSelectedForRfq stamps one rfq-wide selection onto every row of the RFQ.
func (s *Synchronizer) SyncSelectedForRfq(ctx context.Context, rfqID uint64, selectedQuoteID *uint64) {
	if err := s.syncSelectedForRfq(ctx, rfqID, selectedQuoteID); err != nil {
		s.log.Warn("sync selected quote for rfq failed", zap.Uint64("rfq_id", rfqID), zap.Error(err))
	}
}

func (s *Synchronizer) syncSelectedForRfq(ctx context.Context, rfqID uint64, selectedQuoteID *uint64) error {
	recs, err := s.records.ListByRfq(ctx, rfqID)
	if err != nil || len(recs) == 0 {
		return err
	}

	var (
		q            *quote.Quote
		supplierName string
		unitPrice    = map[uint64]decimal.NullDecimal{}
	)
	if selectedQuoteID != nil {
		q, err = s.quotes.GetByID(ctx, *selectedQuoteID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			q = nil
		case err != nil:
			return err
		default:
			supplierName = s.supplierName(ctx, q.SupplierID)
			lines, err := s.quotes.ListLineItems(ctx, q.ID)
			if err != nil {
				return err
			}
			for _, l := range lines {
				unitPrice[l.RfqLineItemID] = l.UnitPrice
			}
		}
	}

	now := s.clock.Now()
	for i := range recs {
		r := &recs[i]
		r.SelectedQuoteID = selectedQuoteID
		r.ClearSelection()
		if q != nil {
			supplierID := q.SupplierID
			r.SelectedSupplierID = &supplierID
			r.SelectedSupplierName = supplierName
			r.SelectedCurrency = q.Currency
			if r.RfqLineItemID != nil {
				r.SelectedUnitPrice = unitPrice[*r.RfqLineItemID]
			}
		}
		r.UpdatedAt = now
	}
	return s.records.SaveAll(ctx, recs)
}

func (s *Synchronizer) UpdateApprovalForRfq(ctx context.Context, rfqID uint64, approvalStatus, decision string, decidedAt *time.Time) {
	recs, err := s.records.ListByRfq(ctx, rfqID)
	if err == nil {
		err = s.stampApproval(ctx, recs, approvalStatus, decision, decidedAt)
	}
	if err != nil {
		s.log.Warn("update approval for rfq failed", zap.Uint64("rfq_id", rfqID), zap.Error(err))
	}
}

func (s *Synchronizer) UpdateApprovalForLineItem(ctx context.Context, lineItemID uint64, approvalStatus, decision string, decidedAt *time.Time) {
	recs, err := s.records.ListByLineItem(ctx, lineItemID)
	if err == nil {
		err = s.stampApproval(ctx, recs, approvalStatus, decision, decidedAt)
	}
	if err != nil {
		s.log.Warn("update approval for line item failed", zap.Uint64("line_item_id", lineItemID), zap.Error(err))
	}
}

func (s *Synchronizer) stampApproval(ctx context.Context, recs []priceaudit.Record, approvalStatus, decision string, decidedAt *time.Time) error {
	if len(recs) == 0 {
		return nil
	}
	now := s.clock.Now()
	for i := range recs {
		recs[i].ApprovalStatus = approvalStatus
		recs[i].ApprovalDecision = decision
		recs[i].ApprovalDecidedAt = decidedAt
		recs[i].UpdatedAt = now
	}
	return s.records.SaveAll(ctx, recs)
}

// UpdatePrExport records who filled the purchase requisition for the given lines.
func (s *Synchronizer) UpdatePrExport(ctx context.Context, rfqID uint64, lineItemIDs []uint64, filledBy string, filledAt *time.Time) {
	if len(lineItemIDs) == 0 {
		return
	}
	recs, err := s.records.ListByRfqAndLineItems(ctx, rfqID, lineItemIDs)
	if err == nil && len(recs) > 0 {
		now := s.clock.Now()
		for i := range recs {
			recs[i].PrFilledBy = filledBy
			recs[i].PrFilledAt = filledAt
			recs[i].UpdatedAt = now
		}
		err = s.records.SaveAll(ctx, recs)
	}
	if err != nil {
		s.log.Warn("update pr export failed", zap.Uint64("rfq_id", rfqID), zap.Error(err))
	}
}

// Report is a read path, so unlike the writers it returns its error.
func (s *Synchronizer) Report(ctx context.Context, rfqID uint64) ([]priceaudit.Record, error) {
	return s.records.Report(ctx, rfqID)
}

func (s *Synchronizer) supplierName(ctx context.Context, supplierID uint64) string {
	sup, err := s.suppliers.GetByID(ctx, supplierID)
	if err != nil {
		return ""
	}
	return sup.CompanyName
}

func normalizeIP(ip string) string { return strings.TrimSpace(ip) }
