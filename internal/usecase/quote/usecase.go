// Package quote handles supplier quotes: submission, revision, withdrawal
// and the procurement price comparison.
package quote

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sourcing-workflow/internal/apperr"
	"sourcing-workflow/internal/domain/actor"
	"sourcing-workflow/internal/domain/invitation"
	domainQuote "sourcing-workflow/internal/domain/quote"
	"sourcing-workflow/internal/domain/rfq"
	"sourcing-workflow/internal/domain/status"
	"sourcing-workflow/internal/domain/supplier"
	"sourcing-workflow/internal/domain/uow"
	"sourcing-workflow/internal/usecase/audit"
	"sourcing-workflow/internal/usecase/visibility"
	"sourcing-workflow/internal/workflow/statemachine"
	"sourcing-workflow/pkg/clock"
)

const entityType = "quote"

// PriceAudit records a freshly submitted quote.
type PriceAudit interface {
	UpsertQuote(ctx context.Context, q *domainQuote.Quote, ipAddress string)
}

type Deps struct {
	Rfqs        rfq.Repository
	Quotes      domainQuote.Repository
	Invitations invitation.Repository
	Suppliers   supplier.Repository
	UoW         uow.UnitOfWork
	Machine     *statemachine.Machine[*domainQuote.Quote]
	RfqMachine  *statemachine.Machine[*rfq.Rfq]
	Gate        *visibility.Gate
	Perms       actor.PermissionChecker
	Audit       audit.Recorder
	Prices      PriceAudit
	Clock       clock.Clock
	Log         *zap.Logger
}

type Usecase struct {
	rfqs        rfq.Repository
	quotes      domainQuote.Repository
	invitations invitation.Repository
	suppliers   supplier.Repository
	uow         uow.UnitOfWork
	machine     *statemachine.Machine[*domainQuote.Quote]
	rfqMachine  *statemachine.Machine[*rfq.Rfq]
	gate        *visibility.Gate
	perms       actor.PermissionChecker
	audit       audit.Recorder
	prices      PriceAudit
	clock       clock.Clock
	log         *zap.Logger
}

func NewUsecase(d Deps) *Usecase {
	if d.Clock == nil {
		d.Clock = clock.System
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Audit == nil {
		d.Audit = audit.Nop{}
	}
	return &Usecase{
		rfqs: d.Rfqs, quotes: d.Quotes, invitations: d.Invitations, suppliers: d.Suppliers,
		uow: d.UoW, machine: d.Machine, rfqMachine: d.RfqMachine, gate: d.Gate, perms: d.Perms,
		audit: d.Audit, prices: d.Prices, clock: d.Clock, log: d.Log.Named("quote"),
	}
}

// Submit creates the supplier's new latest quote and submits it. Earlier
// quotes of the same supplier on the RFQ lose their latest flag in the same
// unit of work. The first quote on a published RFQ moves it to in_progress.
func (u *Usecase) Submit(ctx context.Context, act actor.Actor, rfqID uint64, in SubmitInput) (*domainQuote.Quote, error) {
	if act.Anonymous() {
		return nil, apperr.AuthenticationRequired()
	}
	if !act.IsSupplier() {
		return nil, apperr.AuthorizationDenied("Only suppliers can submit quotes")
	}
	supplierID := *act.SupplierID
	x, err := u.loadRfq(ctx, rfqID)
	if err != nil {
		return nil, err
	}
	inv, err := u.checkAccepting(ctx, x, supplierID)
	if err != nil {
		return nil, err
	}

	var missing []string
	if in.TotalAmount == nil {
		missing = append(missing, "totalPrice")
	}
	if strings.TrimSpace(in.Currency) == "" {
		missing = append(missing, "currency")
	}
	if strings.TrimSpace(in.DeliveryPeriod) == "" {
		missing = append(missing, "deliveryPeriod")
	}
	if len(missing) > 0 {
		return nil, apperr.MissingFields(missing...)
	}
	if in.TotalAmount.IsNegative() {
		return nil, apperr.Validation("Total price cannot be negative")
	}

	now := u.clock.Now()
	q := &domainQuote.Quote{
		RfqID:          rfqID,
		SupplierID:     supplierID,
		TotalAmount:    *in.TotalAmount,
		Currency:       strings.ToUpper(strings.TrimSpace(in.Currency)),
		DeliveryPeriod: strings.TrimSpace(in.DeliveryPeriod),
		DeliveryTerms:  strings.TrimSpace(in.DeliveryTerms),
		Notes:          in.Notes,
		Status:         status.QuoteDraft,
		IsLatest:       true,
		IPAddress:      strings.TrimSpace(in.IPAddress),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	out, err := u.machine.Transition(ctx, q, status.QuoteSubmitted, act, "Quote submitted",
		func(ctx context.Context, q *domainQuote.Quote, target string) (*domainQuote.Quote, error) {
			err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
				if err := r.Quotes.ClearLatest(ctx, rfqID, supplierID); err != nil {
					return err
				}
				q.Status = target
				q.SubmittedAt = &now
				if err := r.Quotes.Create(ctx, q); err != nil {
					return err
				}
				lines, err := r.LineItems.ListByRfq(ctx, rfqID)
				if err != nil {
					return err
				}
				if items := priceLines(q.ID, lines, in.Items); len(items) > 0 {
					if err := r.Quotes.CreateLineItems(ctx, items); err != nil {
						return err
					}
				}
				return r.Invitations.MarkResponded(ctx, inv.ID, now)
			})
			if err != nil {
				return nil, err
			}
			return q, nil
		})
	if err != nil {
		return nil, fmt.Errorf("submit quote: %w", err)
	}

	if x.Status == status.RfqPublished {
		u.markInProgress(ctx, act, x)
	}
	u.audit.Record(ctx, act, entityType, out.ID, audit.ActionQuoteSubmit, map[string]any{
		"rfqId":       rfqID,
		"totalAmount": out.TotalAmount.String(),
		"currency":    out.Currency,
	})
	u.prices.UpsertQuote(ctx, out, in.IPAddress)
	return out, nil
}

// markInProgress is best effort: the quote is already committed. The RFQ
// only moves if it is still published, so a close or cancel that landed in
// between wins.
func (u *Usecase) markInProgress(ctx context.Context, act actor.Actor, x *rfq.Rfq) {
	_, err := u.rfqMachine.Transition(ctx, x, status.RfqInProgress, act, "First quote received",
		func(ctx context.Context, x *rfq.Rfq, target string) (*rfq.Rfq, error) {
			now := u.clock.Now()
			ok, err := u.rfqs.UpdateStatus(ctx, x.ID, x.Status, target, now)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, apperr.Conflict("RFQ status changed concurrently")
			}
			x.Status, x.UpdatedAt = target, now
			return x, nil
		})
	if err != nil {
		u.log.Warn("move rfq to in_progress failed", zap.Uint64("rfq_id", x.ID), zap.Error(err))
	}
}

// priceLines maps input items to RFQ line items by line number, skipping
// numbers the RFQ does not have.
func priceLines(quoteID uint64, lines []rfq.LineItem, items []ItemInput) []domainQuote.LineItem {
	byNumber := make(map[int]uint64, len(lines))
	for _, l := range lines {
		byNumber[l.LineNumber] = l.ID
	}
	var out []domainQuote.LineItem
	for i, it := range items {
		n := i + 1
		if it.LineNumber != nil {
			n = *it.LineNumber
		}
		lineID, ok := byNumber[n]
		if !ok {
			continue
		}
		ql := domainQuote.LineItem{QuoteID: quoteID, RfqLineItemID: lineID, Notes: it.Notes}
		if it.UnitPrice != nil {
			ql.UnitPrice = decimal.NewNullDecimal(*it.UnitPrice)
		}
		switch {
		case it.TotalPrice != nil:
			ql.TotalPrice = decimal.NewNullDecimal(*it.TotalPrice)
		case it.UnitPrice != nil && it.Quantity != nil:
			ql.TotalPrice = decimal.NewNullDecimal(it.UnitPrice.Mul(*it.Quantity))
		}
		out = append(out, ql)
	}
	return out
}

// Update revises a draft or withdrawn quote of the calling supplier.
func (u *Usecase) Update(ctx context.Context, act actor.Actor, rfqID, quoteID uint64, in UpdateInput) (*domainQuote.Quote, error) {
	q, err := u.ownQuote(ctx, act, rfqID, quoteID, "Cannot update other supplier's quote")
	if err != nil {
		return nil, err
	}
	if q.Status != status.QuoteDraft && q.Status != status.QuoteWithdrawn {
		return nil, apperr.WrongStatus("Cannot update submitted quote", q.Status,
			status.QuoteDraft, status.QuoteWithdrawn)
	}

	if in.TotalAmount != nil {
		if in.TotalAmount.IsNegative() {
			return nil, apperr.Validation("Total price cannot be negative")
		}
		q.TotalAmount = *in.TotalAmount
	}
	if in.Currency != nil && strings.TrimSpace(*in.Currency) != "" {
		q.Currency = strings.ToUpper(strings.TrimSpace(*in.Currency))
	}
	if in.DeliveryPeriod != nil && strings.TrimSpace(*in.DeliveryPeriod) != "" {
		q.DeliveryPeriod = strings.TrimSpace(*in.DeliveryPeriod)
	}
	if in.DeliveryTerms != nil {
		q.DeliveryTerms = strings.TrimSpace(*in.DeliveryTerms)
	}
	if in.Notes != nil {
		q.Notes = *in.Notes
	}
	q.UpdatedAt = u.clock.Now()
	if err := u.quotes.Save(ctx, q); err != nil {
		return nil, fmt.Errorf("update quote %d: %w", quoteID, err)
	}

	u.audit.Record(ctx, act, entityType, q.ID, audit.ActionQuoteUpdate, map[string]any{
		"totalAmount": q.TotalAmount.String(),
		"currency":    q.Currency,
	})
	return q, nil
}

func (u *Usecase) Withdraw(ctx context.Context, act actor.Actor, rfqID, quoteID uint64, reason string) (*domainQuote.Quote, error) {
	q, err := u.ownQuote(ctx, act, rfqID, quoteID, "Cannot withdraw other supplier's quote")
	if err != nil {
		return nil, err
	}
	if q.Status != status.QuoteSubmitted {
		return nil, apperr.WrongStatus("Can only withdraw submitted quote", q.Status, status.QuoteSubmitted)
	}

	reason = strings.TrimSpace(reason)
	out, err := u.machine.Transition(ctx, q, status.QuoteWithdrawn, act, "Supplier withdrew quote",
		func(ctx context.Context, q *domainQuote.Quote, target string) (*domainQuote.Quote, error) {
			now := u.clock.Now()
			q.Status = target
			q.WithdrawalReason = reason
			q.WithdrawnAt = &now
			q.UpdatedAt = now
			return q, u.quotes.Save(ctx, q)
		})
	if err != nil {
		return nil, err
	}

	u.audit.Record(ctx, act, entityType, out.ID, audit.ActionQuoteWithdraw, map[string]any{
		"rfqId":  rfqID,
		"reason": reason,
	})
	return out, nil
}

// Compare ranks the latest live quotes by total. Procurement viewers get a
// conflict while the visibility gate is locked.
func (u *Usecase) Compare(ctx context.Context, act actor.Actor, rfqID uint64) (*Comparison, error) {
	if err := u.perms.Require(act, actor.RfqViewQuotes); err != nil {
		return nil, err
	}
	x, err := u.loadRfq(ctx, rfqID)
	if err != nil {
		return nil, err
	}
	res, err := u.gate.EvaluateLoaded(ctx, x, act)
	if err != nil {
		return nil, err
	}
	if res.Locked {
		e := apperr.Conflict(visibility.LockMessage)
		e.Details = map[string]any{"visibility_reason": res.Reason()}
		return nil, e
	}

	latest, err := u.quotes.ListLatestByRfq(ctx, rfqID)
	if err != nil {
		return nil, err
	}
	var live []domainQuote.Quote
	var supplierIDs []uint64
	for _, q := range latest {
		if q.Status == status.QuoteSubmitted || q.Status == status.QuoteSelected {
			live = append(live, q)
			supplierIDs = append(supplierIDs, q.SupplierID)
		}
	}
	sort.SliceStable(live, func(i, j int) bool { return live[i].TotalAmount.LessThan(live[j].TotalAmount) })

	sups, err := u.suppliers.ListByIDs(ctx, supplierIDs)
	if err != nil {
		return nil, err
	}
	names := supplier.Names(sups)

	out := &Comparison{QuoteCount: len(live), Quotes: make([]ComparisonRow, 0, len(live))}
	sum := decimal.Zero
	for _, q := range live {
		sum = sum.Add(q.TotalAmount)
		out.Quotes = append(out.Quotes, ComparisonRow{
			ID:             q.ID,
			SupplierID:     q.SupplierID,
			SupplierName:   names[q.SupplierID],
			Status:         q.Status,
			TotalAmount:    q.TotalAmount,
			Currency:       q.Currency,
			DeliveryPeriod: q.DeliveryPeriod,
			SubmittedAt:    q.SubmittedAt,
		})
	}
	if n := len(live); n > 0 {
		lowest, highest := live[0].TotalAmount, live[n-1].TotalAmount
		avg := sum.Div(decimal.NewFromInt(int64(n))).Round(2)
		out.LowestPrice, out.HighestPrice, out.AveragePrice = &lowest, &highest, &avg
	}
	return out, nil
}

// checkAccepting returns the supplier's invitation when the RFQ still
// takes quotes from it.
func (u *Usecase) checkAccepting(ctx context.Context, x *rfq.Rfq, supplierID uint64) (*invitation.Invitation, error) {
	if x.Status != status.RfqPublished && x.Status != status.RfqInProgress {
		return nil, apperr.WrongStatus("RFQ is not accepting quotes", x.Status,
			status.RfqPublished, status.RfqInProgress)
	}
	if x.DeadlinePassed(u.clock.Now()) {
		return nil, apperr.Conflict("RFQ deadline has passed")
	}
	inv, err := u.invitations.GetForSupplier(ctx, x.ID, supplierID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.AuthorizationDenied("Supplier not invited to this RFQ")
	}
	if err != nil {
		return nil, err
	}
	if inv.Blocked() {
		return nil, apperr.AuthorizationDenied("Invitation is no longer active")
	}
	return inv, nil
}

func (u *Usecase) ownQuote(ctx context.Context, act actor.Actor, rfqID, quoteID uint64, denied string) (*domainQuote.Quote, error) {
	if act.Anonymous() {
		return nil, apperr.AuthenticationRequired()
	}
	q, err := u.quotes.GetByID(ctx, quoteID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && q.RfqID != rfqID) {
		return nil, apperr.NotFound("Quote", quoteID)
	}
	if err != nil {
		return nil, err
	}
	if act.SupplierID == nil || *act.SupplierID != q.SupplierID {
		return nil, apperr.AuthorizationDenied(denied)
	}
	return q, nil
}

func (u *Usecase) loadRfq(ctx context.Context, id uint64) (*rfq.Rfq, error) {
	x, err := u.rfqs.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("RFQ", id)
	}
	return x, err
}
