// Package lineitem runs the per line item approval flow: creator submission,
// director decision with optional quote redirect, purchaser invitations.
package lineitem

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"sourcing-workflow/internal/apperr"
	"sourcing-workflow/internal/domain/actor"
	"sourcing-workflow/internal/domain/history"
	"sourcing-workflow/internal/domain/quote"
	"sourcing-workflow/internal/domain/rfq"
	"sourcing-workflow/internal/domain/status"
	"sourcing-workflow/internal/domain/supplier"
	"sourcing-workflow/internal/domain/uow"
	"sourcing-workflow/internal/usecase/audit"
	"sourcing-workflow/internal/usecase/selection"
	"sourcing-workflow/internal/workflow/statemachine"
	"sourcing-workflow/pkg/clock"
)

const entityType = "rfq_line_item"

// PriceAudit is the part of the price audit synchronizer this flow drives.
// Implementations swallow their own failures.
type PriceAudit interface {
	SyncSelectedForLineItem(ctx context.Context, lineItemID uint64, selectedQuoteID *uint64)
	UpdateApprovalForLineItem(ctx context.Context, lineItemID uint64, approvalStatus, decision string, decidedAt *time.Time)
}

type Usecase struct {
	rfqs      rfq.Repository
	lineItems rfq.LineItemRepository
	quotes    quote.Repository
	suppliers supplier.Repository
	approvals history.ApprovalRepository
	uow       uow.UnitOfWork
	machine   *statemachine.Machine[*rfq.LineItem]
	perms     actor.PermissionChecker
	audit     audit.Recorder
	prices    PriceAudit
	clock     clock.Clock
	log       *zap.Logger
}

type Deps struct {
	Rfqs      rfq.Repository
	LineItems rfq.LineItemRepository
	Quotes    quote.Repository
	Suppliers supplier.Repository
	Approvals history.ApprovalRepository
	UoW       uow.UnitOfWork
	Machine   *statemachine.Machine[*rfq.LineItem]
	Perms     actor.PermissionChecker
	Audit     audit.Recorder
	Prices    PriceAudit
	Clock     clock.Clock
	Log       *zap.Logger
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
		rfqs: d.Rfqs, lineItems: d.LineItems, quotes: d.Quotes, suppliers: d.Suppliers,
		approvals: d.Approvals, uow: d.UoW, machine: d.Machine, perms: d.Perms,
		audit: d.Audit, prices: d.Prices, clock: d.Clock, log: d.Log.Named("line_item"),
	}
}

// SubmitForApproval sends a draft or rejected line item straight to the
// director with the nominated quote selected.
func (u *Usecase) SubmitForApproval(ctx context.Context, act actor.Actor, in SubmitInput) (*rfq.LineItem, error) {
	if err := u.perms.Require(act, actor.RfqCreate); err != nil {
		return nil, err
	}
	if in.SelectedQuoteID == 0 {
		return nil, apperr.MissingFields("selectedQuoteId")
	}
	x, err := u.loadRfq(ctx, in.RfqID)
	if err != nil {
		return nil, err
	}
	if x.CreatedBy != act.ID {
		return nil, apperr.AuthorizationDenied("Only RFQ creator can submit line items for approval")
	}
	li, err := u.loadLineItem(ctx, in.RfqID, in.LineItemID)
	if err != nil {
		return nil, err
	}
	if li.Status != status.LineItemDraft && li.Status != status.LineItemRejected {
		return nil, apperr.WrongStatus("Line item must be in draft or rejected status to submit",
			li.Status, status.LineItemDraft, status.LineItemRejected)
	}
	if _, err := u.loadQuote(ctx, in.RfqID, in.SelectedQuoteID); err != nil {
		return nil, err
	}

	quoteID := in.SelectedQuoteID
	out, err := u.machine.Transition(ctx, li, status.LineItemPendingDirector, act,
		"Line item submitted directly to director for approval",
		func(ctx context.Context, li *rfq.LineItem, target string) (*rfq.LineItem, error) {
			var saved *rfq.LineItem
			err := u.uow.WithinLineItemTx(ctx, li.ID, func(r uow.Repos, locked *rfq.LineItem) error {
				if locked.Status != li.Status {
					return apperr.WrongStatus("Line item status changed concurrently", locked.Status, li.Status)
				}
				now := u.clock.Now()
				previous := locked.SelectedQuoteID
				role := string(actor.RoleProcurementDirector)

				locked.Status = target
				locked.CurrentApproverRole = &role
				locked.SelectedQuoteID = &quoteID
				locked.UpdatedAt = now
				if err := r.LineItems.Save(ctx, locked); err != nil {
					return err
				}
				if err := selection.Promote(ctx, r, quoteID, now); err != nil {
					return err
				}
				if previous != nil && *previous != quoteID {
					if err := selection.DemoteIfUnreferenced(ctx, r, *previous, locked.ID, now); err != nil {
						return err
					}
				}
				if err := r.ApprovalHistory.Create(ctx, &history.ApprovalHistory{
					RfqLineItemID: locked.ID,
					Step:          history.StepSubmittedToDirector,
					ApproverID:    act.ID,
					ApproverName:  act.Name,
					ApproverRole:  string(act.Role),
					Decision:      history.DecisionSubmitted,
					Comments:      "Line item submitted directly to director",
					NewQuoteID:    &quoteID,
					CreatedAt:     now,
				}); err != nil {
					return err
				}
				saved = locked
				return nil
			})
			return saved, err
		})
	if err != nil {
		return nil, err
	}

	u.audit.Record(ctx, act, entityType, out.ID, audit.ActionSubmitForApproval, map[string]any{
		"rfqId":           in.RfqID,
		"selectedQuoteId": quoteID,
	})
	u.prices.SyncSelectedForLineItem(ctx, out.ID, &quoteID)
	return out, nil
}

// DirectorDecision approves (pending_po) or rejects (back to draft) a line
// item waiting on the director, optionally switching its selected quote.
func (u *Usecase) DirectorDecision(ctx context.Context, act actor.Actor, in DecisionInput) (*rfq.LineItem, error) {
	if err := u.perms.Require(act, actor.ProcurementDirectorRfqApprove); err != nil {
		return nil, err
	}
	decision := strings.ToLower(strings.TrimSpace(in.Decision))
	if decision != history.DecisionApproved && decision != history.DecisionRejected {
		return nil, apperr.Validation(`Decision must be "approved" or "rejected"`)
	}
	li, err := u.loadLineItem(ctx, in.RfqID, in.LineItemID)
	if err != nil {
		return nil, err
	}
	if li.Status != status.LineItemPendingDirector {
		return nil, apperr.WrongStatus("Line item is not pending director approval",
			li.Status, status.LineItemPendingDirector)
	}

	var changeReason string
	if in.NewQuoteID != nil && (li.SelectedQuoteID == nil || *li.SelectedQuoteID != *in.NewQuoteID) {
		if _, err := u.loadQuote(ctx, in.RfqID, *in.NewQuoteID); err != nil {
			return nil, err
		}
		changeReason = "Director changed selected quote during approval"
	}

	comments := strings.TrimSpace(in.Comments)
	target := status.LineItemDraft
	var role *string
	reason := comments
	if decision == history.DecisionApproved {
		target = status.LineItemPendingPO
		r := string(actor.RolePurchaser)
		role = &r
		if reason == "" {
			reason = "Director approved, ready for PO"
		}
	} else if reason == "" {
		reason = "Director rejected line item"
	}

	var effective *uint64
	out, err := u.machine.Transition(ctx, li, target, act, reason,
		func(ctx context.Context, li *rfq.LineItem, target string) (*rfq.LineItem, error) {
			var saved *rfq.LineItem
			err := u.uow.WithinLineItemTx(ctx, li.ID, func(r uow.Repos, locked *rfq.LineItem) error {
				if locked.Status != status.LineItemPendingDirector {
					return apperr.WrongStatus("Line item is not pending director approval",
						locked.Status, status.LineItemPendingDirector)
				}
				now := u.clock.Now()
				previous := locked.SelectedQuoteID
				effective = previous
				redirected := in.NewQuoteID != nil && (previous == nil || *previous != *in.NewQuoteID)
				if in.NewQuoteID != nil {
					id := *in.NewQuoteID
					effective = &id
				}

				locked.Status = target
				locked.CurrentApproverRole = role
				locked.SelectedQuoteID = effective
				locked.UpdatedAt = now
				if err := r.LineItems.Save(ctx, locked); err != nil {
					return err
				}
				if redirected {
					if err := selection.Promote(ctx, r, *in.NewQuoteID, now); err != nil {
						return err
					}
					if previous != nil {
						if err := selection.DemoteIfUnreferenced(ctx, r, *previous, locked.ID, now); err != nil {
							return err
						}
					}
				}

				row := &history.ApprovalHistory{
					RfqLineItemID: locked.ID,
					Step:          history.StepDirector,
					ApproverID:    act.ID,
					ApproverName:  act.Name,
					ApproverRole:  string(act.Role),
					Decision:      decision,
					Comments:      comments,
					NewQuoteID:    in.NewQuoteID,
					ChangeReason:  changeReason,
					CreatedAt:     now,
				}
				if in.NewQuoteID != nil {
					row.PreviousQuoteID = previous
				}
				if err := r.ApprovalHistory.Create(ctx, row); err != nil {
					return err
				}
				saved = locked
				return nil
			})
			return saved, err
		})
	if err != nil {
		return nil, err
	}

	u.audit.Record(ctx, act, entityType, out.ID, audit.DirectorAction(decision), map[string]any{
		"decision": decision,
		"comments": comments,
	})
	decidedAt := u.clock.Now()
	rationale := comments
	if rationale == "" {
		rationale = decision
	}
	u.prices.UpdateApprovalForLineItem(ctx, out.ID, decision, rationale, &decidedAt)
	u.prices.SyncSelectedForLineItem(ctx, out.ID, effective)
	return out, nil
}

// InvitePurchasers leaves a "@purchasers(...)" note on a line item waiting on
// the director. The line item status is not touched.
func (u *Usecase) InvitePurchasers(ctx context.Context, act actor.Actor, in InvitePurchasersInput) (*history.ApprovalHistory, error) {
	ids := make([]string, 0, len(in.PurchaserIDs))
	for _, id := range in.PurchaserIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, apperr.Validation("At least one purchaser must be selected")
	}
	if act.Anonymous() {
		return nil, apperr.AuthenticationRequired()
	}
	if act.Role != actor.RoleProcurementDirector {
		return nil, apperr.AuthorizationDenied("Only procurement director can invite purchasers")
	}
	if err := u.perms.Require(act, actor.ProcurementDirectorRfqApprove); err != nil {
		return nil, err
	}
	li, err := u.loadLineItem(ctx, in.RfqID, in.LineItemID)
	if err != nil {
		return nil, err
	}
	if li.Status != status.LineItemPendingDirector {
		return nil, apperr.WrongStatus("Line item is not in the correct approval stage to invite purchasers",
			li.Status, status.LineItemPendingDirector)
	}

	message := strings.TrimSpace(in.Message)
	comments := fmt.Sprintf("@purchasers(%s)", strings.Join(ids, ", "))
	if message != "" {
		comments += ": " + message
	}
	row := &history.ApprovalHistory{
		RfqLineItemID: li.ID,
		Step:          history.StepDirector,
		ApproverID:    act.ID,
		ApproverName:  act.Name,
		ApproverRole:  string(act.Role),
		Decision:      history.DecisionInvited,
		Comments:      comments,
		CreatedAt:     u.clock.Now(),
	}
	if err := u.approvals.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("record purchaser invitation: %w", err)
	}

	u.audit.Record(ctx, act, entityType, li.ID, audit.ActionInvitePurchasers, map[string]any{
		"purchaserIds": ids,
		"message":      message,
	})
	return row, nil
}

// PendingApprovals lists what waits on role. Purchasers see their own RFQs'
// items, directors see everything pending_director, other roles see nothing.
func (u *Usecase) PendingApprovals(ctx context.Context, act actor.Actor, role actor.Role) ([]PendingItem, error) {
	if act.Anonymous() {
		return nil, apperr.AuthenticationRequired()
	}
	var (
		items []rfq.LineItem
		err   error
	)
	switch role {
	case actor.RolePurchaser:
		items, err = u.lineItems.ListAwaitingPurchaser(ctx, act.ID)
	case actor.RoleProcurementDirector:
		items, err = u.lineItems.ListByStatus(ctx, status.LineItemPendingDirector)
	default:
		return []PendingItem{}, nil
	}
	if err != nil {
		return nil, err
	}
	return u.enrich(ctx, items)
}

func (u *Usecase) ApprovalHistory(ctx context.Context, act actor.Actor, rfqID, lineItemID uint64) ([]history.ApprovalHistory, error) {
	if act.Anonymous() {
		return nil, apperr.AuthenticationRequired()
	}
	if _, err := u.loadLineItem(ctx, rfqID, lineItemID); err != nil {
		return nil, err
	}
	return u.approvals.ListByLineItem(ctx, lineItemID)
}

func (u *Usecase) enrich(ctx context.Context, items []rfq.LineItem) ([]PendingItem, error) {
	out := make([]PendingItem, 0, len(items))
	if len(items) == 0 {
		return out, nil
	}

	var rfqIDs, quoteIDs []uint64
	for _, li := range items {
		rfqIDs = append(rfqIDs, li.RfqID)
		if li.SelectedQuoteID != nil {
			quoteIDs = append(quoteIDs, *li.SelectedQuoteID)
		}
	}
	rfqs, err := u.rfqs.ListByIDs(ctx, rfqIDs)
	if err != nil {
		return nil, err
	}
	byRfq := make(map[uint64]rfq.Rfq, len(rfqs))
	for _, x := range rfqs {
		byRfq[x.ID] = x
	}

	byQuote := map[uint64]quote.Quote{}
	names := map[uint64]string{}
	if len(quoteIDs) > 0 {
		quotes, err := u.quotes.ListByIDs(ctx, quoteIDs)
		if err != nil {
			return nil, err
		}
		var supplierIDs []uint64
		for _, q := range quotes {
			byQuote[q.ID] = q
			supplierIDs = append(supplierIDs, q.SupplierID)
		}
		suppliers, err := u.suppliers.ListByIDs(ctx, supplierIDs)
		if err != nil {
			return nil, err
		}
		names = supplier.Names(suppliers)
	}

	for _, li := range items {
		p := PendingItem{LineItem: li, WaitingSince: li.UpdatedAt}
		if x, ok := byRfq[li.RfqID]; ok {
			p.RfqTitle = x.Title
			p.RfqCreatedBy = x.CreatedBy
			p.RequestingDepartment = x.RequestingDepartment
		}
		if li.SelectedQuoteID != nil {
			if q, ok := byQuote[*li.SelectedQuoteID]; ok {
				supplierID, amount := q.SupplierID, q.TotalAmount
				p.SupplierID = &supplierID
				p.SupplierName = names[supplierID]
				p.QuoteAmount = &amount
				p.QuoteCurrency = q.Currency
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func (u *Usecase) loadRfq(ctx context.Context, id uint64) (*rfq.Rfq, error) {
	x, err := u.rfqs.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("RFQ", id)
	}
	return x, err
}

// loadLineItem treats a line item of another RFQ as missing.
func (u *Usecase) loadLineItem(ctx context.Context, rfqID, id uint64) (*rfq.LineItem, error) {
	li, err := u.lineItems.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && li.RfqID != rfqID) {
		return nil, apperr.NotFound("Line item", id)
	}
	return li, err
}

func (u *Usecase) loadQuote(ctx context.Context, rfqID, id uint64) (*quote.Quote, error) {
	q, err := u.quotes.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && q.RfqID != rfqID) {
		return nil, apperr.NotFound("Quote", id)
	}
	return q, err
}
