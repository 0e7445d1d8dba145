// Package purchaseorder groups director-approved line items into purchase
// orders for one winning supplier and drives the PO lifecycle.
package purchaseorder

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
	domainPO "sourcing-workflow/internal/domain/purchaseorder"
	"sourcing-workflow/internal/domain/quote"
	"sourcing-workflow/internal/domain/rfq"
	"sourcing-workflow/internal/domain/status"
	"sourcing-workflow/internal/domain/supplier"
	"sourcing-workflow/internal/domain/uow"
	"sourcing-workflow/internal/usecase/audit"
	"sourcing-workflow/internal/workflow/statemachine"
	"sourcing-workflow/pkg/clock"
	"sourcing-workflow/pkg/id"
)

const entityType = "purchase_order"

type Deps struct {
	Rfqs            rfq.Repository
	LineItems       rfq.LineItemRepository
	Quotes          quote.Repository
	Suppliers       supplier.Repository
	PurchaseOrders  domainPO.Repository
	UoW             uow.UnitOfWork
	Machine         *statemachine.Machine[*domainPO.PurchaseOrder]
	Perms           actor.PermissionChecker
	Audit           audit.Recorder
	Clock           clock.Clock
	Log             *zap.Logger
	DefaultCurrency string
}

type Usecase struct {
	rfqs            rfq.Repository
	lineItems       rfq.LineItemRepository
	quotes          quote.Repository
	suppliers       supplier.Repository
	pos             domainPO.Repository
	uow             uow.UnitOfWork
	machine         *statemachine.Machine[*domainPO.PurchaseOrder]
	perms           actor.PermissionChecker
	audit           audit.Recorder
	clock           clock.Clock
	log             *zap.Logger
	defaultCurrency string
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
	if d.DefaultCurrency == "" {
		d.DefaultCurrency = "CNY"
	}
	return &Usecase{
		rfqs: d.Rfqs, lineItems: d.LineItems, quotes: d.Quotes, suppliers: d.Suppliers,
		pos: d.PurchaseOrders, uow: d.UoW, machine: d.Machine, perms: d.Perms,
		audit: d.Audit, clock: d.Clock, log: d.Log.Named("purchase_order"),
		defaultCurrency: d.DefaultCurrency,
	}
}

// Create checks every nominated line item is pending_po and won by
// SupplierID, then inserts the PO and links the items in one unit of work.
// The total counts each distinct selected quote once.
func (u *Usecase) Create(ctx context.Context, act actor.Actor, in CreateInput) (*domainPO.PurchaseOrder, error) {
	if err := u.perms.Require(act, actor.RfqCreate); err != nil {
		return nil, err
	}
	x, err := u.ownRfq(ctx, act, in.RfqID, "Only RFQ creator can create PO")
	if err != nil {
		return nil, err
	}
	if _, err := u.suppliers.GetByID(ctx, in.SupplierID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Supplier", in.SupplierID)
	} else if err != nil {
		return nil, err
	}
	ids := dedupe(in.LineItemIDs)
	if len(ids) == 0 {
		return nil, apperr.Validation("At least one line item is required")
	}

	now := u.clock.Now()
	po := &domainPO.PurchaseOrder{
		RfqID:       x.ID,
		SupplierID:  in.SupplierID,
		ItemCount:   len(ids),
		Status:      status.PODraft,
		Description: strings.TrimSpace(in.Description),
		Notes:       in.Notes,
		CreatedBy:   act.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		items, err := r.LineItems.ListByIDs(ctx, x.ID, ids)
		if err != nil {
			return err
		}
		byID := make(map[uint64]rfq.LineItem, len(items))
		for _, li := range items {
			byID[li.ID] = li
		}

		seen := map[uint64]bool{}
		total := decimal.Zero
		for _, lid := range ids {
			li, ok := byID[lid]
			if !ok {
				return apperr.NotFound("Line item", lid)
			}
			if li.Status != status.LineItemPendingPO {
				return apperr.WrongStatus(fmt.Sprintf("Line item %d is not ready for PO", lid),
					li.Status, status.LineItemPendingPO)
			}
			if li.PoID != nil {
				return apperr.Conflict(fmt.Sprintf("Line item %d is already on a purchase order", lid))
			}
			if li.SelectedQuoteID == nil {
				return apperr.Conflict(fmt.Sprintf("Line item %d belongs to a different supplier", lid))
			}
			q, err := r.Quotes.GetByID(ctx, *li.SelectedQuoteID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Quote", *li.SelectedQuoteID)
			}
			if err != nil {
				return err
			}
			if q.SupplierID != in.SupplierID {
				return apperr.Conflict(fmt.Sprintf("Line item %d belongs to a different supplier", lid))
			}
			if !seen[q.ID] {
				seen[q.ID] = true
				total = total.Add(q.TotalAmount)
				if po.Currency == "" {
					po.Currency = q.Currency
				}
			}
		}
		if po.Currency == "" {
			po.Currency = u.defaultCurrency
		}
		po.TotalAmount = total
		po.PoNumber = id.NewPONumber(now)

		if err := r.PurchaseOrders.Create(ctx, po); err != nil {
			return err
		}
		return r.LineItems.AssignPO(ctx, ids, po.ID, now)
	})
	if err != nil {
		return nil, err
	}

	u.audit.Record(ctx, act, entityType, po.ID, audit.ActionPOCreate, map[string]any{
		"rfqId":       x.ID,
		"supplierId":  in.SupplierID,
		"lineItemIds": ids,
		"totalAmount": po.TotalAmount.String(),
	})
	return po, nil
}

func (u *Usecase) Update(ctx context.Context, act actor.Actor, poID uint64, in UpdateInput) (*domainPO.PurchaseOrder, error) {
	if err := u.perms.Require(act, actor.RfqCreate); err != nil {
		return nil, err
	}
	po, err := u.ownPO(ctx, act, poID, "Only RFQ creator can update PO")
	if err != nil {
		return nil, err
	}
	if po.Status != status.PODraft {
		return nil, apperr.WrongStatus("Only draft POs can be updated", po.Status, status.PODraft)
	}

	if in.Description != nil {
		po.Description = strings.TrimSpace(*in.Description)
	}
	if in.Notes != nil {
		po.Notes = *in.Notes
	}
	if in.PoFilePath != nil {
		po.PoFilePath = strings.TrimSpace(*in.PoFilePath)
	}
	if in.PoFileName != nil {
		po.PoFileName = strings.TrimSpace(*in.PoFileName)
	}
	if in.PoFileSize != nil {
		po.PoFileSize = *in.PoFileSize
	}
	po.UpdatedAt = u.clock.Now()
	if err := u.pos.Save(ctx, po); err != nil {
		return nil, fmt.Errorf("update po %d: %w", poID, err)
	}

	u.audit.Record(ctx, act, entityType, po.ID, audit.ActionPOUpdate, in)
	return po, nil
}

func (u *Usecase) Submit(ctx context.Context, act actor.Actor, poID uint64) (*domainPO.PurchaseOrder, error) {
	if err := u.perms.Require(act, actor.RfqCreate); err != nil {
		return nil, err
	}
	po, err := u.ownPO(ctx, act, poID, "Only RFQ creator can submit PO")
	if err != nil {
		return nil, err
	}
	if po.Status != status.PODraft {
		return nil, apperr.WrongStatus("Only draft POs can be submitted", po.Status, status.PODraft)
	}
	if !po.HasFile() {
		return nil, apperr.Validation("PO file is required before submission")
	}

	out, err := u.machine.Transition(ctx, po, status.POSubmitted, act, "PO submitted",
		func(ctx context.Context, po *domainPO.PurchaseOrder, target string) (*domainPO.PurchaseOrder, error) {
			now := u.clock.Now()
			po.Status = target
			po.SubmittedAt = &now
			po.UpdatedAt = now
			return po, u.pos.Save(ctx, po)
		})
	if err != nil {
		return nil, err
	}
	u.audit.Record(ctx, act, entityType, out.ID, audit.ActionPOSubmit, map[string]any{"status": out.Status})
	return out, nil
}

// Confirm closes out the PO and completes every line item on it.
func (u *Usecase) Confirm(ctx context.Context, act actor.Actor, poID uint64) (*domainPO.PurchaseOrder, error) {
	if err := u.perms.Require(act, actor.RfqCreate); err != nil {
		return nil, err
	}
	po, err := u.ownPO(ctx, act, poID, "Only RFQ creator can confirm PO")
	if err != nil {
		return nil, err
	}

	out, err := u.machine.Transition(ctx, po, status.POConfirmed, act, "PO confirmed",
		func(ctx context.Context, po *domainPO.PurchaseOrder, target string) (*domainPO.PurchaseOrder, error) {
			now := u.clock.Now()
			err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
				items, err := r.LineItems.ListByPO(ctx, po.ID)
				if err != nil {
					return err
				}
				for i := range items {
					li := &items[i]
					if li.Status != status.LineItemPendingPO {
						continue
					}
					if err := status.For(status.EntityLineItem).Check(li.Status, status.LineItemCompleted); err != nil {
						return err
					}
					li.Status = status.LineItemCompleted
					li.CurrentApproverRole = nil
					li.UpdatedAt = now
					if err := r.LineItems.Save(ctx, li); err != nil {
						return err
					}
				}
				po.Status = target
				po.ConfirmedAt = &now
				po.UpdatedAt = now
				return r.PurchaseOrders.Save(ctx, po)
			})
			return po, err
		})
	if err != nil {
		return nil, err
	}
	u.audit.Record(ctx, act, entityType, out.ID, audit.ActionPOConfirm, map[string]any{"status": out.Status})
	return out, nil
}

// Delete unlinks the PO's line items and removes the PO atomically.
func (u *Usecase) Delete(ctx context.Context, act actor.Actor, poID uint64) error {
	if err := u.perms.Require(act, actor.RfqCreate); err != nil {
		return err
	}
	po, err := u.ownPO(ctx, act, poID, "Only RFQ creator can delete PO")
	if err != nil {
		return err
	}
	if po.Status != status.PODraft {
		return apperr.WrongStatus("Only draft POs can be deleted", po.Status, status.PODraft)
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.LineItems.ClearPO(ctx, po.ID, u.clock.Now()); err != nil {
			return err
		}
		return r.PurchaseOrders.Delete(ctx, po.ID)
	})
	if err != nil {
		return fmt.Errorf("delete po %d: %w", poID, err)
	}
	u.audit.Record(ctx, act, entityType, po.ID, audit.ActionPODelete, map[string]any{"poNumber": po.PoNumber})
	return nil
}

// Get is open to the RFQ creator, holders of rfq.view_all and the PO's supplier.
func (u *Usecase) Get(ctx context.Context, act actor.Actor, poID uint64) (*View, error) {
	if act.Anonymous() {
		return nil, apperr.AuthenticationRequired()
	}
	po, err := u.loadPO(ctx, poID)
	if err != nil {
		return nil, err
	}
	x, err := u.loadRfq(ctx, po.RfqID)
	if err != nil {
		return nil, err
	}
	ownSupplier := act.SupplierID != nil && *act.SupplierID == po.SupplierID
	if x.CreatedBy != act.ID && !ownSupplier && !u.perms.Has(act, actor.RfqViewAll) {
		return nil, apperr.AuthorizationDenied("No permission to view this PO")
	}

	items, err := u.lineItems.ListByPO(ctx, po.ID)
	if err != nil {
		return nil, err
	}
	v := &View{PurchaseOrder: *po, LineItems: items}
	if s, err := u.suppliers.GetByID(ctx, po.SupplierID); err == nil {
		v.SupplierName = s.CompanyName
	}
	return v, nil
}

func (u *Usecase) ListForRfq(ctx context.Context, act actor.Actor, rfqID uint64) ([]domainPO.PurchaseOrder, error) {
	x, err := u.loadRfq(ctx, rfqID)
	if err != nil {
		return nil, err
	}
	if act.Anonymous() {
		return nil, apperr.AuthenticationRequired()
	}
	if x.CreatedBy != act.ID && !u.perms.Has(act, actor.RfqViewAll) {
		return nil, apperr.AuthorizationDenied("No permission to view POs for this RFQ")
	}
	return u.pos.ListByRfq(ctx, rfqID)
}

// AvailableBySupplier groups the RFQ's unassigned pending_po line items by
// the supplier of their selected quote, ordered by supplier id.
func (u *Usecase) AvailableBySupplier(ctx context.Context, act actor.Actor, rfqID uint64) ([]SupplierGroup, error) {
	x, err := u.ownRfq(ctx, act, rfqID, "Only RFQ creator can view line items")
	if err != nil {
		return nil, err
	}
	items, err := u.lineItems.ListAvailableForPO(ctx, x.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []SupplierGroup{}, nil
	}

	quoteIDs := make([]uint64, 0, len(items))
	for _, li := range items {
		quoteIDs = append(quoteIDs, *li.SelectedQuoteID)
	}
	quotes, err := u.quotes.ListByIDs(ctx, quoteIDs)
	if err != nil {
		return nil, err
	}
	quoteByID := make(map[uint64]quote.Quote, len(quotes))
	supplierIDs := make([]uint64, 0, len(quotes))
	for _, q := range quotes {
		quoteByID[q.ID] = q
		supplierIDs = append(supplierIDs, q.SupplierID)
	}
	sups, err := u.suppliers.ListByIDs(ctx, supplierIDs)
	if err != nil {
		return nil, err
	}
	names := supplier.Names(sups)

	groups := map[uint64]*SupplierGroup{}
	for _, li := range items {
		q, ok := quoteByID[*li.SelectedQuoteID]
		if !ok {
			continue
		}
		g, ok := groups[q.SupplierID]
		if !ok {
			g = &SupplierGroup{SupplierID: q.SupplierID, SupplierName: names[q.SupplierID]}
			groups[q.SupplierID] = g
		}
		g.Items = append(g.Items, AvailableItem{
			LineItem:    li,
			QuoteID:     q.ID,
			QuoteAmount: q.TotalAmount,
			Currency:    q.Currency,
		})
	}

	out := make([]SupplierGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SupplierID < out[j].SupplierID })
	return out, nil
}

func (u *Usecase) ownRfq(ctx context.Context, act actor.Actor, rfqID uint64, denied string) (*rfq.Rfq, error) {
	if act.Anonymous() {
		return nil, apperr.AuthenticationRequired()
	}
	x, err := u.loadRfq(ctx, rfqID)
	if err != nil {
		return nil, err
	}
	if x.CreatedBy != act.ID {
		return nil, apperr.AuthorizationDenied(denied)
	}
	return x, nil
}

func (u *Usecase) ownPO(ctx context.Context, act actor.Actor, poID uint64, denied string) (*domainPO.PurchaseOrder, error) {
	if act.Anonymous() {
		return nil, apperr.AuthenticationRequired()
	}
	po, err := u.loadPO(ctx, poID)
	if err != nil {
		return nil, err
	}
	if _, err := u.ownRfq(ctx, act, po.RfqID, denied); err != nil {
		return nil, err
	}
	return po, nil
}

func (u *Usecase) loadPO(ctx context.Context, id uint64) (*domainPO.PurchaseOrder, error) {
	po, err := u.pos.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Purchase Order", id)
	}
	return po, err
}

func (u *Usecase) loadRfq(ctx context.Context, id uint64) (*rfq.Rfq, error) {
	x, err := u.rfqs.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("RFQ", id)
	}
	return x, err
}

func dedupe(ids []uint64) []uint64 {
	seen := make(map[uint64]bool, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, v := range ids {
		if v == 0 || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
