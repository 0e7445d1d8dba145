// Package rfq orchestrates the RFQ lifecycle: authoring, publication,
// invitations, review and the composite read views.
package rfq

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
	"sourcing-workflow/internal/domain/invitation"
	"sourcing-workflow/internal/domain/priceaudit"
	domainQuote "sourcing-workflow/internal/domain/quote"
	domainRfq "sourcing-workflow/internal/domain/rfq"
	"sourcing-workflow/internal/domain/status"
	"sourcing-workflow/internal/domain/supplier"
	"sourcing-workflow/internal/domain/uow"
	"sourcing-workflow/internal/usecase/audit"
	"sourcing-workflow/internal/usecase/visibility"
	"sourcing-workflow/internal/workflow/statemachine"
	"sourcing-workflow/pkg/clock"
)

const entityType = "rfq"

// PriceAudit is the RFQ-level part of the price audit synchronizer.
type PriceAudit interface {
	SyncSelectedForRfq(ctx context.Context, rfqID uint64, selectedQuoteID *uint64)
	UpdateApprovalForRfq(ctx context.Context, rfqID uint64, approvalStatus, decision string, decidedAt *time.Time)
	UpdatePrExport(ctx context.Context, rfqID uint64, lineItemIDs []uint64, filledBy string, filledAt *time.Time)
	Report(ctx context.Context, rfqID uint64) ([]priceaudit.Record, error)
}

type Options struct {
	DefaultCurrency     string
	AttachmentURLPrefix string
}

type Deps struct {
	Rfqs        domainRfq.Repository
	LineItems   domainRfq.LineItemRepository
	Quotes      domainQuote.Repository
	Invitations invitation.Repository
	Suppliers   supplier.Repository
	UoW         uow.UnitOfWork
	Machine     *statemachine.Machine[*domainRfq.Rfq]
	Gate        *visibility.Gate
	Perms       actor.PermissionChecker
	Audit       audit.Recorder
	Prices      PriceAudit
	Clock       clock.Clock
	Log         *zap.Logger
	Options     Options
}

type Usecase struct {
	rfqs        domainRfq.Repository
	lineItems   domainRfq.LineItemRepository
	quotes      domainQuote.Repository
	invitations invitation.Repository
	suppliers   supplier.Repository
	uow         uow.UnitOfWork
	machine     *statemachine.Machine[*domainRfq.Rfq]
	gate        *visibility.Gate
	perms       actor.PermissionChecker
	audit       audit.Recorder
	prices      PriceAudit
	clock       clock.Clock
	log         *zap.Logger
	opts        Options
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
	if d.Options.DefaultCurrency == "" {
		d.Options.DefaultCurrency = "CNY"
	}
	if d.Options.AttachmentURLPrefix == "" {
		d.Options.AttachmentURLPrefix = "/uploads/rfq-attachments"
	}
	return &Usecase{
		rfqs: d.Rfqs, lineItems: d.LineItems, quotes: d.Quotes, invitations: d.Invitations,
		suppliers: d.Suppliers, uow: d.UoW, machine: d.Machine, gate: d.Gate, perms: d.Perms,
		audit: d.Audit, prices: d.Prices, clock: d.Clock, log: d.Log.Named("rfq"), opts: d.Options,
	}
}

func (u *Usecase) Create(ctx context.Context, act actor.Actor, in CreateInput) (*WithItems, error) {
	if err := u.perms.Require(act, actor.RfqCreate); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.MissingFields("title")
	}
	now := u.clock.Now()
	if in.ValidUntil != nil && in.ValidUntil.Before(now) {
		return nil, apperr.Validation("Deadline cannot be in the past")
	}
	for i, li := range in.LineItems {
		if strings.TrimSpace(li.ItemName) == "" {
			return nil, apperr.Validation(fmt.Sprintf("Line item %d: item name is required", i+1))
		}
		if !li.Quantity.IsPositive() {
			return nil, apperr.Validation(fmt.Sprintf("Line item %d: quantity must be greater than zero", i+1))
		}
	}

	currency := u.currency(in.Currency)
	department := strings.TrimSpace(in.RequestingDepartment)
	if department == "" {
		department = act.Department
	}
	x := &domainRfq.Rfq{
		Title:                title,
		Description:          strings.TrimSpace(in.Description),
		Currency:             currency,
		ValidUntil:           utc(in.ValidUntil),
		Status:               status.RfqDraft,
		CreatedBy:            act.ID,
		RequestingDepartment: department,
		IsLineItemMode:       true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if in.BudgetAmount != nil {
		x.BudgetAmount.Decimal, x.BudgetAmount.Valid = *in.BudgetAmount, true
	}

	var items []domainRfq.LineItem
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Rfqs.Create(ctx, x); err != nil {
			return err
		}
		items = make([]domainRfq.LineItem, len(in.LineItems))
		for i, li := range in.LineItems {
			items[i] = domainRfq.LineItem{
				RfqID:          x.ID,
				LineNumber:     i + 1,
				ItemName:       strings.TrimSpace(li.ItemName),
				Specifications: li.Specifications,
				Quantity:       li.Quantity,
				Unit:           li.Unit,
				Currency:       currency,
				Notes:          li.Notes,
				Status:         status.LineItemDraft,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if li.EstimatedUnitPrice != nil {
				items[i].EstimatedUnitPrice.Decimal = *li.EstimatedUnitPrice
				items[i].EstimatedUnitPrice.Valid = true
			}
		}
		if len(items) == 0 {
			return nil
		}
		return r.LineItems.CreateBatch(ctx, items)
	})
	if err != nil {
		return nil, fmt.Errorf("create rfq: %w", err)
	}

	u.audit.Record(ctx, act, entityType, x.ID, audit.ActionCreate, map[string]any{
		"title":     x.Title,
		"lineItems": len(items),
	})
	return &WithItems{Rfq: *x, LineItems: items}, nil
}

// Update lets the creator edit a draft. Holders of rfq.edit_all may edit
// any RFQ in any status.
func (u *Usecase) Update(ctx context.Context, act actor.Actor, id uint64, in UpdateInput) (*domainRfq.Rfq, error) {
	if act.Anonymous() {
		return nil, apperr.AuthenticationRequired()
	}
	x, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	editAll := u.perms.Has(act, actor.RfqEditAll)
	if x.CreatedBy != act.ID && !editAll {
		return nil, apperr.AuthorizationDenied("No permission to edit this RFQ")
	}
	if x.Status != status.RfqDraft && !editAll {
		return nil, apperr.WrongStatus("Cannot edit published RFQ", x.Status, status.RfqDraft)
	}

	changes := map[string]any{}
	if in.Title != nil {
		if t := strings.TrimSpace(*in.Title); t != "" {
			x.Title = t
			changes["title"] = t
		}
	}
	if in.Description != nil {
		x.Description = strings.TrimSpace(*in.Description)
		changes["description"] = x.Description
	}
	if in.Currency != nil && strings.TrimSpace(*in.Currency) != "" {
		x.Currency = u.currency(*in.Currency)
		changes["currency"] = x.Currency
	}
	if in.BudgetAmount != nil {
		x.BudgetAmount.Decimal, x.BudgetAmount.Valid = *in.BudgetAmount, true
		changes["budgetAmount"] = in.BudgetAmount.String()
	}
	if in.ValidUntil != nil {
		if in.ValidUntil.Before(u.clock.Now()) {
			return nil, apperr.Validation("Deadline cannot be in the past")
		}
		x.ValidUntil = utc(in.ValidUntil)
		changes["validUntil"] = x.ValidUntil
	}
	x.UpdatedAt = u.clock.Now()
	guard := ""
	if !editAll {
		guard = status.RfqDraft
	}
	ok, err := u.rfqs.SaveDetails(ctx, x, guard)
	if err != nil {
		return nil, fmt.Errorf("update rfq %d: %w", id, err)
	}
	if !ok {
		return nil, u.statusChanged(ctx, id, status.RfqDraft)
	}

	u.audit.Record(ctx, act, entityType, x.ID, audit.ActionUpdate, changes)
	return x, nil
}

// Delete removes a draft RFQ with its line items and invitations.
func (u *Usecase) Delete(ctx context.Context, act actor.Actor, id uint64) error {
	if act.Anonymous() {
		return apperr.AuthenticationRequired()
	}
	x, err := u.load(ctx, id)
	if err != nil {
		return err
	}
	if x.CreatedBy != act.ID && !u.perms.Has(act, actor.RfqEditAll) {
		return apperr.AuthorizationDenied("No permission to delete this RFQ")
	}
	if x.Status != status.RfqDraft {
		return apperr.WrongStatus("Only draft RFQ can be deleted", x.Status, status.RfqDraft)
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.LineItems.DeleteByRfq(ctx, id); err != nil {
			return err
		}
		if err := r.Invitations.DeleteByRfq(ctx, id); err != nil {
			return err
		}
		return r.Rfqs.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete rfq %d: %w", id, err)
	}
	u.audit.Record(ctx, act, entityType, id, audit.ActionDelete, map[string]any{"title": x.Title})
	return nil
}

// List pages RFQs. Without rfq.view_all the caller only sees their own.
func (u *Usecase) List(ctx context.Context, act actor.Actor, in ListInput) (*ListResult, error) {
	if act.Anonymous() {
		return nil, apperr.AuthenticationRequired()
	}
	page, limit := in.Page, in.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	f := domainRfq.ListFilter{
		Status:  strings.TrimSpace(in.Status),
		Keyword: strings.TrimSpace(in.Keyword),
		Page:    page,
		Limit:   limit,
	}
	if !u.perms.Has(act, actor.RfqViewAll) {
		f.CreatedBy = act.ID
	}
	items, total, err := u.rfqs.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domainRfq.Rfq{}
	}
	return &ListResult{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// Publish opens a draft for quotes. It needs a future deadline and, in
// line-item mode, at least one line item.
func (u *Usecase) Publish(ctx context.Context, act actor.Actor, id uint64) (*domainRfq.Rfq, error) {
	if err := u.perms.Require(act, actor.RfqPublish); err != nil {
		return nil, err
	}
	x, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.machine.Validate(x, status.RfqPublished); err != nil {
		return nil, err
	}
	if x.ValidUntil == nil {
		return nil, apperr.Validation("Deadline is required before publishing")
	}
	if x.DeadlinePassed(u.clock.Now()) {
		return nil, apperr.Validation("Deadline cannot be in the past")
	}
	if x.IsLineItemMode {
		n, err := u.lineItems.CountByRfq(ctx, x.ID)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, apperr.Validation("At least one line item is required before publishing")
		}
	}

	out, err := u.transition(ctx, act, x, status.RfqPublished, "Manual publish")
	if err != nil {
		return nil, err
	}
	u.audit.Record(ctx, act, entityType, out.ID, audit.ActionPublish, map[string]any{"status": out.Status})
	return out, nil
}

func (u *Usecase) Close(ctx context.Context, act actor.Actor, id uint64) (*domainRfq.Rfq, error) {
	if err := u.perms.Require(act, actor.RfqClose); err != nil {
		return nil, err
	}
	x, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	out, err := u.transition(ctx, act, x, status.RfqClosed, "Manual close")
	if err != nil {
		return nil, err
	}
	u.audit.Record(ctx, act, entityType, out.ID, audit.ActionClose, map[string]any{"status": out.Status})
	return out, nil
}

func (u *Usecase) Cancel(ctx context.Context, act actor.Actor, id uint64, reason string) (*domainRfq.Rfq, error) {
	if err := u.perms.Require(act, actor.RfqClose); err != nil {
		return nil, err
	}
	x, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if reason = strings.TrimSpace(reason); reason == "" {
		reason = "Manual cancel"
	}
	out, err := u.transition(ctx, act, x, status.RfqCancelled, reason)
	if err != nil {
		return nil, err
	}
	u.audit.Record(ctx, act, entityType, out.ID, audit.ActionCancel, map[string]any{"reason": reason})
	return out, nil
}

// transition saves a bare status change through the state machine. The
// write only lands if the row is still in the status x was loaded with.
func (u *Usecase) transition(ctx context.Context, act actor.Actor, x *domainRfq.Rfq, target, reason string) (*domainRfq.Rfq, error) {
	return u.machine.Transition(ctx, x, target, act, reason,
		func(ctx context.Context, x *domainRfq.Rfq, target string) (*domainRfq.Rfq, error) {
			now := u.clock.Now()
			ok, err := u.rfqs.UpdateStatus(ctx, x.ID, x.Status, target, now)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, u.statusChanged(ctx, x.ID, x.Status)
			}
			x.Status, x.UpdatedAt = target, now
			return x, nil
		})
}

// statusChanged reports a guarded write that lost to a concurrent one.
func (u *Usecase) statusChanged(ctx context.Context, id uint64, expected string) error {
	cur, err := u.load(ctx, id)
	if err != nil {
		return err
	}
	return apperr.WrongStatus("RFQ status changed concurrently", cur.Status, expected)
}

func (u *Usecase) load(ctx context.Context, id uint64) (*domainRfq.Rfq, error) {
	x, err := u.rfqs.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("RFQ", id)
	}
	return x, err
}

func (u *Usecase) currency(c string) string {
	if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
		return c
	}
	return u.opts.DefaultCurrency
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
