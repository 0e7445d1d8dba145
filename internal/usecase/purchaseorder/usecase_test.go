package purchaseorder

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sourcing-workflow/internal/apperr"
	"sourcing-workflow/internal/domain/actor"
	domainPO "sourcing-workflow/internal/domain/purchaseorder"
	domainQuote "sourcing-workflow/internal/domain/quote"
	"sourcing-workflow/internal/domain/rfq"
	"sourcing-workflow/internal/domain/status"
	"sourcing-workflow/internal/testutil/fixture"
	"sourcing-workflow/internal/usecase/audit"
	"sourcing-workflow/internal/workflow/statemachine"
)

type harness struct {
	env *fixture.Env
	uc  *Usecase
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	env := fixture.New(t)
	log := zap.NewNop()
	uc := NewUsecase(Deps{
		Rfqs:            env.Rfqs,
		LineItems:       env.LineItems,
		Quotes:          env.Quotes,
		Suppliers:       env.Suppliers,
		PurchaseOrders:  env.PurchaseOrders,
		UoW:             env.UoW,
		Machine:         statemachine.New[*domainPO.PurchaseOrder](status.EntityPurchaseOrder, env.StatusHistory, env.Clock, log),
		Perms:           actor.StaticChecker{},
		Audit:           audit.NewLog(env.AuditLogs, env.Clock, log),
		Clock:           env.Clock,
		Log:             log,
		DefaultCurrency: "CNY",
	})
	return &harness{env: env, uc: uc}
}

// scenario: supplier A won lines 1 and 2 with one quote, supplier B won line 3.
type scenario struct {
	rfq        *rfq.Rfq
	supA, supB uint64
	l1, l2, l3 *rfq.LineItem
	quoteA     uint64
}

func (h *harness) seed(t *testing.T) scenario {
	t.Helper()
	x := h.env.Rfq(t, func(r *rfq.Rfq) { r.Status = status.RfqClosed })
	a := h.env.Supplier(t, "Acme")
	b := h.env.Supplier(t, "Beta")
	qa := h.env.Quote(t, x.ID, a.ID, "700", func(q *domainQuote.Quote) { q.Status = status.QuoteSelected; q.Currency = "USD" })
	qb := h.env.Quote(t, x.ID, b.ID, "300", func(q *domainQuote.Quote) { q.Status = status.QuoteSelected })
	ready := func(qid uint64) func(*rfq.LineItem) {
		return func(li *rfq.LineItem) {
			li.Status = status.LineItemPendingPO
			li.SelectedQuoteID = &qid
		}
	}
	return scenario{
		rfq:    x,
		supA:   a.ID,
		supB:   b.ID,
		l1:     h.env.LineItem(t, x.ID, 1, ready(qa.ID)),
		l2:     h.env.LineItem(t, x.ID, 2, ready(qa.ID)),
		l3:     h.env.LineItem(t, x.ID, 3, ready(qb.ID)),
		quoteA: qa.ID,
	}
}

func (h *harness) lineItem(t *testing.T, id uint64) *rfq.LineItem {
	t.Helper()
	li, err := h.env.LineItems.GetByID(context.Background(), id)
	require.NoError(t, err)
	return li
}

func isKind(t *testing.T, err error, want error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, want), "got %v", err)
}

func otherCreator() actor.Actor {
	a := fixture.Creator()
	a.ID = "creator-2"
	return a
}

// revokedCreator is the RFQ's creator after losing rfq:create.
func revokedCreator() actor.Actor {
	a := fixture.Creator()
	a.Permissions = []actor.Permission{actor.RfqPublish, actor.RfqClose}
	return a
}

func TestCreate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	s := h.seed(t)

	po, err := h.uc.Create(ctx, fixture.Creator(), CreateInput{
		RfqID:       s.rfq.ID,
		SupplierID:  s.supA,
		LineItemIDs: []uint64{s.l1.ID, s.l2.ID, s.l1.ID},
		Description: " chairs ",
	})
	require.NoError(t, err)
	assert.Equal(t, status.PODraft, po.Status)
	assert.Equal(t, 2, po.ItemCount)
	assert.Equal(t, "USD", po.Currency)
	assert.Equal(t, "chairs", po.Description)
	assert.True(t, po.TotalAmount.Equal(decimal.NewFromInt(700)), "one quote counted once, got %s", po.TotalAmount)
	assert.Regexp(t, `^PO\d{16}$`, po.PoNumber)

	for _, id := range []uint64{s.l1.ID, s.l2.ID} {
		li := h.lineItem(t, id)
		require.NotNil(t, li.PoID)
		assert.Equal(t, po.ID, *li.PoID)
	}
	assert.Nil(t, h.lineItem(t, s.l3.ID).PoID)

	entries, err := h.env.AuditLogs.ListByEntity(ctx, entityType, fmt.Sprint(po.ID))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionPOCreate, entries[0].Action)
}

func TestCreate_Rejects(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	s := h.seed(t)
	draftItem := h.env.LineItem(t, s.rfq.ID, 4)

	cases := []struct {
		name string
		act  actor.Actor
		in   CreateInput
		want error
		msg  string
	}{
		{"not creator", otherCreator(), CreateInput{RfqID: s.rfq.ID, SupplierID: s.supA, LineItemIDs: []uint64{s.l1.ID}},
			apperr.ErrAuthorizationDenied, "Only RFQ creator can create PO"},
		{"create permission revoked", revokedCreator(), CreateInput{RfqID: s.rfq.ID, SupplierID: s.supA, LineItemIDs: []uint64{s.l1.ID}},
			apperr.ErrAuthorizationDenied, ""},
		{"no items", fixture.Creator(), CreateInput{RfqID: s.rfq.ID, SupplierID: s.supA},
			apperr.ErrValidation, "At least one line item is required"},
		{"unknown supplier", fixture.Creator(), CreateInput{RfqID: s.rfq.ID, SupplierID: 9999, LineItemIDs: []uint64{s.l1.ID}},
			apperr.ErrNotFound, ""},
		{"not ready", fixture.Creator(), CreateInput{RfqID: s.rfq.ID, SupplierID: s.supA, LineItemIDs: []uint64{s.l1.ID, draftItem.ID}},
			apperr.ErrConflict, fmt.Sprintf("Line item %d is not ready for PO (status: draft)", draftItem.ID)},
		{"other supplier", fixture.Creator(), CreateInput{RfqID: s.rfq.ID, SupplierID: s.supA, LineItemIDs: []uint64{s.l1.ID, s.l3.ID}},
			apperr.ErrConflict, fmt.Sprintf("Line item %d belongs to a different supplier", s.l3.ID)},
		{"unknown item", fixture.Creator(), CreateInput{RfqID: s.rfq.ID, SupplierID: s.supA, LineItemIDs: []uint64{424242}},
			apperr.ErrNotFound, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.uc.Create(ctx, tc.act, tc.in)
			isKind(t, err, tc.want)
			if tc.msg != "" {
				assert.Equal(t, tc.msg, err.Error())
			}
		})
	}

	pos, err := h.env.PurchaseOrders.ListByRfq(ctx, s.rfq.ID)
	require.NoError(t, err)
	assert.Empty(t, pos)
	assert.Nil(t, h.lineItem(t, s.l1.ID).PoID)
}

func TestLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	s := h.seed(t)
	creator := fixture.Creator()

	po, err := h.uc.Create(ctx, creator, CreateInput{RfqID: s.rfq.ID, SupplierID: s.supB, LineItemIDs: []uint64{s.l3.ID}})
	require.NoError(t, err)

	_, err = h.uc.Submit(ctx, creator, po.ID)
	isKind(t, err, apperr.ErrValidation)
	assert.Equal(t, "PO file is required before submission", err.Error())

	_, err = h.uc.Confirm(ctx, creator, po.ID)
	isKind(t, err, apperr.ErrInvalidTransition)

	path, name := "/files/po.pdf", "po.pdf"
	size := int64(2048)
	_, err = h.uc.Update(ctx, creator, po.ID, UpdateInput{PoFilePath: &path, PoFileName: &name, PoFileSize: &size})
	require.NoError(t, err)

	submitted, err := h.uc.Submit(ctx, creator, po.ID)
	require.NoError(t, err)
	assert.Equal(t, status.POSubmitted, submitted.Status)
	require.NotNil(t, submitted.SubmittedAt)

	notes := "late change"
	_, err = h.uc.Update(ctx, creator, po.ID, UpdateInput{Notes: &notes})
	isKind(t, err, apperr.ErrConflict)

	err = h.uc.Delete(ctx, creator, po.ID)
	isKind(t, err, apperr.ErrConflict)
	assert.Equal(t, "Only draft POs can be deleted (status: submitted)", err.Error())

	confirmed, err := h.uc.Confirm(ctx, creator, po.ID)
	require.NoError(t, err)
	assert.Equal(t, status.POConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.ConfirmedAt)
	assert.Equal(t, status.LineItemCompleted, h.lineItem(t, s.l3.ID).Status)
	assert.Equal(t, status.LineItemPendingPO, h.lineItem(t, s.l1.ID).Status)

	hist, err := h.env.StatusHistory.ListByEntity(ctx, string(status.EntityPurchaseOrder), po.ID)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, status.POSubmitted, hist[0].ToStatus)
	assert.Equal(t, status.POConfirmed, hist[1].ToStatus)
}

func TestMutations_RequireCreatePermission(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	s := h.seed(t)

	po, err := h.uc.Create(ctx, fixture.Creator(), CreateInput{RfqID: s.rfq.ID, SupplierID: s.supA, LineItemIDs: []uint64{s.l1.ID}})
	require.NoError(t, err)

	act := revokedCreator()
	_, err = h.uc.Update(ctx, act, po.ID, UpdateInput{})
	isKind(t, err, apperr.ErrAuthorizationDenied)
	_, err = h.uc.Submit(ctx, act, po.ID)
	isKind(t, err, apperr.ErrAuthorizationDenied)
	_, err = h.uc.Confirm(ctx, act, po.ID)
	isKind(t, err, apperr.ErrAuthorizationDenied)
	isKind(t, h.uc.Delete(ctx, act, po.ID), apperr.ErrAuthorizationDenied)

	got, err := h.env.PurchaseOrders.GetByID(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, status.PODraft, got.Status)
}

func TestDelete_UnlinksLineItems(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	s := h.seed(t)

	po, err := h.uc.Create(ctx, fixture.Creator(), CreateInput{RfqID: s.rfq.ID, SupplierID: s.supA, LineItemIDs: []uint64{s.l1.ID, s.l2.ID}})
	require.NoError(t, err)

	err = h.uc.Delete(ctx, fixture.Manager(), po.ID)
	isKind(t, err, apperr.ErrAuthorizationDenied)

	require.NoError(t, h.uc.Delete(ctx, fixture.Creator(), po.ID))
	assert.Nil(t, h.lineItem(t, s.l1.ID).PoID)
	assert.Nil(t, h.lineItem(t, s.l2.ID).PoID)

	_, err = h.uc.Get(ctx, fixture.Creator(), po.ID)
	isKind(t, err, apperr.ErrNotFound)
}

func TestGetAndList(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	s := h.seed(t)

	po, err := h.uc.Create(ctx, fixture.Creator(), CreateInput{RfqID: s.rfq.ID, SupplierID: s.supA, LineItemIDs: []uint64{s.l1.ID}})
	require.NoError(t, err)

	v, err := h.uc.Get(ctx, fixture.SupplierActor(s.supA), po.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", v.SupplierName)
	require.Len(t, v.LineItems, 1)
	assert.Equal(t, s.l1.ID, v.LineItems[0].ID)

	_, err = h.uc.Get(ctx, fixture.SupplierActor(s.supB), po.ID)
	isKind(t, err, apperr.ErrAuthorizationDenied)

	list, err := h.uc.ListForRfq(ctx, fixture.Manager(), s.rfq.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = h.uc.ListForRfq(ctx, fixture.DepartmentUser(), s.rfq.ID)
	isKind(t, err, apperr.ErrAuthorizationDenied)
}

func TestAvailableBySupplier(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	s := h.seed(t)

	_, err := h.uc.Create(ctx, fixture.Creator(), CreateInput{RfqID: s.rfq.ID, SupplierID: s.supA, LineItemIDs: []uint64{s.l1.ID}})
	require.NoError(t, err)

	groups, err := h.uc.AvailableBySupplier(ctx, fixture.Creator(), s.rfq.ID)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, s.supA, groups[0].SupplierID)
	assert.Equal(t, "Acme", groups[0].SupplierName)
	require.Len(t, groups[0].Items, 1)
	assert.Equal(t, s.l2.ID, groups[0].Items[0].ID)
	assert.Equal(t, s.quoteA, groups[0].Items[0].QuoteID)

	assert.Equal(t, s.supB, groups[1].SupplierID)
	require.Len(t, groups[1].Items, 1)
	assert.Equal(t, s.l3.ID, groups[1].Items[0].ID)

	_, err = h.uc.AvailableBySupplier(ctx, fixture.Manager(), s.rfq.ID)
	isKind(t, err, apperr.ErrAuthorizationDenied)
}
