package status

import (
	"errors"
	"testing"

	"sourcing-workflow/internal/apperr"
)

func TestRfqAdjacency(t *testing.T) {
	tbl := For(EntityRfq)
	cases := []struct {
		from, to string
		ok       bool
	}{
		{RfqDraft, RfqPublished, true},
		{RfqDraft, RfqCancelled, true},
		{RfqDraft, RfqClosed, false},
		{RfqPublished, RfqInProgress, true},
		{RfqPublished, RfqClosed, true},
		{RfqInProgress, RfqConfirmed, true},
		{RfqInProgress, RfqPublished, false},
		{RfqConfirmed, RfqClosed, true},
		{RfqClosed, RfqPublished, false},
		{RfqCancelled, RfqDraft, false},
	}
	for _, tc := range cases {
		if got := tbl.CanTransition(tc.from, tc.to); got != tc.ok {
			t.Fatalf("%s -> %s: got %v want %v", tc.from, tc.to, got, tc.ok)
		}
	}
	if len(tbl.Allowed(RfqClosed)) != 0 || len(tbl.Allowed(RfqCancelled)) != 0 {
		t.Fatal("closed and cancelled are terminal")
	}
}

func TestEveryTableIsClosedOverItsStatuses(t *testing.T) {
	for _, e := range []Entity{EntityRfq, EntityQuote, EntityLineItem, EntityPurchaseOrder} {
		tbl := For(e)
		for _, from := range tbl.Statuses() {
			for _, to := range tbl.Allowed(from) {
				if !tbl.IsValid(to) {
					t.Fatalf("%s: %s -> %s targets an unregistered status", e, from, to)
				}
			}
		}
	}
}

func TestLineItemAndQuoteTables(t *testing.T) {
	li := For(EntityLineItem)
	if !li.CanTransition(LineItemRejected, LineItemPendingDirector) {
		t.Fatal("rejected line items can be resubmitted")
	}
	if li.CanTransition(LineItemPendingPO, LineItemPendingPO) {
		t.Fatal("self transitions are not declared")
	}

	q := For(EntityQuote)
	if !q.CanTransition(QuoteSelected, QuoteSubmitted) {
		t.Fatal("selected quotes can be demoted")
	}
	if q.CanTransition(QuoteWithdrawn, QuoteSelected) {
		t.Fatal("withdrawn quotes cannot be selected")
	}
}

func TestCheck(t *testing.T) {
	tbl := For(EntityRfq)

	if err := tbl.Check(RfqDraft, RfqPublished); err != nil {
		t.Fatalf("legal transition rejected: %v", err)
	}

	err := tbl.Check(RfqClosed, RfqPublished)
	if !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Fatalf("want invalid transition, got %v", err)
	}

	if err := tbl.Check(RfqDraft, "archived"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("unknown target => validation error, got %v", err)
	}
}

func TestAllowedReturnsCopy(t *testing.T) {
	tbl := For(EntityRfq)
	got := tbl.Allowed(RfqDraft)
	got[0] = "mutated"
	if tbl.Allowed(RfqDraft)[0] != RfqPublished {
		t.Fatal("Allowed must not expose the internal slice")
	}
}
