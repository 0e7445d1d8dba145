package mysql

import (
	"context"
	"testing"
	"time"

	"sourcing-workflow/internal/domain/status"
	"sourcing-workflow/internal/testutil/testdb"
)

func ptr[T any](v T) *T { return &v }

func TestLineItem_AssignAndClearPO(t *testing.T) {
	db := testdb.Open(t)
	repo := NewLineItemRepository(db)
	ctx := context.Background()

	x := seedRfq(t, db, "u-1")
	a := seedLineItem(t, db, x.ID, 1, status.LineItemPendingPO)
	b := seedLineItem(t, db, x.ID, 2, status.LineItemPendingPO)
	c := seedLineItem(t, db, x.ID, 3, status.LineItemPendingPO)
	now := time.Now().UTC()

	if err := repo.AssignPO(ctx, []uint64{a.ID, b.ID}, 42, now); err != nil {
		t.Fatalf("AssignPO: %v", err)
	}
	linked, err := repo.ListByPO(ctx, 42)
	if err != nil || len(linked) != 2 {
		t.Fatalf("ListByPO = %d items, err %v", len(linked), err)
	}

	if err := repo.ClearPO(ctx, 42, now); err != nil {
		t.Fatalf("ClearPO: %v", err)
	}
	for _, id := range []uint64{a.ID, b.ID, c.ID} {
		got, _ := repo.GetByID(ctx, id)
		if got.PoID != nil {
			t.Errorf("line item %d still linked to po %d", id, *got.PoID)
		}
	}
}

func TestLineItem_ListAvailableForPO(t *testing.T) {
	db := testdb.Open(t)
	repo := NewLineItemRepository(db)
	ctx := context.Background()

	x := seedRfq(t, db, "u-1")
	ready := seedLineItem(t, db, x.ID, 1, status.LineItemPendingPO)
	ready.SelectedQuoteID = ptr(uint64(9))
	linked := seedLineItem(t, db, x.ID, 2, status.LineItemPendingPO)
	linked.SelectedQuoteID = ptr(uint64(9))
	linked.PoID = ptr(uint64(1))
	draft := seedLineItem(t, db, x.ID, 3, status.LineItemDraft)
	draft.SelectedQuoteID = ptr(uint64(9))
	for _, li := range []any{ready, linked, draft} {
		if err := db.Save(li).Error; err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	got, err := repo.ListAvailableForPO(ctx, x.ID)
	if err != nil {
		t.Fatalf("ListAvailableForPO: %v", err)
	}
	if len(got) != 1 || got[0].ID != ready.ID {
		t.Fatalf("unexpected available items: %+v", got)
	}
}

func TestLineItem_CountBySelectedQuote(t *testing.T) {
	db := testdb.Open(t)
	repo := NewLineItemRepository(db)
	ctx := context.Background()

	x := seedRfq(t, db, "u-1")
	a := seedLineItem(t, db, x.ID, 1, status.LineItemDraft)
	b := seedLineItem(t, db, x.ID, 2, status.LineItemDraft)
	db.Exec("UPDATE rfq_line_items SET selected_quote_id = 7 WHERE id IN ?", []uint64{a.ID, b.ID})

	n, err := repo.CountBySelectedQuote(ctx, 7, a.ID)
	if err != nil {
		t.Fatalf("CountBySelectedQuote: %v", err)
	}
	if n != 1 {
		t.Fatalf("count = %d, want 1 (excluding self)", n)
	}
	if n, _ := repo.CountBySelectedQuote(ctx, 8, 0); n != 0 {
		t.Fatalf("count for unreferenced quote = %d", n)
	}
}

func TestLineItem_ListAwaitingPurchaser(t *testing.T) {
	db := testdb.Open(t)
	repo := NewLineItemRepository(db)
	ctx := context.Background()

	mine := seedRfq(t, db, "alice")
	theirs := seedRfq(t, db, "bob")

	want := seedLineItem(t, db, mine.ID, 1, status.LineItemPendingPO)
	draftChosen := seedLineItem(t, db, mine.ID, 2, status.LineItemDraft)
	seedLineItem(t, db, mine.ID, 3, status.LineItemDraft) // no quote chosen
	other := seedLineItem(t, db, theirs.ID, 1, status.LineItemPendingPO)
	db.Exec("UPDATE rfq_line_items SET selected_quote_id = 1 WHERE id IN ?", []uint64{want.ID, draftChosen.ID, other.ID})

	got, err := repo.ListAwaitingPurchaser(ctx, "alice")
	if err != nil {
		t.Fatalf("ListAwaitingPurchaser: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 items, got %d", len(got))
	}
	for _, li := range got {
		if li.RfqID != mine.ID {
			t.Errorf("item %d belongs to rfq %d", li.ID, li.RfqID)
		}
	}
}

func TestLineItem_ListByStatusAndDelete(t *testing.T) {
	db := testdb.Open(t)
	repo := NewLineItemRepository(db)
	ctx := context.Background()

	x := seedRfq(t, db, "u-1")
	seedLineItem(t, db, x.ID, 1, status.LineItemPendingDirector)
	seedLineItem(t, db, x.ID, 2, status.LineItemDraft)

	got, err := repo.ListByStatus(ctx, status.LineItemPendingDirector)
	if err != nil || len(got) != 1 {
		t.Fatalf("ListByStatus = %d, %v", len(got), err)
	}
	if n, _ := repo.CountByRfq(ctx, x.ID); n != 2 {
		t.Fatalf("CountByRfq = %d", n)
	}
	if err := repo.DeleteByRfq(ctx, x.ID); err != nil {
		t.Fatalf("DeleteByRfq: %v", err)
	}
	if n, _ := repo.CountByRfq(ctx, x.ID); n != 0 {
		t.Fatalf("CountByRfq after delete = %d", n)
	}
}
