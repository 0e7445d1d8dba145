package mysql

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"sourcing-workflow/internal/domain/history"
	rfqDomain "sourcing-workflow/internal/domain/rfq"
	"sourcing-workflow/internal/domain/status"
	"sourcing-workflow/internal/domain/uow"
	"sourcing-workflow/internal/testutil/testdb"
)

func seedRfq(t *testing.T, db *gorm.DB, createdBy string) *rfqDomain.Rfq {
	t.Helper()
	r := &rfqDomain.Rfq{Title: "Steel pipes", Currency: "CNY", Status: status.RfqDraft, CreatedBy: createdBy}
	testdb.MustCreate(t, db, r)
	return r
}

func seedLineItem(t *testing.T, db *gorm.DB, rfqID uint64, line int, st string) *rfqDomain.LineItem {
	t.Helper()
	li := &rfqDomain.LineItem{
		RfqID: rfqID, LineNumber: line, ItemName: "item",
		Quantity: decimal.NewFromInt(10), Status: st,
	}
	testdb.MustCreate(t, db, li)
	return li
}

func TestGormUoW_WithinTx_Commit(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	guow := NewGormUoW(db)

	var rfqID uint64
	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		x := &rfqDomain.Rfq{Title: "Cables", Currency: "CNY", Status: status.RfqDraft, CreatedBy: "u-1"}
		if err := r.Rfqs.Create(ctx, x); err != nil {
			return err
		}
		rfqID = x.ID
		return r.LineItems.CreateBatch(ctx, []rfqDomain.LineItem{
			{RfqID: x.ID, LineNumber: 1, ItemName: "a", Quantity: decimal.NewFromInt(1), Status: status.LineItemDraft},
			{RfqID: x.ID, LineNumber: 2, ItemName: "b", Quantity: decimal.NewFromInt(2), Status: status.LineItemDraft},
		})
	})
	if err != nil {
		t.Fatalf("WithinTx commit err: %v", err)
	}

	items, err := NewLineItemRepository(db).ListByRfq(ctx, rfqID)
	if err != nil {
		t.Fatalf("ListByRfq: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("want 2 line items after commit, got %d", len(items))
	}
}

func TestGormUoW_WithinTx_Rollback(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	guow := NewGormUoW(db)
	sentinel := errors.New("boom")

	var rfqID uint64
	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		x := &rfqDomain.Rfq{Title: "Cables", Currency: "CNY", Status: status.RfqDraft, CreatedBy: "u-1"}
		if err := r.Rfqs.Create(ctx, x); err != nil {
			return err
		}
		rfqID = x.ID
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("want sentinel, got %v", err)
	}
	if _, err := NewRfqRepository(db).GetByID(ctx, rfqID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected rfq absent after rollback, got %v", err)
	}
}

func TestGormUoW_WithinLineItemTx_Commit(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	guow := NewGormUoW(db)

	x := seedRfq(t, db, "u-1")
	li := seedLineItem(t, db, x.ID, 1, status.LineItemDraft)

	err := guow.WithinLineItemTx(ctx, li.ID, func(r uow.Repos, got *rfqDomain.LineItem) error {
		if got.ID != li.ID || got.Status != status.LineItemDraft {
			t.Fatalf("unexpected line item passed to fn: %+v", got)
		}
		got.Status = status.LineItemPendingDirector
		if err := r.LineItems.Save(ctx, got); err != nil {
			return err
		}
		return r.ApprovalHistory.Create(ctx, &history.ApprovalHistory{
			RfqLineItemID: got.ID, Step: history.StepSubmittedToDirector, Decision: history.DecisionSubmitted,
		})
	})
	if err != nil {
		t.Fatalf("WithinLineItemTx: %v", err)
	}

	got, _ := NewLineItemRepository(db).GetByID(ctx, li.ID)
	if got.Status != status.LineItemPendingDirector {
		t.Fatalf("status not updated, got=%s", got.Status)
	}
	rows, _ := NewApprovalHistoryRepository(db).ListByLineItem(ctx, li.ID)
	if len(rows) != 1 {
		t.Fatalf("want 1 approval history row, got %d", len(rows))
	}
}

func TestGormUoW_WithinLineItemTx_Rollback(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	guow := NewGormUoW(db)

	x := seedRfq(t, db, "u-1")
	li := seedLineItem(t, db, x.ID, 1, status.LineItemPendingDirector)
	sentinel := errors.New("stop")

	_ = guow.WithinLineItemTx(ctx, li.ID, func(r uow.Repos, got *rfqDomain.LineItem) error {
		got.Status = status.LineItemPendingPO
		if err := r.LineItems.Save(ctx, got); err != nil {
			return err
		}
		if err := r.ApprovalHistory.Create(ctx, &history.ApprovalHistory{
			RfqLineItemID: got.ID, Step: history.StepDirector, Decision: history.DecisionApproved,
		}); err != nil {
			return err
		}
		return sentinel
	})

	got, _ := NewLineItemRepository(db).GetByID(ctx, li.ID)
	if got.Status != status.LineItemPendingDirector {
		t.Fatalf("expected pending_director after rollback, got %s", got.Status)
	}
	rows, _ := NewApprovalHistoryRepository(db).ListByLineItem(ctx, li.ID)
	if len(rows) != 0 {
		t.Fatalf("expected no approval history after rollback, got %d", len(rows))
	}
}

func TestGormUoW_WithinLineItemTx_NotFound(t *testing.T) {
	db := testdb.Open(t)
	guow := NewGormUoW(db)

	err := guow.WithinLineItemTx(context.Background(), 404, func(r uow.Repos, li *rfqDomain.LineItem) error {
		t.Fatalf("callback should not be called when line item missing")
		return nil
	})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
}
