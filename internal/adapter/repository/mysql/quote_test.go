package mysql

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	quoteDomain "sourcing-workflow/internal/domain/quote"
	"sourcing-workflow/internal/domain/status"
	"sourcing-workflow/internal/testutil/testdb"
)

func seedQuote(t *testing.T, db *gorm.DB, rfqID, supplierID uint64, st string, latest bool) *quoteDomain.Quote {
	t.Helper()
	q := &quoteDomain.Quote{
		RfqID: rfqID, SupplierID: supplierID, TotalAmount: decimal.NewFromInt(100),
		Currency: "CNY", Status: st, IsLatest: latest,
	}
	testdb.MustCreate(t, db, q)
	return q
}

func TestQuote_ClearLatestKeepsOnePerSupplier(t *testing.T) {
	db := testdb.Open(t)
	repo := NewQuoteRepository(db)
	ctx := context.Background()
	x := seedRfq(t, db, "u-1")

	first := seedQuote(t, db, x.ID, 1, status.QuoteSubmitted, true)
	seedQuote(t, db, x.ID, 2, status.QuoteSubmitted, true)

	if err := repo.ClearLatest(ctx, x.ID, 1); err != nil {
		t.Fatalf("ClearLatest: %v", err)
	}
	second := seedQuote(t, db, x.ID, 1, status.QuoteSubmitted, true)

	latest, err := repo.ListLatestByRfq(ctx, x.ID)
	if err != nil {
		t.Fatalf("ListLatestByRfq: %v", err)
	}
	if len(latest) != 2 {
		t.Fatalf("want one latest per supplier, got %d", len(latest))
	}
	got, err := repo.GetLatestForSupplier(ctx, x.ID, 1)
	if err != nil {
		t.Fatalf("GetLatestForSupplier: %v", err)
	}
	if got.ID != second.ID {
		t.Fatalf("latest = %d, want %d", got.ID, second.ID)
	}
	old, _ := repo.GetByID(ctx, first.ID)
	if old.IsLatest {
		t.Fatal("superseded quote still flagged latest")
	}
}

func TestQuote_CountSubmittedSuppliers(t *testing.T) {
	db := testdb.Open(t)
	repo := NewQuoteRepository(db)
	ctx := context.Background()
	x := seedRfq(t, db, "u-1")

	seedQuote(t, db, x.ID, 1, status.QuoteSubmitted, true)
	seedQuote(t, db, x.ID, 1, status.QuoteSubmitted, false) // superseded
	seedQuote(t, db, x.ID, 2, status.QuoteSelected, true)
	seedQuote(t, db, x.ID, 3, status.QuoteWithdrawn, true)
	seedQuote(t, db, x.ID, 4, status.QuoteDraft, true)

	n, err := repo.CountSubmittedSuppliers(ctx, x.ID)
	if err != nil {
		t.Fatalf("CountSubmittedSuppliers: %v", err)
	}
	if n != 2 {
		t.Fatalf("count = %d, want 2", n)
	}
}

func TestQuote_UpdateStatusAndLineItems(t *testing.T) {
	db := testdb.Open(t)
	repo := NewQuoteRepository(db)
	ctx := context.Background()
	x := seedRfq(t, db, "u-1")
	q := seedQuote(t, db, x.ID, 1, status.QuoteSubmitted, true)

	if err := repo.UpdateStatus(ctx, q.ID, status.QuoteSelected, q.CreatedAt); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	got, _ := repo.GetByID(ctx, q.ID)
	if got.Status != status.QuoteSelected {
		t.Fatalf("status = %q", got.Status)
	}

	items := []quoteDomain.LineItem{
		{QuoteID: q.ID, RfqLineItemID: 11, UnitPrice: decimal.NewNullDecimal(decimal.RequireFromString("2.5"))},
		{QuoteID: q.ID, RfqLineItemID: 12},
	}
	if err := repo.CreateLineItems(ctx, items); err != nil {
		t.Fatalf("CreateLineItems: %v", err)
	}
	listed, err := repo.ListLineItems(ctx, q.ID)
	if err != nil || len(listed) != 2 {
		t.Fatalf("ListLineItems = %d, %v", len(listed), err)
	}
	li, err := repo.GetLineItem(ctx, q.ID, 11)
	if err != nil {
		t.Fatalf("GetLineItem: %v", err)
	}
	if !li.UnitPrice.Valid || !li.UnitPrice.Decimal.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("unit price = %v", li.UnitPrice)
	}
	if none, _ := repo.ListLineItems(ctx); none != nil {
		t.Fatal("empty id list should return nil")
	}
}
