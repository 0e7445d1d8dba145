package mysql

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	poDomain "sourcing-workflow/internal/domain/purchaseorder"
	"sourcing-workflow/internal/domain/status"
	"sourcing-workflow/internal/testutil/testdb"
	"sourcing-workflow/pkg/id"
)

func TestPurchaseOrder_Lifecycle(t *testing.T) {
	db := testdb.Open(t)
	repo := NewPurchaseOrderRepository(db)
	ctx := context.Background()
	x := seedRfq(t, db, "u-1")

	po := &poDomain.PurchaseOrder{
		PoNumber: id.NewPONumber(x.CreatedAt), RfqID: x.ID, SupplierID: 3,
		TotalAmount: decimal.RequireFromString("199.90"), Currency: "CNY", ItemCount: 2,
		Status: status.PODraft, CreatedBy: "u-1",
	}
	if err := repo.Create(ctx, po); err != nil {
		t.Fatalf("Create: %v", err)
	}

	po.PoFilePath = "/files/po.pdf"
	if err := repo.Save(ctx, po); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := repo.GetByID(ctx, po.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.HasFile() || !got.TotalAmount.Equal(decimal.RequireFromString("199.90")) {
		t.Fatalf("unexpected po: %+v", got)
	}

	list, _ := repo.ListByRfq(ctx, x.ID)
	if len(list) != 1 {
		t.Fatalf("ListByRfq = %d", len(list))
	}

	if err := repo.Delete(ctx, po.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, po.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("po still present: %v", err)
	}
}
