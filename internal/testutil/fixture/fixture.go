// Package fixture wires the gorm repositories over a fresh sqlite database
// and seeds workflow rows for use case tests.
package fixture

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"sourcing-workflow/internal/adapter/repository/mysql"
	"sourcing-workflow/internal/domain/actor"
	"sourcing-workflow/internal/domain/invitation"
	"sourcing-workflow/internal/domain/quote"
	"sourcing-workflow/internal/domain/rfq"
	"sourcing-workflow/internal/domain/status"
	"sourcing-workflow/internal/domain/supplier"
	"sourcing-workflow/internal/testutil/testdb"
	"sourcing-workflow/pkg/clock"
	"sourcing-workflow/pkg/id"
)

// Now is the fixed instant every Env clock starts at.
var Now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type Env struct {
	DB    *gorm.DB
	Clock *clock.Fixed

	Rfqs            *mysql.RfqRepository
	LineItems       *mysql.LineItemRepository
	Reviews         *mysql.ReviewRepository
	Quotes          *mysql.QuoteRepository
	Invitations     *mysql.InvitationRepository
	StatusHistory   *mysql.StatusHistoryRepository
	ApprovalHistory *mysql.ApprovalHistoryRepository
	PriceAudit      *mysql.PriceAuditRepository
	PurchaseOrders  *mysql.PurchaseOrderRepository
	Suppliers       *mysql.SupplierRepository
	AuditLogs       *mysql.AuditLogRepository
	UoW             *mysql.GormUoW
}

func New(t testing.TB) *Env {
	t.Helper()
	db := testdb.Open(t)
	return &Env{
		DB:              db,
		Clock:           clock.NewFixed(Now),
		Rfqs:            mysql.NewRfqRepository(db),
		LineItems:       mysql.NewLineItemRepository(db),
		Reviews:         mysql.NewReviewRepository(db),
		Quotes:          mysql.NewQuoteRepository(db),
		Invitations:     mysql.NewInvitationRepository(db),
		StatusHistory:   mysql.NewStatusHistoryRepository(db),
		ApprovalHistory: mysql.NewApprovalHistoryRepository(db),
		PriceAudit:      mysql.NewPriceAuditRepository(db),
		PurchaseOrders:  mysql.NewPurchaseOrderRepository(db),
		Suppliers:       mysql.NewSupplierRepository(db),
		AuditLogs:       mysql.NewAuditLogRepository(db),
		UoW:             mysql.NewGormUoW(db),
	}
}

// Rfq seeds a published, line-item mode RFQ created by "creator-1" with a
// deadline one week after Now. opts adjust it before insert.
func (e *Env) Rfq(t testing.TB, opts ...func(*rfq.Rfq)) *rfq.Rfq {
	t.Helper()
	deadline := Now.Add(7 * 24 * time.Hour)
	x := &rfq.Rfq{
		Title:                "Office chairs",
		Currency:             "CNY",
		Status:               status.RfqPublished,
		CreatedBy:            "creator-1",
		RequestingDepartment: "Facilities",
		IsLineItemMode:       true,
		ValidUntil:           &deadline,
		CreatedAt:            Now.Add(-24 * time.Hour),
		UpdatedAt:            Now.Add(-24 * time.Hour),
	}
	for _, o := range opts {
		o(x)
	}
	testdb.MustCreate(t, e.DB, x)
	return x
}

func (e *Env) LineItem(t testing.TB, rfqID uint64, line int, opts ...func(*rfq.LineItem)) *rfq.LineItem {
	t.Helper()
	li := &rfq.LineItem{
		RfqID:      rfqID,
		LineNumber: line,
		ItemName:   "Chair",
		Quantity:   decimal.NewFromInt(10),
		Unit:       "pcs",
		Currency:   "CNY",
		Status:     status.LineItemDraft,
		CreatedAt:  Now.Add(-24 * time.Hour),
		UpdatedAt:  Now.Add(-24 * time.Hour),
	}
	for _, o := range opts {
		o(li)
	}
	testdb.MustCreate(t, e.DB, li)
	return li
}

func (e *Env) Supplier(t testing.TB, name string) *supplier.Supplier {
	t.Helper()
	s := &supplier.Supplier{CompanyName: name, CreatedAt: Now, UpdatedAt: Now}
	testdb.MustCreate(t, e.DB, s)
	return s
}

// Quote seeds a submitted, latest quote. Unit prices, when given, are
// attached to the RFQ's line items in line order.
func (e *Env) Quote(t testing.TB, rfqID, supplierID uint64, total string, opts ...func(*quote.Quote)) *quote.Quote {
	t.Helper()
	at := Now.Add(-time.Hour)
	q := &quote.Quote{
		RfqID:       rfqID,
		SupplierID:  supplierID,
		TotalAmount: decimal.RequireFromString(total),
		Currency:    "CNY",
		Status:      status.QuoteSubmitted,
		IsLatest:    true,
		IPAddress:   "10.0.0.1",
		SubmittedAt: &at,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
	for _, o := range opts {
		o(q)
	}
	testdb.MustCreate(t, e.DB, q)
	return q
}

// QuoteLine prices one RFQ line item on a quote.
func (e *Env) QuoteLine(t testing.TB, quoteID, rfqLineItemID uint64, unit, totalPrice string) *quote.LineItem {
	t.Helper()
	ql := &quote.LineItem{
		QuoteID:       quoteID,
		RfqLineItemID: rfqLineItemID,
		UnitPrice:     decimal.NewNullDecimal(decimal.RequireFromString(unit)),
		TotalPrice:    decimal.NewNullDecimal(decimal.RequireFromString(totalPrice)),
	}
	testdb.MustCreate(t, e.DB, ql)
	return ql
}

func (e *Env) Invitation(t testing.TB, rfqID, supplierID uint64, st string) *invitation.Invitation {
	t.Helper()
	inv := &invitation.Invitation{
		RfqID:      rfqID,
		SupplierID: supplierID,
		Status:     st,
		Token:      randomToken(rfqID, supplierID),
		InvitedBy:  "creator-1",
		InvitedAt:  Now.Add(-12 * time.Hour),
		CreatedAt:  Now.Add(-12 * time.Hour),
		UpdatedAt:  Now.Add(-12 * time.Hour),
	}
	testdb.MustCreate(t, e.DB, inv)
	return inv
}

func randomToken(rfqID, supplierID uint64) string {
	return fmt.Sprintf("tok-%d-%d-%s", rfqID, supplierID, id.NewID32()[:8])
}

// Creator owns the seeded RFQs and can create, publish, close and invite.
func Creator() actor.Actor {
	return actor.Actor{
		ID: "creator-1", Name: "Chen Buyer", Role: actor.RolePurchaser,
		Permissions: []actor.Permission{
			actor.RfqCreate, actor.RfqPublish, actor.RfqClose, actor.RfqInviteSuppliers,
			actor.RfqViewQuotes, actor.PurchaserRfqTarget,
		},
	}
}

func Director() actor.Actor {
	return actor.Actor{
		ID: "director-1", Name: "Li Director", Role: actor.RoleProcurementDirector,
		Permissions: []actor.Permission{
			actor.ProcurementDirectorRfqApprove, actor.RfqViewAll, actor.RfqViewQuotes,
		},
	}
}

func Manager() actor.Actor {
	return actor.Actor{
		ID: "manager-1", Name: "Wang Manager", Role: actor.RoleProcurementManager,
		Permissions: []actor.Permission{
			actor.ProcurementManagerRfqReview, actor.RfqViewAll, actor.RfqViewQuotes,
			actor.RfqClose, actor.RfqEditAll,
		},
	}
}

func DepartmentUser() actor.Actor {
	return actor.Actor{ID: "dept-1", Name: "Zhao Staff", Role: actor.RoleDepartmentUser, Department: "Facilities"}
}

func SupplierActor(supplierID uint64) actor.Actor {
	return actor.Actor{
		ID:         fmt.Sprintf("supplier-user-%d", supplierID),
		Name:       "Supplier contact",
		Role:       actor.RoleSupplier,
		SupplierID: &supplierID,
	}
}
