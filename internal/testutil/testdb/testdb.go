// Package testdb opens a migrated in-memory sqlite database for tests.
package testdb

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sourcing-workflow/internal/domain/auditlog"
	"sourcing-workflow/internal/domain/history"
	"sourcing-workflow/internal/domain/invitation"
	"sourcing-workflow/internal/domain/priceaudit"
	"sourcing-workflow/internal/domain/purchaseorder"
	"sourcing-workflow/internal/domain/quote"
	"sourcing-workflow/internal/domain/rfq"
	"sourcing-workflow/internal/domain/supplier"
)

// Models lists every persisted domain model.
func Models() []any {
	return []any{
		&rfq.Rfq{}, &rfq.LineItem{}, &rfq.Review{},
		&quote.Quote{}, &quote.LineItem{}, &quote.Attachment{},
		&invitation.Invitation{},
		&history.StatusHistory{}, &history.ApprovalHistory{},
		&priceaudit.Record{},
		&purchaseorder.PurchaseOrder{},
		&supplier.Supplier{},
		&auditlog.Entry{},
	}
}

// Open returns a fresh database. The pool is pinned to one connection since
// every sqlite :memory: connection is its own database, so code inside a
// transaction must only use the tx-bound repositories.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(Models()...); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

// MustCreate inserts each value or fails the test.
func MustCreate(t testing.TB, db *gorm.DB, values ...any) {
	t.Helper()
	for _, v := range values {
		if err := db.Create(v).Error; err != nil {
			t.Fatalf("seed %T: %v", v, err)
		}
	}
}
