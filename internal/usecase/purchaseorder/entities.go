package purchaseorder

import (
	"github.com/shopspring/decimal"

	domainPO "sourcing-workflow/internal/domain/purchaseorder"
	"sourcing-workflow/internal/domain/rfq"
)

type CreateInput struct {
	RfqID       uint64
	SupplierID  uint64
	LineItemIDs []uint64
	Description string
	Notes       string
}

// UpdateInput leaves nil fields untouched.
type UpdateInput struct {
	Description *string
	Notes       *string
	PoFilePath  *string
	PoFileName  *string
	PoFileSize  *int64
}

type View struct {
	domainPO.PurchaseOrder
	SupplierName string         `json:"supplier_name"`
	LineItems    []rfq.LineItem `json:"line_items"`
}

type AvailableItem struct {
	rfq.LineItem
	QuoteID     uint64          `json:"quote_id"`
	QuoteAmount decimal.Decimal `json:"quote_amount"`
	Currency    string          `json:"quote_currency"`
}

// SupplierGroup is the set of line items one PO could cover.
type SupplierGroup struct {
	SupplierID   uint64          `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	Items        []AvailableItem `json:"items"`
}
