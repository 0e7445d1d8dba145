package priceaudit

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is one compliance snapshot per (rfq, line item or nil, supplier).
// Table: rfq_price_audit_records
type Record struct {
	ID                   uint64              `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RfqID                uint64              `gorm:"column:rfq_id;not null;index:idx_price_audit_rfq" json:"rfq_id"`
	RfqTitle             string              `gorm:"column:rfq_title;size:255" json:"rfq_title"`
	RfqCreatedAt         *time.Time          `gorm:"column:rfq_created_at" json:"rfq_created_at"`
	RfqLineItemID        *uint64             `gorm:"column:rfq_line_item_id;index:idx_price_audit_line_item" json:"rfq_line_item_id"`
	LineNumber           *int                `gorm:"column:line_number" json:"line_number"`
	Quantity             decimal.NullDecimal `gorm:"column:quantity;type:decimal(18,4)" json:"quantity"`
	QuoteID              *uint64             `gorm:"column:quote_id" json:"quote_id"`
	SupplierID           uint64              `gorm:"column:supplier_id;not null" json:"supplier_id"`
	SupplierName         string              `gorm:"column:supplier_name;size:255" json:"supplier_name"`
	SupplierIP           string              `gorm:"column:supplier_ip;size:64" json:"supplier_ip"`
	QuotedUnitPrice      decimal.NullDecimal `gorm:"column:quoted_unit_price;type:decimal(18,4)" json:"quoted_unit_price"`
	QuotedTotalPrice     decimal.NullDecimal `gorm:"column:quoted_total_price;type:decimal(18,2)" json:"quoted_total_price"`
	QuoteCurrency        string              `gorm:"column:quote_currency;size:8" json:"quote_currency"`
	QuoteSubmittedAt     *time.Time          `gorm:"column:quote_submitted_at" json:"quote_submitted_at"`
	ApprovalStatus       string              `gorm:"column:approval_status;size:32" json:"approval_status"`
	ApprovalDecision     string              `gorm:"column:approval_decision;type:text" json:"approval_decision"`
	ApprovalDecidedAt    *time.Time          `gorm:"column:approval_decided_at" json:"approval_decided_at"`
	SelectedQuoteID      *uint64             `gorm:"column:selected_quote_id" json:"selected_quote_id"`
	SelectedSupplierID   *uint64             `gorm:"column:selected_supplier_id" json:"selected_supplier_id"`
	SelectedSupplierName string              `gorm:"column:selected_supplier_name;size:255" json:"selected_supplier_name"`
	SelectedUnitPrice    decimal.NullDecimal `gorm:"column:selected_unit_price;type:decimal(18,4)" json:"selected_unit_price"`
	SelectedCurrency     string              `gorm:"column:selected_currency;size:8" json:"selected_currency"`
	PrFilledBy           string              `gorm:"column:pr_filled_by;size:64" json:"pr_filled_by"`
	PrFilledAt           *time.Time          `gorm:"column:pr_filled_at" json:"pr_filled_at"`
	CreatedAt            time.Time           `gorm:"column:created_at" json:"created_at"`
	UpdatedAt            time.Time           `gorm:"column:updated_at" json:"updated_at"`
}

func (Record) TableName() string { return "rfq_price_audit_records" }

// ClearSelection wipes the selected-* snapshot fields.
func (r *Record) ClearSelection() {
	r.SelectedSupplierID = nil
	r.SelectedSupplierName = ""
	r.SelectedUnitPrice = decimal.NullDecimal{}
	r.SelectedCurrency = ""
}
