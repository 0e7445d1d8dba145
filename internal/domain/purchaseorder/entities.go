package purchaseorder

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Table: purchase_orders
type PurchaseOrder struct {
	ID          uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PoNumber    string          `gorm:"column:po_number;size:32;not null;uniqueIndex:ux_purchase_orders_po_number" json:"po_number"`
	RfqID       uint64          `gorm:"column:rfq_id;not null;index:idx_purchase_orders_rfq" json:"rfq_id"`
	SupplierID  uint64          `gorm:"column:supplier_id;not null" json:"supplier_id"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:decimal(18,2);not null" json:"total_amount"`
	Currency    string          `gorm:"column:currency;size:8;not null" json:"currency"`
	ItemCount   int             `gorm:"column:item_count;not null" json:"item_count"`
	Status      string          `gorm:"column:status;size:32;not null" json:"status"`
	Description string          `gorm:"column:description;type:text" json:"description"`
	Notes       string          `gorm:"column:notes;type:text" json:"notes"`
	PoFilePath  string          `gorm:"column:po_file_path;size:512" json:"po_file_path"`
	PoFileName  string          `gorm:"column:po_file_name;size:255" json:"po_file_name"`
	PoFileSize  int64           `gorm:"column:po_file_size" json:"po_file_size"`
	CreatedBy   string          `gorm:"column:created_by;size:64;not null" json:"created_by"`
	SubmittedAt *time.Time      `gorm:"column:submitted_at" json:"submitted_at"`
	ConfirmedAt *time.Time      `gorm:"column:confirmed_at" json:"confirmed_at"`
	CreatedAt   time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (PurchaseOrder) TableName() string { return "purchase_orders" }

func (p *PurchaseOrder) CurrentStatus() string { return p.Status }
func (p *PurchaseOrder) EntityID() uint64      { return p.ID }

func (p *PurchaseOrder) HasFile() bool { return strings.TrimSpace(p.PoFilePath) != "" }
