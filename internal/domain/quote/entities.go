package quote

import (
	"time"

	"github.com/shopspring/decimal"
)

// Table: quotes
type Quote struct {
	ID               uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RfqID            uint64          `gorm:"column:rfq_id;not null;index:idx_quotes_rfq_supplier" json:"rfq_id"`
	SupplierID       uint64          `gorm:"column:supplier_id;not null;index:idx_quotes_rfq_supplier" json:"supplier_id"`
	TotalAmount      decimal.Decimal `gorm:"column:total_amount;type:decimal(18,2);not null" json:"total_amount"`
	Currency         string          `gorm:"column:currency;size:8;not null" json:"currency"`
	DeliveryPeriod   string          `gorm:"column:delivery_period;size:64" json:"delivery_period"`
	DeliveryTerms    string          `gorm:"column:delivery_terms;size:255" json:"delivery_terms"`
	Notes            string          `gorm:"column:notes;type:text" json:"notes"`
	Status           string          `gorm:"column:status;size:32;not null" json:"status"`
	IsLatest         bool            `gorm:"column:is_latest;not null" json:"is_latest"`
	IPAddress        string          `gorm:"column:ip_address;size:64" json:"-"`
	SubmittedAt      *time.Time      `gorm:"column:submitted_at" json:"submitted_at"`
	WithdrawalReason string          `gorm:"column:withdrawal_reason;size:255" json:"withdrawal_reason,omitempty"`
	WithdrawnAt      *time.Time      `gorm:"column:withdrawn_at" json:"withdrawn_at,omitempty"`
	CreatedAt        time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (Quote) TableName() string { return "quotes" }

func (q *Quote) CurrentStatus() string { return q.Status }
func (q *Quote) EntityID() uint64      { return q.ID }

// Table: quote_line_items
type LineItem struct {
	ID            uint64              `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	QuoteID       uint64              `gorm:"column:quote_id;not null;index:idx_quote_line_items_quote" json:"quote_id"`
	RfqLineItemID uint64              `gorm:"column:rfq_line_item_id;not null;index:idx_quote_line_items_rfq_line" json:"rfq_line_item_id"`
	UnitPrice     decimal.NullDecimal `gorm:"column:unit_price;type:decimal(18,4)" json:"unit_price"`
	TotalPrice    decimal.NullDecimal `gorm:"column:total_price;type:decimal(18,2)" json:"total_price"`
	Notes         string              `gorm:"column:notes;type:text" json:"notes"`
}

func (LineItem) TableName() string { return "quote_line_items" }

// Table: rfq_attachments
type Attachment struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RfqID        uint64    `gorm:"column:rfq_id;not null" json:"rfq_id"`
	QuoteID      *uint64   `gorm:"column:quote_id;index:idx_rfq_attachments_quote" json:"quote_id"`
	OriginalName string    `gorm:"column:original_name;size:255;not null" json:"original_name"`
	StoredName   string    `gorm:"column:stored_name;size:255;not null" json:"stored_name"`
	FileSize     int64     `gorm:"column:file_size" json:"file_size"`
	MimeType     string    `gorm:"column:mime_type;size:128" json:"mime_type"`
	UploadedBy   string    `gorm:"column:uploaded_by;size:64" json:"uploaded_by"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Attachment) TableName() string { return "rfq_attachments" }
