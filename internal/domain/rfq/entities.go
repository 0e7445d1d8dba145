package rfq

import (
	"time"

	"github.com/shopspring/decimal"
)

// Table: rfqs
type Rfq struct {
	ID                   uint64              `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title                string              `gorm:"column:title;size:255;not null" json:"title"`
	Description          string              `gorm:"column:description;type:text" json:"description"`
	Currency             string              `gorm:"column:currency;size:8;not null" json:"currency"`
	BudgetAmount         decimal.NullDecimal `gorm:"column:budget_amount;type:decimal(18,2)" json:"budget_amount"`
	ValidUntil           *time.Time          `gorm:"column:valid_until" json:"valid_until"`
	Status               string              `gorm:"column:status;size:32;not null;index:idx_rfqs_status" json:"status"`
	CreatedBy            string              `gorm:"column:created_by;size:64;not null;index:idx_rfqs_created_by" json:"created_by"`
	RequestingDepartment string              `gorm:"column:requesting_department;size:128" json:"requesting_department"`
	IsLineItemMode       bool                `gorm:"column:is_line_item_mode" json:"is_line_item_mode"`
	SelectedQuoteID      *uint64             `gorm:"column:selected_quote_id" json:"selected_quote_id"`
	ApprovalStatus       string              `gorm:"column:approval_status;size:32" json:"approval_status"`
	ReviewCompletedAt    *time.Time          `gorm:"column:review_completed_at" json:"review_completed_at"`
	CreatedAt            time.Time           `gorm:"column:created_at" json:"created_at"`
	UpdatedAt            time.Time           `gorm:"column:updated_at" json:"updated_at"`
}

func (Rfq) TableName() string { return "rfqs" }

func (r *Rfq) CurrentStatus() string { return r.Status }
func (r *Rfq) EntityID() uint64      { return r.ID }

// DeadlinePassed reports now >= valid_until; no deadline never passes.
func (r *Rfq) DeadlinePassed(now time.Time) bool {
	return r.ValidUntil != nil && !now.Before(*r.ValidUntil)
}

// Table: rfq_line_items
type LineItem struct {
	ID                  uint64              `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RfqID               uint64              `gorm:"column:rfq_id;not null;uniqueIndex:ux_rfq_line_items_rfq_line" json:"rfq_id"`
	LineNumber          int                 `gorm:"column:line_number;not null;uniqueIndex:ux_rfq_line_items_rfq_line" json:"line_number"`
	ItemName            string              `gorm:"column:item_name;size:255;not null" json:"item_name"`
	Specifications      string              `gorm:"column:specifications;type:text" json:"specifications"`
	Quantity            decimal.Decimal     `gorm:"column:quantity;type:decimal(18,4);not null" json:"quantity"`
	Unit                string              `gorm:"column:unit;size:32" json:"unit"`
	EstimatedUnitPrice  decimal.NullDecimal `gorm:"column:estimated_unit_price;type:decimal(18,4)" json:"estimated_unit_price"`
	Currency            string              `gorm:"column:currency;size:8" json:"currency"`
	Notes               string              `gorm:"column:notes;type:text" json:"notes"`
	Status              string              `gorm:"column:status;size:32;not null;index:idx_rfq_line_items_status" json:"status"`
	CurrentApproverRole *string             `gorm:"column:current_approver_role;size:64" json:"current_approver_role"`
	SelectedQuoteID     *uint64             `gorm:"column:selected_quote_id;index:idx_rfq_line_items_selected_quote" json:"selected_quote_id"`
	PoID                *uint64             `gorm:"column:po_id;index:idx_rfq_line_items_po" json:"po_id"`
	CreatedAt           time.Time           `gorm:"column:created_at" json:"created_at"`
	UpdatedAt           time.Time           `gorm:"column:updated_at" json:"updated_at"`
}

func (LineItem) TableName() string { return "rfq_line_items" }

func (l *LineItem) CurrentStatus() string { return l.Status }
func (l *LineItem) EntityID() uint64      { return l.ID }

// Table: rfq_reviews
type Review struct {
	ID              uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RfqID           uint64    `gorm:"column:rfq_id;not null;index:idx_rfq_reviews_rfq" json:"rfq_id"`
	SelectedQuoteID uint64    `gorm:"column:selected_quote_id;not null" json:"selected_quote_id"`
	ReviewScores    string    `gorm:"column:review_scores;type:text;not null" json:"review_scores"`
	Comments        string    `gorm:"column:comments;type:text" json:"comments"`
	ReviewedBy      string    `gorm:"column:reviewed_by;size:64;not null" json:"reviewed_by"`
	ReviewedAt      time.Time `gorm:"column:reviewed_at" json:"reviewed_at"`
}

func (Review) TableName() string { return "rfq_reviews" }

type ListFilter struct {
	Status    string
	Keyword   string
	CreatedBy string // empty = everyone
	Page      int
	Limit     int
}
