package history

import "time"

// Table: status_histories
type StatusHistory struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	EntityType string    `gorm:"column:entity_type;size:32;not null;index:idx_status_histories_entity" json:"entity_type"`
	EntityID   uint64    `gorm:"column:entity_id;not null;index:idx_status_histories_entity" json:"entity_id"`
	FromStatus string    `gorm:"column:from_status;size:32" json:"from_status"`
	ToStatus   string    `gorm:"column:to_status;size:32;not null" json:"to_status"`
	ChangedBy  string    `gorm:"column:changed_by;size:64" json:"changed_by"`
	Reason     string    `gorm:"column:reason;size:255" json:"reason"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (StatusHistory) TableName() string { return "status_histories" }

const (
	StepSubmittedToDirector = "submitted_to_director"
	StepDirector            = "director"

	DecisionSubmitted = "submitted"
	DecisionApproved  = "approved"
	DecisionRejected  = "rejected"
	DecisionInvited   = "invited"
)

// Table: line_item_approval_histories. Rows are never updated.
type ApprovalHistory struct {
	ID              uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RfqLineItemID   uint64    `gorm:"column:rfq_line_item_id;not null;index:idx_approval_histories_line_item" json:"rfq_line_item_id"`
	Step            string    `gorm:"column:step;size:64;not null" json:"step"`
	ApproverID      string    `gorm:"column:approver_id;size:64" json:"approver_id"`
	ApproverName    string    `gorm:"column:approver_name;size:128" json:"approver_name"`
	ApproverRole    string    `gorm:"column:approver_role;size:64" json:"approver_role"`
	Decision        string    `gorm:"column:decision;size:32;not null" json:"decision"`
	Comments        string    `gorm:"column:comments;type:text" json:"comments"`
	PreviousQuoteID *uint64   `gorm:"column:previous_quote_id" json:"previous_quote_id"`
	NewQuoteID      *uint64   `gorm:"column:new_quote_id" json:"new_quote_id"`
	ChangeReason    string    `gorm:"column:change_reason;size:255" json:"change_reason"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
}

func (ApprovalHistory) TableName() string { return "line_item_approval_histories" }
