package invitation

import "time"

const (
	StatusSent      = "sent"
	StatusViewed    = "viewed"
	StatusResponded = "responded"
	StatusDeclined  = "declined"
	StatusRevoked   = "revoked"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
)

// InactiveStatuses are not counted as invited by the visibility gate.
var InactiveStatuses = []string{StatusDeclined, StatusRevoked, StatusCancelled, StatusExpired}

// Table: supplier_rfq_invitations
type Invitation struct {
	ID          uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RfqID       uint64     `gorm:"column:rfq_id;not null;index:idx_invitations_rfq" json:"rfq_id"`
	SupplierID  uint64     `gorm:"column:supplier_id;not null;index:idx_invitations_supplier" json:"supplier_id"`
	Status      string     `gorm:"column:status;size:32;not null" json:"status"`
	Token       string     `gorm:"column:token;size:32;uniqueIndex:ux_invitations_token" json:"-"`
	InvitedBy   string     `gorm:"column:invited_by;size:64" json:"invited_by"`
	InvitedAt   time.Time  `gorm:"column:invited_at" json:"invited_at"`
	RespondedAt *time.Time `gorm:"column:responded_at" json:"responded_at"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (Invitation) TableName() string { return "supplier_rfq_invitations" }

// Blocked reports an invitation the supplier can no longer act on.
func (i *Invitation) Blocked() bool {
	return i.Status == StatusDeclined || i.Status == StatusRevoked
}

func (i *Invitation) Inactive() bool {
	for _, s := range InactiveStatuses {
		if i.Status == s {
			return true
		}
	}
	return false
}
