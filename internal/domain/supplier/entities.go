package supplier

import (
	"context"
	"time"
)

// Supplier is read-only here; onboarding lives elsewhere.
// Table: suppliers
type Supplier struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CompanyName   string    `gorm:"column:company_name;size:255;not null" json:"company_name"`
	ContactPerson string    `gorm:"column:contact_person;size:128" json:"contact_person"`
	ContactPhone  string    `gorm:"column:contact_phone;size:64" json:"contact_phone"`
	ContactEmail  string    `gorm:"column:contact_email;size:255" json:"contact_email"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Supplier) TableName() string { return "suppliers" }

type Repository interface {
	GetByID(ctx context.Context, id uint64) (*Supplier, error)
	ListByIDs(ctx context.Context, ids []uint64) ([]Supplier, error)
}

// Names indexes company names by supplier id.
func Names(list []Supplier) map[uint64]string {
	out := make(map[uint64]string, len(list))
	for _, s := range list {
		out[s.ID] = s.CompanyName
	}
	return out
}
