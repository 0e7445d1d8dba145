package auditlog

import (
	"context"
	"time"
)

// Table: audit_logs
type Entry struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ActorID    string    `gorm:"column:actor_id;size:64" json:"actor_id"`
	ActorName  string    `gorm:"column:actor_name;size:128" json:"actor_name"`
	EntityType string    `gorm:"column:entity_type;size:32;not null;index:idx_audit_logs_entity" json:"entity_type"`
	EntityID   string    `gorm:"column:entity_id;size:64;not null;index:idx_audit_logs_entity" json:"entity_id"`
	Action     string    `gorm:"column:action;size:64;not null" json:"action"`
	Changes    string    `gorm:"column:changes;type:text" json:"changes"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Entry) TableName() string { return "audit_logs" }

type Repository interface {
	Create(ctx context.Context, e *Entry) error
	ListByEntity(ctx context.Context, entityType, entityID string) ([]Entry, error)
}
