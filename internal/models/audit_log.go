package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog is one schedule or slot mutation. Metadata holds the operation's
// counters or ids as a JSON object.
type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BusinessID uint   `gorm:"not null;index:idx_audit_logs_business_id,priority:1" json:"business_id"`
	ActorID    *uint  `json:"actor_id"`
	Action     string `gorm:"size:50;not null" json:"action"`

	Entity   string         `gorm:"size:50" json:"entity"`
	EntityID *uint          `json:"entity_id"`
	Metadata datatypes.JSON `json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"index:idx_audit_logs_business_id,priority:2" json:"created_at"`
}
