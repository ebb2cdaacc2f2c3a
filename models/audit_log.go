package models

import "time"

// AuditLog records who did what to which record: every outgoing email and
// every denied access lands here.
type AuditLog struct {
	AuditLogID string    `gorm:"primaryKey;column:audit_log_id;size:36" json:"audit_log_id"`
	ActorID    *uint     `gorm:"column:actor_id" json:"actor_id,omitempty"`
	ObjectKind string    `gorm:"column:object_kind" json:"object_kind"`
	ObjectID   uint      `gorm:"column:object_id" json:"object_id"`
	ObjectRepr string    `gorm:"column:object_repr" json:"object_repr"`
	Message    string    `gorm:"column:message" json:"message"`
	CreateAt   time.Time `gorm:"column:create_at" json:"create_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
