package model

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog records table mutations and who triggered them.
type AuditLog struct {
	ID         int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	TraceID    string         `gorm:"index:idx_audit_trace;size:36" json:"trace_id"`
	AccountID  *int64         `gorm:"index:idx_audit_account" json:"account_id"`
	Action     string         `gorm:"size:64;not null" json:"action"`
	Payload    datatypes.JSON `json:"payload"`
	Error      string         `gorm:"type:text" json:"error"`
	IP         string         `gorm:"size:45" json:"ip"`
	CreatedAt  time.Time      `gorm:"index:idx_audit_created;autoCreateTime:milli" json:"created_at"`
}
