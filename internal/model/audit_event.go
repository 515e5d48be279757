package model

import "time"

const (
	AuditDocumentUploaded = "document.uploaded"
	AuditDocumentDeleted  = "document.deleted"
	AuditSecurityBlocked  = "security.blocked"
)

// AuditEvent is published to the broker by handlers and middleware and
// persisted asynchronously by the audit worker.
type AuditEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Kind       string    `gorm:"size:64;not null;index" json:"kind"`
	DocumentID uint      `gorm:"index" json:"document_id"` // 0 = not document related
	ClientIP   string    `gorm:"size:64" json:"client_ip"`
	Detail     string    `gorm:"size:512" json:"detail"`
	CreatedAt  time.Time `json:"created_at"`
}
