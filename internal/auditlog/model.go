package auditlog

import (
	"time"
)

// AuditLog represents the audit_logs table
type AuditLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id"` // nullable (e.g. failed login)
	Action    string    `gorm:"size:100;not null;index" json:"action"`
	Details   string    `gorm:"type:jsonb" json:"details"` // freeform JSON details
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	RequestID string    `gorm:"size:36;index" json:"request_id"`
	Status    string    `gorm:"size:20;not null;index" json:"status"` // success/failure
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditLogFilter represents filters for querying audit logs
type AuditLogFilter struct {
	UserID   *uint      `json:"user_id"`
	Action   string     `json:"action"`
	Status   string     `json:"status"`
	FromDate *time.Time `json:"from_date"`
	ToDate   *time.Time `json:"to_date"`
	Page     int        `json:"page"`
	Limit    int        `json:"limit"`
}

// PaginatedAuditLogs represents a paginated audit log response
type PaginatedAuditLogs struct {
	Data       []AuditLog `json:"data"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
}
