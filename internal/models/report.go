package models

import "time"

const (
	ReportStatusPending  = "pending"
	ReportStatusResolved = "resolved"
	ReportStatusRejected = "rejected"
)

type Report struct {
	ID         string     `json:"id"`
	ReporterID string     `json:"reporter_id"`
	PostID     string     `json:"post_id,omitempty"`
	CommentID  string     `json:"comment_id,omitempty"`
	Reason     string     `json:"reason"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy string     `json:"reviewed_by,omitempty"`
}

type CreateReportRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ResolveReportRequest struct {
	Status string `json:"status" binding:"required"` // resolved or rejected
}
