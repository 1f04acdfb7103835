package models

import "time"

// RuleLatestReview is the only report rule: the latest review decides the outcome.
const RuleLatestReview = "latestReviewUpdatedAtRules"

// Report aggregates every filing against one resource until a moderator closes it.
// The partial unique index keeps at most one open report per resource.
type Report struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	ResourceID   string    `gorm:"size:64;not null;uniqueIndex:idx_reports_open_resource,where:closed = false" json:"resource_id"`
	ResourceType NodeType  `gorm:"size:20;not null" json:"resource_type"`
	Closed       bool      `gorm:"not null;index" json:"closed"`
	Disable      bool      `gorm:"not null" json:"disable"`
	Rule         string    `gorm:"size:50" json:"rule"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FiledReport is the FILED edge from a submitting user to a report. Repeated
// filings by the same user are kept as separate edges.
type FiledReport struct {
	ID                uint      `gorm:"primaryKey" json:"-"`
	SubmitterID       string    `gorm:"size:64;not null;index" json:"submitter_id"`
	ReportID          string    `gorm:"size:36;not null;index" json:"report_id"`
	ReasonCategory    string    `gorm:"size:100;not null" json:"reason_category"`
	ReasonDescription string    `gorm:"size:1000" json:"reason_description"`
	CreatedAt         time.Time `json:"created_at"`
}

// ReportReview is the REVIEWED edge from a moderator to a report.
type ReportReview struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	ModeratorID string    `gorm:"size:64;not null;uniqueIndex:idx_report_reviews_edge,priority:1" json:"moderator_id"`
	ReportID    string    `gorm:"size:36;not null;uniqueIndex:idx_report_reviews_edge,priority:2" json:"report_id"`
	Disable     bool      `gorm:"not null" json:"disable"`
	Closed      bool      `gorm:"not null" json:"closed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
