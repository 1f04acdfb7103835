package dto

import "time"

type FileReportRequest struct {
	ResourceID        string `json:"resourceId"`
	ReasonCategory    string `json:"reasonCategory"`
	ReasonDescription string `json:"reasonDescription"`
}

type ReviewRequest struct {
	ResourceID string `json:"resourceId"`
	Disable    bool   `json:"disable"`
	Closed     bool   `json:"closed"`
}

type BlockUserRequest struct {
	BlockedID string `json:"blockedId"`
}

type ReportResponse struct {
	Type      string            `json:"type"`
	ID        string            `json:"id"`
	Closed    bool              `json:"closed"`
	Disable   bool              `json:"disable"`
	Rule      string            `json:"rule"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Resource  *ResourceResponse `json:"resource"`
	Filed     []FiledResponse   `json:"filed"`
	Reviewed  []ReviewResponse  `json:"reviewed"`
}

func (r *ReportResponse) NodeType() string { return r.Type }

type FiledResponse struct {
	CreatedAt         time.Time     `json:"createdAt"`
	ReasonCategory    string        `json:"reasonCategory"`
	ReasonDescription *string       `json:"reasonDescription"`
	Submitter         *UserResponse `json:"submitter"`
}

type ReviewResponse struct {
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Disable   bool          `json:"disable"`
	Closed    bool          `json:"closed"`
	Moderator *UserResponse `json:"moderator"`
}

// FileReportResponse carries a null report when the submitter is unknown.
type FileReportResponse struct {
	Report *ReportResponse `json:"report"`
}

type ReportsResponse struct {
	Reports []*ReportResponse `json:"reports"`
	Offset  int               `json:"offset"`
	First   int               `json:"first"`
}
