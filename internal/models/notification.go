package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// NodeType is the label of a graph node that can be the source of a
// notification or the target of a report.
type NodeType string

const (
	NodeUser    NodeType = "User"
	NodePost    NodeType = "Post"
	NodeComment NodeType = "Comment"
	NodeReport  NodeType = "Report"
)

// Reason says why a notification edge exists. The set is closed; strings are
// only accepted at the storage and JSON boundaries through ParseReason.
type Reason uint8

const (
	ReasonMentionedInPost Reason = iota + 1
	ReasonMentionedInComment
	ReasonCommentedOnPost
	ReasonFiledReportOnResource
)

var reasonNames = map[Reason]string{
	ReasonMentionedInPost:       "mentioned_in_post",
	ReasonMentionedInComment:    "mentioned_in_comment",
	ReasonCommentedOnPost:       "commented_on_post",
	ReasonFiledReportOnResource: "filed_report_on_resource",
}

// Reasons lists every reason in declaration order.
func Reasons() []Reason {
	return []Reason{
		ReasonMentionedInPost,
		ReasonMentionedInComment,
		ReasonCommentedOnPost,
		ReasonFiledReportOnResource,
	}
}

func ParseReason(s string) (Reason, error) {
	for r, name := range reasonNames {
		if name == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown notification reason %q", s)
}

func (r Reason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Reason(%d)", uint8(r))
}

func (r Reason) Valid() bool {
	_, ok := reasonNames[r]
	return ok
}

func (r Reason) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid notification reason %d", uint8(r))
	}
	return r.String(), nil
}

func (r *Reason) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Reason", src)
	}
	parsed, err := ParseReason(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r Reason) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Reason) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseReason(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Notification is the NOTIFIED edge from a source node to a recipient.
// There is at most one edge per (source, recipient, reason).
type Notification struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	SourceID   string    `gorm:"size:64;not null;uniqueIndex:idx_notifications_edge,priority:1" json:"source_id"`
	SourceType NodeType  `gorm:"size:20;not null" json:"source_type"`
	UserID     string    `gorm:"size:64;not null;uniqueIndex:idx_notifications_edge,priority:2;index" json:"user_id"`
	Reason     Reason    `gorm:"type:varchar(40);not null;uniqueIndex:idx_notifications_edge,priority:3" json:"reason"`
	Read       bool      `gorm:"not null" json:"read"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
