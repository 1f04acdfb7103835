package dto

import "time"

// Node is the source of a notification: a *ResourceResponse for content or a
// *ReportResponse for reports.
type Node interface {
	NodeType() string
}

type NotificationResponse struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Read      bool      `json:"read"`
	Reason    string    `json:"reason"`
	From      Node      `json:"from"`
}

type NotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
}

// MarkAsReadResponse carries a null notification when nothing was unread.
type MarkAsReadResponse struct {
	Notification *NotificationResponse `json:"notification"`
}
