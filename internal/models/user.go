package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a graph node; it authors content, files reports and receives notifications.
type User struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"size:255" json:"name"`
	Role      string    `gorm:"size:20;default:'user'" json:"role"`
	Disabled  bool      `gorm:"not null;default:false" json:"disabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
