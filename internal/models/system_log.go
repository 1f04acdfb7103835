package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SystemLog keeps ERROR+ records, including swallowed notification failures.
type SystemLog struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Timestamp  time.Time      `gorm:"not null;index" json:"timestamp"`
	Level      string         `gorm:"size:10;not null;index" json:"level"`
	Message    string         `gorm:"type:text" json:"message"`
	Operation  string         `gorm:"size:100;index" json:"operation"`
	RequestID  string         `gorm:"size:36;index" json:"request_id"`
	UserID     *string        `gorm:"size:64" json:"user_id"`
	ResourceID *string        `gorm:"size:64" json:"resource_id"`
	Error      string         `gorm:"type:text" json:"error"`
	Extra      datatypes.JSON `json:"extra"`
	CreatedAt  time.Time      `json:"created_at"`
}
