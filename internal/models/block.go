package models

import "time"

// Block is stored directed but read as a symmetric relation: a block in either
// direction separates the two users.
type Block struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	BlockerID string    `gorm:"size:64;not null;uniqueIndex:idx_blocks_pair,priority:1" json:"blocker_id"`
	BlockedID string    `gorm:"size:64;not null;uniqueIndex:idx_blocks_pair,priority:2;index" json:"blocked_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Block) TableName() string {
	return "blocks"
}
