package models

import "time"

type Post struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	AuthorID  string    `gorm:"size:64;not null;index" json:"author_id"`
	Title     string    `gorm:"size:255" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	Disabled  bool      `gorm:"not null;default:false" json:"disabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Comment always hangs off exactly one Post.
type Comment struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	AuthorID  string    `gorm:"size:64;not null;index" json:"author_id"`
	PostID    string    `gorm:"size:64;not null;index" json:"post_id"`
	Content   string    `gorm:"type:text" json:"content"`
	Disabled  bool      `gorm:"not null;default:false" json:"disabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
