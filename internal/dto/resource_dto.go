package dto

import "time"

// ResourceResponse is a materialised User, Post or Comment node. Type carries
// the node label; the other fields are filled according to it.
type ResourceResponse struct {
	Type      string            `json:"type"`
	ID        string            `json:"id"`
	Name      string            `json:"name,omitempty"`
	Title     string            `json:"title,omitempty"`
	Content   string            `json:"content,omitempty"`
	Disabled  bool              `json:"disabled"`
	CreatedAt *time.Time        `json:"createdAt,omitempty"`
	Author    *UserResponse     `json:"author,omitempty"`
	Post      *ResourceResponse `json:"post,omitempty"`
}

func (r *ResourceResponse) NodeType() string { return r.Type }
