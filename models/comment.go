package models

import "time"

// Comment is a canonical comment. Top-level comments carry their replies;
// replies themselves never nest further (one level observed in the product).
type Comment struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	Author    Author    `json:"author"`
	ParentID  *uint     `json:"parent_id,omitempty"`
	Replies   []Comment `json:"replies"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
