package models

import "time"

type Media struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	PostID    string    `json:"post_id,omitempty"`
	URL       string    `json:"url"`
	Type      string    `json:"type"` // image or video
	Name      string    `json:"name,omitempty"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}
