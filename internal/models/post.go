package models

import "time"

type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	AuthorID    string    `json:"author_id"`
	Author      *User     `json:"author,omitempty"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	Likes       int       `json:"likes"`
	Comments    int       `json:"comments"`
	Views       int       `json:"views"`
	IsPinned    bool      `json:"is_pinned,omitempty"`
	Media       []*Media  `json:"media,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreatePostRequest struct {
	Title    string   `json:"title" binding:"required"`
	Content  string   `json:"content" binding:"required"`
	Category string   `json:"category" binding:"required"`
	Tags     []string `json:"tags"`
	MediaIDs []string `json:"mediaIds,omitempty"`
}

type UpdatePostRequest struct {
	Title    string   `json:"title,omitempty"`
	Content  string   `json:"content,omitempty"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}
