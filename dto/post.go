package dto

import (
	"time"

	"posts-api/models"
)

// PostDTO is the public representation of a post.
type PostDTO struct {
	ID        uint      `json:"id" example:"1"`
	Title     string    `json:"title" example:"hello"`
	Content   string    `json:"content" example:"world"`
	Published bool      `json:"published" example:"false"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPostDTO constructs PostDTO from models.Post. Tags is never null.
func NewPostDTO(p models.Post) PostDTO {
	tags := make([]string, len(p.Tags))
	copy(tags, p.Tags)
	return PostDTO{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Published: p.Published,
		Tags:      tags,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// CreatePostRequest is the body of POST /posts.
type CreatePostRequest struct {
	Title   string   `json:"title" binding:"required" example:"hello"`
	Content string   `json:"content" binding:"required" example:"world"`
	Tags    []string `json:"tags" binding:"required,dive,required"`
}

// UpdatePostRequest is the body of PATCH /posts/{id}. Absent (or null)
// fields keep their stored value; "tags": [] clears the tag list.
type UpdatePostRequest struct {
	Title     *string  `json:"title" binding:"omitempty,min=1"`
	Content   *string  `json:"content" binding:"omitempty,min=1"`
	Tags      []string `json:"tags" binding:"omitempty,dive,required"`
	Published *bool    `json:"published"`
}
