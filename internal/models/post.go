package models

import "time"

// Post represents a feed post. The reactions and comments counters are
// denormalized counter caches maintained by the write services.
type Post struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	UserID         uint      `json:"user_id" gorm:"index"` // ID of the user who created the post
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	ImageURL       string    `json:"image_url,omitempty"`
	ReactionsCount int       `json:"reactions_count" gorm:"not null;default:0"`
	CommentsCount  int       `json:"comments_count" gorm:"not null;default:0"`
	Tags           []Tag     `json:"tags,omitempty" gorm:"many2many:post_tags"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=120"`
	Description string   `json:"description" validate:"required,min=1,max=2000"`
	ImageURL    string   `json:"image_url,omitempty" validate:"omitempty,url"`
	TagNames    []string `json:"tag_names,omitempty" validate:"omitempty,dive,min=1,max=30"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Title       string `json:"title,omitempty" validate:"omitempty,min=1,max=120"`
	Description string `json:"description,omitempty" validate:"omitempty,min=1,max=2000"`
	ImageURL    string `json:"image_url,omitempty" validate:"omitempty,url"`
}
