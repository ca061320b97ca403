package models

import "time"

// Comment represents a comment on a post or on another comment. The
// commentable pair is the polymorphic parent reference; CommentsCount is
// the direct reply count.
type Comment struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	UserID          uint       `json:"user_id" gorm:"index"` // ID of the user who made the comment
	Description     string     `json:"description"`
	CommentableKind EntityKind `json:"commentable_kind" gorm:"size:20;index:idx_commentable"`
	CommentableID   uint       `json:"commentable_id" gorm:"index:idx_commentable"`
	ReactionsCount  int        `json:"reactions_count" gorm:"not null;default:0"`
	CommentsCount   int        `json:"comments_count" gorm:"not null;default:0"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Commentable returns the polymorphic parent reference.
func (c *Comment) Commentable() Ref {
	return Ref{Kind: c.CommentableKind, ID: c.CommentableID}
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	CommentableKind EntityKind `json:"commentable_kind" validate:"required,oneof=post comment"`
	CommentableID   uint       `json:"commentable_id" validate:"required"`
	Description     string     `json:"description" validate:"required,min=1,max=2000"`
}

// UpdateCommentRequest defines the request body for updating an existing comment
type UpdateCommentRequest struct {
	Description string `json:"description" validate:"required,min=1,max=2000"`
}
