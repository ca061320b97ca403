package models

import "time"

// ReactionType is the closed set of reactions a user can attach.
type ReactionType string

const (
	ReactionLike    ReactionType = "like"
	ReactionLove    ReactionType = "love"
	ReactionDislike ReactionType = "dislike"
)

// Valid reports whether t is a known reaction type.
func (t ReactionType) Valid() bool {
	switch t {
	case ReactionLike, ReactionLove, ReactionDislike:
		return true
	}
	return false
}

// Reaction represents a user's single reaction on a post or comment.
// The composite unique index is what makes concurrent toggles from the
// same user race-safe; the application never relies on a check-then-act.
type Reaction struct {
	ID               uint         `json:"id" gorm:"primaryKey"`
	UserID           uint         `json:"user_id" gorm:"index;uniqueIndex:idx_user_reactionable"`
	ReactionableKind EntityKind   `json:"reactionable_kind" gorm:"size:20;uniqueIndex:idx_user_reactionable;index:idx_reactionable"`
	ReactionableID   uint         `json:"reactionable_id" gorm:"uniqueIndex:idx_user_reactionable;index:idx_reactionable"`
	ReactionType     ReactionType `json:"reaction_type" gorm:"size:10"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// Reactionable returns the polymorphic target reference.
func (r *Reaction) Reactionable() Ref {
	return Ref{Kind: r.ReactionableKind, ID: r.ReactionableID}
}

// ToggleAction names the state transition a toggle resolved to.
type ToggleAction string

const (
	ToggleAdded   ToggleAction = "added"
	ToggleRemoved ToggleAction = "removed"
	ToggleChanged ToggleAction = "changed"
)

// ToggleReactionRequest defines the request body for toggling a reaction
type ToggleReactionRequest struct {
	ReactionableKind EntityKind   `json:"reactionable_kind" validate:"required,oneof=post comment"`
	ReactionableID   uint         `json:"reactionable_id" validate:"required"`
	ReactionType     ReactionType `json:"reaction_type" validate:"required,oneof=like love dislike"`
}
