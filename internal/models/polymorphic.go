package models

import "fmt"

// EntityKind is the closed set of entity types a polymorphic reference
// can point at. Keeping it an enum (rather than a free string column)
// means every read site can switch over it exhaustively.
type EntityKind string

const (
	KindPost     EntityKind = "post"
	KindComment  EntityKind = "comment"
	KindReaction EntityKind = "reaction"
)

// Valid reports whether k is a member of the closed kind set.
func (k EntityKind) Valid() bool {
	switch k {
	case KindPost, KindComment, KindReaction:
		return true
	}
	return false
}

// Ref is a polymorphic reference: a kind tag plus the row id it points at.
type Ref struct {
	Kind EntityKind `json:"kind"`
	ID   uint       `json:"id"`
}

// PostRef builds a reference to a post.
func PostRef(id uint) Ref { return Ref{Kind: KindPost, ID: id} }

// CommentRef builds a reference to a comment.
func CommentRef(id uint) Ref { return Ref{Kind: KindComment, ID: id} }

// ReactionRef builds a reference to a reaction.
func ReactionRef(id uint) Ref { return Ref{Kind: KindReaction, ID: id} }

func (r Ref) String() string {
	return fmt.Sprintf("%s/%d", r.Kind, r.ID)
}
