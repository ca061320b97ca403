package models

import "time"

// NotificationType classifies what the actor did.
type NotificationType string

const (
	NotificationCommentOnPost     NotificationType = "comment_on_post"
	NotificationReplyToComment    NotificationType = "reply_to_comment"
	NotificationMention           NotificationType = "mention"
	NotificationReactionOnPost    NotificationType = "reaction_on_post"
	NotificationReactionOnComment NotificationType = "reaction_on_comment"
)

// Notification represents a user notification. ReadAt is nil while the
// notification is unread. The notifiable pair points at the comment,
// reaction, or post that triggered it.
type Notification struct {
	ID               uint             `json:"id" gorm:"primaryKey"`
	RecipientID      uint             `json:"recipient_id" gorm:"index"`
	ActorID          uint             `json:"actor_id" gorm:"index"` // who triggered it
	NotifiableKind   EntityKind       `json:"notifiable_kind" gorm:"size:20;index:idx_notifiable"`
	NotifiableID     uint             `json:"notifiable_id" gorm:"index:idx_notifiable"`
	NotificationType NotificationType `json:"notification_type" gorm:"size:30;index"`
	ReadAt           *time.Time       `json:"read_at" gorm:"index"`
	CreatedAt        time.Time        `json:"created_at" gorm:"index"`
}

// Notifiable returns the polymorphic trigger reference.
func (n *Notification) Notifiable() Ref {
	return Ref{Kind: n.NotifiableKind, ID: n.NotifiableID}
}

// Read reports whether the notification has been read.
func (n *Notification) Read() bool {
	return n.ReadAt != nil
}
