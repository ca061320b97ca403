package realtime

import "github.com/arkodeep/vibely/backend/internal/models"

// Frame types for connection-level traffic.
const (
	FrameWelcome             = "welcome"
	FrameConfirmSubscription = "confirm_subscription"
	FrameRejectSubscription  = "reject_subscription"
	FramePing                = "ping"
	FramePong                = "pong"
)

// Commands clients send over the socket.
const (
	CommandSubscribe   = "subscribe"
	CommandUnsubscribe = "unsubscribe"
	CommandPing        = "ping"
)

// Event actions pushed to subscribers.
const (
	ActionNewPost         = "new_post"
	ActionUpdatePost      = "update_post"
	ActionDeletePost      = "delete_post"
	ActionNewComment      = "new_comment"
	ActionUpdateComment   = "update_comment"
	ActionDeleteComment   = "delete_comment"
	ActionNewNotification = "new_notification"
)

// Command is a client-to-server control message.
type Command struct {
	Command    string     `json:"command"`
	Identifier Identifier `json:"identifier"`
}

// Event is the broadcast payload pushed to subscribers. Update events
// carry the full refreshed entity so clients replace rather than patch;
// delete events carry only the id.
type Event struct {
	Action       string               `json:"action"`
	Post         *models.Post         `json:"post,omitempty"`
	PostID       uint                 `json:"post_id,omitempty"`
	Comment      *models.Comment      `json:"comment,omitempty"`
	CommentID    uint                 `json:"comment_id,omitempty"`
	Notification *models.Notification `json:"notification,omitempty"`
}

// Frame is the wire envelope for server-to-client traffic.
type Frame struct {
	Type       string      `json:"type,omitempty"`
	Identifier *Identifier `json:"identifier,omitempty"`
	Message    *Event      `json:"message,omitempty"`
}
