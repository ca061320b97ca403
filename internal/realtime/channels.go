package realtime

import (
	"fmt"

	"github.com/arkodeep/vibely/backend/internal/models"
)

// Channel names accepted in subscribe commands.
const (
	ChannelPosts         = "PostsChannel"
	ChannelComments      = "CommentsChannel"
	ChannelNotifications = "NotificationsChannel"
)

// Identifier selects one logical subscription stream on a connection.
// CommentsChannel is scoped by exactly one of PostID or ParentCommentID.
type Identifier struct {
	Channel         string `json:"channel"`
	PostID          uint   `json:"post_id,omitempty"`
	ParentCommentID uint   `json:"parent_comment_id,omitempty"`
}

// RouteKey maps the identifier to the hub's routing key. The
// notifications stream is always the authenticated user's own, no matter
// what scope the client asked for.
func (id Identifier) RouteKey(userID uint) (string, error) {
	switch id.Channel {
	case ChannelPosts:
		return PostsKey(), nil
	case ChannelComments:
		if id.PostID != 0 && id.ParentCommentID != 0 {
			return "", fmt.Errorf("comments channel: post_id and parent_comment_id are mutually exclusive")
		}
		if id.PostID != 0 {
			return CommentsOnPostKey(id.PostID), nil
		}
		if id.ParentCommentID != 0 {
			return RepliesKey(id.ParentCommentID), nil
		}
		return "", fmt.Errorf("comments channel: post_id or parent_comment_id required")
	case ChannelNotifications:
		return NotificationsKey(userID), nil
	}
	return "", fmt.Errorf("unknown channel %q", id.Channel)
}

// SubKey is the user-independent form used to match incoming frames to
// client-side subscriptions.
func (id Identifier) SubKey() string {
	switch id.Channel {
	case ChannelComments:
		if id.PostID != 0 {
			return fmt.Sprintf("comments:post:%d", id.PostID)
		}
		return fmt.Sprintf("comments:comment:%d", id.ParentCommentID)
	case ChannelNotifications:
		return "notifications"
	default:
		return "posts"
	}
}

// PostsKey is the global all-posts channel.
func PostsKey() string { return "posts" }

// CommentsOnPostKey scopes comment events to one post.
func CommentsOnPostKey(postID uint) string {
	return fmt.Sprintf("comments:post:%d", postID)
}

// RepliesKey scopes reply events to one parent comment.
func RepliesKey(commentID uint) string {
	return fmt.Sprintf("comments:comment:%d", commentID)
}

// NotificationsKey is private to one recipient.
func NotificationsKey(userID uint) string {
	return fmt.Sprintf("notifications:user:%d", userID)
}

// CommentKey routes a comment event to its parent's scope.
func CommentKey(parent models.Ref) string {
	if parent.Kind == models.KindPost {
		return CommentsOnPostKey(parent.ID)
	}
	return RepliesKey(parent.ID)
}

// CommentIdentifier is the identifier clients subscribe with for a
// comment's parent scope.
func CommentIdentifier(parent models.Ref) Identifier {
	if parent.Kind == models.KindPost {
		return Identifier{Channel: ChannelComments, PostID: parent.ID}
	}
	return Identifier{Channel: ChannelComments, ParentCommentID: parent.ID}
}
