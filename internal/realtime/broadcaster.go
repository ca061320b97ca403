package realtime

import "github.com/arkodeep/vibely/backend/internal/models"

// Publisher is the sink broadcasts are pushed into. The hub implements
// it; tests substitute a recorder.
type Publisher interface {
	Publish(key string, frame Frame)
}

// Broadcaster is the post-commit trigger layer: write services call it
// only after their storage transaction has committed, so subscribers
// never observe a broadcast for data a concurrent reader cannot yet see.
// Every method is fire-and-forget.
type Broadcaster struct {
	pub Publisher
}

// NewBroadcaster creates a Broadcaster on top of a publisher.
func NewBroadcaster(pub Publisher) *Broadcaster {
	return &Broadcaster{pub: pub}
}

var postsIdentifier = Identifier{Channel: ChannelPosts}
var notificationsIdentifier = Identifier{Channel: ChannelNotifications}

// PostCreated announces a new post on the global posts channel.
func (b *Broadcaster) PostCreated(post *models.Post) {
	b.pub.Publish(PostsKey(), Frame{
		Identifier: &postsIdentifier,
		Message:    &Event{Action: ActionNewPost, Post: post},
	})
}

// PostUpdated announces the full refreshed post so subscribers can
// replace their cached copy without a fetch.
func (b *Broadcaster) PostUpdated(post *models.Post) {
	b.pub.Publish(PostsKey(), Frame{
		Identifier: &postsIdentifier,
		Message:    &Event{Action: ActionUpdatePost, Post: post},
	})
}

// PostDeleted announces a deletion by id.
func (b *Broadcaster) PostDeleted(postID uint) {
	b.pub.Publish(PostsKey(), Frame{
		Identifier: &postsIdentifier,
		Message:    &Event{Action: ActionDeletePost, PostID: postID},
	})
}

// CommentCreated announces a new comment on its parent's scope: the
// post's comment channel for top-level comments, the parent comment's
// reply channel for replies.
func (b *Broadcaster) CommentCreated(comment *models.Comment) {
	b.publishComment(comment, Event{Action: ActionNewComment, Comment: comment})
}

// CommentUpdated announces the full refreshed comment on its parent's scope.
func (b *Broadcaster) CommentUpdated(comment *models.Comment) {
	b.publishComment(comment, Event{Action: ActionUpdateComment, Comment: comment})
}

// CommentDeleted announces a deletion by id on the parent's scope.
func (b *Broadcaster) CommentDeleted(comment *models.Comment) {
	b.publishComment(comment, Event{Action: ActionDeleteComment, CommentID: comment.ID})
}

func (b *Broadcaster) publishComment(comment *models.Comment, event Event) {
	parent := comment.Commentable()
	id := CommentIdentifier(parent)
	b.pub.Publish(CommentKey(parent), Frame{Identifier: &id, Message: &event})
}

// NotificationCreated pushes the notification to the recipient's private
// channel only; notifications never reach a shared channel.
func (b *Broadcaster) NotificationCreated(notification *models.Notification) {
	b.pub.Publish(NotificationsKey(notification.RecipientID), Frame{
		Identifier: &notificationsIdentifier,
		Message:    &Event{Action: ActionNewNotification, Notification: notification},
	})
}

// NotificationsCreated pushes a batch, one frame per recipient row.
func (b *Broadcaster) NotificationsCreated(notifications []models.Notification) {
	for i := range notifications {
		b.NotificationCreated(&notifications[i])
	}
}
