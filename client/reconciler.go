package client

import (
	"sync"
	"time"

	"github.com/arkodeep/vibely/backend/internal/models"
	"github.com/arkodeep/vibely/backend/internal/realtime"
)

// FeedStore holds the feed's posts, newest first, and reconciles
// broadcast events against it. New entities are deduplicated by id so
// the author's own optimistic insert does not double up when the
// broadcast echoes back; updates replace in place; deletes remove.
type FeedStore struct {
	mu    sync.RWMutex
	posts []models.Post
}

// NewFeedStore creates an empty FeedStore.
func NewFeedStore() *FeedStore {
	return &FeedStore{}
}

// Apply reconciles one broadcast event. Unknown actions are ignored.
func (s *FeedStore) Apply(ev realtime.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Action {
	case realtime.ActionNewPost:
		if ev.Post == nil || s.indexOf(ev.Post.ID) >= 0 {
			return
		}
		s.posts = append([]models.Post{*ev.Post}, s.posts...)
	case realtime.ActionUpdatePost:
		if ev.Post == nil {
			return
		}
		if i := s.indexOf(ev.Post.ID); i >= 0 {
			s.posts[i] = *ev.Post
		}
	case realtime.ActionDeletePost:
		if i := s.indexOf(ev.PostID); i >= 0 {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
		}
	}
}

// Put upserts a post, used for optimistic local inserts and the REST
// responses that seed the store.
func (s *FeedStore) Put(post models.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(post.ID); i >= 0 {
		s.posts[i] = post
		return
	}
	s.posts = append([]models.Post{post}, s.posts...)
}

// Remove drops a post by id.
func (s *FeedStore) Remove(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.posts = append(s.posts[:i], s.posts[i+1:]...)
	}
}

// Get returns a post by id.
func (s *FeedStore) Get(id uint) (models.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.posts[i], true
	}
	return models.Post{}, false
}

// Posts returns a copy of the current feed.
func (s *FeedStore) Posts() []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Post, len(s.posts))
	copy(out, s.posts)
	return out
}

// Snapshot captures the current feed and returns a closure that restores
// it, the rollback half of an optimistic mutation.
func (s *FeedStore) Snapshot() func() {
	s.mu.RLock()
	saved := make([]models.Post, len(s.posts))
	copy(saved, s.posts)
	s.mu.RUnlock()
	return func() {
		s.mu.Lock()
		s.posts = saved
		s.mu.Unlock()
	}
}

// indexOf must be called with s.mu held.
func (s *FeedStore) indexOf(id uint) int {
	for i := range s.posts {
		if s.posts[i].ID == id {
			return i
		}
	}
	return -1
}

// CommentStore holds the comments of one scope (a post's direct comments
// or one comment's reply thread), oldest first.
type CommentStore struct {
	mu       sync.RWMutex
	comments []models.Comment
}

// NewCommentStore creates an empty CommentStore.
func NewCommentStore() *CommentStore {
	return &CommentStore{}
}

// Apply reconciles one broadcast event. Unknown actions are ignored.
func (s *CommentStore) Apply(ev realtime.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Action {
	case realtime.ActionNewComment:
		if ev.Comment == nil || s.indexOf(ev.Comment.ID) >= 0 {
			return
		}
		s.comments = append(s.comments, *ev.Comment)
	case realtime.ActionUpdateComment:
		if ev.Comment == nil {
			return
		}
		if i := s.indexOf(ev.Comment.ID); i >= 0 {
			s.comments[i] = *ev.Comment
		}
	case realtime.ActionDeleteComment:
		if i := s.indexOf(ev.CommentID); i >= 0 {
			s.comments = append(s.comments[:i], s.comments[i+1:]...)
		}
	}
}

// Put upserts a comment, used for optimistic local inserts.
func (s *CommentStore) Put(comment models.Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(comment.ID); i >= 0 {
		s.comments[i] = comment
		return
	}
	s.comments = append(s.comments, comment)
}

// Remove drops a comment by id.
func (s *CommentStore) Remove(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.comments = append(s.comments[:i], s.comments[i+1:]...)
	}
}

// Get returns a comment by id.
func (s *CommentStore) Get(id uint) (models.Comment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.comments[i], true
	}
	return models.Comment{}, false
}

// Comments returns a copy of the current list.
func (s *CommentStore) Comments() []models.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Comment, len(s.comments))
	copy(out, s.comments)
	return out
}

// Snapshot captures the current list and returns a closure that restores
// it.
func (s *CommentStore) Snapshot() func() {
	s.mu.RLock()
	saved := make([]models.Comment, len(s.comments))
	copy(saved, s.comments)
	s.mu.RUnlock()
	return func() {
		s.mu.Lock()
		s.comments = saved
		s.mu.Unlock()
	}
}

func (s *CommentStore) indexOf(id uint) int {
	for i := range s.comments {
		if s.comments[i].ID == id {
			return i
		}
	}
	return -1
}

// NotificationStore holds the signed-in user's notifications, newest
// first, and derives the unread badge count.
type NotificationStore struct {
	mu            sync.RWMutex
	notifications []models.Notification
}

// NewNotificationStore creates an empty NotificationStore.
func NewNotificationStore() *NotificationStore {
	return &NotificationStore{}
}

// Apply reconciles one broadcast event.
func (s *NotificationStore) Apply(ev realtime.Event) {
	if ev.Action != realtime.ActionNewNotification || ev.Notification == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(ev.Notification.ID) >= 0 {
		return
	}
	s.notifications = append([]models.Notification{*ev.Notification}, s.notifications...)
}

// Seed replaces the store's contents with a REST-fetched page.
func (s *NotificationStore) Seed(notifications []models.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]models.Notification, len(notifications))
	copy(s.notifications, notifications)
}

// Notifications returns a copy of the current list.
func (s *NotificationStore) Notifications() []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// UnreadCount returns how many notifications are still unread.
func (s *NotificationStore) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for i := range s.notifications {
		if s.notifications[i].ReadAt == nil {
			count++
		}
	}
	return count
}

// MarkRead marks one notification read locally.
func (s *NotificationStore) MarkRead(id uint, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 && s.notifications[i].ReadAt == nil {
		s.notifications[i].ReadAt = &at
	}
}

// MarkAllRead marks every unread notification read locally.
func (s *NotificationStore) MarkAllRead(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ReadAt == nil {
			t := at
			s.notifications[i].ReadAt = &t
		}
	}
}

// Snapshot captures the current list and returns a closure that restores
// it.
func (s *NotificationStore) Snapshot() func() {
	s.mu.RLock()
	saved := make([]models.Notification, len(s.notifications))
	copy(saved, s.notifications)
	s.mu.RUnlock()
	return func() {
		s.mu.Lock()
		s.notifications = saved
		s.mu.Unlock()
	}
}

func (s *NotificationStore) indexOf(id uint) int {
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			return i
		}
	}
	return -1
}
