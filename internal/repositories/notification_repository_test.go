package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkodeep/vibely/backend/internal/models"
)

func seedNotification(t *testing.T, repo NotificationRepository, recipientID, actorID uint, notifiable models.Ref, typ models.NotificationType) *models.Notification {
	t.Helper()
	n := &models.Notification{
		RecipientID:      recipientID,
		ActorID:          actorID,
		NotifiableKind:   notifiable.Kind,
		NotifiableID:     notifiable.ID,
		NotificationType: typ,
	}
	require.NoError(t, repo.CreateNotification(n))
	return n
}

func TestNotificationReadLifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormNotificationRepository(db)

	n := seedNotification(t, repo, 1, 2, models.CommentRef(10), models.NotificationCommentOnPost)

	count, err := repo.GetUnreadCount(1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, repo.MarkAsRead(n.ID, 1))
	count, err = repo.GetUnreadCount(1)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	var reloaded models.Notification
	require.NoError(t, db.First(&reloaded, n.ID).Error)
	require.NotNil(t, reloaded.ReadAt)
	firstReadAt := *reloaded.ReadAt

	// Marking again does not move the read timestamp.
	require.NoError(t, repo.MarkAsRead(n.ID, 1))
	require.NoError(t, db.First(&reloaded, n.ID).Error)
	assert.Equal(t, firstReadAt, *reloaded.ReadAt)
}

func TestNotificationMarkAsReadScopedToRecipient(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormNotificationRepository(db)

	n := seedNotification(t, repo, 1, 2, models.CommentRef(10), models.NotificationCommentOnPost)

	// A different user cannot read someone else's notification.
	require.NoError(t, repo.MarkAsRead(n.ID, 42))
	count, err := repo.GetUnreadCount(1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestNotificationMarkAllAsRead(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormNotificationRepository(db)

	seedNotification(t, repo, 1, 2, models.CommentRef(10), models.NotificationCommentOnPost)
	seedNotification(t, repo, 1, 3, models.ReactionRef(11), models.NotificationReactionOnPost)
	other := seedNotification(t, repo, 9, 2, models.CommentRef(12), models.NotificationMention)

	require.NoError(t, repo.MarkAllAsRead(1))

	count, err := repo.GetUnreadCount(1)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	// Another recipient's notifications are untouched.
	var reloaded models.Notification
	require.NoError(t, db.First(&reloaded, other.ID).Error)
	assert.Nil(t, reloaded.ReadAt)
}

func TestNotificationExistsMatchesFullKey(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormNotificationRepository(db)

	seedNotification(t, repo, 1, 2, models.CommentRef(10), models.NotificationMention)

	exists, err := repo.Exists(models.CommentRef(10), 1, models.NotificationMention)
	require.NoError(t, err)
	assert.True(t, exists)

	// Different recipient, notifiable, or type all miss.
	exists, err = repo.Exists(models.CommentRef(10), 2, models.NotificationMention)
	require.NoError(t, err)
	assert.False(t, exists)
	exists, err = repo.Exists(models.CommentRef(11), 1, models.NotificationMention)
	require.NoError(t, err)
	assert.False(t, exists)
	exists, err = repo.Exists(models.CommentRef(10), 1, models.NotificationReplyToComment)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestNotificationGroupingByAge(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormNotificationRepository(db)

	now := time.Now()
	seedAt := func(recipientID, notifiableID uint, at time.Time) {
		n := &models.Notification{
			RecipientID:      recipientID,
			ActorID:          2,
			NotifiableKind:   models.KindComment,
			NotifiableID:     notifiableID,
			NotificationType: models.NotificationCommentOnPost,
			CreatedAt:        at,
		}
		require.NoError(t, repo.CreateNotification(n))
	}
	seedAt(1, 10, now)
	seedAt(1, 11, now.Add(-24*time.Hour))
	seedAt(1, 12, now.Add(-3*24*time.Hour))
	seedAt(1, 13, now.Add(-10*24*time.Hour))
	seedAt(9, 14, now) // other recipient, must not leak in

	today, yesterday, thisWeek, older, err := repo.GetGrouped(1)
	require.NoError(t, err)

	require.Len(t, today, 1)
	assert.EqualValues(t, 10, today[0].NotifiableID)
	require.Len(t, yesterday, 1)
	assert.EqualValues(t, 11, yesterday[0].NotifiableID)
	require.Len(t, thisWeek, 1)
	assert.EqualValues(t, 12, thisWeek[0].NotifiableID)
	require.Len(t, older, 1)
	assert.EqualValues(t, 13, older[0].NotifiableID)
}

func TestNotificationPagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormNotificationRepository(db)

	for i := 0; i < 5; i++ {
		seedNotification(t, repo, 1, 2, models.CommentRef(uint(100+i)), models.NotificationCommentOnPost)
	}

	page1, total, err := repo.GetByRecipientID(1, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, page1, 2)

	page3, _, err := repo.GetByRecipientID(1, 3, 2)
	require.NoError(t, err)
	assert.Len(t, page3, 1)

	// Newest first.
	assert.Greater(t, page1[0].ID, page1[1].ID)
}
