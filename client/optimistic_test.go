package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkodeep/vibely/backend/internal/models"
	"github.com/arkodeep/vibely/backend/internal/realtime"
)

func TestOptimisticConfirmReplacesGuess(t *testing.T) {
	store := NewFeedStore()
	store.Put(models.Post{ID: 1, ReactionsCount: 2})

	// Optimistic reaction toggle: bump the counter locally right away.
	mutation := Apply(store.Snapshot(), func() {
		post, _ := store.Get(1)
		post.ReactionsCount++
		store.Put(post)
	})
	got, _ := store.Get(1)
	assert.Equal(t, 3, got.ReactionsCount)

	// The server's count wins, even when it disagrees with the guess.
	mutation.Confirm(func() {
		post, _ := store.Get(1)
		post.ReactionsCount = 5
		store.Put(post)
	})
	got, _ = store.Get(1)
	assert.Equal(t, 5, got.ReactionsCount)
	assert.True(t, mutation.Settled())

	// A late rollback must not undo a confirmed mutation.
	mutation.Rollback()
	got, _ = store.Get(1)
	assert.Equal(t, 5, got.ReactionsCount)
}

func TestOptimisticRollbackRestoresSnapshot(t *testing.T) {
	store := NewFeedStore()
	store.Put(models.Post{ID: 1, Title: "original", ReactionsCount: 2})

	mutation := Apply(store.Snapshot(), func() {
		post, _ := store.Get(1)
		post.ReactionsCount++
		post.Title = "guessed"
		store.Put(post)
	})

	mutation.Rollback()
	got, ok := store.Get(1)
	require.True(t, ok)
	assert.Equal(t, "original", got.Title)
	assert.Equal(t, 2, got.ReactionsCount)
	assert.True(t, mutation.Settled())

	// Rollback settles the mutation; a second rollback is a no-op.
	post, _ := store.Get(1)
	post.Title = "later edit"
	store.Put(post)
	mutation.Rollback()
	got, _ = store.Get(1)
	assert.Equal(t, "later edit", got.Title)
}

func TestOptimisticInsertThenRollbackRemoves(t *testing.T) {
	store := NewCommentStore()
	store.Put(models.Comment{ID: 1, Description: "existing"})

	mutation := Apply(store.Snapshot(), func() {
		store.Put(models.Comment{ID: 0, Description: "pending"})
	})
	assert.Len(t, store.Comments(), 2)

	mutation.Rollback()
	comments := store.Comments()
	require.Len(t, comments, 1)
	assert.Equal(t, "existing", comments[0].Description)
}

func TestOptimisticConfirmNilKeepsGuess(t *testing.T) {
	store := NewNotificationStore()
	mutation := Apply(store.Snapshot(), func() {
		store.Apply(realtime.Event{Action: realtime.ActionNewNotification, Notification: &models.Notification{ID: 1}})
	})
	mutation.Confirm(nil)
	assert.Len(t, store.Notifications(), 1)
}
