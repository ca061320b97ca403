package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkodeep/vibely/backend/internal/models"
	"github.com/arkodeep/vibely/backend/internal/realtime"
)

func TestCommentOnPostNotifiesPostOwner(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner", "owner@example.com")
	commenter := env.createUser(t, "commenter", "commenter@example.com")
	post := env.createPost(t, owner.ID, "seed")
	env.pub.reset()

	comment, err := env.commentService.Create(context.Background(), commenter.ID, models.CreateCommentRequest{
		CommentableKind: models.KindPost,
		CommentableID:   post.ID,
		Description:     "nice post",
	})
	require.NoError(t, err)

	got := env.notificationsFor(t, owner.ID)
	require.Len(t, got, 1)
	assert.Equal(t, models.NotificationCommentOnPost, got[0].NotificationType)
	assert.Equal(t, commenter.ID, got[0].ActorID)
	assert.Equal(t, models.KindComment, got[0].NotifiableKind)
	assert.Equal(t, comment.ID, got[0].NotifiableID)

	refreshed, err := env.posts.GetPostByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, refreshed.CommentsCount)

	frames := env.pub.byKey(realtime.CommentsOnPostKey(post.ID))
	require.Len(t, frames, 1)
	assert.Equal(t, realtime.ActionNewComment, frames[0].Message.Action)
}

func TestReplyNotifiesCommentOwner(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner", "owner@example.com")
	commenter := env.createUser(t, "commenter", "commenter@example.com")
	replier := env.createUser(t, "replier", "replier@example.com")
	post := env.createPost(t, owner.ID, "seed")
	parent := env.createComment(t, commenter.ID, models.PostRef(post.ID), "top level")
	env.pub.reset()

	_, err := env.commentService.Create(context.Background(), replier.ID, models.CreateCommentRequest{
		CommentableKind: models.KindComment,
		CommentableID:   parent.ID,
		Description:     "a reply",
	})
	require.NoError(t, err)

	// The reply notifies the comment's owner, not the post's.
	got := env.notificationsFor(t, commenter.ID)
	require.Len(t, got, 1)
	assert.Equal(t, models.NotificationReplyToComment, got[0].NotificationType)
	assert.Empty(t, env.notificationsFor(t, owner.ID))

	refreshedParent, err := env.comments.GetCommentByID(parent.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, refreshedParent.CommentsCount)
	refreshedPost, err := env.posts.GetPostByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, refreshedPost.CommentsCount)

	// Replies broadcast on the parent comment's scope.
	frames := env.pub.byKey(realtime.RepliesKey(parent.ID))
	require.Len(t, frames, 1)
	assert.Equal(t, realtime.ActionNewComment, frames[0].Message.Action)
	assert.Empty(t, env.pub.byKey(realtime.CommentsOnPostKey(post.ID)))
}

func TestCommentOnOwnPostSkipsNotification(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner", "owner@example.com")
	post := env.createPost(t, owner.ID, "seed")

	_, err := env.commentService.Create(context.Background(), owner.ID, models.CreateCommentRequest{
		CommentableKind: models.KindPost,
		CommentableID:   post.ID,
		Description:     "my own post",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 0, env.countRows(t, &models.Notification{}))
}

func TestCommentOnMissingParentFails(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "user", "user@example.com")

	_, err := env.commentService.Create(context.Background(), user.ID, models.CreateCommentRequest{
		CommentableKind: models.KindPost,
		CommentableID:   9999,
		Description:     "into the void",
	})
	assert.Error(t, err)
	assert.EqualValues(t, 0, env.countRows(t, &models.Comment{}))
}

func TestCommentUpdateOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner", "owner@example.com")
	other := env.createUser(t, "other", "other@example.com")
	post := env.createPost(t, owner.ID, "seed")
	comment := env.createComment(t, owner.ID, models.PostRef(post.ID), "original")

	_, err := env.commentService.Update(context.Background(), other.ID, comment.ID, models.UpdateCommentRequest{Description: "hijacked"})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := env.commentService.Update(context.Background(), owner.ID, comment.ID, models.UpdateCommentRequest{Description: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Description)
}

func TestCommentDeleteCascadesReplies(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner", "owner@example.com")
	reactor := env.createUser(t, "reactor", "reactor@example.com")
	post := env.createPost(t, owner.ID, "seed")

	// c1 has a reply chain two deep; c2 is untouched.
	c1 := env.createComment(t, owner.ID, models.PostRef(post.ID), "c1")
	c2 := env.createComment(t, owner.ID, models.PostRef(post.ID), "c2")
	r1 := env.createComment(t, owner.ID, models.CommentRef(c1.ID), "r1")
	r2 := env.createComment(t, owner.ID, models.CommentRef(r1.ID), "r2")
	require.NoError(t, env.posts.AddCommentsCount(post.ID, 2))

	_, err := env.reactionService.Toggle(context.Background(), reactor.ID, models.CommentRef(r1.ID), models.ReactionLike)
	require.NoError(t, err)
	_, err = env.reactionService.Toggle(context.Background(), reactor.ID, models.CommentRef(r2.ID), models.ReactionLike)
	require.NoError(t, err)
	env.pub.reset()

	require.NoError(t, env.commentService.Delete(context.Background(), owner.ID, c1.ID))

	// c1, r1, r2 gone with their reactions; c2 survives.
	assert.EqualValues(t, 1, env.countRows(t, &models.Comment{}))
	_, err = env.comments.GetCommentByID(c2.ID)
	assert.NoError(t, err)
	assert.EqualValues(t, 0, env.countRows(t, &models.Reaction{}))

	refreshed, err := env.posts.GetPostByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, refreshed.CommentsCount)

	frames := env.pub.byKey(realtime.CommentsOnPostKey(post.ID))
	require.Len(t, frames, 1)
	assert.Equal(t, realtime.ActionDeleteComment, frames[0].Message.Action)
	assert.Equal(t, c1.ID, frames[0].Message.CommentID)
}

func TestCommentDeleteOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner", "owner@example.com")
	other := env.createUser(t, "other", "other@example.com")
	post := env.createPost(t, owner.ID, "seed")
	comment := env.createComment(t, owner.ID, models.PostRef(post.ID), "keep out")

	err := env.commentService.Delete(context.Background(), other.ID, comment.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.EqualValues(t, 1, env.countRows(t, &models.Comment{}))
}

func TestRootPostIDThroughReplyChain(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner", "owner@example.com")
	post := env.createPost(t, owner.ID, "seed")
	c1 := env.createComment(t, owner.ID, models.PostRef(post.ID), "c1")
	r1 := env.createComment(t, owner.ID, models.CommentRef(c1.ID), "r1")
	r2 := env.createComment(t, owner.ID, models.CommentRef(r1.ID), "r2")

	got, err := env.commentService.RootPostID(r2.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got)

	got, err = env.commentService.RootPostID(c1.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got)
}
