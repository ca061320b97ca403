package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkodeep/vibely/backend/internal/models"
)

func TestDescendantIDsWalksWholeSubtree(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCommentRepository(db)

	c1 := seedComment(t, repo, 1, models.PostRef(1))
	r1 := seedComment(t, repo, 1, models.CommentRef(c1.ID))
	r2 := seedComment(t, repo, 1, models.CommentRef(c1.ID))
	r3 := seedComment(t, repo, 1, models.CommentRef(r1.ID))
	seedComment(t, repo, 1, models.PostRef(1)) // sibling, not a descendant

	got, err := repo.DescendantIDs(c1.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{r1.ID, r2.ID, r3.ID}, got)
}

func TestDescendantIDsLeafComment(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCommentRepository(db)

	leaf := seedComment(t, repo, 1, models.PostRef(1))
	got, err := repo.DescendantIDs(leaf.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRootPostID(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCommentRepository(db)

	c1 := seedComment(t, repo, 1, models.PostRef(42))
	r1 := seedComment(t, repo, 1, models.CommentRef(c1.ID))
	r2 := seedComment(t, repo, 1, models.CommentRef(r1.ID))

	for _, id := range []uint{c1.ID, r1.ID, r2.ID} {
		got, err := repo.RootPostID(id)
		require.NoError(t, err)
		assert.EqualValues(t, 42, got)
	}
}

func TestRootPostIDMissingComment(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCommentRepository(db)

	_, err := repo.RootPostID(9999)
	assert.Error(t, err)
}

func TestAddReactionsCountRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCommentRepository(db)

	c := seedComment(t, repo, 1, models.PostRef(1))
	require.NoError(t, repo.AddReactionsCount(c.ID, 1))
	require.NoError(t, repo.AddReactionsCount(c.ID, -1))

	reloaded, err := repo.GetCommentByID(c.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.ReactionsCount)
}
