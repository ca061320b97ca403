package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkodeep/vibely/backend/internal/models"
)

func TestRouteKey(t *testing.T) {
	tests := []struct {
		name    string
		id      Identifier
		userID  uint
		want    string
		wantErr bool
	}{
		{
			name:   "posts channel is global",
			id:     Identifier{Channel: ChannelPosts},
			userID: 7,
			want:   "posts",
		},
		{
			name:   "comments scoped by post",
			id:     Identifier{Channel: ChannelComments, PostID: 12},
			userID: 7,
			want:   "comments:post:12",
		},
		{
			name:   "comments scoped by parent comment",
			id:     Identifier{Channel: ChannelComments, ParentCommentID: 34},
			userID: 7,
			want:   "comments:comment:34",
		},
		{
			name:    "comments with both scopes rejected",
			id:      Identifier{Channel: ChannelComments, PostID: 12, ParentCommentID: 34},
			userID:  7,
			wantErr: true,
		},
		{
			name:    "comments with no scope rejected",
			id:      Identifier{Channel: ChannelComments},
			userID:  7,
			wantErr: true,
		},
		{
			name:   "notifications always route to own user",
			id:     Identifier{Channel: ChannelNotifications},
			userID: 7,
			want:   "notifications:user:7",
		},
		{
			name:    "unknown channel rejected",
			id:      Identifier{Channel: "AdminChannel"},
			userID:  7,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.id.RouteKey(tt.userID)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubKeyIsUserIndependent(t *testing.T) {
	assert.Equal(t, "posts", Identifier{Channel: ChannelPosts}.SubKey())
	assert.Equal(t, "notifications", Identifier{Channel: ChannelNotifications}.SubKey())
	assert.Equal(t, "comments:post:5", Identifier{Channel: ChannelComments, PostID: 5}.SubKey())
	assert.Equal(t, "comments:comment:9", Identifier{Channel: ChannelComments, ParentCommentID: 9}.SubKey())
}

func TestCommentKeyFollowsParentKind(t *testing.T) {
	assert.Equal(t, "comments:post:3", CommentKey(models.PostRef(3)))
	assert.Equal(t, "comments:comment:8", CommentKey(models.CommentRef(8)))

	assert.Equal(t, Identifier{Channel: ChannelComments, PostID: 3}, CommentIdentifier(models.PostRef(3)))
	assert.Equal(t, Identifier{Channel: ChannelComments, ParentCommentID: 8}, CommentIdentifier(models.CommentRef(8)))
}
