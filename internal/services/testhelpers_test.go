package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/arkodeep/vibely/backend/internal/models"
	"github.com/arkodeep/vibely/backend/internal/realtime"
	"github.com/arkodeep/vibely/backend/internal/repositories"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the in-memory database alive for the whole
	// test and serializes concurrent transactions.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Tag{},
		&models.Comment{},
		&models.Reaction{},
		&models.Notification{},
	))
	return db
}

type recordedFrame struct {
	key   string
	frame realtime.Frame
}

// recordingPublisher stands in for the hub so tests can assert what got
// broadcast where without a socket.
type recordingPublisher struct {
	mu     sync.Mutex
	frames []recordedFrame
}

func (p *recordingPublisher) Publish(key string, frame realtime.Frame) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frames = append(p.frames, recordedFrame{key: key, frame: frame})
}

func (p *recordingPublisher) byKey(key string) []realtime.Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []realtime.Frame
	for _, rf := range p.frames {
		if rf.key == key {
			out = append(out, rf.frame)
		}
	}
	return out
}

func (p *recordingPublisher) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frames = nil
}

type testEnv struct {
	db            *gorm.DB
	pub           *recordingPublisher
	users         repositories.UserRepository
	posts         repositories.PostRepository
	comments      repositories.CommentRepository
	reactions     repositories.ReactionRepository
	notifications repositories.NotificationRepository

	mentionService  *MentionService
	reactionService *ReactionService
	commentService  *CommentService
	postService     *PostService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	pub := &recordingPublisher{}
	events := realtime.NewBroadcaster(pub)

	env := &testEnv{
		db:            db,
		pub:           pub,
		users:         repositories.NewGormUserRepository(db),
		posts:         repositories.NewGormPostRepository(db),
		comments:      repositories.NewGormCommentRepository(db),
		reactions:     repositories.NewGormReactionRepository(db),
		notifications: repositories.NewGormNotificationRepository(db),
	}
	env.mentionService = NewMentionService(env.users, env.notifications)
	env.reactionService = NewReactionService(db, env.reactions, env.posts, env.comments, env.notifications, events)
	env.commentService = NewCommentService(db, env.comments, env.posts, env.reactions, env.notifications, env.mentionService, events)
	env.postService = NewPostService(db, env.posts, env.comments, env.reactions, env.notifications, env.mentionService, events)
	return env
}

func (e *testEnv) createUser(t *testing.T, name, email string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: email, Password: "hashed"}
	require.NoError(t, e.users.CreateUser(user))
	return user
}

func (e *testEnv) createPost(t *testing.T, userID uint, description string) *models.Post {
	t.Helper()
	post := &models.Post{UserID: userID, Title: "title", Description: description}
	require.NoError(t, e.posts.CreatePost(post))
	return post
}

func (e *testEnv) createComment(t *testing.T, userID uint, parent models.Ref, description string) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		UserID:          userID,
		Description:     description,
		CommentableKind: parent.Kind,
		CommentableID:   parent.ID,
	}
	require.NoError(t, e.comments.CreateComment(comment))
	return comment
}

func (e *testEnv) countRows(t *testing.T, model any) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(model).Count(&count).Error)
	return count
}

func (e *testEnv) notificationsFor(t *testing.T, recipientID uint) []models.Notification {
	t.Helper()
	var out []models.Notification
	require.NoError(t, e.db.Where("recipient_id = ?", recipientID).Order("id").Find(&out).Error)
	return out
}
