package repositories

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/arkodeep/vibely/backend/internal/models"
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

func seedComment(t *testing.T, repo CommentRepository, userID uint, parent models.Ref) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		UserID:          userID,
		Description:     "seeded",
		CommentableKind: parent.Kind,
		CommentableID:   parent.ID,
	}
	require.NoError(t, repo.CreateComment(comment))
	return comment
}
