package repositories

import (
	"github.com/arkodeep/vibely/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	WithTx(tx *gorm.DB) PostRepository
	CreatePost(post *models.Post) error
	GetPostByID(id uint) (*models.Post, error)
	GetAllPosts(page, limit int) ([]models.Post, int64, error)
	UpdatePost(post *models.Post) error
	DeletePost(id uint) error
	ClearTags(postID uint) error
	AddReactionsCount(id uint, delta int) error
	AddCommentsCount(id uint, delta int) error
}

// GormPostRepository implements PostRepository on a gorm database
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a new GormPostRepository
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle
func (r *GormPostRepository) WithTx(tx *gorm.DB) PostRepository {
	return &GormPostRepository{db: tx}
}

// CreatePost creates a new post
func (r *GormPostRepository) CreatePost(post *models.Post) error {
	return r.db.Create(post).Error
}

// GetPostByID retrieves a post by ID, tags included
func (r *GormPostRepository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.Preload("Tags").First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetAllPosts retrieves posts newest first, paginated
func (r *GormPostRepository) GetAllPosts(page, limit int) ([]models.Post, int64, error) {
	var posts []models.Post
	var total int64

	if err := r.db.Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.db.Preload("Tags").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error

	return posts, total, err
}

// UpdatePost updates an existing post
func (r *GormPostRepository) UpdatePost(post *models.Post) error {
	return r.db.Save(post).Error
}

// DeletePost deletes a post row by ID
func (r *GormPostRepository) DeletePost(id uint) error {
	return r.db.Delete(&models.Post{}, id).Error
}

// ClearTags removes the post's rows from the post_tags join table
func (r *GormPostRepository) ClearTags(postID uint) error {
	return r.db.Model(&models.Post{ID: postID}).Association("Tags").Clear()
}

// AddReactionsCount adjusts the reactions counter cache by delta
func (r *GormPostRepository) AddReactionsCount(id uint, delta int) error {
	return r.db.Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("reactions_count", gorm.Expr("reactions_count + ?", delta)).Error
}

// AddCommentsCount adjusts the comments counter cache by delta
func (r *GormPostRepository) AddCommentsCount(id uint, delta int) error {
	return r.db.Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("comments_count", gorm.Expr("comments_count + ?", delta)).Error
}
