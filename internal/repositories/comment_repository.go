package repositories

import (
	"fmt"

	"github.com/arkodeep/vibely/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	WithTx(tx *gorm.DB) CommentRepository
	CreateComment(comment *models.Comment) error
	GetCommentByID(id uint) (*models.Comment, error)
	GetCommentsByCommentable(target models.Ref) ([]models.Comment, error)
	UpdateComment(comment *models.Comment) error
	DeleteByIDs(ids []uint) error
	// DescendantIDs walks the reply tree below the given comment and
	// returns every descendant comment id, breadth first.
	DescendantIDs(id uint) ([]uint, error)
	// RootPostID resolves the root post of a comment by repeated
	// commentable traversal.
	RootPostID(id uint) (uint, error)
	AddReactionsCount(id uint, delta int) error
	AddCommentsCount(id uint, delta int) error
}

// GormCommentRepository implements CommentRepository on a gorm database
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GormCommentRepository
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle
func (r *GormCommentRepository) WithTx(tx *gorm.DB) CommentRepository {
	return &GormCommentRepository{db: tx}
}

// CreateComment creates a new comment
func (r *GormCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// GetCommentByID retrieves a comment by ID
func (r *GormCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByCommentable retrieves the direct children of a post or comment
func (r *GormCommentRepository) GetCommentsByCommentable(target models.Ref) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("commentable_kind = ? AND commentable_id = ?", target.Kind, target.ID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// UpdateComment updates an existing comment
func (r *GormCommentRepository) UpdateComment(comment *models.Comment) error {
	return r.db.Save(comment).Error
}

// DeleteByIDs deletes the given comment rows
func (r *GormCommentRepository) DeleteByIDs(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Delete(&models.Comment{}, ids).Error
}

// DescendantIDs returns every comment id in the reply tree below id
func (r *GormCommentRepository) DescendantIDs(id uint) ([]uint, error) {
	var out []uint
	frontier := []uint{id}
	for len(frontier) > 0 {
		var children []uint
		err := r.db.Model(&models.Comment{}).
			Where("commentable_kind = ? AND commentable_id IN ?", models.KindComment, frontier).
			Pluck("id", &children).Error
		if err != nil {
			return nil, err
		}
		out = append(out, children...)
		frontier = children
	}
	return out, nil
}

// RootPostID walks commentable references upward until it reaches a post.
// A comment whose chain revisits a node or dead-ends is corrupt data and
// reported as an error.
func (r *GormCommentRepository) RootPostID(id uint) (uint, error) {
	visited := map[uint]bool{}
	current := id
	for {
		if visited[current] {
			return 0, fmt.Errorf("comment %d: commentable cycle detected at comment %d", id, current)
		}
		visited[current] = true

		comment, err := r.GetCommentByID(current)
		if err != nil {
			return 0, err
		}
		switch comment.CommentableKind {
		case models.KindPost:
			return comment.CommentableID, nil
		case models.KindComment:
			current = comment.CommentableID
		default:
			return 0, fmt.Errorf("comment %d: unexpected commentable kind %q", current, comment.CommentableKind)
		}
	}
}

// AddReactionsCount adjusts the reactions counter cache by delta
func (r *GormCommentRepository) AddReactionsCount(id uint, delta int) error {
	return r.db.Model(&models.Comment{}).Where("id = ?", id).
		UpdateColumn("reactions_count", gorm.Expr("reactions_count + ?", delta)).Error
}

// AddCommentsCount adjusts the direct reply counter cache by delta
func (r *GormCommentRepository) AddCommentsCount(id uint, delta int) error {
	return r.db.Model(&models.Comment{}).Where("id = ?", id).
		UpdateColumn("comments_count", gorm.Expr("comments_count + ?", delta)).Error
}
