package repositories

import (
	"github.com/arkodeep/vibely/backend/internal/models"
	"gorm.io/gorm"
)

// ReactionRepository defines the interface for reaction data operations
type ReactionRepository interface {
	WithTx(tx *gorm.DB) ReactionRepository
	CreateReaction(reaction *models.Reaction) error
	GetByUserAndTarget(userID uint, target models.Ref) (*models.Reaction, error)
	UpdateType(id uint, reactionType models.ReactionType) error
	DeleteReaction(id uint) error
	CountByTarget(target models.Ref) (int64, error)
	DeleteByTarget(target models.Ref) (int64, error)
	DeleteByComments(commentIDs []uint) (int64, error)
}

// GormReactionRepository implements ReactionRepository on a gorm database
type GormReactionRepository struct {
	db *gorm.DB
}

// NewGormReactionRepository creates a new GormReactionRepository
func NewGormReactionRepository(db *gorm.DB) *GormReactionRepository {
	return &GormReactionRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle
func (r *GormReactionRepository) WithTx(tx *gorm.DB) ReactionRepository {
	return &GormReactionRepository{db: tx}
}

// CreateReaction creates a new reaction. The (user, reactionable) unique
// index turns a duplicate insert into a constraint error for the caller.
func (r *GormReactionRepository) CreateReaction(reaction *models.Reaction) error {
	return r.db.Create(reaction).Error
}

// GetByUserAndTarget retrieves the user's reaction on a target, if any
func (r *GormReactionRepository) GetByUserAndTarget(userID uint, target models.Ref) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.Where("user_id = ? AND reactionable_kind = ? AND reactionable_id = ?",
		userID, target.Kind, target.ID).
		First(&reaction).Error
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

// UpdateType changes a reaction's type in place
func (r *GormReactionRepository) UpdateType(id uint, reactionType models.ReactionType) error {
	return r.db.Model(&models.Reaction{}).Where("id = ?", id).
		Update("reaction_type", reactionType).Error
}

// DeleteReaction deletes a reaction by ID
func (r *GormReactionRepository) DeleteReaction(id uint) error {
	return r.db.Delete(&models.Reaction{}, id).Error
}

// CountByTarget counts the reactions on a target
func (r *GormReactionRepository) CountByTarget(target models.Ref) (int64, error) {
	var count int64
	err := r.db.Model(&models.Reaction{}).
		Where("reactionable_kind = ? AND reactionable_id = ?", target.Kind, target.ID).
		Count(&count).Error
	return count, err
}

// DeleteByTarget deletes all reactions on a target, returning the row count
func (r *GormReactionRepository) DeleteByTarget(target models.Ref) (int64, error) {
	res := r.db.Where("reactionable_kind = ? AND reactionable_id = ?", target.Kind, target.ID).
		Delete(&models.Reaction{})
	return res.RowsAffected, res.Error
}

// DeleteByComments deletes all reactions attached to the given comments
func (r *GormReactionRepository) DeleteByComments(commentIDs []uint) (int64, error) {
	if len(commentIDs) == 0 {
		return 0, nil
	}
	res := r.db.Where("reactionable_kind = ? AND reactionable_id IN ?", models.KindComment, commentIDs).
		Delete(&models.Reaction{})
	return res.RowsAffected, res.Error
}
