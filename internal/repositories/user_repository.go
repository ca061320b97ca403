package repositories

import (
	"github.com/arkodeep/vibely/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	// FindByHandle resolves a mention token against the user directory by
	// name or email, case-insensitively.
	FindByHandle(handle string) (*models.User, error)
}

// GormUserRepository implements UserRepository on a gorm database
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle
func (r *GormUserRepository) WithTx(tx *gorm.DB) UserRepository {
	return &GormUserRepository{db: tx}
}

// CreateUser creates a new user
func (r *GormUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

// GetUserByID retrieves a user by ID
func (r *GormUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByHandle retrieves a user whose name or email matches the handle
func (r *GormUserRepository) FindByHandle(handle string) (*models.User, error) {
	var user models.User
	err := r.db.Where("LOWER(name) = LOWER(?) OR LOWER(email) = LOWER(?)", handle, handle).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
