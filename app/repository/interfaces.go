package repository

import (
	"github.com/tacweb/tacweb/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByName(name string) (*models.User, error)
	Update(user *models.User) error
}

// ProductRepository defines the interface for catalog lookups
type ProductRepository interface {
	GetByID(id uint) (*models.Product, error)
	List(offset, limit int) ([]models.Product, error)
	Count() (int64, error)
}

// ProfileRepository defines the interface for user profile operations
type ProfileRepository interface {
	GetByUserID(userID uint) (*models.UserProfile, error)
	GetOrCreateByUserID(userID uint) (*models.UserProfile, error)
	Save(profile *models.UserProfile) error
}

// Repositories bundles all repository instances
type Repositories struct {
	User    UserRepository
	Product ProductRepository
	Profile ProfileRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:    NewUserRepository(db),
		Product: NewProductRepository(db),
		Profile: NewProfileRepository(db),
	}
}
