package repository

import (
	"errors"

	"github.com/tacweb/tacweb/app/models"
	"gorm.io/gorm"
)

// profileRepository implements the ProfileRepository interface
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository instance
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// GetByUserID retrieves the profile belonging to a user
func (r *profileRepository) GetByUserID(userID uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetOrCreateByUserID returns the user's profile, creating an empty one on
// first access. Every registered user gets a profile lazily this way.
func (r *profileRepository) GetOrCreateByUserID(userID uint) (*models.UserProfile, error) {
	profile, err := r.GetByUserID(userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	profile = &models.UserProfile{UserID: userID}
	if err := r.db.Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// Save persists changes to a profile
func (r *profileRepository) Save(profile *models.UserProfile) error {
	return r.db.Save(profile).Error
}
