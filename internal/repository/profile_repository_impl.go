package repository

import (
	"errors"

	"repairmate-backend/internal/domain/entity"
	domainRepo "repairmate-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type technicianProfileRepository struct{}

func NewTechnicianProfileRepository() domainRepo.TechnicianProfileRepository {
	return &technicianProfileRepository{}
}

func (r *technicianProfileRepository) Create(db *gorm.DB, profile *entity.TechnicianProfile) error {
	return db.Create(profile).Error
}

func (r *technicianProfileRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.TechnicianProfile, error) {
	var profile entity.TechnicianProfile
	err := db.Preload("User").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

type customerProfileRepository struct{}

func NewCustomerProfileRepository() domainRepo.CustomerProfileRepository {
	return &customerProfileRepository{}
}

func (r *customerProfileRepository) Create(db *gorm.DB, profile *entity.CustomerProfile) error {
	return db.Create(profile).Error
}

func (r *customerProfileRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.CustomerProfile, error) {
	var profile entity.CustomerProfile
	err := db.Preload("User").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}
