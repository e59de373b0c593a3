package repository

import (
	"repairmate-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TechnicianProfileRepository interface {
	Create(db *gorm.DB, profile *entity.TechnicianProfile) error
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.TechnicianProfile, error)
}

type CustomerProfileRepository interface {
	Create(db *gorm.DB, profile *entity.CustomerProfile) error
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.CustomerProfile, error)
}
