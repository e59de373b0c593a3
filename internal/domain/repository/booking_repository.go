package repository

import (
	"repairmate-backend/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingFilter narrows the admin booking listing
type BookingFilter struct {
	Status *entity.BookingStatus
	Sort   string
	Order  string
	Limit  int
	Offset int
}

type BookingRepository interface {
	Create(db *gorm.DB, booking *entity.Booking) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Booking, error)
	FindByCustomerID(db *gorm.DB, customerID uuid.UUID) ([]entity.Booking, error)
	FindActiveByCustomerID(db *gorm.DB, customerID uuid.UUID) (*entity.Booking, error)
	FindOpen(db *gorm.DB, serviceType string) ([]entity.Booking, error)
	FindByTechnicianID(db *gorm.DB, technicianID uuid.UUID, status *entity.BookingStatus) ([]entity.Booking, error)
	FindAll(db *gorm.DB, filter BookingFilter) ([]entity.Booking, int64, error)

	// UpdateGuarded applies updates only while the booking still sits in
	// the expected status. Returns affected rows: 0 means a concurrent
	// transition won the race and nothing was written.
	UpdateGuarded(db *gorm.DB, id uuid.UUID, expected entity.BookingStatus, updates map[string]interface{}) (int64, error)

	AppendStatusEvent(db *gorm.DB, event *entity.BookingStatusEvent) error
}
