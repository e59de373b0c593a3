package repository

import (
	"errors"

	"repairmate-backend/internal/domain/entity"
	domainRepo "repairmate-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type bookingRepository struct{}

func NewBookingRepository() domainRepo.BookingRepository {
	return &bookingRepository{}
}

func (r *bookingRepository) Create(db *gorm.DB, booking *entity.Booking) error {
	return db.Create(booking).Error
}

func (r *bookingRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Booking, error) {
	var booking entity.Booking
	err := db.Preload("Technician.User").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByCustomerID(db *gorm.DB, customerID uuid.UUID) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := db.Preload("Technician.User").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// FindActiveByCustomerID returns the customer's single non-terminal booking.
// The uq_bookings_customer_active partial index enforces at most one, so
// First is well defined.
func (r *bookingRepository) FindActiveByCustomerID(db *gorm.DB, customerID uuid.UUID) (*entity.Booking, error) {
	var booking entity.Booking
	err := db.Preload("Technician.User").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("customer_id = ? AND status NOT IN ?", customerID,
			[]entity.BookingStatus{entity.BookingStatusCompleted, entity.BookingStatusCancelled}).
		Order("created_at DESC").
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindOpen(db *gorm.DB, serviceType string) ([]entity.Booking, error) {
	var bookings []entity.Booking
	query := db.Where("status = ? AND technician_id IS NULL", entity.BookingStatusPending)
	if serviceType != "" {
		query = query.Where("service_type = ?", serviceType)
	}
	err := query.Order("created_at DESC").Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindByTechnicianID(db *gorm.DB, technicianID uuid.UUID, status *entity.BookingStatus) ([]entity.Booking, error) {
	var bookings []entity.Booking
	query := db.Where("technician_id = ?", technicianID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Order("preferred_date ASC, created_at DESC").Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindAll(db *gorm.DB, filter domainRepo.BookingFilter) ([]entity.Booking, int64, error) {
	var bookings []entity.Booking
	var total int64

	query := db.Model(&entity.Booking{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sort := "created_at"
	if filter.Sort == "preferred_date" {
		sort = "preferred_date"
	}
	order := "DESC"
	if filter.Order == "asc" {
		order = "ASC"
	}

	err := query.Preload("Technician.User").
		Order(sort + " " + order).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// UpdateGuarded is the compare-and-swap every transition rides on: the
// UPDATE only matches while the row still holds the expected status, so
// two concurrent transitions from the same starting state cannot both
// succeed.
func (r *bookingRepository) UpdateGuarded(db *gorm.DB, id uuid.UUID, expected entity.BookingStatus, updates map[string]interface{}) (int64, error) {
	result := db.Model(&entity.Booking{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *bookingRepository) AppendStatusEvent(db *gorm.DB, event *entity.BookingStatusEvent) error {
	return db.Create(event).Error
}
