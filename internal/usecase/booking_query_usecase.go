package usecase

import (
	"context"
	"errors"

	"repairmate-backend/internal/converter"
	"repairmate-backend/internal/delivery/dto"
	"repairmate-backend/internal/delivery/http/middleware"
	"repairmate-backend/internal/domain/entity"
	"repairmate-backend/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type BookingQueryUsecase interface {
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error)
}

type bookingQueryUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	bookingRepo repository.BookingRepository
}

func NewBookingQueryUsecase(db *gorm.DB, log *logrus.Logger, bookingRepo repository.BookingRepository) BookingQueryUsecase {
	return &bookingQueryUsecase{
		db:          db,
		log:         log,
		bookingRepo: bookingRepo,
	}
}

// GetBooking returns a booking detail with its full status history.
// Visible to the owning customer, the assigned technician and admins;
// everyone else gets ErrForbidden.
func (u *bookingQueryUsecase) GetBooking(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}
	roleID, ok := middleware.GetRoleIDFromContext(ctx)
	if !ok {
		return nil, errors.New("role not found in context")
	}

	booking, err := u.bookingRepo.FindByID(u.db.WithContext(ctx), bookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", bookingID, err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	switch roleID {
	case entity.RoleIDAdmin:
	case entity.RoleIDCustomer:
		if !booking.IsOwnedBy(userID) {
			return nil, entity.ErrForbidden
		}
	case entity.RoleIDTechnician:
		if !booking.IsAssignedTo(userID) {
			return nil, entity.ErrForbidden
		}
	default:
		return nil, entity.ErrForbidden
	}

	return converter.BookingToResponse(booking), nil
}
