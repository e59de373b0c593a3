package usecase

import (
	"context"
	"errors"
	"time"

	"repairmate-backend/internal/converter"
	"repairmate-backend/internal/delivery/dto"
	"repairmate-backend/internal/delivery/http/middleware"
	"repairmate-backend/internal/domain/entity"
	"repairmate-backend/internal/domain/repository"
	"repairmate-backend/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AdminBookingUsecase interface {
	ListBookings(ctx context.Context, status string, page, limit int, sort, order string) ([]dto.BookingResponse, int64, error)
	AssignTechnician(ctx context.Context, bookingID, technicianID uuid.UUID) (*dto.BookingResponse, error)
	CancelBooking(ctx context.Context, bookingID uuid.UUID, reason string) (*dto.BookingResponse, error)
	RescheduleBooking(ctx context.Context, bookingID uuid.UUID, req *dto.RescheduleBookingRequest) (*dto.BookingResponse, error)
}

type adminBookingUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	bookingRepo    repository.BookingRepository
	technicianRepo repository.TechnicianProfileRepository
	auditService   service.AuditService
	eventService   *service.BookingEventService
}

func NewAdminBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	bookingRepo repository.BookingRepository,
	technicianRepo repository.TechnicianProfileRepository,
	auditService service.AuditService,
	eventService *service.BookingEventService,
) AdminBookingUsecase {
	return &adminBookingUsecase{
		db:             db,
		log:            log,
		bookingRepo:    bookingRepo,
		technicianRepo: technicianRepo,
		auditService:   auditService,
		eventService:   eventService,
	}
}

// ListBookings returns the paginated back-office booking list
func (u *adminBookingUsecase) ListBookings(ctx context.Context, status string, page, limit int, sort, order string) ([]dto.BookingResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	filter := repository.BookingFilter{
		Sort:   sort,
		Order:  order,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	if status != "" {
		s := entity.BookingStatus(status)
		if !s.IsValid() {
			return nil, 0, ErrInvalidStatusFilter
		}
		filter.Status = &s
	}

	bookings, total, err := u.bookingRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list bookings: %+v", err)
		return nil, 0, err
	}

	return converter.BookingsToResponses(bookings), total, nil
}

// AssignTechnician is the manual dispatch path: an admin pins a pending
// booking to a specific technician, bypassing self-accept.
func (u *adminBookingUsecase) AssignTechnician(ctx context.Context, bookingID, technicianID uuid.UUID) (*dto.BookingResponse, error) {
	adminID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	technician, err := u.technicianRepo.FindByUserID(u.db.WithContext(ctx), technicianID)
	if err != nil {
		u.log.Warnf("Failed to find technician %s: %+v", technicianID, err)
		return nil, err
	}
	if technician == nil || !technician.User.IsActive {
		return nil, ErrTechnicianNotFound
	}

	booking, err := applyBookingTransition(ctx, u.db, u.log, u.bookingRepo, u.auditService, u.eventService,
		bookingID, entity.OpAssign, adminID, entity.RoleIDAdmin, entity.AuditActionBookingAssign,
		entity.TransitionParams{TechnicianID: &technicianID})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Technician assigned: booking=%s, technician=%s, admin=%s", bookingID, technicianID, adminID)
	return converter.BookingToResponse(booking), nil
}

// CancelBooking is the admin override: any non-terminal booking may be
// cancelled regardless of who owns it.
func (u *adminBookingUsecase) CancelBooking(ctx context.Context, bookingID uuid.UUID, reason string) (*dto.BookingResponse, error) {
	adminID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	booking, err := applyBookingTransition(ctx, u.db, u.log, u.bookingRepo, u.auditService, u.eventService,
		bookingID, entity.OpAdminCancel, adminID, entity.RoleIDAdmin, entity.AuditActionBookingAdminCancel,
		entity.TransitionParams{Reason: reason})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Booking cancelled by admin: booking=%s, admin=%s", bookingID, adminID)
	return converter.BookingToResponse(booking), nil
}

// RescheduleBooking updates the preferred slot of a non-terminal booking.
// The status is untouched and no history entry is written.
func (u *adminBookingUsecase) RescheduleBooking(ctx context.Context, bookingID uuid.UUID, req *dto.RescheduleBookingRequest) (*dto.BookingResponse, error) {
	adminID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	preferredDate, err := time.Parse("2006-01-02", req.PreferredDate)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	timeSlot := entity.TimeSlot(req.PreferredTimeSlot)

	booking, err := applyBookingTransition(ctx, u.db, u.log, u.bookingRepo, u.auditService, u.eventService,
		bookingID, entity.OpReschedule, adminID, entity.RoleIDAdmin, entity.AuditActionBookingReschedule,
		entity.TransitionParams{PreferredDate: &preferredDate, PreferredTimeSlot: &timeSlot})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Booking rescheduled: booking=%s, admin=%s", bookingID, adminID)
	return converter.BookingToResponse(booking), nil
}
