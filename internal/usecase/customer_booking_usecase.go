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

type CustomerBookingUsecase interface {
	CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	GetMyBookings(ctx context.Context) (*dto.BookingListResponse, error)
	GetActiveBooking(ctx context.Context) (*dto.BookingResponse, error)
	CancelBooking(ctx context.Context, bookingID uuid.UUID, reason string) (*dto.BookingResponse, error)
}

type customerBookingUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	bookingRepo  repository.BookingRepository
	auditService service.AuditService
	eventService *service.BookingEventService
}

func NewCustomerBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	bookingRepo repository.BookingRepository,
	auditService service.AuditService,
	eventService *service.BookingEventService,
) CustomerBookingUsecase {
	return &customerBookingUsecase{
		db:           db,
		log:          log,
		bookingRepo:  bookingRepo,
		auditService: auditService,
		eventService: eventService,
	}
}

// CreateBooking opens a new repair request in pending with an empty
// technician slot and the seeded history entry. A customer may hold at
// most one non-terminal booking at a time; the check runs inside the
// creation transaction and the uq_bookings_customer_active index backs
// it up against concurrent creates.
func (u *customerBookingUsecase) CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	preferredDate, err := time.Parse("2006-01-02", req.PreferredDate)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	active, err := u.bookingRepo.FindActiveByCustomerID(tx, userID)
	if err != nil {
		u.log.Warnf("Failed to check active booking for customer %s: %+v", userID, err)
		return nil, err
	}
	if active != nil {
		return nil, ErrActiveBookingExists
	}

	booking := &entity.Booking{
		CustomerID:  userID,
		ServiceType: req.ServiceType,
		Device: entity.DeviceInfo{
			Brand: req.DeviceInfo.Brand,
			Model: req.DeviceInfo.Model,
			Issue: req.DeviceInfo.Issue,
		},
		Description:       req.Description,
		Urgency:           entity.Urgency(req.Urgency),
		PreferredDate:     preferredDate,
		PreferredTimeSlot: entity.TimeSlot(req.PreferredTimeSlot),
		Address: entity.Address{
			Street:   req.Address.Street,
			City:     req.Address.City,
			State:    req.Address.State,
			ZipCode:  req.Address.ZipCode,
			Landmark: req.Address.Landmark,
		},
		Phone:         req.Phone,
		AltPhone:      req.AltPhone,
		Notes:         req.Notes,
		EstimatedCost: req.EstimatedCost,
		PaymentStatus: entity.PaymentStatusPending,
		Status:        entity.BookingStatusPending,
	}

	if err := u.bookingRepo.Create(tx, booking); err != nil {
		// The partial unique index catches the create that lost a race
		// the existence check above could not see
		if isDuplicateKeyError(err, "uq_bookings_customer_active") {
			return nil, ErrActiveBookingExists
		}
		u.log.Warnf("Failed to create booking: %+v", err)
		return nil, err
	}

	seed := entity.SeedStatusHistory(booking, time.Now().UTC())
	if err := u.bookingRepo.AppendStatusEvent(tx, seed); err != nil {
		u.log.Warnf("Failed to seed status history for booking %s: %+v", booking.ID, err)
		return nil, err
	}

	if err := u.auditService.LogTransition(tx, userID, entity.AuditActionBookingCreate, booking.ID, entity.BookingStatusPending, entity.BookingStatusPending, ""); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.eventService.PublishCreated(ctx, booking)

	u.log.Infof("Booking created: id=%s, customer=%s, service=%s", booking.ID, userID, booking.ServiceType)
	return converter.BookingToResponse(booking), nil
}

// GetMyBookings returns all bookings for the logged-in customer
func (u *customerBookingUsecase) GetMyBookings(ctx context.Context) (*dto.BookingListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	bookings, err := u.bookingRepo.FindByCustomerID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find bookings for customer %s: %+v", userID, err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    len(bookings),
	}, nil
}

// GetActiveBooking returns the customer's single non-terminal booking,
// or nil when there is none.
func (u *customerBookingUsecase) GetActiveBooking(ctx context.Context) (*dto.BookingResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	booking, err := u.bookingRepo.FindActiveByCustomerID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find active booking for customer %s: %+v", userID, err)
		return nil, err
	}
	if booking == nil {
		return nil, nil
	}

	return converter.BookingToResponse(booking), nil
}

// CancelBooking cancels the customer's own booking while it is still
// pending or assigned.
func (u *customerBookingUsecase) CancelBooking(ctx context.Context, bookingID uuid.UUID, reason string) (*dto.BookingResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	booking, err := applyBookingTransition(ctx, u.db, u.log, u.bookingRepo, u.auditService, u.eventService,
		bookingID, entity.OpCancel, userID, entity.RoleIDCustomer, entity.AuditActionBookingCancel,
		entity.TransitionParams{Reason: reason})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Booking cancelled: id=%s, customer=%s", bookingID, userID)
	return converter.BookingToResponse(booking), nil
}
