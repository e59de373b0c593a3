package usecase

import (
	"context"
	"errors"

	"repairmate-backend/internal/converter"
	"repairmate-backend/internal/delivery/dto"
	"repairmate-backend/internal/delivery/http/middleware"
	"repairmate-backend/internal/domain/entity"
	"repairmate-backend/internal/domain/repository"
	"repairmate-backend/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type TechnicianJobUsecase interface {
	GetOpenJobs(ctx context.Context, serviceType string) (*dto.BookingListResponse, error)
	GetMyJobs(ctx context.Context, status string) (*dto.BookingListResponse, error)
	AcceptJob(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error)
	RejectAssignment(ctx context.Context, bookingID uuid.UUID, reason string) (*dto.BookingResponse, error)
	StartJob(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error)
	CompleteJob(ctx context.Context, bookingID uuid.UUID, finalCost *decimal.Decimal) (*dto.BookingResponse, error)
}

type technicianJobUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	bookingRepo  repository.BookingRepository
	auditService service.AuditService
	eventService *service.BookingEventService
}

func NewTechnicianJobUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	bookingRepo repository.BookingRepository,
	auditService service.AuditService,
	eventService *service.BookingEventService,
) TechnicianJobUsecase {
	return &technicianJobUsecase{
		db:           db,
		log:          log,
		bookingRepo:  bookingRepo,
		auditService: auditService,
		eventService: eventService,
	}
}

// GetOpenJobs lists unassigned pending bookings any technician may accept,
// optionally narrowed by service type.
func (u *technicianJobUsecase) GetOpenJobs(ctx context.Context, serviceType string) (*dto.BookingListResponse, error) {
	bookings, err := u.bookingRepo.FindOpen(u.db.WithContext(ctx), serviceType)
	if err != nil {
		u.log.Warnf("Failed to find open jobs: %+v", err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    len(bookings),
	}, nil
}

// GetMyJobs lists bookings assigned to the logged-in technician. An empty
// status returns all of them; "assigned" gives the upcoming-jobs view.
func (u *technicianJobUsecase) GetMyJobs(ctx context.Context, status string) (*dto.BookingListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	var statusFilter *entity.BookingStatus
	if status != "" {
		s := entity.BookingStatus(status)
		if !s.IsValid() {
			return nil, ErrInvalidStatusFilter
		}
		statusFilter = &s
	}

	bookings, err := u.bookingRepo.FindByTechnicianID(u.db.WithContext(ctx), userID, statusFilter)
	if err != nil {
		u.log.Warnf("Failed to find jobs for technician %s: %+v", userID, err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    len(bookings),
	}, nil
}

// AcceptJob claims an open booking for the logged-in technician
func (u *technicianJobUsecase) AcceptJob(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	booking, err := applyBookingTransition(ctx, u.db, u.log, u.bookingRepo, u.auditService, u.eventService,
		bookingID, entity.OpAccept, userID, entity.RoleIDTechnician, entity.AuditActionBookingAccept,
		entity.TransitionParams{})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Job accepted: booking=%s, technician=%s", bookingID, userID)
	return converter.BookingToResponse(booking), nil
}

// RejectAssignment re-opens an assigned booking: the technician slot is
// cleared and the booking returns to pending for someone else to claim.
func (u *technicianJobUsecase) RejectAssignment(ctx context.Context, bookingID uuid.UUID, reason string) (*dto.BookingResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	booking, err := applyBookingTransition(ctx, u.db, u.log, u.bookingRepo, u.auditService, u.eventService,
		bookingID, entity.OpRejectAssignment, userID, entity.RoleIDTechnician, entity.AuditActionBookingReject,
		entity.TransitionParams{Reason: reason})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Assignment rejected: booking=%s, technician=%s", bookingID, userID)
	return converter.BookingToResponse(booking), nil
}

// StartJob moves the technician's own assigned booking into in_progress
func (u *technicianJobUsecase) StartJob(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	booking, err := applyBookingTransition(ctx, u.db, u.log, u.bookingRepo, u.auditService, u.eventService,
		bookingID, entity.OpStart, userID, entity.RoleIDTechnician, entity.AuditActionBookingStart,
		entity.TransitionParams{})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Job started: booking=%s, technician=%s", bookingID, userID)
	return converter.BookingToResponse(booking), nil
}

// CompleteJob finishes the technician's own in-progress booking, optionally
// recording the final cost for the payroll collaborator.
func (u *technicianJobUsecase) CompleteJob(ctx context.Context, bookingID uuid.UUID, finalCost *decimal.Decimal) (*dto.BookingResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	booking, err := applyBookingTransition(ctx, u.db, u.log, u.bookingRepo, u.auditService, u.eventService,
		bookingID, entity.OpComplete, userID, entity.RoleIDTechnician, entity.AuditActionBookingComplete,
		entity.TransitionParams{FinalCost: finalCost})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Job completed: booking=%s, technician=%s", bookingID, userID)
	return converter.BookingToResponse(booking), nil
}
