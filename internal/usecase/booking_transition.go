package usecase

import (
	"context"
	"errors"

	"repairmate-backend/internal/domain/entity"
	"repairmate-backend/internal/domain/repository"
	"repairmate-backend/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrBookingNotFound     = errors.New("booking not found")
	ErrActiveBookingExists = errors.New("customer already has an active booking")
	ErrTechnicianNotFound  = errors.New("technician not found")
	ErrInvalidDateFormat   = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidStatusFilter = errors.New("invalid status filter")
)

// applyBookingTransition runs one lifecycle transition as a single
// transaction: load, authorize against the policy table, guarded status
// update, history append and audit entry. The guarded update doubles as
// the concurrency control — if another transition committed between the
// read and the write, zero rows match and the whole transaction rolls
// back with ErrInvalidTransition.
func applyBookingTransition(
	ctx context.Context,
	db *gorm.DB,
	log *logrus.Logger,
	bookingRepo repository.BookingRepository,
	audit service.AuditService,
	events *service.BookingEventService,
	bookingID uuid.UUID,
	op entity.Operation,
	actorID uuid.UUID,
	roleID int,
	auditAction string,
	params entity.TransitionParams,
) (*entity.Booking, error) {
	tx := db.WithContext(ctx).Begin()
	defer tx.Rollback()

	booking, err := bookingRepo.FindByID(tx, bookingID)
	if err != nil {
		log.Warnf("Failed to find booking %s: %+v", bookingID, err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	fromStatus := booking.Status

	event, err := entity.ApplyTransition(booking, op, actorID, roleID, params)
	if err != nil {
		return nil, err
	}

	rows, err := bookingRepo.UpdateGuarded(tx, booking.ID, fromStatus, transitionUpdates(op, booking))
	if err != nil {
		log.Warnf("Failed to update booking %s for %s: %+v", bookingID, op, err)
		return nil, err
	}
	if rows == 0 {
		// A concurrent transition left fromStatus first
		return nil, entity.ErrInvalidTransition
	}

	if event != nil {
		if err := bookingRepo.AppendStatusEvent(tx, event); err != nil {
			log.Warnf("Failed to append status event for booking %s: %+v", bookingID, err)
			return nil, err
		}
	}

	if err := audit.LogTransition(tx, actorID, auditAction, booking.ID, fromStatus, booking.Status, params.Reason); err != nil {
		return nil, err
	}

	// Reload with ordered history while still inside the transaction,
	// so the response always carries the preloaded associations
	full, err := bookingRepo.FindByID(tx, booking.ID)
	if err != nil {
		log.Warnf("Failed to reload booking %s: %+v", bookingID, err)
		return nil, err
	}
	if full == nil {
		return nil, ErrBookingNotFound
	}

	if err := tx.Commit().Error; err != nil {
		log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	if event != nil {
		events.PublishStatusChanged(ctx, booking.ID, fromStatus, booking.Status, actorID)
	}
	return full, nil
}

// transitionUpdates builds the column set the guarded UPDATE writes for
// an already-applied transition.
func transitionUpdates(op entity.Operation, b *entity.Booking) map[string]interface{} {
	switch op {
	case entity.OpAccept, entity.OpAssign:
		return map[string]interface{}{"status": b.Status, "technician_id": b.TechnicianID}
	case entity.OpRejectAssignment:
		return map[string]interface{}{"status": b.Status, "technician_id": nil}
	case entity.OpStart:
		return map[string]interface{}{"status": b.Status, "started_at": b.StartedAt}
	case entity.OpComplete:
		updates := map[string]interface{}{"status": b.Status, "completed_at": b.CompletedAt}
		if b.FinalCost != nil {
			updates["final_cost"] = b.FinalCost
		}
		return updates
	case entity.OpCancel, entity.OpAdminCancel:
		return map[string]interface{}{"status": b.Status, "cancel_reason": b.CancelReason}
	case entity.OpReschedule:
		return map[string]interface{}{"preferred_date": b.PreferredDate, "preferred_time_slot": b.PreferredTimeSlot}
	}
	return nil
}
