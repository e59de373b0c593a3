package service

import (
	"repairmate-backend/internal/domain/entity"
	"repairmate-backend/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AuditService interface {
	LogTransition(tx *gorm.DB, userID uuid.UUID, action string, bookingID uuid.UUID, from, to entity.BookingStatus, reason string) error
	LogAction(db *gorm.DB, userID *uuid.UUID, action string, metadata entity.JSON) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

// LogTransition records a booking status change inside the same
// transaction as the change itself.
func (s *auditService) LogTransition(tx *gorm.DB, userID uuid.UUID, action string, bookingID uuid.UUID, from, to entity.BookingStatus, reason string) error {
	metadata := entity.JSON{
		"booking_id":  bookingID.String(),
		"from_status": from.String(),
		"to_status":   to.String(),
	}
	if reason != "" {
		metadata["reason"] = reason
	}

	auditLog := &entity.AuditLog{
		UserID:   &userID,
		Action:   action,
		Metadata: metadata,
	}

	if err := s.auditRepo.Create(tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}

// LogAction records a non-transition action (auth, registration)
func (s *auditService) LogAction(db *gorm.DB, userID *uuid.UUID, action string, metadata entity.JSON) error {
	auditLog := &entity.AuditLog{
		UserID:   userID,
		Action:   action,
		Metadata: metadata,
	}

	if err := s.auditRepo.Create(db, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}
