package repository

import (
	"repairmate-backend/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EarningSummary aggregates a technician's payouts by status
type EarningSummary struct {
	TotalAmount    decimal.Decimal `json:"total_amount"`
	TotalBonus     decimal.Decimal `json:"total_bonus"`
	PendingAmount  decimal.Decimal `json:"pending_amount"`
	ApprovedAmount decimal.Decimal `json:"approved_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	CompletedJobs  int64           `json:"completed_jobs"`
}

// EarningRepository is read-only: earning rows are written by the
// external payroll collaborator.
type EarningRepository interface {
	FindByTechnicianID(db *gorm.DB, technicianID uuid.UUID, limit, offset int) ([]entity.Earning, int64, error)
	SummarizeByTechnicianID(db *gorm.DB, technicianID uuid.UUID) (*EarningSummary, error)
}
