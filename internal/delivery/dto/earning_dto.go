package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EarningResponse struct {
	ID        int64           `json:"id"`
	BookingID uuid.UUID       `json:"booking_id"`
	Amount    decimal.Decimal `json:"amount"`
	Bonus     decimal.Decimal `json:"bonus"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

type EarningListResponse struct {
	Earnings []EarningResponse `json:"earnings"`
	Total    int64             `json:"total"`
}

type EarningSummaryResponse struct {
	TotalAmount    decimal.Decimal `json:"total_amount"`
	TotalBonus     decimal.Decimal `json:"total_bonus"`
	PendingAmount  decimal.Decimal `json:"pending_amount"`
	ApprovedAmount decimal.Decimal `json:"approved_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	CompletedJobs  int64           `json:"completed_jobs"`
}
