package converter

import (
	"repairmate-backend/internal/delivery/dto"
	"repairmate-backend/internal/domain/entity"
	"repairmate-backend/internal/domain/repository"
)

// EarningToResponse converts an Earning entity to EarningResponse DTO
func EarningToResponse(earning *entity.Earning) *dto.EarningResponse {
	if earning == nil {
		return nil
	}

	return &dto.EarningResponse{
		ID:        earning.ID,
		BookingID: earning.BookingID,
		Amount:    earning.Amount,
		Bonus:     earning.Bonus,
		Status:    string(earning.Status),
		CreatedAt: earning.CreatedAt,
	}
}

// EarningsToResponses converts a slice of Earning entities to DTOs
func EarningsToResponses(earnings []entity.Earning) []dto.EarningResponse {
	responses := make([]dto.EarningResponse, len(earnings))
	for i, earning := range earnings {
		resp := EarningToResponse(&earning)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

// EarningSummaryToResponse converts an aggregate summary to its DTO
func EarningSummaryToResponse(summary *repository.EarningSummary) *dto.EarningSummaryResponse {
	if summary == nil {
		return nil
	}

	return &dto.EarningSummaryResponse{
		TotalAmount:    summary.TotalAmount,
		TotalBonus:     summary.TotalBonus,
		PendingAmount:  summary.PendingAmount,
		ApprovedAmount: summary.ApprovedAmount,
		PaidAmount:     summary.PaidAmount,
		CompletedJobs:  summary.CompletedJobs,
	}
}
