package usecase

import (
	"context"
	"errors"

	"repairmate-backend/internal/converter"
	"repairmate-backend/internal/delivery/dto"
	"repairmate-backend/internal/delivery/http/middleware"
	"repairmate-backend/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type EarningUsecase interface {
	GetMyEarnings(ctx context.Context, page, limit int) (*dto.EarningListResponse, int64, error)
	GetMySummary(ctx context.Context) (*dto.EarningSummaryResponse, error)
}

type earningUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	earningRepo repository.EarningRepository
}

func NewEarningUsecase(db *gorm.DB, log *logrus.Logger, earningRepo repository.EarningRepository) EarningUsecase {
	return &earningUsecase{
		db:          db,
		log:         log,
		earningRepo: earningRepo,
	}
}

// GetMyEarnings lists the logged-in technician's payout records
func (u *earningUsecase) GetMyEarnings(ctx context.Context, page, limit int) (*dto.EarningListResponse, int64, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, 0, errors.New("user not found in context")
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	earnings, total, err := u.earningRepo.FindByTechnicianID(u.db.WithContext(ctx), userID, limit, (page-1)*limit)
	if err != nil {
		u.log.Warnf("Failed to find earnings for technician %s: %+v", userID, err)
		return nil, 0, err
	}

	return &dto.EarningListResponse{
		Earnings: converter.EarningsToResponses(earnings),
		Total:    total,
	}, total, nil
}

// GetMySummary aggregates the logged-in technician's payouts by status
func (u *earningUsecase) GetMySummary(ctx context.Context) (*dto.EarningSummaryResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	summary, err := u.earningRepo.SummarizeByTechnicianID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to summarize earnings for technician %s: %+v", userID, err)
		return nil, err
	}

	return converter.EarningSummaryToResponse(summary), nil
}
