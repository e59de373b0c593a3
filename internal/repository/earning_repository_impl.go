package repository

import (
	"repairmate-backend/internal/domain/entity"
	domainRepo "repairmate-backend/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type earningRepository struct{}

func NewEarningRepository() domainRepo.EarningRepository {
	return &earningRepository{}
}

func (r *earningRepository) FindByTechnicianID(db *gorm.DB, technicianID uuid.UUID, limit, offset int) ([]entity.Earning, int64, error) {
	var earnings []entity.Earning
	var total int64

	query := db.Model(&entity.Earning{}).Where("technician_id = ?", technicianID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Booking").
		Where("technician_id = ?", technicianID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&earnings).Error
	if err != nil {
		return nil, 0, err
	}
	return earnings, total, nil
}

func (r *earningRepository) SummarizeByTechnicianID(db *gorm.DB, technicianID uuid.UUID) (*domainRepo.EarningSummary, error) {
	var summary domainRepo.EarningSummary

	err := db.Model(&entity.Earning{}).
		Select(`
			COALESCE(SUM(amount), 0)                                    AS total_amount,
			COALESCE(SUM(bonus), 0)                                     AS total_bonus,
			COALESCE(SUM(amount) FILTER (WHERE status = 'pending'), 0)  AS pending_amount,
			COALESCE(SUM(amount) FILTER (WHERE status = 'approved'), 0) AS approved_amount,
			COALESCE(SUM(amount) FILTER (WHERE status = 'paid'), 0)     AS paid_amount,
			COUNT(*)                                                    AS completed_jobs`).
		Where("technician_id = ?", technicianID).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
