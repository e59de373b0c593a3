package handler

import (
	"net/http"
	"strconv"

	"repairmate-backend/internal/usecase"
	"repairmate-backend/pkg/response"
)

type EarningHandler struct {
	earningUsecase usecase.EarningUsecase
}

func NewEarningHandler(earningUsecase usecase.EarningUsecase) *EarningHandler {
	return &EarningHandler{
		earningUsecase: earningUsecase,
	}
}

func (h *EarningHandler) GetMyEarnings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(query.Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	earnings, total, err := h.earningUsecase.GetMyEarnings(r.Context(), page, limit)
	if err != nil {
		response.InternalServerError(w, "Failed to get earnings")
		return
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	response.SuccessWithMeta(w, http.StatusOK, "Earnings retrieved successfully", earnings, &response.Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	})
}

func (h *EarningHandler) GetMySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.earningUsecase.GetMySummary(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get earnings summary")
		return
	}

	response.Success(w, http.StatusOK, "Earnings summary retrieved successfully", summary)
}
