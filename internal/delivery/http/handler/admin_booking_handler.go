package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"repairmate-backend/internal/delivery/dto"
	"repairmate-backend/internal/domain/entity"
	"repairmate-backend/internal/usecase"
	"repairmate-backend/pkg/response"
	"repairmate-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AdminBookingHandler struct {
	adminUsecase usecase.AdminBookingUsecase
	validator    *validator.CustomValidator
}

func NewAdminBookingHandler(adminUsecase usecase.AdminBookingUsecase, validator *validator.CustomValidator) *AdminBookingHandler {
	return &AdminBookingHandler{
		adminUsecase: adminUsecase,
		validator:    validator,
	}
}

func (h *AdminBookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(query.Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	bookings, total, err := h.adminUsecase.ListBookings(r.Context(), query.Get("status"), page, limit, query.Get("sort"), query.Get("order"))
	if err != nil {
		switch err {
		case usecase.ErrInvalidStatusFilter:
			response.Error(w, http.StatusBadRequest, "Invalid status filter", nil)
		default:
			response.InternalServerError(w, "Failed to list bookings")
		}
		return
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	response.SuccessWithMeta(w, http.StatusOK, "Bookings retrieved successfully", bookings, &response.Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	})
}

func (h *AdminBookingHandler) AssignTechnician(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	var req dto.AssignTechnicianRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.adminUsecase.AssignTechnician(r.Context(), bookingID, req.TechnicianID)
	if err != nil {
		switch err {
		case usecase.ErrBookingNotFound:
			response.NotFound(w, "Booking not found")
		case usecase.ErrTechnicianNotFound:
			response.NotFound(w, "Technician not found")
		case entity.ErrInvalidTransition:
			response.Error(w, http.StatusBadRequest, "Booking is not open for assignment", nil)
		default:
			response.InternalServerError(w, "Failed to assign technician")
		}
		return
	}

	response.Success(w, http.StatusOK, "Technician assigned successfully", booking)
}

func (h *AdminBookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	var req dto.CancelBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.adminUsecase.CancelBooking(r.Context(), bookingID, req.Reason)
	if err != nil {
		switch err {
		case usecase.ErrBookingNotFound:
			response.NotFound(w, "Booking not found")
		case entity.ErrInvalidTransition:
			response.Error(w, http.StatusBadRequest, "Booking is already finished", nil)
		default:
			response.InternalServerError(w, "Failed to cancel booking")
		}
		return
	}

	response.Success(w, http.StatusOK, "Booking cancelled successfully", booking)
}

func (h *AdminBookingHandler) RescheduleBooking(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	var req dto.RescheduleBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.adminUsecase.RescheduleBooking(r.Context(), bookingID, &req)
	if err != nil {
		switch err {
		case usecase.ErrBookingNotFound:
			response.NotFound(w, "Booking not found")
		case usecase.ErrInvalidDateFormat:
			response.Error(w, http.StatusBadRequest, "Preferred date must be in YYYY-MM-DD format", nil)
		case entity.ErrInvalidTransition:
			response.Error(w, http.StatusBadRequest, "Finished bookings cannot be rescheduled", nil)
		default:
			response.InternalServerError(w, "Failed to reschedule booking")
		}
		return
	}

	response.Success(w, http.StatusOK, "Booking rescheduled successfully", booking)
}
