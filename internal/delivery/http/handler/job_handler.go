package handler

import (
	"encoding/json"
	"net/http"

	"repairmate-backend/internal/delivery/dto"
	"repairmate-backend/internal/domain/entity"
	"repairmate-backend/internal/usecase"
	"repairmate-backend/pkg/response"
	"repairmate-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// JobHandler serves the technician side of the booking lifecycle.
type JobHandler struct {
	jobUsecase usecase.TechnicianJobUsecase
	validator  *validator.CustomValidator
}

func NewJobHandler(jobUsecase usecase.TechnicianJobUsecase, validator *validator.CustomValidator) *JobHandler {
	return &JobHandler{
		jobUsecase: jobUsecase,
		validator:  validator,
	}
}

func (h *JobHandler) GetOpenJobs(w http.ResponseWriter, r *http.Request) {
	serviceType := r.URL.Query().Get("service_type")

	jobs, err := h.jobUsecase.GetOpenJobs(r.Context(), serviceType)
	if err != nil {
		response.InternalServerError(w, "Failed to get open jobs")
		return
	}

	response.Success(w, http.StatusOK, "Open jobs retrieved successfully", jobs)
}

func (h *JobHandler) GetMyJobs(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	jobs, err := h.jobUsecase.GetMyJobs(r.Context(), status)
	if err != nil {
		switch err {
		case usecase.ErrInvalidStatusFilter:
			response.Error(w, http.StatusBadRequest, "Invalid status filter", nil)
		default:
			response.InternalServerError(w, "Failed to get jobs")
		}
		return
	}

	response.Success(w, http.StatusOK, "Jobs retrieved successfully", jobs)
}

func (h *JobHandler) AcceptJob(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	booking, err := h.jobUsecase.AcceptJob(r.Context(), bookingID)
	if err != nil {
		switch err {
		case usecase.ErrBookingNotFound:
			response.NotFound(w, "Booking not found")
		case entity.ErrForbidden:
			response.Forbidden(w, "Job is not available to you")
		case entity.ErrInvalidTransition:
			response.Error(w, http.StatusBadRequest, "Job is no longer open", nil)
		default:
			response.InternalServerError(w, "Failed to accept job")
		}
		return
	}

	response.Success(w, http.StatusOK, "Job accepted successfully", booking)
}

func (h *JobHandler) RejectAssignment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	var req dto.RejectAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.jobUsecase.RejectAssignment(r.Context(), bookingID, req.Reason)
	if err != nil {
		switch err {
		case usecase.ErrBookingNotFound:
			response.NotFound(w, "Booking not found")
		case entity.ErrForbidden:
			response.Forbidden(w, "Job is not assigned to you")
		case entity.ErrInvalidTransition:
			response.Error(w, http.StatusBadRequest, "Job can no longer be rejected", nil)
		default:
			response.InternalServerError(w, "Failed to reject assignment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Assignment rejected successfully", booking)
}

func (h *JobHandler) StartJob(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	booking, err := h.jobUsecase.StartJob(r.Context(), bookingID)
	if err != nil {
		switch err {
		case usecase.ErrBookingNotFound:
			response.NotFound(w, "Booking not found")
		case entity.ErrForbidden:
			response.Forbidden(w, "Job is not assigned to you")
		case entity.ErrInvalidTransition:
			response.Error(w, http.StatusBadRequest, "Job cannot be started from its current status", nil)
		default:
			response.InternalServerError(w, "Failed to start job")
		}
		return
	}

	response.Success(w, http.StatusOK, "Job started successfully", booking)
}

func (h *JobHandler) CompleteJob(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	// Body is optional, completion works without a final cost
	var req dto.CompleteBookingRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	booking, err := h.jobUsecase.CompleteJob(r.Context(), bookingID, req.FinalCost)
	if err != nil {
		switch err {
		case usecase.ErrBookingNotFound:
			response.NotFound(w, "Booking not found")
		case entity.ErrForbidden:
			response.Forbidden(w, "Job is not assigned to you")
		case entity.ErrInvalidTransition:
			response.Error(w, http.StatusBadRequest, "Job must be in progress before completion", nil)
		default:
			response.InternalServerError(w, "Failed to complete job")
		}
		return
	}

	response.Success(w, http.StatusOK, "Job completed successfully", booking)
}
