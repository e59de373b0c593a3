package converter

import (
	"repairmate-backend/internal/delivery/dto"
	"repairmate-backend/internal/domain/entity"
)

// progressSteps is the ordered stepper sequence rendered by dashboards.
// Cancelled is not part of the progression; it is shown from the status
// field as a terminal badge.
var progressSteps = []entity.BookingStatus{
	entity.BookingStatusPending,
	entity.BookingStatusAssigned,
	entity.BookingStatusInProgress,
	entity.BookingStatusCompleted,
}

// ProgressPercent maps a status to its stepper percentage: the index of
// the status within the progression divided by the final index.
func ProgressPercent(status entity.BookingStatus) int {
	for i, s := range progressSteps {
		if s == status {
			return i * 100 / (len(progressSteps) - 1)
		}
	}
	return 0
}

// BookingToResponse converts a Booking entity to BookingResponse DTO
func BookingToResponse(booking *entity.Booking) *dto.BookingResponse {
	if booking == nil {
		return nil
	}

	response := &dto.BookingResponse{
		ID:           booking.ID,
		CustomerID:   booking.CustomerID,
		TechnicianID: booking.TechnicianID,
		ServiceType:  booking.ServiceType,
		DeviceInfo: dto.DeviceInfoResponse{
			Brand: booking.Device.Brand,
			Model: booking.Device.Model,
			Issue: booking.Device.Issue,
		},
		Description:       booking.Description,
		Urgency:           string(booking.Urgency),
		PreferredDate:     booking.PreferredDate.Format("2006-01-02"),
		PreferredTimeSlot: string(booking.PreferredTimeSlot),
		Address: dto.AddressResponse{
			Street:   booking.Address.Street,
			City:     booking.Address.City,
			State:    booking.Address.State,
			ZipCode:  booking.Address.ZipCode,
			Landmark: booking.Address.Landmark,
		},
		Phone:         booking.Phone,
		AltPhone:      booking.AltPhone,
		Notes:         booking.Notes,
		EstimatedCost: booking.EstimatedCost,
		FinalCost:     booking.FinalCost,
		PaymentStatus: string(booking.PaymentStatus),
		Status:        string(booking.Status),
		CancelReason:  booking.CancelReason,
		Progress:      ProgressPercent(booking.Status),
		StartedAt:     booking.StartedAt,
		CompletedAt:   booking.CompletedAt,
		CreatedAt:     booking.CreatedAt,
		UpdatedAt:     booking.UpdatedAt,
	}

	if booking.Technician != nil && booking.Technician.User.FullName != "" {
		response.TechnicianName = booking.Technician.User.FullName
	}

	if len(booking.StatusHistory) > 0 {
		events := make([]dto.StatusEventResponse, len(booking.StatusHistory))
		for i, event := range booking.StatusHistory {
			events[i] = dto.StatusEventResponse{
				Status:    string(event.Status),
				ChangedBy: event.ChangedBy,
				Reason:    event.Reason,
				ChangedAt: event.CreatedAt,
			}
		}
		response.StatusHistory = events
	}

	return response
}

// BookingsToResponses converts a slice of Booking entities to slice of BookingResponse DTOs
func BookingsToResponses(bookings []entity.Booking) []dto.BookingResponse {
	responses := make([]dto.BookingResponse, len(bookings))
	for i, booking := range bookings {
		resp := BookingToResponse(&booking)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
