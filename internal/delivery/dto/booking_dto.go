package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type DeviceInfoRequest struct {
	Brand string `json:"brand" validate:"required,min=1,max=100"`
	Model string `json:"model" validate:"required,min=1,max=100"`
	Issue string `json:"issue" validate:"required,min=1,max=255"`
}

type AddressRequest struct {
	Street   string `json:"street" validate:"required,min=1,max=255"`
	City     string `json:"city" validate:"required,min=1,max=100"`
	State    string `json:"state" validate:"required,min=1,max=100"`
	ZipCode  string `json:"zip_code" validate:"required,min=1,max=20"`
	Landmark string `json:"landmark,omitempty" validate:"max=255"`
}

type CreateBookingRequest struct {
	ServiceType       string            `json:"service_type" validate:"required,min=2,max=100"`
	DeviceInfo        DeviceInfoRequest `json:"device_info" validate:"required"`
	Description       string            `json:"description,omitempty"`
	Urgency           string            `json:"urgency" validate:"required,oneof=normal urgent emergency"`
	PreferredDate     string            `json:"preferred_date" validate:"required"`
	PreferredTimeSlot string            `json:"preferred_time_slot" validate:"required,oneof=morning afternoon evening"`
	Address           AddressRequest    `json:"address" validate:"required"`
	Phone             string            `json:"phone" validate:"required,min=6,max=20"`
	AltPhone          string            `json:"alt_phone,omitempty" validate:"max=20"`
	Notes             string            `json:"notes,omitempty"`
	EstimatedCost     *decimal.Decimal  `json:"estimated_cost,omitempty"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"required,min=1"`
}

type RejectAssignmentRequest struct {
	Reason string `json:"reason" validate:"required,min=1"`
}

type CompleteBookingRequest struct {
	FinalCost *decimal.Decimal `json:"final_cost,omitempty"`
}

type AssignTechnicianRequest struct {
	TechnicianID uuid.UUID `json:"technician_id" validate:"required"`
}

type RescheduleBookingRequest struct {
	PreferredDate     string `json:"preferred_date" validate:"required"`
	PreferredTimeSlot string `json:"preferred_time_slot" validate:"required,oneof=morning afternoon evening"`
}

// Response DTOs

type DeviceInfoResponse struct {
	Brand string `json:"brand"`
	Model string `json:"model"`
	Issue string `json:"issue"`
}

type AddressResponse struct {
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`
	Landmark string `json:"landmark,omitempty"`
}

type StatusEventResponse struct {
	Status    string    `json:"status"`
	ChangedBy uuid.UUID `json:"changed_by"`
	Reason    string    `json:"reason,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
}

type BookingResponse struct {
	ID                uuid.UUID             `json:"id"`
	CustomerID        uuid.UUID             `json:"customer_id"`
	TechnicianID      *uuid.UUID            `json:"technician_id,omitempty"`
	TechnicianName    string                `json:"technician_name,omitempty"`
	ServiceType       string                `json:"service_type"`
	DeviceInfo        DeviceInfoResponse    `json:"device_info"`
	Description       string                `json:"description,omitempty"`
	Urgency           string                `json:"urgency"`
	PreferredDate     string                `json:"preferred_date"`
	PreferredTimeSlot string                `json:"preferred_time_slot"`
	Address           AddressResponse       `json:"address"`
	Phone             string                `json:"phone"`
	AltPhone          string                `json:"alt_phone,omitempty"`
	Notes             string                `json:"notes,omitempty"`
	EstimatedCost     *decimal.Decimal      `json:"estimated_cost,omitempty"`
	FinalCost         *decimal.Decimal      `json:"final_cost,omitempty"`
	PaymentStatus     string                `json:"payment_status"`
	Status            string                `json:"status"`
	CancelReason      string                `json:"cancel_reason,omitempty"`
	Progress          int                   `json:"progress"`
	StartedAt         *time.Time            `json:"started_at,omitempty"`
	CompletedAt       *time.Time            `json:"completed_at,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
	StatusHistory     []StatusEventResponse `json:"status_history,omitempty"`
}

type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}
