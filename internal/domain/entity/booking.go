package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusAssigned   BookingStatus = "assigned"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// IsValid reports whether the status is one of the five defined values
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusAssigned, BookingStatusInProgress,
		BookingStatusCompleted, BookingStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no transition can leave the status
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

func (s BookingStatus) String() string {
	return string(s)
}

// Urgency levels for a repair request
type Urgency string

const (
	UrgencyNormal    Urgency = "normal"
	UrgencyUrgent    Urgency = "urgent"
	UrgencyEmergency Urgency = "emergency"
)

// TimeSlot values for preferred scheduling
type TimeSlot string

const (
	TimeSlotMorning   TimeSlot = "morning"
	TimeSlotAfternoon TimeSlot = "afternoon"
	TimeSlotEvening   TimeSlot = "evening"
)

// PaymentStatus of a booking, owned by the external payroll collaborator
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
	PaymentStatusFailed   PaymentStatus = "failed"
)

// DeviceInfo describes the device to be repaired
type DeviceInfo struct {
	Brand string `gorm:"type:varchar(100);not null" json:"brand"`
	Model string `gorm:"type:varchar(100);not null" json:"model"`
	Issue string `gorm:"type:varchar(255);not null" json:"issue"`
}

// Address is the service location for a booking
type Address struct {
	Street   string `gorm:"type:varchar(255);not null" json:"street"`
	City     string `gorm:"type:varchar(100);not null" json:"city"`
	State    string `gorm:"type:varchar(100);not null" json:"state"`
	ZipCode  string `gorm:"type:varchar(20);not null" json:"zip_code"`
	Landmark string `gorm:"type:varchar(255)" json:"landmark,omitempty"`
}

// Booking represents a customer repair request tracked through its lifecycle.
// Status is only ever changed through the transition operations; every change
// appends exactly one BookingStatusEvent.
type Booking struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CustomerID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"customer_id"`
	TechnicianID *uuid.UUID `gorm:"type:uuid;index" json:"technician_id,omitempty"`

	ServiceType string     `gorm:"type:varchar(100);not null;index" json:"service_type"`
	Device      DeviceInfo `gorm:"embedded;embeddedPrefix:device_" json:"device_info"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Urgency     Urgency    `gorm:"type:varchar(20);not null;default:'normal'" json:"urgency"`

	PreferredDate     time.Time `gorm:"type:date;not null" json:"preferred_date"`
	PreferredTimeSlot TimeSlot  `gorm:"type:varchar(20);not null" json:"preferred_time_slot"`

	Address  Address `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	Phone    string  `gorm:"type:varchar(20);not null" json:"phone"`
	AltPhone string  `gorm:"type:varchar(20)" json:"alt_phone,omitempty"`
	Notes    string  `gorm:"type:text" json:"notes,omitempty"`

	EstimatedCost *decimal.Decimal `gorm:"type:decimal(10,2)" json:"estimated_cost,omitempty"`
	FinalCost     *decimal.Decimal `gorm:"type:decimal(10,2)" json:"final_cost,omitempty"`
	PaymentStatus PaymentStatus    `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`

	Status       BookingStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CancelReason string        `gorm:"type:text" json:"cancel_reason,omitempty"`

	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Customer      CustomerProfile      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Technician    *TechnicianProfile   `gorm:"foreignKey:TechnicianID" json:"technician,omitempty"`
	StatusHistory []BookingStatusEvent `gorm:"foreignKey:BookingID" json:"status_history,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

// IsActive reports whether the booking is in a non-terminal state
func (b *Booking) IsActive() bool {
	return !b.Status.IsTerminal()
}

// IsAssignedTo reports whether the given technician is the one on the booking
func (b *Booking) IsAssignedTo(technicianID uuid.UUID) bool {
	return b.TechnicianID != nil && *b.TechnicianID == technicianID
}

// IsOwnedBy reports whether the given customer created the booking
func (b *Booking) IsOwnedBy(customerID uuid.UUID) bool {
	return b.CustomerID == customerID
}
