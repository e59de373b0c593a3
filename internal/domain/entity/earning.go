package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EarningStatus of a payout record
type EarningStatus string

const (
	EarningStatusPending  EarningStatus = "pending"
	EarningStatusApproved EarningStatus = "approved"
	EarningStatusPaid     EarningStatus = "paid"
)

// Earning references a completed booking and the payout owed to its
// technician. Rows are produced by the external payroll collaborator;
// this service only reads them for technician dashboards.
type Earning struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"booking_id"`
	TechnicianID uuid.UUID       `gorm:"type:uuid;not null;index" json:"technician_id"`
	Amount       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Bonus        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"bonus"`
	Status       EarningStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Booking Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
}

func (Earning) TableName() string {
	return "earnings"
}
