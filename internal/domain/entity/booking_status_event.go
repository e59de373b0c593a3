package entity

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatusEvent is one entry in a booking's append-only status history.
// Insertion order is chronological order; entries are never updated or removed.
// This trail is the source of truth for time spent in each state.
type BookingStatusEvent struct {
	ID        int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingID uuid.UUID     `gorm:"type:uuid;not null;index" json:"booking_id"`
	Status    BookingStatus `gorm:"type:varchar(20);not null" json:"status"`
	ChangedBy uuid.UUID     `gorm:"type:uuid;not null" json:"changed_by"`
	Reason    string        `gorm:"type:text" json:"reason,omitempty"`
	CreatedAt time.Time     `gorm:"autoCreateTime;index" json:"changed_at"`
}

func (BookingStatusEvent) TableName() string {
	return "booking_status_events"
}
