package entity

import "github.com/google/uuid"

// TechnicianProfile represents technician-specific profile data
type TechnicianProfile struct {
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Specialization string    `gorm:"type:varchar(100);not null;index" json:"specialization"`
	ServiceArea    string    `gorm:"type:varchar(100);index" json:"service_area,omitempty"`
	PhoneNumber    string    `gorm:"type:varchar(20);index" json:"phone_number,omitempty"`
	Biography      string    `gorm:"type:text" json:"biography,omitempty"`

	// Relationships
	User     User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Bookings []Booking `gorm:"foreignKey:TechnicianID" json:"bookings,omitempty"`
	Earnings []Earning `gorm:"foreignKey:TechnicianID" json:"earnings,omitempty"`
}

func (TechnicianProfile) TableName() string {
	return "technician_profiles"
}
