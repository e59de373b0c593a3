package entity

import "github.com/google/uuid"

// CustomerProfile represents customer-specific profile data
type CustomerProfile struct {
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	PhoneNumber string    `gorm:"type:varchar(20);index" json:"phone_number,omitempty"`
	Street      string    `gorm:"type:varchar(255)" json:"street,omitempty"`
	City        string    `gorm:"type:varchar(100);index" json:"city,omitempty"`
	State       string    `gorm:"type:varchar(100)" json:"state,omitempty"`
	ZipCode     string    `gorm:"type:varchar(20)" json:"zip_code,omitempty"`

	// Relationships
	User     User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Bookings []Booking `gorm:"foreignKey:CustomerID" json:"bookings,omitempty"`
}

func (CustomerProfile) TableName() string {
	return "customer_profiles"
}
