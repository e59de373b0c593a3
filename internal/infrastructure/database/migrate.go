package database

import (
	"fmt"

	"repairmate-backend/internal/domain/entity"

	"gorm.io/gorm"
)

// Migrate creates or updates the schema and seeds the fixed role rows.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entity.Role{},
		&entity.User{},
		&entity.TechnicianProfile{},
		&entity.CustomerProfile{},
		&entity.Booking{},
		&entity.BookingStatusEvent{},
		&entity.Earning{},
		&entity.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// At most one non-terminal booking per customer. The application
	// checks before inserting, but only this index closes the race
	// between two concurrent creates.
	err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uq_bookings_customer_active
		ON bookings (customer_id)
		WHERE status NOT IN ('completed', 'cancelled')`).Error
	if err != nil {
		return fmt.Errorf("failed to create active booking index: %w", err)
	}

	roles := []entity.Role{
		{ID: entity.RoleIDAdmin, RoleName: entity.RoleAdmin, Description: "Back-office administrator"},
		{ID: entity.RoleIDTechnician, RoleName: entity.RoleTechnician, Description: "Repair technician"},
		{ID: entity.RoleIDCustomer, RoleName: entity.RoleCustomer, Description: "Customer requesting repairs"},
	}
	for _, role := range roles {
		if err := db.Where("id = ?", role.ID).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("failed to seed role %s: %w", role.RoleName, err)
		}
	}

	return nil
}
