// File: internal/platform/database/migrate.go
package database

import (
	"fmt"

	"parking_share_backend/internal/favorite"
	"parking_share_backend/internal/notification"
	"parking_share_backend/internal/parking"
	"parking_share_backend/internal/review"
	"parking_share_backend/internal/user"

	"gorm.io/gorm"
)

// Migrate brings the schema up to date for every model.
func Migrate(db *gorm.DB) error {
	// uuid_generate_v4 defaults need the extension.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to ensure uuid-ossp extension: %w", err)
	}

	err := db.AutoMigrate(
		&user.User{},
		&parking.Parking{},
		&parking.VerificationRecord{},
		&favorite.Favorite{},
		&review.Review{},
		&notification.Notification{},
	)
	if err != nil {
		return fmt.Errorf("failed to run schema migration: %w", err)
	}
	return nil
}
