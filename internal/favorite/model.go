// File: internal/favorite/model.go
package favorite

import (
	"time"

	"github.com/google/uuid"
)

// Favorite marks one listing as saved by one user. The pair is unique;
// toggling flips the row's existence.
type Favorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_parking"`
	ParkingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_parking"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Favorite) TableName() string {
	return "favorites"
}

// ToggleResponse reports the state after a toggle.
type ToggleResponse struct {
	ParkingID uuid.UUID `json:"parking_id"`
	Favorited bool      `json:"favorited"`
}
