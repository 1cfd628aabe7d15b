// File: internal/notification/model.go
package notification

import (
	"time"

	"parking_share_backend/internal/common"

	"github.com/google/uuid"
)

// Type names the event a notification reports.
type Type string

const (
	TypeListingApproved Type = "listing_approved"
	TypeListingRejected Type = "listing_rejected"
	TypeListingPending  Type = "listing_pending"
	TypeListingVerified Type = "listing_verified"
	TypeListingReviewed Type = "listing_reviewed"
)

// Notification is a message delivered to one user about one of their
// listings.
type Notification struct {
	common.BaseModel
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Type      Type       `gorm:"type:varchar(50);not null"`
	Message   string     `gorm:"type:text;not null"`
	ListingID *uuid.UUID `gorm:"type:uuid"`
	IsRead    bool       `gorm:"not null;default:false"`
	ReadAt    *time.Time
}

func (Notification) TableName() string {
	return "notifications"
}

type NotificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	Type      Type       `json:"type"`
	Message   string     `json:"message"`
	ListingID *uuid.UUID `json:"listing_id,omitempty"`
	IsRead    bool       `json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func ToNotificationResponse(n *Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Message:   n.Message,
		ListingID: n.ListingID,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}
