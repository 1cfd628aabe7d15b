// File: internal/user/model.go
package user

import (
	"time"

	"parking_share_backend/internal/common"

	"github.com/google/uuid"
)

// User is an application profile provisioned from a Firebase identity on
// first authenticated request.
type User struct {
	common.BaseModel
	FirebaseUID string `gorm:"type:varchar(128);not null;uniqueIndex"`
	Email       string `gorm:"type:varchar(255);not null"`
	DisplayName string `gorm:"type:varchar(100);not null"`
	Role        string `gorm:"type:varchar(20);not null;default:'user'"`
	LastLoginAt *time.Time
}

func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the moderation role.
func (u *User) IsAdmin() bool {
	return u.Role == common.RoleAdmin
}

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" binding:"required,min=1,max=100"`
}

type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
