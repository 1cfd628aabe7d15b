// File: internal/parking/model.go
package parking

import (
	"time"

	"parking_share_backend/internal/common"
	"parking_share_backend/internal/geo"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PricingType classifies a spot as free or paid.
type PricingType string

const (
	PricingFree PricingType = "free"
	PricingPaid PricingType = "paid"
)

// Category classifies the provenance/trustworthiness of a spot.
// Mutable only through moderation.
type Category string

const (
	CategoryOfficial    Category = "official"
	CategoryHidden      Category = "hidden"
	CategoryConditional Category = "conditional"
)

// Status gates public visibility. An empty status on older records is
// treated as approved everywhere.
type Status string

const (
	StatusApproved Status = "approved"
	StatusPending  Status = "pending"
)

// Parking is a single crowd-sourced parking-spot listing.
type Parking struct {
	common.BaseModel
	Name      string  `gorm:"type:varchar(150);not null"`
	Slug      string  `gorm:"type:varchar(200);not null;index"`
	Address   string  `gorm:"type:varchar(255);not null"`
	Latitude  float64 `gorm:"type:decimal(10,8);not null"`
	Longitude float64 `gorm:"type:decimal(11,8);not null"`

	Pricing    PricingType `gorm:"type:varchar(10);not null;default:'free'"`
	FeePerHour *int        `gorm:"column:fee_per_hour"` // meaningful only when Pricing is paid

	Category Category `gorm:"type:varchar(20);not null;default:'official'"`
	Status   Status   `gorm:"type:varchar(20);default:'approved'"`

	TimeLimit   *string        `gorm:"type:varchar(100)"`
	Description string         `gorm:"type:text;not null"`
	Tip         *string        `gorm:"type:text"`
	Caution     *string        `gorm:"type:text"`
	BestTime    *string        `gorm:"type:varchar(150)"`
	Images      pq.StringArray `gorm:"type:text[]"`

	VerificationCount int `gorm:"not null;default:0"`

	// Rating is the legacy single-value rating kept for back-compat with
	// records that predate the reviews collection. AverageRating and
	// ReviewCount are derived from reviews.
	Rating        float64 `gorm:"not null;default:0"`
	AverageRating float64 `gorm:"not null;default:0"`
	ReviewCount   int     `gorm:"not null;default:0"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null;index"`
}

func (Parking) TableName() string {
	return "parkings"
}

// Visible reports whether the listing passes the public visibility gate.
// A missing status is equivalent to approved.
func (p *Parking) Visible() bool {
	return p.Status == StatusApproved || p.Status == ""
}

// Position returns the listing's coordinates.
func (p *Parking) Position() geo.Point {
	return geo.Point{Lat: p.Latitude, Lng: p.Longitude}
}

// VerificationRecord is the at-most-once-per-user ledger behind the
// verification counter.
type VerificationRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_verification_user_parking"`
	ParkingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_verification_user_parking"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (VerificationRecord) TableName() string {
	return "parking_verifications"
}

// --- DTOs for API ---

type CreateParkingRequest struct {
	Name        string   `form:"name" binding:"required,min=2,max=150"`
	Address     string   `form:"address" binding:"required,min=2,max=255"`
	Latitude    float64  `form:"latitude" binding:"required,latitude"`
	Longitude   float64  `form:"longitude" binding:"required,longitude"`
	Pricing     string   `form:"pricing" binding:"required,oneof=free paid"`
	FeePerHour  *int     `form:"fee_per_hour" binding:"omitempty,gte=0"`
	Category    string   `form:"category" binding:"required,oneof=official hidden conditional"`
	TimeLimit   *string  `form:"time_limit" binding:"omitempty,max=100"`
	Description string   `form:"description" binding:"required"`
	Tip         *string  `form:"tip"`
	Caution     *string  `form:"caution"`
	BestTime    *string  `form:"best_time" binding:"omitempty,max=150"`
	// Images arrive as multipart files under the "images" field.
}

type UpdateParkingRequest struct {
	Name        *string  `form:"name" binding:"omitempty,min=2,max=150"`
	Address     *string  `form:"address" binding:"omitempty,min=2,max=255"`
	Latitude    *float64 `form:"latitude" binding:"omitempty,latitude"`
	Longitude   *float64 `form:"longitude" binding:"omitempty,longitude"`
	Pricing     *string  `form:"pricing" binding:"omitempty,oneof=free paid"`
	FeePerHour  *int     `form:"fee_per_hour" binding:"omitempty,gte=0"`
	TimeLimit   *string  `form:"time_limit" binding:"omitempty,max=100"`
	Description *string  `form:"description"`
	Tip         *string  `form:"tip"`
	Caution     *string  `form:"caution"`
	BestTime    *string  `form:"best_time" binding:"omitempty,max=150"`
}

type AdminUpdateStatusRequest struct {
	Status Status `json:"status" binding:"required,oneof=approved pending"`
}

type AdminUpdateCategoryRequest struct {
	Category Category `json:"category" binding:"required,oneof=official hidden conditional"`
}

// ViewQuery carries the pipeline configuration from the query string.
type ViewQuery struct {
	Type       string   `form:"type"`
	Category   string   `form:"category"`
	SearchTerm string   `form:"q"`
	Sort       string   `form:"sort"`
	Latitude   *float64 `form:"lat"`
	Longitude  *float64 `form:"lng"`
}

type ParkingResponse struct {
	ID                uuid.UUID   `json:"id"`
	Name              string      `json:"name"`
	Slug              string      `json:"slug"`
	Address           string      `json:"address"`
	Latitude          float64     `json:"latitude"`
	Longitude         float64     `json:"longitude"`
	Pricing           PricingType `json:"pricing"`
	FeePerHour        *int        `json:"fee_per_hour,omitempty"`
	Category          Category    `json:"category"`
	Status            Status      `json:"status"`
	TimeLimit         *string     `json:"time_limit,omitempty"`
	Description       string      `json:"description"`
	Tip               *string     `json:"tip,omitempty"`
	Caution           *string     `json:"caution,omitempty"`
	BestTime          *string     `json:"best_time,omitempty"`
	Images            []string    `json:"images"`
	VerificationCount int         `json:"verification_count"`
	AverageRating     float64     `json:"average_rating"`
	ReviewCount       int         `json:"review_count"`
	CreatedBy         uuid.UUID   `json:"created_by"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
	DistanceKM        *float64    `json:"distance_km,omitempty"`
}

// ToParkingResponse converts a model to its API representation. When origin
// is non-nil the response carries the great-circle distance from it.
func ToParkingResponse(p *Parking, origin *geo.Point) ParkingResponse {
	status := p.Status
	if status == "" {
		status = StatusApproved
	}
	resp := ParkingResponse{
		ID:                p.ID,
		Name:              p.Name,
		Slug:              p.Slug,
		Address:           p.Address,
		Latitude:          p.Latitude,
		Longitude:         p.Longitude,
		Pricing:           p.Pricing,
		FeePerHour:        p.FeePerHour,
		Category:          p.Category,
		Status:            status,
		TimeLimit:         p.TimeLimit,
		Description:       p.Description,
		Tip:               p.Tip,
		Caution:           p.Caution,
		BestTime:          p.BestTime,
		Images:            p.Images,
		VerificationCount: p.VerificationCount,
		AverageRating:     EffectiveRating(p),
		ReviewCount:       p.ReviewCount,
		CreatedBy:         p.CreatedBy,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	if origin != nil {
		d := geo.Distance(*origin, p.Position())
		resp.DistanceKM = &d
	}
	return resp
}
