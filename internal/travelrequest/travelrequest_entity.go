package travelrequest

import (
	"time"

	"go-traveldesk/internal/auth"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TravelRequest struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_travel_requests_user"`

	Destination   string    `gorm:"type:varchar(255);not null"`
	StartDate     time.Time `gorm:"type:date;not null;index:idx_travel_requests_dates"`
	EndDate       time.Time `gorm:"type:date;not null;index:idx_travel_requests_dates"`
	Reason        string    `gorm:"type:text;not null"`
	EstimatedCost *float64  `gorm:"type:numeric(10,2)"`

	Status          Status     `gorm:"type:varchar(20);not null;default:'pending';index:idx_travel_requests_status"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt      *time.Time
	RejectionReason *string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"index:idx_travel_requests_created"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_travel_requests_deleted_at"`

	// Loaded on demand via Preload; nil means not loaded, not "no user".
	User     *auth.User `gorm:"foreignKey:UserID"`
	Approver *auth.User `gorm:"foreignKey:ApprovedBy"`
}
