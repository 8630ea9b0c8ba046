package types

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationReviewed  ApplicationStatus = "reviewed"
	ApplicationInterview ApplicationStatus = "interview"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationAccepted  ApplicationStatus = "accepted"
)

type Application struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	JobID     uuid.UUID         `gorm:"type:uuid;not null;index;column:job_id" json:"job_id"`
	CompanyID uuid.UUID         `gorm:"type:uuid;not null;index;column:company_id" json:"company_id"`
	UserID    uuid.UUID         `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Status    ApplicationStatus `gorm:"not null;default:pending;column:status" json:"status"`
	CreatedAt time.Time         `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:now()" json:"updated_at"`
}

func (Application) TableName() string {
	return "application"
}
