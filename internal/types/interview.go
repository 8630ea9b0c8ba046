package types

import (
	"time"

	"github.com/google/uuid"
)

type Interview struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ApplicationID uuid.UUID `gorm:"type:uuid;not null;index;column:application_id" json:"application_id"`
	JobID         uuid.UUID `gorm:"type:uuid;not null;index;column:job_id" json:"job_id"`
	CompanyID     uuid.UUID `gorm:"type:uuid;not null;index;column:company_id" json:"company_id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	ScheduledAt   time.Time `gorm:"not null;column:scheduled_at" json:"scheduled_at"`
	CreatedAt     time.Time `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Interview) TableName() string {
	return "interview"
}
