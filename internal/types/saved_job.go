package types

import (
	"time"

	"github.com/google/uuid"
)

type SavedJob struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	JobID     uuid.UUID `gorm:"type:uuid;not null;index:idx_saved_job_user_job,unique;column:job_id" json:"job_id"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index;column:company_id" json:"company_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_saved_job_user_job,unique;column:user_id" json:"user_id"`
	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (SavedJob) TableName() string {
	return "saved_job"
}
