package types

import (
	"time"

	"github.com/google/uuid"
)

// JobView is the system-of-record row behind the job_view metric. Dashboard
// aggregates are recomputed from these rows, never from pushed deltas.
type JobView struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	JobID     uuid.UUID  `gorm:"type:uuid;not null;index;column:job_id" json:"job_id"`
	CompanyID uuid.UUID  `gorm:"type:uuid;not null;index;column:company_id" json:"company_id"`
	ViewerID  *uuid.UUID `gorm:"type:uuid;index;column:viewer_id" json:"viewer_id,omitempty"`
	CreatedAt time.Time  `gorm:"not null;default:now();index" json:"created_at"`
}

func (JobView) TableName() string {
	return "job_view"
}
