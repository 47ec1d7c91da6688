package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Activity is one accepted footprint submission. Rows are append-only:
// no repository exposes an update or delete path.
type Activity struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;index;not null" json:"user_id"`
	RecordedAt time.Time      `gorm:"not null;index" json:"recorded_at"`
	Quantities datatypes.JSON `gorm:"type:jsonb;not null" json:"quantities"`
	TotalScore float64        `gorm:"not null" json:"total_score"`
}

func (Activity) TableName() string { return "activities" }

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
