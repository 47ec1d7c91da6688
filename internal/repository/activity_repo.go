package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"greenmetrics.io/carbontrack/internal/model"
)

// Order is the chronological direction for history reads.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// ActivityRepository is append-only: records are never updated or
// deleted once written.
type ActivityRepository interface {
	Create(ctx context.Context, activity *model.Activity) error
	FindByUser(ctx context.Context, userID uuid.UUID, order Order) ([]model.Activity, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, activity *model.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *activityRepository) FindByUser(ctx context.Context, userID uuid.UUID, order Order) ([]model.Activity, error) {
	direction := "recorded_at ASC"
	if order == OrderDesc {
		direction = "recorded_at DESC"
	}

	activities := make([]model.Activity, 0)
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(direction).
		Find(&activities).Error; err != nil {
		return nil, err
	}

	return activities, nil
}
