package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"

	"greenmetrics.io/carbontrack/internal/chart"
	"greenmetrics.io/carbontrack/internal/footprint"
	"greenmetrics.io/carbontrack/internal/model"
	"greenmetrics.io/carbontrack/internal/repository"
	"greenmetrics.io/carbontrack/pkg/apperror"
)

type SubmissionResult struct {
	Record     *model.Activity    `json:"record"`
	Total      float64            `json:"total"`
	Breakdown  map[string]float64 `json:"breakdown"`
	Comparison float64            `json:"comparison"`
	EcoTip     string             `json:"eco_tip"`
}

type FootprintService interface {
	Submit(ctx context.Context, userID uuid.UUID, sub footprint.Submission) (*SubmissionResult, error)
	History(ctx context.Context, userID uuid.UUID, order repository.Order) ([]model.Activity, error)
	TrendChart(ctx context.Context, userID uuid.UUID) ([]byte, error)
}

type footprintService struct {
	activities repository.ActivityRepository
	tips       *footprint.TipSelector
	rdb        *redis.Client
	cooldown   time.Duration
	now        func() time.Time
}

func NewFootprintService(activities repository.ActivityRepository, tips *footprint.TipSelector, rdb *redis.Client, cooldown time.Duration) FootprintService {
	return &footprintService{
		activities: activities,
		tips:       tips,
		rdb:        rdb,
		cooldown:   cooldown,
		now:        time.Now,
	}
}

// Submit scores a submission, persists it as an immutable record with a
// server-assigned timestamp, and selects an eco tip for the response.
func (s *footprintService) Submit(ctx context.Context, userID uuid.UUID, sub footprint.Submission) (*SubmissionResult, error) {
	allowed, err := CheckAndSetRateLimit(ctx, s.rdb, userID, "submit", s.cooldown)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrStorage, err)
	}
	if !allowed {
		return nil, apperror.ErrRateLimitExceeded
	}

	result, err := footprint.Score(sub)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("failed to encode quantities: %w", err)
	}

	activity := &model.Activity{
		UserID:     userID,
		RecordedAt: s.now(),
		Quantities: datatypes.JSON(raw),
		TotalScore: result.Total,
	}

	if err := s.activities.Create(ctx, activity); err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrStorage, err)
	}

	return &SubmissionResult{
		Record:     activity,
		Total:      result.Total,
		Breakdown:  result.Breakdown,
		Comparison: result.Comparison,
		EcoTip:     s.tips.Pick(sub),
	}, nil
}

func (s *footprintService) History(ctx context.Context, userID uuid.UUID, order repository.Order) ([]model.Activity, error) {
	activities, err := s.activities.FindByUser(ctx, userID, order)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrStorage, err)
	}
	return activities, nil
}

// TrendChart renders the user's score history, oldest first, as a PNG.
func (s *footprintService) TrendChart(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	activities, err := s.activities.FindByUser(ctx, userID, repository.OrderAsc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrStorage, err)
	}

	points := make([]chart.Point, len(activities))
	for i, a := range activities {
		points[i] = chart.Point{Time: a.RecordedAt, Score: a.TotalScore}
	}

	return chart.RenderTrend(points)
}
