package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"greenmetrics.io/carbontrack/internal/footprint"
	"greenmetrics.io/carbontrack/internal/model"
	"greenmetrics.io/carbontrack/internal/repository"
	"greenmetrics.io/carbontrack/pkg/apperror"
)

type fakeActivityRepo struct {
	records   []model.Activity
	createErr error
	findErr   error
}

func (r *fakeActivityRepo) Create(ctx context.Context, activity *model.Activity) error {
	if r.createErr != nil {
		return r.createErr
	}
	if activity.ID == uuid.Nil {
		activity.ID = uuid.New()
	}
	r.records = append(r.records, *activity)
	return nil
}

func (r *fakeActivityRepo) FindByUser(ctx context.Context, userID uuid.UUID, order repository.Order) ([]model.Activity, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}

	out := make([]model.Activity, 0)
	for _, record := range r.records {
		if record.UserID == userID {
			out = append(out, record)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if order == repository.OrderDesc {
			return out[i].RecordedAt.After(out[j].RecordedAt)
		}
		return out[i].RecordedAt.Before(out[j].RecordedAt)
	})

	return out, nil
}

func fullSubmission() footprint.Submission {
	sub := make(footprint.Submission)
	for _, name := range footprint.Categories() {
		sub[name] = 0
	}
	return sub
}

func newTestFootprintService(repo *fakeActivityRepo) *footprintService {
	tips := footprint.NewTipSelector(rand.New(rand.NewSource(1)))
	svc := NewFootprintService(repo, tips, nil, time.Second)
	return svc.(*footprintService)
}

func TestSubmitPersistsRecord(t *testing.T) {
	repo := &fakeActivityRepo{}
	svc := newTestFootprintService(repo)

	recordedAt := time.Date(2025, time.March, 3, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return recordedAt }

	userID := uuid.New()
	sub := fullSubmission()
	sub["car"] = 10

	res, err := svc.Submit(context.Background(), userID, sub)
	require.NoError(t, err)

	require.Equal(t, 2.0, res.Total)
	require.Equal(t, 10.0, res.Comparison)
	require.Equal(t, 2.0, res.Breakdown["car"])
	require.NotEmpty(t, res.EcoTip)

	require.Len(t, repo.records, 1)
	stored := repo.records[0]
	require.Equal(t, userID, stored.UserID)
	require.Equal(t, recordedAt, stored.RecordedAt)
	require.Equal(t, 2.0, stored.TotalScore)

	var quantities footprint.Submission
	require.NoError(t, json.Unmarshal(stored.Quantities, &quantities))
	require.Equal(t, sub, quantities)
}

func TestSubmitEcoTipFromAdviceTable(t *testing.T) {
	repo := &fakeActivityRepo{}
	svc := newTestFootprintService(repo)

	known := make(map[string]bool)
	for _, tip := range footprint.Tips() {
		known[tip] = true
	}

	res, err := svc.Submit(context.Background(), uuid.New(), fullSubmission())
	require.NoError(t, err)
	require.True(t, known[res.EcoTip])
}

func TestSubmitRejectsInvalidSubmission(t *testing.T) {
	repo := &fakeActivityRepo{}
	svc := newTestFootprintService(repo)

	sub := fullSubmission()
	delete(sub, "car")

	_, err := svc.Submit(context.Background(), uuid.New(), sub)
	require.ErrorIs(t, err, apperror.ErrValidation)
	require.Empty(t, repo.records)
}

func TestSubmitSurfacesStorageFailure(t *testing.T) {
	repo := &fakeActivityRepo{createErr: errors.New("connection refused")}
	svc := newTestFootprintService(repo)

	_, err := svc.Submit(context.Background(), uuid.New(), fullSubmission())
	require.ErrorIs(t, err, apperror.ErrStorage)
}

func TestHistoryOrdering(t *testing.T) {
	repo := &fakeActivityRepo{}
	svc := newTestFootprintService(repo)
	userID := uuid.New()

	start := time.Date(2025, time.March, 1, 8, 0, 0, 0, time.UTC)
	for day := 0; day < 3; day++ {
		svc.now = func() time.Time { return start.AddDate(0, 0, day) }
		_, err := svc.Submit(context.Background(), userID, fullSubmission())
		require.NoError(t, err)
	}

	ascending, err := svc.History(context.Background(), userID, repository.OrderAsc)
	require.NoError(t, err)
	require.Len(t, ascending, 3)
	for i := 1; i < len(ascending); i++ {
		require.True(t, ascending[i].RecordedAt.After(ascending[i-1].RecordedAt))
	}

	descending, err := svc.History(context.Background(), userID, repository.OrderDesc)
	require.NoError(t, err)
	require.Len(t, descending, 3)
	for i := 1; i < len(descending); i++ {
		require.True(t, descending[i].RecordedAt.Before(descending[i-1].RecordedAt))
	}
}

func TestHistoryEmptyForNewUser(t *testing.T) {
	repo := &fakeActivityRepo{}
	svc := newTestFootprintService(repo)

	activities, err := svc.History(context.Background(), uuid.New(), repository.OrderDesc)
	require.NoError(t, err)
	require.Empty(t, activities)
}

func TestHistoryIsScopedToOwner(t *testing.T) {
	repo := &fakeActivityRepo{}
	svc := newTestFootprintService(repo)

	alice := uuid.New()
	bob := uuid.New()

	_, err := svc.Submit(context.Background(), alice, fullSubmission())
	require.NoError(t, err)

	activities, err := svc.History(context.Background(), bob, repository.OrderAsc)
	require.NoError(t, err)
	require.Empty(t, activities)
}

func TestTrendChartRendersForAnyHistoryLength(t *testing.T) {
	repo := &fakeActivityRepo{}
	svc := newTestFootprintService(repo)
	userID := uuid.New()

	start := time.Date(2025, time.March, 1, 8, 0, 0, 0, time.UTC)
	for _, count := range []int{0, 1, 2} {
		repo.records = nil
		for day := 0; day < count; day++ {
			svc.now = func() time.Time { return start.AddDate(0, 0, day) }
			_, err := svc.Submit(context.Background(), userID, fullSubmission())
			require.NoError(t, err)
		}

		data, err := svc.TrendChart(context.Background(), userID)
		require.NoError(t, err)

		_, err = png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
	}
}
