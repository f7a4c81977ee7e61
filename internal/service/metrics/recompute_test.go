package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"floor-metrics/internal/storage"
)

func TestRecompute_ComputesAndUpserts(t *testing.T) {
	cycles := new(MockCycleSource)
	store := new(MockMetricStore)

	records := []*storage.CycleRecord{
		newClosedCycle(1, 5, 300, "target:10|downtime:5"),
	}

	dayStart, _ := time.ParseInLocation("2006-01-02", "2025-03-14", time.Local)
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Millisecond)

	cycles.On("FindClosedCycles", mock.Anything, int64(1), dayStart, dayEnd).Return(records, nil)
	store.On("UpsertMetric", mock.Anything, mock.Anything).Return(nil, nil)

	svc := newTestService(t, cycles, store)

	metric, err := svc.Recompute(context.Background(), 1, "2025-03-14")

	require.NoError(t, err)
	assert.Equal(t, "50.00", metric.Efficiency)
	assert.Equal(t, 300.0, metric.TotalRuntime)
	assert.Equal(t, 300.0, metric.TotalDowntime)
	assert.Equal(t, 5, metric.PartsProduced)
	require.NotNil(t, metric.AttainmentPercentage)
	assert.Equal(t, 50.0, *metric.AttainmentPercentage)

	cycles.AssertExpectations(t)
	store.AssertNumberOfCalls(t, "UpsertMetric", 1)
}

func TestRecompute_Idempotent(t *testing.T) {
	cycles := new(MockCycleSource)
	store := new(MockMetricStore)

	records := []*storage.CycleRecord{
		newClosedCycle(1, 10, 600, "target:10"),
		newClosedCycle(1, 3, 200, "downtime:2"),
	}

	cycles.On("FindClosedCycles", mock.Anything, int64(1), mock.Anything, mock.Anything).Return(records, nil)
	store.On("UpsertMetric", mock.Anything, mock.Anything).Return(nil, nil)

	svc := newTestService(t, cycles, store)

	first, err := svc.Recompute(context.Background(), 1, "2025-03-14")
	require.NoError(t, err)
	second, err := svc.Recompute(context.Background(), 1, "2025-03-14")
	require.NoError(t, err)

	// Same closed cycles, bit-identical metric values, same upsert key.
	assert.Equal(t, first, second)
	store.AssertNumberOfCalls(t, "UpsertMetric", 2)
}

func TestRecompute_NoClosedCycles(t *testing.T) {
	cycles := new(MockCycleSource)
	store := new(MockMetricStore)

	cycles.On("FindClosedCycles", mock.Anything, int64(1), mock.Anything, mock.Anything).Return([]*storage.CycleRecord{}, nil)

	svc := newTestService(t, cycles, store)

	_, err := svc.Recompute(context.Background(), 1, "2025-03-14")

	assert.ErrorIs(t, err, ErrNoData)
	store.AssertNotCalled(t, "UpsertMetric", mock.Anything, mock.Anything)
}

func TestRecompute_OpenCycleNeverContributes(t *testing.T) {
	cycles := new(MockCycleSource)
	store := new(MockMetricStore)

	open := newClosedCycle(1, 100, 600, "")
	open.EndTime = nil

	cycles.On("FindClosedCycles", mock.Anything, int64(1), mock.Anything, mock.Anything).Return([]*storage.CycleRecord{open}, nil)

	svc := newTestService(t, cycles, store)

	_, err := svc.Recompute(context.Background(), 1, "2025-03-14")

	assert.ErrorIs(t, err, ErrNoData)
	store.AssertNotCalled(t, "UpsertMetric", mock.Anything, mock.Anything)
}

func TestRecompute_InvalidDate(t *testing.T) {
	svc := newTestService(t, new(MockCycleSource), new(MockMetricStore))

	_, err := svc.Recompute(context.Background(), 1, "14.03.2025")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoData)
}

func TestRecompute_StoreFailurePropagates(t *testing.T) {
	cycles := new(MockCycleSource)
	store := new(MockMetricStore)

	cycles.On("FindClosedCycles", mock.Anything, int64(1), mock.Anything, mock.Anything).
		Return([]*storage.CycleRecord{newClosedCycle(1, 1, 60, "")}, nil)
	store.On("UpsertMetric", mock.Anything, mock.Anything).Return(nil, errors.New("connection lost"))

	svc := newTestService(t, cycles, store)

	_, err := svc.Recompute(context.Background(), 1, "2025-03-14")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoData)
}

func TestRecompute_MalformedAnnotationDegradesToDefaults(t *testing.T) {
	cycles := new(MockCycleSource)
	store := new(MockMetricStore)

	records := []*storage.CycleRecord{
		newClosedCycle(1, 10, 600, "target:abc|downtime:xyz"),
	}

	cycles.On("FindClosedCycles", mock.Anything, int64(1), mock.Anything, mock.Anything).Return(records, nil)
	store.On("UpsertMetric", mock.Anything, mock.Anything).Return(nil, nil)

	svc := newTestService(t, cycles, store)

	metric, err := svc.Recompute(context.Background(), 1, "2025-03-14")

	require.NoError(t, err)
	// Target falls back to parts, downtime to zero.
	assert.Equal(t, "10", metric.TargetCount)
	assert.Equal(t, 0.0, metric.TotalDowntime)
	assert.Equal(t, "100.00", metric.Efficiency)
}
