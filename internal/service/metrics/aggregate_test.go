package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"floor-metrics/internal/storage"
)

func fixedNow() time.Time {
	return time.Date(2025, 3, 14, 15, 0, 0, 0, time.Local)
}

func TestPeriodWindow(t *testing.T) {
	cases := []struct {
		period string
		from   string
		to     string
	}{
		{PeriodDay, "2025-03-14", "2025-03-14"},
		{PeriodWeek, "2025-03-08", "2025-03-14"},
		{PeriodMonth, "2025-02-13", "2025-03-14"},
	}

	for _, tc := range cases {
		from, to, err := PeriodWindow(fixedNow(), tc.period)
		require.NoError(t, err)
		assert.Equal(t, tc.from, from, tc.period)
		assert.Equal(t, tc.to, to, tc.period)
	}

	_, _, err := PeriodWindow(fixedNow(), "quarter")
	assert.Error(t, err)
}

func TestSummary_WeekTotalsAndMeans(t *testing.T) {
	store := new(MockMetricStore)

	rows := []*storage.EfficiencyMetric{
		{Date: "2025-03-12", PartsProduced: 10, TotalRuntime: 600, TotalDowntime: 0, Efficiency: "100.00", AttainmentPercentage: floatPtr(100)},
		{Date: "2025-03-13", PartsProduced: 5, TotalRuntime: 300, TotalDowntime: 300, Efficiency: "50.00", AttainmentPercentage: floatPtr(50)},
		{Date: "2025-03-14", PartsProduced: 8, TotalRuntime: 400, TotalDowntime: 100, Efficiency: "80.00"},
	}

	store.On("FindMetricsRange", mock.Anything, int64(1), "2025-03-08", "2025-03-14").Return(rows, nil)

	svc := newTestService(t, new(MockCycleSource), store)
	svc.now = fixedNow

	summary, err := svc.Summary(context.Background(), 1, PeriodWeek)

	require.NoError(t, err)
	assert.Equal(t, 23, summary.TotalParts)
	assert.Equal(t, 1300.0, summary.TotalRuntime)
	assert.Equal(t, 400.0, summary.TotalDowntime)
	assert.InDelta(t, 76.666, summary.AvgEfficiency, 0.001)
	// Only the two rows with a usable attainment value feed the mean.
	require.NotNil(t, summary.AvgAttainment)
	assert.Equal(t, 75.0, *summary.AvgAttainment)
	assert.Len(t, summary.Days, 3)
}

func TestSummary_EmptyWindow(t *testing.T) {
	store := new(MockMetricStore)

	store.On("FindMetricsRange", mock.Anything, int64(1), "2025-03-14", "2025-03-14").
		Return([]*storage.EfficiencyMetric{}, nil)

	svc := newTestService(t, new(MockCycleSource), store)
	svc.now = fixedNow

	_, err := svc.Summary(context.Background(), 1, PeriodDay)

	assert.ErrorIs(t, err, ErrNoData)
}

func TestSummarize_UnparseableEfficiencyContributesZero(t *testing.T) {
	// Documented rough edge: a bad stored value drags the mean down instead
	// of being excluded, unlike the attainment mean.
	rows := []*storage.EfficiencyMetric{
		{Date: "2025-03-13", Efficiency: "100.00"},
		{Date: "2025-03-14", Efficiency: "corrupt"},
	}

	summary := Summarize(PeriodWeek, "2025-03-08", "2025-03-14", rows)

	assert.Equal(t, 50.0, summary.AvgEfficiency)
}

func TestSummarize_NoUsableAttainment(t *testing.T) {
	rows := []*storage.EfficiencyMetric{
		{Date: "2025-03-13", Efficiency: "100.00"},
		{Date: "2025-03-14", Efficiency: "90.00"},
	}

	summary := Summarize(PeriodWeek, "2025-03-08", "2025-03-14", rows)

	assert.Nil(t, summary.AvgAttainment)
}

func TestSummarize_EmptyRows(t *testing.T) {
	summary := Summarize(PeriodDay, "2025-03-14", "2025-03-14", nil)

	assert.Zero(t, summary.AvgEfficiency)
	assert.Nil(t, summary.AvgAttainment)
	assert.Zero(t, summary.TotalParts)
}
