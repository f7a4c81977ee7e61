package mysql

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floor-metrics/internal/storage"
)

var testStorage *Storage

// Integration tests run against a local MySQL; without one they are skipped.
func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		dsn = "root:@tcp(localhost:3306)/floor_test?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err == nil {
		if db.Ping() == nil {
			testStorage = &Storage{db: db}
		} else {
			_ = db.Close()
		}
	}

	code := m.Run()

	if testStorage != nil {
		_ = db.Close()
	}

	os.Exit(code)
}

func requireDB(t *testing.T) {
	t.Helper()
	if testStorage == nil {
		t.Skip("test database not available")
	}
}

func TestUpsertMetric_OneRowPerUnitAndDate(t *testing.T) {
	requireDB(t)

	ctx := context.Background()
	unitID := int64(900001)
	date := "2025-03-14"

	t.Cleanup(func() {
		_, _ = testStorage.db.Exec("DELETE FROM efficiency_metrics WHERE unit_id = ?", unitID)
	})

	att := 50.0
	metric := &storage.EfficiencyMetric{
		UnitID:               unitID,
		Date:                 date,
		TotalRuntime:         300,
		TotalDowntime:        300,
		PartsProduced:        5,
		Efficiency:           "50.00",
		AttainmentPercentage: &att,
		TargetCount:          "10",
		ActualCount:          "5",
		DowntimeMinutes:      5,
	}

	first, err := testStorage.UpsertMetric(ctx, metric)
	require.NoError(t, err)

	// Second write for the same key must update in place, not insert.
	metric.PartsProduced = 8
	metric.ActualCount = "8"
	second, err := testStorage.UpsertMetric(ctx, metric)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 8, second.PartsProduced)

	var count int
	err = testStorage.db.QueryRow(
		"SELECT COUNT(*) FROM efficiency_metrics WHERE unit_id = ? AND date = ?", unitID, date,
	).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFindMetric_MissingRowIsNil(t *testing.T) {
	requireDB(t)

	metric, err := testStorage.FindMetric(context.Background(), 900002, "1999-01-01")

	require.NoError(t, err)
	assert.Nil(t, metric)
}

func TestFindClosedCycles_ExcludesOpenCycles(t *testing.T) {
	requireDB(t)

	ctx := context.Background()
	unitID := int64(900003)

	t.Cleanup(func() {
		_, _ = testStorage.db.Exec("DELETE FROM cycle_records WHERE unit_id = ?", unitID)
	})

	dayStart := time.Date(2025, 3, 14, 0, 0, 0, 0, time.Local)
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Millisecond)

	endTime := dayStart.Add(10 * time.Hour)
	runtime := 600.0

	closed := storage.CycleRecord{
		UnitID:          unitID,
		StartTime:       endTime.Add(-10 * time.Minute),
		EndTime:         &endTime,
		PartsProduced:   10,
		ActualCycleTime: &runtime,
		Annotation:      "target:10",
	}
	open := storage.CycleRecord{
		UnitID:        unitID,
		StartTime:     dayStart.Add(12 * time.Hour),
		PartsProduced: 3,
	}

	_, err := testStorage.SaveCycle(ctx, closed)
	require.NoError(t, err)
	_, err = testStorage.SaveCycle(ctx, open)
	require.NoError(t, err)

	cycles, err := testStorage.FindClosedCycles(ctx, unitID, dayStart, dayEnd)
	require.NoError(t, err)

	require.Len(t, cycles, 1)
	assert.Equal(t, 10, cycles[0].PartsProduced)
	require.NotNil(t, cycles[0].EndTime)
}
