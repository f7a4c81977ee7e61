package report

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"floor-metrics/internal/service/metrics"
	"floor-metrics/internal/storage"
)

type ReportStorage interface {
	GetUnit(ctx context.Context, id int64) (*storage.Unit, error)
	FindMetricsRange(ctx context.Context, unitID int64, from, to string) ([]*storage.EfficiencyMetric, error)
}

type ExcelService struct {
	storage ReportStorage
	now     func() time.Time
}

func NewExcelService(storage ReportStorage) *ExcelService {
	return &ExcelService{storage: storage, now: time.Now}
}

// PeriodReport renders a unit's period summary as an xlsx workbook: one row
// per stored day plus a totals row.
func (s *ExcelService) PeriodReport(ctx context.Context, unitID int64, period string) ([]byte, error) {
	const op = "service.report.PeriodReport"

	from, to, err := metrics.PeriodWindow(s.now(), period)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var (
		unit *storage.Unit
		rows []*storage.EfficiencyMetric
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		unit, err = s.storage.GetUnit(gCtx, unitID)
		if err != nil {
			return fmt.Errorf("unit: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		rows, err = s.storage.FindMetricsRange(gCtx, unitID, from, to)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: unit %d, %s..%s: %w", op, unitID, from, to, metrics.ErrNoData)
	}

	summary := metrics.Summarize(period, from, to, rows)

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Efficiency"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})

	headers := []string{"Date", "Parts", "Runtime (s)", "Downtime (min)", "Efficiency %", "Attainment %"}
	for i, name := range headers {
		f.SetCellValue(sheet, cellName(i+1, 1), name)
	}
	f.SetCellStyle(sheet, "A1", cellName(len(headers), 1), headerStyle)

	for i, row := range summary.Days {
		rowNum := i + 2
		f.SetCellValue(sheet, cellName(1, rowNum), row.Date)
		f.SetCellValue(sheet, cellName(2, rowNum), row.PartsProduced)
		f.SetCellValue(sheet, cellName(3, rowNum), row.TotalRuntime)
		f.SetCellValue(sheet, cellName(4, rowNum), row.DowntimeMinutes)
		f.SetCellValue(sheet, cellName(5, rowNum), row.Efficiency)
		if row.AttainmentPercentage != nil {
			f.SetCellValue(sheet, cellName(6, rowNum), metrics.FormatPercent(*row.AttainmentPercentage))
		}
	}

	totalsRow := len(summary.Days) + 3
	f.SetCellValue(sheet, cellName(1, totalsRow), fmt.Sprintf("%s (%s)", unit.Name, period))
	f.SetCellValue(sheet, cellName(2, totalsRow), summary.TotalParts)
	f.SetCellValue(sheet, cellName(3, totalsRow), summary.TotalRuntime)
	f.SetCellValue(sheet, cellName(4, totalsRow), int(math.Round(summary.TotalDowntime/60)))
	f.SetCellValue(sheet, cellName(5, totalsRow), metrics.FormatPercent(summary.AvgEfficiency))
	if summary.AvgAttainment != nil {
		f.SetCellValue(sheet, cellName(6, totalsRow), metrics.FormatPercent(*summary.AvgAttainment))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
