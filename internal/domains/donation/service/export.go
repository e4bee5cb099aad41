package service

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"recycle-rewards-backend/internal/domains/donation/model"
	"recycle-rewards-backend/pkg/logger"
)

const exportSheet = "Collections"

var exportHeaders = []string{
	"Request ID",
	"Completed At",
	"Donor",
	"Collector",
	"Category",
	"Estimated (kg)",
	"Actual (kg)",
	"Points",
	"District",
	"City",
}

// ExportCompleted builds the completed-collections workbook. The caller writes it out.
func (s *donationService) ExportCompleted(ctx context.Context, filter model.ExportFilter) (*excelize.File, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListCompleted(ctx, filter)
	if err != nil {
		return nil, err
	}

	f, err := buildCollectionsWorkbook(rows)
	if err != nil {
		return nil, fmt.Errorf("build collections workbook: %w", err)
	}

	logger.Info("Collections exported", map[string]interface{}{
		"rows": len(rows),
		"from": filter.From,
		"to":   filter.To,
	})
	return f, nil
}

func buildCollectionsWorkbook(rows []model.ExportRow) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, err
		}
	}

	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		_ = f.SetCellStyle(exportSheet, "A1", last, style)
	}

	var totalWeight float64
	var totalPoints int
	for i, r := range rows {
		values := []interface{}{
			r.RequestID.String(),
			r.CompletedAt.Format("2006-01-02 15:04"),
			r.DonorEmail,
			r.CollectorEmail,
			r.CategoryName,
			r.EstimatedWeight.InexactFloat64(),
			r.ActualWeight.InexactFloat64(),
			r.PointsAwarded,
			r.District,
			r.City,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, err
		}
		totalWeight += r.ActualWeight.InexactFloat64()
		totalPoints += r.PointsAwarded
	}

	// Totals row under the data
	totalRow := len(rows) + 2
	cell, _ := excelize.CoordinatesToCellName(1, totalRow)
	totals := []interface{}{"TOTAL", "", "", "", "", "", totalWeight, totalPoints}
	if err := f.SetSheetRow(exportSheet, cell, &totals); err != nil {
		return nil, err
	}

	return f, nil
}
