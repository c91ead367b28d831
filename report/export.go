package report

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"hadirin.app/hadirin/attendance/core"
	"hadirin.app/hadirin/attendance/model"
	"hadirin.app/hadirin/utils"
)

const sheetName = "Attendance"

// Exporter renders one employee's attendance month as an xlsx workbook for
// HR. Read-only over the repository.
type Exporter struct {
	repo core.Repository
}

func NewExporter(repo core.Repository) *Exporter {
	return &Exporter{repo: repo}
}

type row struct {
	date     string
	checkIn  string
	checkOut string
	selfie   string
}

func (e *Exporter) MonthlyWorkbook(ctx context.Context, userID, yearMonth string) (*excelize.File, error) {
	recs, err := e.repo.ListMonth(ctx, userID, yearMonth)
	if err != nil {
		return nil, err
	}

	rows := utils.Map(recs, func(rec model.AttendanceRecord) row {
		out := "-"
		if rec.CheckOut != nil {
			out = *rec.CheckOut
		}
		return row{date: string(rec.Date), checkIn: rec.CheckIn, checkOut: out, selfie: rec.SelfieURL}
	})

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := []interface{}{"Date", "Check-in", "Check-out", "Selfie"}
	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	for i, r := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		values := []interface{}{r.date, r.checkIn, r.checkOut, r.selfie}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	return f, nil
}
