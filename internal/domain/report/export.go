package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Reports"

var exportHeader = []interface{}{"Report ID", "Patient", "Patient ID", "Test", "Date", "Score", "Status"}

// WriteXLSX writes reports as a single-sheet workbook. Unscored reports get
// an empty score cell.
func WriteXLSX(w io.Writer, reports []*Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range reports {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		var score interface{}
		if r.Score > 0 {
			score = r.Score
		}
		row := []interface{}{r.ID, r.PatientName, r.PatientID, r.TestName, r.Date, score, string(r.Status)}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %s: %w", r.ID, err)
		}
	}
	if err := f.SetColWidth(exportSheet, "A", "G", 20); err != nil {
		return err
	}
	return f.Write(w)
}
