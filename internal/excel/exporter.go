package excel

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/example/wordlebot/internal/wordle"
	"github.com/example/wordlebot/pkg/models"
)

// SheetName is the worksheet holding the exported results
const SheetName = "Sheet1"

// Header is the first row of the export
var Header = []interface{}{"User ID", "Game", "Date", "Solved", "Attempts", "Pattern", "Share Text", "Reported At"}

// WriteResults writes the results as an XLSX workbook to w
func WriteResults(w io.Writer, results []models.PuzzleResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(SheetName, "A1", &Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to resolve cell: %w", err)
		}

		var attempts interface{} = wordle.FailedMarker
		if r.Solved {
			attempts = r.AttemptCount()
		}

		row := []interface{}{
			r.UserID,
			r.GameNumber,
			wordle.DayOf(r.GameNumber),
			r.Solved,
			attempts,
			r.Pattern.String,
			r.ShareText,
			time.Unix(r.ReportedAt, 0).UTC().Format(time.RFC3339),
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(SheetName, "F", "G", 30); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
