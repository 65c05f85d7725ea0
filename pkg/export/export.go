package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/jakechorley/shift-roster/pkg/core/model"
	"github.com/jakechorley/shift-roster/pkg/core/roster"
)

// Output file names written by WriteFiles
const (
	ScheduleTSVFile  = "final_schedule.tsv"
	ScheduleJSONFile = "assignments.json"
	ScheduleXLSXFile = "schedule.xlsx"
)

// Sheet names in the workbook
const (
	ScheduleSheet = "Schedule"
	HoursSheet    = "Hours"
)

// FormatHours renders hours in their shortest form ("4", "4.5")
func FormatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

// WriteTSV writes the header and one tab-separated line per record, in record order
func WriteTSV(w io.Writer, records []model.AssignmentRecord) error {
	writer := csv.NewWriter(w)
	writer.Comma = '\t'

	if err := writer.Write(model.RecordColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, r := range records {
		row := []string{r.Date, r.Weekday, r.ShiftType, r.StartTime, r.EndTime, r.EmployeeName, FormatHours(r.Hours)}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteTable writes a table as TSV, header first
func WriteTable(w io.Writer, table *roster.Table) error {
	writer := csv.NewWriter(w)
	writer.Comma = '\t'

	if err := writer.Write(table.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := writer.WriteAll(table.Rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

// WriteJSON writes the records as a JSON array keyed by the output column names
func WriteJSON(w io.Writer, records []model.AssignmentRecord) error {
	if records == nil {
		records = []model.AssignmentRecord{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	return nil
}

// WriteXLSX writes a workbook with a Schedule sheet of records and an Hours
// sheet with each employee's total, sorted by name
func WriteXLSX(w io.Writer, records []model.AssignmentRecord, ledger map[string]float64) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(ScheduleSheet)
	if err != nil {
		return fmt.Errorf("failed to create schedule sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	if _, err := f.NewSheet(HoursSheet); err != nil {
		return fmt.Errorf("failed to create hours sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]interface{}, len(model.RecordColumns))
	for i, name := range model.RecordColumns {
		header[i] = name
	}
	if err := writeRow(f, ScheduleSheet, 1, header); err != nil {
		return err
	}

	for i, r := range records {
		row := []interface{}{r.Date, r.Weekday, r.ShiftType, r.StartTime, r.EndTime, r.EmployeeName, r.Hours}
		if err := writeRow(f, ScheduleSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := writeRow(f, HoursSheet, 1, []interface{}{model.ColumnEmployeeName, model.ColumnHours}); err != nil {
		return err
	}

	names := make([]string, 0, len(ledger))
	for name := range ledger {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		if err := writeRow(f, HoursSheet, i+2, []interface{}{name, ledger[name]}); err != nil {
			return err
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(model.RecordColumns))
	f.SetCellStyle(ScheduleSheet, "A1", lastCol+"1", headerStyle)
	f.SetCellStyle(HoursSheet, "A1", "B1", headerStyle)
	f.SetColWidth(ScheduleSheet, "A", lastCol, 18)
	f.SetColWidth(HoursSheet, "A", "A", 24)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("invalid row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

// WriteFiles writes the TSV, JSON and XLSX outputs into dir and returns their paths
func WriteFiles(dir string, records []model.AssignmentRecord, ledger map[string]float64) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	writers := []struct {
		name  string
		write func(io.Writer) error
	}{
		{ScheduleTSVFile, func(w io.Writer) error { return WriteTSV(w, records) }},
		{ScheduleJSONFile, func(w io.Writer) error { return WriteJSON(w, records) }},
		{ScheduleXLSXFile, func(w io.Writer) error { return WriteXLSX(w, records, ledger) }},
	}

	paths := make([]string, 0, len(writers))
	for _, out := range writers {
		path := filepath.Join(dir, out.name)
		if err := writeFile(path, out.write); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
