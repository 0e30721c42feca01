package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/dvrpc/traffic-counts-api/models"
)

// Format is a file type a report can be rendered to.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

func (f Format) Extension() string { return "." + string(f) }

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Render writes t to w in format f.
func Render(w io.Writer, f Format, t models.Tabular) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, t)
	case FormatXLSX:
		return WriteXLSX(w, t)
	}
	return fmt.Errorf("unknown format %q", f)
}

// WriteCSV writes t as comma separated UTF-8 text.
func WriteCSV(w io.Writer, t models.Tabular) error {
	cw := csv.NewWriter(w)
	for _, row := range Rows(t) {
		record := make([]string, len(row))
		for i, cell := range row {
			record[i] = FormatValue(cell)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes t as a single-sheet workbook named after the report.
func WriteXLSX(w io.Writer, t models.Tabular) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := string(t.ReportKind())
	if sheet == "" {
		sheet = "report"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	for i, row := range Rows(t) {
		if len(row) == 0 {
			continue
		}
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cellValue(cell)
		}
		start, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, start, &cells); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}

// cellValue keeps numbers numeric and renders everything else as text.
func cellValue(v any) interface{} {
	switch x := deref(v).(type) {
	case nil:
		return nil
	case int64, int, float64, bool:
		return x
	default:
		return FormatValue(x)
	}
}
