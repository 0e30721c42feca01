// Package report renders count envelopes as downloadable files.
package report

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/dvrpc/traffic-counts-api/models"
)

// Labels of the sections between metadata and counts.
const (
	SuppressedDatesLabel = "suppressed_dates:"
	StaticPDFLabel       = "static_pdf:"
)

// Rows lays an envelope out as a sheet: metadata header and values, a blank
// row, the suppressed dates, the static document if any, a blank row, then the
// count header and one row per bucket. Class reports end with the
// unclassified vehicle note under the last column.
func Rows(t models.Tabular) [][]any {
	md := t.Meta()
	if md == nil {
		md = &models.Metadata{}
	}
	cols := md.Columns()
	header := make([]any, len(cols))
	values := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c.Name
		values[i] = c.Value
	}

	rows := [][]any{header, values, {}, {SuppressedDatesLabel}}
	for _, d := range t.Suppressed() {
		rows = append(rows, []any{d})
	}
	if pdf := t.PDF(); pdf != nil {
		rows = append(rows, []any{StaticPDFLabel}, []any{*pdf})
	}
	rows = append(rows, []any{})

	countHeader := t.CountHeader()
	names := make([]any, len(countHeader))
	for i, n := range countHeader {
		names[i] = n
	}
	rows = append(rows, names)

	for _, r := range t.Rows() {
		rc := r.Columns()
		line := make([]any, len(rc))
		for i, c := range rc {
			line[i] = c.Value
		}
		rows = append(rows, line)
	}

	if t.ReportKind() == models.ReportClass && len(countHeader) > 0 {
		note := make([]any, len(countHeader))
		for i := range note {
			note[i] = ""
		}
		note[len(note)-1] = models.ClassNote
		rows = append(rows, []any{}, note)
	}
	return rows
}

// deref unwraps pointers; nil pointers become nil.
func deref(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	return rv.Interface()
}

// FormatValue renders one cell as text. Missing values are empty.
func FormatValue(v any) string {
	switch x := deref(v).(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
