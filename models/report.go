package models

import "fmt"

// ReportKind names one of the count reports served for a record.
type ReportKind string

const (
	ReportHourly    ReportKind = "hourly"
	ReportNonNormal ReportKind = "non-normal"
	ReportClass     ReportKind = "class"
)

// ParseReportKind validates a report name.
func ParseReportKind(s string) (ReportKind, error) {
	switch k := ReportKind(s); k {
	case ReportHourly, ReportNonNormal, ReportClass:
		return k, nil
	}
	return "", fmt.Errorf("unknown report %q", s)
}

// Tabular is the format-neutral view of an envelope used by file renderers.
type Tabular interface {
	ReportKind() ReportKind
	Meta() *Metadata
	PDF() *string
	Suppressed() []Date
	Rows() []Row
	CountHeader() []string
}

// Envelope is the response of every count endpoint. StaticPDF is set only for
// counts whose data is kept outside the database.
type Envelope[T Row] struct {
	Kind            ReportKind `json:"-"`
	Metadata        *Metadata  `json:"metadata"`
	StaticPDF       *string    `json:"static_pdf"`
	SuppressedDates []Date     `json:"suppressed_dates"`
	Counts          []T        `json:"counts"`
}

// NewEnvelope returns an envelope with empty, non-nil lists.
func NewEnvelope[T Row](kind ReportKind, md *Metadata) *Envelope[T] {
	return &Envelope[T]{
		Kind:            kind,
		Metadata:        md,
		SuppressedDates: []Date{},
		Counts:          []T{},
	}
}

func (e *Envelope[T]) ReportKind() ReportKind { return e.Kind }
func (e *Envelope[T]) Meta() *Metadata        { return e.Metadata }
func (e *Envelope[T]) PDF() *string           { return e.StaticPDF }
func (e *Envelope[T]) Suppressed() []Date     { return e.SuppressedDates }

// Rows returns the counts as tabular rows, in order.
func (e *Envelope[T]) Rows() []Row {
	rows := make([]Row, len(e.Counts))
	for i, c := range e.Counts {
		rows[i] = c
	}
	return rows
}

// CountHeader returns the column names of T, available even with no counts.
func (e *Envelope[T]) CountHeader() []string {
	var zero T
	cols := zero.Columns()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}
