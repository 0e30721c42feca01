package repository

import "fmt"

// Dialect renders the few SQL fragments that differ between database engines.
type Dialect interface {
	Name() string
	// TruncateHour truncates a timestamp column to the start of its hour.
	TruncateHour(col string) string
	// FormatDate renders the calendar day of a timestamp column as YYYY-MM-DD.
	FormatDate(col string) string
	// HourOfDay renders the hour of a timestamp column as an integer 0..23.
	HourOfDay(col string) string
}

// DialectFor returns the dialect for a configured driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "postgres", "":
		return Postgres{}, nil
	case "mysql":
		return MySQL{}, nil
	}
	return nil, fmt.Errorf("no SQL dialect for driver %q", driver)
}

type Postgres struct{}

func (Postgres) Name() string { return "postgres" }

func (Postgres) TruncateHour(col string) string {
	return fmt.Sprintf("date_trunc('hour', %s)", col)
}

func (Postgres) FormatDate(col string) string {
	return fmt.Sprintf("to_char(%s, 'YYYY-MM-DD')", col)
}

func (Postgres) HourOfDay(col string) string {
	return fmt.Sprintf("CAST(EXTRACT(HOUR FROM %s) AS INTEGER)", col)
}

type MySQL struct{}

func (MySQL) Name() string { return "mysql" }

func (MySQL) TruncateHour(col string) string {
	return fmt.Sprintf("STR_TO_DATE(DATE_FORMAT(%s, '%%Y-%%m-%%d %%H:00:00'), '%%Y-%%m-%%d %%H:%%i:%%s')", col)
}

func (MySQL) FormatDate(col string) string {
	return fmt.Sprintf("DATE_FORMAT(%s, '%%Y-%%m-%%d')", col)
}

func (MySQL) HourOfDay(col string) string {
	return fmt.Sprintf("HOUR(%s)", col)
}
