package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/dvrpc/traffic-counts-api/models"
)

// Raw observation tables.
const (
	TableVehicleVolume = "tc_volcount_new"
	TableBicycle       = "tc_bikecount_new"
	TablePedestrian    = "tc_pedcount_new"
	TableClass         = "tc_clacount_new"
)

var volumeTables = map[string]bool{
	TableVehicleVolume: true,
	TableBicycle:       true,
	TablePedestrian:    true,
}

// ErrNoRows is returned when a single-row lookup matches nothing.
var ErrNoRows = errors.New("no rows")

// CountRepository runs the read-only queries against the traffic count schema.
type CountRepository struct {
	db      *gorm.DB
	dialect Dialect
}

func NewCountRepository(db *gorm.DB, dialect Dialect) *CountRepository {
	return &CountRepository{db: db, dialect: dialect}
}

func (r *CountRepository) rows(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	var out []map[string]any
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// RecordNumbers lists record numbers in descending order. An empty subKinds
// returns every record.
func (r *CountRepository) RecordNumbers(ctx context.Context, subKinds []string) ([]int64, error) {
	q := r.db.WithContext(ctx).Table("tc_header").Select("recordnum")
	if len(subKinds) > 0 {
		q = q.Where("type IN ?", subKinds)
	}

	var nums []int64
	if err := q.Order("recordnum DESC").Pluck("recordnum", &nums).Error; err != nil {
		return nil, fmt.Errorf("list record numbers: %w", err)
	}
	if nums == nil {
		nums = []int64{}
	}
	return nums, nil
}

// Header returns the tc_header row of a record, or ErrNoRows.
func (r *CountRepository) Header(ctx context.Context, recordNum int64) (*models.Metadata, error) {
	rows, err := r.rows(ctx, "SELECT * FROM tc_header WHERE recordnum = ?", recordNum)
	if err != nil {
		return nil, fmt.Errorf("query header %d: %w", recordNum, err)
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	var md models.Metadata
	if err := decodeRow("tc_header", rows[0], &md); err != nil {
		return nil, err
	}
	return &md, nil
}

// Municipality looks up the display names of a municipality code, or ErrNoRows.
func (r *CountRepository) Municipality(ctx context.Context, mcd string) (*models.Municipality, error) {
	rows, err := r.rows(ctx, "SELECT mcdname, county, state FROM tc_mcd WHERE dvrpc = ?", mcd)
	if err != nil {
		return nil, fmt.Errorf("query municipality %s: %w", mcd, err)
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	var m models.Municipality
	if err := decodeRow("tc_mcd", rows[0], &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// HourlyVolume sums the volume of a record per hour-truncated timestamp, in
// ascending order.
func (r *CountRepository) HourlyVolume(ctx context.Context, table string, recordNum int64) ([]models.HourlyCount, error) {
	if !volumeTables[table] {
		return nil, fmt.Errorf("unknown volume table %q", table)
	}
	hour := r.dialect.TruncateHour("countdatetime")
	query := fmt.Sprintf(
		"SELECT %[1]s AS datetime, SUM(volume) AS volume FROM %[2]s WHERE recordnum = ? GROUP BY %[1]s ORDER BY %[1]s",
		hour, table,
	)

	rows, err := r.rows(ctx, query, recordNum)
	if err != nil {
		return nil, fmt.Errorf("query hourly volume %d: %w", recordNum, err)
	}
	return decodeRows[models.HourlyCount](table, rows)
}

// HourOfDayVolume sums the volume of a record per (day, hour of day), ordered
// by day then hour.
func (r *CountRepository) HourOfDayVolume(ctx context.Context, table string, recordNum int64) ([]models.HourVolume, error) {
	if !volumeTables[table] {
		return nil, fmt.Errorf("unknown volume table %q", table)
	}
	day := r.dialect.FormatDate("countdatetime")
	hour := r.dialect.HourOfDay("countdatetime")
	query := fmt.Sprintf(
		"SELECT %[1]s AS date, %[2]s AS hour, SUM(volume) AS volume FROM %[3]s WHERE recordnum = ? GROUP BY %[1]s, %[2]s ORDER BY %[1]s, %[2]s",
		day, hour, table,
	)

	rows, err := r.rows(ctx, query, recordNum)
	if err != nil {
		return nil, fmt.Errorf("query hour-of-day volume %d: %w", recordNum, err)
	}
	return decodeRows[models.HourVolume](table, rows)
}

// classColumns maps stored class columns onto their API names.
var classColumns = []struct{ column, alias string }{
	{"total", "total"},
	{"bikes", "motorcycles"},
	{"cars_and_tlrs", "passenger_cars"},
	{"ax2_long", "other_four_tire_single_unit_vehicles"},
	{"buses", "buses"},
	{"ax2_6_tire", "two_axle_six_tire_single_unit_trucks"},
	{"ax3_single", "three_axle_single_unit_trucks"},
	{"ax4_single", "four_or_more_axle_single_unit_trucks"},
	{"lt_5_ax_double", "four_or_fewer_axle_single_trailer_trucks"},
	{"ax5_double", "five_axle_single_trailer_trucks"},
	{"gt_5_ax_double", "six_or_more_axle_single_trailer_trucks"},
	{"lt_6_ax_multi", "five_or_fewer_axle_multi_trailer_trucks"},
	{"ax6_multi", "six_axle_multi_trailer_trucks"},
	{"gt_6_ax_multi", "seven_or_more_axle_multi_trailer_trucks"},
	{"unclassified", "unclassified_vehicle"},
}

// HourlyClass sums each vehicle class of a record per hour-truncated
// timestamp, in ascending order.
func (r *CountRepository) HourlyClass(ctx context.Context, recordNum int64) ([]models.HourlyClass, error) {
	hour := r.dialect.TruncateHour("countdatetime")
	query := "SELECT " + hour + " AS datetime"
	for _, c := range classColumns {
		query += fmt.Sprintf(", SUM(%s) AS %s", c.column, c.alias)
	}
	query += fmt.Sprintf(" FROM %s WHERE recordnum = ? GROUP BY %s ORDER BY %s", TableClass, hour, hour)

	rows, err := r.rows(ctx, query, recordNum)
	if err != nil {
		return nil, fmt.Errorf("query hourly class %d: %w", recordNum, err)
	}
	return decodeRows[models.HourlyClass](TableClass, rows)
}

// SuppressedDates returns the distinct dates flagged for a record, ascending.
func (r *CountRepository) SuppressedDates(ctx context.Context, recordNum int64) ([]models.Date, error) {
	rows, err := r.rows(ctx,
		"SELECT DISTINCT suppressed_date FROM tc_suppressed_dates WHERE recordnum = ? ORDER BY suppressed_date",
		recordNum,
	)
	if err != nil {
		return nil, fmt.Errorf("query suppressed dates %d: %w", recordNum, err)
	}

	type suppressed struct {
		Date models.Date `mapstructure:"suppressed_date"`
	}
	decoded, err := decodeRows[suppressed]("tc_suppressed_dates", rows)
	if err != nil {
		return nil, err
	}
	dates := make([]models.Date, len(decoded))
	for i, d := range decoded {
		dates[i] = d.Date
	}
	return dates, nil
}

// LatestRecalculation returns when the aggregates of a record were last
// computed, or ErrNoRows.
func (r *CountRepository) LatestRecalculation(ctx context.Context, recordNum int64) (time.Time, error) {
	rows, err := r.rows(ctx,
		"SELECT date_calculated FROM aadv WHERE recordnum = ? ORDER BY date_calculated DESC LIMIT 1",
		recordNum,
	)
	if err != nil {
		return time.Time{}, fmt.Errorf("query aadv date %d: %w", recordNum, err)
	}
	if len(rows) == 0 {
		return time.Time{}, ErrNoRows
	}

	var out struct {
		Calculated time.Time `mapstructure:"date_calculated"`
	}
	if err := decodeRow("aadv", rows[0], &out); err != nil {
		return time.Time{}, err
	}
	return out.Calculated, nil
}

// Ping checks the connection.
func (r *CountRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
