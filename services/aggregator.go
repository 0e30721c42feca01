package services

import (
	"context"

	"github.com/dvrpc/traffic-counts-api/models"
)

// Aggregator buckets raw observations of a record. Every query groups and sums
// in the database; this side only reshapes.
type Aggregator struct {
	store CountStore
}

func NewAggregator(store CountStore) *Aggregator {
	return &Aggregator{store: store}
}

// Hourly returns one bucket per hour-truncated timestamp, ascending.
func (a *Aggregator) Hourly(ctx context.Context, v Variant, recordNum int64) ([]models.HourlyCount, error) {
	table, ok := v.VolumeTable()
	if !ok {
		return []models.HourlyCount{}, nil
	}
	counts, err := a.store.HourlyVolume(ctx, table, recordNum)
	if err != nil {
		return nil, asValidation(err)
	}
	return counts, nil
}

// Daily returns one 24-slot profile per calendar day, ascending.
func (a *Aggregator) Daily(ctx context.Context, v Variant, recordNum int64) ([]models.NonNormalDay, error) {
	table, ok := v.VolumeTable()
	if !ok {
		return []models.NonNormalDay{}, nil
	}
	rows, err := a.store.HourOfDayVolume(ctx, table, recordNum)
	if err != nil {
		return nil, asValidation(err)
	}
	return ReshapeDays(rows), nil
}

// Class returns the per-class breakdown per hour, ascending. Passenger cars
// are passed through unchanged even though they include unclassified vehicles.
func (a *Aggregator) Class(ctx context.Context, v Variant, recordNum int64) ([]models.HourlyClass, error) {
	if !v.HasClasses() {
		return nil, ErrNotClassCount
	}
	counts, err := a.store.HourlyClass(ctx, recordNum)
	if err != nil {
		return nil, asValidation(err)
	}
	return counts, nil
}

// ReshapeDays folds (day, hour, volume) rows into one profile per day. Rows
// must be ordered by day; hours outside 0..23 are ignored.
func ReshapeDays(rows []models.HourVolume) []models.NonNormalDay {
	days := make([]models.NonNormalDay, 0)
	for _, r := range rows {
		n := len(days)
		if n == 0 || days[n-1].Date.Key() != r.Date.Key() {
			days = append(days, models.NonNormalDay{Date: r.Date})
			n++
		}
		days[n-1].Set(r.Hour, r.Volume)
	}
	for i := range days {
		days[i].ComputeTotal()
	}
	return days
}
