package services

import (
	"context"
	"time"

	"github.com/dvrpc/traffic-counts-api/models"
)

// CountStore is the read side of the traffic count database.
// *repository.CountRepository satisfies it.
type CountStore interface {
	RecordNumbers(ctx context.Context, subKinds []string) ([]int64, error)
	Header(ctx context.Context, recordNum int64) (*models.Metadata, error)
	Municipality(ctx context.Context, mcd string) (*models.Municipality, error)
	HourlyVolume(ctx context.Context, table string, recordNum int64) ([]models.HourlyCount, error)
	HourOfDayVolume(ctx context.Context, table string, recordNum int64) ([]models.HourVolume, error)
	HourlyClass(ctx context.Context, recordNum int64) ([]models.HourlyClass, error)
	SuppressedDates(ctx context.Context, recordNum int64) ([]models.Date, error)
	LatestRecalculation(ctx context.Context, recordNum int64) (time.Time, error)
}
