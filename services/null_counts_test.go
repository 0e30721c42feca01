package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dvrpc/traffic-counts-api/models"
	"github.com/dvrpc/traffic-counts-api/repository"
)

// sqlClassStore reads class rows through the real repository and everything
// else from the fake.
type sqlClassStore struct {
	*fakeStore
	repo *repository.CountRepository
}

func (s sqlClassStore) HourlyClass(ctx context.Context, num int64) ([]models.HourlyClass, error) {
	return s.repo.HourlyClass(ctx, num)
}

func TestHourlyClassNullAggregateIsValidationError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectQuery(`FROM tc_clacount_new`).
		WithArgs(int64(22)).
		WillReturnRows(sqlmock.NewRows([]string{"datetime", "total", "passenger_cars"}).
			AddRow(time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC), nil, int64(5)))

	fake := newFakeStore()
	fake.addHeader(22, "Class", models.PublishedStatus)
	store := sqlClassStore{fakeStore: fake, repo: repository.NewCountRepository(db, repository.Postgres{})}
	catalog := models.DefaultCatalog()
	reports := NewReportService(store, NewMetadataService(store, catalog), NewVariants(catalog, pdfBase))

	env, err := reports.HourlyClass(context.Background(), 22, false)
	assert.Nil(t, env)
	var validation *ValidationError
	require.True(t, errors.As(err, &validation))
	assert.Equal(t, repository.TableClass, validation.Source)
}
