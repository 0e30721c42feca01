package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvrpc/traffic-counts-api/config"
	"github.com/dvrpc/traffic-counts-api/filecache"
	"github.com/dvrpc/traffic-counts-api/models"
	"github.com/dvrpc/traffic-counts-api/report"
	"github.com/dvrpc/traffic-counts-api/services"
)

type stubBuilder struct {
	kind    models.ReportKind
	include bool
	err     error
}

func (s *stubBuilder) Build(_ context.Context, kind models.ReportKind, id int64, include bool) (models.Tabular, error) {
	s.kind, s.include = kind, include
	if s.err != nil {
		return nil, s.err
	}
	env := models.NewEnvelope[models.HourlyCount](kind, &models.Metadata{RecordNum: id})
	env.Counts = []models.HourlyCount{{
		DateTime: models.NewDateTime(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)),
		Volume:   20,
	}}
	return env, nil
}

type stubLookup struct {
	nums []int64
	err  error
}

func (s stubLookup) Resolve(_ context.Context, id int64) (*models.Metadata, error) {
	if s.err != nil {
		return nil, s.err
	}
	road := "Market St"
	return &models.Metadata{RecordNum: id, Road: &road}, nil
}

func (s stubLookup) RecordNumbers(context.Context, string, string) ([]int64, error) {
	return s.nums, s.err
}

func TestRunExportCSV(t *testing.T) {
	b := &stubBuilder{}
	var out bytes.Buffer
	opts := exportOptions{report: "class", format: "csv", includeSuppressed: true}

	require.NoError(t, runExport(context.Background(), b, 12, opts, &out))
	assert.Equal(t, models.ReportClass, b.kind)
	assert.True(t, b.include)
	assert.Contains(t, out.String(), "2024-01-01T09:00:00,20")
}

func TestRunExportXLSX(t *testing.T) {
	var out bytes.Buffer
	opts := exportOptions{report: "hourly", format: "xlsx"}
	require.NoError(t, runExport(context.Background(), &stubBuilder{}, 12, opts, &out))
	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("PK")))
}

func TestRunExportRejectsInput(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, runExport(context.Background(), &stubBuilder{}, 1, exportOptions{report: "weekly", format: "csv"}, &out))
	assert.Error(t, runExport(context.Background(), &stubBuilder{}, 1, exportOptions{report: "hourly", format: "pdf"}, &out))

	err := runExport(context.Background(), &stubBuilder{err: services.ErrNotPublished}, 1, exportOptions{report: "hourly", format: "csv"}, &out)
	assert.ErrorIs(t, err, services.ErrNotPublished)
	assert.Empty(t, out.String())
}

func TestPrintRecords(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printRecords(context.Background(), stubLookup{nums: []int64{30, 20, 10}}, "", "", &out))
	assert.Equal(t, "30\n20\n10\n", out.String())

	sentinel := &services.FilterError{Param: "count_type", Value: "boat"}
	err := printRecords(context.Background(), stubLookup{err: sentinel}, "boat", "", &out)
	var fe *services.FilterError
	assert.True(t, errors.As(err, &fe))
}

func TestNewFileStore(t *testing.T) {
	ctx := context.Background()

	store, err := newFileStore(ctx, config.AppConfig{StorageBackend: "dir", StorageDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &filecache.DirStore{}, store)

	_, err = newFileStore(ctx, config.AppConfig{StorageBackend: "s3"})
	assert.Error(t, err)

	_, err = newFileStore(ctx, config.AppConfig{StorageBackend: "ftp"})
	assert.Error(t, err)
}

func TestCountTypeUsage(t *testing.T) {
	usage := countTypeUsage(models.DefaultCatalog())
	assert.Equal(t, `filter by count type: "bicycle", "count data not in database", "pedestrian", "vehicle"`, usage)

	f := recordsCmd.Flags().Lookup("count-type")
	require.NotNil(t, f)
	assert.Equal(t, usage, f.Usage)
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["export"])
	assert.True(t, names["records"])
	assert.True(t, names["show"])

	f := exportCmd.Flags().Lookup("format")
	require.NotNil(t, f)
	assert.Equal(t, string(report.FormatCSV), f.DefValue)
}

func TestShowRecord(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, showRecord(context.Background(), stubLookup{}, 77, &out))
	assert.Contains(t, out.String(), "record_num")
	assert.Contains(t, out.String(), "77")
	assert.Contains(t, out.String(), "Market St")
	assert.NotContains(t, out.String(), "latitude")

	err := showRecord(context.Background(), stubLookup{err: services.ErrNotFound}, 78, &out)
	assert.ErrorIs(t, err, services.ErrNotFound)
}
