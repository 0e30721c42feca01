package controllers

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvrpc/traffic-counts-api/filecache"
	"github.com/dvrpc/traffic-counts-api/models"
	"github.com/dvrpc/traffic-counts-api/report"
	"github.com/dvrpc/traffic-counts-api/repository"
	"github.com/dvrpc/traffic-counts-api/services"
	"github.com/dvrpc/traffic-counts-api/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.SetRedis(nil)
}

type buildCall struct {
	kind    models.ReportKind
	id      int64
	include bool
}

type fakeReports struct {
	err    error
	calls  []buildCall
	recalc models.Date
}

func (f *fakeReports) Build(_ context.Context, kind models.ReportKind, id int64, include bool) (models.Tabular, error) {
	f.calls = append(f.calls, buildCall{kind, id, include})
	if f.err != nil {
		return nil, f.err
	}
	road := "Market St"
	env := models.NewEnvelope[models.HourlyCount](kind, &models.Metadata{RecordNum: id, Road: &road})
	env.Counts = []models.HourlyCount{{
		DateTime: models.NewDateTime(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)),
		Volume:   15,
	}}
	return env, nil
}

func (f *fakeReports) LatestRecalculation(context.Context, int64) (models.Date, error) {
	return f.recalc, nil
}

type fakeRecords struct {
	md    *models.Metadata
	nums  []int64
	err   error
	count string
	sub   string
}

func (f *fakeRecords) Resolve(_ context.Context, id int64) (*models.Metadata, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.md, nil
}

func (f *fakeRecords) RecordNumbers(_ context.Context, countKind, subKind string) ([]int64, error) {
	f.count, f.sub = countKind, subKind
	return f.nums, f.err
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func countsRouter(t *testing.T, reports *fakeReports) (*gin.Engine, string) {
	t.Helper()
	dir := t.TempDir()
	files := filecache.New(filecache.NewDirStore(dir), reports, nil)
	c := NewCountsController(reports, files, time.Minute, nil)

	r := gin.New()
	r.GET("/volume/hourly/:id", c.Report(models.ReportHourly))
	r.GET("/volume/hourly/csv/:id", c.File(models.ReportHourly, report.FormatCSV))
	r.GET("/volume/hourly/xlsx/:id", c.File(models.ReportHourly, report.FormatXLSX))
	r.GET("/class/hourly/:id", c.Report(models.ReportClass))
	return r, dir
}

func request(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body utils.MessageBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Message
}

func TestReportJSON(t *testing.T) {
	reports := &fakeReports{}
	r, _ := countsRouter(t, reports)

	w := request(r, "/volume/hourly/101?include_suppressed=true")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "metadata")
	assert.Contains(t, body, "static_pdf")
	assert.Equal(t, []any{}, body["suppressed_dates"])
	counts := body["counts"].([]any)
	require.Len(t, counts, 1)
	assert.Equal(t, "2024-01-01T08:00:00", counts[0].(map[string]any)["datetime"])

	require.Len(t, reports.calls, 1)
	assert.Equal(t, buildCall{models.ReportHourly, 101, true}, reports.calls[0])
}

func TestReportBadParams(t *testing.T) {
	reports := &fakeReports{}
	r, _ := countsRouter(t, reports)

	w := request(r, "/volume/hourly/abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, badRecordIDMessage, message(t, w))

	w = request(r, "/volume/hourly/1?include_suppressed=maybe")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, badIncludeMessage, message(t, w))

	assert.Empty(t, reports.calls)
}

func TestReportErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"not found", services.ErrNotFound, http.StatusNotFound, utils.NotFoundMessage},
		{"not published", services.ErrNotPublished, http.StatusForbidden, utils.NotPublishedMessage},
		{"not class", services.ErrNotClassCount, http.StatusBadRequest, notClassCountMessage},
		{"validation", &services.ValidationError{Source: "tc_header", Err: errors.New("bad")}, http.StatusInternalServerError, utils.ValidationMessage},
		{"unknown", errors.New("connection refused"), http.StatusInternalServerError, utils.UnknownErrorMessage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := countsRouter(t, &fakeReports{err: tc.err})
			w := request(r, "/class/hourly/7")
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.msg, message(t, w))
			assert.NotContains(t, w.Body.String(), "connection refused")
		})
	}
}

func TestReportJSONCachedInRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	utils.SetRedis(client)
	t.Cleanup(func() {
		utils.SetRedis(nil)
		_ = client.Close()
	})

	reports := &fakeReports{}
	r, _ := countsRouter(t, reports)

	first := request(r, "/volume/hourly/101")
	second := request(r, "/volume/hourly/101")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Len(t, reports.calls, 1)
	assert.True(t, mr.Exists(utils.CacheKey("report", "hourly", "101", "false")))

	request(r, "/volume/hourly/101?include_suppressed=1")
	assert.Len(t, reports.calls, 2)
}

func TestFileCSV(t *testing.T) {
	reports := &fakeReports{recalc: models.NewDate(time.Now().AddDate(0, 0, -1))}
	r, dir := countsRouter(t, reports)

	w := request(r, "/volume/hourly/csv/101")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="hourly_101.csv"`)

	cr := csv.NewReader(strings.NewReader(w.Body.String()))
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-01T08:00:00", "15"}, records[len(records)-1])

	stored, err := filecache.NewDirStore(dir).Get(context.Background(), "hourly/101.csv")
	require.NoError(t, err)
	assert.Equal(t, w.Body.Bytes(), stored)

	again := request(r, "/volume/hourly/csv/101")
	assert.Equal(t, w.Body.String(), again.Body.String())
	assert.Len(t, reports.calls, 1)
}

func TestFileSuppressedVariantIsSeparate(t *testing.T) {
	reports := &fakeReports{recalc: models.NewDate(time.Now().AddDate(0, 0, -1))}
	r, _ := countsRouter(t, reports)

	request(r, "/volume/hourly/csv/5")
	w := request(r, "/volume/hourly/csv/5?include_suppressed=true")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "hourly_5_suppressed.csv")
	assert.Len(t, reports.calls, 2)
}

func TestFileXLSX(t *testing.T) {
	r, _ := countsRouter(t, &fakeReports{})
	w := request(r, "/volume/hourly/xlsx/3")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, report.FormatXLSX.ContentType(), w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "PK"))
}

func TestFileErrorsNotCached(t *testing.T) {
	reports := &fakeReports{err: services.ErrNotPublished}
	r, dir := countsRouter(t, reports)

	w := request(r, "/volume/hourly/csv/9")
	assert.Equal(t, http.StatusForbidden, w.Code)
	_, err := filecache.NewDirStore(dir).ModTime(context.Background(), "hourly/9.csv")
	assert.ErrorIs(t, err, filecache.ErrNotExist)
}

func TestListRecords(t *testing.T) {
	records := &fakeRecords{nums: []int64{3, 2, 1}}
	c := NewRecordsController(records, 0, nil)
	r := gin.New()
	r.GET("/records", c.ListRecords)

	w := request(r, "/records?count_type=bicycle")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[3,2,1]`, w.Body.String())
	assert.Equal(t, "bicycle", records.count)
	assert.Empty(t, records.sub)
}

func TestListRecordsBadFilter(t *testing.T) {
	records := &fakeRecords{err: &services.FilterError{Param: "sub_type", Value: "Bicycle 9"}}
	c := NewRecordsController(records, 0, nil)
	r := gin.New()
	r.GET("/records", c.ListRecords)

	w := request(r, "/records?sub_type=Bicycle+9")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, `Invalid sub_type: "Bicycle 9".`, message(t, w))
}

func TestGetRecord(t *testing.T) {
	road := "Market St"
	records := &fakeRecords{md: &models.Metadata{RecordNum: 42, Road: &road}}
	c := NewRecordsController(records, 0, nil)
	r := gin.New()
	r.GET("/records/:id", c.GetRecord)

	w := request(r, "/records/42")
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 42, body["record_num"])
	assert.Equal(t, "Market St", body["road"])

	records.err = services.ErrNotFound
	w = request(r, "/records/43")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	r := gin.New()
	r.GET("/ok", NewHealthController(fakePinger{}, nil).Health)
	r.GET("/down", NewHealthController(fakePinger{err: repository.ErrNoRows}, nil).Health)

	assert.Equal(t, http.StatusOK, request(r, "/ok").Code)
	assert.Equal(t, http.StatusServiceUnavailable, request(r, "/down").Code)
}
