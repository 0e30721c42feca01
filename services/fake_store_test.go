package services

import (
	"context"
	"sort"
	"time"

	"github.com/dvrpc/traffic-counts-api/models"
	"github.com/dvrpc/traffic-counts-api/repository"
)

type observation struct {
	at     time.Time
	volume int64
}

// fakeStore keeps raw observations in memory and buckets them the way the
// SQL queries do.
type fakeStore struct {
	headers        map[int64]*models.Metadata
	municipalities map[string]*models.Municipality
	observations   map[string]map[int64][]observation
	classes        map[int64][]models.HourlyClass
	suppressed     map[int64][]models.Date
	recalculated   map[int64]time.Time

	headerErr error
	countErr  error

	countQueries int
	lastFilter   []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		headers:        map[int64]*models.Metadata{},
		municipalities: map[string]*models.Municipality{},
		observations:   map[string]map[int64][]observation{},
		classes:        map[int64][]models.HourlyClass{},
		suppressed:     map[int64][]models.Date{},
		recalculated:   map[int64]time.Time{},
	}
}

func (f *fakeStore) addHeader(num int64, subKind, status string) *models.Metadata {
	md := &models.Metadata{RecordNum: num, SubKind: ptr(subKind), Status: ptr(status)}
	f.headers[num] = md
	return md
}

func (f *fakeStore) observe(table string, num int64, at time.Time, volume int64) {
	if f.observations[table] == nil {
		f.observations[table] = map[int64][]observation{}
	}
	f.observations[table][num] = append(f.observations[table][num], observation{at, volume})
}

func (f *fakeStore) RecordNumbers(_ context.Context, subKinds []string) ([]int64, error) {
	f.lastFilter = subKinds
	allowed := map[string]bool{}
	for _, s := range subKinds {
		allowed[s] = true
	}
	nums := []int64{}
	for num, md := range f.headers {
		if len(subKinds) == 0 || allowed[md.SubKindLabel()] {
			nums = append(nums, num)
		}
	}
	sort.Slice(nums, func(i, j int) bool { return nums[i] > nums[j] })
	return nums, nil
}

func (f *fakeStore) Header(_ context.Context, num int64) (*models.Metadata, error) {
	if f.headerErr != nil {
		return nil, f.headerErr
	}
	md, ok := f.headers[num]
	if !ok {
		return nil, repository.ErrNoRows
	}
	copied := *md
	return &copied, nil
}

func (f *fakeStore) Municipality(_ context.Context, mcd string) (*models.Municipality, error) {
	m, ok := f.municipalities[mcd]
	if !ok {
		return nil, repository.ErrNoRows
	}
	return m, nil
}

func (f *fakeStore) HourlyVolume(_ context.Context, table string, num int64) ([]models.HourlyCount, error) {
	f.countQueries++
	if f.countErr != nil {
		return nil, f.countErr
	}
	sums := map[time.Time]int64{}
	for _, o := range f.observations[table][num] {
		sums[o.at.Truncate(time.Hour)] += o.volume
	}
	keys := make([]time.Time, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	out := make([]models.HourlyCount, 0, len(keys))
	for _, k := range keys {
		out = append(out, models.HourlyCount{DateTime: models.NewDateTime(k), Volume: sums[k]})
	}
	return out, nil
}

func (f *fakeStore) HourOfDayVolume(_ context.Context, table string, num int64) ([]models.HourVolume, error) {
	f.countQueries++
	if f.countErr != nil {
		return nil, f.countErr
	}
	type key struct {
		day  string
		hour int
	}
	sums := map[key]int64{}
	days := map[string]models.Date{}
	for _, o := range f.observations[table][num] {
		d := models.NewDate(o.at)
		days[d.Key()] = d
		sums[key{d.Key(), o.at.Hour()}] += o.volume
	}
	keys := make([]key, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].day != keys[j].day {
			return keys[i].day < keys[j].day
		}
		return keys[i].hour < keys[j].hour
	})

	out := make([]models.HourVolume, 0, len(keys))
	for _, k := range keys {
		out = append(out, models.HourVolume{Date: days[k.day], Hour: k.hour, Volume: sums[k]})
	}
	return out, nil
}

func (f *fakeStore) HourlyClass(_ context.Context, num int64) ([]models.HourlyClass, error) {
	f.countQueries++
	if f.countErr != nil {
		return nil, f.countErr
	}
	return append([]models.HourlyClass{}, f.classes[num]...), nil
}

func (f *fakeStore) SuppressedDates(_ context.Context, num int64) ([]models.Date, error) {
	return f.suppressed[num], nil
}

func (f *fakeStore) LatestRecalculation(_ context.Context, num int64) (time.Time, error) {
	t, ok := f.recalculated[num]
	if !ok {
		return time.Time{}, repository.ErrNoRows
	}
	return t, nil
}

func ptr[T any](v T) *T { return &v }
