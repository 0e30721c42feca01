package services

import (
	"context"
	"fmt"

	"github.com/dvrpc/traffic-counts-api/models"
)

// ReportService composes resolve, aggregate and suppress into envelopes.
type ReportService struct {
	store      CountStore
	metadata   *MetadataService
	variants   *Variants
	aggregator *Aggregator
}

func NewReportService(store CountStore, metadata *MetadataService, variants *Variants) *ReportService {
	return &ReportService{
		store:      store,
		metadata:   metadata,
		variants:   variants,
		aggregator: NewAggregator(store),
	}
}

// LatestRecalculation exposes when the record's aggregates were last computed.
func (s *ReportService) LatestRecalculation(ctx context.Context, recordNum int64) (models.Date, error) {
	t, err := s.store.LatestRecalculation(ctx, recordNum)
	if err != nil {
		return models.Date{}, asValidation(err)
	}
	return models.NewDate(t), nil
}

func (s *ReportService) HourlyVolume(ctx context.Context, recordNum int64, includeSuppressed bool) (*models.Envelope[models.HourlyCount], error) {
	return build[models.HourlyCount](ctx, s, models.ReportHourly, recordNum, includeSuppressed, s.aggregator.Hourly)
}

func (s *ReportService) NonNormalVolume(ctx context.Context, recordNum int64, includeSuppressed bool) (*models.Envelope[models.NonNormalDay], error) {
	return build[models.NonNormalDay](ctx, s, models.ReportNonNormal, recordNum, includeSuppressed, s.aggregator.Daily)
}

func (s *ReportService) HourlyClass(ctx context.Context, recordNum int64, includeSuppressed bool) (*models.Envelope[models.HourlyClass], error) {
	return build[models.HourlyClass](ctx, s, models.ReportClass, recordNum, includeSuppressed, s.aggregator.Class)
}

// Build runs the named report and returns its tabular view.
func (s *ReportService) Build(ctx context.Context, kind models.ReportKind, recordNum int64, includeSuppressed bool) (models.Tabular, error) {
	var (
		tab models.Tabular
		err error
	)
	switch kind {
	case models.ReportHourly:
		tab, err = s.HourlyVolume(ctx, recordNum, includeSuppressed)
	case models.ReportNonNormal:
		tab, err = s.NonNormalVolume(ctx, recordNum, includeSuppressed)
	case models.ReportClass:
		tab, err = s.HourlyClass(ctx, recordNum, includeSuppressed)
	default:
		return nil, fmt.Errorf("unknown report %q", kind)
	}
	if err != nil {
		return nil, err
	}
	return tab, nil
}

type aggregateFunc[T models.Bucket] func(ctx context.Context, v Variant, recordNum int64) ([]T, error)

func build[T models.Bucket](ctx context.Context, s *ReportService, kind models.ReportKind, recordNum int64, includeSuppressed bool, aggregate aggregateFunc[T]) (*models.Envelope[T], error) {
	md, err := s.metadata.Resolve(ctx, recordNum)
	if err != nil {
		return nil, err
	}

	variant := s.variants.For(md)
	env := models.NewEnvelope[T](kind, md)
	env.StaticPDF = variant.StaticPDF(md)

	counts, err := aggregate(ctx, variant, recordNum)
	if err != nil {
		return nil, err
	}

	if _, hasData := variant.VolumeTable(); hasData {
		suppressed, err := s.store.SuppressedDates(ctx, recordNum)
		if err != nil {
			return nil, asValidation(err)
		}
		if suppressed != nil {
			env.SuppressedDates = suppressed
		}
	}

	if kept := FilterSuppressed(counts, env.SuppressedDates, includeSuppressed); kept != nil {
		env.Counts = kept
	}
	return env, nil
}
