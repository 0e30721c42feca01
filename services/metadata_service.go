package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dvrpc/traffic-counts-api/models"
	"github.com/dvrpc/traffic-counts-api/repository"
)

// MetadataService resolves record headers and lists record numbers.
type MetadataService struct {
	store   CountStore
	catalog *models.Catalog
}

func NewMetadataService(store CountStore, catalog *models.Catalog) *MetadataService {
	return &MetadataService{store: store, catalog: catalog}
}

// Resolve loads the published header of a record with its kind, source label
// and municipality filled in.
func (s *MetadataService) Resolve(ctx context.Context, recordNum int64) (*models.Metadata, error) {
	md, err := s.store.Header(ctx, recordNum)
	if errors.Is(err, repository.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, asValidation(err)
	}
	if !md.Published() {
		return nil, ErrNotPublished
	}

	md.NormalizeSource()

	// Unknown sub-kinds stay unclassified.
	if kind, ok := s.catalog.Classify(md.SubKindLabel()); ok {
		k := string(kind)
		md.CountKind = &k
	}

	if md.MCD != nil && *md.MCD != "" {
		m, err := s.store.Municipality(ctx, *md.MCD)
		switch {
		case errors.Is(err, repository.ErrNoRows):
		case err != nil:
			return nil, asValidation(err)
		default:
			md.Municipality, md.County, md.State = m.Name, m.County, m.State
		}
	}
	return md, nil
}

// RecordNumbers lists record numbers, newest first. subKind wins over
// countKind; both empty lists everything.
func (s *MetadataService) RecordNumbers(ctx context.Context, countKind, subKind string) ([]int64, error) {
	var filter []string
	switch {
	case subKind != "":
		if _, ok := s.catalog.Classify(subKind); !ok {
			return nil, &FilterError{Param: "sub_type", Value: subKind}
		}
		filter = []string{subKind}
	case countKind != "":
		kind, ok := s.catalog.ParseKind(countKind)
		if !ok {
			return nil, &FilterError{Param: "count_type", Value: countKind}
		}
		filter = s.catalog.SubKinds(kind)
	}

	nums, err := s.store.RecordNumbers(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("record numbers: %w", err)
	}
	return nums, nil
}
