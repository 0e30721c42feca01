package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/dvrpc/traffic-counts-api/config"
	"github.com/dvrpc/traffic-counts-api/filecache"
	"github.com/dvrpc/traffic-counts-api/models"
	"github.com/dvrpc/traffic-counts-api/repository"
	"github.com/dvrpc/traffic-counts-api/services"
	"github.com/dvrpc/traffic-counts-api/utils"
)

// app is the assembled service graph shared by every subcommand.
type app struct {
	repo     *repository.CountRepository
	metadata *services.MetadataService
	reports  *services.ReportService
	files    *filecache.Cache
}

func newApp(ctx context.Context, cfg config.AppConfig) (*app, error) {
	dialect, err := repository.DialectFor(cfg.DBDriver)
	if err != nil {
		return nil, err
	}
	store, err := newFileStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	repo := repository.NewCountRepository(config.InitDatabase(), dialect)
	catalog := models.DefaultCatalog()
	metadata := services.NewMetadataService(repo, catalog)
	reports := services.NewReportService(repo, metadata, services.NewVariants(catalog, cfg.StaticPDFBaseURL))

	return &app{
		repo:     repo,
		metadata: metadata,
		reports:  reports,
		files:    filecache.New(store, reports, utils.Logger),
	}, nil
}

func newFileStore(ctx context.Context, cfg config.AppConfig) (filecache.Store, error) {
	switch cfg.StorageBackend {
	case "dir", "":
		return filecache.NewDirStore(cfg.StorageDir), nil
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, errors.New("storage backend s3 needs S3_BUCKET")
		}
		return filecache.NewS3StoreFromEnv(ctx, cfg.S3Region, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
	}
}
