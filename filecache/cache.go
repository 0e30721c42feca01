package filecache

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dvrpc/traffic-counts-api/models"
)

// Recalculations reports when a record's aggregates were last recomputed.
type Recalculations interface {
	LatestRecalculation(ctx context.Context, recordNum int64) (models.Date, error)
}

// Cache serves report files from a Store, regenerating them when missing or
// older than the record's latest recalculation.
type Cache struct {
	store  Store
	recalc Recalculations
	logger *zap.Logger
}

func New(store Store, recalc Recalculations, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{store: store, recalc: recalc, logger: logger}
}

// Key names the cached file of one report variant; records with suppressed
// dates included are kept apart from the default variant.
func Key(report models.ReportKind, recordNum int64, includeSuppressed bool, ext string) string {
	suffix := ""
	if includeSuppressed {
		suffix = "_suppressed"
	}
	return fmt.Sprintf("%s/%d%s%s", report, recordNum, suffix, ext)
}

// GenerateFunc builds a fresh file.
type GenerateFunc func(ctx context.Context) ([]byte, error)

// Fetch returns the cached file for key, or generates, stores and returns a
// new one. Generation errors are returned unchanged. A failed store write is
// logged and the fresh file is still served.
func (c *Cache) Fetch(ctx context.Context, key string, recordNum int64, generate GenerateFunc) ([]byte, error) {
	if c.fresh(ctx, key, recordNum) {
		data, err := c.store.Get(ctx, key)
		if err == nil {
			return data, nil
		}
		c.logger.Warn("cached file unreadable, regenerating", zap.String("key", key), zap.Error(err))
	}

	data, err := generate(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.store.Put(ctx, key, data); err != nil {
		c.logger.Warn("failed to store generated file", zap.String("key", key), zap.Error(err))
	}
	return data, nil
}

// fresh reports whether the stored file can be served. Any failure to decide
// counts as stale.
func (c *Cache) fresh(ctx context.Context, key string, recordNum int64) bool {
	modified, err := c.store.ModTime(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotExist) {
			c.logger.Warn("cached file stat failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}

	recalculated, err := c.recalc.LatestRecalculation(ctx, recordNum)
	if err != nil {
		return false
	}
	return !models.NewDate(modified.Local()).Before(recalculated.Time)
}
