package controllers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dvrpc/traffic-counts-api/filecache"
	"github.com/dvrpc/traffic-counts-api/models"
	"github.com/dvrpc/traffic-counts-api/report"
	"github.com/dvrpc/traffic-counts-api/utils"
)

// ReportBuilder runs a count report. *services.ReportService satisfies it.
type ReportBuilder interface {
	Build(ctx context.Context, kind models.ReportKind, recordNum int64, includeSuppressed bool) (models.Tabular, error)
}

// CountsController serves the count reports as JSON and as file downloads.
type CountsController struct {
	reports ReportBuilder
	files   *filecache.Cache
	ttl     time.Duration
	logger  *zap.Logger
}

// NewCountsController creates a CountsController. JSON bodies are cached in
// redis for ttl; zero disables that cache.
func NewCountsController(reports ReportBuilder, files *filecache.Cache, ttl time.Duration, logger *zap.Logger) *CountsController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CountsController{reports: reports, files: files, ttl: ttl, logger: logger}
}

// Report returns the JSON handler of one report kind.
func (c *CountsController) Report(kind models.ReportKind) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, ok := recordNum(ctx)
		if !ok {
			return
		}
		include, ok := includeSuppressed(ctx)
		if !ok {
			return
		}

		cacheKey := utils.CacheKey("report", string(kind), strconv.FormatInt(id, 10), strconv.FormatBool(include))
		if b, ok := utils.CacheGetBytes(ctx.Request.Context(), cacheKey); ok {
			utils.SuccessRaw(ctx, b)
			return
		}

		tab, err := c.reports.Build(ctx.Request.Context(), kind, id, include)
		if err != nil {
			respondError(ctx, c.logger, err)
			return
		}

		b, err := utils.CacheSetJSON(ctx.Request.Context(), cacheKey, tab, c.ttl)
		if err != nil {
			respondError(ctx, c.logger, err)
			return
		}
		utils.SuccessRaw(ctx, b)
	}
}

// File returns the download handler of one report kind in one format.
func (c *CountsController) File(kind models.ReportKind, format report.Format) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, ok := recordNum(ctx)
		if !ok {
			return
		}
		include, ok := includeSuppressed(ctx)
		if !ok {
			return
		}

		key := filecache.Key(kind, id, include, format.Extension())
		data, err := c.files.Fetch(ctx.Request.Context(), key, id, func(rctx context.Context) ([]byte, error) {
			tab, err := c.reports.Build(rctx, kind, id, include)
			if err != nil {
				return nil, err
			}
			var buf bytes.Buffer
			if err := report.Render(&buf, format, tab); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		})
		if err != nil {
			respondError(ctx, c.logger, err)
			return
		}

		ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, downloadName(kind, id, include, format)))
		ctx.Data(http.StatusOK, format.ContentType(), data)
	}
}

func downloadName(kind models.ReportKind, id int64, include bool, format report.Format) string {
	name := fmt.Sprintf("%s_%d", kind, id)
	if include {
		name += "_suppressed"
	}
	return name + format.Extension()
}
