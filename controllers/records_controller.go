package controllers

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dvrpc/traffic-counts-api/models"
	"github.com/dvrpc/traffic-counts-api/utils"
)

// RecordLookup resolves headers and lists records. *services.MetadataService
// satisfies it.
type RecordLookup interface {
	Resolve(ctx context.Context, recordNum int64) (*models.Metadata, error)
	RecordNumbers(ctx context.Context, countKind, subKind string) ([]int64, error)
}

// RecordsController serves record listings and metadata.
type RecordsController struct {
	records RecordLookup
	ttl     time.Duration
	logger  *zap.Logger
}

func NewRecordsController(records RecordLookup, ttl time.Duration, logger *zap.Logger) *RecordsController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordsController{records: records, ttl: ttl, logger: logger}
}

// ListRecords returns record numbers, newest first, optionally filtered by
// count_type or sub_type.
func (r *RecordsController) ListRecords(ctx *gin.Context) {
	nums, err := r.records.RecordNumbers(ctx.Request.Context(), ctx.Query("count_type"), ctx.Query("sub_type"))
	if err != nil {
		respondError(ctx, r.logger, err)
		return
	}
	utils.Success(ctx, nums)
}

// GetRecord returns the metadata of one published record.
func (r *RecordsController) GetRecord(ctx *gin.Context) {
	id, ok := recordNum(ctx)
	if !ok {
		return
	}

	cacheKey := utils.CacheKey("record", strconv.FormatInt(id, 10))
	if b, ok := utils.CacheGetBytes(ctx.Request.Context(), cacheKey); ok {
		utils.SuccessRaw(ctx, b)
		return
	}

	md, err := r.records.Resolve(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, r.logger, err)
		return
	}
	b, err := utils.CacheSetJSON(ctx.Request.Context(), cacheKey, md, r.ttl)
	if err != nil {
		respondError(ctx, r.logger, err)
		return
	}
	utils.SuccessRaw(ctx, b)
}
