package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dvrpc/traffic-counts-api/services"
	"github.com/dvrpc/traffic-counts-api/utils"
)

const (
	badRecordIDMessage   = "Record number must be an integer."
	badIncludeMessage    = "include_suppressed must be true or false."
	notClassCountMessage = "Record is not a vehicle classification count."
)

// respondError maps a pipeline error onto its status and fixed message.
// Expected client conditions are not logged.
func respondError(ctx *gin.Context, logger *zap.Logger, err error) {
	var validationErr *services.ValidationError
	var filterErr *services.FilterError

	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, utils.NotFoundMessage)
	case errors.Is(err, services.ErrNotPublished):
		utils.Error(ctx, http.StatusForbidden, utils.NotPublishedMessage)
	case errors.Is(err, services.ErrNotClassCount):
		utils.Error(ctx, http.StatusBadRequest, notClassCountMessage)
	case errors.As(err, &filterErr):
		utils.Error(ctx, http.StatusBadRequest, "Invalid "+filterErr.Param+": "+strconv.Quote(filterErr.Value)+".")
	case errors.As(err, &validationErr):
		_ = ctx.Error(err)
		logger.Error("unexpected data from database",
			zap.String("request_id", utils.RequestID(ctx)),
			zap.String("source", validationErr.Source),
			zap.Error(validationErr.Err),
		)
		utils.Error(ctx, http.StatusInternalServerError, utils.ValidationMessage)
	default:
		_ = ctx.Error(err)
		logger.Error("request failed",
			zap.String("request_id", utils.RequestID(ctx)),
			zap.String("path", ctx.Request.URL.Path),
			zap.Error(err),
		)
		utils.Error(ctx, http.StatusInternalServerError, utils.UnknownErrorMessage)
	}
}

func recordNum(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, badRecordIDMessage)
		return 0, false
	}
	return id, true
}

// includeSuppressed reads the include_suppressed flag, false when absent.
func includeSuppressed(ctx *gin.Context) (bool, bool) {
	raw := strings.TrimSpace(ctx.Query("include_suppressed"))
	switch strings.ToLower(raw) {
	case "", "0", "f", "false", "no", "off":
		return false, true
	case "1", "t", "true", "yes", "on":
		return true, true
	}
	utils.Error(ctx, http.StatusBadRequest, badIncludeMessage)
	return false, false
}
