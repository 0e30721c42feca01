package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dvrpc/traffic-counts-api/utils"
)

// Pinger checks the database. *repository.CountRepository satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	db     Pinger
	logger *zap.Logger
}

func NewHealthController(db Pinger, logger *zap.Logger) *HealthController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthController{db: db, logger: logger}
}

// Health reports ok when the database answers within two seconds.
func (h *HealthController) Health(ctx *gin.Context) {
	pctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(pctx); err != nil {
		h.logger.Warn("database ping failed", zap.Error(err))
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	utils.Success(ctx, gin.H{"status": "ok"})
}
