package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dvrpc/traffic-counts-api/config"
	"github.com/dvrpc/traffic-counts-api/controllers"
	"github.com/dvrpc/traffic-counts-api/filecache"
	"github.com/dvrpc/traffic-counts-api/middleware"
	"github.com/dvrpc/traffic-counts-api/models"
	"github.com/dvrpc/traffic-counts-api/report"
	"github.com/dvrpc/traffic-counts-api/utils"
)

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Reports controllers.ReportBuilder
	Records controllers.RecordLookup
	Health  controllers.Pinger
	Files   *filecache.Cache

	// AccessLogger receives access and panic lines. Nil uses a rolling file
	// logger at the configured gin path.
	AccessLogger *zap.Logger
}

// SetupRouter wires middlewares, controllers and routes.
func SetupRouter(cfg config.AppConfig, deps Deps) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())

	gl := deps.AccessLogger
	if gl == nil {
		gl = utils.NewRollingFileLogger(cfg, cfg.GinPath)
	}
	r.Use(utils.Ginzap(gl, time.RFC3339, true))
	r.Use(utils.RecoveryWithZap(gl, false))

	metrics := middleware.NewMetrics()
	r.Use(metrics.Handler())

	corsCfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Accept", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	health := controllers.NewHealthController(deps.Health, utils.Logger)
	r.GET("/health", health.Health)
	r.GET("/metrics", gin.WrapH(metrics.Exposition()))

	ttl := utils.CacheTTL(cfg.CacheTTLSec)
	records := controllers.NewRecordsController(deps.Records, ttl, utils.Logger)
	counts := controllers.NewCountsController(deps.Reports, deps.Files, ttl, utils.Logger)

	api := r.Group(cfg.BasePath)
	api.Use(middleware.NewRateLimiter(cfg.RateLimitPerMinute).Handler())

	api.GET("/records", records.ListRecords)
	api.GET("/records/:id", records.GetRecord)

	reportRoutes := map[string]models.ReportKind{
		"/volume/hourly":            models.ReportHourly,
		"/volume/hourly/non-normal": models.ReportNonNormal,
		"/class/hourly":             models.ReportClass,
	}
	for prefix, kind := range reportRoutes {
		api.GET(prefix+"/:id", counts.Report(kind))
		api.GET(prefix+"/csv/:id", counts.File(kind, report.FormatCSV))
		api.GET(prefix+"/xlsx/:id", counts.File(kind, report.FormatXLSX))
	}

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, utils.RouteNotFoundMessage)
	})

	return r
}
