package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campusgrid/timetable-api/api/swagger"
	"github.com/campusgrid/timetable-api/internal/handler"
	internalmiddleware "github.com/campusgrid/timetable-api/internal/middleware"
	"github.com/campusgrid/timetable-api/internal/repository"
	"github.com/campusgrid/timetable-api/internal/service"
	"github.com/campusgrid/timetable-api/pkg/cache"
	"github.com/campusgrid/timetable-api/pkg/config"
	"github.com/campusgrid/timetable-api/pkg/database"
	"github.com/campusgrid/timetable-api/pkg/export"
	"github.com/campusgrid/timetable-api/pkg/logger"
	corsmiddleware "github.com/campusgrid/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campusgrid/timetable-api/pkg/middleware/requestid"
)

// @title CampusGrid Timetable API
// @version 0.1.0
// @description Timetable scheduling and versioning engine
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, grid cache disabled", "error", err)
		redisClient = nil
	}

	templateRepo := repository.NewPeriodTemplateRepository(db)
	versionRepo := repository.NewTimetableVersionRepository(db)
	eventRepo := repository.NewTimetableEventRepository(db)
	offeringRepo := repository.NewOfferingRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()
	templateSvc := service.NewTemplateService(templateRepo, nil, logr)
	versionSvc := service.NewVersionService(versionRepo, cacheRepo, metricsSvc, logr)
	placementSvc := service.NewPlacementService(eventRepo, offeringRepo, versionRepo, templateSvc, metricsSvc, nil, logr)
	gridSvc := service.NewGridService(eventRepo, offeringRepo, versionSvc, cacheRepo, cfg.Timetable.GridCacheTTL, metricsSvc, logr)
	exportSvc := service.NewExportService(versionSvc, templateSvc, eventRepo, export.NewPDFExporter(), export.NewCSVExporter(), cfg.Export.Enabled, logr)
	roomSvc := service.NewRoomService(roomRepo)

	templateHandler := handler.NewTemplateHandler(templateSvc)
	timetableHandler := handler.NewTimetableHandler(versionSvc, placementSvc, gridSvc, exportSvc)
	roomHandler := handler.NewRoomHandler(roomSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	templates := api.Group("/period-templates")
	templates.GET("", templateHandler.List)
	templates.POST("", templateHandler.Create)
	templates.GET("/active", templateHandler.Active)
	templates.GET("/:id", templateHandler.Get)
	templates.DELETE("/:id", templateHandler.Delete)
	templates.POST("/:id/activate", templateHandler.Activate)
	templates.POST("/:id/duplicate", templateHandler.Duplicate)
	templates.PUT("/:id/slots", templateHandler.ReplaceSlots)

	batches := api.Group("/batches")
	batches.GET("/:batchId/workspace", timetableHandler.Workspace)
	batches.POST("/:batchId/publish", timetableHandler.Publish)
	batches.GET("/:batchId/offerings", timetableHandler.Offerings)
	batches.GET("/:batchId/grid", timetableHandler.Grid)
	batches.GET("/:batchId/export/pdf", timetableHandler.ExportPDF)
	batches.GET("/:batchId/export/csv", timetableHandler.ExportCSV)

	versions := api.Group("/versions")
	versions.GET("/:id/events", timetableHandler.ListEvents)
	versions.POST("/:id/events", timetableHandler.PlaceEvent)
	versions.DELETE("/:id/events/:eventId", timetableHandler.DeleteEvent)
	versions.PATCH("/:id/events/:eventId/room", timetableHandler.UpdateEventRoom)

	rooms := api.Group("/rooms")
	rooms.GET("", roomHandler.List)
	rooms.GET("/:id", roomHandler.Get)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
