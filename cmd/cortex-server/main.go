package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cortexgov/cortex-api/internal/handler"
	"github.com/cortexgov/cortex-api/internal/middleware"
	"github.com/cortexgov/cortex-api/internal/models"
	"github.com/cortexgov/cortex-api/internal/repository"
	"github.com/cortexgov/cortex-api/internal/service"
	"github.com/cortexgov/cortex-api/internal/store"
	"github.com/cortexgov/cortex-api/pkg/cache"
	"github.com/cortexgov/cortex-api/pkg/config"
	"github.com/cortexgov/cortex-api/pkg/logger"
	corsmiddleware "github.com/cortexgov/cortex-api/pkg/middleware/cors"
	reqidmiddleware "github.com/cortexgov/cortex-api/pkg/middleware/requestid"
	"github.com/cortexgov/cortex-api/pkg/storage"
)

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Redis.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, dashboard caching disabled", zap.Error(err))
		} else {
			cacheRepo = repository.NewCacheRepository(client, logr)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, cacheRepo != nil)

	st := store.New(store.Options{Logger: logr})
	if err := st.Seed(store.SeedOptions{
		ControlCount: cfg.Seed.ControlCount,
		RandSeed:     cfg.Seed.RandSeed,
	}); err != nil {
		logr.Fatal("failed to seed store", zap.Error(err))
	}

	exportStorage, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Fatal("failed to init export storage", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	authSvc := service.NewAuthService(st, service.BcryptVerifier{}, nil, metricsSvc, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	controlSvc := service.NewControlService(st, cacheSvc, nil, logr)
	dashboardSvc := service.NewDashboardService(st, cacheSvc, cfg.Dashboard.CacheTTL, logr)
	exportSvc := service.NewExportService(st, exportStorage, signer, cfg.Exports.DeckRowLimit, nil, metricsSvc, logr)
	viewSvc := service.NewViewService(st, nil, logr)
	auditSvc := service.NewAuditService(st, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	registerRoutes(r.Group(cfg.APIPrefix), authSvc,
		handler.NewAuthHandler(authSvc),
		handler.NewControlHandler(controlSvc),
		handler.NewDashboardHandler(dashboardSvc),
		handler.NewExportHandler(exportSvc),
		handler.NewViewHandler(viewSvc),
		handler.NewAuditHandler(auditSvc))

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func registerRoutes(api *gin.RouterGroup, authSvc *service.AuthService,
	auth *handler.AuthHandler, controls *handler.ControlHandler,
	dashboard *handler.DashboardHandler, exports *handler.ExportHandler,
	views *handler.ViewHandler, audit *handler.AuditHandler) {

	api.POST("/auth/login", auth.Login)

	// token-authorized download, outside the JWT guard
	api.GET("/exports/:token", exports.Download)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	authed.POST("/auth/logout", auth.Logout)

	authed.GET("/controls", middleware.RequirePermission(models.PermViewDashboard), controls.List)
	authed.GET("/controls/:id", middleware.RequirePermission(models.PermViewDashboard), controls.Get)
	authed.PATCH("/controls/:id", middleware.RequireRoles(
		models.RoleDataOwner, models.RoleSecondLine, models.RoleManager), controls.Update)

	recs := authed.Group("/controls/:id/recommendations/:recID")
	recs.Use(middleware.RequireRoles(models.RoleDataOwner, models.RoleSecondLine, models.RoleManager))
	recs.POST("/accept", controls.Decision(models.DecisionAccept))
	recs.POST("/reject", controls.Decision(models.DecisionReject))
	recs.POST("/defer", controls.Decision(models.DecisionDefer))

	authed.GET("/dashboard/metrics", middleware.RequirePermission(models.PermViewDashboard), dashboard.Metrics)

	authed.GET("/views", views.List)
	authed.POST("/views", views.Create)

	authed.GET("/audit", middleware.RequirePermission(models.PermAuditTrail), audit.Trail)

	authed.POST("/exports", middleware.RequirePermission(models.PermExportData), exports.Create)
}
