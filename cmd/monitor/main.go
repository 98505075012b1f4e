package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	xtrackerapi "xtracker/internal/client/xtracker"
	"xtracker/internal/config"
	cronrunner "xtracker/internal/cron"
	"xtracker/internal/db"
	"xtracker/internal/handler"
	"xtracker/internal/logger"
	"xtracker/internal/notify"
	gormrepository "xtracker/internal/repository/gorm"
	"xtracker/internal/service"

	_ "xtracker/docs"
)

func main() {
	cfgPath := os.Getenv("XT_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("XT_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	remoteHTTP := &http.Client{Timeout: cfg.XTracker.Timeout}
	remote := xtrackerapi.NewClient(remoteHTTP, cfg.XTracker.BaseURL, cfg.XTracker.DetailTimeout)
	store := gormrepository.New(dbConn.Gorm)
	hub := notify.NewHub(logger, cfg.Notify.SendBuffer)

	reconciler := &service.ReconcileService{
		Store:      store,
		Fetcher:    remote,
		Hub:        hub,
		Logger:     logger,
		UserHandle: cfg.Sync.UserHandle,
	}
	queryService := &service.TrackingQueryService{Store: store, Hub: hub}
	sweeper := &service.IncompleteSweepService{Store: store, Logger: logger}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{
		DB:      dbConn.Gorm,
		AppName: cfg.App.Name,
		Version: cfg.App.Version,
	}
	healthHandler.Register(engine)
	trackingHandler := &handler.TrackingHandler{Query: queryService}
	trackingHandler.Register(engine)
	syncHandler := &handler.SyncHandler{Reconciler: reconciler, Repo: store}
	syncHandler.Register(engine)
	wsHandler := &handler.WSHandler{Hub: hub}
	wsHandler.Register(engine)
	if cfg.Dashboard.Enabled {
		dashboardHandler := &handler.DashboardHandler{StaticDir: cfg.Dashboard.StaticDir}
		dashboardHandler.Register(engine)
	}

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Cron.Enabled {
		_, err = cronRunner.Add(cfg.Cron.Reconcile, func(ctx context.Context) {
			result, err := reconciler.RunOnce(ctx)
			if err != nil {
				if errors.Is(err, service.ErrCycleInProgress) {
					logger.Debug("reconcile tick skipped, previous cycle still running")
					return
				}
				logger.Warn("cron reconcile failed", zap.Error(err))
				return
			}
			logger.Info("cron reconcile ok",
				zap.Int("trackings", result.Trackings),
				zap.Int("active_updated", result.ActiveUpdated),
				zap.Int("deactivated", result.Deactivated),
				zap.Int("changes", len(result.Changes)),
			)
		})
		if err != nil {
			logger.Warn("cron register reconcile failed", zap.Error(err))
		}

		_, err = cronRunner.Add(cfg.Cron.IncompleteSweep, func(ctx context.Context) {
			if err := sweeper.SweepOnce(ctx); err != nil {
				logger.Warn("incomplete sweep failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register incomplete sweep failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	if cfg.Sync.RunOnStartup {
		go func() {
			if _, err := reconciler.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("startup reconcile failed", zap.Error(err))
			}
		}()
	}

	errCh := make(chan error, 2)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
