package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ltvreport/internal/config"
	cronrunner "ltvreport/internal/cron"
	"ltvreport/internal/db"
	"ltvreport/internal/handler"
	"ltvreport/internal/logger"
	"ltvreport/internal/repository"
	"ltvreport/internal/repository/csvsource"
	"ltvreport/internal/repository/gormsource"
	"ltvreport/internal/service"
)

func main() {
	cfgPath := os.Getenv("LTV_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("LTV_ENV_ONLY"); envOnlyRaw != "" {
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

	// A missing database is survivable: sources fall back to the CSV
	// export directory and readiness reports the degraded state.
	var primary repository.Source
	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Warn("db open failed, using fallback sources only", zap.Error(err))
	} else {
		defer db.Close(dbConn)
		primary = gormsource.New(dbConn.Gorm)
	}

	var fallback repository.Source
	if cfg.Fallback.Dir != "" {
		fallback = csvsource.New(cfg.Fallback.Dir)
	}

	store := service.NewDataStore(logger, primary, fallback, cfg.Sources)
	reportSvc := service.NewReportService(store)
	legacySvc := service.NewLegacyService(logger, primary, fallback, cfg.Legacy)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := store.Reload(ctx); err != nil {
		logger.Error("initial snapshot load failed", zap.Error(err))
	}
	if _, err := legacySvc.Rebuild(ctx); err != nil {
		logger.Warn("initial legacy rebuild failed", zap.Error(err))
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{Store: store}
	if dbConn != nil {
		healthHandler.DB = dbConn.Gorm
	}
	healthHandler.Register(engine)
	reportHandler := &handler.ReportHandler{Service: reportSvc, Logger: logger}
	reportHandler.Register(engine)
	legacyHandler := &handler.LegacyHandler{Service: legacySvc, Logger: logger}
	legacyHandler.Register(engine)

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Cron.Enabled {
		_, err = cronRunner.Add(cfg.Cron.Refresh, func(ctx context.Context) {
			if err := store.Reload(ctx); err != nil {
				logger.Warn("cron snapshot reload failed", zap.Error(err))
			}
			if _, err := legacySvc.Rebuild(ctx); err != nil {
				logger.Warn("cron legacy rebuild failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register refresh failed", zap.Error(err))
		}
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	errCh := make(chan error, 1)
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
