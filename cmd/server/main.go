package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/portfolio-admin/skills-backend/internal/config"
	"github.com/portfolio-admin/skills-backend/internal/db"
	"github.com/portfolio-admin/skills-backend/internal/goroutine"
	httpHandlers "github.com/portfolio-admin/skills-backend/internal/http/handlers"
	httpRouter "github.com/portfolio-admin/skills-backend/internal/http/router"
	"github.com/portfolio-admin/skills-backend/internal/logger"
	"github.com/portfolio-admin/skills-backend/internal/repository"
	"github.com/portfolio-admin/skills-backend/internal/service"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("main: ошибка загрузки конфигурации")
	}

	logger.Init(cfg.LogLevel)
	if !cfg.IsProduction() {
		logger.SetTextFormatter()
	}

	// Подключение к базе и миграции.
	dbConn, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Log.WithError(err).Fatal("main: ошибка подключения к базе")
	}
	defer safeClose(dbConn)

	if cfg.MigrateOnStart {
		if err := db.RunMigrations(ctx, dbConn); err != nil {
			logger.Log.WithError(err).Fatal("main: ошибка миграций")
		}
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)

	skillRepo := repository.NewSkillRepository(dbConn)
	skillService := service.NewSkillService(skillRepo)

	skillHandler := httpHandlers.NewSkillHandler(skillService)
	publicHandler := httpHandlers.NewPublicHandler(skillService, cfg.PortfolioOwnerID)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	engine := httpRouter.SetupRouter(cfg, skillHandler, publicHandler, healthHandler, tokenManager)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	goroutine.GoWithContext(ctx, "http-shutdown", func(ctx context.Context) {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Error("main: ошибка остановки http сервера")
		}
	})

	logger.Log.WithFields(logrus.Fields{
		"port":   cfg.HTTPPort,
		"env":    cfg.Env,
		"driver": cfg.DBDriver,
	}).Info("main: HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.WithError(err).Error("main: сервер завершился с ошибкой")
		safeClose(dbConn)
		os.Exit(1)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		logger.Log.WithError(err).Warn("main: ошибка закрытия базы")
	}
}
