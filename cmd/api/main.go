package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/api/http"
	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/api/http/handlers"
	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/auth"
	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/config"
	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/events"
	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/observability"
	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/persistence"
	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/repository"
	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/service"
	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/storage"
	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	fileStore, err := storage.NewMinioStore(cfg.Storage)
	if err != nil {
		logger.Fatal("failed to init file store", zap.Error(err))
	}
	if err := fileStore.EnsureBucket(ctx); err != nil {
		logger.Fatal("failed to ensure attachment bucket", zap.Error(err))
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	appraisalRepo := repository.NewAppraisalRepository(pool)
	historyRepo := repository.NewAppraisalHistoryRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:          userRepo,
		PasswordResetRepo: resetRepo,
	})
	appraisalService := service.NewAppraisalService(service.AppraisalDependencies{
		AppraisalRepo: appraisalRepo,
		HistoryRepo:   historyRepo,
		Normalizer:    service.NewAttachmentNormalizer(fileStore),
		Dispatcher:    dispatcher,
	})
	summaryService := service.NewSummaryService(appraisalRepo, redis.Client)
	summaryService.RegisterHandlers(dispatcher)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Appraisals:     handlers.NewAppraisalsHandler(appraisalService),
		HOD:            handlers.NewHODHandler(appraisalService),
		Admin:          handlers.NewAdminHandler(appraisalService, summaryService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
