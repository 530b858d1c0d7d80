package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/samraify/multicore-crm-new/internal/api/http"
	"github.com/samraify/multicore-crm-new/internal/api/http/handlers"
	"github.com/samraify/multicore-crm-new/internal/auth"
	"github.com/samraify/multicore-crm-new/internal/config"
	"github.com/samraify/multicore-crm-new/internal/events"
	"github.com/samraify/multicore-crm-new/internal/observability"
	"github.com/samraify/multicore-crm-new/internal/persistence"
	"github.com/samraify/multicore-crm-new/internal/repository"
	"github.com/samraify/multicore-crm-new/internal/service"
	"github.com/samraify/multicore-crm-new/internal/worker"
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

	tokenManager, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	if err != nil {
		logger.Fatal("invalid token signing config", zap.Error(err))
	}

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

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewTicketCommentRepository(pool)
	historyRepo := repository.NewTicketHistoryRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	businessRepo := repository.NewBusinessRepository(pool)
	slaRepo := repository.NewSLARepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)

	slaService := service.NewSLAService(slaRepo, logger)
	if err := slaService.Seed(ctx); err != nil {
		logger.Fatal("failed to seed sla policies", zap.Error(err))
	}

	analyticsCache := service.NewAnalyticsCache(redis.ClientHandle(), logger)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		CommentRepo:  commentRepo,
		HistoryRepo:  historyRepo,
		UserRepo:     userRepo,
		BusinessRepo: businessRepo,
		SLA:          slaService,
		Dispatcher:   dispatcher,
		Analytics:    analyticsCache,
	})
	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:     userRepo,
		BusinessRepo: businessRepo,
		TokenManager: tokenManager,
		BcryptCost:   cfg.Auth.BcryptCost,
	})
	businessService := service.NewBusinessService(businessRepo)
	notificationService := service.NewNotificationService(notificationRepo, dispatcher, logger, cfg.Notification)
	notificationService.RegisterHandlers()

	scanner := worker.NewSLAScanner(worker.ScannerDependencies{
		TicketRepo:  ticketRepo,
		HistoryRepo: historyRepo,
		SLA:         slaService,
		Notifier:    notificationService,
		Metrics:     metrics,
		Logger:      logger,
	}, cfg.SLA.ScanInterval())
	go scanner.Run(ctx)

	authMiddleware := auth.NewAuthMiddleware(tokenManager, userRepo, logger)

	app := fiber.New(fiber.Config{DisableStartupMessage: cfg.App.Env == "production"})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Businesses:     handlers.NewBusinessesHandler(businessService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
