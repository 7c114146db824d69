package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/fleet-maintenance/internal/api/http"
	"github.com/spec-kit/fleet-maintenance/internal/api/http/handlers"
	"github.com/spec-kit/fleet-maintenance/internal/auth"
	"github.com/spec-kit/fleet-maintenance/internal/config"
	"github.com/spec-kit/fleet-maintenance/internal/events"
	"github.com/spec-kit/fleet-maintenance/internal/observability"
	"github.com/spec-kit/fleet-maintenance/internal/persistence"
	"github.com/spec-kit/fleet-maintenance/internal/repository"
	"github.com/spec-kit/fleet-maintenance/internal/repository/memory"
	"github.com/spec-kit/fleet-maintenance/internal/service"
	"github.com/spec-kit/fleet-maintenance/internal/worker"
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

	var (
		ticketRepo       repository.TicketRepository
		sparePartRepo    repository.SparePartRepository
		vehicleRepo      repository.VehicleRepository
		inspectionRepo   repository.InspectionRepository
		userRepo         repository.UserRepository
		notificationRepo repository.NotificationRepository
	)
	if pool := pg.PoolHandle(); pool != nil {
		ticketRepo = repository.NewTicketRepository(pool)
		sparePartRepo = repository.NewSparePartRepository(pool)
		vehicleRepo = repository.NewVehicleRepository(pool)
		inspectionRepo = repository.NewInspectionRepository(pool)
		userRepo = repository.NewUserRepository(pool)
		notificationRepo = repository.NewNotificationRepository(pool)
	} else {
		store := memory.NewStore()
		if cfg.Seed.Enabled {
			hash, err := auth.HashPassword(cfg.Seed.Password, cfg.Auth.BcryptCost)
			if err != nil {
				logger.Fatal("failed to hash seed password", zap.Error(err))
			}
			if err := store.Seed(ctx, hash); err != nil {
				logger.Fatal("failed to seed demo data", zap.Error(err))
			}
			logger.Info("seeded in-memory demo data")
		}
		ticketRepo = store.Tickets()
		sparePartRepo = store.SpareParts()
		vehicleRepo = store.Vehicles()
		inspectionRepo = store.Inspections()
		userRepo = store.Users()
		notificationRepo = store.Notifications()
	}

	dispatcher := events.NewInMemoryDispatcher()
	locks := service.NewTicketLocks()
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		VehicleRepo:    vehicleRepo,
		InspectionRepo: inspectionRepo,
		Dispatcher:     dispatcher,
		Locks:          locks,
	})
	partsService := service.NewPartsService(service.PartsDependencies{
		TicketRepo:    ticketRepo,
		SparePartRepo: sparePartRepo,
		Dispatcher:    dispatcher,
		Locks:         locks,
	})
	inventoryService := service.NewInventoryService(sparePartRepo)
	inspectionService := service.NewInspectionService(inspectionRepo, vehicleRepo)
	analyticsService := service.NewAnalyticsService(ticketRepo, sparePartRepo, cfg.Inventory.LowStockThreshold)
	notificationService := service.NewNotificationService(service.NotificationDependencies{
		Notifications: notificationRepo,
		Users:         userRepo,
		Cache:         redis.Client,
		Logger:        logger,
	})
	authService := service.NewAuthService(userRepo, tokens)

	worker.StartNotificationWorker(notificationService, dispatcher)

	authMiddleware := auth.NewAuthMiddleware(tokens, userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, partsService),
		Parts:          handlers.NewPartsHandler(ticketService, partsService),
		Warehouse:      handlers.NewWarehouseHandler(inventoryService, analyticsService),
		Inspections:    handlers.NewInspectionsHandler(inspectionService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		Reports:        handlers.NewReportsHandler(analyticsService),
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
