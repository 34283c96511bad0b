package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/aaleksaaleksic/food-ordering-system/internal/api/http"
	"github.com/aaleksaaleksic/food-ordering-system/internal/api/http/handlers"
	"github.com/aaleksaaleksic/food-ordering-system/internal/auth"
	"github.com/aaleksaaleksic/food-ordering-system/internal/config"
	"github.com/aaleksaaleksic/food-ordering-system/internal/events"
	"github.com/aaleksaaleksic/food-ordering-system/internal/observability"
	"github.com/aaleksaaleksic/food-ordering-system/internal/persistence"
	"github.com/aaleksaaleksic/food-ordering-system/internal/repository"
	"github.com/aaleksaaleksic/food-ordering-system/internal/service"
	"github.com/aaleksaaleksic/food-ordering-system/internal/worker"
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

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	dishRepo := repository.NewDishRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	transitionRepo := repository.NewTransitionRepository(pool)
	errorRepo := repository.NewErrorRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg.Auth, userRepo)
	userService := service.NewUserService(userRepo, cfg.Auth.BcryptCost)
	dishService := service.NewDishService(dishRepo, redis, cfg.Redis.DishCacheTTL(), logger)
	orderService := service.NewOrderService(orderRepo, dishRepo, transitionRepo, dispatcher, logger, cfg.Scheduler.MaxSimultaneousOrders)
	errorService := service.NewErrorService(errorRepo, dispatcher, logger)

	if err := userService.BootstrapAdmin(ctx, cfg.Auth.BootstrapAdminEmail, cfg.Auth.BootstrapAdminPassword); err != nil {
		logger.Fatal("failed to bootstrap admin", zap.Error(err))
	}

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	scheduler := worker.NewScheduler(orderService, logger,
		cfg.Scheduler.ScheduledOrdersInterval(), cfg.Scheduler.StatusTransitionsInterval())
	scheduler.Start(ctx)
	defer scheduler.Stop()

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Orders:         handlers.NewOrdersHandler(orderService),
		Dishes:         handlers.NewDishesHandler(dishService),
		Errors:         handlers.NewErrorsHandler(errorService),
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
