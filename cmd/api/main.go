package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mokolo-app/mokolo-backend/api/routes"
	"github.com/mokolo-app/mokolo-backend/internal/analytics"
	"github.com/mokolo-app/mokolo-backend/internal/auth"
	"github.com/mokolo-app/mokolo-backend/internal/listings"
	"github.com/mokolo-app/mokolo-backend/internal/media"
	"github.com/mokolo-app/mokolo-backend/internal/notifications"
	"github.com/mokolo-app/mokolo-backend/internal/payments"
	"github.com/mokolo-app/mokolo-backend/internal/plans"
	"github.com/mokolo-app/mokolo-backend/internal/quota"
	"github.com/mokolo-app/mokolo-backend/internal/reviews"
	subscriptionsvc "github.com/mokolo-app/mokolo-backend/internal/subscriptions"
	"github.com/mokolo-app/mokolo-backend/internal/support"
	"github.com/mokolo-app/mokolo-backend/internal/users"
	"github.com/mokolo-app/mokolo-backend/pkg/auth/session"
	"github.com/mokolo-app/mokolo-backend/pkg/config"
	"github.com/mokolo-app/mokolo-backend/pkg/db"
	"github.com/mokolo-app/mokolo-backend/pkg/logger"
	"github.com/mokolo-app/mokolo-backend/pkg/metrics"
	"github.com/mokolo-app/mokolo-backend/pkg/migrate"
	"github.com/mokolo-app/mokolo-backend/pkg/momo"
	"github.com/mokolo-app/mokolo-backend/pkg/redis"
	"github.com/mokolo-app/mokolo-backend/pkg/storage/gcs"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap object storage", err)
		os.Exit(1)
	}
	defer func() {
		if err := gcsClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing object storage", err)
		}
	}()

	momoClient, err := momo.NewClient(context.Background(), cfg.MoMo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap mobile money client", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	quotaMetrics := metrics.NewQuotaMetrics(prometheus.DefaultRegisterer)
	guard := quota.NewGuard(quotaMetrics)

	usersRepo := users.NewRepository(dbClient.DB())
	usersService, err := users.NewService(usersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(usersRepo, sessionManager, redisClient, cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	plansService, err := plans.NewService(plans.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create plans service", err)
		os.Exit(1)
	}

	subscriptionsRepo := subscriptionsvc.NewRepository(dbClient.DB())
	subscriptionsService, err := subscriptionsvc.NewService(subscriptionsRepo, cfg.FeatureFlags, cfg.FreeAccess, quotaMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create subscriptions service", err)
		os.Exit(1)
	}

	listingsService, err := listings.NewService(listings.NewRepository(dbClient.DB()), subscriptionsService, subscriptionsRepo, guard, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create listings service", err)
		os.Exit(1)
	}

	mediaService, err := media.NewService(gcsClient, subscriptionsService, guard, cfg.Media, cfg.GCS)
	if err != nil {
		logg.Error(context.Background(), "failed to create media service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notifications.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	paymentsService, err := payments.NewService(payments.NewRepository(dbClient.DB()), plansService, subscriptionsService, momoClient, notificationsService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	reviewsService, err := reviews.NewService(reviews.NewRepository(dbClient.DB()), notificationsService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create reviews service", err)
		os.Exit(1)
	}

	supportService, err := support.NewService(support.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create support service", err)
		os.Exit(1)
	}

	analyticsService, err := analytics.NewService(analytics.NewRepository(dbClient.DB()), subscriptionsService)
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			gcsClient,
			sessionManager,
			authService,
			usersService,
			plansService,
			subscriptionsService,
			listingsService,
			mediaService,
			paymentsService,
			notificationsService,
			reviewsService,
			supportService,
			analyticsService,
		),
	}

	stopCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stopCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
			os.Exit(1)
		}
		logg.Info(ctx, "api server shutting down gracefully")
	}
}
