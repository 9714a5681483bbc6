package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/modamarket/backend/api/routes"
	"github.com/modamarket/backend/internal/auth"
	"github.com/modamarket/backend/internal/board"
	"github.com/modamarket/backend/internal/cart"
	"github.com/modamarket/backend/internal/checkout"
	"github.com/modamarket/backend/internal/orders"
	"github.com/modamarket/backend/internal/prelogin"
	"github.com/modamarket/backend/internal/products"
	"github.com/modamarket/backend/internal/register"
	"github.com/modamarket/backend/internal/stock"
	"github.com/modamarket/backend/internal/users"
	"github.com/modamarket/backend/pkg/auth/session"
	"github.com/modamarket/backend/pkg/config"
	"github.com/modamarket/backend/pkg/db"
	"github.com/modamarket/backend/pkg/logger"
	"github.com/modamarket/backend/pkg/mail"
	"github.com/modamarket/backend/pkg/metrics"
	"github.com/modamarket/backend/pkg/migrate"
	"github.com/modamarket/backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	services, err := buildServices(cfg, logg, dbClient, redisClient, sessionManager)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
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
	logg.Info(ctx, "starting storefront api")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, services),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "storefront api stopped unexpectedly", err)
			closeClients(ctx, logg, dbClient, redisClient)
			os.Exit(1)
		}
	case <-stopCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}

	closeClients(ctx, logg, dbClient, redisClient)
	logg.Info(ctx, "storefront api stopped")
}

func closeClients(ctx context.Context, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client) {
	err := multierr.Combine(dbClient.Close(), redisClient.Close())
	if err != nil {
		logg.Error(ctx, "error closing clients", err)
	}
}

func buildServices(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	sessionManager *session.Manager,
) (routes.Services, error) {
	conn := dbClient.DB()

	userRepo := users.NewRepository(conn)
	productRepo := products.NewRepository(conn)
	cartRepo := cart.NewRepository(conn)
	orderRepo := orders.NewRepository(conn)
	boardRepo := board.NewRepository(conn)

	productService, err := products.NewService(productRepo)
	if err != nil {
		return routes.Services{}, err
	}

	cartService, err := cart.NewService(cartRepo, dbClient, productService, userRepo, cfg.Checkout.ShippingFee, cfg.Checkout.MinBonusPointUse)
	if err != nil {
		return routes.Services{}, err
	}

	reconciler, err := stock.NewReconciler(productRepo, logg)
	if err != nil {
		return routes.Services{}, err
	}

	orderService, err := orders.NewService(orderRepo, dbClient, userRepo, cfg.Checkout.ShippingFee, cfg.Checkout.MinBonusPointUse, cfg.Checkout.OrderSheetPath)
	if err != nil {
		return routes.Services{}, err
	}

	checkoutMetrics := metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer)
	orchestrator, err := checkout.NewOrchestrator(reconciler, orderService, checkoutMetrics, logg)
	if err != nil {
		return routes.Services{}, err
	}

	preloginService, err := prelogin.NewService(redisClient, cfg.Prelogin.StashTTL)
	if err != nil {
		return routes.Services{}, err
	}

	authService, err := auth.NewService(userRepo, redisClient, sessionManager, cfg.JWT, cfg.Lockout, logg)
	if err != nil {
		return routes.Services{}, err
	}

	sender, err := buildMailSender(cfg, logg)
	if err != nil {
		return routes.Services{}, err
	}
	registerService, err := register.NewService(userRepo, redisClient, sender, cfg.Password, cfg.Mail)
	if err != nil {
		return routes.Services{}, err
	}

	boardService, err := board.NewService(boardRepo)
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:     authService,
		Register: registerService,
		Prelogin: preloginService,
		Products: productService,
		Cart:     cartService,
		Stock:    reconciler,
		Checkout: orchestrator,
		Orders:   orderService,
		Board:    boardService,
	}, nil
}

// buildMailSender falls back to log-only delivery when no SMTP relay is
// configured, which keeps local development free of mail infrastructure.
func buildMailSender(cfg *config.Config, logg *logger.Logger) (mail.Sender, error) {
	if cfg.Mail.SMTPAddr == "" || cfg.App.IsDev() {
		return mail.NewLogSender(logg), nil
	}
	smtp, err := mail.NewSMTPSender(cfg.Mail.SMTPAddr, cfg.Mail.From)
	if err != nil {
		return nil, err
	}
	return mail.NewRetrying(smtp, cfg.Mail)
}
