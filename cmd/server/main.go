// Command server runs the MarketGreen HTTP API: a thin proxy translating
// REST calls into Supabase auth and PostgREST operations.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marketgreen/api/internal/api"
	"github.com/marketgreen/api/internal/auth"
	"github.com/marketgreen/api/internal/config"
	"github.com/marketgreen/api/internal/logging"
	"github.com/marketgreen/api/internal/metrics"
	"github.com/marketgreen/api/internal/middleware"
	"github.com/marketgreen/api/internal/store"
	"github.com/marketgreen/api/internal/supabase"
)

var version = "dev"

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	var logger *logging.Logger
	if cfg.Logging.Pretty {
		logger = logging.NewConsole(cfg.Logging.Level, "marketgreen-api")
	} else {
		logger = logging.New(os.Stdout, cfg.Logging.Level, "marketgreen-api")
	}

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Error("server exited with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *logging.Logger) error {
	client, err := supabase.New(supabase.Config{
		ProjectURL: cfg.Supabase.URL,
		AnonKey:    cfg.Supabase.AnonKey,
		ServiceKey: cfg.Supabase.ServiceKey,
	})
	if err != nil {
		return fmt.Errorf("supabase client: %w", err)
	}

	profiles := store.NewProfiles(client)
	products := store.NewProducts(client)
	orders := store.NewOrders(client)

	gate := auth.NewGate(client.Auth(), profiles, cfg.Supabase.JWTSecret, logger)
	m := metrics.New("marketgreen")

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		defer limiter.Stop()
	}

	router := api.NewRouter(api.RouterConfig{
		Auth:        api.NewAuthHandler(client.Auth(), profiles, logger),
		Users:       api.NewUsersHandler(profiles),
		Products:    api.NewProductsHandler(products),
		Orders:      api.NewOrdersHandler(orders),
		Gate:        gate,
		Logger:      logger,
		Metrics:     m,
		Version:     version,
		RateLimiter: limiter,
	}, !cfg.IsProduction())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(map[string]interface{}{
			"port":        cfg.Server.Port,
			"environment": cfg.Server.Environment,
			"version":     version,
		}).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.WithFields(map[string]interface{}{"signal": sig.String()}).Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
