package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/haimle/botshop/internal/bootstrap"
	"github.com/haimle/botshop/internal/controller"
	"github.com/haimle/botshop/internal/repository/cache"
	"github.com/haimle/botshop/internal/repository/postgres"
	"github.com/haimle/botshop/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap failed: %v\n", err)
		os.Exit(1)
	}
	defer app.Close(context.Background())

	cfg := app.Config

	// Repositories
	orderRepo := postgres.NewOrderRepository(app.Pool)
	codeRepo := postgres.NewCodeRepository(app.Pool)
	logRepo := postgres.NewPaymentLogRepository(app.Pool)
	txManager := postgres.NewTxManager(app.Pool)

	// The catalog read path goes through Redis; everything else hits Postgres.
	productRepo := cache.NewProductRepository(
		postgres.NewProductRepository(app.Pool),
		app.Redis,
		cfg.Redis.CacheTTL,
		app.Logger,
	)

	// Services
	orderSvc := service.NewOrderService(orderRepo, productRepo, codeRepo, service.BankTransferConfig{
		Account:  cfg.SePay.BankAccount,
		BankCode: cfg.SePay.BankCode,
	}, app.Logger)
	fulfillmentSvc := service.NewFulfillmentService(orderRepo, productRepo, codeRepo, logRepo, txManager, app.Metrics, app.Logger)
	inventorySvc := service.NewInventoryService(productRepo, codeRepo, app.Logger)

	// HTTP layer
	router := controller.NewRouter(controller.RouterDeps{
		Config:   cfg,
		Metrics:  app.Metrics,
		Registry: app.Registry,
		Health:   controller.NewHealthController(app.Pool, app.Redis),
		Orders:   controller.NewOrderController(orderSvc, app.Metrics),
		Products: controller.NewProductController(productRepo, inventorySvc),
		Webhooks: controller.NewWebhookController(fulfillmentSvc, cfg.SePay.WebhookSecret, app.Metrics, app.Logger),
		Admin:    controller.NewAdminController(orderSvc, inventorySvc, app.Logger),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.Logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		app.Logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		app.Logger.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
	app.Logger.Info().Msg("server stopped")
}
