package main

import (
	"botlist/internal/api"
	"botlist/internal/api/handler/v1handler"
	"botlist/internal/config"
	"botlist/internal/listing"
	"botlist/internal/worker"
	"botlist/pkg/discord"
	"botlist/pkg/logger"
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func setupServer(ctx context.Context, cfg *config.Config, listings listing.Service) func(ctx context.Context) {
	server, err := api.NewServer(api.Deps{
		Deps: v1handler.Deps{Listings: listings},
	}, api.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create webserver", zap.Error(err))
	}

	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

func setupWorkers(ctx context.Context,
	cfg *config.Config,
	pool *pgxpool.Pool,
	client discord.Client) func(ctx context.Context) {
	riverClient, err := worker.Start(ctx, pool, client, worker.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not start workers", zap.Error(err))
	}

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping workers...")
		if err := riverClient.Stop(ctx); err != nil {
			logger.Error(ctx, "could not stop workers", zap.Error(err))
		}
	}
}

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts API server and background workers",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			client := getDiscord(cfg)
			listings := getListingService(ctx, cfg, strg, client)

			stopWorkers := setupWorkers(context.WithoutCancel(ctx), cfg, strg.Pool, client)
			stopWebserver := setupServer(ctx, cfg, listings)

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)
			stopWorkers(shutdownCtx)
		},
	}

	return cmd
}
