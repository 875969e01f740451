// Package main provides the CLI entrypoint for the bot directory.
// It wires subcommands (serve, migrate, jwt, approve), loads configuration, and initializes logging.
package main

import (
	"botlist/internal/config"
	"botlist/internal/listing"
	"botlist/pkg/discord"
	"botlist/pkg/logger"
	"botlist/pkg/metrics"
	"botlist/pkg/storage/postgres"
	"context"
	"errors"
	"flag"
	"io/fs"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

// getPostgres creates a PostgreSQL client using configuration values and returns it
// along with a cleanup function to close the connection pool.
func getPostgres(ctx context.Context, cfg *config.Config) (*postgres.PgSQL, func()) {
	pgsql, err := postgres.New(ctx, postgres.Options{
		Username:           cfg.Database.Username,
		Password:           cfg.Database.Password,
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		Database:           cfg.Database.DatabaseName,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime:    cfg.Database.ConnMaxIdleTime,
		MaxOpenConnections: cfg.Database.MaxOpenConnections,
		MaxIdleConnections: cfg.Database.MaxIdleConnections,
		SslMode:            cfg.Database.SslMode,
	})
	if err != nil {
		logger.Fatal(ctx, "could not create postgres storage", zap.Error(err))
	}

	return pgsql, func() {
		logger.Info(ctx, "closing postgres client...")
		if err = pgsql.Close(); err != nil {
			logger.Warn(ctx, "could not close postgres connection", zap.Error(err))
		}
	}
}

// getDiscord creates the platform REST client used for identity, membership
// and notifications.
func getDiscord(cfg *config.Config) *discord.RESTClient {
	return discord.New(&http.Client{Timeout: cfg.Discord.Timeout}, discord.Options{
		BaseURL: cfg.Discord.BaseURL,
		Token:   cfg.Discord.Token,
		GuildID: cfg.Community.GuildID,
	})
}

// getListingService wires the listing workflow to its collaborators.
func getListingService(ctx context.Context,
	cfg *config.Config,
	strg *postgres.PgSQL,
	client discord.Client) listing.Service {
	svc, err := listing.New(strg, client, client, listing.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create listing service", zap.Error(err))
	}

	return svc
}

// main sets up the root Cobra command, loads configuration and logging, and
// registers subcommands before executing the CLI.
func main() {
	rootCmd := &cobra.Command{
		Use: "botlist",
	}

	// there is no way to access flags before command execution in cobra.
	// configPath here is parsed using the standard flags package.
	// following line is just added to prevent errors when Cobra is parsing the flags.
	rootCmd.PersistentFlags().StringP("config", "c", "config.yml", "Config File Path")

	configPath := flag.String("c", "config.yml", "The config file path")
	flag.Parse()

	// values from a local .env file become environment variables before the
	// config is read, so env overrides in it apply.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatal("could not load .env file", err)
	}

	log.Println("loading config ...")
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("could not load config file", err)
	}

	logger.Setup(cfg.Environment)

	ctx := context.Background()

	tp := metrics.NewTracerProvider()
	otel.SetTracerProvider(tp)
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn(ctx, "could not shutdown tracer provider", zap.Error(err))
		}
	}()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			_ = logger.Get(ctx).Sync()

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		migrateCommand(cfg),
		serveCommand(cfg),
		JWTCommand(cfg),
		approveCommand(cfg),
	)

	err = rootCmd.Execute()
	_ = logger.Get(ctx).Sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}
