// Package worker runs the background jobs emitted by the listing workflow.
package worker

import (
	"botlist/internal/config"
	"botlist/pkg/discord"
	"botlist/pkg/domain"
	"botlist/pkg/logger"
	"botlist/pkg/serrors"
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"go.uber.org/zap"
)

// Options configure the queue client.
type Options struct {
	// MaxWorkers is the number of jobs processed concurrently.
	MaxWorkers int
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{MaxWorkers: cfg.Jobs.MaxWorkers}
}

// Start registers the workers and starts a River client processing the default queue.
func Start(ctx context.Context,
	dbPool *pgxpool.Pool,
	client discord.Client,
	opts Options) (*river.Client[pgx.Tx], error) {
	workers := river.NewWorkers()
	river.AddWorker(workers, NewAuditWorker(client, client))
	river.AddWorker(workers, NewRemoveMemberWorker(client, client))

	riverClient, err := river.NewClient(riverpgxv5.New(dbPool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: opts.MaxWorkers},
		},
		Workers: workers,
		Logger:  logger.Slog(ctx, "river"),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create river queue client: %w", err)
	}

	if err := riverClient.Start(ctx); err != nil {
		return nil, fmt.Errorf("could not start river queue client: %w", err)
	}

	return riverClient, nil
}

// actorName resolves the display name of an actor, falling back to its mention
// when the account cannot be resolved.
func actorName(ctx context.Context, accounts discord.IdentityResolver, ID domain.PrincipalID) string {
	account, err := accounts.FetchAccount(ctx, string(ID))
	if err != nil {
		logger.Warn(ctx, "could not resolve actor", zap.String("actorID", string(ID)), zap.Error(err))

		return ID.Mention()
	}

	return account.Tag()
}

// jobError maps a platform error to the River outcome: rate limits snooze the
// job, permanent failures cancel it and anything else is retried.
func jobError(ctx context.Context, err error, msg string) error {
	var rl *discord.RateLimitedError
	if errors.As(err, &rl) {
		logger.Warn(ctx, "rate limited", zap.Duration("retryAfter", rl.RetryAfter))

		return river.JobSnooze(rl.RetryAfter) //nolint: wrapcheck
	}

	logger.Error(ctx, msg, zap.Error(err))

	if errors.Is(err, serrors.ErrNotFound) || errors.Is(err, serrors.ErrForbidden) {
		return river.JobCancel(err) //nolint: wrapcheck
	}

	return fmt.Errorf("%s: %w", msg, err)
}
