package worker

import (
	"botlist/internal/listing"
	"botlist/pkg/discord"
	"botlist/pkg/logger"
	"context"

	"github.com/riverqueue/river"
	"go.uber.org/zap"
)

// AuditWorker posts listing audit messages to the operations channel.
type AuditWorker struct {
	river.WorkerDefaults[listing.AuditJobArgs]

	accounts  discord.IdentityResolver
	messenger discord.Messenger
}

// NewAuditWorker constructs an AuditWorker.
func NewAuditWorker(accounts discord.IdentityResolver, messenger discord.Messenger) *AuditWorker {
	return &AuditWorker{
		accounts:  accounts,
		messenger: messenger,
	}
}

// Work resolves the actor and posts the message.
func (w *AuditWorker) Work(ctx context.Context, job *river.Job[listing.AuditJobArgs]) error {
	ctx = logger.WithFields(ctx,
		zap.Int64("jobID", job.ID),
		zap.String("listingID", string(job.Args.ListingID)),
		zap.String("action", string(job.Args.Action)))

	var actor string
	if job.Args.Action != listing.ActionApproved {
		actor = actorName(ctx, w.accounts, job.Args.ActorID)
	}

	if err := w.messenger.PostMessage(ctx, job.Args.ChannelID, job.Args.Message(actor)); err != nil {
		return jobError(ctx, err, "could not post audit message")
	}

	logger.Info(ctx, "audit message posted")

	return nil
}
