package worker

import (
	"botlist/internal/listing"
	"botlist/pkg/discord"
	"botlist/pkg/logger"
	"botlist/pkg/serrors"
	"context"
	"errors"

	"github.com/riverqueue/river"
	"go.uber.org/zap"
)

// RemoveMemberWorker removes the account of a deleted listing from the community.
type RemoveMemberWorker struct {
	river.WorkerDefaults[listing.RemoveMemberJobArgs]

	accounts discord.IdentityResolver
	members  discord.Membership
}

// NewRemoveMemberWorker constructs a RemoveMemberWorker.
func NewRemoveMemberWorker(accounts discord.IdentityResolver, members discord.Membership) *RemoveMemberWorker {
	return &RemoveMemberWorker{
		accounts: accounts,
		members:  members,
	}
}

// Work removes the account if it is still a member. An account that already
// left counts as done.
func (w *RemoveMemberWorker) Work(ctx context.Context, job *river.Job[listing.RemoveMemberJobArgs]) error {
	ctx = logger.WithFields(ctx,
		zap.Int64("jobID", job.ID),
		zap.String("accountID", string(job.Args.AccountID)))

	member, err := w.members.IsMember(ctx, string(job.Args.AccountID))
	if err != nil {
		return jobError(ctx, err, "could not check membership")
	}
	if !member {
		logger.Info(ctx, "account is not a member, nothing to remove")

		return nil
	}

	reason := listing.RemovalReason(actorName(ctx, w.accounts, job.Args.ActorID))
	if err := w.members.RemoveMember(ctx, string(job.Args.AccountID), reason); err != nil {
		if errors.Is(err, serrors.ErrNotFound) {
			return nil
		}

		return jobError(ctx, err, "could not remove member")
	}

	logger.Info(ctx, "member removed", zap.String("reason", reason))

	return nil
}
