package listing

import (
	"botlist/pkg/domain"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

// AuditAction is the verb recorded in an audit message.
type AuditAction string

const (
	ActionAdded    AuditAction = "added"
	ActionEdited   AuditAction = "edited"
	ActionDeleted  AuditAction = "deleted"
	ActionApproved AuditAction = "approved"
)

// AuditJobArgs describes a one-line audit message for the operations channel.
type AuditJobArgs struct {
	ChannelID   string             `json:"channel_id"`
	ActorID     domain.PrincipalID `json:"actor_id"`
	Action      AuditAction        `json:"action"`
	ListingID   domain.ListingID   `json:"listing_id"`
	ListingName string             `json:"listing_name"`

	// MaxAttempts configures how many times River retries delivery.
	MaxAttempts int `json:"-"`
}

// Kind returns the River job kind used to register and dispatch the audit worker.
func (args AuditJobArgs) Kind() string { return "ListingAuditJob" }

// InsertOpts returns the River options used when enqueueing the job.
func (args AuditJobArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{MaxAttempts: args.MaxAttempts}
}

// Message renders the audit line. actor is the resolved display name of the
// actor, or its mention when it could not be resolved.
func (args AuditJobArgs) Message(actor string) string {
	subject := args.ListingName + " (" + args.ListingID.Mention() + ")"
	if args.Action == ActionApproved {
		return subject + " was approved"
	}

	return actor + " " + string(args.Action) + " " + subject
}

// RemoveMemberJobArgs asks for the listed account to be removed from the
// community after its listing was deleted.
type RemoveMemberJobArgs struct {
	// AccountID is the unique key while a removal for the account is unfinished.
	AccountID domain.ListingID   `json:"account_id" river:"unique"`
	ActorID   domain.PrincipalID `json:"actor_id"`

	// MaxAttempts configures how many times River retries the removal.
	MaxAttempts int `json:"-"`
}

// Kind returns the River job kind used to register and dispatch the removal worker.
func (args RemoveMemberJobArgs) Kind() string { return "RemoveMemberJob" }

// removalUniqueStates excludes finalized jobs, so an account that was listed
// again after an earlier removal completed is removed again.
var removalUniqueStates = []rivertype.JobState{ //nolint: gochecknoglobals
	rivertype.JobStateAvailable,
	rivertype.JobStatePending,
	rivertype.JobStateRetryable,
	rivertype.JobStateRunning,
	rivertype.JobStateScheduled,
}

// InsertOpts returns the River options used when enqueueing the job.
func (args RemoveMemberJobArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		MaxAttempts: args.MaxAttempts,
		UniqueOpts: river.UniqueOpts{
			ByArgs:  true,
			ByState: removalUniqueStates,
		},
	}
}

// RemovalReason is recorded in the community audit log when the member is removed.
func RemovalReason(actor string) string {
	return "Removed by " + actor
}
