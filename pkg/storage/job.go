package storage

import (
	"context"

	"github.com/riverqueue/river"
)

// JobStorage enqueues background jobs next to the rows they describe. When the
// handle is transactional the job becomes visible only if the transaction
// commits, so a notification is never sent for a rolled back mutation.
//
//	inserted, err := store.AddJob(ctx, listing.AuditJobArgs{Action: listing.ActionAdded, ...}, nil)
//
// inserted is false when a unique job with the same arguments already exists.
type JobStorage interface {
	// AddJob enqueues a job. It is atomic with the surrounding transaction, if any.
	AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error)
}
