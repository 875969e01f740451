package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

// AddJob enqueues a new River job using the underlying database handle.
//
// Behavior:
//   - If PgSQL is currently operating inside a transaction (DB is a *sql.Tx), the
//     job is inserted using InsertTx so that it participates in the surrounding
//     transaction and will only become visible upon a successful commit.
//   - Otherwise, the job is inserted directly through the pool, making the
//     operation immediately visible once the insert succeeds.
//
// It reports false when River skipped the insert as a duplicate of a unique job.
func (p *PgSQL) AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error) {
	if p.queue == nil {
		return false, fmt.Errorf("could not insert job %s: storage has no queue client", args.Kind())
	}

	var (
		res *rivertype.JobInsertResult
		err error
	)
	if tx, ok := p.DB.(*sql.Tx); ok {
		res, err = p.queue.InsertTx(ctx, tx, args, opts)
	} else {
		res, err = p.queue.Insert(ctx, args, opts)
	}
	if err != nil {
		return false, fmt.Errorf("could not insert job: %w", err)
	}

	return !res.UniqueSkippedAsDuplicate, nil
}
