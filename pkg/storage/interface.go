// Package storage defines the listing store and job queue contracts the
// workflow depends on, plus transaction management. PostgreSQL is the only
// implementation.
//
//go:generate mockgen -package mockstorage -source=interface.go -destination=mock/mockstorage.go *
package storage

import "context"

// AllStorage groups the listing records and the outbound job queue so that a
// listing mutation and its jobs can share one transaction.
type AllStorage interface {
	ListingStorage
	JobStorage
}

// TxStorage is an AllStorage bound to an open transaction. It is unusable
// after Commit or Rollback.
type TxStorage interface {
	AllStorage

	// Commit finalizes the transaction, persisting all changes.
	Commit() error
	// Rollback aborts the transaction, discarding all uncommitted changes.
	Rollback() error
}

// Storage is the non-transactional handle. Each call runs in its own
// statement; Begin and WithTx group calls, e.g. approving a listing together
// with enqueueing its audit job.
type Storage interface {
	AllStorage

	// Close releases the underlying connection pool.
	Close() error

	// Begin starts a new transaction and returns a TxStorage that can be used to
	// perform further operations within that transaction.
	Begin(ctx context.Context) (TxStorage, error)
	// WithTx runs cb in a transaction, committing when cb returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, cb func(storage AllStorage) error) error
}
