package storage

import (
	"botlist/pkg/serrors"
	"errors"
)

// Common errors returned by storage implementations.
var (
	// ErrAlreadyInTx is returned when an operation requiring a non-transactional
	// context is attempted while already inside a transaction.
	ErrAlreadyInTx = errors.New("already in tx")
	// ErrNotInTx is returned when a transaction-specific operation is attempted
	// while not currently inside a transaction.
	ErrNotInTx = errors.New("not in tx")
	// ErrDuplicateKey is returned when inserting a record whose primary key is
	// already taken. It is the authoritative uniqueness check for listings.
	ErrDuplicateKey = serrors.Derive(serrors.ErrConflict, "DUPLICATE_KEY", false)
)
