package storage

import (
	"botlist/pkg/domain"
	"context"
)

// ListingUpdates describes the content fields of a listing that an edit may
// change. Identity and ownership fields are deliberately absent.
type ListingUpdates struct {
	// Invite, when provided, replaces the stored invite URL.
	Invite *string
	// Prefix replaces the stored command prefix.
	Prefix string
	// ShortDescription replaces the stored short description.
	ShortDescription string
	// LongDescription replaces the stored long description.
	LongDescription string
}

// ListingStorage defines the keyed record operations on listings.
// Lookups return nil without an error when the listing does not exist.
type ListingStorage interface {
	// InsertListing stores a new listing and returns it as persisted. It returns
	// ErrDuplicateKey when a listing with the same ID already exists.
	InsertListing(ctx context.Context, listing domain.Listing) (*domain.Listing, error)
	// ListingByID fetches a listing by its ID.
	ListingByID(ctx context.Context, ID domain.ListingID) (*domain.Listing, error)
	// UpdateListing applies content updates to a listing and returns the updated
	// row, or nil if it does not exist. updated_at is set automatically.
	UpdateListing(ctx context.Context, ID domain.ListingID, updates ListingUpdates) (*domain.Listing, error)
	// ApproveListing marks a pending listing as approved and returns it, or nil
	// if no pending listing with the ID exists.
	ApproveListing(ctx context.Context, ID domain.ListingID) (*domain.Listing, error)
	// DeleteListing removes a listing and returns the removed row, or nil if it
	// did not exist.
	DeleteListing(ctx context.Context, ID domain.ListingID) (*domain.Listing, error)
	// ListingsByApproval returns all listings with the given approval flag,
	// ordered by added_at ascending.
	ListingsByApproval(ctx context.Context, approved bool) ([]domain.Listing, error)
	// ListingsByOwner returns all listings whose primary owner is ownerID,
	// ordered by added_at ascending.
	ListingsByOwner(ctx context.Context, ownerID domain.PrincipalID) ([]domain.Listing, error)
	// AllListings returns every stored listing in storage order.
	AllListings(ctx context.Context) ([]domain.Listing, error)
}
