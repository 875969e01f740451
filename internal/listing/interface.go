package listing

import (
	"botlist/pkg/domain"
	"context"
)

//go:generate mockgen -package mocklisting -source=interface.go -destination=mock/mocklisting.go *
type Service interface {
	Submit(ctx context.Context, principal domain.Principal, payload Payload) (*domain.Listing, error)
	Edit(ctx context.Context, principal domain.Principal, ID domain.ListingID, payload Payload) (*domain.Listing, error)
	Delete(ctx context.Context, principal domain.Principal, ID domain.ListingID) (*domain.Listing, error)
	Approve(ctx context.Context, ID domain.ListingID) (*domain.Listing, error)

	Listing(ctx context.Context, ID domain.ListingID) (*domain.Listing, error)
	ListApproved(ctx context.Context) ([]domain.Listing, error)
	ListQueued(ctx context.Context) ([]domain.Listing, error)
	ListAll(ctx context.Context) ([]domain.Listing, error)
	ListOwnedBy(ctx context.Context, principalID domain.PrincipalID) (*domain.OwnedListings, error)
}
