package postgres

import (
	"botlist/pkg/domain"
	"botlist/pkg/storage"
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	listingsTable = "listings"
)

// isUniqueViolation reports whether err was raised by a unique or primary key
// constraint.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// InsertListing stores a new listing. The primary key on id is what guarantees
// that concurrent submissions of the same account produce a single row.
func (p *PgSQL) InsertListing(ctx context.Context, listing domain.Listing) (*domain.Listing, error) {
	var row PgListing
	if err := row.FromDomain(listing); err != nil {
		return nil, err
	}

	var result PgListing
	if _, err := p.Builder.Insert(listingsTable).
		Rows(row).
		Returning(&PgListing{}).
		Executor().ScanStructContext(ctx, &result); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("could not store listing %s: %w", listing.ID, storage.ErrDuplicateKey)
		}

		return nil, fmt.Errorf("could not store listing into pg: %w", err)
	}

	return result.ToDomain()
}

// ListingByID returns a listing by its ID, or nil when it does not exist.
func (p *PgSQL) ListingByID(ctx context.Context, id domain.ListingID) (*domain.Listing, error) {
	var row PgListing
	found, err := p.Builder.From(listingsTable).
		Where(goqu.I("id").Eq(string(id))).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch listing by id: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}

// UpdateListing sets the content fields of a listing and bumps updated_at.
func (p *PgSQL) UpdateListing(ctx context.Context,
	id domain.ListingID,
	updates storage.ListingUpdates) (*domain.Listing, error) {
	rec := goqu.Record{
		"prefix":            updates.Prefix,
		"short_description": updates.ShortDescription,
		"long_description":  updates.LongDescription,
		"updated_at":        goqu.L("CURRENT_TIMESTAMP"),
	}
	if updates.Invite != nil {
		rec["invite"] = *updates.Invite
	}

	var row PgListing
	found, err := p.Builder.Update(listingsTable).
		Set(rec).
		Where(goqu.I("id").Eq(string(id))).
		Returning(&PgListing{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not update listing in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}

// ApproveListing flips approved to true for a pending listing. Approved
// listings are never flipped back.
func (p *PgSQL) ApproveListing(ctx context.Context, id domain.ListingID) (*domain.Listing, error) {
	var row PgListing
	found, err := p.Builder.Update(listingsTable).
		Set(goqu.Record{"approved": true}).
		Where(
			goqu.I("id").Eq(string(id)),
			goqu.I("approved").IsFalse(),
		).
		Returning(&PgListing{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not approve listing in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}

// DeleteListing removes a listing and returns the deleted row.
func (p *PgSQL) DeleteListing(ctx context.Context, id domain.ListingID) (*domain.Listing, error) {
	var row PgListing
	found, err := p.Builder.Delete(listingsTable).
		Where(goqu.I("id").Eq(string(id))).
		Returning(&PgListing{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not delete listing in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}

// ListingsByApproval returns listings with the given approval flag, oldest first.
func (p *PgSQL) ListingsByApproval(ctx context.Context, approved bool) ([]domain.Listing, error) {
	return p.selectListings(ctx, "approval",
		p.Builder.From(listingsTable).
			Where(goqu.I("approved").Eq(approved)).
			Order(goqu.I("added_at").Asc(), goqu.I("id").Asc()))
}

// ListingsByOwner returns listings whose primary owner is ownerID, oldest first.
func (p *PgSQL) ListingsByOwner(ctx context.Context, ownerID domain.PrincipalID) ([]domain.Listing, error) {
	return p.selectListings(ctx, "owner",
		p.Builder.From(listingsTable).
			Where(goqu.I("owner_id").Eq(string(ownerID))).
			Order(goqu.I("added_at").Asc(), goqu.I("id").Asc()))
}

// AllListings returns every listing without any particular ordering.
func (p *PgSQL) AllListings(ctx context.Context) ([]domain.Listing, error) {
	return p.selectListings(ctx, "all", p.Builder.From(listingsTable))
}

func (p *PgSQL) selectListings(ctx context.Context, by string, ds *goqu.SelectDataset) ([]domain.Listing, error) {
	var rows []PgListing
	if err := ds.Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch listings by %s from pg: %w", by, err)
	}

	return pgListingsToDomain(rows)
}
