package postgres

import (
	"botlist/pkg/domain"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// PgListing is the row representation of a listing in the listings table.
type PgListing struct {
	ID string `db:"id"`

	Invite           string `db:"invite"`
	Prefix           string `db:"prefix"`
	ShortDescription string `db:"short_description"`
	LongDescription  string `db:"long_description"`

	OwnerID            string          `db:"owner_id"`
	AdditionalOwnerIDs json.RawMessage `db:"additional_owner_ids"`

	Username      string         `db:"username"`
	Discriminator string         `db:"discriminator"`
	Avatar        sql.NullString `db:"avatar"`

	Approved  bool         `db:"approved"`
	AddedAt   time.Time    `db:"added_at"`
	UpdatedAt sql.NullTime `db:"updated_at" goqu:"skipinsert"`
}

func (p *PgListing) ToDomain() (*domain.Listing, error) {
	var owners []domain.PrincipalID
	if len(p.AdditionalOwnerIDs) > 0 {
		if err := json.Unmarshal(p.AdditionalOwnerIDs, &owners); err != nil {
			return nil, fmt.Errorf("could not unmarshal additional owners: %w", err)
		}
	}

	return &domain.Listing{
		ID:                 domain.ListingID(p.ID),
		Invite:             p.Invite,
		Prefix:             p.Prefix,
		ShortDescription:   p.ShortDescription,
		LongDescription:    p.LongDescription,
		OwnerID:            domain.PrincipalID(p.OwnerID),
		AdditionalOwnerIDs: owners,
		Username:           p.Username,
		Discriminator:      p.Discriminator,
		Avatar:             p.Avatar.String,
		Approved:           p.Approved,
		AddedAt:            p.AddedAt,
		UpdatedAt:          p.UpdatedAt.Time,
	}, nil
}

func (p *PgListing) FromDomain(listing domain.Listing) error {
	owners := listing.AdditionalOwnerIDs
	if owners == nil {
		owners = []domain.PrincipalID{}
	}
	additional, err := json.Marshal(owners)
	if err != nil {
		return fmt.Errorf("could not marshal additional owners: %w", err)
	}

	*p = PgListing{
		ID:                 string(listing.ID),
		Invite:             listing.Invite,
		Prefix:             listing.Prefix,
		ShortDescription:   listing.ShortDescription,
		LongDescription:    listing.LongDescription,
		OwnerID:            string(listing.OwnerID),
		AdditionalOwnerIDs: additional,
		Username:           listing.Username,
		Discriminator:      listing.Discriminator,
		Avatar: sql.NullString{
			String: listing.Avatar,
			Valid:  listing.Avatar != "",
		},
		Approved: listing.Approved,
		AddedAt:  listing.AddedAt,
		UpdatedAt: sql.NullTime{
			Time:  listing.UpdatedAt,
			Valid: !listing.UpdatedAt.IsZero(),
		},
	}

	return nil
}

func pgListingsToDomain(listings []PgListing) ([]domain.Listing, error) {
	out := make([]domain.Listing, 0, len(listings))
	for _, listing := range listings {
		d, err := listing.ToDomain()
		if err != nil {
			return nil, err
		}

		out = append(out, *d)
	}

	return out, nil
}
