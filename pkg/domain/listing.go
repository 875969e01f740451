package domain

import "time"

// ListingID is the external identifier of a listing. It equals the numeric id
// of the listed service account and doubles as the primary key.
type ListingID string

// Mention renders the listed account in the chat mention format.
func (id ListingID) Mention() string {
	return "<@" + string(id) + ">"
}

// ListingStatus is the derived moderation state of a stored listing.
type ListingStatus string

const (
	// ListingStatusPending indicates the listing awaits moderation.
	ListingStatusPending ListingStatus = "PENDING"
	// ListingStatusApproved indicates the listing is publicly visible.
	ListingStatusApproved ListingStatus = "APPROVED"
)

// Listing is a moderated directory entry describing a third-party service account.
type Listing struct {
	// ID is the listed account id.
	ID ListingID `json:"id"`

	// Invite is the URL used to add the service account to a community.
	Invite string `json:"invite"`
	// Prefix is the command prefix the service account responds to.
	Prefix string `json:"prefix"`
	// ShortDescription is the one-line summary shown on cards.
	ShortDescription string `json:"shortDescription"`
	// LongDescription is the full description shown on the detail page.
	LongDescription string `json:"longDescription"`

	// OwnerID is the member that submitted the listing. It never changes.
	OwnerID PrincipalID `json:"ownerId"`
	// AdditionalOwnerIDs are secondary owners recorded at submission time.
	AdditionalOwnerIDs []PrincipalID `json:"additionalOwnerIds"`

	// Username, Discriminator and Avatar snapshot the listed account's identity.
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	Avatar        string `json:"avatar"`

	// Approved is flipped once by a moderator and never reverts.
	Approved bool `json:"approved"`
	// AddedAt is when the listing was submitted.
	AddedAt time.Time `json:"addedAt"`
	// UpdatedAt is when the listing content was last edited; zero if never.
	UpdatedAt time.Time `json:"updatedAt"`
}

// Status returns the moderation state of the listing.
func (l *Listing) Status() ListingStatus {
	if l.Approved {
		return ListingStatusApproved
	}

	return ListingStatusPending
}

// OwnedListings groups the listings of a single owner by moderation state.
type OwnedListings struct {
	Approved []Listing
	Pending  []Listing
}
