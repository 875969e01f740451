// Package discord defines the collaborators the listing workflow consumes from
// the chat platform (identity lookups, community membership and the operations
// channel) and a REST implementation of them.
//
//go:generate mockgen -package mockdiscord -source=interface.go -destination=mock/mockdiscord.go *
package discord

import (
	"botlist/pkg/domain"
	"context"
)

// IdentityResolver translates a numeric account id into profile attributes.
type IdentityResolver interface {
	// FetchAccount returns the account profile. It returns an error matching
	// serrors.ErrNotFound when the account does not exist.
	FetchAccount(ctx context.Context, ID string) (*domain.Account, error)
}

// Membership answers questions about the controlling community.
type Membership interface {
	// IsMember reports whether the account is currently a member of the community.
	IsMember(ctx context.Context, ID string) (bool, error)
	// RolesOf returns the roles the account holds in the community. Non-members
	// hold no roles.
	RolesOf(ctx context.Context, ID string) ([]domain.RoleID, error)
	// RemoveMember removes the account from the community, recording reason in
	// the community's audit log.
	RemoveMember(ctx context.Context, ID string, reason string) error
}

// Messenger posts plain text messages to channels.
type Messenger interface {
	// PostMessage posts content to the channel. Mentions in content are rendered
	// but never notify anyone.
	PostMessage(ctx context.Context, channelID string, content string) error
}

// Client is the full set of platform capabilities used by the service.
type Client interface {
	IdentityResolver
	Membership
	Messenger
}
