package domain

import "regexp"

// PrincipalID identifies an authenticated member of the controlling community.
// It is the member's numeric account id rendered as a string.
type PrincipalID string

var principalIDPattern = regexp.MustCompile(`^\d{17,21}$`)

// Valid reports whether p is a 17 to 21 digit account id.
func (p PrincipalID) Valid() bool {
	return principalIDPattern.MatchString(string(p))
}

// RoleID identifies a role held by a member of the controlling community.
type RoleID string

// Principal is the authenticated actor performing a workflow operation.
// The zero value represents an anonymous (unauthenticated) caller.
type Principal struct {
	ID PrincipalID
}

// Authenticated reports whether the principal carries an identity.
func (p Principal) Authenticated() bool {
	return p.ID != ""
}

// Mention renders the principal in the chat mention format, used wherever a
// resolved username is not available.
func (p PrincipalID) Mention() string {
	return "<@" + string(p) + ">"
}

// Account is the profile of an account as reported by the identity provider.
type Account struct {
	// ID is the numeric account id.
	ID string
	// Username is the account's current username.
	Username string
	// Discriminator is the legacy four digit tag ("0" for migrated accounts).
	Discriminator string
	// Avatar is the avatar hash; empty when the account uses a default avatar.
	Avatar string
	// ServiceAccount is true for automated (bot) accounts.
	ServiceAccount bool
}

// Tag renders the account as "username#discriminator", or just the username
// for accounts without a legacy discriminator.
func (a *Account) Tag() string {
	if a.Discriminator == "" || a.Discriminator == "0" {
		return a.Username
	}

	return a.Username + "#" + a.Discriminator
}
