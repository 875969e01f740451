package listing

import "botlist/pkg/serrors"

// Workflow error kinds. Each derives from a generic serrors kind, which decides
// the HTTP status, and tells the caller whether correcting the request can help.
var (
	ErrMissingFields      = serrors.Derive(serrors.ErrBadRequest, "MISSING_FIELDS", true)
	ErrInvalidIdentifier  = serrors.Derive(serrors.ErrBadRequest, "INVALID_IDENTIFIER", true)
	ErrPrefixTooShort     = serrors.Derive(serrors.ErrBadRequest, "PREFIX_TOO_SHORT", true)
	ErrDescriptionTooLong = serrors.Derive(serrors.ErrBadRequest, "DESCRIPTION_TOO_LONG", true)
	ErrUnknownAccount     = serrors.Derive(serrors.ErrBadRequest, "UNKNOWN_ACCOUNT", true)
	ErrNotAServiceAccount = serrors.Derive(serrors.ErrBadRequest, "NOT_A_SERVICE_ACCOUNT", true)

	ErrUnauthenticated = serrors.Derive(serrors.ErrUnauthorized, "UNAUTHENTICATED", true)

	ErrAlreadyListed = serrors.Derive(serrors.ErrConflict, "ALREADY_LISTED", false)

	ErrNotACommunityMember = serrors.Derive(serrors.ErrForbidden, "NOT_A_COMMUNITY_MEMBER", false)
	ErrNotOwner            = serrors.Derive(serrors.ErrForbidden, "NOT_OWNER", false)
	ErrForbidden           = serrors.Derive(serrors.ErrForbidden, "NOT_ALLOWED", false)

	ErrNotFound = serrors.Derive(serrors.ErrNotFound, "LISTING_NOT_FOUND", false)
)
