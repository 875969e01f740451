package listing

import (
	"botlist/pkg/domain"
	"botlist/pkg/serrors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Payload holds the submitted form fields by name. A field is missing when its
// key is absent; an empty value counts as present.
type Payload map[string]string

// Field names accepted in a Payload.
const (
	FieldClientID  = "clientId"
	FieldPrefix    = "prefix"
	FieldShortDesc = "shortDesc"
	FieldLongDesc  = "longDesc"
	FieldInviteURL = "inviteUrl"
	FieldOwners    = "owners"
)

// MaxShortDescriptionLength is the longest accepted short description, in characters.
const MaxShortDescriptionLength = 150

// Mode selects the rule set applied by Validate.
type Mode struct {
	// IsNewSubmission additionally requires the invite URL and the owners field.
	IsNewSubmission bool
}

var (
	// SubmissionMode validates a new listing.
	SubmissionMode = Mode{IsNewSubmission: true}
	// EditMode validates the content fields of an existing listing.
	EditMode = Mode{}
)

// clientIDPattern matches a run of 17 to 21 digits that is not part of a
// longer run of digits.
var clientIDPattern = regexp.MustCompile(`(?:^|\D)(\d{17,21})(?:\D|$)`)

func requiredFields(mode Mode) []string {
	fields := []string{FieldClientID, FieldPrefix, FieldShortDesc, FieldLongDesc}
	if mode.IsNewSubmission {
		fields = append(fields, FieldInviteURL, FieldOwners)
	}

	return fields
}

// Validate checks the payload and returns the first violated rule.
func Validate(payload Payload, mode Mode) error {
	var missing []string
	for _, field := range requiredFields(mode) {
		if _, ok := payload[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return serrors.With(ErrMissingFields, "missing fields: %s", strings.Join(missing, ", "))
	}

	if _, ok := ExtractID(payload[FieldClientID]); !ok {
		return serrors.With(ErrInvalidIdentifier, "client id must contain a 17 to 21 digit account id")
	}

	if len(payload[FieldPrefix]) < 1 {
		return serrors.With(ErrPrefixTooShort, "prefix must be at least 1 character long")
	}

	if utf8.RuneCountInString(payload[FieldShortDesc]) > MaxShortDescriptionLength {
		return serrors.With(ErrDescriptionTooLong,
			"short description must be at most %d characters long", MaxShortDescriptionLength)
	}

	return nil
}

// ExtractID returns the first 17 to 21 digit account id found in s.
func ExtractID(s string) (domain.ListingID, bool) {
	m := clientIDPattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}

	return domain.ListingID(m[1]), true
}

// ParseOwners splits a whitespace separated list of additional owner ids,
// dropping duplicates and the primary owner.
func ParseOwners(raw string, primary domain.PrincipalID) []domain.PrincipalID {
	seen := map[domain.PrincipalID]bool{primary: true}
	owners := []domain.PrincipalID{}
	for _, token := range strings.Fields(raw) {
		id := domain.PrincipalID(token)
		if seen[id] {
			continue
		}
		seen[id] = true
		owners = append(owners, id)
	}

	return owners
}
