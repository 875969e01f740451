package listing_test

import (
	"botlist/internal/listing"
	"botlist/pkg/domain"
	"botlist/pkg/serrors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func validPayload() listing.Payload {
	return listing.Payload{
		listing.FieldClientID:  "123456789012345678",
		listing.FieldPrefix:    "!",
		listing.FieldShortDesc: "A helpful bot",
		listing.FieldLongDesc:  "A very helpful bot with many commands",
		listing.FieldInviteURL: "https://discord.com/oauth2/authorize?client_id=123456789012345678&scope=bot",
		listing.FieldOwners:    "",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p listing.Payload)
		mode    listing.Mode
		kind    serrors.Kind
		message string
	}{
		{name: "valid submission", mutate: func(listing.Payload) {}, mode: listing.SubmissionMode},
		{
			name:   "valid edit without submission fields",
			mutate: func(p listing.Payload) { delete(p, listing.FieldInviteURL); delete(p, listing.FieldOwners) },
			mode:   listing.EditMode,
		},
		{
			name:    "missing submission fields",
			mutate:  func(p listing.Payload) { delete(p, listing.FieldInviteURL); delete(p, listing.FieldOwners) },
			mode:    listing.SubmissionMode,
			kind:    listing.ErrMissingFields,
			message: "missing fields: inviteUrl, owners",
		},
		{
			name:    "missing fields are named in order",
			mutate:  func(p listing.Payload) { delete(p, listing.FieldLongDesc); delete(p, listing.FieldClientID) },
			mode:    listing.EditMode,
			kind:    listing.ErrMissingFields,
			message: "missing fields: clientId, longDesc",
		},
		{
			name:   "17 digit id",
			mutate: func(p listing.Payload) { p[listing.FieldClientID] = "12345678901234567" },
			mode:   listing.SubmissionMode,
		},
		{
			name:   "21 digit id",
			mutate: func(p listing.Payload) { p[listing.FieldClientID] = "123456789012345678901" },
			mode:   listing.SubmissionMode,
		},
		{
			name: "id embedded in an invite url",
			mutate: func(p listing.Payload) {
				p[listing.FieldClientID] = "https://discord.com/oauth2/authorize?client_id=123456789012345678&scope=bot"
			},
			mode: listing.SubmissionMode,
		},
		{
			name:   "16 digit id",
			mutate: func(p listing.Payload) { p[listing.FieldClientID] = "1234567890123456" },
			mode:   listing.SubmissionMode,
			kind:   listing.ErrInvalidIdentifier,
		},
		{
			name:   "22 digit id",
			mutate: func(p listing.Payload) { p[listing.FieldClientID] = "1234567890123456789012" },
			mode:   listing.SubmissionMode,
			kind:   listing.ErrInvalidIdentifier,
		},
		{
			name:   "no digits",
			mutate: func(p listing.Payload) { p[listing.FieldClientID] = "my-bot" },
			mode:   listing.SubmissionMode,
			kind:   listing.ErrInvalidIdentifier,
		},
		{
			name:   "empty prefix is present but too short",
			mutate: func(p listing.Payload) { p[listing.FieldPrefix] = "" },
			mode:   listing.SubmissionMode,
			kind:   listing.ErrPrefixTooShort,
		},
		{
			name:   "short description of exactly 150 characters",
			mutate: func(p listing.Payload) { p[listing.FieldShortDesc] = strings.Repeat("é", 150) },
			mode:   listing.SubmissionMode,
		},
		{
			name:   "short description of 151 characters",
			mutate: func(p listing.Payload) { p[listing.FieldShortDesc] = strings.Repeat("a", 151) },
			mode:   listing.SubmissionMode,
			kind:   listing.ErrDescriptionTooLong,
		},
		{
			name: "first violated rule wins",
			mutate: func(p listing.Payload) {
				p[listing.FieldClientID] = "nope"
				p[listing.FieldPrefix] = ""
				p[listing.FieldShortDesc] = strings.Repeat("a", 200)
			},
			mode: listing.SubmissionMode,
			kind: listing.ErrInvalidIdentifier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			tt.mutate(p)

			err := listing.Validate(p, tt.mode)
			if tt.kind == nil {
				require.NoError(t, err)

				return
			}
			require.ErrorIs(t, err, tt.kind)
			require.ErrorIs(t, err, serrors.ErrBadRequest)
			require.True(t, serrors.IsRetryable(err))
			if tt.message != "" {
				require.EqualError(t, err, tt.message)
			}
		})
	}
}

func TestValidate_doesNotMutatePayload(t *testing.T) {
	p := validPayload()
	delete(p, listing.FieldOwners)
	before := len(p)

	require.Error(t, listing.Validate(p, listing.SubmissionMode))
	require.Len(t, p, before)
}

func TestExtractID(t *testing.T) {
	id, ok := listing.ExtractID("https://discord.com/oauth2/authorize?client_id=123456789012345678&scope=bot")
	require.True(t, ok)
	require.Equal(t, domain.ListingID("123456789012345678"), id)

	_, ok = listing.ExtractID("")
	require.False(t, ok)
}

func TestParseOwners(t *testing.T) {
	owners := listing.ParseOwners("  300000000000000001 \n300000000000000002\t300000000000000001 owner  ", "owner")
	require.Equal(t, []domain.PrincipalID{"300000000000000001", "300000000000000002"}, owners)

	empty := listing.ParseOwners("   ", "owner")
	require.NotNil(t, empty)
	require.Empty(t, empty)
}
