package domain_test

import (
	"botlist/pkg/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrincipalID_Valid(t *testing.T) {
	tests := []struct {
		ID    domain.PrincipalID
		valid bool
	}{
		{ID: "12345678901234567", valid: true},
		{ID: "123456789012345678901", valid: true},
		{ID: "1234567890123456", valid: false},
		{ID: "1234567890123456789012", valid: false},
		{ID: "<@123456789012345678>", valid: false},
		{ID: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.ID), func(t *testing.T) {
			require.Equal(t, tt.valid, tt.ID.Valid())
		})
	}
}

func TestPrincipal(t *testing.T) {
	require.False(t, domain.Principal{}.Authenticated())
	require.True(t, domain.Principal{ID: "123456789012345678"}.Authenticated())
	require.Equal(t, "<@123456789012345678>", domain.PrincipalID("123456789012345678").Mention())
	require.Equal(t, "<@223456789012345678>", domain.ListingID("223456789012345678").Mention())
}

func TestAccount_Tag(t *testing.T) {
	require.Equal(t, "helper#1234", (&domain.Account{Username: "helper", Discriminator: "1234"}).Tag())
	require.Equal(t, "helper", (&domain.Account{Username: "helper", Discriminator: "0"}).Tag())
	require.Equal(t, "helper", (&domain.Account{Username: "helper"}).Tag())
}

func TestListing_Status(t *testing.T) {
	require.Equal(t, domain.ListingStatusPending, (&domain.Listing{}).Status())
	require.Equal(t, domain.ListingStatusApproved, (&domain.Listing{Approved: true}).Status())
}
