package listing_test

import (
	"botlist/internal/listing"
	"testing"

	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/require"
)

func TestRemoveMemberJobArgs_InsertOpts(t *testing.T) {
	opts := listing.RemoveMemberJobArgs{AccountID: botID, ActorID: ownerID, MaxAttempts: 4}.InsertOpts()

	require.Equal(t, 4, opts.MaxAttempts)
	require.True(t, opts.UniqueOpts.ByArgs)
	require.Contains(t, opts.UniqueOpts.ByState, rivertype.JobStateAvailable)
	require.Contains(t, opts.UniqueOpts.ByState, rivertype.JobStateRunning)
	// a finished removal must not block the next one for a re-listed account
	require.NotContains(t, opts.UniqueOpts.ByState, rivertype.JobStateCompleted)
	require.NotContains(t, opts.UniqueOpts.ByState, rivertype.JobStateCancelled)
	require.NotContains(t, opts.UniqueOpts.ByState, rivertype.JobStateDiscarded)
}

func TestAuditJobArgs_Message(t *testing.T) {
	args := listing.AuditJobArgs{ListingID: botID, ListingName: "Helper", Action: listing.ActionDeleted}

	require.Equal(t, "owner#1234 deleted Helper (<@123456789012345678>)", args.Message("owner#1234"))

	args.Action = listing.ActionApproved
	require.Equal(t, "Helper (<@123456789012345678>) was approved", args.Message(""))
	require.Equal(t, "Removed by owner#1234", listing.RemovalReason("owner#1234"))
}
