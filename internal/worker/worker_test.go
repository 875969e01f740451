package worker_test

import (
	"botlist/internal/listing"
	"botlist/pkg/domain"
	"botlist/pkg/logger"
	"os"
	"testing"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

const (
	botID      = domain.ListingID("123456789012345678")
	actorID    = domain.PrincipalID("200000000000000000")
	logChannel = "400000000000000000"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)

	os.Exit(m.Run())
}

func makeAuditJob(id int64, action listing.AuditAction) *river.Job[listing.AuditJobArgs] {
	return &river.Job[listing.AuditJobArgs]{
		JobRow: &rivertype.JobRow{ID: id},
		Args: listing.AuditJobArgs{
			ChannelID:   logChannel,
			ActorID:     actorID,
			Action:      action,
			ListingID:   botID,
			ListingName: "Helper",
		},
	}
}

func makeRemoveJob(id int64) *river.Job[listing.RemoveMemberJobArgs] {
	return &river.Job[listing.RemoveMemberJobArgs]{
		JobRow: &rivertype.JobRow{ID: id},
		Args:   listing.RemoveMemberJobArgs{AccountID: botID, ActorID: actorID},
	}
}
