package worker_test

import (
	"botlist/internal/listing"
	"botlist/internal/worker"
	"botlist/pkg/discord"
	mockdiscord "botlist/pkg/discord/mock"
	"botlist/pkg/domain"
	"botlist/pkg/serrors"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riverqueue/river"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newAuditWorker(t *testing.T) (*mockdiscord.MockIdentityResolver, *mockdiscord.MockMessenger, *worker.AuditWorker) {
	t.Helper()

	ctrl := gomock.NewController(t)
	accounts := mockdiscord.NewMockIdentityResolver(ctrl)
	messenger := mockdiscord.NewMockMessenger(ctrl)

	return accounts, messenger, worker.NewAuditWorker(accounts, messenger)
}

func TestAuditWorker_Work_Messages(t *testing.T) {
	tests := []struct {
		action listing.AuditAction
		want   string
	}{
		{action: listing.ActionAdded, want: "owner#1234 added Helper (<@123456789012345678>)"},
		{action: listing.ActionEdited, want: "owner#1234 edited Helper (<@123456789012345678>)"},
		{action: listing.ActionDeleted, want: "owner#1234 deleted Helper (<@123456789012345678>)"},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			accounts, messenger, w := newAuditWorker(t)
			accounts.EXPECT().FetchAccount(gomock.Any(), string(actorID)).
				Return(&domain.Account{ID: string(actorID), Username: "owner", Discriminator: "1234"}, nil)
			messenger.EXPECT().PostMessage(gomock.Any(), logChannel, tt.want).Return(nil)

			require.NoError(t, w.Work(context.Background(), makeAuditJob(1, tt.action)))
		})
	}
}

func TestAuditWorker_Work_ApprovedSkipsActor(t *testing.T) {
	_, messenger, w := newAuditWorker(t)
	messenger.EXPECT().PostMessage(gomock.Any(), logChannel, "Helper (<@123456789012345678>) was approved").Return(nil)

	require.NoError(t, w.Work(context.Background(), makeAuditJob(1, listing.ActionApproved)))
}

func TestAuditWorker_Work_UnresolvableActorFallsBackToMention(t *testing.T) {
	accounts, messenger, w := newAuditWorker(t)
	accounts.EXPECT().FetchAccount(gomock.Any(), string(actorID)).
		Return(nil, serrors.With(serrors.ErrNotFound, "Unknown User"))
	messenger.EXPECT().
		PostMessage(gomock.Any(), logChannel, "<@200000000000000000> deleted Helper (<@123456789012345678>)").
		Return(nil)

	require.NoError(t, w.Work(context.Background(), makeAuditJob(2, listing.ActionDeleted)))
}

func TestAuditWorker_Work_MigratedUsername(t *testing.T) {
	accounts, messenger, w := newAuditWorker(t)
	accounts.EXPECT().FetchAccount(gomock.Any(), string(actorID)).
		Return(&domain.Account{ID: string(actorID), Username: "owner", Discriminator: "0"}, nil)
	messenger.EXPECT().PostMessage(gomock.Any(), logChannel, "owner added Helper (<@123456789012345678>)").Return(nil)

	require.NoError(t, w.Work(context.Background(), makeAuditJob(3, listing.ActionAdded)))
}

func TestAuditWorker_Work_RateLimitedSnoozes(t *testing.T) {
	_, messenger, w := newAuditWorker(t)
	messenger.EXPECT().PostMessage(gomock.Any(), logChannel, gomock.Any()).
		Return(serrors.Wrap(serrors.ErrRateLimited, &discord.RateLimitedError{RetryAfter: 1500 * time.Millisecond}, "POST"))

	err := w.Work(context.Background(), makeAuditJob(4, listing.ActionApproved))
	require.Error(t, err)
	var snoozeErr *river.JobSnoozeError
	require.ErrorAs(t, err, &snoozeErr)
	require.Equal(t, 1500*time.Millisecond, snoozeErr.Duration)
}

func TestAuditWorker_Work_UnknownChannelCancels(t *testing.T) {
	_, messenger, w := newAuditWorker(t)
	messenger.EXPECT().PostMessage(gomock.Any(), logChannel, gomock.Any()).
		Return(serrors.With(serrors.ErrNotFound, "Unknown Channel"))

	err := w.Work(context.Background(), makeAuditJob(5, listing.ActionApproved))
	var cancelErr *river.JobCancelError
	require.ErrorAs(t, err, &cancelErr)
}

func TestAuditWorker_Work_GenericErrorRetried(t *testing.T) {
	_, messenger, w := newAuditWorker(t)
	messenger.EXPECT().PostMessage(gomock.Any(), logChannel, gomock.Any()).Return(errors.New("boom"))

	err := w.Work(context.Background(), makeAuditJob(6, listing.ActionApproved))
	require.Error(t, err)
	var cancelErr *river.JobCancelError
	require.NotErrorAs(t, err, &cancelErr, "did not expect JobCancelError")
	var snoozeErr *river.JobSnoozeError
	require.NotErrorAs(t, err, &snoozeErr, "did not expect JobSnoozeError")
}
