package worker_test

import (
	"botlist/internal/worker"
	mockdiscord "botlist/pkg/discord/mock"
	"botlist/pkg/domain"
	"botlist/pkg/serrors"
	"context"
	"errors"
	"testing"

	"github.com/riverqueue/river"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newRemoveMemberWorker(t *testing.T) (*mockdiscord.MockIdentityResolver,
	*mockdiscord.MockMembership,
	*worker.RemoveMemberWorker) {
	t.Helper()

	ctrl := gomock.NewController(t)
	accounts := mockdiscord.NewMockIdentityResolver(ctrl)
	members := mockdiscord.NewMockMembership(ctrl)

	return accounts, members, worker.NewRemoveMemberWorker(accounts, members)
}

func TestRemoveMemberWorker_Work_RemovesMember(t *testing.T) {
	accounts, members, w := newRemoveMemberWorker(t)
	members.EXPECT().IsMember(gomock.Any(), string(botID)).Return(true, nil)
	accounts.EXPECT().FetchAccount(gomock.Any(), string(actorID)).
		Return(&domain.Account{ID: string(actorID), Username: "admin", Discriminator: "0001"}, nil)
	members.EXPECT().RemoveMember(gomock.Any(), string(botID), "Removed by admin#0001").Return(nil)

	require.NoError(t, w.Work(context.Background(), makeRemoveJob(1)))
}

func TestRemoveMemberWorker_Work_NotAMember(t *testing.T) {
	_, members, w := newRemoveMemberWorker(t)
	members.EXPECT().IsMember(gomock.Any(), string(botID)).Return(false, nil)

	require.NoError(t, w.Work(context.Background(), makeRemoveJob(2)))
}

func TestRemoveMemberWorker_Work_LeftMeanwhile(t *testing.T) {
	accounts, members, w := newRemoveMemberWorker(t)
	members.EXPECT().IsMember(gomock.Any(), string(botID)).Return(true, nil)
	accounts.EXPECT().FetchAccount(gomock.Any(), string(actorID)).Return(nil, errors.New("boom"))
	members.EXPECT().RemoveMember(gomock.Any(), string(botID), "Removed by <@200000000000000000>").
		Return(serrors.With(serrors.ErrNotFound, "Unknown Member"))

	require.NoError(t, w.Work(context.Background(), makeRemoveJob(3)))
}

func TestRemoveMemberWorker_Work_MissingPermissionsCancels(t *testing.T) {
	accounts, members, w := newRemoveMemberWorker(t)
	members.EXPECT().IsMember(gomock.Any(), string(botID)).Return(true, nil)
	accounts.EXPECT().FetchAccount(gomock.Any(), string(actorID)).
		Return(&domain.Account{ID: string(actorID), Username: "admin"}, nil)
	members.EXPECT().RemoveMember(gomock.Any(), string(botID), "Removed by admin").
		Return(serrors.With(serrors.ErrForbidden, "Missing Permissions"))

	err := w.Work(context.Background(), makeRemoveJob(4))
	var cancelErr *river.JobCancelError
	require.ErrorAs(t, err, &cancelErr)
}

func TestRemoveMemberWorker_Work_MembershipFailureRetried(t *testing.T) {
	_, members, w := newRemoveMemberWorker(t)
	members.EXPECT().IsMember(gomock.Any(), string(botID)).Return(false, errors.New("boom"))

	err := w.Work(context.Background(), makeRemoveJob(5))
	require.Error(t, err)
	var cancelErr *river.JobCancelError
	require.NotErrorAs(t, err, &cancelErr)
}
