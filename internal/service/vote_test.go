package service_test

import (
	"testing"

	"github.com/robalyx/squadpledge/internal/database/types/enum"
	"github.com/robalyx/squadpledge/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCastVote(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := t.Context()
	f.memberAs(t, "master", enum.SquadRoleMasters, enum.ParticipationLevelMaster)
	f.member(t, "outsider")

	project := f.project(t, 100, 10, 0)
	proposed := f.task(t, project.ID, 10, false)
	confirmed := f.task(t, project.ID, 10, true)

	_, err := f.engine.Pledge().Pledge(ctx, "master", project.ID, service.PledgeTarget{Pool: true}, 1)
	require.NoError(t, err)

	vote, err := f.engine.Vote().Cast(ctx, "master", proposed.ID, enum.VoteKindTaskProposal)
	require.NoError(t, err)
	assert.Equal(t, 3, vote.Weight)

	_, err = f.engine.Vote().Cast(ctx, "master", proposed.ID, enum.VoteKindTaskProposal)
	requireKind(t, err, service.KindConflict)

	_, err = f.engine.Vote().Cast(ctx, "master", confirmed.ID, enum.VoteKindTaskProposal)
	requireKind(t, err, service.KindInvalidState)

	_, err = f.engine.Vote().Cast(ctx, "master", confirmed.ID, enum.VoteKindChallenge)
	requireKind(t, err, service.KindInvalidState)

	_, err = f.engine.Vote().Cast(ctx, "outsider", project.ID, enum.VoteKindFinalPrize)
	requireKind(t, err, service.KindAccessDenied)

	_, err = f.engine.Vote().Cast(ctx, "master", project.ID, enum.VoteKindFinalPrize)
	require.NoError(t, err)

	votes, err := f.engine.Vote().List(ctx, proposed.ID, enum.VoteKindTaskProposal)
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal(t, "master", votes[0].Voter)
}
