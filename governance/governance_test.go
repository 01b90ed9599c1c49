// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package governance_test

import (
	"context"
	"errors"
	"testing"

	"github.com/blinklabs-io/govproxy/database"
	"github.com/blinklabs-io/govproxy/database/models"
	"github.com/blinklabs-io/govproxy/event"
	"github.com/blinklabs-io/govproxy/governance"
	"github.com/blinklabs-io/govproxy/identity"
	"github.com/blinklabs-io/govproxy/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	govIdentity = identity.Identity("governance-addr")
	testAddr    = "impl-addr-2"
)

func testService(
	t *testing.T,
	runner governance.MigrationRunner,
) (*governance.Service, *event.EventBus) {
	t.Helper()
	db, err := database.New(&database.Config{
		DataDir: t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close() //nolint:errcheck
	})
	eventBus := event.NewEventBus(nil, nil)
	t.Cleanup(eventBus.Stop)
	svc := governance.NewService(governance.ServiceConfig{
		Database:        db,
		EventBus:        eventBus,
		MigrationRunner: runner,
	})
	require.NoError(t, svc.Initialize(govIdentity, version.New(1, 0, 0)))
	return svc, eventBus
}

func TestInitializeOnce(t *testing.T) {
	svc, _ := testService(t, nil)
	err := svc.Initialize(govIdentity, version.New(1, 0, 0))
	require.ErrorIs(t, err, governance.ErrAlreadyInitialized)
	require.ErrorIs(t, err, governance.ErrInvalidState)
}

func TestProposeIdSequence(t *testing.T) {
	svc, _ := testService(t, nil)
	for want := uint64(1); want <= 3; want++ {
		id, err := svc.Propose(
			"alice",
			testAddr,
			version.New(1, 1, 0),
			"upgrade",
		)
		require.NoError(t, err)
		assert.Equal(t, want, id)
	}
	// Validation failures burn no ids
	_, err := svc.Propose("alice", "", version.New(1, 1, 0), "bad")
	require.Error(t, err)
	id, err := svc.Propose("alice", testAddr, version.New(1, 1, 0), "next")
	require.NoError(t, err)
	assert.Equal(t, uint64(4), id)
}

func TestProposeSnapshotsQuorum(t *testing.T) {
	svc, _ := testService(t, nil)
	require.NoError(t, svc.SetVotingPower(govIdentity, "bob", 4))
	require.NoError(t, svc.SetVotingPower(govIdentity, "carol", 6))
	id, err := svc.Propose("alice", testAddr, version.New(1, 1, 0), "desc")
	require.NoError(t, err)
	proposal, err := svc.Proposal(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), proposal.TotalVoters)
	assert.Equal(t, uint64(6), proposal.RequiredVotes())
	// Later power changes do not move the snapshot
	require.NoError(t, svc.SetVotingPower(govIdentity, "dave", 100))
	proposal, err = svc.Proposal(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), proposal.TotalVoters)
}

func TestZeroQuorumSingleVoteApproves(t *testing.T) {
	svc, _ := testService(t, nil)
	// No voting power registered at proposal time, so the snapshot is 0
	// and required = floor(0/2)+1 = 1
	id, err := svc.Propose("alice", testAddr, version.New(1, 1, 0), "desc")
	require.NoError(t, err)
	require.NoError(t, svc.SetVotingPower(govIdentity, "bob", 1))
	require.NoError(t, svc.Vote("bob", id, true))
	proposal, err := svc.Proposal(id)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusApproved, proposal.Status)
	assert.Equal(t, uint64(1), proposal.VotesFor)
}

func TestVoteDoubleVoteRejected(t *testing.T) {
	svc, _ := testService(t, nil)
	require.NoError(t, svc.SetVotingPower(govIdentity, "bob", 2))
	id, err := svc.Propose("alice", testAddr, version.New(1, 1, 0), "desc")
	require.NoError(t, err)
	require.NoError(t, svc.SetProposalQuorum(govIdentity, id, 10))
	require.NoError(t, svc.Vote("bob", id, true))
	err = svc.Vote("bob", id, true)
	require.ErrorIs(t, err, governance.ErrAlreadyVoted)
	// The tally did not move
	proposal, err := svc.Proposal(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), proposal.VotesFor)
}

func TestVoteZeroWeightAccepted(t *testing.T) {
	svc, _ := testService(t, nil)
	id, err := svc.Propose("alice", testAddr, version.New(1, 1, 0), "desc")
	require.NoError(t, err)
	require.NoError(t, svc.SetProposalQuorum(govIdentity, id, 10))
	// Unregistered voter has weight 0: ballot recorded, no tally effect
	require.NoError(t, svc.Vote("nobody", id, true))
	proposal, err := svc.Proposal(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), proposal.VotesFor)
	assert.Equal(t, models.ProposalStatusPending, proposal.Status)
	// The zero-weight ballot still blocks a second vote
	err = svc.Vote("nobody", id, false)
	require.ErrorIs(t, err, governance.ErrAlreadyVoted)
}

func TestVoteRejection(t *testing.T) {
	svc, _ := testService(t, nil)
	require.NoError(t, svc.SetVotingPower(govIdentity, "bob", 6))
	require.NoError(t, svc.SetVotingPower(govIdentity, "carol", 4))
	id, err := svc.Propose("alice", testAddr, version.New(1, 1, 0), "desc")
	require.NoError(t, err)
	require.NoError(t, svc.Vote("bob", id, false))
	proposal, err := svc.Proposal(id)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusRejected, proposal.Status)
	assert.Equal(t, uint64(6), proposal.VotesAgainst)
}

func TestVoteOnUnknownProposal(t *testing.T) {
	svc, _ := testService(t, nil)
	err := svc.Vote("bob", 99, true)
	require.ErrorIs(t, err, models.ErrProposalNotFound)
}

func TestStateMachineGuards(t *testing.T) {
	svc, _ := testService(t, nil)
	require.NoError(t, svc.SetVotingPower(govIdentity, "bob", 10))
	id, err := svc.Propose("alice", testAddr, version.New(1, 1, 0), "desc")
	require.NoError(t, err)
	require.NoError(t, svc.Vote("bob", id, true))
	require.NoError(t, svc.Execute(context.Background(), govIdentity, id))
	before, err := svc.Proposal(id)
	require.NoError(t, err)
	// Vote and execute against an executed proposal fail and change nothing
	err = svc.Vote("carol", id, true)
	require.ErrorIs(t, err, governance.ErrInvalidState)
	err = svc.Execute(context.Background(), govIdentity, id)
	require.ErrorIs(t, err, governance.ErrInvalidState)
	after, err := svc.Proposal(id)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestExecuteRequiresGovernance(t *testing.T) {
	svc, _ := testService(t, nil)
	require.NoError(t, svc.SetVotingPower(govIdentity, "bob", 10))
	id, err := svc.Propose("alice", testAddr, version.New(1, 1, 0), "desc")
	require.NoError(t, err)
	require.NoError(t, svc.Vote("bob", id, true))
	err = svc.Execute(context.Background(), "alice", id)
	require.ErrorIs(t, err, identity.ErrUnauthorized)
	proposal, err := svc.Proposal(id)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusApproved, proposal.Status)
	config, err := svc.Config()
	require.NoError(t, err)
	assert.Equal(t, version.New(1, 0, 0), config.CurrentVersion)
}

func TestExecuteRequiresApproved(t *testing.T) {
	svc, _ := testService(t, nil)
	id, err := svc.Propose("alice", testAddr, version.New(1, 1, 0), "desc")
	require.NoError(t, err)
	err = svc.Execute(context.Background(), govIdentity, id)
	require.ErrorIs(t, err, governance.ErrInvalidState)
	err = svc.Execute(context.Background(), govIdentity, 99)
	require.ErrorIs(t, err, models.ErrProposalNotFound)
}

func TestExecuteWithMigration(t *testing.T) {
	registry := governance.NewMigrationRegistry()
	var migrated bool
	registry.Register(
		"copy_v1_to_v2",
		func(ctx context.Context, plan *models.MigrationPlan) error {
			migrated = true
			return nil
		},
	)
	svc, eventBus := testService(t, registry)
	_, startedCh := eventBus.Subscribe(event.MigrationStartedEventType)
	_, completedCh := eventBus.Subscribe(event.MigrationCompletedEventType)
	require.NoError(t, svc.SetVotingPower(govIdentity, "bob", 10))
	id, err := svc.Propose("alice", testAddr, version.New(2, 0, 0), "desc")
	require.NoError(t, err)
	plan := &models.MigrationPlan{
		Selector:      "copy_v1_to_v2",
		EstimatedCost: 42,
	}
	plan.SetFromVersion(version.New(1, 0, 0))
	plan.SetToVersion(version.New(2, 0, 0))
	require.NoError(t, svc.RegisterMigrationPlan(govIdentity, id, plan))
	require.NoError(t, svc.Vote("bob", id, true))
	require.NoError(t, svc.Execute(context.Background(), govIdentity, id))
	assert.True(t, migrated)
	assert.Len(t, startedCh, 1)
	assert.Len(t, completedCh, 1)
	config, err := svc.Config()
	require.NoError(t, err)
	assert.Equal(t, version.New(2, 0, 0), config.CurrentVersion)
	assert.Equal(t, testAddr, config.CurrentImplementation)
}

func TestExecuteFailingMigrationChangesNothing(t *testing.T) {
	registry := governance.NewMigrationRegistry()
	migrationErr := errors.New("schema copy failed")
	registry.Register(
		"copy_v1_to_v2",
		func(ctx context.Context, plan *models.MigrationPlan) error {
			return migrationErr
		},
	)
	svc, _ := testService(t, registry)
	require.NoError(t, svc.SetVotingPower(govIdentity, "bob", 10))
	id, err := svc.Propose("alice", testAddr, version.New(2, 0, 0), "desc")
	require.NoError(t, err)
	plan := &models.MigrationPlan{Selector: "copy_v1_to_v2"}
	plan.SetFromVersion(version.New(1, 0, 0))
	plan.SetToVersion(version.New(2, 0, 0))
	require.NoError(t, svc.RegisterMigrationPlan(govIdentity, id, plan))
	require.NoError(t, svc.Vote("bob", id, true))
	err = svc.Execute(context.Background(), govIdentity, id)
	require.ErrorIs(t, err, migrationErr)
	// The proposal stays Approved and the version is unchanged
	proposal, err := svc.Proposal(id)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusApproved, proposal.Status)
	config, err := svc.Config()
	require.NoError(t, err)
	assert.Equal(t, version.New(1, 0, 0), config.CurrentVersion)
	assert.Empty(t, config.CurrentImplementation)
}

func TestExecuteUnknownMigrationSelector(t *testing.T) {
	svc, _ := testService(t, nil)
	require.NoError(t, svc.SetVotingPower(govIdentity, "bob", 10))
	id, err := svc.Propose("alice", testAddr, version.New(2, 0, 0), "desc")
	require.NoError(t, err)
	plan := &models.MigrationPlan{Selector: "no_such_migration"}
	require.NoError(t, svc.RegisterMigrationPlan(govIdentity, id, plan))
	require.NoError(t, svc.Vote("bob", id, true))
	err = svc.Execute(context.Background(), govIdentity, id)
	require.Error(t, err)
	proposal, err := svc.Proposal(id)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusApproved, proposal.Status)
}

func TestRegisterMigrationPlanGuards(t *testing.T) {
	svc, _ := testService(t, nil)
	plan := &models.MigrationPlan{Selector: "noop"}
	err := svc.RegisterMigrationPlan("alice", 1, plan)
	require.ErrorIs(t, err, identity.ErrUnauthorized)
	err = svc.RegisterMigrationPlan(govIdentity, 99, plan)
	require.ErrorIs(t, err, models.ErrProposalNotFound)
}

func TestEmergencyUpgrade(t *testing.T) {
	svc, _ := testService(t, nil)
	// Disabled by default
	err := svc.EmergencyUpgrade(govIdentity, testAddr, version.New(1, 5, 0))
	require.ErrorIs(t, err, governance.ErrNotEnabled)
	// Authorization is checked before the enable switch
	err = svc.EmergencyUpgrade("mallory", testAddr, version.New(1, 5, 0))
	require.ErrorIs(t, err, identity.ErrUnauthorized)
	// Only governance can toggle
	err = svc.ToggleEmergency("mallory", true)
	require.ErrorIs(t, err, identity.ErrUnauthorized)
	require.NoError(t, svc.ToggleEmergency(govIdentity, true))
	require.NoError(
		t,
		svc.EmergencyUpgrade(govIdentity, testAddr, version.New(1, 5, 0)),
	)
	// Both version and address are persisted
	config, err := svc.Config()
	require.NoError(t, err)
	assert.Equal(t, version.New(1, 5, 0), config.CurrentVersion)
	assert.Equal(t, testAddr, config.CurrentImplementation)
	require.NoError(t, svc.ToggleEmergency(govIdentity, false))
	err = svc.EmergencyUpgrade(govIdentity, testAddr, version.New(1, 6, 0))
	require.ErrorIs(t, err, governance.ErrNotEnabled)
}

func TestRollbackGuards(t *testing.T) {
	svc, _ := testService(t, nil)
	require.NoError(t, svc.ToggleEmergency(govIdentity, true))
	require.NoError(
		t,
		svc.EmergencyUpgrade(govIdentity, testAddr, version.New(1, 2, 0)),
	)
	// Same major, backward minor succeeds
	require.NoError(t, svc.Rollback(govIdentity, version.New(1, 1, 0)))
	config, err := svc.Config()
	require.NoError(t, err)
	assert.Equal(t, version.New(1, 1, 0), config.CurrentVersion)
	// Major change fails
	err = svc.Rollback(govIdentity, version.New(2, 0, 0))
	require.ErrorIs(t, err, governance.ErrInvalidTransition)
	// Forward minor fails
	err = svc.Rollback(govIdentity, version.New(1, 3, 0))
	require.ErrorIs(t, err, governance.ErrInvalidTransition)
	// Non-governance callers fail
	err = svc.Rollback("mallory", version.New(1, 0, 0))
	require.ErrorIs(t, err, identity.ErrUnauthorized)
}

func TestCancel(t *testing.T) {
	svc, _ := testService(t, nil)
	id, err := svc.Propose("alice", testAddr, version.New(1, 1, 0), "desc")
	require.NoError(t, err)
	// Unrelated identities may not cancel
	err = svc.Cancel("mallory", id)
	require.ErrorIs(t, err, identity.ErrUnauthorized)
	// The proposer may cancel
	require.NoError(t, svc.Cancel("alice", id))
	proposal, err := svc.Proposal(id)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusCancelled, proposal.Status)
	// Cancelled is terminal
	err = svc.Cancel("alice", id)
	require.ErrorIs(t, err, governance.ErrInvalidState)
	err = svc.Vote("bob", id, true)
	require.ErrorIs(t, err, governance.ErrInvalidState)
	// Governance may cancel someone else's proposal
	id2, err := svc.Propose("alice", testAddr, version.New(1, 1, 0), "desc")
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(govIdentity, id2))
}

func TestSetProposalQuorumGuards(t *testing.T) {
	svc, _ := testService(t, nil)
	id, err := svc.Propose("alice", testAddr, version.New(1, 1, 0), "desc")
	require.NoError(t, err)
	err = svc.SetProposalQuorum("alice", id, 10)
	require.ErrorIs(t, err, identity.ErrUnauthorized)
	require.NoError(t, svc.SetProposalQuorum(govIdentity, id, 10))
	proposal, err := svc.Proposal(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), proposal.TotalVoters)
	// Quorum is frozen once the proposal leaves Pending
	require.NoError(t, svc.Cancel("alice", id))
	err = svc.SetProposalQuorum(govIdentity, id, 20)
	require.ErrorIs(t, err, governance.ErrInvalidState)
}

func TestPendingProposalsIndex(t *testing.T) {
	svc, _ := testService(t, nil)
	require.NoError(t, svc.SetVotingPower(govIdentity, "bob", 10))
	id1, err := svc.Propose("alice", testAddr, version.New(1, 1, 0), "a")
	require.NoError(t, err)
	id2, err := svc.Propose("alice", testAddr, version.New(1, 2, 0), "b")
	require.NoError(t, err)
	id3, err := svc.Propose("alice", testAddr, version.New(1, 3, 0), "c")
	require.NoError(t, err)
	require.NoError(t, svc.Vote("bob", id2, true))
	require.NoError(t, svc.Cancel("alice", id3))
	pending, err := svc.PendingProposals()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, id1, pending[0].ID)
	approved, err := svc.ProposalsByStatus(models.ProposalStatusApproved)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, id2, approved[0].ID)
}

func TestUninitializedOperations(t *testing.T) {
	db, err := database.New(&database.Config{
		DataDir: t.TempDir(),
	})
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck
	svc := governance.NewService(governance.ServiceConfig{Database: db})
	_, err = svc.Config()
	require.ErrorIs(t, err, models.ErrGovNotInitialized)
	_, err = svc.Propose("alice", testAddr, version.New(1, 1, 0), "desc")
	require.ErrorIs(t, err, models.ErrGovNotInitialized)
	err = svc.Rollback(govIdentity, version.New(1, 0, 0))
	require.ErrorIs(t, err, models.ErrGovNotInitialized)
}

// Mirrors the documented end to end flow: propose, provision quorum,
// vote to approval, execute.
func TestEndToEndScenario(t *testing.T) {
	svc, _ := testService(t, nil)
	id, err := svc.Propose("admin-a", testAddr, version.New(1, 1, 0), "desc")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)
	proposal, err := svc.Proposal(id)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusPending, proposal.Status)
	require.NoError(t, svc.SetVotingPower(govIdentity, "voter-b", 10))
	require.NoError(t, svc.SetProposalQuorum(govIdentity, id, 10))
	require.NoError(t, svc.Vote("voter-b", id, true))
	proposal, err = svc.Proposal(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), proposal.VotesFor)
	assert.Equal(t, uint64(6), proposal.RequiredVotes())
	assert.Equal(t, models.ProposalStatusApproved, proposal.Status)
	require.NoError(t, svc.Execute(context.Background(), govIdentity, id))
	proposal, err = svc.Proposal(id)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusExecuted, proposal.Status)
	config, err := svc.Config()
	require.NoError(t, err)
	assert.Equal(t, version.New(1, 1, 0), config.CurrentVersion)
}
