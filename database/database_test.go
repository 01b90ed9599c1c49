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

package database_test

import (
	"testing"
	"time"

	"github.com/blinklabs-io/govproxy/database"
	"github.com/blinklabs-io/govproxy/database/models"
	"github.com/blinklabs-io/govproxy/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDatabase creates a file-backed database in a temp dir so each test
// gets isolated stores. The shared in-memory sqlite mode would leak
// metadata rows between tests.
func testDatabase(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.New(&database.Config{
		DataDir: t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close() //nolint:errcheck
	})
	return db
}

func TestProxyRecordRoundTrip(t *testing.T) {
	db := testDatabase(t)
	_, err := db.GetProxyRecord(nil)
	require.ErrorIs(t, err, models.ErrProxyNotInitialized)
	record := &models.ProxyRecord{
		Implementation: "impl-addr-1",
		Admin:          "admin-1",
		VersionCounter: 0,
		LastUpdated:    time.Now().Unix(),
	}
	require.NoError(t, db.SetProxyRecord(record, nil))
	ret, err := db.GetProxyRecord(nil)
	require.NoError(t, err)
	assert.Equal(t, record.Implementation, ret.Implementation)
	assert.Equal(t, record.Admin, ret.Admin)
	assert.Empty(t, ret.PendingAdmin)
	assert.False(t, ret.Paused)
}

func TestGovernanceConfigRoundTrip(t *testing.T) {
	db := testDatabase(t)
	_, err := db.GetGovernanceConfig(nil)
	require.ErrorIs(t, err, models.ErrGovNotInitialized)
	config := &models.GovernanceConfig{
		CurrentVersion:     version.New(1, 2, 3),
		GovernanceIdentity: "governance",
		EmergencyEnabled:   true,
	}
	require.NoError(t, db.SetGovernanceConfig(config, nil))
	ret, err := db.GetGovernanceConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, version.New(1, 2, 3), ret.CurrentVersion)
	assert.Equal(t, "governance", ret.GovernanceIdentity)
	assert.True(t, ret.EmergencyEnabled)
}

func TestCountersStartAtOneAndAdvance(t *testing.T) {
	db := testDatabase(t)
	for want := uint64(1); want <= 3; want++ {
		txn := db.Transaction(true)
		err := txn.Do(func(txn *database.Txn) error {
			id, err := db.NextUpgradeTxnId(txn)
			if err != nil {
				return err
			}
			assert.Equal(t, want, id)
			return nil
		})
		require.NoError(t, err)
	}
	// The two counters advance independently
	txn := db.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		id, err := db.NextProposalId(txn)
		if err != nil {
			return err
		}
		assert.Equal(t, uint64(1), id)
		return nil
	})
	require.NoError(t, err)
}

func TestCounterNotConsumedOnRollback(t *testing.T) {
	db := testDatabase(t)
	txn := db.Transaction(true)
	id, err := db.NextUpgradeTxnId(txn)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)
	require.NoError(t, txn.Rollback())
	// The rolled back allocation is reissued
	txn = db.Transaction(true)
	err = txn.Do(func(txn *database.Txn) error {
		id, err := db.NextUpgradeTxnId(txn)
		if err != nil {
			return err
		}
		assert.Equal(t, uint64(1), id)
		return nil
	})
	require.NoError(t, err)
}

func TestTxnDoRollsBackOnError(t *testing.T) {
	db := testDatabase(t)
	record := &models.ProxyRecord{
		Implementation: "impl-addr-1",
		Admin:          "admin-1",
	}
	require.NoError(t, db.SetProxyRecord(record, nil))
	txn := db.Transaction(true)
	testErr := assert.AnError
	err := txn.Do(func(txn *database.Txn) error {
		record.Implementation = "impl-addr-2"
		if err := db.SetProxyRecord(record, txn); err != nil {
			return err
		}
		return testErr
	})
	require.ErrorIs(t, err, testErr)
	ret, err := db.GetProxyRecord(nil)
	require.NoError(t, err)
	assert.Equal(t, "impl-addr-1", ret.Implementation)
}

func TestProposalLifecyclePersistence(t *testing.T) {
	db := testDatabase(t)
	_, err := db.GetProposal(1, nil)
	require.ErrorIs(t, err, models.ErrProposalNotFound)
	proposal := &models.UpgradeProposal{
		ID:                 1,
		Proposer:           "alice",
		NewContractAddress: "impl-addr-2",
		Description:        "upgrade to 1.1.0",
		Timestamp:          time.Now(),
		Status:             models.ProposalStatusPending,
		TotalVoters:        10,
	}
	proposal.SetVersion(version.New(1, 1, 0))
	require.NoError(t, db.AddProposal(proposal, nil))
	ret, err := db.GetProposal(1, nil)
	require.NoError(t, err)
	assert.Equal(t, "alice", ret.Proposer)
	assert.Equal(t, version.New(1, 1, 0), ret.Version())
	assert.Equal(t, uint64(6), ret.RequiredVotes())
	// Status change persists via update
	ret.Status = models.ProposalStatusApproved
	require.NoError(t, db.UpdateProposal(ret, nil))
	pending, err := db.GetProposalsByStatus(models.ProposalStatusPending, nil)
	require.NoError(t, err)
	assert.Empty(t, pending)
	approved, err := db.GetProposalsByStatus(models.ProposalStatusApproved, nil)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, uint64(1), approved[0].ID)
}

func TestBallotUniquePerVoter(t *testing.T) {
	db := testDatabase(t)
	ballot := &models.Ballot{
		ProposalID: 1,
		Voter:      "bob",
		Weight:     3,
		VoteFor:    true,
		CastAt:     time.Now(),
	}
	require.NoError(t, db.AddBallot(ballot, nil))
	dupe := &models.Ballot{
		ProposalID: 1,
		Voter:      "bob",
		Weight:     3,
		VoteFor:    false,
		CastAt:     time.Now(),
	}
	require.Error(t, db.AddBallot(dupe, nil))
	// Same voter on another proposal is fine
	other := &models.Ballot{
		ProposalID: 2,
		Voter:      "bob",
		Weight:     3,
		VoteFor:    true,
		CastAt:     time.Now(),
	}
	require.NoError(t, db.AddBallot(other, nil))
	ret, err := db.GetBallot(1, "bob", nil)
	require.NoError(t, err)
	require.NotNil(t, ret)
	assert.True(t, ret.VoteFor)
	missing, err := db.GetBallot(1, "carol", nil)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestVotingPowerUpsertAndTotal(t *testing.T) {
	db := testDatabase(t)
	total, err := db.GetTotalVotingPower(nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), total)
	require.NoError(t, db.SetVotingPower("alice", 3, nil))
	require.NoError(t, db.SetVotingPower("bob", 2, nil))
	require.NoError(t, db.SetVotingPower("alice", 5, nil))
	weight, err := db.GetVotingPower("alice", nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), weight)
	weight, err = db.GetVotingPower("unknown", nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), weight)
	total, err = db.GetTotalVotingPower(nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), total)
}

func TestMigrationPlanReplaceOnRegister(t *testing.T) {
	db := testDatabase(t)
	_, err := db.GetMigrationPlan(1, nil)
	require.ErrorIs(t, err, models.ErrMigrationPlanNotFound)
	plan := &models.MigrationPlan{
		ProposalID:    1,
		Selector:      "migrate_v1_to_v2",
		EstimatedCost: 100,
	}
	plan.SetFromVersion(version.New(1, 0, 0))
	plan.SetToVersion(version.New(2, 0, 0))
	require.NoError(t, db.SetMigrationPlan(plan, nil))
	replacement := &models.MigrationPlan{
		ProposalID:    1,
		Selector:      "migrate_v1_to_v2_fixed",
		EstimatedCost: 150,
	}
	replacement.SetFromVersion(version.New(1, 0, 0))
	replacement.SetToVersion(version.New(2, 0, 0))
	require.NoError(t, db.SetMigrationPlan(replacement, nil))
	ret, err := db.GetMigrationPlan(1, nil)
	require.NoError(t, err)
	assert.Equal(t, "migrate_v1_to_v2_fixed", ret.Selector)
	assert.Equal(t, uint64(150), ret.EstimatedCost)
}

func TestUpgradeHistoryNewestFirst(t *testing.T) {
	db := testDatabase(t)
	for i := uint64(1); i <= 3; i++ {
		entry := &models.UpgradeTransaction{
			ID:                i,
			NewImplementation: "impl",
			Initiator:         "admin",
			Timestamp:         time.Now(),
			Success:           true,
		}
		require.NoError(t, db.AddUpgradeTransaction(entry, nil))
	}
	history, err := db.GetUpgradeHistory(0, nil)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, uint64(3), history[0].ID)
	assert.Equal(t, uint64(1), history[2].ID)
	limited, err := db.GetUpgradeHistory(2, nil)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, uint64(3), limited[0].ID)
	_, err = db.GetUpgradeTransaction(99, nil)
	require.ErrorIs(t, err, models.ErrUpgradeTxnNotFound)
}

func TestReopenPersistsState(t *testing.T) {
	dataDir := t.TempDir()
	db, err := database.New(&database.Config{DataDir: dataDir})
	require.NoError(t, err)
	record := &models.ProxyRecord{
		Implementation: "impl-addr-1",
		Admin:          "admin-1",
	}
	require.NoError(t, db.SetProxyRecord(record, nil))
	require.NoError(t, db.Close())
	// Reopen passes the commit timestamp consistency check and sees the data
	db, err = database.New(&database.Config{DataDir: dataDir})
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck
	ret, err := db.GetProxyRecord(nil)
	require.NoError(t, err)
	assert.Equal(t, "impl-addr-1", ret.Implementation)
}
