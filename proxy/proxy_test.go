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

package proxy_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/blinklabs-io/govproxy/database"
	"github.com/blinklabs-io/govproxy/database/models"
	"github.com/blinklabs-io/govproxy/event"
	"github.com/blinklabs-io/govproxy/identity"
	"github.com/blinklabs-io/govproxy/proxy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAdmin = identity.Identity("admin-addr")
	testImpl  = "impl-addr-1"
)

func testService(t *testing.T) (*proxy.Service, *event.EventBus) {
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
	svc := proxy.NewService(proxy.ServiceConfig{
		Database: db,
		EventBus: eventBus,
	})
	require.NoError(t, svc.Initialize(testImpl, testAdmin))
	return svc, eventBus
}

// snapshot captures all proxy-visible state for zero-change assertions
type stateSnapshot struct {
	record  models.ProxyRecord
	history []models.UpgradeTransaction
}

func snapshotState(t *testing.T, svc *proxy.Service) stateSnapshot {
	t.Helper()
	record, err := svc.Info()
	require.NoError(t, err)
	history, err := svc.History(0)
	require.NoError(t, err)
	return stateSnapshot{record: *record, history: history}
}

func TestInitializeOnce(t *testing.T) {
	svc, _ := testService(t)
	err := svc.Initialize(testImpl, testAdmin)
	require.ErrorIs(t, err, proxy.ErrAlreadyInitialized)
	require.ErrorIs(t, err, proxy.ErrInvalidState)
}

func TestUninitializedReads(t *testing.T) {
	db, err := database.New(&database.Config{
		DataDir: t.TempDir(),
	})
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck
	svc := proxy.NewService(proxy.ServiceConfig{Database: db})
	_, err = svc.Info()
	require.ErrorIs(t, err, models.ErrProxyNotInitialized)
	_, err = svc.Upgrade(testAdmin, "impl-addr-2")
	require.ErrorIs(t, err, models.ErrProxyNotInitialized)
}

func TestUpgradeByAdmin(t *testing.T) {
	svc, eventBus := testService(t)
	_, evtCh := eventBus.Subscribe(event.ProxyUpgradedEventType)
	id, err := svc.Upgrade(testAdmin, "impl-addr-2")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)
	record, err := svc.Info()
	require.NoError(t, err)
	assert.Equal(t, "impl-addr-2", record.Implementation)
	assert.Equal(t, uint64(1), record.VersionCounter)
	// Audit record committed alongside the record update
	upgradeTxn, err := svc.Transaction(id)
	require.NoError(t, err)
	assert.Equal(t, "impl-addr-2", upgradeTxn.NewImplementation)
	assert.Equal(t, testAdmin.String(), upgradeTxn.Initiator)
	assert.True(t, upgradeTxn.Success)
	select {
	case evt := <-evtCh:
		payload, ok := evt.Data.(event.ProxyUpgradedEvent)
		require.True(t, ok)
		assert.Equal(t, uint64(1), payload.Id)
		assert.Equal(t, "impl-addr-2", payload.NewImplementation)
	case <-time.After(1 * time.Second):
		t.Fatalf("timeout waiting for event")
	}
}

func TestUpgradeIdSequence(t *testing.T) {
	svc, _ := testService(t)
	for want := uint64(1); want <= 5; want++ {
		id, err := svc.Upgrade(
			testAdmin,
			fmt.Sprintf("impl-addr-%d", want+1),
		)
		require.NoError(t, err)
		assert.Equal(t, want, id)
	}
	// A failed attempt burns no id
	_, err := svc.Upgrade("mallory", "impl-addr-evil")
	require.ErrorIs(t, err, identity.ErrUnauthorized)
	id, err := svc.Upgrade(testAdmin, "impl-addr-7")
	require.NoError(t, err)
	assert.Equal(t, uint64(6), id)
	record, err := svc.Info()
	require.NoError(t, err)
	assert.Equal(t, uint64(6), record.VersionCounter)
}

func TestUpgradeUnauthorizedNoStateChange(t *testing.T) {
	svc, _ := testService(t)
	before := snapshotState(t, svc)
	_, err := svc.Upgrade("mallory", "impl-addr-evil")
	require.ErrorIs(t, err, identity.ErrUnauthorized)
	after := snapshotState(t, svc)
	assert.Equal(t, before, after)
}

func TestTwoPhaseAdminTransfer(t *testing.T) {
	svc, _ := testService(t)
	newAdmin := identity.Identity("admin-addr-2")
	require.NoError(t, svc.TransferAdmin(testAdmin, newAdmin))
	// Nomination alone does not change the admin
	record, err := svc.Info()
	require.NoError(t, err)
	assert.Equal(t, testAdmin.String(), record.Admin)
	assert.Equal(t, newAdmin.String(), record.PendingAdmin)
	// The old admin can still act
	_, err = svc.Upgrade(testAdmin, "impl-addr-2")
	require.NoError(t, err)
	// Only the nominated identity may accept
	err = svc.AcceptAdmin("mallory")
	require.ErrorIs(t, err, identity.ErrUnauthorized)
	require.NoError(t, svc.AcceptAdmin(newAdmin))
	record, err = svc.Info()
	require.NoError(t, err)
	assert.Equal(t, newAdmin.String(), record.Admin)
	assert.Empty(t, record.PendingAdmin)
	// Control has moved
	_, err = svc.Upgrade(testAdmin, "impl-addr-3")
	require.ErrorIs(t, err, identity.ErrUnauthorized)
	_, err = svc.Upgrade(newAdmin, "impl-addr-3")
	require.NoError(t, err)
}

func TestAcceptAdminWithoutTransfer(t *testing.T) {
	svc, _ := testService(t)
	err := svc.AcceptAdmin(testAdmin)
	require.ErrorIs(t, err, proxy.ErrNoPendingAdmin)
	require.ErrorIs(t, err, proxy.ErrInvalidState)
}

func TestTransferAdminUnauthorized(t *testing.T) {
	svc, _ := testService(t)
	err := svc.TransferAdmin("mallory", "admin-addr-2")
	require.ErrorIs(t, err, identity.ErrUnauthorized)
	record, err := svc.Info()
	require.NoError(t, err)
	assert.Empty(t, record.PendingAdmin)
}

func TestPauseGating(t *testing.T) {
	svc, _ := testService(t)
	require.NoError(t, svc.EmergencyStop(testAdmin))
	record, err := svc.Info()
	require.NoError(t, err)
	assert.True(t, record.Paused)
	// Upgrades and transfers are rejected while paused
	_, err = svc.Upgrade(testAdmin, "impl-addr-2")
	require.ErrorIs(t, err, proxy.ErrPaused)
	err = svc.TransferAdmin(testAdmin, "admin-addr-2")
	require.ErrorIs(t, err, proxy.ErrPaused)
	// Reads are unaffected
	_, err = svc.Info()
	require.NoError(t, err)
	// Double stop is rejected
	err = svc.EmergencyStop(testAdmin)
	require.ErrorIs(t, err, proxy.ErrPaused)
	// Resume restores normal operation
	require.NoError(t, svc.Resume(testAdmin))
	_, err = svc.Upgrade(testAdmin, "impl-addr-2")
	require.NoError(t, err)
	// Resume without a pause is rejected
	err = svc.Resume(testAdmin)
	require.ErrorIs(t, err, proxy.ErrNotPaused)
}

func TestPauseUnauthorized(t *testing.T) {
	svc, _ := testService(t)
	err := svc.EmergencyStop("mallory")
	require.ErrorIs(t, err, identity.ErrUnauthorized)
	record, err := svc.Info()
	require.NoError(t, err)
	assert.False(t, record.Paused)
}

func TestHistoryAndTransactionLookup(t *testing.T) {
	svc, _ := testService(t)
	for i := 2; i <= 4; i++ {
		_, err := svc.Upgrade(testAdmin, fmt.Sprintf("impl-addr-%d", i))
		require.NoError(t, err)
	}
	history, err := svc.History(0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "impl-addr-4", history[0].NewImplementation)
	assert.Equal(t, "impl-addr-2", history[2].NewImplementation)
	limited, err := svc.History(1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	_, err = svc.Transaction(99)
	require.ErrorIs(t, err, models.ErrUpgradeTxnNotFound)
}
