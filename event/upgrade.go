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

package event

import "github.com/blinklabs-io/govproxy/version"

// ProposalCreatedEventType is the event type for new upgrade proposals
const ProposalCreatedEventType = EventType("upgrade.proposal_created")

// ProposalCreatedEvent is emitted when a proposal enters the Pending state
type ProposalCreatedEvent struct {
	// Id is the proposal identifier
	Id uint64
	// Proposer is the identity that created the proposal
	Proposer string
	// NewContractAddress is the proposed implementation address
	NewContractAddress string
	// Version is the proposed implementation version
	Version version.Version
	// TotalVoters is the quorum snapshot taken at proposal time
	TotalVoters uint64
}

// VoteCastEventType is the event type for recorded ballots
const VoteCastEventType = EventType("upgrade.vote_cast")

// VoteCastEvent is emitted when a ballot is recorded on a pending proposal
type VoteCastEvent struct {
	ProposalId uint64
	Voter      string
	Weight     uint64
	VoteFor    bool
}

// ProposalApprovedEventType is the event type for proposals reaching quorum
const ProposalApprovedEventType = EventType("upgrade.proposal_approved")

// ProposalRejectedEventType is the event type for proposals rejected by vote
const ProposalRejectedEventType = EventType("upgrade.proposal_rejected")

// ProposalDecidedEvent is emitted when voting moves a proposal out of the
// Pending state, as either an approval or a rejection
type ProposalDecidedEvent struct {
	Id           uint64
	VotesFor     uint64
	VotesAgainst uint64
}

// ProposalCancelledEventType is the event type for cancelled proposals
const ProposalCancelledEventType = EventType("upgrade.proposal_cancelled")

// ProposalCancelledEvent is emitted when a pending proposal is withdrawn
type ProposalCancelledEvent struct {
	Id          uint64
	CancelledBy string
}

// UpgradeExecutedEventType is the event type for executed proposals
const UpgradeExecutedEventType = EventType("upgrade.executed")

// UpgradeExecutedEvent is emitted after an approved proposal executes
type UpgradeExecutedEvent struct {
	ProposalId         uint64
	NewContractAddress string
	Version            version.Version
}

// MigrationStartedEventType is the event type for migration start
const MigrationStartedEventType = EventType("upgrade.migration_started")

// MigrationCompletedEventType is the event type for migration completion
const MigrationCompletedEventType = EventType("upgrade.migration_completed")

// MigrationEvent brackets a data migration run during proposal execution
type MigrationEvent struct {
	ProposalId  uint64
	FromVersion version.Version
	ToVersion   version.Version
	Selector    string
}

// MigrationRegisteredEventType is the event type for registered migration plans
const MigrationRegisteredEventType = EventType("upgrade.migration_registered")

// MigrationRegisteredEvent is emitted when a migration plan is registered
// or replaced for a proposal
type MigrationRegisteredEvent struct {
	ProposalId    uint64
	Selector      string
	EstimatedCost uint64
}

// EmergencyExecutedEventType is the event type for emergency upgrades
const EmergencyExecutedEventType = EventType("upgrade.emergency_executed")

// EmergencyExecutedEvent is emitted when the governance identity bypasses
// the proposal workflow
type EmergencyExecutedEvent struct {
	NewContractAddress string
	Version            version.Version
	Caller             string
}

// EmergencyToggledEventType is the event type for the emergency switch
const EmergencyToggledEventType = EventType("upgrade.emergency_toggled")

// EmergencyToggledEvent is emitted when emergency upgrades are enabled or
// disabled
type EmergencyToggledEvent struct {
	Enabled bool
	Caller  string
}

// RollbackCompletedEventType is the event type for version rollbacks
const RollbackCompletedEventType = EventType("upgrade.rollback_completed")

// RollbackCompletedEvent is emitted after a rollback commits
type RollbackCompletedEvent struct {
	FromVersion version.Version
	ToVersion   version.Version
	Caller      string
}

// QuorumSetEventType is the event type for quorum overrides
const QuorumSetEventType = EventType("upgrade.quorum_set")

// QuorumSetEvent is emitted when governance overrides the quorum snapshot
// of a pending proposal
type QuorumSetEvent struct {
	ProposalId  uint64
	TotalVoters uint64
}
