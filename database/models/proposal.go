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

package models

import (
	"time"

	"github.com/blinklabs-io/govproxy/version"
)

// ProposalStatus values represent the proposal lifecycle state.
// Pending -> {Approved, Rejected, Cancelled}; Approved -> Executed.
// Executed, Rejected, and Cancelled are terminal.
const (
	ProposalStatusPending   uint8 = 0
	ProposalStatusApproved  uint8 = 1
	ProposalStatusExecuted  uint8 = 2
	ProposalStatusRejected  uint8 = 3
	ProposalStatusCancelled uint8 = 4
)

// ProposalStatusString returns a human-readable name for a status value
func ProposalStatusString(status uint8) string {
	switch status {
	case ProposalStatusPending:
		return "pending"
	case ProposalStatusApproved:
		return "approved"
	case ProposalStatusExecuted:
		return "executed"
	case ProposalStatusRejected:
		return "rejected"
	case ProposalStatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ProposalStatusTerminal returns true for statuses that permit no
// further transitions
func ProposalStatusTerminal(status uint8) bool {
	switch status {
	case ProposalStatusExecuted, ProposalStatusRejected, ProposalStatusCancelled:
		return true
	default:
		return false
	}
}

// UpgradeProposal represents a proposed upgrade going through the
// governed propose/vote/execute lifecycle. VotesFor and VotesAgainst are
// weighted sums, not head-counts. TotalVoters is the quorum base
// snapshotted at proposal creation (and adjustable while Pending).
type UpgradeProposal struct {
	ID                 uint64    `gorm:"primarykey;autoIncrement:false"`
	Proposer           string    `gorm:"index;size:128;not null"`
	NewContractAddress string    `gorm:"size:128;not null"`
	VersionMajor       uint32    `gorm:"not null"`
	VersionMinor       uint32    `gorm:"not null"`
	VersionPatch       uint32    `gorm:"not null"`
	Description        string    `gorm:"size:1024"`
	Timestamp          time.Time `gorm:"not null"`
	Status             uint8     `gorm:"index;not null"`
	VotesFor           uint64    `gorm:"not null"`
	VotesAgainst       uint64    `gorm:"not null"`
	TotalVoters        uint64    `gorm:"not null"`
}

// TableName returns the table name
func (UpgradeProposal) TableName() string {
	return "upgrade_proposal"
}

// Version returns the proposal's target version
func (p *UpgradeProposal) Version() version.Version {
	return version.New(p.VersionMajor, p.VersionMinor, p.VersionPatch)
}

// SetVersion sets the proposal's target version
func (p *UpgradeProposal) SetVersion(v version.Version) {
	p.VersionMajor = v.Major
	p.VersionMinor = v.Minor
	p.VersionPatch = v.Patch
}

// RequiredVotes returns the weighted vote threshold for a decision:
// a simple majority of the quorum base, floor(total/2)+1
func (p *UpgradeProposal) RequiredVotes() uint64 {
	return (p.TotalVoters / 2) + 1
}
