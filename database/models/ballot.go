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

import "time"

// Ballot records a single identity's vote on a proposal. The unique
// index over (proposal_id, voter) is what makes votes idempotent per
// voter: a second ballot from the same identity is rejected before any
// tally change.
type Ballot struct {
	ID         uint   `gorm:"primarykey"`
	ProposalID uint64 `gorm:"uniqueIndex:idx_ballot_proposal_voter,priority:1;not null"`
	Voter      string `gorm:"uniqueIndex:idx_ballot_proposal_voter,priority:2;size:128;not null"`
	Weight     uint64 `gorm:"not null"`
	VoteFor    bool   `gorm:"not null"`
	CastAt     time.Time
}

// TableName returns the table name
func (Ballot) TableName() string {
	return "ballot"
}
