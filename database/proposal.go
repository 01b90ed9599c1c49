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

package database

import (
	"github.com/blinklabs-io/govproxy/database/models"
)

// AddProposal stores a new upgrade proposal
func (d *Database) AddProposal(
	proposal *models.UpgradeProposal,
	txn *Txn,
) error {
	if txn == nil {
		txn = d.Transaction(true)
		return txn.Do(func(txn *Txn) error {
			return d.AddProposal(proposal, txn)
		})
	}
	return d.metadata.AddProposal(proposal, txn.Metadata())
}

// UpdateProposal persists changes to an existing proposal
func (d *Database) UpdateProposal(
	proposal *models.UpgradeProposal,
	txn *Txn,
) error {
	if txn == nil {
		txn = d.Transaction(true)
		return txn.Do(func(txn *Txn) error {
			return d.UpdateProposal(proposal, txn)
		})
	}
	return d.metadata.UpdateProposal(proposal, txn.Metadata())
}

// GetProposal returns the proposal with the given id. Returns
// models.ErrProposalNotFound for unknown ids.
func (d *Database) GetProposal(
	id uint64,
	txn *Txn,
) (*models.UpgradeProposal, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Commit() //nolint:errcheck
	}
	ret, err := d.metadata.GetProposal(id, txn.Metadata())
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, models.ErrProposalNotFound
	}
	return ret, nil
}

// GetProposalsByStatus returns all proposals with the given status in
// ascending id order
func (d *Database) GetProposalsByStatus(
	status uint8,
	txn *Txn,
) ([]models.UpgradeProposal, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Commit() //nolint:errcheck
	}
	return d.metadata.GetProposalsByStatus(status, txn.Metadata())
}

// AddBallot records a vote on a proposal. The unique index on
// (proposal_id, voter) rejects a second ballot from the same voter.
func (d *Database) AddBallot(ballot *models.Ballot, txn *Txn) error {
	if txn == nil {
		txn = d.Transaction(true)
		return txn.Do(func(txn *Txn) error {
			return d.AddBallot(ballot, txn)
		})
	}
	return d.metadata.AddBallot(ballot, txn.Metadata())
}

// GetBallot returns the ballot cast by a voter on a proposal, or nil if
// the voter has not voted
func (d *Database) GetBallot(
	proposalId uint64,
	voter string,
	txn *Txn,
) (*models.Ballot, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Commit() //nolint:errcheck
	}
	return d.metadata.GetBallot(proposalId, voter, txn.Metadata())
}

// GetBallots returns all ballots cast on a proposal
func (d *Database) GetBallots(
	proposalId uint64,
	txn *Txn,
) ([]models.Ballot, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Commit() //nolint:errcheck
	}
	return d.metadata.GetBallots(proposalId, txn.Metadata())
}
