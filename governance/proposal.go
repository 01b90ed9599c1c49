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

package governance

import (
	"errors"
	"fmt"
	"time"

	"github.com/blinklabs-io/govproxy/database"
	"github.com/blinklabs-io/govproxy/database/models"
	"github.com/blinklabs-io/govproxy/event"
	"github.com/blinklabs-io/govproxy/identity"
	"github.com/blinklabs-io/govproxy/version"
)

// Propose creates a new upgrade proposal in the Pending state and
// returns its id. The quorum (total_voters) is snapshotted from the sum
// of all registered voting power at creation time; governance may
// override it later with SetProposalQuorum while the proposal is still
// Pending.
func (s *Service) Propose(
	proposer identity.Identity,
	newContractAddress string,
	targetVersion version.Version,
	description string,
) (uint64, error) {
	if newContractAddress == "" {
		return 0, errors.New("empty contract address")
	}
	var proposalId uint64
	var totalVoters uint64
	err := s.db.Transaction(true).Do(func(txn *database.Txn) error {
		// Proposals require an initialized governance config
		if _, err := s.db.GetGovernanceConfig(txn); err != nil {
			return err
		}
		var err error
		proposalId, err = s.db.NextProposalId(txn)
		if err != nil {
			return err
		}
		totalVoters, err = s.db.GetTotalVotingPower(txn)
		if err != nil {
			return err
		}
		proposal := &models.UpgradeProposal{
			ID:                 proposalId,
			Proposer:           proposer.String(),
			NewContractAddress: newContractAddress,
			Description:        description,
			Timestamp:          time.Now(),
			Status:             models.ProposalStatusPending,
			TotalVoters:        totalVoters,
		}
		proposal.SetVersion(targetVersion)
		return s.db.AddProposal(proposal, txn)
	})
	s.recordOp("propose", err)
	if err != nil {
		return 0, err
	}
	s.recordStatus(models.ProposalStatusPending)
	s.logger.Info(
		"created upgrade proposal",
		"id", proposalId,
		"proposer", proposer.String(),
		"version", targetVersion.String(),
		"total_voters", totalVoters,
		"component", "governance",
	)
	s.publish(
		event.ProposalCreatedEventType,
		event.ProposalCreatedEvent{
			Id:                 proposalId,
			Proposer:           proposer.String(),
			NewContractAddress: newContractAddress,
			Version:            targetVersion,
			TotalVoters:        totalVoters,
		},
	)
	return proposalId, nil
}

// Vote records a weighted ballot on a pending proposal. A second ballot
// from the same identity fails with ErrAlreadyVoted. A zero-weight
// ballot is accepted but has no tallying effect. When either tally
// reaches floor(total_voters/2)+1 the proposal leaves the Pending state.
func (s *Service) Vote(
	voter identity.Identity,
	proposalId uint64,
	voteFor bool,
) error {
	var weight uint64
	var newStatus uint8
	var votesFor, votesAgainst uint64
	err := s.db.Transaction(true).Do(func(txn *database.Txn) error {
		proposal, err := s.db.GetProposal(proposalId, txn)
		if err != nil {
			return err
		}
		if proposal.Status != models.ProposalStatusPending {
			return fmt.Errorf(
				"proposal %d is %s: %w",
				proposalId,
				models.ProposalStatusString(proposal.Status),
				ErrInvalidState,
			)
		}
		ballot, err := s.db.GetBallot(proposalId, voter.String(), txn)
		if err != nil {
			return err
		}
		if ballot != nil {
			return fmt.Errorf(
				"identity %q: %w",
				voter,
				ErrAlreadyVoted,
			)
		}
		weight, err = s.db.GetVotingPower(voter.String(), txn)
		if err != nil {
			return err
		}
		newBallot := &models.Ballot{
			ProposalID: proposalId,
			Voter:      voter.String(),
			Weight:     weight,
			VoteFor:    voteFor,
			CastAt:     time.Now(),
		}
		if err := s.db.AddBallot(newBallot, txn); err != nil {
			return err
		}
		if voteFor {
			proposal.VotesFor += weight
		} else {
			proposal.VotesAgainst += weight
		}
		required := proposal.RequiredVotes()
		if proposal.VotesFor >= required {
			proposal.Status = models.ProposalStatusApproved
		} else if proposal.VotesAgainst >= required {
			proposal.Status = models.ProposalStatusRejected
		}
		newStatus = proposal.Status
		votesFor = proposal.VotesFor
		votesAgainst = proposal.VotesAgainst
		return s.db.UpdateProposal(proposal, txn)
	})
	s.recordOp("vote", err)
	if err != nil {
		return err
	}
	s.logger.Info(
		"recorded ballot",
		"id", proposalId,
		"voter", voter.String(),
		"weight", weight,
		"vote_for", voteFor,
		"status", models.ProposalStatusString(newStatus),
		"component", "governance",
	)
	s.publish(
		event.VoteCastEventType,
		event.VoteCastEvent{
			ProposalId: proposalId,
			Voter:      voter.String(),
			Weight:     weight,
			VoteFor:    voteFor,
		},
	)
	switch newStatus {
	case models.ProposalStatusApproved:
		s.recordStatus(newStatus)
		s.publish(
			event.ProposalApprovedEventType,
			event.ProposalDecidedEvent{
				Id:           proposalId,
				VotesFor:     votesFor,
				VotesAgainst: votesAgainst,
			},
		)
	case models.ProposalStatusRejected:
		s.recordStatus(newStatus)
		s.publish(
			event.ProposalRejectedEventType,
			event.ProposalDecidedEvent{
				Id:           proposalId,
				VotesFor:     votesFor,
				VotesAgainst: votesAgainst,
			},
		)
	}
	return nil
}

// Cancel withdraws a pending proposal. Only the original proposer or
// the governance identity may cancel.
func (s *Service) Cancel(
	caller identity.Identity,
	proposalId uint64,
) error {
	err := s.db.Transaction(true).Do(func(txn *database.Txn) error {
		config, err := s.db.GetGovernanceConfig(txn)
		if err != nil {
			return err
		}
		proposal, err := s.db.GetProposal(proposalId, txn)
		if err != nil {
			return err
		}
		if caller.String() != proposal.Proposer &&
			caller.String() != config.GovernanceIdentity {
			return fmt.Errorf(
				"caller %q may not cancel proposal %d: %w",
				caller,
				proposalId,
				identity.ErrUnauthorized,
			)
		}
		if proposal.Status != models.ProposalStatusPending {
			return fmt.Errorf(
				"proposal %d is %s: %w",
				proposalId,
				models.ProposalStatusString(proposal.Status),
				ErrInvalidState,
			)
		}
		proposal.Status = models.ProposalStatusCancelled
		return s.db.UpdateProposal(proposal, txn)
	})
	s.recordOp("cancel", err)
	if err != nil {
		return err
	}
	s.recordStatus(models.ProposalStatusCancelled)
	s.logger.Info(
		"cancelled proposal",
		"id", proposalId,
		"cancelled_by", caller.String(),
		"component", "governance",
	)
	s.publish(
		event.ProposalCancelledEventType,
		event.ProposalCancelledEvent{
			Id:          proposalId,
			CancelledBy: caller.String(),
		},
	)
	return nil
}

// SetProposalQuorum overrides the quorum snapshot of a pending proposal.
// Quorum provisioning is external, so governance may correct a snapshot
// taken before voting power was registered.
func (s *Service) SetProposalQuorum(
	caller identity.Identity,
	proposalId uint64,
	totalVoters uint64,
) error {
	err := s.db.Transaction(true).Do(func(txn *database.Txn) error {
		if _, err := s.requireGovernance(caller, txn); err != nil {
			return err
		}
		proposal, err := s.db.GetProposal(proposalId, txn)
		if err != nil {
			return err
		}
		if proposal.Status != models.ProposalStatusPending {
			return fmt.Errorf(
				"proposal %d is %s: %w",
				proposalId,
				models.ProposalStatusString(proposal.Status),
				ErrInvalidState,
			)
		}
		proposal.TotalVoters = totalVoters
		return s.db.UpdateProposal(proposal, txn)
	})
	s.recordOp("set_proposal_quorum", err)
	if err != nil {
		return err
	}
	s.logger.Info(
		"set proposal quorum",
		"id", proposalId,
		"total_voters", totalVoters,
		"component", "governance",
	)
	s.publish(
		event.QuorumSetEventType,
		event.QuorumSetEvent{
			ProposalId:  proposalId,
			TotalVoters: totalVoters,
		},
	)
	return nil
}

// Proposal returns a single proposal by id
func (s *Service) Proposal(
	proposalId uint64,
) (*models.UpgradeProposal, error) {
	return s.db.GetProposal(proposalId, nil)
}

// PendingProposals returns all proposals still open for voting, in
// ascending id order
func (s *Service) PendingProposals() ([]models.UpgradeProposal, error) {
	return s.db.GetProposalsByStatus(models.ProposalStatusPending, nil)
}

// ProposalsByStatus returns all proposals with the given status, in
// ascending id order
func (s *Service) ProposalsByStatus(
	status uint8,
) ([]models.UpgradeProposal, error) {
	return s.db.GetProposalsByStatus(status, nil)
}

// Ballots returns all ballots cast on a proposal
func (s *Service) Ballots(proposalId uint64) ([]models.Ballot, error) {
	return s.db.GetBallots(proposalId, nil)
}
