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
	"context"
	"errors"
	"fmt"

	"github.com/blinklabs-io/govproxy/database"
	"github.com/blinklabs-io/govproxy/database/models"
	"github.com/blinklabs-io/govproxy/event"
	"github.com/blinklabs-io/govproxy/identity"
	"github.com/blinklabs-io/govproxy/version"
)

// Execute applies an approved proposal: it runs the registered
// migration plan (if any), records the proposal's address and version
// in the governance config, and marks the proposal Executed. A failing
// migration aborts the whole transaction, leaving the proposal Approved
// and the version unchanged.
func (s *Service) Execute(
	ctx context.Context,
	executor identity.Identity,
	proposalId uint64,
) error {
	var newVersion version.Version
	var newContractAddress string
	err := s.db.Transaction(true).Do(func(txn *database.Txn) error {
		config, err := s.requireGovernance(executor, txn)
		if err != nil {
			return err
		}
		proposal, err := s.db.GetProposal(proposalId, txn)
		if err != nil {
			return err
		}
		if proposal.Status != models.ProposalStatusApproved {
			return fmt.Errorf(
				"proposal %d is %s: %w",
				proposalId,
				models.ProposalStatusString(proposal.Status),
				ErrInvalidState,
			)
		}
		newVersion = proposal.Version()
		newContractAddress = proposal.NewContractAddress
		// Run the registered migration, if any, before touching the
		// config. The runner error propagates and rolls back everything.
		plan, err := s.db.GetMigrationPlan(proposalId, txn)
		if err != nil && !errors.Is(err, models.ErrMigrationPlanNotFound) {
			return err
		}
		if plan != nil {
			if err := s.runMigration(ctx, plan); err != nil {
				return err
			}
		}
		config.CurrentVersion = newVersion
		config.CurrentImplementation = newContractAddress
		if err := s.db.SetGovernanceConfig(config, txn); err != nil {
			return err
		}
		proposal.Status = models.ProposalStatusExecuted
		return s.db.UpdateProposal(proposal, txn)
	})
	s.recordOp("execute", err)
	if err != nil {
		return err
	}
	s.recordStatus(models.ProposalStatusExecuted)
	s.logger.Info(
		"executed upgrade proposal",
		"id", proposalId,
		"version", newVersion.String(),
		"implementation", newContractAddress,
		"component", "governance",
	)
	s.publish(
		event.UpgradeExecutedEventType,
		event.UpgradeExecutedEvent{
			ProposalId:         proposalId,
			NewContractAddress: newContractAddress,
			Version:            newVersion,
		},
	)
	return nil
}

// runMigration invokes the migration runner bracketed by start and
// completion notifications
func (s *Service) runMigration(
	ctx context.Context,
	plan *models.MigrationPlan,
) error {
	migrationEvt := event.MigrationEvent{
		ProposalId:  plan.ProposalID,
		FromVersion: plan.FromVersion(),
		ToVersion:   plan.ToVersion(),
		Selector:    plan.Selector,
	}
	s.publish(event.MigrationStartedEventType, migrationEvt)
	s.logger.Info(
		"started migration",
		"proposal_id", plan.ProposalID,
		"selector", plan.Selector,
		"component", "governance",
	)
	if err := s.migrationRunner.Run(ctx, plan); err != nil {
		return fmt.Errorf(
			"migration %q failed: %w",
			plan.Selector,
			err,
		)
	}
	s.publish(event.MigrationCompletedEventType, migrationEvt)
	s.logger.Info(
		"completed migration",
		"proposal_id", plan.ProposalID,
		"selector", plan.Selector,
		"component", "governance",
	)
	return nil
}

// RegisterMigrationPlan attaches a migration plan to an existing
// proposal. Re-registration overwrites the stored plan wholesale.
func (s *Service) RegisterMigrationPlan(
	caller identity.Identity,
	proposalId uint64,
	plan *models.MigrationPlan,
) error {
	err := s.db.Transaction(true).Do(func(txn *database.Txn) error {
		if _, err := s.requireGovernance(caller, txn); err != nil {
			return err
		}
		// The plan is tied 1:1 to a real proposal
		if _, err := s.db.GetProposal(proposalId, txn); err != nil {
			return err
		}
		plan.ProposalID = proposalId
		return s.db.SetMigrationPlan(plan, txn)
	})
	s.recordOp("register_migration_plan", err)
	if err != nil {
		return err
	}
	s.logger.Info(
		"registered migration plan",
		"proposal_id", proposalId,
		"selector", plan.Selector,
		"component", "governance",
	)
	s.publish(
		event.MigrationRegisteredEventType,
		event.MigrationRegisteredEvent{
			ProposalId:    proposalId,
			Selector:      plan.Selector,
			EstimatedCost: plan.EstimatedCost,
		},
	)
	return nil
}

// EmergencyUpgrade bypasses the proposal workflow entirely. It requires
// the governance identity and the emergency switch to be enabled, and
// persists both the new version and the new contract address.
func (s *Service) EmergencyUpgrade(
	caller identity.Identity,
	newContractAddress string,
	newVersion version.Version,
) error {
	err := s.db.Transaction(true).Do(func(txn *database.Txn) error {
		config, err := s.requireGovernance(caller, txn)
		if err != nil {
			return err
		}
		if !config.EmergencyEnabled {
			return ErrNotEnabled
		}
		config.CurrentVersion = newVersion
		config.CurrentImplementation = newContractAddress
		return s.db.SetGovernanceConfig(config, txn)
	})
	s.recordOp("emergency_upgrade", err)
	if err != nil {
		return err
	}
	s.logger.Warn(
		"performed emergency upgrade",
		"version", newVersion.String(),
		"implementation", newContractAddress,
		"component", "governance",
	)
	s.publish(
		event.EmergencyExecutedEventType,
		event.EmergencyExecutedEvent{
			NewContractAddress: newContractAddress,
			Version:            newVersion,
			Caller:             caller.String(),
		},
	)
	return nil
}

// ToggleEmergency enables or disables the emergency upgrade path
func (s *Service) ToggleEmergency(
	caller identity.Identity,
	enable bool,
) error {
	err := s.db.Transaction(true).Do(func(txn *database.Txn) error {
		config, err := s.requireGovernance(caller, txn)
		if err != nil {
			return err
		}
		config.EmergencyEnabled = enable
		return s.db.SetGovernanceConfig(config, txn)
	})
	s.recordOp("toggle_emergency", err)
	if err != nil {
		return err
	}
	s.logger.Info(
		"toggled emergency upgrades",
		"enabled", enable,
		"component", "governance",
	)
	s.publish(
		event.EmergencyToggledEventType,
		event.EmergencyToggledEvent{
			Enabled: enable,
			Caller:  caller.String(),
		},
	)
	return nil
}

// Rollback moves the recorded version backward within the same major
// version. Forward minor jumps and major changes fail with
// ErrInvalidTransition.
func (s *Service) Rollback(
	caller identity.Identity,
	targetVersion version.Version,
) error {
	var fromVersion version.Version
	err := s.db.Transaction(true).Do(func(txn *database.Txn) error {
		config, err := s.requireGovernance(caller, txn)
		if err != nil {
			return err
		}
		current := config.CurrentVersion
		if targetVersion.Major != current.Major ||
			targetVersion.Minor > current.Minor {
			return fmt.Errorf(
				"cannot roll back from %s to %s: %w",
				current.String(),
				targetVersion.String(),
				ErrInvalidTransition,
			)
		}
		fromVersion = current
		config.CurrentVersion = targetVersion
		return s.db.SetGovernanceConfig(config, txn)
	})
	s.recordOp("rollback", err)
	if err != nil {
		return err
	}
	s.logger.Warn(
		"rolled back version",
		"from", fromVersion.String(),
		"to", targetVersion.String(),
		"component", "governance",
	)
	s.publish(
		event.RollbackCompletedEventType,
		event.RollbackCompletedEvent{
			FromVersion: fromVersion,
			ToVersion:   targetVersion,
			Caller:      caller.String(),
		},
	)
	return nil
}
