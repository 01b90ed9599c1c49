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

// Package governance implements the governed upgrade service: the
// proposal state machine (propose, vote, execute), migration plan
// registration and invocation, the emergency bypass, and rollback.
// Every mutating operation runs in a single combined store transaction.
package governance

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/blinklabs-io/govproxy/database"
	"github.com/blinklabs-io/govproxy/database/models"
	"github.com/blinklabs-io/govproxy/event"
	"github.com/blinklabs-io/govproxy/identity"
	"github.com/blinklabs-io/govproxy/version"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ErrInvalidState is returned for operations attempted against a
	// proposal (or the service) in the wrong lifecycle state
	ErrInvalidState = errors.New("invalid state")
	// ErrAlreadyInitialized is returned when initializing twice
	ErrAlreadyInitialized = fmt.Errorf(
		"governance already initialized: %w",
		ErrInvalidState,
	)
	// ErrInvalidTransition is returned when a version change violates
	// the rollback rule
	ErrInvalidTransition = errors.New("invalid version transition")
	// ErrNotEnabled is returned by the emergency path while disabled
	ErrNotEnabled = errors.New("emergency upgrades not enabled")
	// ErrAlreadyVoted is returned when an identity votes twice on the
	// same proposal
	ErrAlreadyVoted = errors.New("already voted on proposal")
)

type ServiceConfig struct {
	Database        *database.Database
	EventBus        *event.EventBus
	Logger          *slog.Logger
	PromRegistry    prometheus.Registerer
	MigrationRunner MigrationRunner
}

type Service struct {
	db              *database.Database
	eventBus        *event.EventBus
	logger          *slog.Logger
	migrationRunner MigrationRunner
	metrics         serviceMetrics
}

type serviceMetrics struct {
	operations *prometheus.CounterVec
	proposals  *prometheus.CounterVec
}

func NewService(config ServiceConfig) *Service {
	s := &Service{
		db:              config.Database,
		eventBus:        config.EventBus,
		migrationRunner: config.MigrationRunner,
	}
	if config.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		s.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	} else {
		s.logger = config.Logger
	}
	if s.migrationRunner == nil {
		// Empty registry rejects any migration selector
		s.migrationRunner = NewMigrationRegistry()
	}
	promautoFactory := promauto.With(config.PromRegistry)
	s.metrics.operations = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "govproxy_governance_operations_total",
			Help: "total governance operations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
	s.metrics.proposals = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "govproxy_governance_proposals_total",
			Help: "total proposal state transitions by resulting status",
		},
		[]string{"status"},
	)
	return s
}

func (s *Service) recordOp(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	s.metrics.operations.WithLabelValues(operation, outcome).Inc()
}

func (s *Service) recordStatus(status uint8) {
	s.metrics.proposals.WithLabelValues(
		models.ProposalStatusString(status),
	).Inc()
}

// Initialize creates the governance config singleton. It may only be
// called once.
func (s *Service) Initialize(
	governanceIdentity identity.Identity,
	currentVersion version.Version,
) error {
	err := s.db.Transaction(true).Do(func(txn *database.Txn) error {
		_, err := s.db.GetGovernanceConfig(txn)
		if err == nil {
			return ErrAlreadyInitialized
		}
		if !errors.Is(err, models.ErrGovNotInitialized) {
			return err
		}
		config := &models.GovernanceConfig{
			CurrentVersion:     currentVersion,
			GovernanceIdentity: governanceIdentity.String(),
			EmergencyEnabled:   false,
		}
		return s.db.SetGovernanceConfig(config, txn)
	})
	s.recordOp("initialize", err)
	if err != nil {
		return err
	}
	s.logger.Info(
		"initialized governance",
		"governance_identity", governanceIdentity.String(),
		"current_version", currentVersion.String(),
		"component", "governance",
	)
	return nil
}

// Config returns the current governance config singleton
func (s *Service) Config() (*models.GovernanceConfig, error) {
	return s.db.GetGovernanceConfig(nil)
}

// requireGovernance loads the config and checks the caller against the
// governance identity
func (s *Service) requireGovernance(
	caller identity.Identity,
	txn *database.Txn,
) (*models.GovernanceConfig, error) {
	config, err := s.db.GetGovernanceConfig(txn)
	if err != nil {
		return nil, err
	}
	if config.GovernanceIdentity != caller.String() {
		return nil, fmt.Errorf(
			"caller %q is not the governance identity: %w",
			caller,
			identity.ErrUnauthorized,
		)
	}
	return config, nil
}

// SetVotingPower sets the vote weight for an identity. Weights are
// externally provisioned and read-only from the voting algorithm's
// perspective.
func (s *Service) SetVotingPower(
	caller identity.Identity,
	voter identity.Identity,
	weight uint64,
) error {
	err := s.db.Transaction(true).Do(func(txn *database.Txn) error {
		if _, err := s.requireGovernance(caller, txn); err != nil {
			return err
		}
		return s.db.SetVotingPower(voter.String(), weight, txn)
	})
	s.recordOp("set_voting_power", err)
	if err != nil {
		return err
	}
	s.logger.Info(
		"set voting power",
		"voter", voter.String(),
		"weight", weight,
		"component", "governance",
	)
	return nil
}

// VotingPower returns the registered vote weight for an identity
func (s *Service) VotingPower(voter identity.Identity) (uint64, error) {
	return s.db.GetVotingPower(voter.String(), nil)
}

// publish sends an event when an event bus is configured
func (s *Service) publish(eventType event.EventType, data any) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(eventType, event.NewEvent(eventType, data))
}
