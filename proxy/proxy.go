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

// Package proxy implements the proxy redirection service. It holds the
// address of the active implementation and an admin identity, and gates
// upgrades purely on that identity with no voting. All mutations commit
// through a single combined store transaction, so the audit record and
// the record update land together or not at all.
package proxy

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/blinklabs-io/govproxy/database"
	"github.com/blinklabs-io/govproxy/database/models"
	"github.com/blinklabs-io/govproxy/event"
	"github.com/blinklabs-io/govproxy/identity"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ErrInvalidState is the base error for operations attempted against
	// the wrong proxy lifecycle state
	ErrInvalidState = errors.New("invalid state")
	// ErrAlreadyInitialized is returned when initializing twice
	ErrAlreadyInitialized = fmt.Errorf(
		"proxy already initialized: %w",
		ErrInvalidState,
	)
	// ErrNoPendingAdmin is returned by AcceptAdmin when no transfer is
	// in progress
	ErrNoPendingAdmin = fmt.Errorf(
		"no pending admin transfer: %w",
		ErrInvalidState,
	)
	// ErrPaused is returned by gated operations while the proxy is paused
	ErrPaused = errors.New("proxy is paused")
	// ErrNotPaused is returned by Resume when the proxy is not paused
	ErrNotPaused = fmt.Errorf("proxy is not paused: %w", ErrInvalidState)
)

type ServiceConfig struct {
	Database     *database.Database
	EventBus     *event.EventBus
	Logger       *slog.Logger
	PromRegistry prometheus.Registerer
}

type Service struct {
	db       *database.Database
	eventBus *event.EventBus
	logger   *slog.Logger
	metrics  serviceMetrics
}

type serviceMetrics struct {
	operations *prometheus.CounterVec
}

func NewService(config ServiceConfig) *Service {
	s := &Service{
		db:       config.Database,
		eventBus: config.EventBus,
	}
	if config.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		s.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	} else {
		s.logger = config.Logger
	}
	promautoFactory := promauto.With(config.PromRegistry)
	s.metrics.operations = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "govproxy_proxy_operations_total",
			Help: "total proxy operations by operation and outcome",
		},
		[]string{"operation", "outcome"},
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

// Initialize creates the proxy record with its first implementation
// address and admin identity. It may only be called once.
func (s *Service) Initialize(
	implementation string,
	admin identity.Identity,
) error {
	err := s.db.Transaction(true).Do(func(txn *database.Txn) error {
		_, err := s.db.GetProxyRecord(txn)
		if err == nil {
			return ErrAlreadyInitialized
		}
		if !errors.Is(err, models.ErrProxyNotInitialized) {
			return err
		}
		record := &models.ProxyRecord{
			Implementation: implementation,
			Admin:          admin.String(),
			VersionCounter: 0,
			LastUpdated:    time.Now().Unix(),
		}
		return s.db.SetProxyRecord(record, txn)
	})
	s.recordOp("initialize", err)
	if err != nil {
		return err
	}
	s.logger.Info(
		"initialized proxy",
		"implementation", implementation,
		"admin", admin.String(),
		"component", "proxy",
	)
	return nil
}

// Upgrade atomically points the proxy at a new implementation and
// appends an audit record. Gated on the admin identity and rejected
// while the proxy is paused. Returns the allocated transaction id.
func (s *Service) Upgrade(
	caller identity.Identity,
	newImplementation string,
) (uint64, error) {
	var upgradeTxnId uint64
	err := s.db.Transaction(true).Do(func(txn *database.Txn) error {
		record, err := s.db.GetProxyRecord(txn)
		if err != nil {
			return err
		}
		if record.Admin != caller.String() {
			return fmt.Errorf(
				"caller %q is not the proxy admin: %w",
				caller,
				identity.ErrUnauthorized,
			)
		}
		if record.Paused {
			return ErrPaused
		}
		// Allocate the audit id inside the transaction so failed attempts
		// burn no ids
		upgradeTxnId, err = s.db.NextUpgradeTxnId(txn)
		if err != nil {
			return err
		}
		upgradeTxn := &models.UpgradeTransaction{
			ID:                upgradeTxnId,
			NewImplementation: newImplementation,
			Initiator:         caller.String(),
			Timestamp:         time.Now(),
			Success:           true,
		}
		if err := s.db.AddUpgradeTransaction(upgradeTxn, txn); err != nil {
			return err
		}
		record.Implementation = newImplementation
		record.VersionCounter++
		record.LastUpdated = time.Now().Unix()
		return s.db.SetProxyRecord(record, txn)
	})
	s.recordOp("upgrade", err)
	if err != nil {
		return 0, err
	}
	s.logger.Info(
		"upgraded proxy implementation",
		"id", upgradeTxnId,
		"implementation", newImplementation,
		"component", "proxy",
	)
	if s.eventBus != nil {
		s.eventBus.Publish(
			event.ProxyUpgradedEventType,
			event.NewEvent(
				event.ProxyUpgradedEventType,
				event.ProxyUpgradedEvent{
					Id:                upgradeTxnId,
					NewImplementation: newImplementation,
					Initiator:         caller.String(),
				},
			),
		)
	}
	return upgradeTxnId, nil
}

// TransferAdmin nominates a successor admin. The current admin remains
// in control until the successor calls AcceptAdmin.
func (s *Service) TransferAdmin(
	caller identity.Identity,
	newAdmin identity.Identity,
) error {
	if newAdmin == "" {
		return errors.New("empty admin identity")
	}
	err := s.db.Transaction(true).Do(func(txn *database.Txn) error {
		record, err := s.db.GetProxyRecord(txn)
		if err != nil {
			return err
		}
		if record.Admin != caller.String() {
			return fmt.Errorf(
				"caller %q is not the proxy admin: %w",
				caller,
				identity.ErrUnauthorized,
			)
		}
		if record.Paused {
			return ErrPaused
		}
		record.PendingAdmin = newAdmin.String()
		return s.db.SetProxyRecord(record, txn)
	})
	s.recordOp("transfer_admin", err)
	if err != nil {
		return err
	}
	s.logger.Info(
		"nominated pending admin",
		"admin", caller.String(),
		"pending_admin", newAdmin.String(),
		"component", "proxy",
	)
	if s.eventBus != nil {
		s.eventBus.Publish(
			event.ProxyAdminTransferredEventType,
			event.NewEvent(
				event.ProxyAdminTransferredEventType,
				event.ProxyAdminTransferredEvent{
					Admin:        caller.String(),
					PendingAdmin: newAdmin.String(),
				},
			),
		)
	}
	return nil
}

// AcceptAdmin completes an admin handover. The caller must be the
// nominated pending admin.
func (s *Service) AcceptAdmin(caller identity.Identity) error {
	var previousAdmin string
	err := s.db.Transaction(true).Do(func(txn *database.Txn) error {
		record, err := s.db.GetProxyRecord(txn)
		if err != nil {
			return err
		}
		if record.PendingAdmin == "" {
			return ErrNoPendingAdmin
		}
		if record.PendingAdmin != caller.String() {
			return fmt.Errorf(
				"caller %q is not the pending admin: %w",
				caller,
				identity.ErrUnauthorized,
			)
		}
		previousAdmin = record.Admin
		record.Admin = caller.String()
		record.PendingAdmin = ""
		return s.db.SetProxyRecord(record, txn)
	})
	s.recordOp("accept_admin", err)
	if err != nil {
		return err
	}
	s.logger.Info(
		"completed admin handover",
		"previous_admin", previousAdmin,
		"admin", caller.String(),
		"component", "proxy",
	)
	if s.eventBus != nil {
		s.eventBus.Publish(
			event.ProxyAdminAcceptedEventType,
			event.NewEvent(
				event.ProxyAdminAcceptedEventType,
				event.ProxyAdminAcceptedEvent{
					PreviousAdmin: previousAdmin,
					NewAdmin:      caller.String(),
				},
			),
		)
	}
	return nil
}

// EmergencyStop pauses the proxy. Upgrades and admin transfers are
// rejected until Resume.
func (s *Service) EmergencyStop(caller identity.Identity) error {
	err := s.db.Transaction(true).Do(func(txn *database.Txn) error {
		record, err := s.db.GetProxyRecord(txn)
		if err != nil {
			return err
		}
		if record.Admin != caller.String() {
			return fmt.Errorf(
				"caller %q is not the proxy admin: %w",
				caller,
				identity.ErrUnauthorized,
			)
		}
		if record.Paused {
			return ErrPaused
		}
		record.Paused = true
		return s.db.SetProxyRecord(record, txn)
	})
	s.recordOp("emergency_stop", err)
	if err != nil {
		return err
	}
	s.logger.Warn(
		"paused proxy",
		"admin", caller.String(),
		"component", "proxy",
	)
	if s.eventBus != nil {
		s.eventBus.Publish(
			event.ProxyEmergencyStopEventType,
			event.NewEvent(
				event.ProxyEmergencyStopEventType,
				event.ProxyEmergencyStopEvent{
					Admin: caller.String(),
				},
			),
		)
	}
	return nil
}

// Resume lifts a pause set by EmergencyStop
func (s *Service) Resume(caller identity.Identity) error {
	err := s.db.Transaction(true).Do(func(txn *database.Txn) error {
		record, err := s.db.GetProxyRecord(txn)
		if err != nil {
			return err
		}
		if record.Admin != caller.String() {
			return fmt.Errorf(
				"caller %q is not the proxy admin: %w",
				caller,
				identity.ErrUnauthorized,
			)
		}
		if !record.Paused {
			return ErrNotPaused
		}
		record.Paused = false
		return s.db.SetProxyRecord(record, txn)
	})
	s.recordOp("resume", err)
	if err != nil {
		return err
	}
	s.logger.Info(
		"resumed proxy",
		"admin", caller.String(),
		"component", "proxy",
	)
	if s.eventBus != nil {
		s.eventBus.Publish(
			event.ProxyResumeEventType,
			event.NewEvent(
				event.ProxyResumeEventType,
				event.ProxyResumeEvent{
					Admin: caller.String(),
				},
			),
		)
	}
	return nil
}

// Info returns the current proxy record
func (s *Service) Info() (*models.ProxyRecord, error) {
	return s.db.GetProxyRecord(nil)
}

// History returns upgrade audit records, most recent first. A limit of
// zero returns the full history.
func (s *Service) History(limit int) ([]models.UpgradeTransaction, error) {
	return s.db.GetUpgradeHistory(limit, nil)
}

// Transaction returns a single upgrade audit record by id
func (s *Service) Transaction(id uint64) (*models.UpgradeTransaction, error) {
	return s.db.GetUpgradeTransaction(id, nil)
}
