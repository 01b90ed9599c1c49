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

// Package models contains the storage models for the governance and
// proxy redirection state. Queryable entities are gorm models persisted
// by the metadata store; the compact singleton records (ProxyRecord,
// GovernanceConfig) live in the blob store.
package models

import "errors"

var (
	ErrProposalNotFound      = errors.New("upgrade proposal not found")
	ErrUpgradeTxnNotFound    = errors.New("upgrade transaction not found")
	ErrMigrationPlanNotFound = errors.New("migration plan not found")
	ErrProxyNotInitialized   = errors.New("proxy state not initialized")
	ErrGovNotInitialized     = errors.New("governance state not initialized")
)

// MigrateModels is a list of model objects that should have AutoMigrate run against them
var MigrateModels = []any{
	&UpgradeTransaction{},
	&UpgradeProposal{},
	&Ballot{},
	&VotingPower{},
	&MigrationPlan{},
}
