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

package metadata

import (
	"fmt"
	"log/slog"

	"github.com/blinklabs-io/govproxy/database/models"
	"github.com/blinklabs-io/govproxy/database/plugin"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	// Register the sqlite plugin
	_ "github.com/blinklabs-io/govproxy/database/plugin/metadata/sqlite"
)

// MetadataStore holds the queryable governance entities. All accessors
// accept an optional *gorm.DB transaction handle; nil operates on the
// base connection.
type MetadataStore interface {
	// Database
	Close() error
	DB() *gorm.DB
	GetCommitTimestamp() (int64, error)
	SetCommitTimestamp(*gorm.DB, int64) error
	Transaction() *gorm.DB

	// Upgrade history
	AddUpgradeTransaction(*models.UpgradeTransaction, *gorm.DB) error
	GetUpgradeTransaction(uint64, *gorm.DB) (*models.UpgradeTransaction, error)
	GetUpgradeHistory(int, *gorm.DB) ([]models.UpgradeTransaction, error)

	// Proposals
	AddProposal(*models.UpgradeProposal, *gorm.DB) error
	UpdateProposal(*models.UpgradeProposal, *gorm.DB) error
	GetProposal(uint64, *gorm.DB) (*models.UpgradeProposal, error)
	GetProposalsByStatus(uint8, *gorm.DB) ([]models.UpgradeProposal, error)

	// Ballots
	AddBallot(*models.Ballot, *gorm.DB) error
	GetBallot(uint64, string, *gorm.DB) (*models.Ballot, error)
	GetBallots(uint64, *gorm.DB) ([]models.Ballot, error)

	// Voting power
	SetVotingPower(string, uint64, *gorm.DB) error
	GetVotingPower(string, *gorm.DB) (uint64, error)
	GetTotalVotingPower(*gorm.DB) (uint64, error)

	// Migration plans
	SetMigrationPlan(*models.MigrationPlan, *gorm.DB) error
	GetMigrationPlan(uint64, *gorm.DB) (*models.MigrationPlan, error)
}

// New returns the started metadata plugin selected by name
func New(
	pluginName string,
	dataDir string,
	logger *slog.Logger,
	promRegistry prometheus.Registerer,
) (MetadataStore, error) {
	p, err := plugin.StartPlugin(
		plugin.PluginTypeMetadata,
		pluginName,
		dataDir,
		logger,
		promRegistry,
	)
	if err != nil {
		return nil, err
	}
	metadataStore, ok := p.(MetadataStore)
	if !ok {
		return nil, fmt.Errorf(
			"plugin '%s' does not implement MetadataStore interface",
			pluginName,
		)
	}
	return metadataStore, nil
}
