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

package sqlite

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/govproxy/database/models"
	"gorm.io/gorm"
)

// AddProposal inserts a new upgrade proposal
func (d *MetadataStoreSqlite) AddProposal(
	proposal *models.UpgradeProposal,
	txn *gorm.DB,
) error {
	if result := d.resolveDB(txn).Create(proposal); result.Error != nil {
		return fmt.Errorf(
			"DB inserting UpgradeProposal failed: %w",
			result.Error,
		)
	}
	return nil
}

// UpdateProposal saves changes to an existing proposal
func (d *MetadataStoreSqlite) UpdateProposal(
	proposal *models.UpgradeProposal,
	txn *gorm.DB,
) error {
	if result := d.resolveDB(txn).Save(proposal); result.Error != nil {
		return fmt.Errorf(
			"DB updating UpgradeProposal failed: %w",
			result.Error,
		)
	}
	return nil
}

// GetProposal returns a single proposal by id, or nil if not found
func (d *MetadataStoreSqlite) GetProposal(
	id uint64,
	txn *gorm.DB,
) (*models.UpgradeProposal, error) {
	var ret models.UpgradeProposal
	result := d.resolveDB(txn).Where("id = ?", id).First(&ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf(
			"DB querying UpgradeProposal failed: %w",
			result.Error,
		)
	}
	return &ret, nil
}

// GetProposalsByStatus returns all proposals with the given status in
// ascending id order
func (d *MetadataStoreSqlite) GetProposalsByStatus(
	status uint8,
	txn *gorm.DB,
) ([]models.UpgradeProposal, error) {
	var ret []models.UpgradeProposal
	result := d.resolveDB(txn).
		Where("status = ?", status).
		Order("id").
		Find(&ret)
	if result.Error != nil {
		return nil, fmt.Errorf(
			"DB querying UpgradeProposal by status failed: %w",
			result.Error,
		)
	}
	return ret, nil
}
