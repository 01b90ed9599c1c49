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

// AddBallot inserts a ballot. The unique index over (proposal_id, voter)
// rejects duplicate ballots from the same identity.
func (d *MetadataStoreSqlite) AddBallot(
	ballot *models.Ballot,
	txn *gorm.DB,
) error {
	if result := d.resolveDB(txn).Create(ballot); result.Error != nil {
		return fmt.Errorf("DB inserting Ballot failed: %w", result.Error)
	}
	return nil
}

// GetBallot returns the ballot cast by a voter on a proposal, or nil if
// the voter has not voted
func (d *MetadataStoreSqlite) GetBallot(
	proposalId uint64,
	voter string,
	txn *gorm.DB,
) (*models.Ballot, error) {
	var ret models.Ballot
	result := d.resolveDB(txn).
		Where("proposal_id = ? AND voter = ?", proposalId, voter).
		First(&ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("DB querying Ballot failed: %w", result.Error)
	}
	return &ret, nil
}

// GetBallots returns all ballots cast on a proposal
func (d *MetadataStoreSqlite) GetBallots(
	proposalId uint64,
	txn *gorm.DB,
) ([]models.Ballot, error) {
	var ret []models.Ballot
	result := d.resolveDB(txn).
		Where("proposal_id = ?", proposalId).
		Order("id").
		Find(&ret)
	if result.Error != nil {
		return nil, fmt.Errorf("DB querying Ballots failed: %w", result.Error)
	}
	return ret, nil
}
