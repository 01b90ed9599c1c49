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
	"gorm.io/gorm/clause"
)

// SetVotingPower upserts the vote weight for an identity
func (d *MetadataStoreSqlite) SetVotingPower(
	identity string,
	weight uint64,
	txn *gorm.DB,
) error {
	tmpPower := models.VotingPower{
		Identity: identity,
		Weight:   weight,
	}
	result := d.resolveDB(txn).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "identity"}},
		DoUpdates: clause.AssignmentColumns([]string{"weight"}),
	}).Create(&tmpPower)
	if result.Error != nil {
		return fmt.Errorf("DB upserting VotingPower failed: %w", result.Error)
	}
	return nil
}

// GetVotingPower returns the vote weight for an identity. Unregistered
// identities have zero weight.
func (d *MetadataStoreSqlite) GetVotingPower(
	identity string,
	txn *gorm.DB,
) (uint64, error) {
	var ret models.VotingPower
	result := d.resolveDB(txn).Where("identity = ?", identity).First(&ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf(
			"DB querying VotingPower failed: %w",
			result.Error,
		)
	}
	return ret.Weight, nil
}

// GetTotalVotingPower returns the sum of all registered vote weights
func (d *MetadataStoreSqlite) GetTotalVotingPower(
	txn *gorm.DB,
) (uint64, error) {
	var ret *uint64
	result := d.resolveDB(txn).
		Model(&models.VotingPower{}).
		Select("SUM(weight)").
		Scan(&ret)
	if result.Error != nil {
		return 0, fmt.Errorf(
			"DB summing VotingPower failed: %w",
			result.Error,
		)
	}
	if ret == nil {
		return 0, nil
	}
	return *ret, nil
}
