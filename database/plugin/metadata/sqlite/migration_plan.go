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

// SetMigrationPlan upserts the migration plan for a proposal.
// Re-registration replaces the stored plan wholesale.
func (d *MetadataStoreSqlite) SetMigrationPlan(
	plan *models.MigrationPlan,
	txn *gorm.DB,
) error {
	result := d.resolveDB(txn).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "proposal_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"from_major",
			"from_minor",
			"from_patch",
			"to_major",
			"to_minor",
			"to_patch",
			"selector",
			"estimated_cost",
		}),
	}).Create(plan)
	if result.Error != nil {
		return fmt.Errorf(
			"DB upserting MigrationPlan failed: %w",
			result.Error,
		)
	}
	return nil
}

// GetMigrationPlan returns the migration plan registered for a proposal,
// or nil if none is registered
func (d *MetadataStoreSqlite) GetMigrationPlan(
	proposalId uint64,
	txn *gorm.DB,
) (*models.MigrationPlan, error) {
	var ret models.MigrationPlan
	result := d.resolveDB(txn).
		Where("proposal_id = ?", proposalId).
		First(&ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf(
			"DB querying MigrationPlan failed: %w",
			result.Error,
		)
	}
	return &ret, nil
}
