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

// AddUpgradeTransaction appends an upgrade transaction to the history.
// History records are append-only: there is no update or delete path.
func (d *MetadataStoreSqlite) AddUpgradeTransaction(
	upgradeTxn *models.UpgradeTransaction,
	txn *gorm.DB,
) error {
	if result := d.resolveDB(txn).Create(upgradeTxn); result.Error != nil {
		return fmt.Errorf(
			"DB inserting UpgradeTransaction failed: %w",
			result.Error,
		)
	}
	return nil
}

// GetUpgradeTransaction returns a single upgrade transaction by id, or
// nil if not found
func (d *MetadataStoreSqlite) GetUpgradeTransaction(
	id uint64,
	txn *gorm.DB,
) (*models.UpgradeTransaction, error) {
	var ret models.UpgradeTransaction
	result := d.resolveDB(txn).Where("id = ?", id).First(&ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf(
			"DB querying UpgradeTransaction failed: %w",
			result.Error,
		)
	}
	return &ret, nil
}

// GetUpgradeHistory returns the most recent upgrade transactions in
// descending id order, up to limit (0 means no limit)
func (d *MetadataStoreSqlite) GetUpgradeHistory(
	limit int,
	txn *gorm.DB,
) ([]models.UpgradeTransaction, error) {
	var ret []models.UpgradeTransaction
	query := d.resolveDB(txn).Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if result := query.Find(&ret); result.Error != nil {
		return nil, fmt.Errorf(
			"DB querying UpgradeTransaction history failed: %w",
			result.Error,
		)
	}
	return ret, nil
}
