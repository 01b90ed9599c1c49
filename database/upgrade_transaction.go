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

package database

import (
	"github.com/blinklabs-io/govproxy/database/models"
)

// AddUpgradeTransaction records an upgrade audit entry
func (d *Database) AddUpgradeTransaction(
	upgradeTxn *models.UpgradeTransaction,
	txn *Txn,
) error {
	if txn == nil {
		txn = d.Transaction(true)
		return txn.Do(func(txn *Txn) error {
			return d.AddUpgradeTransaction(upgradeTxn, txn)
		})
	}
	return d.metadata.AddUpgradeTransaction(upgradeTxn, txn.Metadata())
}

// GetUpgradeTransaction returns the upgrade audit entry with the given id.
// Returns models.ErrUpgradeTxnNotFound for unknown ids.
func (d *Database) GetUpgradeTransaction(
	id uint64,
	txn *Txn,
) (*models.UpgradeTransaction, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Commit() //nolint:errcheck
	}
	ret, err := d.metadata.GetUpgradeTransaction(id, txn.Metadata())
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, models.ErrUpgradeTxnNotFound
	}
	return ret, nil
}

// GetUpgradeHistory returns upgrade audit entries, most recent first.
// A limit of zero returns the full history.
func (d *Database) GetUpgradeHistory(
	limit int,
	txn *Txn,
) ([]models.UpgradeTransaction, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Commit() //nolint:errcheck
	}
	return d.metadata.GetUpgradeHistory(limit, txn.Metadata())
}
