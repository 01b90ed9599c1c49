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

// SetMigrationPlan upserts the migration plan for a proposal
func (d *Database) SetMigrationPlan(
	plan *models.MigrationPlan,
	txn *Txn,
) error {
	if txn == nil {
		txn = d.Transaction(true)
		return txn.Do(func(txn *Txn) error {
			return d.SetMigrationPlan(plan, txn)
		})
	}
	return d.metadata.SetMigrationPlan(plan, txn.Metadata())
}

// GetMigrationPlan returns the migration plan registered for a proposal.
// Returns models.ErrMigrationPlanNotFound if no plan is registered.
func (d *Database) GetMigrationPlan(
	proposalId uint64,
	txn *Txn,
) (*models.MigrationPlan, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Commit() //nolint:errcheck
	}
	ret, err := d.metadata.GetMigrationPlan(proposalId, txn.Metadata())
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, models.ErrMigrationPlanNotFound
	}
	return ret, nil
}
