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

// SetVotingPower upserts the vote weight for an identity
func (d *Database) SetVotingPower(
	identity string,
	weight uint64,
	txn *Txn,
) error {
	if txn == nil {
		txn = d.Transaction(true)
		return txn.Do(func(txn *Txn) error {
			return d.SetVotingPower(identity, weight, txn)
		})
	}
	return d.metadata.SetVotingPower(identity, weight, txn.Metadata())
}

// GetVotingPower returns the vote weight for an identity. Unregistered
// identities have zero weight.
func (d *Database) GetVotingPower(
	identity string,
	txn *Txn,
) (uint64, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Commit() //nolint:errcheck
	}
	return d.metadata.GetVotingPower(identity, txn.Metadata())
}

// GetTotalVotingPower returns the sum of all registered vote weights
func (d *Database) GetTotalVotingPower(txn *Txn) (uint64, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Commit() //nolint:errcheck
	}
	return d.metadata.GetTotalVotingPower(txn.Metadata())
}
