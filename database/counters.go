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
	"errors"
	"fmt"
	"math/big"

	"github.com/blinklabs-io/govproxy/database/types"
)

// Counters are read and advanced inside the caller's transaction, so an
// identifier is only consumed when the operation that allocated it commits.
// Identifiers start at 1.

// NextUpgradeTxnId allocates the next upgrade transaction identifier
func (d *Database) NextUpgradeTxnId(txn *Txn) (uint64, error) {
	return d.nextCounterId(types.KeyNextUpgradeTxnId, txn)
}

// NextProposalId allocates the next proposal identifier
func (d *Database) NextProposalId(txn *Txn) (uint64, error) {
	return d.nextCounterId(types.KeyNextProposalId, txn)
}

func (d *Database) nextCounterId(key []byte, txn *Txn) (uint64, error) {
	if txn == nil {
		return 0, types.ErrNilTxn
	}
	next := uint64(1)
	val, err := txn.Blob().Get(key)
	if err != nil {
		if !errors.Is(err, types.ErrBlobKeyNotFound) {
			return 0, fmt.Errorf("failed to get counter: %w", err)
		}
	} else {
		next = new(big.Int).SetBytes(val).Uint64()
	}
	tmpNext := new(big.Int).SetUint64(next + 1)
	if err := txn.Blob().Set(key, tmpNext.Bytes()); err != nil {
		return 0, fmt.Errorf("failed to set counter: %w", err)
	}
	return next, nil
}
