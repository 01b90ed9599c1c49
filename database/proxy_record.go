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
	"encoding/json"
	"errors"
	"fmt"

	"github.com/blinklabs-io/govproxy/database/models"
	"github.com/blinklabs-io/govproxy/database/types"
)

// GetProxyRecord returns the proxy singleton record from the blob store.
// Returns models.ErrProxyNotInitialized if the record has never been written.
func (d *Database) GetProxyRecord(txn *Txn) (*models.ProxyRecord, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Commit() //nolint:errcheck
	}
	val, err := txn.Blob().Get(types.KeyProxyRecord)
	if err != nil {
		if errors.Is(err, types.ErrBlobKeyNotFound) {
			return nil, models.ErrProxyNotInitialized
		}
		return nil, fmt.Errorf("failed to get proxy record: %w", err)
	}
	var ret models.ProxyRecord
	if err := json.Unmarshal(val, &ret); err != nil {
		return nil, fmt.Errorf("failed to decode proxy record: %w", err)
	}
	return &ret, nil
}

// SetProxyRecord writes the proxy singleton record to the blob store
func (d *Database) SetProxyRecord(
	record *models.ProxyRecord,
	txn *Txn,
) error {
	if txn == nil {
		txn = d.Transaction(true)
		return txn.Do(func(txn *Txn) error {
			return d.SetProxyRecord(record, txn)
		})
	}
	val, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode proxy record: %w", err)
	}
	if err := txn.Blob().Set(types.KeyProxyRecord, val); err != nil {
		return fmt.Errorf("failed to set proxy record: %w", err)
	}
	return nil
}
