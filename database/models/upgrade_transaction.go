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

package models

import "time"

// UpgradeTransaction is an immutable audit record of a proxy upgrade.
// Records are keyed by a monotonically increasing id allocated from a
// shared counter and are never mutated or deleted after creation.
type UpgradeTransaction struct {
	ID                uint64    `gorm:"primarykey;autoIncrement:false"`
	NewImplementation string    `gorm:"size:128;not null"`
	Initiator         string    `gorm:"index;size:128;not null"`
	Timestamp         time.Time `gorm:"not null"`
	Success           bool      `gorm:"not null"`
	FailureReason     string    `gorm:"size:256"`
}

// TableName returns the table name
func (UpgradeTransaction) TableName() string {
	return "upgrade_transaction"
}
