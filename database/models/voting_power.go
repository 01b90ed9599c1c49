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

// VotingPower maps an identity to its non-negative vote weight. Weights
// are externally provisioned via the governance weight-setting operation
// and read-only from the voting algorithm's perspective.
type VotingPower struct {
	ID       uint   `gorm:"primarykey"`
	Identity string `gorm:"uniqueIndex;size:128;not null"`
	Weight   uint64 `gorm:"not null"`
}

// TableName returns the table name
func (VotingPower) TableName() string {
	return "voting_power"
}
