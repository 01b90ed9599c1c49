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

import "github.com/blinklabs-io/govproxy/version"

// GovernanceConfig is the governed-upgrade singleton, stored as a JSON
// blob under a fixed key. CurrentVersion moves through execute, rollback,
// and emergency upgrades; CurrentImplementation records the governance
// view of the active implementation address.
type GovernanceConfig struct {
	CurrentVersion        version.Version `json:"currentVersion"`
	CurrentImplementation string          `json:"currentImplementation,omitempty"`
	GovernanceIdentity    string          `json:"governanceIdentity"`
	EmergencyEnabled      bool            `json:"emergencyEnabled"`
}
