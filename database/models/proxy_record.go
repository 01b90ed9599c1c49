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

// ProxyRecord is the proxy redirection singleton, stored as a JSON blob
// under a fixed key. Created once at initialization; Implementation and
// VersionCounter mutate only through the upgrade operation, Admin only
// through the two-phase admin transfer.
type ProxyRecord struct {
	Implementation string `json:"implementation"`
	Admin          string `json:"admin"`
	PendingAdmin   string `json:"pendingAdmin,omitempty"`
	VersionCounter uint64 `json:"versionCounter"`
	LastUpdated    int64  `json:"lastUpdated"`
	Paused         bool   `json:"paused,omitempty"`
}
