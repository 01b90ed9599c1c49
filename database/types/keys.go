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

package types

// Fixed blob store keys for singleton records and counters
var (
	KeyProxyRecord      = []byte("proxy_record")
	KeyGovernanceConfig = []byte("governance_config")
	KeyNextUpgradeTxnId = []byte("next_upgrade_txn_id")
	KeyNextProposalId   = []byte("next_proposal_id")
	KeyCommitTimestamp  = []byte("commit_timestamp")
)
