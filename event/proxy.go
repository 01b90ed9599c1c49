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

package event

// ProxyUpgradedEventType is the event type for direct admin upgrades
const ProxyUpgradedEventType = EventType("proxy.upgraded")

// ProxyUpgradedEvent is emitted after an admin upgrade commits
type ProxyUpgradedEvent struct {
	// Id is the upgrade transaction identifier
	Id uint64
	// NewImplementation is the implementation address after the upgrade
	NewImplementation string
	// Initiator is the admin identity that performed the upgrade
	Initiator string
}

// ProxyAdminTransferredEventType is the event type for the first phase of
// an admin handover
const ProxyAdminTransferredEventType = EventType("proxy.admin_transferred")

// ProxyAdminTransferredEvent is emitted when the current admin nominates a
// successor. The handover is not effective until the successor accepts.
type ProxyAdminTransferredEvent struct {
	Admin        string
	PendingAdmin string
}

// ProxyAdminAcceptedEventType is the event type for a completed admin handover
const ProxyAdminAcceptedEventType = EventType("proxy.admin_accepted")

// ProxyAdminAcceptedEvent is emitted when the nominated successor accepts
// and becomes the admin
type ProxyAdminAcceptedEvent struct {
	PreviousAdmin string
	NewAdmin      string
}

// ProxyEmergencyStopEventType is the event type for pausing redirection
const ProxyEmergencyStopEventType = EventType("proxy.emergency_stop")

// ProxyEmergencyStopEvent is emitted when the admin pauses the proxy
type ProxyEmergencyStopEvent struct {
	Admin string
}

// ProxyResumeEventType is the event type for resuming redirection
const ProxyResumeEventType = EventType("proxy.resume")

// ProxyResumeEvent is emitted when the admin resumes a paused proxy
type ProxyResumeEvent struct {
	Admin string
}
