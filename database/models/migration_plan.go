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

// MigrationPlan describes the data migration to run when executing a
// proposal, associated 1:1 with a proposal id. Re-registration replaces
// the stored plan wholesale.
type MigrationPlan struct {
	ID            uint   `gorm:"primarykey"`
	ProposalID    uint64 `gorm:"uniqueIndex;not null"`
	FromMajor     uint32 `gorm:"not null"`
	FromMinor     uint32 `gorm:"not null"`
	FromPatch     uint32 `gorm:"not null"`
	ToMajor       uint32 `gorm:"not null"`
	ToMinor       uint32 `gorm:"not null"`
	ToPatch       uint32 `gorm:"not null"`
	Selector      string `gorm:"size:128;not null"`
	EstimatedCost uint64
}

// TableName returns the table name
func (MigrationPlan) TableName() string {
	return "migration_plan"
}

// FromVersion returns the version migrated from
func (p *MigrationPlan) FromVersion() version.Version {
	return version.New(p.FromMajor, p.FromMinor, p.FromPatch)
}

// ToVersion returns the version migrated to
func (p *MigrationPlan) ToVersion() version.Version {
	return version.New(p.ToMajor, p.ToMinor, p.ToPatch)
}

// SetFromVersion sets the version migrated from
func (p *MigrationPlan) SetFromVersion(v version.Version) {
	p.FromMajor = v.Major
	p.FromMinor = v.Minor
	p.FromPatch = v.Patch
}

// SetToVersion sets the version migrated to
func (p *MigrationPlan) SetToVersion(v version.Version) {
	p.ToMajor = v.Major
	p.ToMinor = v.Minor
	p.ToPatch = v.Patch
}
