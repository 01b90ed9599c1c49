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

// Package version provides the implementation version type used by the
// proxy and governance services, along with the compatibility predicates
// that gate upgrades and rollbacks.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidVersion = errors.New("invalid version string")

// Version identifies an implementation release. Versions are totally
// ordered by (major, minor, patch).
type Version struct {
	Major uint32 `json:"major"`
	Minor uint32 `json:"minor"`
	Patch uint32 `json:"patch"`
}

func New(major, minor, patch uint32) Version {
	return Version{Major: major, Minor: minor, Patch: patch}
}

// Parse converts a dotted version string ("1.2.3") into a Version
func Parse(s string) (Version, error) {
	parts := strings.Split(strings.TrimPrefix(s, "v"), ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}
	var nums [3]uint32
	for i, part := range parts {
		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
		}
		nums[i] = uint32(n)
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0, or 1 if v is ordered before, equal to, or after
// other by (major, minor, patch)
func (v Version) Compare(other Version) int {
	switch {
	case v.Major != other.Major:
		return compareUint32(v.Major, other.Major)
	case v.Minor != other.Minor:
		return compareUint32(v.Minor, other.Minor)
	default:
		return compareUint32(v.Patch, other.Patch)
	}
}

func compareUint32(a, b uint32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// CompatibleWith is the canonical compatibility predicate: v can serve
// callers of other when the major versions match and v's minor version is
// at least other's. Patch versions are ignored. Note that this predicate
// is not symmetric.
func (v Version) CompatibleWith(other Version) bool {
	return v.Major == other.Major && v.Minor >= other.Minor
}

// CheckCompatibility reports whether target is an acceptable upgrade from
// current. It is defined as target.CompatibleWith(current): same major
// series, and the target's minor version must not move backwards.
func CheckCompatibility(current, target Version) bool {
	return target.CompatibleWith(current)
}
