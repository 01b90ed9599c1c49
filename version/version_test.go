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

package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testDefs := []struct {
		input    string
		expected Version
		errored  bool
	}{
		{input: "1.2.3", expected: Version{Major: 1, Minor: 2, Patch: 3}},
		{input: "v1.0.0", expected: Version{Major: 1}},
		{input: "0.0.0", expected: Version{}},
		{input: "1.2", errored: true},
		{input: "1.2.3.4", errored: true},
		{input: "1.x.3", errored: true},
		{input: "", errored: true},
	}
	for _, testDef := range testDefs {
		v, err := Parse(testDef.input)
		if testDef.errored {
			assert.ErrorIs(t, err, ErrInvalidVersion, "input %q", testDef.input)
			continue
		}
		require.NoError(t, err, "input %q", testDef.input)
		assert.Equal(t, testDef.expected, v)
	}
}

func TestCompare(t *testing.T) {
	testDefs := []struct {
		a        Version
		b        Version
		expected int
	}{
		{a: New(1, 0, 0), b: New(1, 0, 0), expected: 0},
		{a: New(1, 0, 0), b: New(2, 0, 0), expected: -1},
		{a: New(2, 0, 0), b: New(1, 9, 9), expected: 1},
		{a: New(1, 1, 0), b: New(1, 0, 9), expected: 1},
		{a: New(1, 1, 1), b: New(1, 1, 2), expected: -1},
	}
	for _, testDef := range testDefs {
		assert.Equal(
			t,
			testDef.expected,
			testDef.a.Compare(testDef.b),
			"%s vs %s", testDef.a, testDef.b,
		)
	}
}

// CompatibleWith and CheckCompatibility are mirror images of each other.
// Both directions are pinned here so neither can silently flip.
func TestCompatibilityNotSymmetric(t *testing.T) {
	assert.True(t, New(1, 1, 0).CompatibleWith(New(1, 0, 0)))
	assert.False(t, New(1, 0, 0).CompatibleWith(New(1, 1, 0)))
	assert.False(t, New(2, 0, 0).CompatibleWith(New(1, 0, 0)))

	// CheckCompatibility(current, target) flips the argument order
	assert.True(t, CheckCompatibility(New(1, 0, 0), New(1, 1, 0)))
	assert.False(t, CheckCompatibility(New(1, 1, 0), New(1, 0, 0)))
	assert.False(t, CheckCompatibility(New(1, 0, 0), New(2, 0, 0)))

	// Patch versions never affect compatibility
	assert.True(t, New(1, 2, 9).CompatibleWith(New(1, 2, 0)))
	assert.True(t, New(1, 2, 0).CompatibleWith(New(1, 2, 9)))
}

func TestString(t *testing.T) {
	assert.Equal(t, "1.2.3", New(1, 2, 3).String())
	roundTrip, err := Parse(New(4, 5, 6).String())
	require.NoError(t, err)
	assert.Equal(t, New(4, 5, 6), roundTrip)
}
