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

package identity

import (
	"crypto/sha256"
	"crypto/subtle"
)

// StaticAuthenticator verifies identities against a fixed registry of
// shared-secret tokens. Intended for tests and single-operator
// deployments.
type StaticAuthenticator struct {
	// token hashes by identity, so raw tokens are not retained
	tokens map[Identity][32]byte
}

func NewStaticAuthenticator(
	tokens map[Identity]string,
) *StaticAuthenticator {
	a := &StaticAuthenticator{
		tokens: make(map[Identity][32]byte, len(tokens)),
	}
	for id, token := range tokens {
		a.tokens[id] = sha256.Sum256([]byte(token))
	}
	return a
}

func (a *StaticAuthenticator) Authenticate(
	cred Credential,
) (Identity, error) {
	want, ok := a.tokens[cred.Identity]
	// Hash the presented token and compare in constant time. The lookup
	// result is folded into the comparison so unknown identities take the
	// same path as bad tokens.
	got := sha256.Sum256([]byte(cred.Token))
	match := subtle.ConstantTimeCompare(want[:], got[:]) == 1
	if !ok || !match {
		return "", ErrUnauthorized
	}
	return cred.Identity, nil
}
