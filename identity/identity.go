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

// Package identity provides caller authentication for proxy and
// governance operations. An Authenticator verifies a presented
// credential and returns the identity it belongs to. Authorization
// decisions (admin checks, governance checks) are made by the services
// against the returned identity.
package identity

import "errors"

// ErrUnauthorized is returned for any credential that fails
// verification. Callers get the same error for unknown identities and
// bad credentials so the response does not leak which identities exist.
var ErrUnauthorized = errors.New("unauthorized")

// Identity is an opaque caller identifier, such as an address or
// account name
type Identity string

func (i Identity) String() string {
	return string(i)
}

// Credential is the material a caller presents to prove an identity.
// Token is used by the static authenticator. Nonce and Signature are
// used by the keyfile authenticator.
type Credential struct {
	Identity  Identity
	Token     string
	Nonce     []byte
	Signature []byte
}

// Authenticator verifies a credential and returns the verified identity
type Authenticator interface {
	Authenticate(cred Credential) (Identity, error)
}
