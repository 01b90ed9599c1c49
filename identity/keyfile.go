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
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/blinklabs-io/govproxy/database/sops"
)

const registryEnvelopeType = "IdentityRegistry"

// registryEnvelope is the JSON structure of an identity registry file.
// Keys are hex-encoded ed25519 public keys by identity.
type registryEnvelope struct {
	Type        string            `json:"type"`
	Description string            `json:"description"`
	Identities  map[string]string `json:"identities"`
}

// KeyfileAuthenticator verifies identities by checking an ed25519
// signature over a caller-supplied nonce against a public key registry
// loaded from a file. The registry file may be SOPS-encrypted at rest.
type KeyfileAuthenticator struct {
	keys map[Identity]ed25519.PublicKey
}

// NewKeyfileAuthenticator loads the identity registry from the given
// file path
func NewKeyfileAuthenticator(path string) (*KeyfileAuthenticator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry file %q: %w", path, err)
	}
	defer f.Close()
	// Limit read to 1 MiB to guard against accidentally pointing at a
	// large file. Valid registry files are well under this size.
	const maxRegistryFileSize = 1 << 20
	data, err := io.ReadAll(io.LimitReader(f, maxRegistryFileSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file %q: %w", path, err)
	}
	// Decrypt if the file carries SOPS metadata
	if bytes.Contains(data, []byte(`"sops"`)) {
		decrypted, err := sops.Decrypt(data)
		if err != nil {
			return nil, fmt.Errorf(
				"failed to decrypt registry file %q: %w",
				path,
				err,
			)
		}
		data = decrypted
	}
	return NewKeyfileAuthenticatorFromBytes(data)
}

// NewKeyfileAuthenticatorFromBytes parses an identity registry from raw
// envelope JSON
func NewKeyfileAuthenticatorFromBytes(
	data []byte,
) (*KeyfileAuthenticator, error) {
	var env registryEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("could not parse registry envelope: %w", err)
	}
	if env.Type != registryEnvelopeType {
		return nil, fmt.Errorf(
			"expected %s, got %s",
			registryEnvelopeType,
			env.Type,
		)
	}
	a := &KeyfileAuthenticator{
		keys: make(map[Identity]ed25519.PublicKey, len(env.Identities)),
	}
	for id, keyHex := range env.Identities {
		keyBytes, err := hex.DecodeString(keyHex)
		if err != nil {
			return nil, fmt.Errorf(
				"could not decode public key for %q from hex: %w",
				id,
				err,
			)
		}
		if len(keyBytes) != ed25519.PublicKeySize {
			return nil, fmt.Errorf(
				"invalid public key for %q: expected %d bytes, got %d",
				id,
				ed25519.PublicKeySize,
				len(keyBytes),
			)
		}
		a.keys[Identity(id)] = ed25519.PublicKey(keyBytes)
	}
	return a, nil
}

func (a *KeyfileAuthenticator) Authenticate(
	cred Credential,
) (Identity, error) {
	if len(cred.Nonce) == 0 || len(cred.Signature) != ed25519.SignatureSize {
		return "", ErrUnauthorized
	}
	pubKey, ok := a.keys[cred.Identity]
	if !ok {
		return "", ErrUnauthorized
	}
	if !ed25519.Verify(pubKey, cred.Nonce, cred.Signature) {
		return "", ErrUnauthorized
	}
	return cred.Identity, nil
}
