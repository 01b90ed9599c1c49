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

package identity_test

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/blinklabs-io/govproxy/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticAuthenticator(t *testing.T) {
	auth := identity.NewStaticAuthenticator(map[identity.Identity]string{
		"admin":      "admin-token",
		"governance": "gov-token",
	})
	id, err := auth.Authenticate(identity.Credential{
		Identity: "admin",
		Token:    "admin-token",
	})
	require.NoError(t, err)
	assert.Equal(t, identity.Identity("admin"), id)
	// Wrong token
	_, err = auth.Authenticate(identity.Credential{
		Identity: "admin",
		Token:    "gov-token",
	})
	require.ErrorIs(t, err, identity.ErrUnauthorized)
	// Unknown identity
	_, err = auth.Authenticate(identity.Credential{
		Identity: "mallory",
		Token:    "admin-token",
	})
	require.ErrorIs(t, err, identity.ErrUnauthorized)
}

func writeTestRegistry(
	t *testing.T,
	identities map[string]string,
) string {
	t.Helper()
	env := map[string]any{
		"type":        "IdentityRegistry",
		"description": "test registry",
		"identities":  identities,
	}
	data, err := json.Marshal(env)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestKeyfileAuthenticator(t *testing.T) {
	pubKey, privKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	path := writeTestRegistry(t, map[string]string{
		"alice": hex.EncodeToString(pubKey),
	})
	auth, err := identity.NewKeyfileAuthenticator(path)
	require.NoError(t, err)
	nonce := []byte("test-nonce-1")
	sig := ed25519.Sign(privKey, nonce)
	id, err := auth.Authenticate(identity.Credential{
		Identity:  "alice",
		Nonce:     nonce,
		Signature: sig,
	})
	require.NoError(t, err)
	assert.Equal(t, identity.Identity("alice"), id)
	// Signature over a different nonce fails
	_, err = auth.Authenticate(identity.Credential{
		Identity:  "alice",
		Nonce:     []byte("other-nonce"),
		Signature: sig,
	})
	require.ErrorIs(t, err, identity.ErrUnauthorized)
	// Unknown identity fails
	_, err = auth.Authenticate(identity.Credential{
		Identity:  "bob",
		Nonce:     nonce,
		Signature: sig,
	})
	require.ErrorIs(t, err, identity.ErrUnauthorized)
	// Missing nonce fails
	_, err = auth.Authenticate(identity.Credential{
		Identity:  "alice",
		Signature: sig,
	})
	require.ErrorIs(t, err, identity.ErrUnauthorized)
}

func TestKeyfileAuthenticatorRejectsBadRegistry(t *testing.T) {
	// Wrong envelope type
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(
		t,
		os.WriteFile(
			path,
			[]byte(`{"type":"SomethingElse","identities":{}}`),
			0o600,
		),
	)
	_, err := identity.NewKeyfileAuthenticator(path)
	require.Error(t, err)
	// Truncated public key
	badKeyPath := writeTestRegistry(t, map[string]string{
		"alice": "abcd",
	})
	_, err = identity.NewKeyfileAuthenticator(badKeyPath)
	require.Error(t, err)
}
