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

package blob

import (
	"fmt"
	"log/slog"

	"github.com/blinklabs-io/govproxy/database/plugin"
	"github.com/blinklabs-io/govproxy/database/types"
	"github.com/prometheus/client_golang/prometheus"

	// Register the badger plugin
	_ "github.com/blinklabs-io/govproxy/database/plugin/blob/badger"
)

// BlobStore holds the singleton records and counters as raw values under
// fixed keys, with transactional read-modify-write
type BlobStore interface {
	Close() error
	NewTransaction(update bool) types.BlobTxn

	GetCommitTimestamp() (int64, error)
	SetCommitTimestamp(types.BlobTxn, int64) error
}

// New returns the started blob plugin selected by name
func New(
	pluginName string,
	dataDir string,
	logger *slog.Logger,
	promRegistry prometheus.Registerer,
) (BlobStore, error) {
	p, err := plugin.StartPlugin(
		plugin.PluginTypeBlob,
		pluginName,
		dataDir,
		logger,
		promRegistry,
	)
	if err != nil {
		return nil, err
	}
	blobStore, ok := p.(BlobStore)
	if !ok {
		return nil, fmt.Errorf(
			"plugin '%s' does not implement BlobStore interface",
			pluginName,
		)
	}
	return blobStore, nil
}
