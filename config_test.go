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

package govproxy

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/blinklabs-io/govproxy/governance"
	"github.com/stretchr/testify/assert"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	// Default logger discards output but must be usable without guards
	assert.NotNil(t, cfg.logger)
	assert.Empty(t, cfg.dataDir)
	assert.Empty(t, cfg.blobPlugin)
	assert.Empty(t, cfg.metadataPlugin)
	assert.False(t, cfg.tracing)
	assert.Equal(t, time.Duration(0), cfg.shutdownTimeout)
}

func TestConfigOptions(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	runner := governance.NewMigrationRegistry()
	cfg := NewConfig(
		WithLogger(logger),
		WithDatabasePath(".govproxy-test"),
		WithBlobPlugin("badger"),
		WithMetadataPlugin("sqlite"),
		WithMigrationRunner(runner),
		WithTracing(true),
		WithTracingStdout(true),
		WithShutdownTimeout(5*time.Second),
	)

	assert.Equal(t, logger, cfg.logger)
	assert.Equal(t, ".govproxy-test", cfg.dataDir)
	assert.Equal(t, "badger", cfg.blobPlugin)
	assert.Equal(t, "sqlite", cfg.metadataPlugin)
	assert.Equal(t, governance.MigrationRunner(runner), cfg.migrationRunner)
	assert.True(t, cfg.tracing)
	assert.True(t, cfg.tracingStdout)
	assert.Equal(t, 5*time.Second, cfg.shutdownTimeout)
}
