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

package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/blinklabs-io/govproxy/database"
	"github.com/blinklabs-io/govproxy/database/models"
	"github.com/blinklabs-io/govproxy/governance"
	"github.com/blinklabs-io/govproxy/identity"
	"github.com/blinklabs-io/govproxy/internal/config"
	"github.com/blinklabs-io/govproxy/proxy"
)

// client bundles the services for one-shot commands that operate
// directly against the local database
type client struct {
	db         *database.Database
	proxy      *proxy.Service
	governance *governance.Service
}

func openClient(cfg *config.Config, logger *slog.Logger) (*client, error) {
	db, err := database.New(&database.Config{
		DataDir:        cfg.DatabasePath,
		Logger:         logger,
		BlobPlugin:     cfg.BlobPlugin,
		MetadataPlugin: cfg.MetadataPlugin,
	})
	if err != nil {
		var dbErr database.CommitTimestampError
		if !errors.As(err, &dbErr) {
			if db != nil {
				db.Close() //nolint:errcheck
			}
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		logger.Warn(
			"database initialization error, needs recovery",
			"error",
			err,
		)
		if err := db.RecoverCommitTimestampConflict(); err != nil {
			return nil, fmt.Errorf("failed to recover database: %w", err)
		}
	}
	return &client{
		db: db,
		proxy: proxy.NewService(proxy.ServiceConfig{
			Database: db,
			Logger:   logger,
		}),
		governance: governance.NewService(governance.ServiceConfig{
			Database: db,
			Logger:   logger,
		}),
	}, nil
}

func (c *client) Close() error {
	return c.db.Close()
}

// actingIdentity resolves the identity performing the operation from the
// --identity flag or the config file
func actingIdentity(cfg *config.Config) (identity.Identity, error) {
	if cfg.Identity == "" {
		return "", errors.New(
			"no acting identity specified, use --identity or set one in the config file",
		)
	}
	return identity.Identity(cfg.Identity), nil
}

// statusByName maps a status name to its stored value
func statusByName(name string) (uint8, error) {
	switch name {
	case "pending":
		return models.ProposalStatusPending, nil
	case "approved":
		return models.ProposalStatusApproved, nil
	case "executed":
		return models.ProposalStatusExecuted, nil
	case "rejected":
		return models.ProposalStatusRejected, nil
	case "cancelled":
		return models.ProposalStatusCancelled, nil
	default:
		return 0, fmt.Errorf("unknown proposal status %q", name)
	}
}
