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

package governance

import (
	"context"
	"fmt"
	"sync"

	"github.com/blinklabs-io/govproxy/database/models"
)

// MigrationRunner invokes the data migration selected by a plan. The
// payload logic lives outside this service; only selection and
// invocation are specified here.
type MigrationRunner interface {
	Run(ctx context.Context, plan *models.MigrationPlan) error
}

// MigrationFunc is a single migration routine
type MigrationFunc func(ctx context.Context, plan *models.MigrationPlan) error

// MigrationRegistry maps migration selectors to routines. An unknown
// selector is an error, which aborts the executing transaction.
type MigrationRegistry struct {
	mu    sync.RWMutex
	funcs map[string]MigrationFunc
}

func NewMigrationRegistry() *MigrationRegistry {
	return &MigrationRegistry{
		funcs: make(map[string]MigrationFunc),
	}
}

// Register adds a migration routine under the given selector,
// replacing any existing routine
func (r *MigrationRegistry) Register(selector string, fn MigrationFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[selector] = fn
}

func (r *MigrationRegistry) Run(
	ctx context.Context,
	plan *models.MigrationPlan,
) error {
	r.mu.RLock()
	fn, ok := r.funcs[plan.Selector]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown migration selector %q", plan.Selector)
	}
	return fn(ctx, plan)
}
