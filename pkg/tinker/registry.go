// Tinkerlaunch
// Copyright (c) 2026 The Tinkerlaunch Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Tinkerlaunch.
//
// Tinkerlaunch is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Tinkerlaunch is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Tinkerlaunch.  If not, see <http://www.gnu.org/licenses/>.

package tinker

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/helpers/syncutil"
)

var (
	ErrDuplicateID = errors.New("tinker id already registered")
	ErrNilTinker   = errors.New("nil tinker")
)

// Registry keeps tinkers sorted by ascending priority. Equal priorities keep
// their registration order.
type Registry struct {
	tinkers []Tinker
	mu      syncutil.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register inserts t and re-sorts the registry. A tinker whose id is already
// registered is rejected and the registry is left unchanged.
func (r *Registry) Register(t Tinker) error {
	if t == nil {
		return ErrNilTinker
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.tinkers {
		if existing.ID() == t.ID() {
			return fmt.Errorf("%w: %s", ErrDuplicateID, t.ID())
		}
	}

	r.tinkers = append(r.tinkers, t)
	slices.SortStableFunc(r.tinkers, func(a, b Tinker) int {
		return int(a.Priority()) - int(b.Priority())
	})
	return nil
}

// Tinkers returns all registered tinkers in priority order.
func (r *Registry) Tinkers() []Tinker {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.tinkers)
}

func (r *Registry) Get(id string) (Tinker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.tinkers {
		if t.ID() == id {
			return t, true
		}
	}
	return nil, false
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tinkers)
}

// Enabled returns the tinkers enabled for tctx, in priority order.
func (r *Registry) Enabled(tctx *Context) []Tinker {
	all := r.Tinkers()
	enabled := make([]Tinker, 0, len(all))
	for _, t := range all {
		if t.IsEnabled(tctx) {
			enabled = append(enabled, t)
		}
	}
	return enabled
}

// RunAll executes the prepare, env and args phases over the enabled tinkers,
// one phase at a time and in registry order. The first error stops the
// pipeline and is returned as a *PhaseError.
func (r *Registry) RunAll(ctx context.Context, tctx *Context, env *Env, args *Args) error {
	enabled := r.Enabled(tctx)
	log.Debug().
		Uint32("appID", tctx.AppID()).
		Str("session", tctx.Session().ID).
		Int("enabled", len(enabled)).
		Msg("running tinker pipeline")

	for _, t := range enabled {
		p, ok := t.(Preparer)
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return &PhaseError{Phase: PhasePrepare, TinkerID: t.ID(), Err: err}
		}
		log.Debug().Str("tinker", t.ID()).Msg("prepare")
		if err := p.Prepare(ctx, tctx); err != nil {
			return &PhaseError{Phase: PhasePrepare, TinkerID: t.ID(), Err: err}
		}
	}

	for _, t := range enabled {
		m, ok := t.(EnvModifier)
		if !ok {
			continue
		}
		if err := m.ModifyEnv(ctx, tctx, env); err != nil {
			return &PhaseError{Phase: PhaseEnv, TinkerID: t.ID(), Err: err}
		}
	}

	for _, t := range enabled {
		m, ok := t.(ArgsModifier)
		if !ok {
			continue
		}
		if err := m.ModifyArgs(ctx, tctx, args); err != nil {
			return &PhaseError{Phase: PhaseArgs, TinkerID: t.ID(), Err: err}
		}
	}

	return nil
}

// Cleanup calls Cleanup on the enabled tinkers in the same forward priority
// order used for setup. Cleaners handle and log their own failures.
func (r *Registry) Cleanup(ctx context.Context, tctx *Context) {
	for _, t := range r.Enabled(tctx) {
		c, ok := t.(Cleaner)
		if !ok {
			continue
		}
		log.Debug().Str("tinker", t.ID()).Msg("cleanup")
		c.Cleanup(ctx, tctx)
	}
}

// AfterSpawn notifies enabled SpawnObservers of the game's pid in priority
// order.
func (r *Registry) AfterSpawn(ctx context.Context, tctx *Context, pid int) {
	for _, t := range r.Enabled(tctx) {
		if o, ok := t.(SpawnObserver); ok {
			o.AfterSpawn(ctx, tctx, pid)
		}
	}
}
