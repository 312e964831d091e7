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

// Package tinker implements the launch plugin contract. A Tinker may prepare
// filesystem state, modify the environment and modify the argv of a game
// before it is spawned. Tinkers are kept in a Registry ordered by priority.
package tinker

import "context"

// Priority bands. Lower values run first in every phase.
const (
	PrioritySetupEarly   uint8 = 10
	PrioritySetup        uint8 = 20
	PrioritySetupLate    uint8 = 30
	PriorityOverlayEarly uint8 = 40
	PriorityOverlay      uint8 = 50
	PriorityOverlayLate  uint8 = 60
	PriorityWrapperEarly uint8 = 70
	PriorityWrapper      uint8 = 80
	PriorityWrapperLate  uint8 = 90
	PriorityLaunch       uint8 = 100
)

// Tinker is the required part of the contract. The phase operations are
// optional interfaces; a tinker that does not implement one is skipped for
// that phase.
type Tinker interface {
	ID() string
	Name() string
	Priority() uint8
	IsEnabled(tctx *Context) bool
}

// Preparer runs before any environment or argument changes. Commands started
// here block the launch unless the tinker backgrounds them.
type Preparer interface {
	Prepare(ctx context.Context, tctx *Context) error
}

type EnvModifier interface {
	ModifyEnv(ctx context.Context, tctx *Context, env *Env) error
}

// ArgsModifier may only add items to the front or back of args. Existing
// items must stay in their relative order.
type ArgsModifier interface {
	ModifyArgs(ctx context.Context, tctx *Context, args *Args) error
}

// Cleaner runs after the spawned game has exited.
type Cleaner interface {
	Cleanup(ctx context.Context, tctx *Context)
}

// Phase names a stage of the pipeline.
type Phase string

const (
	PhasePrepare Phase = "prepare"
	PhaseEnv     Phase = "env"
	PhaseArgs    Phase = "args"
)

// PhaseError reports which tinker failed and in which phase.
type PhaseError struct {
	Err      error
	Phase    Phase
	TinkerID string
}

func (e *PhaseError) Error() string {
	return "tinker " + e.TinkerID + " failed in " + string(e.Phase) + " phase: " + e.Err.Error()
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

// SpawnObserver is told the pid of the game right after it was spawned.
// Failures are the observer's to log; they never affect the launch.
type SpawnObserver interface {
	AfterSpawn(ctx context.Context, tctx *Context, pid int)
}
