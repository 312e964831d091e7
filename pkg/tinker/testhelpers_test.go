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
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeTinker records every call into a shared trace.
type fakeTinker struct {
	trace      *[]string
	prepareErr error
	envErr     error
	argsFn     func(args *Args)
	id         string
	spawnedPID int
	priority   uint8
	disabled   bool
}

func (f *fakeTinker) ID() string                { return f.id }
func (f *fakeTinker) Name() string              { return "fake " + f.id }
func (f *fakeTinker) Priority() uint8           { return f.priority }
func (f *fakeTinker) IsEnabled(_ *Context) bool { return !f.disabled }

func (f *fakeTinker) record(phase string) {
	if f.trace != nil {
		*f.trace = append(*f.trace, phase+":"+f.id)
	}
}

func (f *fakeTinker) Prepare(_ context.Context, _ *Context) error {
	f.record("prepare")
	return f.prepareErr
}

func (f *fakeTinker) ModifyEnv(_ context.Context, _ *Context, env *Env) error {
	f.record("env")
	env.Set("LAST_WRITER", f.id)
	return f.envErr
}

func (f *fakeTinker) ModifyArgs(_ context.Context, _ *Context, args *Args) error {
	f.record("args")
	if f.argsFn != nil {
		f.argsFn(args)
	}
	return nil
}

func (f *fakeTinker) Cleanup(_ context.Context, _ *Context) {
	f.record("cleanup")
}

func (f *fakeTinker) AfterSpawn(_ context.Context, _ *Context, pid int) {
	f.record("spawned")
	f.spawnedPID = pid
}

// envOnly implements none of the optional phases except env.
type envOnly struct {
	id string
}

func (e envOnly) ID() string              { return e.id }
func (e envOnly) Name() string            { return e.id }
func (envOnly) Priority() uint8           { return PriorityOverlay }
func (envOnly) IsEnabled(_ *Context) bool { return true }
func (e envOnly) ModifyEnv(_ context.Context, _ *Context, env *Env) error {
	env.Set("ENV_ONLY", e.id)
	return nil
}

func newTestContext(t *testing.T) *Context {
	t.Helper()
	tctx, err := NewContext(ContextArgs{
		AppID:      413150,
		GameName:   "Stardew Valley",
		InstallDir: "/games/Stardew Valley",
		Executable: "/games/Stardew Valley/StardewValley",
		ScratchDir: "/tmp/tinkerlaunch/413150",
	})
	require.NoError(t, err)
	return tctx
}
