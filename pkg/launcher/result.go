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

package launcher

import (
	"context"
	"errors"
)

var (
	ErrMetadata            = errors.New("game metadata unavailable")
	ErrMissingExecutable   = errors.New("missing executable")
	ErrCompatLayerNotFound = errors.New("compat layer not found")
	ErrPipeline            = errors.New("tinker pipeline failed")
	ErrSpawn               = errors.New("failed to spawn game")
)

// Result describes a launch attempt. Failures are reported through Error
// and Message rather than by a second return value so callers can always
// render something.
type Result struct {
	Error   error
	exit    *processExit
	Message string
	Command []string
	Env     []string
	// WorkingDir is the directory the game is started in.
	WorkingDir string
	GameName   string
	EnvCount   int
	PID        int
	AppID      uint32
	DryRun     bool
}

func (r *Result) OK() bool {
	return r.Error == nil
}

// ExitCode maps the result to a process exit status.
func (r *Result) ExitCode() int {
	switch {
	case r.Error == nil:
		return 0
	case errors.Is(r.Error, ErrMetadata), errors.Is(r.Error, ErrMissingExecutable):
		return 2
	case errors.Is(r.Error, ErrCompatLayerNotFound):
		return 3
	case errors.Is(r.Error, ErrPipeline):
		return 4
	default:
		return 1
	}
}

// Wait blocks until the spawned game has exited and its cleanup has run,
// or ctx is done. Results without a spawned process return immediately.
func (r *Result) Wait(ctx context.Context) error {
	if r.exit == nil {
		return r.Error
	}
	select {
	case <-r.exit.done:
		return r.exit.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// processExit is closed once the game exited and cleanup finished.
type processExit struct {
	err  error
	done chan struct{}
}

func failed(appID uint32, err error, msg string) Result {
	return Result{AppID: appID, Error: err, Message: msg}
}
