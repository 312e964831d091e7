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

// Package command abstracts process creation so launch code can be tested
// without starting real programs.
package command

import (
	"context"
	"errors"
	"os"
	"os/exec"
)

// ErrEmptyCommand is returned when a Spec has no program to execute.
var ErrEmptyCommand = errors.New("empty command")

// Spec describes a process to start. Args[0] is the program; nothing is
// interpreted by a shell.
type Spec struct {
	Dir  string
	Args []string
	Env  []string
	// Detach starts the process in its own session so it can outlive the
	// launcher and does not receive the launcher's terminal signals.
	Detach bool
}

// Process is a started child process.
type Process interface {
	Pid() int
	// Wait blocks until the process exits and returns its exit error.
	Wait() error
	Signal(sig os.Signal) error
}

// Executor provides an abstraction over exec.Command for testability.
type Executor interface {
	// Run executes a command and waits for it to complete.
	Run(ctx context.Context, spec Spec) error

	// Output runs a command and returns its standard output.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)

	// Start starts a command without waiting for it to complete. Stdio is
	// inherited from the current process.
	Start(ctx context.Context, spec Spec) (Process, error)
}

// RealExecutor uses os/exec to run system commands.
type RealExecutor struct{}

func (*RealExecutor) cmd(ctx context.Context, spec Spec) (*exec.Cmd, error) {
	if len(spec.Args) == 0 || spec.Args[0] == "" {
		return nil, ErrEmptyCommand
	}
	//nolint:gosec // argv vector, no shell interpretation
	c := exec.CommandContext(ctx, spec.Args[0], spec.Args[1:]...)
	c.Dir = spec.Dir
	if spec.Env != nil {
		c.Env = spec.Env
	}
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	setProcAttrs(c, spec)
	return c, nil
}

// Run executes a command and waits for it.
//
//nolint:wrapcheck // Wrapping exec errors loses important context
func (e *RealExecutor) Run(ctx context.Context, spec Spec) error {
	c, err := e.cmd(ctx, spec)
	if err != nil {
		return err
	}
	return c.Run()
}

// Output runs a command and returns its standard output.
//
//nolint:wrapcheck // Wrapping exec errors loses important context
func (*RealExecutor) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Start starts a command without waiting for it.
//
//nolint:wrapcheck // Wrapping exec errors loses important context
func (e *RealExecutor) Start(ctx context.Context, spec Spec) (Process, error) {
	c, err := e.cmd(ctx, spec)
	if err != nil {
		return nil, err
	}
	if err := c.Start(); err != nil {
		return nil, err
	}
	return &execProcess{cmd: c}, nil
}

type execProcess struct {
	cmd *exec.Cmd
}

func (p *execProcess) Pid() int {
	return p.cmd.Process.Pid
}

//nolint:wrapcheck // exit errors are inspected by callers
func (p *execProcess) Wait() error {
	return p.cmd.Wait()
}

//nolint:wrapcheck // signal errors are inspected by callers
func (p *execProcess) Signal(sig os.Signal) error {
	return p.cmd.Process.Signal(sig)
}
