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

package mocks

import (
	"context"
	"os"

	"github.com/stretchr/testify/mock"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/helpers/command"
)

// MockCommandExecutor is a testify mock for command.Executor.
// It allows testing code that executes system commands without actually running them.
type MockCommandExecutor struct {
	mock.Mock
}

// Run mocks the execution of a system command.
// Use On() to set expectations and Return() to control the mock behavior.
//
// Example:
//
//	mockCmd := &MockCommandExecutor{}
//	mockCmd.On("Run", mock.Anything, mock.Anything).Return(nil)
func (m *MockCommandExecutor) Run(ctx context.Context, spec command.Spec) error {
	called := m.Called(ctx, spec)
	//nolint:wrapcheck // Mock returns are already wrapped by caller
	return called.Error(0)
}

func (m *MockCommandExecutor) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	called := m.Called(ctx, name, args)
	out, _ := called.Get(0).([]byte)
	//nolint:wrapcheck // Mock returns are already wrapped by caller
	return out, called.Error(1)
}

// Start mocks starting a process. Return a *MockProcess, or nil with an error.
func (m *MockCommandExecutor) Start(ctx context.Context, spec command.Spec) (command.Process, error) {
	called := m.Called(ctx, spec)
	if called.Get(0) == nil {
		//nolint:wrapcheck // Mock returns are already wrapped by caller
		return nil, called.Error(1)
	}
	proc, ok := called.Get(0).(command.Process)
	if !ok {
		panic("MockCommandExecutor.Start: first return value is not a command.Process")
	}
	//nolint:wrapcheck // Mock returns are already wrapped by caller
	return proc, called.Error(1)
}

// MockProcess is a started process whose Wait blocks until Exit is called.
type MockProcess struct {
	exitErr error
	done    chan struct{}
	pid     int
}

func NewMockProcess(pid int) *MockProcess {
	return &MockProcess{pid: pid, done: make(chan struct{})}
}

func (p *MockProcess) Pid() int {
	return p.pid
}

func (p *MockProcess) Wait() error {
	<-p.done
	return p.exitErr
}

// Signal is a no-op.
func (*MockProcess) Signal(_ os.Signal) error {
	return nil
}

// Exit unblocks Wait with err. It must be called at most once.
func (p *MockProcess) Exit(err error) {
	p.exitErr = err
	close(p.done)
}

// Exited returns a process that has already exited.
func Exited(pid int, err error) *MockProcess {
	p := NewMockProcess(pid)
	p.Exit(err)
	return p
}
