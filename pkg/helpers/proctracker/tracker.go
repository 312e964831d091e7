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

//go:build linux

// Package proctracker notifies callers when processes they did not spawn
// directly exit. It uses pidfd_open where the kernel supports it and falls
// back to polling otherwise.
package proctracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/helpers"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/helpers/syncutil"
	"golang.org/x/sys/unix"
)

// ErrProcessNotFound is returned when a process doesn't exist.
var ErrProcessNotFound = errors.New("process not found")

// PollInterval is the fallback polling interval.
const PollInterval = time.Second

// ExitCallback is called once when a tracked process exits.
type ExitCallback func(pid int)

// Tracker watches a set of pids.
type Tracker struct {
	tracked  map[int]*tracked
	done     chan struct{}
	wg       sync.WaitGroup
	mu       syncutil.Mutex
	stopOnce sync.Once
	usePidfd bool
}

type tracked struct {
	callback ExitCallback
	cancel   context.CancelFunc
	pid      int
	pidfd    int
}

// New creates a tracker, probing for pidfd support.
func New() *Tracker {
	t := &Tracker{
		tracked:  make(map[int]*tracked),
		done:     make(chan struct{}),
		usePidfd: pidfdSupported(),
	}
	log.Debug().Bool("pidfd", t.usePidfd).Msg("process tracker ready")
	return t
}

// Track starts watching pid. Tracking an already tracked pid is a no-op.
func (t *Tracker) Track(pid int, callback ExitCallback) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.tracked[pid]; ok {
		return nil
	}

	exists, err := process.PidExists(int32(pid)) //nolint:gosec // pids fit in int32 on linux
	if err != nil {
		return fmt.Errorf("check process %d: %w", pid, err)
	}
	if !exists {
		return ErrProcessNotFound
	}

	ctx, cancel := context.WithCancel(context.Background())
	tp := &tracked{pid: pid, pidfd: -1, callback: callback, cancel: cancel}

	if t.usePidfd {
		fd, err := unix.PidfdOpen(pid, 0)
		switch {
		case errors.Is(err, unix.ESRCH):
			cancel()
			return ErrProcessNotFound
		case err != nil:
			log.Debug().Err(err).Int("pid", pid).Msg("pidfd_open failed, polling instead")
		default:
			tp.pidfd = fd
		}
	}

	t.tracked[pid] = tp
	t.wg.Add(1)
	if tp.pidfd >= 0 {
		go t.watchPidfd(ctx, tp)
	} else {
		go t.watchPoll(ctx, tp)
	}
	return nil
}

// Tracked returns the number of processes currently watched.
func (t *Tracker) Tracked() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.tracked)
}

// Stop ends all watches without invoking callbacks and waits for the
// watcher goroutines.
func (t *Tracker) Stop() {
	t.stopOnce.Do(func() {
		close(t.done)
		t.mu.Lock()
		for _, tp := range t.tracked {
			tp.cancel()
		}
		t.tracked = make(map[int]*tracked)
		t.mu.Unlock()
		t.wg.Wait()
	})
}

func (t *Tracker) watchPidfd(ctx context.Context, tp *tracked) {
	defer t.wg.Done()
	defer func() { _ = unix.Close(tp.pidfd) }()

	fds := []unix.PollFd{{Fd: int32(tp.pidfd), Events: unix.POLLIN}} //nolint:gosec // fd from kernel
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.done:
			return
		default:
		}

		n, err := unix.Poll(fds, int(PollInterval/time.Millisecond))
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			log.Warn().Err(err).Int("pid", tp.pid).Msg("pidfd poll failed")
			return
		}
		if n > 0 {
			t.exited(tp)
			return
		}
	}
}

func (t *Tracker) watchPoll(ctx context.Context, tp *tracked) {
	defer t.wg.Done()

	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.done:
			return
		case <-ticker.C:
			if !helpers.IsPidRunning(tp.pid) {
				t.exited(tp)
				return
			}
		}
	}
}

func (t *Tracker) exited(tp *tracked) {
	t.mu.Lock()
	if _, ok := t.tracked[tp.pid]; !ok {
		t.mu.Unlock()
		return
	}
	tp.cancel()
	delete(t.tracked, tp.pid)
	t.mu.Unlock()

	log.Debug().Int("pid", tp.pid).Msg("tracked process exited")
	if tp.callback != nil {
		tp.callback(tp.pid)
	}
}

func pidfdSupported() bool {
	fd, err := unix.PidfdOpen(unix.Getpid(), 0)
	if err != nil {
		return false
	}
	_ = unix.Close(fd)
	return true
}
