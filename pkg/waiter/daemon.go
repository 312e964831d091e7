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

package waiter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/config"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/ipc/models"
)

const (
	DefaultPollInterval  = 50 * time.Millisecond
	DefaultAcceptTimeout = 20 * time.Millisecond
	DefaultReadTimeout   = 50 * time.Millisecond
	DefaultLinger        = 3 * time.Second
	DefaultSettle        = time.Second
)

type DaemonOptions struct {
	Clock clockwork.Clock
	// SkipWait reports whether to decide "launch" without serving at all.
	// Defaults to config.SkipWait.
	SkipWait func() bool
	// Listen binds the socket; defaults to a 0600 Unix listener.
	Listen        func(path string) (listener, error)
	Path          string
	PollInterval  time.Duration
	AcceptTimeout time.Duration
	// ReadTimeout bounds reading a request and writing its reply.
	ReadTimeout time.Duration
	// Linger is how long an error stays visible to clients before Run
	// returns.
	Linger time.Duration
	// Settle is how long a decision reached by the countdown itself stays
	// visible. Run returns early once a client has been told the decision.
	Settle time.Duration
}

// Daemon serves a Machine on a Unix socket from a single loop.
type Daemon struct {
	clock         clockwork.Clock
	machine       *Machine
	skipWait      func() bool
	listen        func(string) (listener, error)
	path          string
	poll          time.Duration
	acceptTimeout time.Duration
	readTimeout   time.Duration
	linger        time.Duration
	settle        time.Duration
}

func NewDaemon(m *Machine, opts DaemonOptions) *Daemon {
	d := &Daemon{
		machine:       m,
		clock:         opts.Clock,
		skipWait:      opts.SkipWait,
		listen:        opts.Listen,
		path:          opts.Path,
		poll:          opts.PollInterval,
		acceptTimeout: opts.AcceptTimeout,
		readTimeout:   opts.ReadTimeout,
		linger:        opts.Linger,
		settle:        opts.Settle,
	}
	if d.clock == nil {
		d.clock = clockwork.NewRealClock()
	}
	if d.skipWait == nil {
		d.skipWait = config.SkipWait
	}
	if d.listen == nil {
		d.listen = listenUnix
	}
	if d.poll <= 0 {
		d.poll = DefaultPollInterval
	}
	if d.acceptTimeout <= 0 {
		d.acceptTimeout = DefaultAcceptTimeout
	}
	if d.readTimeout <= 0 {
		d.readTimeout = DefaultReadTimeout
	}
	if d.linger <= 0 {
		d.linger = DefaultLinger
	}
	if d.settle <= 0 {
		d.settle = DefaultSettle
	}
	return d
}

func (d *Daemon) Machine() *Machine {
	return d.machine
}

func (d *Daemon) Path() string {
	return d.path
}

// Run counts down and serves clients until a decision is reached. The
// socket is removed before Run returns. Cancelling ctx aborts the wait.
func (d *Daemon) Run(ctx context.Context) (Decision, error) {
	logger := log.With().Uint32("appID", d.machine.appID).Logger()

	if d.skipWait() {
		logger.Info().Msg("wait skipped by environment")
		d.machine.Apply(models.Request{Action: models.ActionProceed}, d.clock.Now())
		return d.machine.Decision(), nil
	}

	ln, err := d.listen(d.path)
	if err != nil {
		d.machine.Fail(err)
		return DecisionError, err
	}
	defer func() {
		if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			logger.Debug().Err(err).Msg("error closing daemon socket")
		}
		if err := os.Remove(d.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn().Err(err).Msg("failed to remove daemon socket")
		}
	}()

	d.machine.Start(d.clock.Now())
	logger.Info().
		Str("socket", d.path).
		Uint8("countdown", d.machine.Remaining()).
		Msg("wait daemon started")

	var fault error
	var faultAt, decidedAt time.Time
	announced := false
	for {
		if err := ctx.Err(); err != nil {
			d.machine.Apply(models.Request{Action: models.ActionAbort}, d.clock.Now())
			logger.Info().Msg("wait cancelled")
			return DecisionAbort, err
		}

		told, err := d.serveOnce(ln)
		if told {
			announced = true
		}
		if err != nil && fault == nil {
			logger.Error().Err(err).Msg("wait daemon fault")
			fault = err
			faultAt = d.clock.Now()
			d.machine.Fail(err)
		}

		d.machine.Tick(d.clock.Now())

		switch d.machine.Decision() {
		case DecisionLaunch, DecisionAbort:
			if decidedAt.IsZero() {
				decidedAt = d.clock.Now()
			}
			if announced || d.clock.Since(decidedAt) >= d.settle {
				logger.Info().Stringer("decision", d.machine.Decision()).Msg("wait finished")
				return d.machine.Decision(), nil
			}
		case DecisionError:
			if fault == nil {
				fault = errors.New(d.machine.errMsg)
				faultAt = d.clock.Now()
			}
			if d.clock.Since(faultAt) >= d.linger {
				return DecisionError, fault
			}
		case DecisionNone:
		}

		select {
		case <-ctx.Done():
		case <-d.clock.After(d.poll):
		}
	}
}

// serveOnce accepts at most one connection and answers one request on it.
// It reports whether a reply carrying a terminal state was delivered. Only
// listener failures are returned; a misbehaving client is logged and
// dropped.
func (d *Daemon) serveOnce(ln listener) (bool, error) {
	if err := ln.SetDeadline(time.Now().Add(d.acceptTimeout)); err != nil {
		return false, fmt.Errorf("failed to set accept deadline: %w", err)
	}
	conn, err := ln.Accept()
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return false, nil
		}
		return false, fmt.Errorf("failed to accept connection: %w", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Debug().Err(err).Msg("error closing client connection")
		}
	}()

	if err := conn.SetDeadline(time.Now().Add(d.readTimeout)); err != nil {
		log.Debug().Err(err).Msg("failed to set client deadline")
		return false, nil
	}

	line, err := models.ReadFrame(bufio.NewReader(conn))
	if err != nil {
		log.Debug().Err(err).Msg("failed to read client request")
		return false, nil
	}

	req, err := models.ParseRequest(line)
	if err != nil {
		log.Debug().Err(err).Msg("malformed client request")
	}
	log.Debug().Stringer("action", req.Action).Msg("client request")

	reply := d.machine.Apply(req, d.clock.Now())
	if err := models.WriteFrame(conn, reply); err != nil {
		log.Debug().Err(err).Msg("failed to send reply")
		return false, nil
	}
	return reply.State.Terminal(), nil
}
