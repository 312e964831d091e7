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

// Package client talks to a running wait daemon over its Unix socket.
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/config"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/ipc/models"
)

var (
	ErrDaemonNotRunning  = errors.New("daemon not running")
	ErrConnectionRefused = errors.New("connection refused")
	ErrTimeout           = errors.New("request timed out")
	ErrMalformedReply    = errors.New("malformed reply")
	ErrNoReply           = errors.New("connection closed without reply")
)

const (
	DefaultRetries    = 3
	DefaultBackoff    = 50 * time.Millisecond
	DefaultMaxBackoff = 800 * time.Millisecond
)

// Client sends one request per connection and waits for the reply.
type Client struct {
	path       string
	timeout    time.Duration
	backoff    time.Duration
	maxBackoff time.Duration
	retries    int
}

type Option func(*Client)

// WithTimeout bounds each dial and each request/reply exchange.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetries sets how many times a failed dial is retried.
func WithRetries(n int) Option {
	return func(c *Client) { c.retries = max(n, 0) }
}

// WithBackoff sets the first retry delay, which doubles up to maxDelay.
func WithBackoff(initial, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.backoff = initial
		c.maxBackoff = maxDelay
	}
}

func New(path string, opts ...Option) *Client {
	c := &Client{
		path:       path,
		timeout:    config.IPCRequestTimeout,
		retries:    DefaultRetries,
		backoff:    DefaultBackoff,
		maxBackoff: DefaultMaxBackoff,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ForApp returns a client for the default socket of appID.
func ForApp(appID uint32, opts ...Option) *Client {
	return New(models.DefaultSocketPath(appID), opts...)
}

func (c *Client) Path() string {
	return c.path
}

// dial connects with bounded retries and doubling backoff. The returned
// error is classified by the last attempt.
func (c *Client) dial(ctx context.Context) (net.Conn, error) {
	delay := c.backoff
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			log.Debug().Err(lastErr).Int("attempt", attempt).Dur("delay", delay).Msg("retrying daemon connection")
			t := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return nil, ctx.Err()
			case <-t.C:
			}
			delay = min(delay*2, c.maxBackoff)
		}

		dctx, cancel := context.WithTimeout(ctx, c.timeout)
		var d net.Dialer
		conn, err := d.DialContext(dctx, "unix", c.path)
		cancel()
		if err == nil {
			return conn, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = c.classifyDial(err)
	}
	return nil, lastErr
}

func (c *Client) classifyDial(err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist), errors.Is(err, syscall.ENOENT):
		return fmt.Errorf("%w: no socket at %s", ErrDaemonNotRunning, c.path)
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Errorf("%w: stale socket at %s", ErrConnectionRefused, c.path)
	case isTimeout(err):
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	default:
		return fmt.Errorf("failed to connect to %s: %w", c.path, err)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// Send performs one request/reply exchange.
func (c *Client) Send(ctx context.Context, req models.Request) (models.Message, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return models.Message{}, err
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			log.Debug().Err(closeErr).Msg("error closing daemon connection")
		}
	}()

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return models.Message{}, fmt.Errorf("failed to set deadline: %w", err)
	}

	if err := models.WriteFrame(conn, req); err != nil {
		return models.Message{}, classifyIO(err)
	}

	line, err := models.ReadFrame(bufio.NewReader(conn))
	if err != nil {
		return models.Message{}, classifyIO(err)
	}

	msg, err := models.ParseMessage(line)
	if err != nil {
		return models.Message{}, fmt.Errorf("%w: %w", ErrMalformedReply, err)
	}
	return msg, nil
}

func classifyIO(err error) error {
	switch {
	case isTimeout(err):
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	case errors.Is(err, io.EOF), errors.Is(err, syscall.EPIPE), errors.Is(err, syscall.ECONNRESET):
		return fmt.Errorf("%w: %w", ErrNoReply, err)
	case errors.Is(err, models.ErrFrameTooLarge):
		return fmt.Errorf("%w: %w", ErrMalformedReply, err)
	default:
		return err
	}
}

func (c *Client) do(ctx context.Context, a models.Action) (models.Message, error) {
	return c.Send(ctx, models.Request{Action: a})
}

func (c *Client) Status(ctx context.Context) (models.Message, error) {
	return c.do(ctx, models.ActionGetStatus)
}

func (c *Client) Pause(ctx context.Context) (models.Message, error) {
	return c.do(ctx, models.ActionPauseLaunch)
}

func (c *Client) Resume(ctx context.Context) (models.Message, error) {
	return c.do(ctx, models.ActionResumeLaunch)
}

func (c *Client) Proceed(ctx context.Context) (models.Message, error) {
	return c.do(ctx, models.ActionProceed)
}

func (c *Client) Abort(ctx context.Context) (models.Message, error) {
	return c.do(ctx, models.ActionAbort)
}

func (c *Client) GameInfo(ctx context.Context) (models.Message, error) {
	return c.do(ctx, models.ActionGetGameInfo)
}

func (c *Client) Tinkers(ctx context.Context) (models.Message, error) {
	return c.do(ctx, models.ActionGetTinkers)
}

func (c *Client) ToggleTinker(ctx context.Context, id string) (models.Message, error) {
	return c.Send(ctx, models.Request{Action: models.ActionToggleTinker, TinkerID: id})
}
