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

// Package tui is the terminal client for the wait daemon. It polls the
// daemon, draws the countdown and forwards key presses as actions.
package tui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/helpers/syncutil"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/ipc/client"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/ipc/models"
)

const (
	DefaultPollInterval = 250 * time.Millisecond
	// DefaultMaxFailures is how many polls in a row may fail before the
	// client gives up on the daemon.
	DefaultMaxFailures = 20
)

var ErrDaemonGone = errors.New("lost contact with the wait daemon")

// DaemonClient is the part of the IPC client the TUI uses.
type DaemonClient interface {
	Status(ctx context.Context) (models.Message, error)
	Send(ctx context.Context, req models.Request) (models.Message, error)
}

type Options struct {
	Client DaemonClient
	// Screen replaces the terminal, for tests.
	Screen       tcell.Screen
	PollInterval time.Duration
	MaxFailures  int
	AppID        uint32
}

// waitScreen holds the widgets and the last state shown in them. It is
// only touched from the tview event loop.
type waitScreen struct {
	err      error
	root     *tview.Flex
	game     *tview.TextView
	state    *tview.TextView
	progress *tview.TextView
	features *tview.TextView
	errLine  *tview.TextView
	help     *tview.TextView
	last     models.Message
	failures int
	total    uint8
	seen     bool
}

func newWaitScreen(appID uint32) *waitScreen {
	text := func() *tview.TextView {
		return tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignCenter)
	}
	s := &waitScreen{
		game:     text(),
		state:    text(),
		progress: text(),
		features: text(),
		errLine:  text(),
		help:     text(),
		last:     models.Message{AppID: appID},
	}

	body := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(s.game, 1, 0, false).
		AddItem(nil, 1, 0, false).
		AddItem(s.state, 1, 0, false).
		AddItem(s.progress, 1, 0, false).
		AddItem(nil, 1, 0, false).
		AddItem(s.features, 1, 0, false).
		AddItem(s.errLine, 2, 0, false).
		AddItem(nil, 0, 1, false).
		AddItem(s.help, 1, 0, false)
	body.SetBorder(true).SetTitleAlign(tview.AlignCenter)
	s.root = body
	s.draw(Render(s.last, 0))
	return s
}

func (s *waitScreen) draw(v View) {
	s.root.SetTitle(" " + v.Title + " ")
	s.game.SetText(v.Game)
	s.state.SetText(v.State)
	s.progress.SetText(v.Progress)
	s.features.SetText(v.Features)
	s.errLine.SetText(v.Error)
	s.help.SetText(v.Help)
}

func (s *waitScreen) update(msg models.Message) {
	if !s.seen || msg.CountdownSeconds > s.total {
		s.total = msg.CountdownSeconds
	}
	s.seen = true
	s.failures = 0
	s.err = nil
	s.last = msg
	s.draw(Render(msg, s.total))
}

// expired reports whether err means the daemon went away because the
// countdown shown last ran out, rather than because it died.
func (s *waitScreen) expired(err error) bool {
	if !s.seen || s.last.State != models.StateCountdown || s.last.CountdownSeconds > 1 {
		return false
	}
	return errors.Is(err, client.ErrDaemonNotRunning) || errors.Is(err, client.ErrConnectionRefused)
}

func (s *waitScreen) fail(err error) {
	s.failures++
	s.err = err
	s.draw(RenderError(s.last, s.total, err))
}

// Run shows the wait screen until the daemon reaches a state the client
// is done with. It returns the last state received.
func Run(ctx context.Context, opts Options) (models.Message, error) {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.MaxFailures <= 0 {
		opts.MaxFailures = DefaultMaxFailures
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app := tview.NewApplication()
	if opts.Screen != nil {
		app.SetScreen(opts.Screen)
	}
	ws := newWaitScreen(opts.AppID)

	var resultMu syncutil.Mutex
	var result models.Message
	var resultErr error
	finish := func(msg models.Message, err error) {
		resultMu.Lock()
		result, resultErr = msg, err
		resultMu.Unlock()
		app.Stop()
	}

	// apply runs on the event loop after every exchange with the daemon.
	apply := func(msg models.Message, err error) {
		if err != nil && ws.expired(err) {
			log.Debug().Err(err).Msg("daemon gone after countdown, assuming launch")
			msg = ws.last
			msg.State = models.StateLaunching
			msg.CountdownSeconds = 0
			err = nil
		}
		if err != nil {
			log.Debug().Err(err).Msg("daemon request failed")
			ws.fail(err)
			if ws.failures >= opts.MaxFailures {
				finish(ws.last, fmt.Errorf("%w: %w", ErrDaemonGone, err))
			}
			return
		}
		ws.update(msg)
		if msg.State.ClientDone() {
			finish(msg, nil)
		}
	}

	var wg sync.WaitGroup
	send := func(req models.Request) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			msg, err := opts.Client.Send(ctx, req)
			if ctx.Err() != nil {
				return
			}
			app.QueueUpdateDraw(func() { apply(msg, err) })
		}()
	}

	app.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		if ev.Key() == tcell.KeyCtrlC {
			send(models.Request{Action: models.ActionAbort})
			return nil
		}
		req, ok := KeyAction(ev)
		if !ok {
			return ev
		}
		send(req)
		return nil
	})

	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(opts.PollInterval)
		defer t.Stop()
		for {
			msg, err := opts.Client.Status(ctx)
			if ctx.Err() != nil {
				return
			}
			app.QueueUpdateDraw(func() { apply(msg, err) })
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
		}
	}()

	go func() {
		<-ctx.Done()
		app.Stop()
	}()

	runErr := app.SetRoot(ws.root, true).Run()
	cancel()
	wg.Wait()

	if runErr != nil {
		return ws.last, fmt.Errorf("terminal error: %w", runErr)
	}

	resultMu.Lock()
	defer resultMu.Unlock()
	if resultErr == nil && !result.State.ClientDone() {
		// Stopped from outside before the daemon finished.
		return ws.last, context.Cause(ctx)
	}
	return result, resultErr
}
