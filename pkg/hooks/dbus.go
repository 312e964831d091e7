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

package hooks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog/log"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/config"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/helpers/syncutil"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/tinker"
	"golang.org/x/sync/errgroup"
)

const (
	powerProfilesDest = "net.hadess.PowerProfiles"
	powerProfilesPath = "/net/hadess/PowerProfiles"
	activeProfileProp = "net.hadess.PowerProfiles.ActiveProfile"

	notificationsDest   = "org.freedesktop.Notifications"
	notificationsPath   = "/org/freedesktop/Notifications"
	notificationsNotify = "org.freedesktop.Notifications.Notify"

	screenSaverDest      = "org.freedesktop.ScreenSaver"
	screenSaverPath      = "/org/freedesktop/ScreenSaver"
	screenSaverInhibit   = "org.freedesktop.ScreenSaver.Inhibit"
	screenSaverUnInhibit = "org.freedesktop.ScreenSaver.UnInhibit"

	// DefaultTimeout bounds each hook stage.
	DefaultTimeout = 2 * time.Second
)

var errUnexpectedReply = errors.New("unexpected D-Bus reply")

// launchState is what BeforeSpawn changed and AfterExit has to undo.
type launchState struct {
	prevProfile string
	cookie      uint32
	inhibited   bool
}

// DBusHooks switches the power profile, inhibits the screensaver and shows
// a desktop notification for each launch.
type DBusHooks struct {
	session  func() (Bus, error)
	system   func() (Bus, error)
	launches map[string]*launchState
	opts     config.Launch
	timeout  time.Duration
	mu       syncutil.Mutex
}

func NewDBusHooks(opts config.Launch) *DBusHooks {
	return &DBusHooks{
		opts:     opts,
		session:  SessionBus,
		system:   SystemBus,
		timeout:  DefaultTimeout,
		launches: make(map[string]*launchState),
	}
}

func (h *DBusHooks) state(tctx *tinker.Context) *launchState {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := tctx.Session().ID
	st, ok := h.launches[id]
	if !ok {
		st = &launchState{}
		h.launches[id] = st
	}
	return st
}

func (h *DBusHooks) forget(tctx *tinker.Context) *launchState {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := tctx.Session().ID
	st := h.launches[id]
	delete(h.launches, id)
	return st
}

// BeforeSpawn switches the power profile and inhibits the screensaver
// concurrently.
func (h *DBusHooks) BeforeSpawn(ctx context.Context, tctx *tinker.Context) {
	st := h.state(tctx)

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	var g errgroup.Group
	if h.opts.PowerProfile != "" {
		g.Go(func() error {
			prev, err := h.switchProfile(ctx, h.opts.PowerProfile)
			if err != nil {
				return fmt.Errorf("power profile: %w", err)
			}
			st.prevProfile = prev
			return nil
		})
	}
	if h.opts.InhibitScreensaver {
		g.Go(func() error {
			cookie, err := h.inhibit(ctx, tctx.GameName())
			if err != nil {
				return fmt.Errorf("screensaver inhibit: %w", err)
			}
			st.cookie = cookie
			st.inhibited = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Msg("session hook failed")
	}
}

// AfterSpawn shows a "launching" notification.
func (h *DBusHooks) AfterSpawn(ctx context.Context, tctx *tinker.Context, pid int) {
	if !h.opts.Notify {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	body := fmt.Sprintf("%s (app %d) started with pid %d", tctx.GameName(), tctx.AppID(), pid)
	if err := h.notify(ctx, "Launching "+tctx.GameName(), body); err != nil {
		log.Warn().Err(err).Msg("failed to send launch notification")
	}
}

// AfterExit restores the power profile and releases the screensaver
// inhibition taken by BeforeSpawn.
func (h *DBusHooks) AfterExit(ctx context.Context, tctx *tinker.Context) {
	st := h.forget(tctx)
	if st == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	var g errgroup.Group
	if st.prevProfile != "" {
		g.Go(func() error {
			if _, err := h.switchProfile(ctx, st.prevProfile); err != nil {
				return fmt.Errorf("restore power profile: %w", err)
			}
			return nil
		})
	}
	if st.inhibited {
		g.Go(func() error {
			bus, err := h.session()
			if err != nil {
				return err
			}
			if _, err := bus.Call(ctx, screenSaverDest, screenSaverPath, screenSaverUnInhibit, st.cookie); err != nil {
				return fmt.Errorf("screensaver uninhibit: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Msg("session hook failed")
	}
}

// switchProfile sets the active power profile and returns the previous one.
func (h *DBusHooks) switchProfile(ctx context.Context, profile string) (string, error) {
	bus, err := h.system()
	if err != nil {
		return "", err
	}
	cur, err := bus.GetProperty(ctx, powerProfilesDest, powerProfilesPath, activeProfileProp)
	if err != nil {
		return "", err
	}
	prev, ok := cur.(string)
	if !ok {
		return "", fmt.Errorf("%w: ActiveProfile is %T", errUnexpectedReply, cur)
	}
	if prev == profile {
		return "", nil
	}
	if err := bus.SetProperty(ctx, powerProfilesDest, powerProfilesPath, activeProfileProp, profile); err != nil {
		return "", err
	}
	log.Info().Str("from", prev).Str("to", profile).Msg("switched power profile")
	return prev, nil
}

func (h *DBusHooks) inhibit(ctx context.Context, gameName string) (uint32, error) {
	bus, err := h.session()
	if err != nil {
		return 0, err
	}
	body, err := bus.Call(ctx, screenSaverDest, screenSaverPath, screenSaverInhibit,
		config.AppName, "Playing "+gameName)
	if err != nil {
		return 0, err
	}
	if len(body) != 1 {
		return 0, errUnexpectedReply
	}
	cookie, ok := body[0].(uint32)
	if !ok {
		return 0, fmt.Errorf("%w: cookie is %T", errUnexpectedReply, body[0])
	}
	return cookie, nil
}

func (h *DBusHooks) notify(ctx context.Context, summary, body string) error {
	bus, err := h.session()
	if err != nil {
		return err
	}
	_, err = bus.Call(ctx, notificationsDest, notificationsPath, notificationsNotify,
		config.AppName, uint32(0), "applications-games", summary, body,
		[]string{}, map[string]dbus.Variant{}, int32(5000))
	return err
}
