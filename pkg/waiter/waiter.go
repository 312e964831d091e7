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
	"context"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/config"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/ipc/models"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/launcher"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/steam"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/tinker"
)

// Launcher starts a game once the wait decides to.
type Launcher interface {
	LaunchWith(ctx context.Context, cfg *config.GameConfig, extraArgs []string, dryRun bool) launcher.Result
	Registry() *tinker.Registry
}

// ConfigStore reads and writes per-game settings.
type ConfigStore interface {
	Load(appID uint32) (config.GameConfig, error)
	Save(cfg config.GameConfig) error
}

type Options struct {
	Launcher Launcher
	Games    launcher.GameInfoProvider
	Configs  ConfigStore
	App      *config.Instance
	Clock    clockwork.Clock
	SkipWait func() bool
	// SocketPath defaults to models.DefaultSocketPath.
	SocketPath   func(appID uint32) string
	PollInterval time.Duration
	Linger       time.Duration
	Settle       time.Duration
}

// Waiter runs the countdown daemon for a game and launches it when the
// daemon decides to.
type Waiter struct {
	opts Options
}

func New(opts Options) *Waiter {
	if opts.SocketPath == nil {
		opts.SocketPath = models.DefaultSocketPath
	}
	if opts.SkipWait == nil {
		opts.SkipWait = config.SkipWait
	}
	return &Waiter{opts: opts}
}

// ResolveCountdown picks the countdown length. The environment wins over the
// game's setting, which wins over the app-wide default.
func ResolveCountdown(app uint8, game *int) uint8 {
	if n, ok := config.CountdownOverride(); ok {
		return n
	}
	if game != nil {
		return uint8(min(max(*game, 0), 255)) //nolint:gosec // clamped
	}
	return app
}

func (w *Waiter) enabled(cfg *config.GameConfig) bool {
	if cfg.Wait.Disabled {
		return false
	}
	return w.opts.App == nil || w.opts.App.WaitEnabled()
}

func (w *Waiter) countdown(cfg *config.GameConfig) uint8 {
	app := uint8(config.DefaultCountdownSeconds)
	if w.opts.App != nil {
		app = w.opts.App.CountdownSeconds()
	}
	return ResolveCountdown(app, cfg.Wait.CountdownSeconds)
}

func (w *Waiter) gameName(ctx context.Context, appID uint32, cfg *config.GameConfig) string {
	if w.opts.Games == nil {
		return steam.FormatGameName(appID, "")
	}
	info, err := w.opts.Games.GameInfo(ctx, appID, cfg.CompatTool)
	if err != nil {
		log.Warn().Err(err).Uint32("appID", appID).Msg("failed to read game metadata for wait screen")
		return steam.FormatGameName(appID, "")
	}
	return steam.FormatGameName(appID, info.Name)
}

func (w *Waiter) tinkerInfo(cfg *config.GameConfig, name string) []models.TinkerInfo {
	if w.opts.Launcher == nil || w.opts.Launcher.Registry() == nil {
		return nil
	}
	tctx, err := tinker.NewContext(tinker.ContextArgs{
		Config:   cfg,
		AppID:    cfg.AppID,
		GameName: name,
	})
	if err != nil {
		log.Warn().Err(err).Msg("failed to build tinker context for listing")
		return nil
	}
	all := w.opts.Launcher.Registry().Tinkers()
	out := make([]models.TinkerInfo, 0, len(all))
	for _, t := range all {
		out = append(out, models.TinkerInfo{
			ID:       t.ID(),
			Name:     t.Name(),
			Priority: t.Priority(),
			Enabled:  t.IsEnabled(tctx),
		})
	}
	return out
}

// NewDaemon builds the daemon for appID from its current settings.
func (w *Waiter) NewDaemon(ctx context.Context, appID uint32, cfg *config.GameConfig) *Daemon {
	name := w.gameName(ctx, appID, cfg)

	features := make(map[string]bool, len(Features))
	for _, id := range Features {
		v, err := cfg.Feature(id)
		if err == nil {
			features[id] = v
		}
	}

	m := NewMachine(MachineOptions{
		AppID:     appID,
		GameName:  name,
		Countdown: w.countdown(cfg),
		Features:  features,
		Tinkers:   w.tinkerInfo(cfg, name),
	})
	return NewDaemon(m, DaemonOptions{
		Path:         w.opts.SocketPath(appID),
		Clock:        w.opts.Clock,
		SkipWait:     w.opts.SkipWait,
		PollInterval: w.opts.PollInterval,
		Linger:       w.opts.Linger,
		Settle:       w.opts.Settle,
	})
}

// Wait runs the countdown for appID. On a launch decision any features
// toggled by clients are saved to the game's settings.
func (w *Waiter) Wait(ctx context.Context, appID uint32) (Decision, error) {
	decision, _, err := w.wait(ctx, appID, true)
	return decision, err
}

// wait returns the decision together with the settings to launch with,
// toggles included. Toggles are only written back when persist is set and
// the stored file loaded cleanly, so a corrupt file is never replaced by
// defaults.
func (w *Waiter) wait(ctx context.Context, appID uint32, persist bool) (Decision, config.GameConfig, error) {
	logger := log.With().Uint32("appID", appID).Logger()

	cfg, loadErr := w.opts.Configs.Load(appID)
	if loadErr != nil {
		logger.Warn().Err(loadErr).Msg("failed to load game config, using defaults")
	}
	if !w.enabled(&cfg) {
		logger.Info().Msg("wait disabled, launching directly")
		return DecisionLaunch, cfg, nil
	}

	d := w.NewDaemon(ctx, appID, &cfg)
	decision, err := d.Run(ctx)
	if decision != DecisionLaunch {
		return decision, cfg, err
	}

	if !w.applyToggles(&cfg, d.Machine().FeatureStates()) {
		return decision, cfg, nil
	}
	switch {
	case !persist:
	case loadErr != nil:
		logger.Warn().Msg("not saving toggled features over an unreadable game config")
	default:
		if err := w.opts.Configs.Save(cfg); err != nil {
			logger.Error().Err(err).Msg("failed to save toggled features")
		}
	}
	return decision, cfg, nil
}

func (*Waiter) applyToggles(cfg *config.GameConfig, toggles map[string]bool) bool {
	changed := false
	for id, v := range toggles {
		cur, err := cfg.Feature(id)
		if err != nil || cur == v {
			continue
		}
		if err := cfg.SetFeature(id, v); err == nil {
			log.Info().Str("feature", id).Bool("enabled", v).Msg("feature toggled during wait")
			changed = true
		}
	}
	return changed
}

// Run waits and then launches appID unless the wait was aborted. The launch
// uses the toggled settings even when saving them failed. A dry run never
// saves.
func (w *Waiter) Run(
	ctx context.Context,
	appID uint32,
	extraArgs []string,
	dryRun bool,
) (launcher.Result, Decision, error) {
	decision, cfg, err := w.wait(ctx, appID, !dryRun)
	switch decision {
	case DecisionLaunch:
		return w.opts.Launcher.LaunchWith(ctx, &cfg, extraArgs, dryRun), decision, nil
	case DecisionAbort:
		return launcher.Result{AppID: appID, Message: "launch aborted"}, decision, err
	case DecisionError, DecisionNone:
	}
	if err == nil {
		err = errors.New("wait ended without a decision")
	}
	return launcher.Result{AppID: appID, Error: err, Message: err.Error()}, decision, err
}
