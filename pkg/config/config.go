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

// Package config loads the application settings file and the per-game
// settings consumed by the launch pipeline.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/helpers/syncutil"
)

const SchemaVersion = 1

var ErrSchemaMismatch = errors.New("schema version mismatch")

type Values struct {
	Steam          Steam     `toml:"steam,omitempty"`
	Telemetry      Telemetry `toml:"telemetry,omitempty"`
	Launch         Launch    `toml:"launch"`
	Wait           Wait      `toml:"wait"`
	ConfigSchema   int       `toml:"config_schema"`
	DebugLogging   bool      `toml:"debug_logging"`
	ErrorReporting bool      `toml:"error_reporting"`
}

type Wait struct {
	CountdownSeconds int  `toml:"countdown_seconds"`
	Enabled          bool `toml:"enabled"`
}

type Steam struct {
	InstallDir     string   `toml:"install_dir,omitempty"`
	CompatToolsDir string   `toml:"compat_tools_dir,omitempty"`
	ExtraLibraries []string `toml:"extra_libraries,omitempty,multiline"`
}

type Launch struct {
	// PowerProfile is requested from power-profiles-daemon while a game
	// runs. Empty leaves the profile alone.
	PowerProfile       string `toml:"power_profile,omitempty"`
	Notify             bool   `toml:"notify"`
	InhibitScreensaver bool   `toml:"inhibit_screensaver"`
}

type Telemetry struct {
	DSN string `toml:"dsn,omitempty"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Wait: Wait{
		Enabled:          true,
		CountdownSeconds: DefaultCountdownSeconds,
	},
	Launch: Launch{
		Notify:             true,
		InhibitScreensaver: true,
	},
}

type Instance struct {
	cfgPath  string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

// NewConfig loads config.toml from configDir, writing the defaults first if
// the file does not exist yet.
//
//nolint:gocritic // config struct copied for immutability
func NewConfig(configDir string, defaults Values) (*Instance, error) {
	cfg := Instance{
		cfgPath:  filepath.Join(configDir, CfgFile),
		vals:     defaults,
		defaults: defaults,
	}

	if _, err := os.Stat(cfg.cfgPath); os.IsNotExist(err) {
		log.Info().Str("path", cfg.cfgPath).Msg("saving new default config to disk")

		if err := os.MkdirAll(configDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		if err := cfg.Save(); err != nil {
			return nil, err
		}
	}

	if err := cfg.Load(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	data, err := os.ReadFile(c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// fields missing from the file keep their defaults
	newVals := c.defaults
	if err := toml.Unmarshal(data, &newVals); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			newVals.ConfigSchema,
			SchemaVersion,
		)
		return ErrSchemaMismatch
	}

	c.vals = newVals
	return nil
}

func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	c.vals.ConfigSchema = SchemaVersion

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Instance) Path() string {
	return c.cfgPath
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
}

func (c *Instance) ErrorReporting() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.ErrorReporting
}

func (c *Instance) TelemetryDSN() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Telemetry.DSN
}

func (c *Instance) WaitEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Wait.Enabled
}

func (c *Instance) SetWaitEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Wait.Enabled = enabled
}

// CountdownSeconds returns the configured countdown clamped to 0..255.
func (c *Instance) CountdownSeconds() uint8 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clampSeconds(c.vals.Wait.CountdownSeconds)
}

func (c *Instance) SteamInstallDir() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Steam.InstallDir
}

func (c *Instance) SteamExtraLibraries() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.vals.Steam.ExtraLibraries))
	copy(out, c.vals.Steam.ExtraLibraries)
	return out
}

func (c *Instance) CompatToolsDir() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Steam.CompatToolsDir
}

func (c *Instance) LaunchHooks() Launch {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Launch
}

func clampSeconds(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}
