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

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/helpers/fuzzy"
)

// CompatToolNative selects running the game executable directly.
const CompatToolNative = "native"

var (
	ErrInvalidGameConfig = errors.New("invalid game config")
	ErrUnknownSetting    = errors.New("unknown setting")
)

// GameConfig holds the settings for a single game. A missing file is
// equivalent to DefaultGameConfig.
type GameConfig struct {
	Env           map[string]string `json:"env,omitempty" validate:"omitempty,dive,keys,envkey,endkeys"`
	Commands      CommandsConfig    `json:"commands"`
	CompatTool    string            `json:"compat_tool,omitempty"`
	LaunchOptions string            `json:"launch_options,omitempty"`
	Gamescope     GamescopeConfig   `json:"gamescope"`
	MangoHud      MangoHudConfig    `json:"mangohud"`
	Proton        ProtonConfig      `json:"proton"`
	Wait          GameWaitConfig    `json:"wait"`
	GameMode      GameModeConfig    `json:"gamemode"`
	Renice        ReniceConfig      `json:"renice"`
	AppID         uint32            `json:"app_id"`
}

type MangoHudConfig struct {
	Position string            `json:"position,omitempty" validate:"omitempty,oneof=top-left top-right bottom-left bottom-right top-center"`
	Extra    map[string]string `json:"extra,omitempty"`
	FPSLimit int               `json:"fps_limit,omitempty" validate:"gte=0,lte=1000"`
	Enabled  bool              `json:"enabled"`
}

type GamescopeConfig struct {
	ExtraArgs      []string `json:"extra_args,omitempty"`
	Width          int      `json:"width,omitempty" validate:"gte=0,lte=16384"`
	Height         int      `json:"height,omitempty" validate:"gte=0,lte=16384"`
	InternalWidth  int      `json:"internal_width,omitempty" validate:"gte=0,lte=16384"`
	InternalHeight int      `json:"internal_height,omitempty" validate:"gte=0,lte=16384"`
	FPSLimit       int      `json:"fps_limit,omitempty" validate:"gte=0,lte=1000"`
	Enabled        bool     `json:"enabled"`
	Fullscreen     bool     `json:"fullscreen"`
	HDR            bool     `json:"hdr"`
}

type GameModeConfig struct {
	Enabled bool `json:"enabled"`
}

type Command struct {
	Args []string `json:"args" validate:"min=1,dive,required"`
	// Background commands are started and left running; their pid is kept
	// for bookkeeping only.
	Background bool `json:"background,omitempty"`
}

type CommandsConfig struct {
	PreLaunch []Command `json:"pre_launch,omitempty" validate:"dive"`
	PostExit  []Command `json:"post_exit,omitempty" validate:"dive"`
	// ContinueOnError keeps launching when a pre-launch command fails.
	ContinueOnError bool `json:"continue_on_error,omitempty"`
}

type ReniceConfig struct {
	Nice    int  `json:"nice" validate:"gte=-20,lte=19"`
	Enabled bool `json:"enabled"`
}

type ProtonConfig struct {
	EnableNVAPI bool `json:"enable_nvapi,omitempty"`
	DXVKAsync   bool `json:"dxvk_async,omitempty"`
	Log         bool `json:"log,omitempty"`
	DXVKHUD     bool `json:"dxvk_hud,omitempty"`
}

type GameWaitConfig struct {
	// CountdownSeconds overrides the app-wide countdown when set.
	CountdownSeconds *int `json:"countdown_seconds,omitempty" validate:"omitempty,gte=0,lte=255"`
	Disabled         bool `json:"disabled,omitempty"`
}

// DefaultGameConfig returns the settings used when a game has no file.
func DefaultGameConfig(appID uint32) GameConfig {
	return GameConfig{
		AppID:    appID,
		MangoHud: MangoHudConfig{Position: "top-left"},
		Gamescope: GamescopeConfig{
			Width:      1920,
			Height:     1080,
			Fullscreen: true,
		},
	}
}

var envKeyRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func newGameValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("envkey", func(fl validator.FieldLevel) bool {
		return envKeyRe.MatchString(fl.Field().String())
	})
	return v
}

var gameValidator = newGameValidator()

// Validate checks value ranges and env var names.
//
//nolint:gocritic // validated by value
func (g GameConfig) Validate() error {
	if err := gameValidator.Struct(g); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Namespace()+" ("+fe.Tag()+")")
			}
			return fmt.Errorf("%w: %s", ErrInvalidGameConfig, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %w", ErrInvalidGameConfig, err)
	}
	return nil
}

// GameStore reads and writes per-game JSON files.
type GameStore struct {
	fs  afero.Fs
	dir string
}

func NewGameStore(fs afero.Fs, dir string) *GameStore {
	return &GameStore{fs: fs, dir: dir}
}

func (s *GameStore) Path(appID uint32) string {
	return filepath.Join(s.dir, strconv.FormatUint(uint64(appID), 10)+".json")
}

// Load returns the game's settings. A missing file yields the defaults and no
// error. An unreadable, corrupt or invalid file yields the defaults together
// with an error the caller is expected to log and otherwise ignore.
func (s *GameStore) Load(appID uint32) (GameConfig, error) {
	defaults := DefaultGameConfig(appID)

	data, err := afero.ReadFile(s.fs, s.Path(appID))
	if errors.Is(err, os.ErrNotExist) {
		return defaults, nil
	}
	if err != nil {
		return defaults, fmt.Errorf("failed to read game config: %w", err)
	}

	cfg := defaults
	if err := json.Unmarshal(data, &cfg); err != nil {
		return defaults, fmt.Errorf("failed to parse game config: %w", err)
	}
	cfg.AppID = appID

	if err := cfg.Validate(); err != nil {
		return defaults, err
	}
	return cfg, nil
}

// Save validates and writes cfg, replacing any existing file atomically.
//
//nolint:gocritic // saved by value
func (s *GameStore) Save(cfg GameConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal game config: %w", err)
	}

	if err := s.fs.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("failed to create game config directory: %w", err)
	}

	path := s.Path(cfg.AppID)
	tmp := path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write game config: %w", err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace game config: %w", err)
	}
	return nil
}

// SetFeature sets one of the named boolean toggles exposed to the wait
// client.
func (g *GameConfig) SetFeature(name string, enabled bool) error {
	switch name {
	case "mangohud":
		g.MangoHud.Enabled = enabled
	case "gamescope":
		g.Gamescope.Enabled = enabled
	case "gamemode":
		g.GameMode.Enabled = enabled
	case "renice":
		g.Renice.Enabled = enabled
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSetting, name)
	}
	return nil
}

// Feature reports the current value of a named toggle.
//
//nolint:gocritic // read by value
func (g GameConfig) Feature(name string) (bool, error) {
	switch name {
	case "mangohud":
		return g.MangoHud.Enabled, nil
	case "gamescope":
		return g.Gamescope.Enabled, nil
	case "gamemode":
		return g.GameMode.Enabled, nil
	case "renice":
		return g.Renice.Enabled, nil
	default:
		return false, fmt.Errorf("%w: %s", ErrUnknownSetting, name)
	}
}

// SettingKeys are the keys accepted by Set, besides "env.<NAME>".
var SettingKeys = []string{
	"mangohud", "gamescope", "gamemode", "renice",
	"launch_options", "compat_tool",
	"gamescope.width", "gamescope.height", "gamescope.fps_limit",
	"mangohud.fps_limit", "mangohud.position",
	"renice.nice", "wait.countdown_seconds",
}

// Set applies a "key=value" edit from the command line.
func (g *GameConfig) Set(key, value string) error {
	b, boolErr := strconv.ParseBool(value)
	atoi := func() (int, error) {
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return n, nil
	}

	var err error
	switch key {
	case "mangohud", "gamescope", "gamemode", "renice":
		if boolErr != nil {
			return fmt.Errorf("%s: %w", key, boolErr)
		}
		return g.SetFeature(key, b)
	case "launch_options":
		g.LaunchOptions = value
	case "compat_tool":
		g.CompatTool = value
	case "gamescope.width":
		g.Gamescope.Width, err = atoi()
	case "gamescope.height":
		g.Gamescope.Height, err = atoi()
	case "gamescope.fps_limit":
		g.Gamescope.FPSLimit, err = atoi()
	case "mangohud.fps_limit":
		g.MangoHud.FPSLimit, err = atoi()
	case "mangohud.position":
		g.MangoHud.Position = value
	case "renice.nice":
		g.Renice.Nice, err = atoi()
	case "wait.countdown_seconds":
		var n int
		n, err = atoi()
		g.Wait.CountdownSeconds = &n
	default:
		if name, ok := strings.CutPrefix(key, "env."); ok {
			if g.Env == nil {
				g.Env = make(map[string]string)
			}
			g.Env[name] = value
			return nil
		}
		return fmt.Errorf("%w: %s%s", ErrUnknownSetting, key, fuzzy.Hint(key, SettingKeys))
	}
	return err
}
