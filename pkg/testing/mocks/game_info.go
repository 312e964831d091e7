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

	"github.com/stretchr/testify/mock"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/config"
	"github.com/tinkerlaunch/tinkerlaunch/pkg/steam"
)

// MockGameInfoProvider is a testify mock for launcher.GameInfoProvider.
type MockGameInfoProvider struct {
	mock.Mock
}

func (m *MockGameInfoProvider) GameInfo(ctx context.Context, appID uint32, compatOverride string) (steam.GameInfo, error) {
	called := m.Called(ctx, appID, compatOverride)
	info, _ := called.Get(0).(steam.GameInfo)
	//nolint:wrapcheck // Mock returns are already wrapped by caller
	return info, called.Error(1)
}

func (m *MockGameInfoProvider) ResolveCompatLayer(name string) (string, error) {
	called := m.Called(name)
	//nolint:wrapcheck // Mock returns are already wrapped by caller
	return called.String(0), called.Error(1)
}

// MockGameConfigStore is a testify mock for launcher.GameConfigStore.
type MockGameConfigStore struct {
	mock.Mock
}

func (m *MockGameConfigStore) Load(appID uint32) (config.GameConfig, error) {
	called := m.Called(appID)
	cfg, ok := called.Get(0).(config.GameConfig)
	if !ok {
		cfg = config.DefaultGameConfig(appID)
	}
	//nolint:wrapcheck // Mock returns are already wrapped by caller
	return cfg, called.Error(1)
}
