//----------------------------------------------------------------------
// This file is part of bosun.
// Copyright (C) 2024-present Bernd Fix   >Y<
//
// bosun is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// bosun is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Settings for the daemon itself (not the overseer state; that lives
// in the BosConfig file).
type Settings struct {
	Listen    string `toml:"listen"`    // 9P listen address
	BosConfig string `toml:"bosconfig"` // overseer configuration file
	LogLevel  string `toml:"loglevel"`  // DBG, INFO, WARN, ERROR
}

// LoadSettings reads the daemon settings from a TOML file. An empty
// path yields the defaults.
func LoadSettings(path string) (s *Settings, err error) {
	s = &Settings{
		Listen:    "0.0.0.0:3125",
		BosConfig: "BosConfig",
		LogLevel:  "INFO",
	}
	if len(path) == 0 {
		return
	}
	if _, err = toml.DecodeFile(path, s); err != nil {
		return nil, err
	}
	if len(s.Listen) == 0 || len(s.BosConfig) == 0 {
		return nil, fmt.Errorf("incomplete settings in '%s'", path)
	}
	return
}
