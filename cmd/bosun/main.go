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
	"flag"
	"log"

	"github.com/bfix/bosun/lib"
	"github.com/bfix/gospel/logger"
)

func main() {
	// handle command-line options
	var settings, bosconfig string
	flag.StringVar(&settings, "c", "", "daemon settings file")
	flag.StringVar(&bosconfig, "b", "", "overseer configuration file")
	flag.Parse()

	s, err := LoadSettings(settings)
	if err != nil {
		log.Fatal(err)
	}
	if len(bosconfig) > 0 {
		s.BosConfig = bosconfig
	}

	// setup logging
	logger.SetLogLevelFromName(s.LogLevel)
	logger.UseFormat(logger.ColorFormat)

	// load overseer state
	ov, err := lib.NewOverseer(s.BosConfig, nil)
	if err != nil {
		log.Fatal(err)
	}

	// build namespace and start server
	d := NewDaemon(ov)
	d.NamespaceService()
	d.Run(s.Listen)
}
