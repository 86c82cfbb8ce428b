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
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/bfix/bosun/lib"
	"github.com/bfix/gospel/logger"
	"github.com/chzyer/readline"
)

func main() {
	// handle command-line options
	var bosconfig string
	flag.StringVar(&bosconfig, "b", "BosConfig", "overseer configuration file")
	flag.Parse()

	// keep the console quiet
	logger.SetLogLevelFromName("WARN")

	ov, err := lib.NewOverseer(bosconfig, nil)
	if err != nil {
		log.Fatal(err)
	}

	// command completion over the dispatch table
	var items []readline.PrefixCompleterInterface
	for _, name := range ov.Commands() {
		items = append(items, readline.PcItem(name))
	}
	items = append(items, readline.PcItem("quit"))
	completer := readline.NewPrefixCompleter(items...)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:       "bos> ",
		AutoComplete: completer,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil { // EOF or interrupt
			break
		}
		args, err := lib.Split(line)
		if err == nil && len(args) == 1 && args[0] == "quit" {
			break
		}
		out, err := ov.Dispatch(line)
		if err != nil {
			if errors.Is(err, lib.ErrMissingClosingQuote) ||
				errors.Is(err, lib.ErrUnterminatedEscape) {
				fmt.Printf("malformed input: %s\n", err)
			} else {
				fmt.Println(err)
			}
			continue
		}
		if len(out) > 0 {
			fmt.Println(out)
		}
	}
}
