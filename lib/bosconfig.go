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

package lib

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// maximum number of parm records per bnode
const maxParms = 20

// KTime is a periodic point in time (for scheduled restarts).
type KTime struct {
	Mask int // fields to match
	Day  int // day of week (0 == sunday)
	Hour int
	Min  int
	Sec  int
}

// Bnode is one supervised instance: a named process (or set of
// processes) with the command lines used to run it. Each parm is a
// single command line in the tokenizer grammar.
type Bnode struct {
	Type     string   // bnode type (simple, cron, fs, ...)
	Name     string   // instance name
	Goal     int      // desired state: 1 = running, 0 = shut down
	Notifier string   // optional notifier command
	Parms    []string // process command lines
}

// Argv returns parm i tokenized into an argument vector.
func (b *Bnode) Argv(i int) ([]string, error) {
	if i < 0 || i >= len(b.Parms) {
		return nil, fmt.Errorf("no parm %d for bnode '%s'", i, b.Name)
	}
	return Split(b.Parms[i])
}

// Config is the persistent state of an overseer: global scheduling
// and restriction settings plus the list of supervised bnodes.
type Config struct {
	Restricted   bool    // restricted command interface
	RestartTime  KTime   // general restart time
	CheckBinTime KTime   // time to check for new binaries
	Bnodes       []*Bnode
}

// NewConfig returns an empty configuration (cold start).
func NewConfig() *Config {
	return &Config{}
}

// Find a bnode by instance name.
func (c *Config) Find(name string) *Bnode {
	for _, b := range c.Bnodes {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// Remove the named bnode from the configuration.
func (c *Config) Remove(name string) bool {
	for i, b := range c.Bnodes {
		if b.Name == name {
			c.Bnodes = append(c.Bnodes[:i], c.Bnodes[i+1:]...)
			return true
		}
	}
	return false
}

// String renders the configuration in its file format.
func (c *Config) String() string {
	buf := new(bytes.Buffer)
	restricted := 0
	if c.Restricted {
		restricted = 1
	}
	fmt.Fprintf(buf, "restrictmode %d\n", restricted)
	fmt.Fprintf(buf, "restarttime %d %d %d %d %d\n", c.RestartTime.Mask,
		c.RestartTime.Day, c.RestartTime.Hour, c.RestartTime.Min,
		c.RestartTime.Sec)
	fmt.Fprintf(buf, "checkbintime %d %d %d %d %d\n", c.CheckBinTime.Mask,
		c.CheckBinTime.Day, c.CheckBinTime.Hour, c.CheckBinTime.Min,
		c.CheckBinTime.Sec)
	for _, b := range c.Bnodes {
		if len(b.Notifier) > 0 {
			fmt.Fprintf(buf, "bnode %s %s %d %s\n", b.Type, b.Name,
				b.Goal, b.Notifier)
		} else {
			fmt.Fprintf(buf, "bnode %s %s %d\n", b.Type, b.Name, b.Goal)
		}
		for _, parm := range b.Parms {
			fmt.Fprintf(buf, "parm %s\n", parm)
		}
		fmt.Fprintln(buf, "end")
	}
	return buf.String()
}

// strip the trailing newline, if present
func stripLine(line string) string {
	return strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
}

// ParseConfig reads an overseer configuration from a reader. The file
// is a sequence of tagged records:
//
//	restrictmode <0|1>
//	restarttime <mask> <day> <hour> <min> <sec>
//	checkbintime <mask> <day> <hour> <min> <sec>
//	bnode <type> <name> <goal> [notifier]
//	parm <command line>
//	end
//
// Any unrecognized record is an error; partial configurations are
// never returned.
func ParseConfig(in io.Reader) (cfg *Config, err error) {
	cfg = NewConfig()
	lr := NewLineReader(in)
	for {
		var line string
		if line, err = lr.ReadLine(); err != nil {
			if err == io.EOF {
				return cfg, nil
			}
			return nil, err
		}
		line = stripLine(line)

		if strings.HasPrefix(line, "restarttime") {
			if err = parseKTime(line, "restarttime", &cfg.RestartTime); err != nil {
				return nil, err
			}
			continue
		}
		if strings.HasPrefix(line, "checkbintime") {
			if err = parseKTime(line, "checkbintime", &cfg.CheckBinTime); err != nil {
				return nil, err
			}
			continue
		}
		if strings.HasPrefix(line, "restrictmode") {
			var rmode int
			if _, err = fmt.Sscanf(line, "restrictmode %d", &rmode); err != nil {
				return nil, fmt.Errorf("bad restrictmode record: '%s'", line)
			}
			if rmode != 0 && rmode != 1 {
				return nil, fmt.Errorf("bad restrictmode value: %d", rmode)
			}
			cfg.Restricted = rmode == 1
			continue
		}
		if !strings.HasPrefix(line, "bnode") {
			return nil, fmt.Errorf("unexpected record: '%s'", line)
		}
		var b *Bnode
		if b, err = parseBnode(line, lr); err != nil {
			return nil, err
		}
		cfg.Bnodes = append(cfg.Bnodes, b)
	}
}

// parse a five-field time record
func parseKTime(line, tag string, kt *KTime) error {
	n, err := fmt.Sscanf(line, tag+" %d %d %d %d %d",
		&kt.Mask, &kt.Day, &kt.Hour, &kt.Min, &kt.Sec)
	if err != nil || n != 5 {
		return fmt.Errorf("bad %s record: '%s'", tag, line)
	}
	return nil
}

// parse a bnode record and its parm lines up to the closing "end"
func parseBnode(line string, lr *LineReader) (b *Bnode, err error) {
	b = new(Bnode)
	n, err := fmt.Sscanf(line, "bnode %s %s %d %s",
		&b.Type, &b.Name, &b.Goal, &b.Notifier)
	if n < 3 {
		return nil, fmt.Errorf("bad bnode record: '%s'", line)
	}
	err = nil
	for i := 0; ; i++ {
		if i == maxParms {
			return nil, fmt.Errorf("too many parms for bnode '%s'", b.Name)
		}
		if line, err = lr.ReadLine(); err != nil {
			return nil, fmt.Errorf("missing end record for bnode '%s'", b.Name)
		}
		line = stripLine(line)
		if strings.HasPrefix(line, "end") {
			break
		}
		if !strings.HasPrefix(line, "parm ") {
			return nil, fmt.Errorf("unexpected record in bnode '%s': '%s'",
				b.Name, line)
		}
		b.Parms = append(b.Parms, line[5:])
	}
	return
}

// Load a configuration file. A missing file is a cold start and
// yields an empty configuration.
func Load(path string) (cfg *Config, err error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewConfig(), nil
		}
		return
	}
	defer f.Close()
	return ParseConfig(f)
}

// Save the configuration: write a temporary file next to the target
// and snap it into place with a rename. A failed write never clobbers
// the previous file.
func (c *Config) Save(path string) (err error) {
	tmp := path + ".NBZ"
	f, err := os.Create(tmp)
	if err != nil {
		return
	}
	if _, err = f.WriteString(c.String()); err != nil {
		f.Close()
		os.Remove(tmp)
		return
	}
	if err = f.Close(); err != nil {
		os.Remove(tmp)
		return
	}
	if err = os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
	}
	return
}
