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
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/bfix/gospel/logger"
)

// Supervisor runs and stops bnode processes. Process lifecycle is not
// handled here; the overseer only records goals and delegates.
type Supervisor interface {
	Start(b *Bnode) error
	Stop(b *Bnode) error
}

// logSupervisor records start/stop intents in the log.
type logSupervisor struct{}

func (logSupervisor) Start(b *Bnode) error {
	logger.Printf(logger.INFO, "start bnode '%s'", b.Name)
	return nil
}

func (logSupervisor) Stop(b *Bnode) error {
	logger.Printf(logger.INFO, "stop bnode '%s'", b.Name)
	return nil
}

// Handler processes one dispatched command with its arguments
// (without the command name itself).
type Handler func(ov *Overseer, args []string) (string, error)

// Overseer holds the persistent configuration and dispatches command
// lines against a registered command table.
type Overseer struct {
	sync.Mutex

	path string             // configuration file
	cfg  *Config            // current configuration
	sup  Supervisor         // process lifecycle collaborator
	cmds map[string]Handler // command table
}

// NewOverseer loads the configuration at path (a missing file is a
// cold start) and registers the command table. A nil supervisor gets
// replaced by a log-only implementation.
func NewOverseer(path string, sup Supervisor) (ov *Overseer, err error) {
	cfg, err := Load(path)
	if err != nil {
		return
	}
	if sup == nil {
		sup = logSupervisor{}
	}
	ov = &Overseer{
		path: path,
		cfg:  cfg,
		sup:  sup,
	}
	ov.cmds = map[string]Handler{
		"create":   (*Overseer).create,
		"delete":   (*Overseer).delete,
		"start":    (*Overseer).start,
		"stop":     (*Overseer).stop,
		"restart":  (*Overseer).restart,
		"status":   (*Overseer).status,
		"restrict": (*Overseer).restrict,
		"help":     (*Overseer).help,
	}
	return
}

// Commands returns the sorted list of command names.
func (ov *Overseer) Commands() (list []string) {
	for name := range ov.cmds {
		list = append(list, name)
	}
	sort.Strings(list)
	return
}

// Dispatch a command line: split it into an argument vector and match
// the first argument against the command table. An empty line is a
// no-op. Tokenization errors are returned unchanged so callers can
// diagnose malformed input.
func (ov *Overseer) Dispatch(line string) (out string, err error) {
	args, err := Split(line)
	if err != nil {
		return
	}
	if len(args) == 0 {
		return
	}
	handler, ok := ov.cmds[args[0]]
	if !ok {
		return "", fmt.Errorf("unknown command '%s'", args[0])
	}
	ov.Lock()
	defer ov.Unlock()
	return handler(ov, args[1:])
}

// File returns the rendered configuration.
func (ov *Overseer) File() []byte {
	ov.Lock()
	defer ov.Unlock()
	return []byte(ov.cfg.String())
}

// ReplaceConfig parses a complete configuration from a reader and
// makes it the current one. A parse error leaves the active
// configuration untouched.
func (ov *Overseer) ReplaceConfig(rdr io.Reader) (err error) {
	cfg, err := ParseConfig(rdr)
	if err != nil {
		return
	}
	ov.Lock()
	defer ov.Unlock()
	ov.cfg = cfg
	return ov.save()
}

// save the configuration (lock held by caller)
func (ov *Overseer) save() error {
	if len(ov.path) == 0 {
		return nil
	}
	return ov.cfg.Save(ov.path)
}

//----------------------------------------------------------------------
// command table
//----------------------------------------------------------------------

// create a new bnode: "create <type> <name> <command> [args...]".
// The process command is persisted as a single parm line; quoting is
// chosen so that the line re-tokenizes to the given argument vector.
func (ov *Overseer) create(args []string) (out string, err error) {
	if len(args) < 3 {
		return "", fmt.Errorf("usage: create <type> <name> <command> [args...]")
	}
	typ, name := args[0], args[1]
	// type and name are stored as space-separated fields of the
	// bnode record, so they must not need quoting
	if needQuotes(typ) || needQuotes(name) {
		return "", fmt.Errorf("invalid bnode type or name")
	}
	if ov.cfg.Find(name) != nil {
		return "", fmt.Errorf("bnode '%s' already exists", name)
	}
	b := &Bnode{
		Type:  typ,
		Name:  name,
		Goal:  1,
		Parms: []string{Join(args[2:])},
	}
	ov.cfg.Bnodes = append(ov.cfg.Bnodes, b)
	if err = ov.save(); err != nil {
		return
	}
	if err = ov.sup.Start(b); err != nil {
		return
	}
	return fmt.Sprintf("created bnode '%s'", name), nil
}

// delete a stopped bnode
func (ov *Overseer) delete(args []string) (out string, err error) {
	b, err := ov.lookup(args, "delete")
	if err != nil {
		return
	}
	if b.Goal != 0 {
		return "", fmt.Errorf("bnode '%s' is running; stop it first", b.Name)
	}
	ov.cfg.Remove(b.Name)
	if err = ov.save(); err != nil {
		return
	}
	return fmt.Sprintf("deleted bnode '%s'", b.Name), nil
}

// start a bnode (sets the goal to running)
func (ov *Overseer) start(args []string) (out string, err error) {
	b, err := ov.lookup(args, "start")
	if err != nil {
		return
	}
	b.Goal = 1
	if err = ov.save(); err != nil {
		return
	}
	if err = ov.sup.Start(b); err != nil {
		return
	}
	return fmt.Sprintf("started bnode '%s'", b.Name), nil
}

// stop a bnode (sets the goal to shut down)
func (ov *Overseer) stop(args []string) (out string, err error) {
	b, err := ov.lookup(args, "stop")
	if err != nil {
		return
	}
	b.Goal = 0
	if err = ov.save(); err != nil {
		return
	}
	if err = ov.sup.Stop(b); err != nil {
		return
	}
	return fmt.Sprintf("stopped bnode '%s'", b.Name), nil
}

// restart a running bnode
func (ov *Overseer) restart(args []string) (out string, err error) {
	b, err := ov.lookup(args, "restart")
	if err != nil {
		return
	}
	if b.Goal == 0 {
		return "", fmt.Errorf("bnode '%s' is not running", b.Name)
	}
	if err = ov.sup.Stop(b); err != nil {
		return
	}
	if err = ov.sup.Start(b); err != nil {
		return
	}
	return fmt.Sprintf("restarted bnode '%s'", b.Name), nil
}

// status of one or all bnodes. Each parm is re-tokenized and joined
// again, so the output is canonically quoted and shell-pasteable.
func (ov *Overseer) status(args []string) (out string, err error) {
	buf := new(bytes.Buffer)
	render := func(b *Bnode) error {
		state := "shut down"
		if b.Goal != 0 {
			state = "running normally"
		}
		fmt.Fprintf(buf, "instance %s (type %s), currently %s\n",
			b.Name, b.Type, state)
		if len(b.Notifier) > 0 {
			fmt.Fprintf(buf, "    notifier %s\n", b.Notifier)
		}
		for i := range b.Parms {
			argv, err := b.Argv(i)
			if err != nil {
				return err
			}
			fmt.Fprintf(buf, "    parm %s\n", Join(argv))
		}
		return nil
	}
	if len(args) > 0 {
		b := ov.cfg.Find(args[0])
		if b == nil {
			return "", fmt.Errorf("no bnode '%s'", args[0])
		}
		if err = render(b); err != nil {
			return
		}
	} else {
		for _, b := range ov.cfg.Bnodes {
			if err = render(b); err != nil {
				return
			}
		}
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// restrict the command interface: "restrict <0|1>"
func (ov *Overseer) restrict(args []string) (out string, err error) {
	if len(args) != 1 {
		return "", fmt.Errorf("usage: restrict <0|1>")
	}
	mode, err := strconv.Atoi(args[0])
	if err != nil || (mode != 0 && mode != 1) {
		return "", fmt.Errorf("bad restrict mode '%s'", args[0])
	}
	ov.cfg.Restricted = mode == 1
	if err = ov.save(); err != nil {
		return
	}
	return fmt.Sprintf("restrict mode set to %d", mode), nil
}

// help lists the available commands
func (ov *Overseer) help(args []string) (string, error) {
	return "commands: " + strings.Join(ov.Commands(), " "), nil
}

// lookup the bnode for a single-name command
func (ov *Overseer) lookup(args []string, cmd string) (*Bnode, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("usage: %s <name>", cmd)
	}
	b := ov.cfg.Find(args[0])
	if b == nil {
		return nil, fmt.Errorf("no bnode '%s'", args[0])
	}
	return b, nil
}
