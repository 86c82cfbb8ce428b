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
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func parseConfig(t *testing.T, text string) *Config {
	t.Helper()
	cfg, err := ParseConfig(strings.NewReader(text))
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func isBnode(t *testing.T, b *Bnode, typ, name string, goal int, notifier string, parms ...string) {
	t.Helper()
	if b.Type != typ || b.Name != name || b.Goal != goal || b.Notifier != notifier {
		t.Logf("got  %+v", b)
		t.Logf("want type=%s name=%s goal=%d notifier=%s", typ, name, goal, notifier)
		t.Fatal("mismatch")
	}
	isArgv(t, b.Parms, parms)
}

func TestParseConfigEmpty(t *testing.T) {
	cfg := parseConfig(t, "")
	if len(cfg.Bnodes) != 0 || cfg.Restricted {
		t.Fatal("empty input is a cold start")
	}
}

func TestParseConfigSimple(t *testing.T) {
	cfg := parseConfig(t,
		"restrictmode 0\n"+
			"restarttime 16 0 4 0 0\n"+
			"checkbintime 3 0 5 0 0\n"+
			"bnode simple ptserver 1\n"+
			"parm /usr/afs/bin/ptserver\n"+
			"end\n"+
			"bnode simple vlserver 1\n"+
			"parm /usr/afs/bin/vlserver\n"+
			"end\n")
	if cfg.Restricted {
		t.Fatal("not restricted")
	}
	if cfg.RestartTime != (KTime{16, 0, 4, 0, 0}) {
		t.Fatalf("restart time %+v", cfg.RestartTime)
	}
	if cfg.CheckBinTime != (KTime{3, 0, 5, 0, 0}) {
		t.Fatalf("checkbin time %+v", cfg.CheckBinTime)
	}
	if len(cfg.Bnodes) != 2 {
		t.Fatalf("%d bnodes", len(cfg.Bnodes))
	}
	isBnode(t, cfg.Bnodes[0], "simple", "ptserver", 1, "",
		"/usr/afs/bin/ptserver")
	isBnode(t, cfg.Bnodes[1], "simple", "vlserver", 1, "",
		"/usr/afs/bin/vlserver")
}

func TestParseConfigMultiParm(t *testing.T) {
	cfg := parseConfig(t,
		"bnode dafs dafs 1\n"+
			"parm /usr/afs/bin/dafileserver -d 1 -L\n"+
			"parm /usr/afs/bin/davolserver -d 1\n"+
			"parm /usr/afs/bin/salvageserver\n"+
			"parm /usr/afs/bin/dasalvager\n"+
			"end\n")
	if len(cfg.Bnodes) != 1 {
		t.Fatalf("%d bnodes", len(cfg.Bnodes))
	}
	isBnode(t, cfg.Bnodes[0], "dafs", "dafs", 1, "",
		"/usr/afs/bin/dafileserver -d 1 -L",
		"/usr/afs/bin/davolserver -d 1",
		"/usr/afs/bin/salvageserver",
		"/usr/afs/bin/dasalvager")

	// parm command lines tokenize into argument vectors
	argv, err := cfg.Bnodes[0].Argv(0)
	if err != nil {
		t.Fatal(err)
	}
	isArgv(t, argv, []string{"/usr/afs/bin/dafileserver", "-d", "1", "-L"})
}

func TestParseConfigNotifier(t *testing.T) {
	cfg := parseConfig(t,
		"bnode simple upclient 0 /usr/afs/bin/notify-me\n"+
			"parm /usr/afs/bin/upclient server1\n"+
			"end\n")
	isBnode(t, cfg.Bnodes[0], "simple", "upclient", 0,
		"/usr/afs/bin/notify-me", "/usr/afs/bin/upclient server1")
}

func TestParseConfigRestricted(t *testing.T) {
	cfg := parseConfig(t, "restrictmode 1\n")
	if !cfg.Restricted {
		t.Fatal("restricted mode not set")
	}
}

func TestParseConfigBad(t *testing.T) {
	bad := []string{
		"what is this\n",
		"restrictmode 2\n",
		"restrictmode x\n",
		"restarttime 1 2 3\n",
		"checkbintime 1 2 3 4\n",
		"bnode simple\n",
		"bnode simple ptserver x\n",
		"bnode simple ptserver 1\nparm /usr/afs/bin/ptserver\n",
		"bnode simple ptserver 1\nwhat is this\nend\n",
		"parm /usr/afs/bin/ptserver\nend\n",
	}
	for _, text := range bad {
		cfg, err := ParseConfig(strings.NewReader(text))
		if err == nil {
			t.Logf("%q", text)
			t.Fatal("bad config accepted")
		}
		if cfg != nil {
			t.Fatal("partial config on error")
		}
	}
}

func TestParseConfigTooManyParms(t *testing.T) {
	buf := new(strings.Builder)
	buf.WriteString("bnode simple full 1\n")
	for i := 0; i <= maxParms; i++ {
		fmt.Fprintf(buf, "parm /usr/afs/bin/prog -i %d\n", i)
	}
	buf.WriteString("end\n")
	if _, err := ParseConfig(strings.NewReader(buf.String())); err == nil {
		t.Fatal("parm overflow accepted")
	}
}

func TestConfigRoundTrip(t *testing.T) {
	cfg := &Config{
		Restricted:   true,
		RestartTime:  KTime{16, 0, 4, 0, 0},
		CheckBinTime: KTime{3, 0, 5, 0, 0},
		Bnodes: []*Bnode{
			{
				Type:  "simple",
				Name:  "ptserver",
				Goal:  1,
				Parms: []string{"/usr/afs/bin/ptserver -p 16"},
			},
			{
				Type:     "cron",
				Name:     "backup",
				Goal:     0,
				Notifier: "/usr/afs/bin/notify",
				Parms:    []string{"/usr/afs/bin/vos backupsys -prefix user", "05:00"},
			},
		},
	}
	back := parseConfig(t, cfg.String())
	if back.String() != cfg.String() {
		t.Log(cfg.String())
		t.Log(back.String())
		t.Fatal("mismatch")
	}
}

func TestConfigSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "BosConfig")

	// a missing file is a cold start
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Bnodes) != 0 {
		t.Fatal("cold start not empty")
	}

	cfg.Bnodes = append(cfg.Bnodes, &Bnode{
		Type:  "simple",
		Name:  "ptserver",
		Goal:  1,
		Parms: []string{"/usr/afs/bin/ptserver"},
	})
	if err = cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	// the temp file is gone after a successful save
	if _, err = os.Stat(path + ".NBZ"); !os.IsNotExist(err) {
		t.Fatal("temp file left behind")
	}
	back, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(back.Bnodes) != 1 {
		t.Fatalf("%d bnodes after reload", len(back.Bnodes))
	}
	isBnode(t, back.Bnodes[0], "simple", "ptserver", 1, "",
		"/usr/afs/bin/ptserver")
}
