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
	"bytes"
	"errors"

	"github.com/bfix/bosun/lib"
	"github.com/bfix/gospel/logger"
	"github.com/knusbaum/go9p"
	"github.com/knusbaum/go9p/fs"
	"github.com/knusbaum/go9p/proto"
)

// Daemon serves the overseer state as a synthetic 9P filesystem:
// 'ctl' receives command lines, 'config' holds the configuration
// file, 'status' reports the current state.
type Daemon struct {
	ov   *lib.Overseer // overseer instance
	srv  go9p.Srv      // 9P server
	fs   *fs.FS        // synth. filesystem
	root *fs.StaticDir // root folder
}

// NewDaemon wraps an overseer for 9P service.
func NewDaemon(ov *lib.Overseer) *Daemon {
	return &Daemon{
		ov: ov,
	}
}

// NamespaceService builds the synthetic filesystem.
func (d *Daemon) NamespaceService() {
	d.fs, d.root = fs.NewFS("bosun", "bosun", 0775)
	d.root.AddChild(NewCtlFile(d.fs.NewStat("ctl", "bosun", "bosun", 0222), d.ov))
	d.root.AddChild(NewConfigFile(d.fs.NewStat("config", "bosun", "bosun", 0666), d.ov))
	d.root.AddChild(NewStatusFile(d.fs.NewStat("status", "bosun", "bosun", 0444), d.ov))
	d.srv = d.fs.Server()
}

//----------------------------------------------------------------------

// CtlFile ('/mnt/bosun/ctl') is a write-only file that receives one
// command line per write session; the line is dispatched when the
// file is closed.
type CtlFile struct {
	fs.BaseFile

	content map[uint64][]byte // fid-mapped content
	ov      *lib.Overseer     // reference to overseer instance
}

// NewCtlFile creates a new filesystem node for receiving commands
func NewCtlFile(s *proto.Stat, ov *lib.Overseer) *CtlFile {
	return &CtlFile{
		BaseFile: *fs.NewBaseFile(s),
		content:  make(map[uint64][]byte),
		ov:       ov,
	}
}

// Open file for writing only
func (f *CtlFile) Open(fid uint64, omode proto.Mode) (err error) {
	f.Lock()
	defer f.Unlock()

	if omode == proto.Owrite {
		f.content[fid] = []byte{}
	} else {
		err = errors.New("permission denied")
	}
	return
}

// Write data to file at given position
func (f *CtlFile) Write(fid uint64, ofs uint64, buf []byte) (uint32, error) {
	f.RLock()
	defer f.RUnlock()

	data := f.content[fid]
	flen := uint64(len(data))
	if ofs > flen {
		return 0, errors.New("illegal offset")
	}
	f.content[fid] = append(data[:ofs], buf...)
	return uint32(len(buf)), nil
}

// Close file and dispatch the command line
func (f *CtlFile) Close(fid uint64) (err error) {
	line := string(f.content[fid])
	delete(f.content, fid)

	logger.Printf(logger.INFO, ">> ctl %s", line)
	out, err := f.ov.Dispatch(line)
	if err != nil {
		logger.Println(logger.WARN, "received invalid command: "+err.Error())
		return
	}
	if len(out) > 0 {
		logger.Printf(logger.INFO, "<< %s", out)
	}
	return
}

//----------------------------------------------------------------------

// ConfigFile ('/mnt/bosun/config')
// - Reading the current configuration file
// - Writing a replacement configuration
type ConfigFile struct {
	fs.BaseFile

	content map[uint64][]byte // fid-mapped content
	ov      *lib.Overseer     // reference to overseer instance
	mode    proto.Mode        // open mode: read/write
}

// NewConfigFile creates a new filesystem node for the configuration
func NewConfigFile(s *proto.Stat, ov *lib.Overseer) *ConfigFile {
	return &ConfigFile{
		BaseFile: *fs.NewBaseFile(s),
		content:  make(map[uint64][]byte),
		ov:       ov,
	}
}

// Stat returns the current file stats
func (f *ConfigFile) Stat() proto.Stat {
	s := f.BaseFile.Stat()
	s.Length = uint64(len(f.ov.File())) // adjust file size to content
	f.WriteStat(&s)
	return s
}

// Open file with given mode
func (f *ConfigFile) Open(fid uint64, omode proto.Mode) error {
	f.Lock()
	defer f.Unlock()

	f.mode = omode
	f.content[fid] = f.ov.File()
	return nil
}

// Read specified range from file
func (f *ConfigFile) Read(fid uint64, ofs uint64, count uint64) ([]byte, error) {
	f.RLock()
	defer f.RUnlock()

	data := f.content[fid]
	flen := uint64(len(data))
	if ofs >= flen {
		// no (more) content
		return []byte{}, nil
	}
	last := min(ofs+count, flen)
	return data[ofs:last], nil
}

// Write data to file at given position
func (f *ConfigFile) Write(fid uint64, ofs uint64, buf []byte) (uint32, error) {
	f.RLock()
	defer f.RUnlock()

	data := f.content[fid]
	flen := uint64(len(data))
	if ofs > flen {
		return 0, errors.New("illegal offset")
	}
	f.content[fid] = append(data[:ofs], buf...)
	return uint32(len(buf)), nil
}

// Close file and parse written content
func (f *ConfigFile) Close(fid uint64) (err error) {
	switch f.mode {
	case proto.Oread:
		// no action
	case proto.Owrite:
		data := f.content[fid]
		err = f.ov.ReplaceConfig(bytes.NewBuffer(data))
		if err != nil {
			logger.Println(logger.WARN, "received invalid config: "+err.Error())
		}
	}
	delete(f.content, fid)
	return
}

//----------------------------------------------------------------------

// StatusFile ('/mnt/bosun/status') is a read-only file reporting the
// state of all bnodes in canonically quoted, re-tokenizable form.
type StatusFile struct {
	fs.BaseFile

	content map[uint64][]byte // fid-mapped content
	ov      *lib.Overseer     // reference to overseer instance
}

// NewStatusFile creates a new filesystem node for status reports
func NewStatusFile(s *proto.Stat, ov *lib.Overseer) *StatusFile {
	return &StatusFile{
		BaseFile: *fs.NewBaseFile(s),
		content:  make(map[uint64][]byte),
		ov:       ov,
	}
}

// render the current status
func (f *StatusFile) render() []byte {
	out, err := f.ov.Dispatch("status")
	if err != nil {
		return []byte{}
	}
	if len(out) > 0 {
		out += "\n"
	}
	return []byte(out)
}

// Stat returns the current file stats
func (f *StatusFile) Stat() proto.Stat {
	s := f.BaseFile.Stat()
	s.Length = uint64(len(f.render())) // adjust file size to content
	f.WriteStat(&s)
	return s
}

// Open file for reading only
func (f *StatusFile) Open(fid uint64, omode proto.Mode) (err error) {
	f.Lock()
	defer f.Unlock()

	if omode == proto.Owrite {
		return errors.New("file is read only")
	}
	f.content[fid] = f.render()
	return
}

// Read specified range from file
func (f *StatusFile) Read(fid uint64, ofs uint64, count uint64) ([]byte, error) {
	f.RLock()
	defer f.RUnlock()

	data := f.content[fid]
	flen := uint64(len(data))
	if ofs >= flen {
		return []byte{}, nil
	}
	last := min(ofs+count, flen)
	return data[ofs:last], nil
}

// Close file
func (f *StatusFile) Close(fid uint64) error {
	delete(f.content, fid)
	return nil
}
