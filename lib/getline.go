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
	"bufio"
	"io"
)

// LineReader reads delimited records from a stream. A returned record
// includes the delimiter if one was present in the input; a final
// record without a delimiter is returned as-is. Once the stream is
// exhausted, reads return io.EOF.
type LineReader struct {
	rdr *bufio.Reader
}

// NewLineReader wraps a reader for record-oriented access.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{
		rdr: bufio.NewReader(r),
	}
}

// ReadLine returns the next newline-delimited record.
func (lr *LineReader) ReadLine() (string, error) {
	return lr.ReadDelim('\n')
}

// ReadDelim returns the next record up to and including delim.
func (lr *LineReader) ReadDelim(delim byte) (line string, err error) {
	line, err = lr.rdr.ReadString(delim)
	if len(line) > 0 {
		// a partial record before EOF is still a record
		err = nil
	}
	return
}
