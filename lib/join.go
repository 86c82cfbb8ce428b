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

import "strings"

// punctuation that never needs quoting
const safeChars = ",.-_/:@"

// safe characters form tokens that re-tokenize as themselves.
func safe(ch byte) bool {
	switch {
	case ch >= 'a' && ch <= 'z':
		return true
	case ch >= 'A' && ch <= 'Z':
		return true
	case ch >= '0' && ch <= '9':
		return true
	}
	return strings.IndexByte(safeChars, ch) >= 0
}

// An empty argument or one containing whitespace, quotes, backslashes
// or shell metacharacters must be quoted.
func needQuotes(arg string) bool {
	if len(arg) == 0 {
		return true
	}
	for i := 0; i < len(arg); i++ {
		if !safe(arg[i]) {
			return true
		}
	}
	return false
}

// quote an argument with single quotes. An embedded single quote ends
// the current segment, is written wrapped in double quotes, and a new
// segment is opened. Backslashes and double quotes are literal inside
// single quotes, so no other escaping is needed.
func quote(buf *strings.Builder, arg string) {
	buf.WriteByte('\'')
	for i := 0; i < len(arg); i++ {
		if arg[i] == '\'' {
			buf.WriteString(`'"'"'`)
		} else {
			buf.WriteByte(arg[i])
		}
	}
	buf.WriteByte('\'')
}

// Join an argument vector into a single command line such that Split
// maps it back to the identical vector. Arguments are quoted only when
// needed and separated by one space; an empty vector joins to the
// empty string. Join never fails: any finite vector is serializable,
// worst case fully quoted.
func Join(args []string) string {
	buf := new(strings.Builder)
	for i, arg := range args {
		if i > 0 {
			buf.WriteByte(' ')
		}
		if needQuotes(arg) {
			quote(buf, arg)
		} else {
			buf.WriteString(arg)
		}
	}
	return buf.String()
}
