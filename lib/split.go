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

// Split a command line into its argument vector using shell-like
// syntax (see Tokenize for the grammar). An empty or all-whitespace
// line yields an empty vector, never a single empty argument. On
// failure no partial vector is returned.
//
// The vector and its strings are freshly built on each call and share
// no state with the tokenizer or with other calls.
func Split(text string) (args []string, err error) {
	args = []string{}
	if err = Tokenize(text, func(token string) error {
		args = append(args, token)
		return nil
	}); err != nil {
		return nil, err
	}
	return
}
