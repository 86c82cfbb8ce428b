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

import "errors"

// Tokenization errors
var (
	// ErrMissingClosingQuote: a quote was opened but never closed
	// before the end of input.
	ErrMissingClosingQuote = errors.New("missing closing quote")

	// ErrUnterminatedEscape: a backslash with no following character.
	ErrUnterminatedEscape = errors.New("unterminated escape")

	// ErrResourceExhausted: the token buffer can't grow any further.
	ErrResourceExhausted = errors.New("resource exhausted")
)

// Emit is called by the tokenizer for each completed token, left to
// right, with its fully unescaped value. A non-nil return aborts the
// tokenization; the error is passed through to the caller unchanged.
type Emit func(token string) error

// tokenizer states
type lexState int

const (
	stDelim  lexState = iota // whitespace between tokens
	stBare                   // unquoted token characters
	stSQuote                 // inside single quotes
	stDQuote                 // inside double quotes
	stEsc                    // character following backslash
	stQEsc                   // character following backslash in double quotes
	stEnd                    // tokenization complete
)

// whitespace separating tokens (trailing record separators are
// ordinary whitespace)
func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

// Tokenize a text line using a shell-like syntax: tokens are split on
// whitespace; single quotes, double quotes and backslash escapes are
// honored. Quote characters are modal, not token boundaries, so
// "a'b c'd" is the single token "ab cd". Tokenize handles input as a
// sequence of bytes; multi-byte characters pass through unaltered.
//
// A nil emit discards tokens (syntax check only).
func Tokenize(text string, emit Emit) error {
	tb := newTokenBuffer()
	flush := func() error {
		token := tb.token()
		tb.clear()
		if emit == nil {
			return nil
		}
		return emit(token)
	}
	state := stDelim
	for pos := 0; state != stEnd; pos++ {
		end := pos >= len(text)
		var ch byte
		if !end {
			ch = text[pos]
		}
		switch state {
		case stDelim:
			switch {
			case end:
				state = stEnd
			case ch == '\'':
				state = stSQuote
			case ch == '"':
				state = stDQuote
			case ch == '\\':
				state = stEsc
			case isSpace(ch):
				// skip whitespace
			default:
				if err := tb.accept(ch); err != nil {
					return err
				}
				state = stBare
			}
		case stBare:
			switch {
			case end:
				if err := flush(); err != nil {
					return err
				}
				state = stEnd
			case isSpace(ch):
				if err := flush(); err != nil {
					return err
				}
				state = stDelim
			case ch == '\'':
				state = stSQuote
			case ch == '"':
				state = stDQuote
			case ch == '\\':
				state = stEsc
			default:
				if err := tb.accept(ch); err != nil {
					return err
				}
			}
		case stSQuote:
			switch {
			case end:
				return ErrMissingClosingQuote
			case ch == '\'':
				state = stBare
			default:
				if err := tb.accept(ch); err != nil {
					return err
				}
			}
		case stDQuote:
			switch {
			case end:
				return ErrMissingClosingQuote
			case ch == '"':
				state = stBare
			case ch == '\\':
				state = stQEsc
			default:
				if err := tb.accept(ch); err != nil {
					return err
				}
			}
		case stEsc:
			if end {
				return ErrUnterminatedEscape
			}
			if err := tb.accept(ch); err != nil {
				return err
			}
			state = stBare
		case stQEsc:
			if end {
				return ErrUnterminatedEscape
			}
			if err := tb.accept(ch); err != nil {
				return err
			}
			state = stDQuote
		}
	}
	return nil
}

// initial allocation of a token buffer
const tokenBufferSize = 128

// tokenBuffer accumulates the characters of a single token. The buffer
// is reused across tokens and grows by doubling.
type tokenBuffer struct {
	buf  []byte
	size int
}

func newTokenBuffer() *tokenBuffer {
	return &tokenBuffer{
		buf: make([]byte, tokenBufferSize),
	}
}

// accept a character, growing the buffer if needed. Growth fails if
// the doubled size wraps around.
func (tb *tokenBuffer) accept(ch byte) error {
	if tb.size == len(tb.buf) {
		newSize := 2 * len(tb.buf)
		if newSize <= len(tb.buf) {
			return ErrResourceExhausted
		}
		buf := make([]byte, newSize)
		copy(buf, tb.buf[:tb.size])
		tb.buf = buf
	}
	tb.buf[tb.size] = ch
	tb.size++
	return nil
}

// token returns the accumulated token as an owned string.
func (tb *tokenBuffer) token() string {
	return string(tb.buf[:tb.size])
}

// clear the buffer for the next token.
func (tb *tokenBuffer) clear() {
	tb.size = 0
}
