// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jdecode

import (
	"errors"
	"io"

	"github.com/creachadair/jdecode/internal/escape"
	"go4.org/mem"
)

// memRead is a Source over an in-memory input, either a byte slice or a
// string. String literals without escapes are borrowed from the input.
type memRead struct {
	data  mem.RO
	b     []byte // set for a slice input
	s     string // set for a string input
	isStr bool

	index int // offset of the next unconsumed byte
	raw   int // start offset of raw capture
}

// NewSliceSource returns a Source that reads from data. Strings without
// escapes are borrowed from data rather than copied.
func NewSliceSource(data []byte) Source { return &memRead{data: mem.B(data), b: data} }

// NewStringSource returns a Source that reads from s. Strings without
// escapes are delivered as substrings of s rather than copied.
func NewStringSource(s string) Source { return &memRead{data: mem.S(s), s: s, isStr: true} }

func (r *memRead) Peek() (byte, bool, error) {
	if r.index < r.data.Len() {
		return r.data.At(r.index), true, nil
	}
	return 0, false, nil
}

func (r *memRead) Next() (byte, bool, error) {
	if r.index < r.data.Len() {
		ch := r.data.At(r.index)
		r.index++
		return ch, true, nil
	}
	return 0, false, nil
}

func (r *memRead) Discard() { r.index++ }

func (r *memRead) Position() LineCol { return r.positionOf(r.index) }

func (r *memRead) PeekPosition() LineCol {
	return r.positionOf(min(r.index+1, r.data.Len()))
}

// positionOf reports the line and column of the byte preceding offset i.
// This is only needed to report errors, so it rescans the input.
func (r *memRead) positionOf(i int) LineCol {
	pos := LineCol{Line: 1}
	start := 0
	for {
		j := mem.IndexByte(r.data.Slice(start, i), '\n')
		if j < 0 {
			break
		}
		pos.Line++
		start += j + 1
	}
	pos.Column = i - start
	return pos
}

func (r *memRead) Mark() Mark { return Mark{Offset: r.index} }

func (r *memRead) Locate(m Mark) LineCol { return r.positionOf(m.Offset) }

func (r *memRead) ByteOffset() int { return r.index }

func (r *memRead) StickyErrors() bool { return false }

func (r *memRead) BeginRaw() { r.raw = r.index }

func (r *memRead) EndRaw() Ref { return r.borrow(r.raw, r.index) }

func (r *memRead) borrow(start, end int) Ref {
	if r.isStr {
		return borrowStr(r.s[start:end])
	}
	return borrowBytes(r.b[start:end])
}

func (r *memRead) ParseStr(scratch *[]byte) (Ref, error) { return r.parseStr(scratch, false) }

func (r *memRead) ParseStrRaw(scratch *[]byte) (Ref, error) { return r.parseStr(scratch, true) }

func (r *memRead) parseStr(scratch *[]byte, raw bool) (Ref, error) {
	start, end, copied, err := r.scanStr(scratch, raw)
	if err != nil {
		return Ref{}, err
	}
	ref := scratchRef(*scratch)
	if !copied {
		ref = r.borrow(start, end)
	}
	if !raw && !mem.ValidUTF8(ref.RO()) {
		return Ref{}, syntaxError(InvalidUnicodeCodePoint, r.Position())
	}
	return ref, nil
}

// scanStr scans a string body through its closing quotation mark. If the
// body contains no escapes, it reports the offsets of the body in the input.
// Otherwise it reports copied == true and the decoded body is in *scratch.
func (r *memRead) scanStr(scratch *[]byte, raw bool) (start, end int, copied bool, err error) {
	start = r.index
	for {
		i := r.index
		for i < r.data.Len() && !isSpecial[r.data.At(i)] {
			i++
		}
		r.index = i
		if i == r.data.Len() {
			return 0, 0, false, syntaxError(EOFWhileParsingString, r.Position())
		}

		switch r.data.At(i) {
		case '"':
			r.index++
			if !copied {
				return start, i, false, nil
			}
			*scratch = mem.Append(*scratch, r.data.Slice(start, i))
			return 0, 0, true, nil

		case '\\':
			*scratch = mem.Append(*scratch, r.data.Slice(start, i))
			copied = true
			r.index++
			*scratch, err = escape.Decode(r, *scratch, raw)
			if err != nil {
				return 0, 0, false, escapeError(err, r.Position())
			}
			start = r.index

		default:
			r.index++
			return 0, 0, false, syntaxError(ControlCharacterInString, r.Position())
		}
	}
}

func (r *memRead) IgnoreStr() error {
	var buf [8]byte
	for {
		i := r.index
		for i < r.data.Len() && !isSpecial[r.data.At(i)] {
			i++
		}
		r.index = i
		if i == r.data.Len() {
			return syntaxError(EOFWhileParsingString, r.Position())
		}
		r.index++
		switch r.data.At(i) {
		case '"':
			return nil
		case '\\':
			// Whether a lone surrogate is acceptable depends on how the string
			// would have been decoded, so check escapes only for syntax.
			if _, err := escape.Decode(r, buf[:0], true); err != nil {
				return escapeError(err, r.Position())
			}
		default:
			return syntaxError(ControlCharacterInString, r.Position())
		}
	}
}

// ReadByte and PeekByte implement escape.Reader.
func (r *memRead) ReadByte() (byte, error) {
	if ch, ok, _ := r.Next(); ok {
		return ch, nil
	}
	return 0, io.EOF
}

func (r *memRead) PeekByte() (byte, error) {
	if ch, ok, _ := r.Peek(); ok {
		return ch, nil
	}
	return 0, io.EOF
}

// isSpecial marks the bytes that end a run of ordinary string contents.
var isSpecial [256]bool

func init() {
	for i := 0; i < ' '; i++ {
		isSpecial[i] = true
	}
	isSpecial['"'] = true
	isSpecial['\\'] = true
}

// escapeError converts an error from escape.Decode into an *Error.
func escapeError(err error, at LineCol) *Error {
	var code Code
	switch {
	case errors.Is(err, escape.ErrEOF):
		code = EOFWhileParsingString
	case errors.Is(err, escape.ErrInvalidEscape):
		code = InvalidEscape
	case errors.Is(err, escape.ErrLoneSurrogate):
		code = LoneLeadingSurrogate
	case errors.Is(err, escape.ErrUnexpectedEnd):
		code = UnexpectedEndOfHexEscape
	default:
		var e *Error
		if errors.As(err, &e) {
			return e
		}
		return ioError(err)
	}
	return syntaxError(code, at)
}
