// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jdecode

import (
	"bufio"
	"io"

	"github.com/creachadair/jdecode/internal/escape"
	"go4.org/mem"
)

// ioRead is a Source that consumes input from an io.Reader. Strings are
// always copied, since the reader cannot lend views of its input.
type ioRead struct {
	r *bufio.Reader

	// Apparent line and column of the last-consumed byte.
	line, col int
	offset    int // bytes consumed

	raw   []byte // captured input, if capturing
	inRaw bool
}

// NewReaderSource returns a Source that consumes input from r.
// If r is a *bufio.Reader it is used directly, otherwise r is buffered.
func NewReaderSource(r io.Reader) Source {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &ioRead{r: br, line: 1}
}

func (r *ioRead) Peek() (byte, bool, error) {
	buf, err := r.r.Peek(1)
	if len(buf) == 1 {
		return buf[0], true, nil
	} else if err == io.EOF {
		return 0, false, nil
	}
	return 0, false, ioError(err)
}

func (r *ioRead) Next() (byte, bool, error) {
	ch, err := r.r.ReadByte()
	if err == io.EOF {
		return 0, false, nil
	} else if err != nil {
		return 0, false, ioError(err)
	}
	r.advance(ch)
	return ch, true, nil
}

func (r *ioRead) Discard() {
	if ch, err := r.r.ReadByte(); err == nil {
		r.advance(ch)
	}
}

func (r *ioRead) advance(ch byte) {
	r.offset++
	if ch == '\n' {
		r.line++
		r.col = 0
	} else {
		r.col++
	}
	if r.inRaw {
		r.raw = append(r.raw, ch)
	}
}

func (r *ioRead) Position() LineCol { return LineCol{Line: r.line, Column: r.col} }

func (r *ioRead) PeekPosition() LineCol {
	if _, ok, _ := r.Peek(); ok {
		return LineCol{Line: r.line, Column: r.col + 1}
	}
	return r.Position()
}

func (r *ioRead) Mark() Mark { return Mark{Offset: r.offset, At: r.Position()} }

func (r *ioRead) Locate(m Mark) LineCol { return m.At }

func (r *ioRead) ByteOffset() int { return r.offset }

func (r *ioRead) StickyErrors() bool { return true }

func (r *ioRead) BeginRaw() {
	r.raw = r.raw[:0]
	r.inRaw = true
}

func (r *ioRead) EndRaw() Ref {
	r.inRaw = false
	return scratchRef(r.raw)
}

func (r *ioRead) ParseStr(scratch *[]byte) (Ref, error) { return r.parseStr(scratch, false) }

func (r *ioRead) ParseStrRaw(scratch *[]byte) (Ref, error) { return r.parseStr(scratch, true) }

func (r *ioRead) parseStr(scratch *[]byte, raw bool) (Ref, error) {
	for {
		ch, ok, err := r.Next()
		if err != nil {
			return Ref{}, err
		} else if !ok {
			return Ref{}, syntaxError(EOFWhileParsingString, r.Position())
		}

		switch {
		case ch == '"':
			if !raw && !mem.ValidUTF8(mem.B(*scratch)) {
				return Ref{}, syntaxError(InvalidUnicodeCodePoint, r.Position())
			}
			return scratchRef(*scratch), nil
		case ch == '\\':
			*scratch, err = escape.Decode(r, *scratch, raw)
			if err != nil {
				return Ref{}, escapeError(err, r.Position())
			}
		case ch < ' ':
			return Ref{}, syntaxError(ControlCharacterInString, r.Position())
		default:
			*scratch = append(*scratch, ch)
		}
	}
}

func (r *ioRead) IgnoreStr() error {
	var buf [8]byte
	for {
		ch, ok, err := r.Next()
		if err != nil {
			return err
		} else if !ok {
			return syntaxError(EOFWhileParsingString, r.Position())
		}

		switch {
		case ch == '"':
			return nil
		case ch == '\\':
			if _, err := escape.Decode(r, buf[:0], true); err != nil {
				return escapeError(err, r.Position())
			}
		case ch < ' ':
			return syntaxError(ControlCharacterInString, r.Position())
		}
	}
}

// ReadByte and PeekByte implement escape.Reader.
func (r *ioRead) ReadByte() (byte, error) {
	ch, err := r.r.ReadByte()
	if err != nil {
		return 0, err
	}
	r.advance(ch)
	return ch, nil
}

func (r *ioRead) PeekByte() (byte, error) {
	buf, err := r.r.Peek(1)
	if len(buf) == 1 {
		return buf[0], nil
	}
	return 0, err
}
