// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting and unquoting of JSON strings.
package escape

import (
	"errors"
	"io"
	"unicode/utf8"

	"go4.org/mem"
)

// Errors reported by Decode. Errors from the underlying Reader other than
// io.EOF are returned unmodified.
var (
	ErrEOF           = errors.New("EOF in escape sequence")
	ErrInvalidEscape = errors.New("invalid escape")
	ErrLoneSurrogate = errors.New("lone leading surrogate in hex escape")
	ErrUnexpectedEnd = errors.New("unexpected end of hex escape")
)

// A Reader is a source of bytes that can look one byte ahead.
// Both methods report io.EOF at the end of input.
type Reader interface {
	ReadByte() (byte, error)
	PeekByte() (byte, error)
}

// Decode decodes a single escape sequence from r and appends its decoded
// form to dst. The leading backslash must already have been consumed.
//
// If raw is false, \u escapes must describe valid Unicode scalar values, so
// UTF-16 surrogates must appear in leading/trailing pairs. If raw is true,
// an unpaired surrogate is accepted and appended using the same three-byte
// encoding UTF-8 would use if surrogates were permitted.
func Decode(r Reader, dst []byte, raw bool) ([]byte, error) {
	ch, err := readByte(r)
	if err != nil {
		return dst, err
	}
	switch ch {
	case '"', '\\', '/':
		return append(dst, ch), nil
	case 'b':
		return append(dst, '\b'), nil
	case 'f':
		return append(dst, '\f'), nil
	case 'n':
		return append(dst, '\n'), nil
	case 'r':
		return append(dst, '\r'), nil
	case 't':
		return append(dst, '\t'), nil
	case 'u':
		return decodeUnicode(r, dst, raw)
	default:
		return dst, ErrInvalidEscape
	}
}

func decodeUnicode(r Reader, dst []byte, raw bool) ([]byte, error) {
	n, err := readHex4(r)
	if err != nil {
		return dst, err
	}
	if !raw && isTrailing(n) {
		return dst, ErrLoneSurrogate
	}
	for {
		if !isLeading(n) {
			return appendWTF8(dst, n), nil
		}

		// n is a leading surrogate; a trailing surrogate must follow.
		lead := n
		if ch, err := peekByte(r); err != nil {
			return dst, err
		} else if ch != '\\' {
			if raw {
				return appendWTF8(dst, lead), nil
			}
			r.ReadByte()
			return dst, ErrUnexpectedEnd
		}
		r.ReadByte() // the backslash

		if ch, err := peekByte(r); err != nil {
			return dst, err
		} else if ch != 'u' {
			if raw {
				// The backslash began some other escape, which cannot itself
				// be a surrogate, so this does not recur more than once.
				return Decode(r, appendWTF8(dst, lead), raw)
			}
			r.ReadByte()
			return dst, ErrUnexpectedEnd
		}
		r.ReadByte() // the u

		trail, err := readHex4(r)
		if err != nil {
			return dst, err
		}
		if !isTrailing(trail) {
			if !raw {
				return dst, ErrLoneSurrogate
			}
			dst = appendWTF8(dst, lead)
			n = trail // may be another leading surrogate
			continue
		}
		cp := (rune(lead-0xD800)<<10 | rune(trail-0xDC00)) + 0x10000
		return utf8.AppendRune(dst, cp), nil
	}
}

func isLeading(n uint16) bool  { return n >= 0xD800 && n <= 0xDBFF }
func isTrailing(n uint16) bool { return n >= 0xDC00 && n <= 0xDFFF }

// appendWTF8 appends the UTF-8 style encoding of a BMP code unit, including
// surrogates, which utf8.AppendRune would replace.
func appendWTF8(dst []byte, n uint16) []byte {
	switch {
	case n < 0x80:
		return append(dst, byte(n))
	case n < 0x800:
		return append(dst, 0xC0|byte(n>>6), 0x80|byte(n&0x3F))
	default:
		return append(dst, 0xE0|byte(n>>12), 0x80|byte(n>>6&0x3F), 0x80|byte(n&0x3F))
	}
}

func readByte(r Reader) (byte, error) {
	ch, err := r.ReadByte()
	if err == io.EOF {
		return 0, ErrEOF
	}
	return ch, err
}

func peekByte(r Reader) (byte, error) {
	ch, err := r.PeekByte()
	if err == io.EOF {
		return 0, ErrEOF
	}
	return ch, err
}

// readHex4 reads exactly 4 hexadecimal digits from r.
func readHex4(r Reader) (uint16, error) {
	var v uint16
	for i := 0; i < 4; i++ {
		ch, err := readByte(r)
		if err != nil {
			return 0, err
		}
		d, ok := hexValue(ch)
		if !ok {
			return 0, ErrInvalidEscape
		}
		v = v<<4 | uint16(d)
	}
	return v, nil
}

func hexValue(b byte) (byte, bool) {
	switch {
	case '0' <= b && b <= '9':
		return b - '0', true
	case 'a' <= b && b <= 'f':
		return b - 'a' + 10, true
	case 'A' <= b && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}

// Unquote decodes a byte slice containing the JSON encoding of a string. The
// input must have the enclosing double quotation marks already removed.
//
// Escape sequences are replaced with their unescaped equivalents. Unquote
// reports an error for an invalid or incomplete escape sequence, and for an
// unpaired UTF-16 surrogate.
func Unquote(src mem.RO) ([]byte, error) {
	dec := make([]byte, 0, src.Len())
	r := &roReader{src: src}
	for {
		i := mem.IndexByte(r.src, '\\')
		if i < 0 {
			return mem.Append(dec, r.src), nil
		}
		dec = mem.Append(dec, r.src.SliceTo(i))
		r.src = r.src.SliceFrom(i + 1)

		var err error
		dec, err = Decode(r, dec, false)
		if err != nil {
			return nil, err
		}
	}
}

// roReader implements Reader over a read-only view.
type roReader struct{ src mem.RO }

func (r *roReader) ReadByte() (byte, error) {
	if r.src.Len() == 0 {
		return 0, io.EOF
	}
	b := r.src.At(0)
	r.src = r.src.SliceFrom(1)
	return b, nil
}

func (r *roReader) PeekByte() (byte, error) {
	if r.src.Len() == 0 {
		return 0, io.EOF
	}
	return r.src.At(0), nil
}
