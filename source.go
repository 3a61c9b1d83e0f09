// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jdecode

import "go4.org/mem"

// A Source is a cursor over the bytes of a JSON input. A Decoder reads its
// input exclusively through a Source.
//
// A Source never skips whitespace on its own; the decoder does that before
// classifying each token. Errors reported by a Source are of concrete type
// *Error.
type Source interface {
	// Peek reports the next byte of input without consuming it.
	// At the end of input, Peek returns false.
	Peek() (byte, bool, error)

	// Next consumes and returns the next byte of input.
	// At the end of input, Next returns false.
	Next() (byte, bool, error)

	// Discard consumes the byte most recently reported by Peek.
	Discard()

	// Position reports the location of the most recently consumed byte.
	Position() LineCol

	// PeekPosition reports the location of the next unconsumed byte.
	PeekPosition() LineCol

	// Mark records the current position cheaply. Locate reports the
	// location Position would have reported when the mark was taken.
	Mark() Mark
	Locate(m Mark) LineCol

	// ByteOffset reports the number of bytes consumed so far.
	ByteOffset() int

	// ParseStr scans the body of a string literal whose opening quotation
	// mark has already been consumed, through its closing quotation mark.
	// The contents must be valid UTF-8. If the contents must be unescaped,
	// they are decoded into *scratch.
	ParseStr(scratch *[]byte) (Ref, error)

	// ParseStrRaw is as ParseStr, but does not require the contents to be
	// valid UTF-8, and permits unpaired surrogates in \u escapes.
	ParseStrRaw(scratch *[]byte) (Ref, error)

	// IgnoreStr consumes the body of a string literal without decoding it.
	IgnoreStr() error

	// BeginRaw starts recording the input bytes consumed by the Source.
	// EndRaw stops recording and returns the bytes consumed since BeginRaw.
	BeginRaw()
	EndRaw() Ref

	// StickyErrors reports whether an error leaves the Source unusable, so
	// that a Stream must not continue reading from it after a failure.
	StickyErrors() bool
}

// A Mark records a position in the input without computing its line and
// column, which are only needed when an error is reported.
type Mark struct {
	Offset int     // bytes consumed
	At     LineCol // for sources that track lines as they read
}

type refKind byte

const (
	refScratch refKind = iota // view of the decoder's scratch buffer
	refBytes                  // view of the caller's byte slice
	refString                 // substring of the caller's string
)

// A Ref is the text of a string literal or raw value scanned by a Source.
// It is either a view borrowed from the original input, or a view of a
// scratch buffer that is only valid until the next read from the Source.
type Ref struct {
	kind refKind
	b    []byte
	s    string
}

func scratchRef(b []byte) Ref  { return Ref{kind: refScratch, b: b} }
func borrowBytes(b []byte) Ref { return Ref{kind: refBytes, b: b} }
func borrowStr(s string) Ref   { return Ref{kind: refString, s: s} }

// Borrowed reports whether r is a view of the original input.
func (r Ref) Borrowed() bool { return r.kind != refScratch }

// Len reports the length of r in bytes.
func (r Ref) Len() int {
	if r.kind == refString {
		return len(r.s)
	}
	return len(r.b)
}

// RO returns a read-only view of the contents of r.
func (r Ref) RO() mem.RO {
	if r.kind == refString {
		return mem.S(r.s)
	}
	return mem.B(r.b)
}

// String returns the contents of r as a string. It does not copy when r is
// borrowed from a string input.
func (r Ref) String() string {
	if r.kind == refString {
		return r.s
	}
	return string(r.b)
}

// Bytes returns the contents of r as a byte slice. The slice aliases the
// input or scratch buffer unless r was borrowed from a string.
func (r Ref) Bytes() []byte {
	if r.kind == refString {
		return []byte(r.s)
	}
	return r.b
}
