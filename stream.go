// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jdecode

import (
	"io"
	"iter"
)

// Stream decodes a sequence of JSON values from a single input, such as a
// log of concatenated JSON documents. Values may be separated by whitespace,
// and a value that is an array, object, or string needs no separator.
type Stream struct {
	d      *Decoder
	offset int  // end of the last value decoded
	failed bool // an error left the source unusable
}

// NewStream constructs a Stream that decodes values from d.
func NewStream(d *Decoder) *Stream { return &Stream{d: d} }

// StreamSlice constructs a Stream that decodes values from data.
func StreamSlice(data []byte) *Stream { return NewStream(NewDecoder(NewSliceSource(data))) }

// StreamString constructs a Stream that decodes values from s.
func StreamString(s string) *Stream { return NewStream(NewDecoder(NewStringSource(s))) }

// StreamReader constructs a Stream that decodes values from r.
func StreamReader(r io.Reader) *Stream { return NewStream(NewDecoder(NewReaderSource(r))) }

// Decoder returns the decoder underlying s, for configuration.
func (s *Stream) Decoder() *Decoder { return s.d }

// ByteOffset reports the offset of the end of the most recently decoded
// value. If the input ends with a partial value, ByteOffset reports where
// that value begins, so decoding may resume from there once the rest of the
// input is available.
func (s *Stream) ByteOffset() int { return s.offset }

// Next decodes the next value from the input with seed. It returns io.EOF
// when no values remain. After a failure reading from an io.Reader, Next
// always returns io.EOF.
//
// A number or keyword must be followed by whitespace, a delimiter, or the
// end of input, otherwise Next reports a TrailingCharacters error.
func (s *Stream) Next(seed Seed) error {
	if s.failed {
		return io.EOF
	}
	ch, ok, err := s.d.skipSpace()
	if err != nil {
		s.fail()
		return err
	} else if !ok {
		s.offset = s.d.ByteOffset()
		return io.EOF
	}

	delimited := ch == '[' || ch == '{' || ch == '"'
	s.offset = s.d.ByteOffset()
	if err := seed.Decode(s.d); err != nil {
		s.fail()
		return err
	}
	s.offset = s.d.ByteOffset()
	if delimited {
		return nil
	}
	return s.peekEndOfValue()
}

func (s *Stream) fail() {
	if s.d.src.StickyErrors() {
		s.failed = true
	}
}

// peekEndOfValue reports an error unless the next byte can end a number or
// a keyword.
func (s *Stream) peekEndOfValue() error {
	ch, ok, err := s.d.src.Peek()
	if err != nil || !ok {
		return err
	}
	switch ch {
	case ' ', '\n', '\t', '\r', '"', '[', ']', '{', '}', ',', ':':
		return nil
	}
	return s.d.peekErr(TrailingCharacters)
}

// Values returns an iterator over the values decoded from s, each decoded
// with the seed returned by newSeed for a pointer to the value. Iteration
// stops at the end of input, or after reporting the first error.
func Values[T any](s *Stream, newSeed func(*T) Seed) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			var v T
			err := s.Next(newSeed(&v))
			if err == io.EOF {
				return
			} else if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}
