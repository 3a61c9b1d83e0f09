package jdecode

import "fmt"

// A LineCol describes the line number and column offset of a location in
// source text.
type LineCol struct {
	Line   int // line number, 1-based
	Column int // byte offset of column in line, 1-based
}

// IsZero reports whether lc is the zero location, meaning no position is
// known.
func (lc LineCol) IsZero() bool { return lc.Line == 0 }

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Column) }
