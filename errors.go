// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jdecode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/creachadair/jdecode/internal/escape"
	"go4.org/mem"
)

// Code classifies the errors reported by a Decoder.
type Code int

// Constants defining the valid Code values.
const (
	CodeCustom Code = iota // an error reported by a visitor
	CodeIO                 // an error from the underlying reader

	// Syntax errors.
	EOFWhileParsingList
	EOFWhileParsingObject
	EOFWhileParsingString
	EOFWhileParsingValue
	ExpectedColon
	ExpectedListCommaOrEnd
	ExpectedObjectCommaOrEnd
	ExpectedSomeIdent
	ExpectedSomeValue
	ExpectedDoubleQuote
	InvalidEscape
	InvalidNumber
	NumberOutOfRange
	InvalidUnicodeCodePoint
	ControlCharacterInString
	KeyMustBeAString
	LoneLeadingSurrogate
	UnexpectedEndOfHexEscape
	TrailingComma
	TrailingCharacters
	RecursionLimitExceeded

	// Data errors.
	CodeInvalidType
	CodeInvalidValue
	CodeInvalidLength
	CodeUnknownVariant
	CodeUnknownField
	CodeMissingField
)

var codeStr = [...]string{
	CodeCustom:               "custom error",
	CodeIO:                   "i/o error",
	EOFWhileParsingList:      "EOF while parsing a list",
	EOFWhileParsingObject:    "EOF while parsing an object",
	EOFWhileParsingString:    "EOF while parsing a string",
	EOFWhileParsingValue:     "EOF while parsing a value",
	ExpectedColon:            "expected `:`",
	ExpectedListCommaOrEnd:   "expected `,` or `]`",
	ExpectedObjectCommaOrEnd: "expected `,` or `}`",
	ExpectedSomeIdent:        "expected ident",
	ExpectedSomeValue:        "expected value",
	ExpectedDoubleQuote:      "expected `\"`",
	InvalidEscape:            "invalid escape",
	InvalidNumber:            "invalid number",
	NumberOutOfRange:         "number out of range",
	InvalidUnicodeCodePoint:  "invalid unicode code point",
	ControlCharacterInString: "control character (\\u0000-\\u001F) found while parsing a string",
	KeyMustBeAString:         "key must be a string",
	LoneLeadingSurrogate:     "lone leading surrogate in hex escape",
	UnexpectedEndOfHexEscape: "unexpected end of hex escape",
	TrailingComma:            "trailing comma",
	TrailingCharacters:       "trailing characters",
	RecursionLimitExceeded:   "recursion limit exceeded",
	CodeInvalidType:          "invalid type",
	CodeInvalidValue:         "invalid value",
	CodeInvalidLength:        "invalid length",
	CodeUnknownVariant:       "unknown variant",
	CodeUnknownField:         "unknown field",
	CodeMissingField:         "missing field",
}

func (c Code) String() string {
	if c < 0 || int(c) >= len(codeStr) {
		return "unknown error"
	}
	return codeStr[c]
}

// Category is a coarse classification of an error Code.
type Category int

// Constants defining the valid Category values.
const (
	CategoryIO     Category = iota // failure to read the input
	CategorySyntax                 // input is not syntactically valid JSON
	CategoryData                   // input is valid JSON but the wrong shape
	CategoryEOF                    // input ended in the middle of a value
)

func (c Category) String() string {
	switch c {
	case CategoryIO:
		return "io"
	case CategorySyntax:
		return "syntax"
	case CategoryData:
		return "data"
	case CategoryEOF:
		return "eof"
	}
	return "unknown"
}

// Error is the concrete type of errors reported by a Decoder.
//
// Errors constructed by visitors (see InvalidType and friends) have no
// location; the decoder fills in the position it observed before invoking
// the visitor. I/O errors never carry a location.
type Error struct {
	Code     Code
	Location LineCol // zero if unknown
	Message  string  // detail text; may be empty for syntax errors

	err error
}

// Error satisfies the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Code.String()
	}
	if e.Code == CodeIO {
		return "i/o error: " + msg
	}
	if e.Location.IsZero() {
		return msg
	}
	return fmt.Sprintf("at %s: %s", e.Location, msg)
}

// Unwrap supports error wrapping.
func (e *Error) Unwrap() error { return e.err }

// Category reports the category of e.
func (e *Error) Category() Category {
	switch e.Code {
	case CodeIO:
		return CategoryIO
	case EOFWhileParsingList, EOFWhileParsingObject, EOFWhileParsingString, EOFWhileParsingValue:
		return CategoryEOF
	case CodeCustom, CodeInvalidType, CodeInvalidValue, CodeInvalidLength,
		CodeUnknownVariant, CodeUnknownField, CodeMissingField:
		return CategoryData
	}
	return CategorySyntax
}

// IsEOF reports whether e was caused by input ending prematurely.
func (e *Error) IsEOF() bool { return e.Category() == CategoryEOF }

func syntaxError(code Code, at LineCol) *Error {
	return &Error{Code: code, Location: at}
}

func ioError(err error) *Error {
	return &Error{Code: CodeIO, Message: err.Error(), err: err}
}

// Errorf constructs a data error with a formatted message. The error has no
// location until the decoder reports it.
func Errorf(msg string, args ...any) error {
	err := fmt.Errorf(msg, args...)
	return &Error{Code: CodeCustom, Message: err.Error(), err: errors.Unwrap(err)}
}

// InvalidType reports that the input held a value of the wrong type.
func InvalidType(got Unexpected, want string) error {
	return &Error{
		Code:    CodeInvalidType,
		Message: fmt.Sprintf("invalid type: %s, expected %s", got, want),
	}
}

// InvalidValue reports that the input held a value of the right type but an
// unacceptable value.
func InvalidValue(got Unexpected, want string) error {
	return &Error{
		Code:    CodeInvalidValue,
		Message: fmt.Sprintf("invalid value: %s, expected %s", got, want),
	}
}

// InvalidLength reports that a sequence or map had the wrong number of
// elements.
func InvalidLength(n int, want string) error {
	return &Error{
		Code:    CodeInvalidLength,
		Message: fmt.Sprintf("invalid length %d, expected %s", n, want),
	}
}

// UnknownVariant reports an enum variant name not among the expected names.
func UnknownVariant(name string, expected ...string) error {
	return &Error{
		Code:    CodeUnknownVariant,
		Message: fmt.Sprintf("unknown variant %s, %s", quoteName(name), oneOf(expected)),
	}
}

// UnknownField reports a struct field name not among the expected names.
func UnknownField(name string, expected ...string) error {
	return &Error{
		Code:    CodeUnknownField,
		Message: fmt.Sprintf("unknown field %s, %s", quoteName(name), oneOf(expected)),
	}
}

// MissingField reports that a required struct field was not present.
func MissingField(name string) error {
	return &Error{Code: CodeMissingField, Message: fmt.Sprintf("missing field %s", quoteName(name))}
}

func quoteName(s string) string { return "`" + s + "`" }

func oneOf(names []string) string {
	switch len(names) {
	case 0:
		return "there are no variants"
	case 1:
		return "expected " + quoteName(names[0])
	case 2:
		return "expected " + quoteName(names[0]) + " or " + quoteName(names[1])
	}
	qs := make([]string, len(names))
	for i, n := range names {
		qs[i] = quoteName(n)
	}
	return "expected one of " + strings.Join(qs, ", ")
}

type unexpectedKind byte

const (
	unexpBool unexpectedKind = iota
	unexpUnsigned
	unexpSigned
	unexpFloat
	unexpStr
	unexpBytes
	unexpUnit
	unexpOption
	unexpSeq
	unexpMap
	unexpEnum
	unexpUnitVariant
	unexpNewtypeVariant
	unexpTupleVariant
	unexpStructVariant
	unexpOther
)

// Unexpected describes a value found in the input, for use in data errors.
type Unexpected struct {
	kind unexpectedKind
	b    bool
	u    uint64
	i    int64
	f    float64
	s    string
}

// Constructors for Unexpected values.
func UnexpectedBool(b bool) Unexpected       { return Unexpected{kind: unexpBool, b: b} }
func UnexpectedUint(u uint64) Unexpected     { return Unexpected{kind: unexpUnsigned, u: u} }
func UnexpectedInt(i int64) Unexpected       { return Unexpected{kind: unexpSigned, i: i} }
func UnexpectedFloat(f float64) Unexpected   { return Unexpected{kind: unexpFloat, f: f} }
func UnexpectedStr(s string) Unexpected      { return Unexpected{kind: unexpStr, s: s} }
func UnexpectedBytes(b []byte) Unexpected    { return Unexpected{kind: unexpBytes, s: string(b)} }
func UnexpectedOther(desc string) Unexpected { return Unexpected{kind: unexpOther, s: desc} }

// Values of Unexpected for the shapes that carry no data.
var (
	UnexpectedUnit           = Unexpected{kind: unexpUnit}
	UnexpectedOption         = Unexpected{kind: unexpOption}
	UnexpectedSeq            = Unexpected{kind: unexpSeq}
	UnexpectedMap            = Unexpected{kind: unexpMap}
	UnexpectedEnum           = Unexpected{kind: unexpEnum}
	UnexpectedUnitVariant    = Unexpected{kind: unexpUnitVariant}
	UnexpectedNewtypeVariant = Unexpected{kind: unexpNewtypeVariant}
	UnexpectedTupleVariant   = Unexpected{kind: unexpTupleVariant}
	UnexpectedStructVariant  = Unexpected{kind: unexpStructVariant}
)

func (u Unexpected) String() string {
	switch u.kind {
	case unexpBool:
		return fmt.Sprintf("boolean `%v`", u.b)
	case unexpUnsigned:
		return fmt.Sprintf("integer `%d`", u.u)
	case unexpSigned:
		return fmt.Sprintf("integer `%d`", u.i)
	case unexpFloat:
		return "floating point `" + formatFloat(u.f) + "`"
	case unexpStr:
		return "string " + string(escape.Quote(mem.S(u.s)))
	case unexpBytes:
		return "byte array"
	case unexpUnit:
		return "null"
	case unexpOption:
		return "option"
	case unexpSeq:
		return "sequence"
	case unexpMap:
		return "map"
	case unexpEnum:
		return "enum"
	case unexpUnitVariant:
		return "unit variant"
	case unexpNewtypeVariant:
		return "newtype variant"
	case unexpTupleVariant:
		return "tuple variant"
	case unexpStructVariant:
		return "struct variant"
	}
	return u.s
}

// formatFloat renders f so that integral values keep a trailing ".0".
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnI") {
		s += ".0"
	}
	return s
}
