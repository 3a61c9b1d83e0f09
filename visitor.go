// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jdecode

import "math/big"

// A Visitor receives the values found in the input. A Deserializer calls
// exactly one method of a Visitor for each value it decodes, chosen by the
// shape of the value found. If a method reports an error, decoding stops and
// that error is returned to the caller.
//
// Most visitors accept only a few shapes; embed a BaseVisitor to reject the
// rest with a descriptive error.
type Visitor interface {
	// Expecting describes what the visitor expects to find, for use in error
	// messages, for example "a string" or "an array of integers".
	Expecting() string

	// Scalar values.
	VisitUnit() error
	VisitBool(bool) error
	VisitInt64(int64) error
	VisitUint64(uint64) error
	VisitFloat64(float64) error

	// VisitStr reports the contents of a string literal.
	VisitStr(string) error

	// VisitBytes reports the contents of a string literal decoded in byte
	// mode. The slice is only valid for the duration of the call.
	VisitBytes([]byte) error

	// VisitNone and VisitSome report the absence or presence of an optional
	// value. VisitSome must decode the value from d.
	VisitNone() error
	VisitSome(d Deserializer) error

	// Compound values. The accessor is only valid for the duration of the
	// call, and the visitor must not retain it.
	VisitSeq(SeqAccess) error
	VisitMap(MapAccess) error
	VisitEnum(EnumAccess) error
}

// BorrowedVisitor is an optional interface that a Visitor may implement to
// receive strings that are views of the caller's input, so that they may be
// retained without copying. Borrowed strings are only available when the
// input is a string, and borrowed bytes when the input is a byte slice.
// Otherwise, or if a visitor does not implement this interface, the decoder
// calls VisitStr or VisitBytes instead.
type BorrowedVisitor interface {
	VisitBorrowedStr(string) error
	VisitBorrowedBytes([]byte) error
}

// NumberVisitor is an optional interface that a Visitor may implement to
// receive numbers as decimal text. With arbitrary precision enabled, numbers
// that do not fit a 64-bit integer are reported to VisitNumber.
type NumberVisitor interface {
	VisitNumber(text string) error
}

// BigIntVisitor is an optional interface that a Visitor may implement to
// receive the values decoded by DecodeInt128 and DecodeUint128. If a visitor
// does not implement this interface, values that fit 64 bits are reported to
// VisitInt64 or VisitUint64.
type BigIntVisitor interface {
	VisitBigInt(*big.Int) error
}

// BaseVisitor implements every method of Visitor by reporting an invalid
// type error. Embed it in a visitor to handle only the shapes of interest.
type BaseVisitor struct {
	Want string // what the visitor expects, for error messages
}

func (b BaseVisitor) Expecting() string {
	if b.Want == "" {
		return "a value"
	}
	return b.Want
}

func (b BaseVisitor) fail(got Unexpected) error { return InvalidType(got, b.Expecting()) }

func (b BaseVisitor) VisitUnit() error             { return b.fail(UnexpectedUnit) }
func (b BaseVisitor) VisitBool(v bool) error       { return b.fail(UnexpectedBool(v)) }
func (b BaseVisitor) VisitInt64(v int64) error     { return b.fail(UnexpectedInt(v)) }
func (b BaseVisitor) VisitUint64(v uint64) error   { return b.fail(UnexpectedUint(v)) }
func (b BaseVisitor) VisitFloat64(v float64) error { return b.fail(UnexpectedFloat(v)) }
func (b BaseVisitor) VisitStr(v string) error      { return b.fail(UnexpectedStr(v)) }
func (b BaseVisitor) VisitBytes(v []byte) error    { return b.fail(UnexpectedBytes(v)) }
func (b BaseVisitor) VisitNone() error             { return b.fail(UnexpectedOption) }
func (b BaseVisitor) VisitSome(Deserializer) error { return b.fail(UnexpectedOption) }
func (b BaseVisitor) VisitSeq(SeqAccess) error     { return b.fail(UnexpectedSeq) }
func (b BaseVisitor) VisitMap(MapAccess) error     { return b.fail(UnexpectedMap) }
func (b BaseVisitor) VisitEnum(EnumAccess) error   { return b.fail(UnexpectedEnum) }

// A Seed is a value that knows how to decode itself from a Deserializer.
// Typically a seed holds a pointer to the location where the result should
// be stored, and calls one method of the Deserializer with a visitor that
// fills it in.
type Seed interface {
	Decode(d Deserializer) error
}

// SeedFunc adapts a function to the Seed interface.
type SeedFunc func(Deserializer) error

// Decode implements the Seed interface by calling f(d).
func (f SeedFunc) Decode(d Deserializer) error { return f(d) }

// A Deserializer decodes a single value from its input and reports it to a
// Visitor. Each method states what the caller expects to find; the input
// determines which method of the visitor is called. A method reports an
// invalid type error if the input has a shape the method does not accept.
type Deserializer interface {
	// DecodeAny decodes a value of any shape.
	DecodeAny(v Visitor) error

	DecodeBool(v Visitor) error

	// DecodeInt and DecodeUint decode an integer that must fit in a signed
	// or unsigned integer of the given width in bits. A number with a
	// fraction or exponent is reported as a float.
	DecodeInt(bits int, v Visitor) error
	DecodeUint(bits int, v Visitor) error

	// DecodeInt128 and DecodeUint128 decode a 128-bit integer.
	// See BigIntVisitor.
	DecodeInt128(v Visitor) error
	DecodeUint128(v Visitor) error

	DecodeFloat32(v Visitor) error
	DecodeFloat64(v Visitor) error
	DecodeString(v Visitor) error

	// DecodeBytes decodes a string without requiring it to be valid UTF-8,
	// or an array of bytes.
	DecodeBytes(v Visitor) error

	// DecodeOption calls VisitNone for null, otherwise VisitSome.
	DecodeOption(v Visitor) error

	DecodeUnit(v Visitor) error
	DecodeSeq(v Visitor) error
	DecodeMap(v Visitor) error

	// DecodeStruct decodes a struct with the given field names, represented
	// either as an object or as an array of field values.
	DecodeStruct(name string, fields []string, v Visitor) error

	// DecodeEnum decodes one of the given variants, represented either as a
	// string naming a unit variant or as an object with a single member
	// whose key names the variant and whose value is its payload.
	DecodeEnum(name string, variants []string, v Visitor) error

	// DecodeIgnored skips a value of any shape and calls VisitUnit.
	DecodeIgnored(v Visitor) error

	// DecodeRaw skips a value of any shape and reports its exact source
	// text to VisitStr, or VisitBorrowedStr when the text is borrowed.
	DecodeRaw(v Visitor) error
}

// SeqAccess gives a visitor access to the elements of an array.
type SeqAccess interface {
	// NextElement decodes the next element with seed. It reports false
	// without error when no elements remain.
	NextElement(seed Seed) (bool, error)
}

// MapAccess gives a visitor access to the members of an object.
type MapAccess interface {
	// NextKey decodes the key of the next member with seed. It reports false
	// without error when no members remain. Keys are strings; the key
	// deserializer additionally parses numeric and boolean keys when the
	// seed asks for a number or a bool.
	NextKey(seed Seed) (bool, error)

	// NextValue decodes the value of the member whose key was most recently
	// decoded by NextKey.
	NextValue(seed Seed) error
}

// EnumAccess gives a visitor access to the variant of an enum.
type EnumAccess interface {
	// Variant decodes the variant name with seed, and returns an accessor
	// for its payload.
	Variant(seed Seed) (VariantAccess, error)
}

// VariantAccess gives a visitor access to the payload of an enum variant.
// Exactly one method must be called.
type VariantAccess interface {
	// UnitVariant requires that the variant has no payload.
	UnitVariant() error

	// NewtypeVariant decodes the payload with seed.
	NewtypeVariant(seed Seed) error

	// TupleVariant decodes the payload as a sequence.
	TupleVariant(v Visitor) error

	// StructVariant decodes the payload as a struct with the given fields.
	StructVariant(fields []string, v Visitor) error
}
