// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jdecode

import (
	"errors"
	"io"
)

// DefaultRecursionLimit is the default maximum nesting depth of arrays,
// objects, and enums accepted by a Decoder.
const DefaultRecursionLimit = 128

// A Decoder decodes JSON values from a Source. It implements the
// Deserializer interface. A Decoder is not safe for concurrent use.
type Decoder struct {
	src     Source
	scratch []byte // reused for strings, long numbers, and skip frames

	remaining int  // recursion budget
	unbounded bool // disable the recursion budget
	single    bool // decoding a float32
	roundTrip bool // exact float conversion
	arbitrary bool // preserve numbers beyond 64 bits as text
}

// NewDecoder constructs a Decoder that consumes input from src.
func NewDecoder(src Source) *Decoder {
	return &Decoder{src: src, remaining: DefaultRecursionLimit}
}

// RoundTripFloats configures d to convert floating-point numbers exactly
// (true), so that formatting the result with the shortest representation
// gives back the same number, or to use a faster approximation (false).
func (d *Decoder) RoundTripFloats(ok bool) { d.roundTrip = ok }

// ArbitraryPrecision configures d to report numbers that do not fit in a
// 64-bit integer as decimal text (true). See NumberVisitor. In this mode,
// DecodeAny never reports a float.
func (d *Decoder) ArbitraryPrecision(ok bool) { d.arbitrary = ok }

// DisableRecursionLimit configures d to accept arrays and objects nested to
// any depth. Very deeply nested input may exhaust the stack.
func (d *Decoder) DisableRecursionLimit() { d.unbounded = true }

// ByteOffset reports the number of bytes of input consumed by d.
func (d *Decoder) ByteOffset() int { return d.src.ByteOffset() }

// Decode decodes one value from the input with seed.
func (d *Decoder) Decode(seed Seed) error { return seed.Decode(d) }

// End reports an error if any input other than whitespace remains.
func (d *Decoder) End() error {
	if _, ok, err := d.skipSpace(); err != nil {
		return err
	} else if ok {
		return d.peekErr(TrailingCharacters)
	}
	return nil
}

// FromSlice decodes one value from data with seed. It is an error if any
// input other than whitespace follows the value.
func FromSlice(data []byte, seed Seed) error { return decodeOne(NewSliceSource(data), seed) }

// FromString decodes one value from s with seed. Strings without escapes
// are reported to a BorrowedVisitor as substrings of s.
func FromString(s string, seed Seed) error { return decodeOne(NewStringSource(s), seed) }

// FromReader decodes one value from r with seed, and requires that r
// contains nothing else but whitespace.
func FromReader(r io.Reader, seed Seed) error { return decodeOne(NewReaderSource(r), seed) }

func decodeOne(src Source, seed Seed) error {
	d := NewDecoder(src)
	if err := seed.Decode(d); err != nil {
		return err
	}
	return d.End()
}

// skipSpace consumes whitespace and reports the next byte, if any.
func (d *Decoder) skipSpace() (byte, bool, error) {
	for {
		ch, ok, err := d.src.Peek()
		if err != nil || !ok {
			return 0, false, err
		}
		switch ch {
		case ' ', '\t', '\n', '\r':
			d.src.Discard()
		default:
			return ch, true, nil
		}
	}
}

// peekOrNull reports the next byte, or 0 at the end of input.
func (d *Decoder) peekOrNull() (byte, error) {
	ch, _, err := d.src.Peek()
	return ch, err
}

// errAt reports an error at the most recently consumed byte.
func (d *Decoder) errAt(code Code) error { return syntaxError(code, d.src.Position()) }

// peekErr reports an error at the next unconsumed byte.
func (d *Decoder) peekErr(code Code) error { return syntaxError(code, d.src.PeekPosition()) }

// parseIdent consumes the rest of a keyword whose first byte was consumed.
func (d *Decoder) parseIdent(rest string) error {
	for i := 0; i < len(rest); i++ {
		ch, ok, err := d.src.Next()
		if err != nil {
			return err
		} else if !ok {
			return d.errAt(EOFWhileParsingValue)
		} else if ch != rest[i] {
			return d.errAt(ExpectedSomeIdent)
		}
	}
	return nil
}

// fix gives a location to an error reported without one, using the
// position at marked before the call that reported it.
func (d *Decoder) fix(err error, at Mark) error {
	if err == nil {
		return nil
	} else if e, ok := err.(*Error); ok {
		if e.Code == CodeIO || !e.Location.IsZero() {
			return e
		}
		c := *e
		c.Location = d.src.Locate(at)
		return &c
	}

	code := CodeCustom
	var e *Error
	if errors.As(err, &e) {
		if e.Code == CodeIO || !e.Location.IsZero() {
			return err
		}
		code = e.Code
	}
	return &Error{Code: code, Location: d.src.Locate(at), Message: err.Error(), err: err}
}

// nested consumes the opening byte of an array, object, or enum and runs
// body, within the recursion budget.
func (d *Decoder) nested(body func() error) error {
	if !d.unbounded {
		if d.remaining == 0 {
			return d.peekErr(RecursionLimitExceeded)
		}
		d.remaining--
		defer func() { d.remaining++ }()
	}
	d.src.Discard()
	return body()
}

// peekInvalidType consumes the next value, which has a shape v does not
// accept, and reports an invalid type error describing it.
func (d *Decoder) peekInvalidType(v Visitor) error {
	ch, ok, err := d.skipSpace()
	if err != nil {
		return err
	} else if !ok {
		return d.peekErr(EOFWhileParsingValue)
	}

	var got Unexpected
	switch {
	case ch == 'n':
		d.src.Discard()
		if err := d.parseIdent("ull"); err != nil {
			return err
		}
		got = UnexpectedUnit
	case ch == 't':
		d.src.Discard()
		if err := d.parseIdent("rue"); err != nil {
			return err
		}
		got = UnexpectedBool(true)
	case ch == 'f':
		d.src.Discard()
		if err := d.parseIdent("alse"); err != nil {
			return err
		}
		got = UnexpectedBool(false)
	case ch == '-' || isDigit(ch):
		if ch == '-' {
			d.src.Discard()
		}
		n, err := d.parseAnyNumber(ch == '-')
		if err != nil {
			return err
		}
		got = n.unexpected()
	case ch == '"':
		d.src.Discard()
		d.scratch = d.scratch[:0]
		ref, err := d.src.ParseStr(&d.scratch)
		if err != nil {
			return err
		}
		got = UnexpectedStr(ref.String())
	case ch == '[':
		got = UnexpectedSeq
	case ch == '{':
		got = UnexpectedMap
	default:
		return d.peekErr(ExpectedSomeValue)
	}
	return d.fix(InvalidType(got, v.Expecting()), d.src.Mark())
}

// visitStr reports a string to v, borrowed if possible.
func visitStr(v Visitor, ref Ref) error {
	if ref.kind == refString {
		if bv, ok := v.(BorrowedVisitor); ok {
			return bv.VisitBorrowedStr(ref.s)
		}
	}
	return v.VisitStr(ref.String())
}

// visitBytes reports a byte string to v, borrowed if possible.
func visitBytes(v Visitor, ref Ref) error {
	if ref.kind == refBytes {
		if bv, ok := v.(BorrowedVisitor); ok {
			return bv.VisitBorrowedBytes(ref.b)
		}
	}
	return v.VisitBytes(ref.Bytes())
}

// DecodeAny implements part of the Deserializer interface.
func (d *Decoder) DecodeAny(v Visitor) error {
	ch, ok, err := d.skipSpace()
	if err != nil {
		return err
	} else if !ok {
		return d.peekErr(EOFWhileParsingValue)
	}

	switch {
	case ch == 'n':
		d.src.Discard()
		if err := d.parseIdent("ull"); err != nil {
			return err
		}
		return d.fix(v.VisitUnit(), d.src.Mark())
	case ch == 't':
		d.src.Discard()
		if err := d.parseIdent("rue"); err != nil {
			return err
		}
		return d.fix(v.VisitBool(true), d.src.Mark())
	case ch == 'f':
		d.src.Discard()
		if err := d.parseIdent("alse"); err != nil {
			return err
		}
		return d.fix(v.VisitBool(false), d.src.Mark())
	case ch == '-' || isDigit(ch):
		if ch == '-' {
			d.src.Discard()
		}
		n, err := d.parseAnyNumber(ch == '-')
		if err != nil {
			return err
		}
		return d.fix(n.visit(v), d.src.Mark())
	case ch == '"':
		d.src.Discard()
		d.scratch = d.scratch[:0]
		ref, err := d.src.ParseStr(&d.scratch)
		if err != nil {
			return err
		}
		return d.fix(visitStr(v, ref), d.src.Mark())
	case ch == '[':
		return d.visitSeq(v)
	case ch == '{':
		return d.visitMap(v)
	}
	return d.peekErr(ExpectedSomeValue)
}

// visitSeq decodes an array whose "[" is the next byte.
func (d *Decoder) visitSeq(v Visitor) error {
	if err := d.nested(func() error {
		at := d.src.Mark()
		return d.fix(v.VisitSeq(&seqAccess{d: d, first: true}), at)
	}); err != nil {
		return err
	}
	return d.endSeq()
}

// visitMap decodes an object whose "{" is the next byte.
func (d *Decoder) visitMap(v Visitor) error {
	if err := d.nested(func() error {
		at := d.src.Mark()
		return d.fix(v.VisitMap(&mapAccess{d: d, first: true}), at)
	}); err != nil {
		return err
	}
	return d.endMap()
}

// endSeq consumes the "]" that ends an array, after the visitor is done
// with its elements.
func (d *Decoder) endSeq() error {
	ch, ok, err := d.skipSpace()
	if err != nil {
		return err
	} else if !ok {
		return d.peekErr(EOFWhileParsingList)
	}
	switch ch {
	case ']':
		d.src.Discard()
		return nil
	case ',':
		d.src.Discard()
		if ch, ok, err := d.skipSpace(); err == nil && ok && ch == ']' {
			return d.peekErr(TrailingComma)
		}
	}
	return d.peekErr(TrailingCharacters)
}

// endMap consumes the "}" that ends an object, after the visitor is done
// with its members.
func (d *Decoder) endMap() error {
	ch, ok, err := d.skipSpace()
	if err != nil {
		return err
	} else if !ok {
		return d.peekErr(EOFWhileParsingObject)
	}
	switch ch {
	case '}':
		d.src.Discard()
		return nil
	case ',':
		return d.peekErr(TrailingComma)
	}
	return d.peekErr(TrailingCharacters)
}

// DecodeBool implements part of the Deserializer interface.
func (d *Decoder) DecodeBool(v Visitor) error {
	ch, ok, err := d.skipSpace()
	if err != nil {
		return err
	} else if !ok {
		return d.peekErr(EOFWhileParsingValue)
	}
	switch ch {
	case 't':
		d.src.Discard()
		if err := d.parseIdent("rue"); err != nil {
			return err
		}
		return d.fix(v.VisitBool(true), d.src.Mark())
	case 'f':
		d.src.Discard()
		if err := d.parseIdent("alse"); err != nil {
			return err
		}
		return d.fix(v.VisitBool(false), d.src.Mark())
	}
	return d.peekInvalidType(v)
}

// DecodeInt implements part of the Deserializer interface.
func (d *Decoder) DecodeInt(bits int, v Visitor) error { return d.decodeInteger(bits, true, v) }

// DecodeUint implements part of the Deserializer interface.
func (d *Decoder) DecodeUint(bits int, v Visitor) error { return d.decodeInteger(bits, false, v) }

// DecodeInt128 implements part of the Deserializer interface.
func (d *Decoder) DecodeInt128(v Visitor) error { return d.decodeInteger128(true, v) }

// DecodeUint128 implements part of the Deserializer interface.
func (d *Decoder) DecodeUint128(v Visitor) error { return d.decodeInteger128(false, v) }

// DecodeFloat32 implements part of the Deserializer interface. With exact
// conversion enabled, the number is rounded directly to float32 precision.
func (d *Decoder) DecodeFloat32(v Visitor) error {
	d.single = true
	defer func() { d.single = false }()
	return d.decodeNumber(v)
}

// DecodeFloat64 implements part of the Deserializer interface.
func (d *Decoder) DecodeFloat64(v Visitor) error { return d.decodeNumber(v) }

func (d *Decoder) decodeNumber(v Visitor) error {
	ch, ok, err := d.skipSpace()
	if err != nil {
		return err
	} else if !ok {
		return d.peekErr(EOFWhileParsingValue)
	} else if ch != '-' && !isDigit(ch) {
		return d.peekInvalidType(v)
	}
	if ch == '-' {
		d.src.Discard()
	}
	n, err := d.parseInteger(ch == '-')
	if err != nil {
		return err
	}
	return d.fix(n.visit(v), d.src.Mark())
}

// DecodeString implements part of the Deserializer interface.
func (d *Decoder) DecodeString(v Visitor) error {
	ch, ok, err := d.skipSpace()
	if err != nil {
		return err
	} else if !ok {
		return d.peekErr(EOFWhileParsingValue)
	} else if ch != '"' {
		return d.peekInvalidType(v)
	}
	d.src.Discard()
	d.scratch = d.scratch[:0]
	ref, err := d.src.ParseStr(&d.scratch)
	if err != nil {
		return err
	}
	return d.fix(visitStr(v, ref), d.src.Mark())
}

// DecodeBytes implements part of the Deserializer interface. A string is
// unescaped without requiring valid UTF-8, and an unpaired surrogate
// escape is encoded as if it were an ordinary code point.
func (d *Decoder) DecodeBytes(v Visitor) error {
	ch, ok, err := d.skipSpace()
	if err != nil {
		return err
	} else if !ok {
		return d.peekErr(EOFWhileParsingValue)
	}
	switch ch {
	case '"':
		d.src.Discard()
		d.scratch = d.scratch[:0]
		ref, err := d.src.ParseStrRaw(&d.scratch)
		if err != nil {
			return err
		}
		return d.fix(visitBytes(v, ref), d.src.Mark())
	case '[':
		return d.visitSeq(v)
	}
	return d.peekInvalidType(v)
}

// DecodeOption implements part of the Deserializer interface.
func (d *Decoder) DecodeOption(v Visitor) error {
	ch, ok, err := d.skipSpace()
	if err != nil {
		return err
	} else if ok && ch == 'n' {
		d.src.Discard()
		if err := d.parseIdent("ull"); err != nil {
			return err
		}
		return d.fix(v.VisitNone(), d.src.Mark())
	}
	at := d.src.Mark()
	return d.fix(v.VisitSome(d), at)
}

// DecodeUnit implements part of the Deserializer interface.
func (d *Decoder) DecodeUnit(v Visitor) error {
	ch, ok, err := d.skipSpace()
	if err != nil {
		return err
	} else if !ok {
		return d.peekErr(EOFWhileParsingValue)
	} else if ch != 'n' {
		return d.peekInvalidType(v)
	}
	d.src.Discard()
	if err := d.parseIdent("ull"); err != nil {
		return err
	}
	return d.fix(v.VisitUnit(), d.src.Mark())
}

// DecodeSeq implements part of the Deserializer interface.
func (d *Decoder) DecodeSeq(v Visitor) error {
	ch, ok, err := d.skipSpace()
	if err != nil {
		return err
	} else if !ok {
		return d.peekErr(EOFWhileParsingValue)
	} else if ch != '[' {
		return d.peekInvalidType(v)
	}
	return d.visitSeq(v)
}

// DecodeMap implements part of the Deserializer interface.
func (d *Decoder) DecodeMap(v Visitor) error {
	ch, ok, err := d.skipSpace()
	if err != nil {
		return err
	} else if !ok {
		return d.peekErr(EOFWhileParsingValue)
	} else if ch != '{' {
		return d.peekInvalidType(v)
	}
	return d.visitMap(v)
}

// DecodeStruct implements part of the Deserializer interface.
func (d *Decoder) DecodeStruct(name string, fields []string, v Visitor) error {
	ch, ok, err := d.skipSpace()
	if err != nil {
		return err
	} else if !ok {
		return d.peekErr(EOFWhileParsingValue)
	}
	switch ch {
	case '[':
		return d.visitSeq(v)
	case '{':
		return d.visitMap(v)
	}
	return d.peekInvalidType(v)
}

// DecodeEnum implements part of the Deserializer interface.
func (d *Decoder) DecodeEnum(name string, variants []string, v Visitor) error {
	ch, ok, err := d.skipSpace()
	if err != nil {
		return err
	} else if !ok {
		return d.peekErr(EOFWhileParsingValue)
	}

	switch ch {
	case '{':
		if err := d.nested(func() error {
			at := d.src.Mark()
			return d.fix(v.VisitEnum(&variantAccess{d: d}), at)
		}); err != nil {
			return err
		}
		ch, ok, err := d.skipSpace()
		if err != nil {
			return err
		} else if !ok {
			return d.errAt(EOFWhileParsingObject)
		} else if ch != '}' {
			return d.errAt(ExpectedSomeValue)
		}
		d.src.Discard()
		return nil

	case '"':
		at := d.src.Mark()
		return d.fix(v.VisitEnum(&unitVariantAccess{d: d}), at)
	}
	return d.peekErr(ExpectedSomeValue)
}
