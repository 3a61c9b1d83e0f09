// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jdecode

import (
	"math/big"

	"go4.org/mem"
)

// seqAccess implements SeqAccess for the elements of an array.
type seqAccess struct {
	d     *Decoder
	first bool
}

// NextElement implements the SeqAccess interface.
func (s *seqAccess) NextElement(seed Seed) (bool, error) {
	d := s.d
	ch, ok, err := d.skipSpace()
	if err != nil {
		return false, err
	} else if !ok {
		return false, d.peekErr(EOFWhileParsingList)
	}

	switch {
	case ch == ']':
		return false, nil
	case ch == ',' && !s.first:
		d.src.Discard()
		ch, ok, err = d.skipSpace()
		if err != nil {
			return false, err
		}
	case s.first:
		s.first = false
	default:
		return false, d.peekErr(ExpectedListCommaOrEnd)
	}

	if !ok {
		return false, d.peekErr(EOFWhileParsingValue)
	} else if ch == ']' {
		return false, d.peekErr(TrailingComma)
	}
	return true, seed.Decode(d)
}

// mapAccess implements MapAccess for the members of an object.
type mapAccess struct {
	d     *Decoder
	first bool
}

// NextKey implements part of the MapAccess interface.
func (m *mapAccess) NextKey(seed Seed) (bool, error) {
	d := m.d
	ch, ok, err := d.skipSpace()
	if err != nil {
		return false, err
	} else if !ok {
		return false, d.peekErr(EOFWhileParsingObject)
	}

	switch {
	case ch == '}':
		return false, nil
	case ch == ',' && !m.first:
		d.src.Discard()
		ch, ok, err = d.skipSpace()
		if err != nil {
			return false, err
		}
	case m.first:
		m.first = false
	default:
		return false, d.peekErr(ExpectedObjectCommaOrEnd)
	}

	switch {
	case !ok:
		return false, d.peekErr(EOFWhileParsingValue)
	case ch == '"':
		return true, seed.Decode(mapKey{d: d})
	case ch == '}':
		return false, d.peekErr(TrailingComma)
	}
	return false, d.peekErr(KeyMustBeAString)
}

// NextValue implements part of the MapAccess interface.
func (m *mapAccess) NextValue(seed Seed) error {
	if err := m.d.parseObjectColon(); err != nil {
		return err
	}
	return seed.Decode(m.d)
}

// parseObjectColon consumes the ":" between the key and value of a member.
func (d *Decoder) parseObjectColon() error {
	ch, ok, err := d.skipSpace()
	if err != nil {
		return err
	} else if !ok {
		return d.peekErr(EOFWhileParsingObject)
	} else if ch != ':' {
		return d.peekErr(ExpectedColon)
	}
	d.src.Discard()
	return nil
}

// variantAccess implements EnumAccess and VariantAccess for an enum written
// as an object whose single key names the variant.
type variantAccess struct{ d *Decoder }

// Variant implements the EnumAccess interface.
func (va *variantAccess) Variant(seed Seed) (VariantAccess, error) {
	if err := seed.Decode(va.d); err != nil {
		return nil, err
	} else if err := va.d.parseObjectColon(); err != nil {
		return nil, err
	}
	return va, nil
}

// UnitVariant implements part of the VariantAccess interface.
// The payload must be null.
func (va *variantAccess) UnitVariant() error {
	return va.d.DecodeUnit(unitVisitor{BaseVisitor{Want: "unit variant"}})
}

// NewtypeVariant implements part of the VariantAccess interface.
func (va *variantAccess) NewtypeVariant(seed Seed) error { return seed.Decode(va.d) }

// TupleVariant implements part of the VariantAccess interface.
func (va *variantAccess) TupleVariant(v Visitor) error { return va.d.DecodeSeq(v) }

// StructVariant implements part of the VariantAccess interface.
func (va *variantAccess) StructVariant(fields []string, v Visitor) error {
	return va.d.DecodeStruct("", fields, v)
}

// unitVisitor accepts only null.
type unitVisitor struct{ BaseVisitor }

func (unitVisitor) VisitUnit() error { return nil }

// unitVariantAccess implements EnumAccess and VariantAccess for an enum
// written as a string naming a variant with no payload.
type unitVariantAccess struct{ d *Decoder }

// Variant implements the EnumAccess interface.
func (ua *unitVariantAccess) Variant(seed Seed) (VariantAccess, error) {
	if err := seed.Decode(ua.d); err != nil {
		return nil, err
	}
	return ua, nil
}

func (ua *unitVariantAccess) UnitVariant() error { return nil }

func (ua *unitVariantAccess) NewtypeVariant(Seed) error {
	return ua.d.fix(InvalidType(UnexpectedUnitVariant, "newtype variant"), ua.d.src.Mark())
}

func (ua *unitVariantAccess) TupleVariant(Visitor) error {
	return ua.d.fix(InvalidType(UnexpectedUnitVariant, "tuple variant"), ua.d.src.Mark())
}

func (ua *unitVariantAccess) StructVariant([]string, Visitor) error {
	return ua.d.fix(InvalidType(UnexpectedUnitVariant, "struct variant"), ua.d.src.Mark())
}

// mapKey is the Deserializer for the key of an object member. Keys are
// always strings, but a key whose contents are a number or a bool is
// reported as such when the seed asks for one. Otherwise, the key is
// reported as a string, which typically results in an invalid type error.
type mapKey struct{ d *Decoder }

// parseKey consumes the key string, whose opening quotation mark is next.
func (k mapKey) parseKey() (Ref, error) {
	k.d.src.Discard()
	k.d.scratch = k.d.scratch[:0]
	return k.d.src.ParseStr(&k.d.scratch)
}

// visitKey parses the key and reports it to visit, or to v as a string if
// visit does not accept it.
func (k mapKey) visitKey(v Visitor, visit func(mem.RO) (bool, error)) error {
	ref, err := k.parseKey()
	if err != nil {
		return err
	}
	at := k.d.src.Mark()
	if ok, err := visit(ref.RO()); ok {
		return k.d.fix(err, at)
	}
	return k.d.fix(visitStr(v, ref), at)
}

func (k mapKey) DecodeAny(v Visitor) error {
	return k.visitKey(v, func(mem.RO) (bool, error) { return false, nil })
}

func (k mapKey) DecodeBool(v Visitor) error {
	return k.visitKey(v, func(key mem.RO) (bool, error) {
		switch {
		case key.EqualString("true"):
			return true, v.VisitBool(true)
		case key.EqualString("false"):
			return true, v.VisitBool(false)
		}
		return false, nil
	})
}

func (k mapKey) DecodeInt(bits int, v Visitor) error {
	return k.visitKey(v, func(key mem.RO) (bool, error) {
		n, err := mem.ParseInt(key, 10, bits)
		if err != nil {
			return false, nil
		}
		return true, v.VisitInt64(n)
	})
}

func (k mapKey) DecodeUint(bits int, v Visitor) error {
	return k.visitKey(v, func(key mem.RO) (bool, error) {
		n, err := mem.ParseUint(key, 10, bits)
		if err != nil {
			return false, nil
		}
		return true, v.VisitUint64(n)
	})
}

func (k mapKey) DecodeInt128(v Visitor) error {
	return k.visitKey(v, func(key mem.RO) (bool, error) {
		n, ok := new(big.Int).SetString(key.StringCopy(), 10)
		if !ok || n.Cmp(minInt128) < 0 || n.Cmp(maxInt128) > 0 {
			return false, nil
		}
		return true, visitBigInt(v, n)
	})
}

func (k mapKey) DecodeUint128(v Visitor) error {
	return k.visitKey(v, func(key mem.RO) (bool, error) {
		n, ok := new(big.Int).SetString(key.StringCopy(), 10)
		if !ok || n.Sign() < 0 || n.Cmp(maxUint128) > 0 {
			return false, nil
		}
		return true, visitBigInt(v, n)
	})
}

func (k mapKey) DecodeFloat32(v Visitor) error { return k.decodeFloat(32, v) }
func (k mapKey) DecodeFloat64(v Visitor) error { return k.decodeFloat(64, v) }

func (k mapKey) decodeFloat(bits int, v Visitor) error {
	return k.visitKey(v, func(key mem.RO) (bool, error) {
		f, err := mem.ParseFloat(key, bits)
		if err != nil {
			return false, nil
		}
		return true, v.VisitFloat64(f)
	})
}

func (k mapKey) DecodeString(v Visitor) error { return k.DecodeAny(v) }

func (k mapKey) DecodeBytes(v Visitor) error { return k.d.DecodeBytes(v) }

// DecodeOption reports a key as present, since a key cannot be null.
func (k mapKey) DecodeOption(v Visitor) error {
	at := k.d.src.Mark()
	return k.d.fix(v.VisitSome(k), at)
}

func (k mapKey) DecodeUnit(v Visitor) error { return k.DecodeAny(v) }
func (k mapKey) DecodeSeq(v Visitor) error  { return k.DecodeAny(v) }
func (k mapKey) DecodeMap(v Visitor) error  { return k.DecodeAny(v) }

func (k mapKey) DecodeStruct(_ string, _ []string, v Visitor) error { return k.DecodeAny(v) }

func (k mapKey) DecodeEnum(name string, variants []string, v Visitor) error {
	return k.d.DecodeEnum(name, variants, v)
}

func (k mapKey) DecodeIgnored(v Visitor) error { return k.d.DecodeIgnored(v) }

func (k mapKey) DecodeRaw(v Visitor) error { return k.d.DecodeRaw(v) }
