// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package value

import (
	"io"
	"math/big"

	"github.com/creachadair/jdecode"
)

// Seed returns a jdecode.Seed that decodes a value of any shape into *p.
func Seed(p *Value) jdecode.Seed {
	return jdecode.SeedFunc(func(d jdecode.Deserializer) error {
		return d.DecodeAny(builder{p: p})
	})
}

// Parse parses a single JSON value from data.
func Parse(data []byte) (Value, error) {
	var v Value
	if err := jdecode.FromSlice(data, Seed(&v)); err != nil {
		return nil, err
	}
	return v, nil
}

// ParseString parses a single JSON value from s.
func ParseString(s string) (Value, error) {
	var v Value
	if err := jdecode.FromString(s, Seed(&v)); err != nil {
		return nil, err
	}
	return v, nil
}

// ParseReader parses a single JSON value from r.
func ParseReader(r io.Reader) (Value, error) {
	var v Value
	if err := jdecode.FromReader(r, Seed(&v)); err != nil {
		return nil, err
	}
	return v, nil
}

// MustParse parses a single JSON value from s, and panics if parsing fails.
func MustParse(s string) Value {
	v, err := ParseString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// ParseAll parses the values from s until the input is exhausted or an
// error occurs. In case of error, any complete values already parsed are
// returned along with the error. ParseAll also reports the offset where
// parsing may resume if more input becomes available.
func ParseAll(s *jdecode.Stream) ([]Value, int, error) {
	var vs []Value
	for v, err := range jdecode.Values(s, Seed) {
		if err != nil {
			return vs, s.ByteOffset(), err
		}
		vs = append(vs, v)
	}
	return vs, s.ByteOffset(), nil
}

// A builder implements the jdecode.Visitor interface to construct values.
type builder struct{ p *Value }

func (builder) Expecting() string { return "any JSON value" }

func (b builder) set(v Value) error { *b.p = v; return nil }

func (b builder) VisitUnit() error                { return b.set(Null) }
func (b builder) VisitNone() error                { return b.set(Null) }
func (b builder) VisitBool(v bool) error          { return b.set(Bool(v)) }
func (b builder) VisitInt64(v int64) error        { return b.set(Int(v)) }
func (b builder) VisitUint64(v uint64) error      { return b.set(Uint(v)) }
func (b builder) VisitFloat64(v float64) error    { return b.set(Float(v)) }
func (b builder) VisitNumber(text string) error   { return b.set(Decimal(text)) }
func (b builder) VisitBigInt(v *big.Int) error    { return b.set(Decimal(v.String())) }
func (b builder) VisitStr(s string) error         { return b.set(String(s)) }
func (b builder) VisitBorrowedStr(s string) error { return b.set(String(s)) }
func (b builder) VisitBytes(v []byte) error       { return b.set(String(v)) }

func (b builder) VisitBorrowedBytes(v []byte) error { return b.set(String(v)) }

func (b builder) VisitSome(d jdecode.Deserializer) error { return Seed(b.p).Decode(d) }

func (b builder) VisitSeq(s jdecode.SeqAccess) error {
	arr := Array{}
	for {
		var elt Value
		if ok, err := s.NextElement(Seed(&elt)); err != nil {
			return err
		} else if !ok {
			return b.set(arr)
		}
		arr = append(arr, elt)
	}
}

func (b builder) VisitMap(m jdecode.MapAccess) error {
	obj := Object{}
	for {
		var key string
		if ok, err := m.NextKey(jdecode.String(&key)); err != nil {
			return err
		} else if !ok {
			return b.set(obj)
		}
		mem := &Member{Key: key}
		if err := m.NextValue(Seed(&mem.Value)); err != nil {
			return err
		}
		obj = append(obj, mem)
	}
}

func (b builder) VisitEnum(jdecode.EnumAccess) error {
	return jdecode.InvalidType(jdecode.UnexpectedEnum, b.Expecting())
}
