// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jdecode

import (
	"fmt"
	"unsafe"
)

type signedInt interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

type unsignedInt interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

type float interface{ ~float32 | ~float64 }

func bitsOf[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero)) * 8
}

// Int returns a Seed that decodes an integer into *p. A number out of the
// range of T is an error.
func Int[T signedInt](p *T) Seed {
	return SeedFunc(func(d Deserializer) error {
		return d.DecodeInt(bitsOf[T](), intVisitor[T]{p: p, BaseVisitor: typeWant[T]()})
	})
}

// Uint returns a Seed that decodes a non-negative integer into *p. A number
// out of the range of T is an error.
func Uint[T unsignedInt](p *T) Seed {
	return SeedFunc(func(d Deserializer) error {
		return d.DecodeUint(bitsOf[T](), uintVisitor[T]{p: p, BaseVisitor: typeWant[T]()})
	})
}

func typeWant[T any]() BaseVisitor {
	var zero T
	return BaseVisitor{Want: fmt.Sprintf("%T", zero)}
}

type intVisitor[T signedInt] struct {
	BaseVisitor
	p *T
}

func (v intVisitor[T]) VisitInt64(n int64) error {
	if int64(T(n)) != n {
		return InvalidValue(UnexpectedInt(n), v.Expecting())
	}
	*v.p = T(n)
	return nil
}

func (v intVisitor[T]) VisitUint64(n uint64) error {
	if T(n) < 0 || uint64(T(n)) != n {
		return InvalidValue(UnexpectedUint(n), v.Expecting())
	}
	*v.p = T(n)
	return nil
}

type uintVisitor[T unsignedInt] struct {
	BaseVisitor
	p *T
}

func (v uintVisitor[T]) VisitUint64(n uint64) error {
	if uint64(T(n)) != n {
		return InvalidValue(UnexpectedUint(n), v.Expecting())
	}
	*v.p = T(n)
	return nil
}

func (v uintVisitor[T]) VisitInt64(n int64) error {
	if n < 0 || uint64(T(n)) != uint64(n) {
		return InvalidValue(UnexpectedInt(n), v.Expecting())
	}
	*v.p = T(n)
	return nil
}

// Float returns a Seed that decodes a number into *p.
func Float[T float](p *T) Seed {
	return SeedFunc(func(d Deserializer) error {
		v := floatVisitor[T]{p: p, BaseVisitor: typeWant[T]()}
		if bitsOf[T]() == 32 {
			return d.DecodeFloat32(v)
		}
		return d.DecodeFloat64(v)
	})
}

type floatVisitor[T float] struct {
	BaseVisitor
	p *T
}

func (v floatVisitor[T]) VisitFloat64(f float64) error { *v.p = T(f); return nil }
func (v floatVisitor[T]) VisitInt64(n int64) error     { *v.p = T(n); return nil }
func (v floatVisitor[T]) VisitUint64(n uint64) error   { *v.p = T(n); return nil }

// Bool returns a Seed that decodes a boolean into *p.
func Bool(p *bool) Seed {
	return SeedFunc(func(d Deserializer) error {
		return d.DecodeBool(boolVisitor{p: p, BaseVisitor: BaseVisitor{Want: "a boolean"}})
	})
}

type boolVisitor struct {
	BaseVisitor
	p *bool
}

func (v boolVisitor) VisitBool(b bool) error { *v.p = b; return nil }

// String returns a Seed that decodes a string into *p.
func String(p *string) Seed {
	return SeedFunc(func(d Deserializer) error {
		return d.DecodeString(stringVisitor{p: p, BaseVisitor: BaseVisitor{Want: "a string"}})
	})
}

type stringVisitor struct {
	BaseVisitor
	p *string
}

func (v stringVisitor) VisitStr(s string) error           { *v.p = s; return nil }
func (v stringVisitor) VisitBorrowedStr(s string) error   { *v.p = s; return nil }
func (v stringVisitor) VisitBorrowedBytes(b []byte) error { return v.VisitBytes(b) }

// Bytes returns a Seed that decodes a string, without requiring valid
// UTF-8, or an array of byte values into *p. The result does not alias the
// input.
func Bytes(p *[]byte) Seed {
	return SeedFunc(func(d Deserializer) error {
		return d.DecodeBytes(bytesVisitor{p: p, BaseVisitor: BaseVisitor{Want: "a byte array"}})
	})
}

type bytesVisitor struct {
	BaseVisitor
	p *[]byte
}

func (v bytesVisitor) VisitBytes(b []byte) error { *v.p = append([]byte{}, b...); return nil }
func (v bytesVisitor) VisitStr(s string) error   { *v.p = []byte(s); return nil }

func (v bytesVisitor) VisitSeq(s SeqAccess) error {
	*v.p = []byte{}
	for {
		var b uint8
		if ok, err := s.NextElement(Uint(&b)); err != nil {
			return err
		} else if !ok {
			return nil
		}
		*v.p = append(*v.p, b)
	}
}

// Slice returns a Seed that decodes an array into *p, decoding each
// element with the seed returned by elem.
func Slice[T any](p *[]T, elem func(*T) Seed) Seed {
	return SeedFunc(func(d Deserializer) error {
		return d.DecodeSeq(sliceVisitor[T]{p: p, elem: elem, BaseVisitor: BaseVisitor{Want: "an array"}})
	})
}

type sliceVisitor[T any] struct {
	BaseVisitor
	p    *[]T
	elem func(*T) Seed
}

func (v sliceVisitor[T]) VisitSeq(s SeqAccess) error {
	out := []T{}
	for {
		var elt T
		ok, err := s.NextElement(v.elem(&elt))
		if err != nil {
			return err
		} else if !ok {
			break
		}
		out = append(out, elt)
	}
	*v.p = out
	return nil
}

// Map returns a Seed that decodes an object into *p, decoding keys and
// values with the seeds returned by key and val. A key seed that asks for
// a number, such as Int, accepts keys whose contents are numbers.
func Map[K comparable, V any](p *map[K]V, key func(*K) Seed, val func(*V) Seed) Seed {
	return SeedFunc(func(d Deserializer) error {
		return d.DecodeMap(mapVisitor[K, V]{p: p, key: key, val: val, BaseVisitor: BaseVisitor{Want: "an object"}})
	})
}

type mapVisitor[K comparable, V any] struct {
	BaseVisitor
	p   *map[K]V
	key func(*K) Seed
	val func(*V) Seed
}

func (v mapVisitor[K, V]) VisitMap(m MapAccess) error {
	out := make(map[K]V)
	for {
		var k K
		ok, err := m.NextKey(v.key(&k))
		if err != nil {
			return err
		} else if !ok {
			break
		}
		var val V
		if err := m.NextValue(v.val(&val)); err != nil {
			return err
		}
		out[k] = val
	}
	*v.p = out
	return nil
}

// Option returns a Seed that sets *p to nil for null, or otherwise to a
// new value decoded with the seed returned by elem.
func Option[T any](p **T, elem func(*T) Seed) Seed {
	return SeedFunc(func(d Deserializer) error {
		return d.DecodeOption(optionVisitor[T]{p: p, elem: elem, BaseVisitor: BaseVisitor{Want: "an optional value"}})
	})
}

type optionVisitor[T any] struct {
	BaseVisitor
	p    **T
	elem func(*T) Seed
}

func (v optionVisitor[T]) VisitNone() error { *v.p = nil; return nil }

func (v optionVisitor[T]) VisitSome(d Deserializer) error {
	elt := new(T)
	if err := v.elem(elt).Decode(d); err != nil {
		return err
	}
	*v.p = elt
	return nil
}

// Ignore is a Seed that skips a value of any shape.
var Ignore Seed = SeedFunc(func(d Deserializer) error { return d.DecodeIgnored(ignoreVisitor{}) })

type ignoreVisitor struct{ BaseVisitor }

func (ignoreVisitor) VisitUnit() error { return nil }

// Raw returns a Seed that stores the exact source text of a value in *p.
// When decoding from a string, the result is a substring of the input.
func Raw(p *string) Seed {
	return SeedFunc(func(d Deserializer) error {
		return d.DecodeRaw(stringVisitor{p: p, BaseVisitor: BaseVisitor{Want: "a value"}})
	})
}
