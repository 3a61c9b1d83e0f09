// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package value defines a generic tree of JSON values, and a visitor that
// constructs trees from JSON source.
package value

import (
	"strconv"
	"strings"

	"github.com/creachadair/jdecode"
)

// A Value is an arbitrary JSON value.
type Value interface {
	// JSON returns the compact JSON encoding of the value.
	JSON() string
}

// An Object is a collection of key-value members.
type Object []*Member

// Find returns the first member of o with the given key, or nil.
func (o Object) Find(key string) *Member {
	for _, m := range o {
		if m.Key == key {
			return m
		}
	}
	return nil
}

// JSON satisfies the Value interface.
func (o Object) JSON() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(m.JSON())
	}
	sb.WriteByte('}')
	return sb.String()
}

// A Member is a single key-value pair belonging to an Object.
type Member struct {
	Key   string
	Value Value
}

// Field constructs an object member with the given key and value.
func Field(key string, v Value) *Member { return &Member{Key: key, Value: v} }

// JSON renders the member as "key":value.
func (m *Member) JSON() string { return jdecode.Quote(m.Key) + ":" + m.Value.JSON() }

// An Array is a sequence of values.
type Array []Value

// JSON satisfies the Value interface.
func (a Array) JSON() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range a {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(v.JSON())
	}
	sb.WriteByte(']')
	return sb.String()
}

// A String is a string value.
type String string

// JSON satisfies the Value interface.
func (s String) JSON() string { return jdecode.Quote(string(s)) }

// A Bool is a Boolean constant, true or false.
type Bool bool

// JSON satisfies the Value interface.
func (b Bool) JSON() string { return strconv.FormatBool(bool(b)) }

// An Int is a negative integer, or any integer constructed by a caller.
type Int int64

// JSON satisfies the Value interface.
func (z Int) JSON() string { return strconv.FormatInt(int64(z), 10) }

// A Uint is a non-negative integer.
type Uint uint64

// JSON satisfies the Value interface.
func (z Uint) JSON() string { return strconv.FormatUint(uint64(z), 10) }

// A Float is a floating-point number.
type Float float64

// JSON satisfies the Value interface. Integral values keep a ".0" suffix,
// so that the encoding decodes to a float again.
func (f Float) JSON() string {
	s := strconv.FormatFloat(float64(f), 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// A Decimal is a number preserved as its decimal text, produced when a
// decoder with arbitrary precision finds a number that does not fit in a
// 64-bit integer.
type Decimal string

// JSON satisfies the Value interface.
func (d Decimal) JSON() string { return string(d) }

type null struct{}

func (null) JSON() string { return "null" }

// Null is the null constant.
var Null Value = null{}

// Interface converts v into the representation used by encoding/json when
// decoding into an any: objects become map[string]any, arrays []any, and
// all numbers float64. A Decimal becomes its text as a string.
func Interface(v Value) any {
	switch t := v.(type) {
	case Object:
		m := make(map[string]any, len(t))
		for _, mem := range t {
			m[mem.Key] = Interface(mem.Value)
		}
		return m
	case Array:
		a := make([]any, len(t))
		for i, elt := range t {
			a[i] = Interface(elt)
		}
		return a
	case String:
		return string(t)
	case Bool:
		return bool(t)
	case Int:
		return float64(t)
	case Uint:
		return float64(t)
	case Float:
		return float64(t)
	case Decimal:
		return string(t)
	}
	return nil
}
