// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jdecode implements a visitor-driven JSON decoder.
//
// # Decoding
//
// A Decoder reads JSON text from a Source and reports each value it finds to
// a Visitor. The caller says what it expects by choosing a method of the
// Deserializer interface, and the input decides which method of the visitor
// is called:
//
//	var n int32
//	if err := jdecode.FromString(`12`, jdecode.Int(&n)); err != nil {
//	   log.Fatalf("Decode failed: %v", err)
//	}
//
// A Seed describes a value to be decoded. The package provides seeds for
// common Go types (Int, Uint, Float, Bool, String, Bytes, Slice, Map, Option,
// Ignore, Raw); other types implement Seed with a Visitor of their own.
// Embed a BaseVisitor to reject the shapes a visitor does not handle.
//
// Arrays, objects, and enums are reported to the visitor with an accessor
// (SeqAccess, MapAccess, EnumAccess) that decodes their contents one element
// at a time. The accessor is only valid during the call that receives it.
//
// The grammar accepted is JSON as defined by RFC 8259: no comments, trailing
// commas, unquoted keys, or non-finite numbers.
//
// # Numbers
//
// Integers are reported as uint64 if non-negative, or int64 if negative;
// other numbers, including integers that overflow 64 bits, are reported as
// float64. By default floats are computed with a fast approximation; call
// RoundTripFloats to convert exactly. Call ArbitraryPrecision to report
// numbers that do not fit a 64-bit integer as decimal text instead.
//
// DecodeInt and DecodeUint require an integer that fits the requested width,
// and DecodeInt128 and DecodeUint128 decode 128-bit integers.
//
// # Nesting
//
// By default a Decoder accepts arrays, objects, and enums nested up to
// DefaultRecursionLimit levels deep. Call DisableRecursionLimit to remove
// the limit.
//
// # Streaming
//
// A Stream decodes a sequence of values from one input, such as a log of
// concatenated JSON documents:
//
//	s := jdecode.StreamString(input)
//	for {
//	   var v value.Value
//	   if err := s.Next(value.Seed(&v)); err == io.EOF {
//	      break
//	   } else if err != nil {
//	      log.Fatalf("Next failed: %v", err)
//	   }
//	   log.Printf("Value ending at %d: %v", s.ByteOffset(), v)
//	}
//
// # Errors
//
// Errors reported by a Decoder have concrete type *Error. Syntax errors
// carry the line and column where they were found. Errors reported by a
// visitor without a location are given the location of the value the
// visitor was examining.
package jdecode
