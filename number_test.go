// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jdecode_test

import (
	"math"
	"strconv"
	"testing"

	"github.com/creachadair/jdecode"
)

func TestNumbers(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"0", "u64:0"},
		{"15", "u64:15"},
		{"18446744073709551615", "u64:18446744073709551615"},
		{"18446744073709551616", "f64:1.8446744073709552e+19"},
		{"-1", "i64:-1"},
		{"-9223372036854775808", "i64:-9223372036854775808"},
		{"-9223372036854775809", "f64:-9.223372036854776e+18"},
		{"-0", "f64:-0"},
		{"-0.0", "f64:-0"},
		{"0.0", "f64:0"},
		{"1.5", "f64:1.5"},
		{"-2.25", "f64:-2.25"},
		{"1e3", "f64:1000"},
		{"1E-2", "f64:0.01"},
		{"2.5e+2", "f64:250"},
		{"1e-400", "f64:0"},
		{"0e99999999999", "f64:0"},
		{"1e-99999999999", "f64:0"},
		{"-1e-99999999999", "f64:-0"},
	}
	for _, tc := range tests {
		var got string
		if err := jdecode.FromString(tc.input, record(&got)); err != nil {
			t.Errorf("Decode %q: unexpected error: %v", tc.input, err)
		} else if got != tc.want {
			t.Errorf("Decode %q: got %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestNumberErrors(t *testing.T) {
	tests := []struct {
		input string
		code  jdecode.Code
		loc   string
	}{
		{"-", jdecode.EOFWhileParsingValue, "1:1"},
		{"-a", jdecode.InvalidNumber, "1:2"},
		{"01", jdecode.InvalidNumber, "1:2"},
		{"-01", jdecode.InvalidNumber, "1:3"},
		{"1.", jdecode.EOFWhileParsingValue, "1:2"},
		{"1.x", jdecode.InvalidNumber, "1:3"},
		{"1e", jdecode.EOFWhileParsingValue, "1:2"},
		{"1e+", jdecode.EOFWhileParsingValue, "1:3"},
		{"1ex", jdecode.InvalidNumber, "1:3"},
		{"1e400", jdecode.NumberOutOfRange, "1:5"},
		{"1e99999999999", jdecode.NumberOutOfRange, "1:12"},
		{"-1e99999999999", jdecode.NumberOutOfRange, "1:13"},
		{"123456789012345678901234567890e300", jdecode.NumberOutOfRange, "1:34"},
	}
	for _, tc := range tests {
		var got string
		err := jdecode.FromString(tc.input, record(&got))
		if code, ok := errCode(err); !ok || code != tc.code {
			t.Errorf("Decode %q: got error %v, want %v", tc.input, err, tc.code)
		} else if loc := errLoc(err); loc != tc.loc {
			t.Errorf("Decode %q: error at %s, want %s", tc.input, loc, tc.loc)
		}
	}
}

// Inputs whose conversion is exact in both modes, followed by inputs that
// are exact only with round-trip conversion.
var (
	exactFloats = []string{
		"0.5", "-2.25", "123.456", "1e22", "9007199254740991", "0.001", "3.25e-5",
	}
	roundTripFloats = []string{
		"0.1",
		"3.141592653589793238462643383279",
		"1.7976931348623157e308",
		"4.9e-324",
		"2.2250738585072011e-308",
		"123456789012345678901234567890",
		"123456789012345678901234567890.5e-10",
		"0.000000000000000000000000000000000001234567890123456789012345",
		"9007199254740993",
		"1e23",
		"8.5e-3",
		"-7.2057594037927933e16",
	}
)

func TestFloats(t *testing.T) {
	check := func(t *testing.T, input string, roundTrip bool) {
		t.Helper()
		want, err := strconv.ParseFloat(input, 64)
		if err != nil {
			t.Fatalf("ParseFloat %q: %v", input, err)
		}
		var got float64
		if err := decodeWith(input, func(d *jdecode.Decoder) {
			d.RoundTripFloats(roundTrip)
		}, jdecode.Float(&got).Decode); err != nil {
			t.Errorf("Decode %q: unexpected error: %v", input, err)
		} else if got != want {
			t.Errorf("Decode %q: got %v, want %v", input, got, want)
		}
	}

	t.Run("Default", func(t *testing.T) {
		for _, input := range exactFloats {
			check(t, input, false)
		}
	})
	t.Run("RoundTrip", func(t *testing.T) {
		for _, input := range append(exactFloats, roundTripFloats...) {
			check(t, input, true)
		}
	})
	t.Run("Float32", func(t *testing.T) {
		for _, input := range []string{"0.1", "1.5", "3.4028234663852886e38", "1e-45"} {
			want, err := strconv.ParseFloat(input, 32)
			if err != nil {
				t.Fatalf("ParseFloat %q: %v", input, err)
			}
			var got float32
			if err := decodeWith(input, func(d *jdecode.Decoder) {
				d.RoundTripFloats(true)
			}, jdecode.Float(&got).Decode); err != nil {
				t.Errorf("Decode %q: unexpected error: %v", input, err)
			} else if got != float32(want) {
				t.Errorf("Decode %q: got %v, want %v", input, got, float32(want))
			}
		}
	})
	t.Run("OutOfRange", func(t *testing.T) {
		var got float64
		err := decodeWith("1e400", func(d *jdecode.Decoder) {
			d.RoundTripFloats(true)
		}, jdecode.Float(&got).Decode)
		if code, ok := errCode(err); !ok || code != jdecode.NumberOutOfRange {
			t.Errorf("Decode: got error %v, want %v", err, jdecode.NumberOutOfRange)
		}
	})
	t.Run("NegativeZero", func(t *testing.T) {
		var got float64
		if err := jdecode.FromString("-0", jdecode.Float(&got)); err != nil {
			t.Fatalf("Decode: unexpected error: %v", err)
		}
		if got != 0 || !math.Signbit(got) {
			t.Errorf("Decode: got %v, want negative zero", got)
		}
	})
}

func TestArbitraryPrecision(t *testing.T) {
	arbitrary := func(d *jdecode.Decoder) { d.ArbitraryPrecision(true) }
	tests := []struct {
		input, want string
	}{
		{"12", "u64:12"},
		{"-12", "i64:-12"},
		{"-0", "i64:0"},
		{"18446744073709551615", "u64:18446744073709551615"},
		{"18446744073709551616", "num:18446744073709551616"},
		{"-9223372036854775809", "num:-9223372036854775809"},
		{"1.5", "num:1.5"},
		{"-1e5", "num:-1e5"},
		{"0.25E-7", "num:0.25E-7"},
		{"123456789012345678901234567890.000001", "num:123456789012345678901234567890.000001"},
	}
	for _, tc := range tests {
		var got string
		if err := decodeWith(tc.input, arbitrary, func(d jdecode.Deserializer) error {
			return d.DecodeAny(numRecorder{recorder{&got}})
		}); err != nil {
			t.Errorf("Decode %q: unexpected error: %v", tc.input, err)
		} else if got != tc.want {
			t.Errorf("Decode %q: got %q, want %q", tc.input, got, tc.want)
		}
	}

	t.Run("NoNumberVisitor", func(t *testing.T) {
		var got string
		err := decodeWith("1.5", arbitrary, record(&got).Decode)
		if code, ok := errCode(err); !ok || code != jdecode.CodeInvalidType {
			t.Errorf("Decode: got error %v, want %v", err, jdecode.CodeInvalidType)
		}
	})
	t.Run("Errors", func(t *testing.T) {
		for _, input := range []string{"01", "1.", "1e", "-", "--1"} {
			var got string
			err := decodeWith(input, arbitrary, func(d jdecode.Deserializer) error {
				return d.DecodeAny(numRecorder{recorder{&got}})
			})
			if err == nil {
				t.Errorf("Decode %q: got %q, want error", input, got)
			}
		}
	})
}

func TestTypedIntegers(t *testing.T) {
	t.Run("Int8", func(t *testing.T) {
		for _, tc := range []struct {
			input string
			want  int8
		}{{"0", 0}, {"127", 127}, {"-128", -128}, {" -5 ", -5}} {
			var got int8
			if err := jdecode.FromString(tc.input, jdecode.Int(&got)); err != nil {
				t.Errorf("Decode %q: unexpected error: %v", tc.input, err)
			} else if got != tc.want {
				t.Errorf("Decode %q: got %d, want %d", tc.input, got, tc.want)
			}
		}
	})
	t.Run("Uint64", func(t *testing.T) {
		for _, tc := range []struct {
			input string
			want  uint64
		}{{"0", 0}, {"-0", 0}, {"18446744073709551615", math.MaxUint64}} {
			var got uint64
			if err := jdecode.FromString(tc.input, jdecode.Uint(&got)); err != nil {
				t.Errorf("Decode %q: unexpected error: %v", tc.input, err)
			} else if got != tc.want {
				t.Errorf("Decode %q: got %d, want %d", tc.input, got, tc.want)
			}
		}
	})
	t.Run("Errors", func(t *testing.T) {
		var i8 int8
		var i64 int64
		var u8 uint8
		var u64 uint64
		tests := []struct {
			input string
			seed  jdecode.Seed
			code  jdecode.Code
		}{
			{"128", jdecode.Int(&i8), jdecode.NumberOutOfRange},
			{"-129", jdecode.Int(&i8), jdecode.NumberOutOfRange},
			{"9223372036854775808", jdecode.Int(&i64), jdecode.NumberOutOfRange},
			{"256", jdecode.Uint(&u8), jdecode.NumberOutOfRange},
			{"-1", jdecode.Uint(&u64), jdecode.NumberOutOfRange},
			{"18446744073709551616", jdecode.Uint(&u64), jdecode.NumberOutOfRange},
			{"1.5", jdecode.Int(&i64), jdecode.CodeInvalidType},
			{"1e2", jdecode.Uint(&u64), jdecode.CodeInvalidType},
			{`"12"`, jdecode.Int(&i64), jdecode.CodeInvalidType},
			{"true", jdecode.Uint(&u8), jdecode.CodeInvalidType},
			{"[1]", jdecode.Int(&i8), jdecode.CodeInvalidType},
			{"", jdecode.Int(&i8), jdecode.EOFWhileParsingValue},
			{"01", jdecode.Int(&i8), jdecode.InvalidNumber},
		}
		for _, tc := range tests {
			err := jdecode.FromString(tc.input, tc.seed)
			if code, ok := errCode(err); !ok || code != tc.code {
				t.Errorf("Decode %q: got error %v, want %v", tc.input, err, tc.code)
			}
		}
	})
	t.Run("FloatMessage", func(t *testing.T) {
		var got int
		err := jdecode.FromString("1e2", jdecode.Int(&got))
		const want = "at 1:3: invalid type: floating point `100.0`, expected int"
		if err == nil || err.Error() != want {
			t.Errorf("Decode: got error %v, want %q", err, want)
		}
	})
	t.Run("FloatAgreement", func(t *testing.T) {
		// A float found where an integer was wanted converts the same way
		// DecodeFloat64 does, in either float mode.
		inputs := []string{
			"0.1", "-2.5e-3", "1e-7", "123456789.123456789e-30",
			"9007199254740993.0", "1.7976931348623157e308", "4.9e-324",
			"184467440737095516150.5", "-0.0",
		}
		for _, roundTrip := range []bool{false, true} {
			setup := func(d *jdecode.Decoder) { d.RoundTripFloats(roundTrip) }
			for _, input := range inputs {
				var asInt, asFloat string
				if err := decodeWith(input, setup, func(d jdecode.Deserializer) error {
					return d.DecodeInt(64, recorder{&asInt})
				}); err != nil {
					t.Errorf("DecodeInt %q: unexpected error: %v", input, err)
					continue
				}
				if err := decodeWith(input, setup, func(d jdecode.Deserializer) error {
					return d.DecodeFloat64(recorder{&asFloat})
				}); err != nil {
					t.Errorf("DecodeFloat64 %q: unexpected error: %v", input, err)
					continue
				}
				if asInt != asFloat {
					t.Errorf("RoundTrip=%v %q: DecodeInt gave %s, DecodeFloat64 gave %s",
						roundTrip, input, asInt, asFloat)
				}
			}
		}
	})
}

func TestInteger128(t *testing.T) {
	tests := []struct {
		input    string
		unsigned bool
		want     string
		code     jdecode.Code // if want == ""
	}{
		{"0", false, "big:0", 0},
		{"-170141183460469231731687303715884105728", false, "big:-170141183460469231731687303715884105728", 0},
		{"170141183460469231731687303715884105727", false, "big:170141183460469231731687303715884105727", 0},
		{"170141183460469231731687303715884105728", false, "", jdecode.NumberOutOfRange},
		{"-170141183460469231731687303715884105729", false, "", jdecode.NumberOutOfRange},
		{"340282366920938463463374607431768211455", true, "big:340282366920938463463374607431768211455", 0},
		{"340282366920938463463374607431768211456", true, "", jdecode.NumberOutOfRange},
		{"-1", true, "", jdecode.NumberOutOfRange},
		{"-0", true, "", jdecode.NumberOutOfRange},
		{"01", false, "", jdecode.InvalidNumber},
		{`"1"`, false, "", jdecode.CodeInvalidType},
		{"1.5", false, "", jdecode.TrailingCharacters},
	}
	for _, tc := range tests {
		var got string
		err := decodeWith(tc.input, nil, func(d jdecode.Deserializer) error {
			v := numRecorder{recorder{&got}}
			if tc.unsigned {
				return d.DecodeUint128(v)
			}
			return d.DecodeInt128(v)
		})
		if tc.want != "" {
			if err != nil {
				t.Errorf("Decode %q: unexpected error: %v", tc.input, err)
			} else if got != tc.want {
				t.Errorf("Decode %q: got %q, want %q", tc.input, got, tc.want)
			}
		} else if code, ok := errCode(err); !ok || code != tc.code {
			t.Errorf("Decode %q: got error %v, want %v", tc.input, err, tc.code)
		}
	}

	t.Run("NoBigIntVisitor", func(t *testing.T) {
		var got string
		if err := decodeWith("-5", nil, func(d jdecode.Deserializer) error {
			return d.DecodeInt128(recorder{&got})
		}); err != nil {
			t.Errorf("Decode: unexpected error: %v", err)
		} else if got != "i64:-5" {
			t.Errorf("Decode: got %q, want i64:-5", got)
		}

		err := decodeWith("18446744073709551616", nil, func(d jdecode.Deserializer) error {
			return d.DecodeUint128(recorder{&got})
		})
		if code, ok := errCode(err); !ok || code != jdecode.CodeInvalidType {
			t.Errorf("Decode: got error %v, want %v", err, jdecode.CodeInvalidType)
		}
	})
}
