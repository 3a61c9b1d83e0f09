// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jdecode_test

import (
	"testing"

	"github.com/creachadair/jdecode"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", `""`},
		{" ", `" "`},
		{"a\t\nb", `"a\t\nb"`},
		{"\x00\x01\x02", `"\u0000\u0001\u0002"`},
		{`a "b c\" d"`, `"a \"b c\\\" d\""`},
		{`\ufffd`, `"\\ufffd"`},
		{"\u2028 \u2029 \ufffd", `"\u2028 \u2029 \ufffd"`},
		{"This is the end\v", `"This is the end\u000b"`},
		{"<\x1e>", `"<\u001e>"`},
	}
	for _, test := range tests {
		got := jdecode.Quote(test.input)
		if got != test.want {
			t.Errorf("Input: %#q\nGot:  %#q\nWant: %#q", test.input, got, test.want)
		}
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		input string
		want  string
		fail  bool
	}{
		{``, ``, true},                          // missing quotes
		{`"missing quote`, ``, true},            // missing quotes
		{`missing quote"`, ``, true},            // missing quotes
		{`""`, ``, false},                       // ok
		{`"ok go"`, "ok go", false},             // ok
		{`"abc\ndef"`, "abc\ndef", false},       // C escapes
		{`"\tabc\n"`, "\tabc\n", false},         // C escapes
		{`"\b\f\n\r\t"`, "\b\f\n\r\t", false},   // C escapes
		{`"a \u0026 b"`, "a & b", false},        // short Unicode escape
		{`"\u"`, ``, true},                      // incomplete Unicode escape
		{`"\u00"`, ``, true},                    // incomplete Unicode escape
		{`"\u00x9"`, ``, true},                  // invalid Unicode escape
		{`"\u019 "`, ``, true},                  // invalid Unicode escape
		{`"\ud83d\ude00"`, "\U0001f600", false}, // surrogate pair
		{`"\ud83d"`, ``, true},                  // lone leading surrogate
		{`"\ude00"`, ``, true},                  // lone trailing surrogate
		{`"\q"`, ``, true},                      // invalid escape
		{`"a\"b"`, `a"b`, false},                // ok
		{`"a\\b\\cd"`, `a\b\cd`, false},         // ok
	}

	for _, test := range tests {
		got, err := jdecode.Unquote(test.input)
		if err != nil {
			if !test.fail {
				t.Errorf("Unquote(%#q): got %v, want no error", test.input, err)
			} else {
				t.Logf("Unquote(%#q): got expected error: %v", test.input, err)
			}
		} else if err == nil && test.fail {
			t.Errorf("Unquote(%#q): got nil, want error", test.input)
		}
		if cmp := string(got); cmp != test.want {
			t.Errorf("Unquote(%#q): got %#q, want %#q", test.input, cmp, test.want)
		}
	}
}

func TestUnquoteErrors(t *testing.T) {
	tests := []struct {
		input string
		code  jdecode.Code
	}{
		{`abc`, jdecode.ExpectedDoubleQuote},
		{`"\x"`, jdecode.InvalidEscape},
		{`"\u12"`, jdecode.InvalidEscape},
		{`"\ud800"`, jdecode.EOFWhileParsingString},
		{`"\ud800x"`, jdecode.UnexpectedEndOfHexEscape},
		{`"\udc00"`, jdecode.LoneLeadingSurrogate},
		{`"abc\"`, jdecode.EOFWhileParsingString},
	}
	for _, tc := range tests {
		_, err := jdecode.Unquote(tc.input)
		if code, ok := errCode(err); !ok || code != tc.code {
			t.Errorf("Unquote(%#q): got error %v, want %v", tc.input, err, tc.code)
		}
	}
}

func TestQuoteRoundTrip(t *testing.T) {
	for _, s := range []string{"", "plain", "tab\there", "quote\"d", "\x00\x7f", "caf\u00e9 \U0001f600", "\u2028"} {
		got, err := jdecode.Unquote(jdecode.Quote(s))
		if err != nil {
			t.Errorf("Unquote(Quote(%q)): unexpected error: %v", s, err)
		} else if string(got) != s {
			t.Errorf("Unquote(Quote(%q)): got %q", s, got)
		}
	}
}
