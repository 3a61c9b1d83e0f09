// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jdecode_test

import (
	"bufio"
	"strings"
	"testing"

	"github.com/creachadair/jdecode"
	"github.com/creachadair/jdecode/value"
	"github.com/google/go-cmp/cmp"
)

func TestBorrowing(t *testing.T) {
	decode := func(src jdecode.Source, call func(jdecode.Deserializer, jdecode.Visitor) error) (string, error) {
		var got string
		d := jdecode.NewDecoder(src)
		if err := call(d, borrowRecorder{recorder{&got}}); err != nil {
			return "", err
		}
		return got, d.End()
	}
	str := func(d jdecode.Deserializer, v jdecode.Visitor) error { return d.DecodeString(v) }
	bytes := func(d jdecode.Deserializer, v jdecode.Visitor) error { return d.DecodeBytes(v) }

	tests := []struct {
		name string
		src  jdecode.Source
		call func(jdecode.Deserializer, jdecode.Visitor) error
		want string
	}{
		{"StringPlain", jdecode.NewStringSource(`"abc"`), str, "bstr:abc"},
		{"StringEscaped", jdecode.NewStringSource(`"a\nb"`), str, "str:a\nb"},
		{"SlicePlain", jdecode.NewSliceSource([]byte(`"abc"`)), str, "str:abc"},
		{"ReaderPlain", jdecode.NewReaderSource(strings.NewReader(`"abc"`)), str, "str:abc"},
		{"BytesSlice", jdecode.NewSliceSource([]byte(`"abc"`)), bytes, `bbytes:"abc"`},
		{"BytesSliceEscaped", jdecode.NewSliceSource([]byte(`"a\tb"`)), bytes, `bytes:"a\tb"`},
		{"BytesString", jdecode.NewStringSource(`"abc"`), bytes, `bytes:"abc"`},
		{"BytesReader", jdecode.NewReaderSource(strings.NewReader(`"abc"`)), bytes, `bytes:"abc"`},
	}
	for _, tc := range tests {
		got, err := decode(tc.src, tc.call)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
		} else if got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestSourcePositions(t *testing.T) {
	const input = "[1,\n  \"two\",\r\n\t{\"three\": 3}\n]"
	sources := map[string]func() jdecode.Source{
		"String": func() jdecode.Source { return jdecode.NewStringSource(input) },
		"Slice":  func() jdecode.Source { return jdecode.NewSliceSource([]byte(input)) },
		"Reader": func() jdecode.Source { return jdecode.NewReaderSource(strings.NewReader(input)) },
	}
	type step struct {
		Peek   string
		Pos    string
		Offset int
	}
	for name, newSource := range sources {
		src := newSource()
		var got []step
		for {
			ch, ok, err := src.Peek()
			if err != nil {
				t.Fatalf("%s: Peek: unexpected error: %v", name, err)
			} else if !ok {
				break
			}
			if ch == '{' || ch == '"' || ch == ']' {
				got = append(got, step{string(ch), src.PeekPosition().String(), src.ByteOffset()})
			}
			src.Discard()
		}
		want := []step{
			{`"`, "2:3", 6},
			{`"`, "2:7", 10},
			{"{", "3:2", 15},
			{`"`, "3:3", 16},
			{`"`, "3:9", 22},
			{"]", "4:1", 28},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s: positions (-want, +got):\n%s", name, diff)
		}
		if got := src.Position().String(); got != "4:1" {
			t.Errorf("%s: final position is %s, want 4:1", name, got)
		}
		if got := src.ByteOffset(); got != len(input) {
			t.Errorf("%s: final offset is %d, want %d", name, got, len(input))
		}
	}
}

func TestReaderSource(t *testing.T) {
	// An existing buffered reader is used directly, so input after the
	// value remains available to the caller.
	br := bufio.NewReader(strings.NewReader(`{"a": 1} rest`))
	var got map[string]int
	d := jdecode.NewDecoder(jdecode.NewReaderSource(br))
	if err := d.Decode(jdecode.Map(&got, jdecode.String, jdecode.Int[int])); err != nil {
		t.Fatalf("Decode: unexpected error: %v", err)
	}
	if got["a"] != 1 {
		t.Errorf("Decode: got %v, want a=1", got)
	}
	rest, err := br.ReadString('\n')
	if err == nil || rest != " rest" {
		t.Errorf("Rest: got %q, %v; want %q", rest, err, " rest")
	}
}

func TestRef(t *testing.T) {
	src := jdecode.NewStringSource(`"abc" "a\u0041"`)
	var scratch []byte
	for _, want := range []struct {
		text     string
		borrowed bool
	}{{"abc", true}, {"aA", false}} {
		for {
			ch, _, _ := src.Peek()
			src.Discard()
			if ch == '"' {
				break
			}
		}
		ref, err := src.ParseStr(&scratch)
		if err != nil {
			t.Fatalf("ParseStr: unexpected error: %v", err)
		}
		if ref.String() != want.text || string(ref.Bytes()) != want.text || ref.Len() != len(want.text) {
			t.Errorf("ParseStr: got %q, want %q", ref.String(), want.text)
		}
		if ref.Borrowed() != want.borrowed {
			t.Errorf("ParseStr %q: borrowed is %v, want %v", want.text, ref.Borrowed(), want.borrowed)
		}
		if ref.RO().StringCopy() != want.text {
			t.Errorf("ParseStr: RO is %q, want %q", ref.RO().StringCopy(), want.text)
		}
	}
}

// locatingSource counts the requests for line and column positions made to
// the Source it wraps.
type locatingSource struct {
	jdecode.Source
	located int
}

func (s *locatingSource) Position() jdecode.LineCol {
	s.located++
	return s.Source.Position()
}

func (s *locatingSource) PeekPosition() jdecode.LineCol {
	s.located++
	return s.Source.PeekPosition()
}

func (s *locatingSource) Locate(m jdecode.Mark) jdecode.LineCol {
	s.located++
	return s.Source.Locate(m)
}

func TestLocationsOnlyForErrors(t *testing.T) {
	lines := "[" + strings.Repeat("1,\n", 20000) + `{"a": [true, null, "s", -2.5]}]`
	numbers := "[" + strings.Repeat("1,\n", 20000) + "1]"
	sources := map[string]func(string) jdecode.Source{
		"String": jdecode.NewStringSource,
		"Slice":  func(s string) jdecode.Source { return jdecode.NewSliceSource([]byte(s)) },
		"Reader": func(s string) jdecode.Source { return jdecode.NewReaderSource(strings.NewReader(s)) },
	}
	tests := []struct {
		name  string
		input string
		seed  func() jdecode.Seed
	}{
		{"Value", lines, func() jdecode.Seed { return value.Seed(new(value.Value)) }},
		{"Ignore", lines, func() jdecode.Seed { return jdecode.Ignore }},
		{"Raw", lines, func() jdecode.Seed { return jdecode.Raw(new(string)) }},
		{"Ints", numbers, func() jdecode.Seed { return jdecode.Slice(new([]int), jdecode.Int[int]) }},
	}
	for _, tc := range tests {
		for name, newSource := range sources {
			src := &locatingSource{Source: newSource(tc.input)}
			d := jdecode.NewDecoder(src)
			if err := d.Decode(tc.seed()); err != nil {
				t.Fatalf("%s %s: Decode failed: %v", name, tc.name, err)
			} else if err := d.End(); err != nil {
				t.Fatalf("%s %s: End failed: %v", name, tc.name, err)
			}
			if src.located != 0 {
				t.Errorf("%s %s: located %d positions, want 0", name, tc.name, src.located)
			}
		}
	}

	t.Run("Error", func(t *testing.T) {
		const input = "[1,\n 2,\n \"three\"]"
		for name, newSource := range sources {
			var ns []int
			seed := jdecode.Slice(&ns, jdecode.Int[int])
			want := jdecode.NewDecoder(newSource(input)).Decode(seed)

			src := &locatingSource{Source: newSource(input)}
			got := jdecode.NewDecoder(src).Decode(seed)
			if got == nil || want == nil {
				t.Fatalf("%s: got %v, want %v", name, got, want)
			}
			if got.Error() != want.Error() {
				t.Errorf("%s: got error %q, want %q", name, got, want)
			}
			if loc := errLoc(got); loc != "3:8" {
				t.Errorf("%s: error location is %q, want 3:8", name, loc)
			}
			if src.located == 0 {
				t.Errorf("%s: no positions located for an error", name)
			}
		}
	})
}
