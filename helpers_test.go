// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jdecode_test

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"github.com/creachadair/jdecode"
)

// recorder is a Visitor that accepts any value and records a summary of
// the visit in *got.
type recorder struct{ got *string }

func record(got *string) jdecode.Seed {
	return jdecode.SeedFunc(func(d jdecode.Deserializer) error { return d.DecodeAny(recorder{got}) })
}

func (recorder) Expecting() string { return "anything" }

func (r recorder) set(format string, args ...any) error { *r.got = fmt.Sprintf(format, args...); return nil }

func (r recorder) VisitUnit() error           { return r.set("unit") }
func (r recorder) VisitNone() error           { return r.set("none") }
func (r recorder) VisitBool(v bool) error     { return r.set("bool:%v", v) }
func (r recorder) VisitInt64(v int64) error   { return r.set("i64:%d", v) }
func (r recorder) VisitUint64(v uint64) error { return r.set("u64:%d", v) }
func (r recorder) VisitStr(v string) error    { return r.set("str:%s", v) }
func (r recorder) VisitBytes(v []byte) error  { return r.set("bytes:%q", v) }

func (r recorder) VisitFloat64(v float64) error {
	return r.set("f64:%s", strconv.FormatFloat(v, 'g', -1, 64))
}

func (r recorder) VisitSome(d jdecode.Deserializer) error {
	var inner string
	if err := d.DecodeAny(recorder{&inner}); err != nil {
		return err
	}
	return r.set("some:%s", inner)
}

func (r recorder) VisitSeq(s jdecode.SeqAccess) error {
	var n int
	for {
		if ok, err := s.NextElement(jdecode.Ignore); err != nil {
			return err
		} else if !ok {
			return r.set("seq:%d", n)
		}
		n++
	}
}

func (r recorder) VisitMap(m jdecode.MapAccess) error {
	var n int
	for {
		if ok, err := m.NextKey(jdecode.Ignore); err != nil {
			return err
		} else if !ok {
			return r.set("map:%d", n)
		} else if err := m.NextValue(jdecode.Ignore); err != nil {
			return err
		}
		n++
	}
}

func (r recorder) VisitEnum(jdecode.EnumAccess) error { return r.set("enum") }

// numRecorder is a recorder that also accepts decimal text and big integers.
type numRecorder struct{ recorder }

func (r numRecorder) VisitNumber(text string) error { return r.set("num:%s", text) }
func (r numRecorder) VisitBigInt(v *big.Int) error  { return r.set("big:%s", v) }

// borrowRecorder is a recorder that also accepts borrowed text.
type borrowRecorder struct{ recorder }

func (r borrowRecorder) VisitBorrowedStr(v string) error   { return r.set("bstr:%s", v) }
func (r borrowRecorder) VisitBorrowedBytes(v []byte) error { return r.set("bbytes:%q", v) }

// decodeWith decodes input with a decoder configured by setup, calling the
// given method and then requiring the end of input.
func decodeWith(input string, setup func(*jdecode.Decoder), call func(jdecode.Deserializer) error) error {
	d := jdecode.NewDecoder(jdecode.NewStringSource(input))
	if setup != nil {
		setup(d)
	}
	if err := call(d); err != nil {
		return err
	}
	return d.End()
}

// errCode reports the code of err, which must be a *jdecode.Error.
func errCode(err error) (jdecode.Code, bool) {
	var e *jdecode.Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return 0, false
}

// errLoc reports the location of err, if it is a *jdecode.Error.
func errLoc(err error) string {
	var e *jdecode.Error
	if errors.As(err, &e) {
		return e.Location.String()
	}
	return ""
}
