// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jdecode

// DecodeIgnored implements part of the Deserializer interface.
func (d *Decoder) DecodeIgnored(v Visitor) error {
	if err := d.ignoreValue(); err != nil {
		return err
	}
	return d.fix(v.VisitUnit(), d.src.Mark())
}

// DecodeRaw implements part of the Deserializer interface.
func (d *Decoder) DecodeRaw(v Visitor) error {
	if _, _, err := d.skipSpace(); err != nil {
		return err
	}
	d.src.BeginRaw()
	if err := d.ignoreValue(); err != nil {
		d.src.EndRaw()
		return err
	}
	ref := d.src.EndRaw()
	return d.fix(visitStr(v, ref), d.src.Mark())
}

// ignoreValue consumes one complete value without decoding it.
//
// Rather than recurring, ignoreValue keeps a stack of the open arrays and
// objects enclosing the current value in the scratch buffer, one byte ("["
// or "{") per level. The innermost open level is kept in enclosing rather
// than on the stack.
func (d *Decoder) ignoreValue() error {
	d.scratch = d.scratch[:0]
	var enclosing byte // 0 if none

	for {
		ch, ok, err := d.skipSpace()
		if err != nil {
			return err
		} else if !ok {
			return d.peekErr(EOFWhileParsingValue)
		}

		var frame byte
		switch {
		case ch == 'n':
			d.src.Discard()
			err = d.parseIdent("ull")
		case ch == 't':
			d.src.Discard()
			err = d.parseIdent("rue")
		case ch == 'f':
			d.src.Discard()
			err = d.parseIdent("alse")
		case ch == '-':
			d.src.Discard()
			err = d.ignoreInteger()
		case isDigit(ch):
			err = d.ignoreInteger()
		case ch == '"':
			d.src.Discard()
			err = d.src.IgnoreStr()
		case ch == '[' || ch == '{':
			depth := len(d.scratch) + 1
			if enclosing != 0 {
				depth++
			}
			if !d.unbounded && depth > d.remaining {
				return d.peekErr(RecursionLimitExceeded)
			}
			if enclosing != 0 {
				d.scratch = append(d.scratch, enclosing)
				enclosing = 0
			}
			d.src.Discard()
			frame = ch
		default:
			return d.peekErr(ExpectedSomeValue)
		}
		if err != nil {
			return err
		}

		// Find the frame the next value belongs to, closing any frames that
		// end here.
		acceptComma := false
		if frame == 0 {
			if enclosing != 0 {
				frame, enclosing = enclosing, 0
			} else if n := len(d.scratch); n != 0 {
				frame, d.scratch = d.scratch[n-1], d.scratch[:n-1]
			} else {
				return nil
			}
			acceptComma = true
		}

	closing:
		for {
			ch, ok, err := d.skipSpace()
			if err != nil {
				return err
			}
			switch {
			case !ok && frame == '[':
				return d.peekErr(EOFWhileParsingList)
			case !ok:
				return d.peekErr(EOFWhileParsingObject)
			case ch == ',' && acceptComma:
				d.src.Discard()
				break closing
			case ch == ']' && frame == '[', ch == '}' && frame == '{':
				// The frame ends here; the next byte belongs to its parent.
			case acceptComma && frame == '[':
				return d.peekErr(ExpectedListCommaOrEnd)
			case acceptComma:
				return d.peekErr(ExpectedObjectCommaOrEnd)
			default:
				break closing
			}

			d.src.Discard()
			n := len(d.scratch)
			if n == 0 {
				return nil
			}
			frame, d.scratch = d.scratch[n-1], d.scratch[:n-1]
			acceptComma = true
		}

		if frame == '{' {
			if err := d.ignoreKey(); err != nil {
				return err
			}
		}
		enclosing = frame
	}
}

// ignoreKey consumes the key and colon of an object member.
func (d *Decoder) ignoreKey() error {
	ch, ok, err := d.skipSpace()
	if err != nil {
		return err
	} else if !ok {
		return d.peekErr(EOFWhileParsingObject)
	} else if ch != '"' {
		return d.peekErr(KeyMustBeAString)
	}
	d.src.Discard()
	if err := d.src.IgnoreStr(); err != nil {
		return err
	}
	return d.parseObjectColon()
}

// ignoreInteger consumes a number whose sign, if any, has been consumed.
func (d *Decoder) ignoreInteger() error {
	ch, _, err := d.src.Next()
	if err != nil {
		return err
	}
	switch {
	case ch == '0':
		// Only one leading zero is permitted.
		if next, err := d.peekOrNull(); err != nil {
			return err
		} else if isDigit(next) {
			return d.peekErr(InvalidNumber)
		}
	case isDigit(ch):
		if err := d.skipDigits(); err != nil {
			return err
		}
	default:
		return d.errAt(InvalidNumber)
	}

	c, err := d.peekOrNull()
	if err != nil {
		return err
	}
	switch c {
	case '.':
		return d.ignoreDecimal()
	case 'e', 'E':
		return d.ignoreExponent()
	}
	return nil
}

func (d *Decoder) ignoreDecimal() error {
	d.src.Discard()
	c, err := d.peekOrNull()
	if err != nil {
		return err
	} else if !isDigit(c) {
		return d.peekErr(InvalidNumber)
	}
	if err := d.skipDigits(); err != nil {
		return err
	}

	if c, err := d.peekOrNull(); err != nil {
		return err
	} else if c == 'e' || c == 'E' {
		return d.ignoreExponent()
	}
	return nil
}

func (d *Decoder) ignoreExponent() error {
	d.src.Discard()
	if c, err := d.peekOrNull(); err != nil {
		return err
	} else if c == '+' || c == '-' {
		d.src.Discard()
	}

	// A digit must follow the exponent marker.
	if ch, _, err := d.src.Next(); err != nil {
		return err
	} else if !isDigit(ch) {
		return d.errAt(InvalidNumber)
	}
	return d.skipDigits()
}
