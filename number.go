// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jdecode

import (
	"math"
	"math/big"
	"strconv"

	"go4.org/mem"
)

type numKind byte

const (
	numFloat numKind = iota
	numUint
	numInt
	numText // decimal text, only with arbitrary precision
)

// A number is a numeric literal parsed from the input.
type number struct {
	kind numKind
	f    float64
	u    uint64
	i    int64
	text string
}

func floatNum(f float64) number { return number{kind: numFloat, f: f} }

func (n number) visit(v Visitor) error {
	switch n.kind {
	case numUint:
		return v.VisitUint64(n.u)
	case numInt:
		return v.VisitInt64(n.i)
	case numText:
		if nv, ok := v.(NumberVisitor); ok {
			return nv.VisitNumber(n.text)
		}
		return InvalidType(n.unexpected(), v.Expecting())
	}
	return v.VisitFloat64(n.f)
}

func (n number) unexpected() Unexpected {
	switch n.kind {
	case numUint:
		return UnexpectedUint(n.u)
	case numInt:
		return UnexpectedInt(n.i)
	case numText:
		return UnexpectedOther("number `" + n.text + "`")
	}
	return UnexpectedFloat(n.f)
}

// pow10[i] is 10^i correctly rounded, for each exponent a float64 can scale.
var pow10 [309]float64

func init() {
	for i := range pow10 {
		pow10[i], _ = strconv.ParseFloat("1e"+strconv.Itoa(i), 64)
	}
}

// overflows reports whether acc*10 + digit exceeds math.MaxUint64.
func overflows(acc, digit uint64) bool {
	return acc >= math.MaxUint64/10 && (acc > math.MaxUint64/10 || digit > math.MaxUint64%10)
}

// overflows32 reports whether acc*10 + digit exceeds math.MaxInt32.
func overflows32(acc, digit int32) bool {
	return acc >= math.MaxInt32/10 && (acc > math.MaxInt32/10 || digit > math.MaxInt32%10)
}

func isDigit(ch byte) bool { return '0' <= ch && ch <= '9' }

func signed(neg bool, f float64) float64 {
	if neg {
		return -f
	}
	return f
}

// addExp returns a+b, saturated to the range of int32.
func addExp(a, b int32) int32 {
	s := int64(a) + int64(b)
	if s > math.MaxInt32 {
		return math.MaxInt32
	} else if s < math.MinInt32 {
		return math.MinInt32
	}
	return int32(s)
}

// parseAnyNumber parses a number whose sign, if any, has been consumed.
func (d *Decoder) parseAnyNumber(neg bool) (number, error) {
	if !d.arbitrary {
		return d.parseInteger(neg)
	}

	d.scratch = d.scratch[:0]
	if neg {
		d.scratch = append(d.scratch, '-')
	}
	if err := d.scanInteger(); err != nil {
		return number{}, err
	}
	text := mem.B(d.scratch)
	if neg {
		if n, err := mem.ParseInt(text, 10, 64); err == nil {
			return number{kind: numInt, i: n}, nil
		}
	} else if u, err := mem.ParseUint(text, 10, 64); err == nil {
		return number{kind: numUint, u: u}, nil
	}
	return number{kind: numText, text: string(d.scratch)}, nil
}

// parseInteger parses the integer part of a number whose sign, if any, has
// been consumed, and then the rest of the number.
func (d *Decoder) parseInteger(neg bool) (number, error) {
	ch, ok, err := d.src.Next()
	if err != nil {
		return number{}, err
	} else if !ok {
		return number{}, d.errAt(EOFWhileParsingValue)
	}

	switch {
	case ch == '0':
		// Only one leading zero is permitted.
		next, err := d.peekOrNull()
		if err != nil {
			return number{}, err
		} else if isDigit(next) {
			return number{}, d.peekErr(InvalidNumber)
		}
		return d.parseNumber(neg, 0)

	case isDigit(ch):
		sig := uint64(ch - '0')
		for {
			c, err := d.peekOrNull()
			if err != nil {
				return number{}, err
			} else if !isDigit(c) {
				return d.parseNumber(neg, sig)
			}
			digit := uint64(c - '0')
			if overflows(sig, digit) {
				f, err := d.parseLongInteger(neg, sig)
				return floatNum(f), err
			}
			d.src.Discard()
			sig = sig*10 + digit
		}
	}
	return number{}, d.errAt(InvalidNumber)
}

// parseNumber parses what follows the integer part of a number whose
// integer part fits in sig.
func (d *Decoder) parseNumber(neg bool, sig uint64) (number, error) {
	c, err := d.peekOrNull()
	if err != nil {
		return number{}, err
	}
	switch c {
	case '.':
		f, err := d.parseDecimal(neg, sig, 0)
		return floatNum(f), err
	case 'e', 'E':
		f, err := d.parseExponent(neg, sig, 0)
		return floatNum(f), err
	}
	if !neg {
		return number{kind: numUint, u: sig}, nil
	}

	// Negation wraps for magnitudes beyond the range of int64, and leaves
	// zero unchanged. Both become floats, so "-0" is negative zero.
	if n := -int64(sig); n < 0 {
		return number{kind: numInt, i: n}, nil
	}
	return floatNum(-float64(sig)), nil
}

// parseDecimal parses the fraction of a number starting at the ".".
func (d *Decoder) parseDecimal(neg bool, sig uint64, expBefore int32) (float64, error) {
	d.src.Discard()

	var expAfter int32
	for {
		c, err := d.peekOrNull()
		if err != nil {
			return 0, err
		} else if !isDigit(c) {
			break
		}
		digit := uint64(c - '0')
		if overflows(sig, digit) {
			return d.parseDecimalOverflow(neg, sig, expBefore+expAfter)
		}
		d.src.Discard()
		sig = sig*10 + digit
		expAfter--
	}
	if expAfter == 0 {
		return 0, d.missingDigit()
	}

	exp := expBefore + expAfter
	if c, err := d.peekOrNull(); err != nil {
		return 0, err
	} else if c == 'e' || c == 'E' {
		return d.parseExponent(neg, sig, exp)
	}
	return d.fromParts(neg, sig, exp)
}

// missingDigit reports the error for a "." not followed by a digit.
func (d *Decoder) missingDigit() error {
	if _, ok, err := d.src.Peek(); err != nil {
		return err
	} else if ok {
		return d.peekErr(InvalidNumber)
	}
	return d.peekErr(EOFWhileParsingValue)
}

// exponentSign consumes the optional sign of an exponent and reports
// whether the exponent is positive.
func (d *Decoder) exponentSign() (bool, error) {
	c, err := d.peekOrNull()
	if err != nil {
		return false, err
	}
	switch c {
	case '+':
		d.src.Discard()
	case '-':
		d.src.Discard()
		return false, nil
	}
	return true, nil
}

// exponentStart consumes the first digit of an exponent.
func (d *Decoder) exponentStart() (int32, error) {
	ch, ok, err := d.src.Next()
	if err != nil {
		return 0, err
	} else if !ok {
		return 0, d.errAt(EOFWhileParsingValue)
	} else if !isDigit(ch) {
		return 0, d.errAt(InvalidNumber)
	}
	return int32(ch - '0'), nil
}

// parseExponent parses the exponent of a number starting at the "e".
func (d *Decoder) parseExponent(neg bool, sig uint64, startExp int32) (float64, error) {
	d.src.Discard()
	posExp, err := d.exponentSign()
	if err != nil {
		return 0, err
	}
	exp, err := d.exponentStart()
	if err != nil {
		return 0, err
	}
	for {
		c, err := d.peekOrNull()
		if err != nil {
			return 0, err
		} else if !isDigit(c) {
			break
		}
		d.src.Discard()
		digit := int32(c - '0')
		if overflows32(exp, digit) {
			return d.parseExponentOverflow(neg, sig == 0, posExp)
		}
		exp = exp*10 + digit
	}

	if posExp {
		return d.fromParts(neg, sig, addExp(startExp, exp))
	}
	return d.fromParts(neg, sig, addExp(startExp, -exp))
}

// parseExponentOverflow handles an exponent too large for an int32. The
// value is zero unless the magnitude would be infinite.
func (d *Decoder) parseExponentOverflow(neg, zeroSig, posExp bool) (float64, error) {
	if !zeroSig && posExp {
		return 0, d.errAt(NumberOutOfRange)
	}
	if err := d.skipDigits(); err != nil {
		return 0, err
	}
	return signed(neg, 0), nil
}

func (d *Decoder) skipDigits() error {
	for {
		c, err := d.peekOrNull()
		if err != nil {
			return err
		} else if !isDigit(c) {
			return nil
		}
		d.src.Discard()
	}
}

// parseDecimalOverflow handles a fraction whose digits no longer fit in the
// significand. The exponent accounts for the fraction digits in sig.
func (d *Decoder) parseDecimalOverflow(neg bool, sig uint64, exp int32) (float64, error) {
	if d.roundTrip {
		// Move the significand to the scratch buffer as text, with enough
		// leading zeroes that the fraction digits follow the integer part.
		var buf [20]byte
		digits := strconv.AppendUint(buf[:0], sig, 10)
		fracDigits := int(-exp)
		d.scratch = d.scratch[:0]
		for i := len(digits); i < fracDigits; i++ {
			d.scratch = append(d.scratch, '0')
		}
		d.scratch = append(d.scratch, digits...)
		return d.parseLongDecimal(neg, len(d.scratch)-fracDigits)
	}

	// Further digits cannot affect the approximation.
	if err := d.skipDigits(); err != nil {
		return 0, err
	}
	if c, err := d.peekOrNull(); err != nil {
		return 0, err
	} else if c == 'e' || c == 'E' {
		return d.parseExponent(neg, sig, exp)
	}
	return d.fromParts(neg, sig, exp)
}

// parseLongInteger handles an integer part too long for a uint64, whose
// leading digits are in sig.
func (d *Decoder) parseLongInteger(neg bool, sig uint64) (float64, error) {
	if d.roundTrip {
		d.scratch = strconv.AppendUint(d.scratch[:0], sig, 10)
		for {
			c, err := d.peekOrNull()
			if err != nil {
				return 0, err
			}
			switch {
			case isDigit(c):
				d.scratch = append(d.scratch, c)
				d.src.Discard()
			case c == '.':
				d.src.Discard()
				return d.parseLongDecimal(neg, len(d.scratch))
			case c == 'e' || c == 'E':
				return d.parseLongExponent(neg, len(d.scratch))
			default:
				return d.longFromParts(neg, len(d.scratch), 0)
			}
		}
	}

	// Count the remaining digits as powers of ten.
	var exp int32
	for {
		c, err := d.peekOrNull()
		if err != nil {
			return 0, err
		}
		switch {
		case isDigit(c):
			d.src.Discard()
			exp++
		case c == '.':
			return d.parseDecimal(neg, sig, exp)
		case c == 'e' || c == 'E':
			return d.parseExponent(neg, sig, exp)
		default:
			return d.fromParts(neg, sig, exp)
		}
	}
}

// parseLongDecimal scans fraction digits into the scratch buffer, after the
// digits of the integer part ending at intEnd. The "." has been consumed.
func (d *Decoder) parseLongDecimal(neg bool, intEnd int) (float64, error) {
	sawDigit := intEnd < len(d.scratch)
	for {
		c, err := d.peekOrNull()
		if err != nil {
			return 0, err
		} else if !isDigit(c) {
			break
		}
		d.scratch = append(d.scratch, c)
		d.src.Discard()
		sawDigit = true
	}
	if !sawDigit {
		return 0, d.missingDigit()
	}

	if c, err := d.peekOrNull(); err != nil {
		return 0, err
	} else if c == 'e' || c == 'E' {
		return d.parseLongExponent(neg, intEnd)
	}
	return d.longFromParts(neg, intEnd, 0)
}

func (d *Decoder) parseLongExponent(neg bool, intEnd int) (float64, error) {
	d.src.Discard()
	posExp, err := d.exponentSign()
	if err != nil {
		return 0, err
	}
	exp, err := d.exponentStart()
	if err != nil {
		return 0, err
	}
	for {
		c, err := d.peekOrNull()
		if err != nil {
			return 0, err
		} else if !isDigit(c) {
			break
		}
		d.src.Discard()
		digit := int32(c - '0')
		if overflows32(exp, digit) {
			return d.parseExponentOverflow(neg, allZero(d.scratch), posExp)
		}
		exp = exp*10 + digit
	}
	if !posExp {
		exp = -exp
	}
	return d.longFromParts(neg, intEnd, exp)
}

func allZero(digits []byte) bool {
	for _, c := range digits {
		if c != '0' {
			return false
		}
	}
	return true
}

// fromParts computes sig × 10^exp.
func (d *Decoder) fromParts(neg bool, sig uint64, exp int32) (float64, error) {
	if d.roundTrip {
		d.scratch = strconv.AppendUint(d.scratch[:0], sig, 10)
		d.scratch = append(d.scratch, 'e')
		d.scratch = strconv.AppendInt(d.scratch, int64(exp), 10)
		return d.convert(neg, d.scratch)
	}

	f := float64(sig)
	for {
		abs := int64(exp)
		if abs < 0 {
			abs = -abs
		}
		if abs < int64(len(pow10)) {
			if exp >= 0 {
				f *= pow10[abs]
				if math.IsInf(f, 0) {
					return 0, d.errAt(NumberOutOfRange)
				}
			} else {
				f /= pow10[abs]
			}
			break
		}
		if f == 0 {
			break
		}
		if exp >= 0 {
			return 0, d.errAt(NumberOutOfRange)
		}
		f /= 1e308
		exp += 308
	}
	return signed(neg, f), nil
}

// longFromParts converts the digits in the scratch buffer, of which those
// before intEnd are the integer part, scaled by 10^exp.
func (d *Decoder) longFromParts(neg bool, intEnd int, exp int32) (float64, error) {
	text := make([]byte, 0, len(d.scratch)+16)
	if intEnd == 0 {
		text = append(text, '0')
	}
	text = append(text, d.scratch[:intEnd]...)
	if intEnd < len(d.scratch) {
		text = append(text, '.')
		text = append(text, d.scratch[intEnd:]...)
	}
	text = append(text, 'e')
	text = strconv.AppendInt(text, int64(exp), 10)
	return d.convert(neg, text)
}

// convert parses decimal text exactly, rounding to float32 precision while
// a float32 is being decoded.
func (d *Decoder) convert(neg bool, text []byte) (float64, error) {
	bits := 64
	if d.single {
		bits = 32
	}
	f, err := mem.ParseFloat(mem.B(text), bits)
	if math.IsInf(f, 0) {
		return 0, d.errAt(NumberOutOfRange)
	} else if err != nil {
		return 0, d.errAt(InvalidNumber)
	}
	return signed(neg, f), nil
}

// scanInteger scans the text of a number whose sign, if any, has been
// consumed, appending it to the scratch buffer.
func (d *Decoder) scanInteger() error {
	ch, err := d.scanOrEOF()
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
		if err := d.scanDigits(); err != nil {
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
		return d.scanDecimal()
	case 'e', 'E':
		return d.scanExponent(c)
	}
	return nil
}

func (d *Decoder) scanOrEOF() (byte, error) {
	ch, ok, err := d.src.Next()
	if err != nil {
		return 0, err
	} else if !ok {
		return 0, d.errAt(EOFWhileParsingValue)
	}
	d.scratch = append(d.scratch, ch)
	return ch, nil
}

// scanDigits appends a run of digits to the scratch buffer.
func (d *Decoder) scanDigits() error {
	for {
		c, err := d.peekOrNull()
		if err != nil {
			return err
		} else if !isDigit(c) {
			return nil
		}
		d.src.Discard()
		d.scratch = append(d.scratch, c)
	}
}

func (d *Decoder) scanDecimal() error {
	d.src.Discard()
	d.scratch = append(d.scratch, '.')
	n := len(d.scratch)
	if err := d.scanDigits(); err != nil {
		return err
	} else if len(d.scratch) == n {
		return d.missingDigit()
	}

	if c, err := d.peekOrNull(); err != nil {
		return err
	} else if c == 'e' || c == 'E' {
		return d.scanExponent(c)
	}
	return nil
}

func (d *Decoder) scanExponent(e byte) error {
	d.src.Discard()
	d.scratch = append(d.scratch, e)

	c, err := d.peekOrNull()
	if err != nil {
		return err
	} else if c == '+' || c == '-' {
		d.src.Discard()
		d.scratch = append(d.scratch, c)
	}

	// A digit must follow the exponent marker.
	if ch, err := d.scanOrEOF(); err != nil {
		return err
	} else if !isDigit(ch) {
		return d.errAt(InvalidNumber)
	}
	return d.scanDigits()
}

// scanInteger128 scans the digits of an integer with no fraction or
// exponent into the scratch buffer.
func (d *Decoder) scanInteger128() error {
	ch, err := d.scanOrEOF()
	if err != nil {
		return err
	}
	switch {
	case ch == '0':
		if next, err := d.peekOrNull(); err != nil {
			return err
		} else if isDigit(next) {
			return d.peekErr(InvalidNumber)
		}
		return nil
	case isDigit(ch):
		return d.scanDigits()
	}
	return d.errAt(InvalidNumber)
}

// isIntegral reports whether the number text has no fraction or exponent.
func isIntegral(text []byte) bool {
	return mem.IndexByte(mem.B(text), '.') < 0 &&
		mem.IndexByte(mem.B(text), 'e') < 0 &&
		mem.IndexByte(mem.B(text), 'E') < 0
}

// floatFromText converts the scanned text of a number with a fraction or
// exponent the way the number parser does, so that the result agrees with
// DecodeFloat64 in either float mode.
func (d *Decoder) floatFromText(text []byte) (float64, error) {
	neg := text[0] == '-'
	if neg {
		text = text[1:]
	}
	sub := &Decoder{src: NewSliceSource(text), roundTrip: d.roundTrip}
	n, err := sub.parseInteger(neg)
	if e, ok := err.(*Error); ok {
		return 0, d.errAt(e.Code)
	} else if err != nil {
		return 0, err
	}
	switch n.kind {
	case numInt:
		return float64(n.i), nil
	case numUint:
		return float64(n.u), nil
	}
	return n.f, nil
}

// decodeInteger decodes a number that must fit an integer of the given
// width and signedness. A number with a fraction or exponent is reported
// to v as a float.
func (d *Decoder) decodeInteger(bits int, isSigned bool, v Visitor) error {
	ch, ok, err := d.skipSpace()
	if err != nil {
		return err
	} else if !ok {
		return d.peekErr(EOFWhileParsingValue)
	} else if ch != '-' && !isDigit(ch) {
		return d.peekInvalidType(v)
	}

	d.scratch = d.scratch[:0]
	if ch == '-' {
		d.src.Discard()
		d.scratch = append(d.scratch, '-')
	}
	if err := d.scanInteger(); err != nil {
		return err
	}
	at := d.src.Mark()
	text := mem.B(d.scratch)

	if !isIntegral(d.scratch) {
		f, err := d.floatFromText(d.scratch)
		if err != nil {
			return err
		}
		return d.fix(v.VisitFloat64(f), at)
	} else if isSigned {
		n, err := mem.ParseInt(text, 10, bits)
		if err != nil {
			return d.errAt(NumberOutOfRange)
		}
		return d.fix(v.VisitInt64(n), at)
	} else if ch == '-' {
		if !allZero(d.scratch[1:]) {
			return d.errAt(NumberOutOfRange)
		}
		return d.fix(v.VisitUint64(0), at)
	}
	u, err := mem.ParseUint(text, 10, bits)
	if err != nil {
		return d.errAt(NumberOutOfRange)
	}
	return d.fix(v.VisitUint64(u), at)
}

var (
	minInt128  = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	maxInt128  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
)

// decodeInteger128 decodes an integer that must fit in 128 bits.
func (d *Decoder) decodeInteger128(isSigned bool, v Visitor) error {
	ch, ok, err := d.skipSpace()
	if err != nil {
		return err
	} else if !ok {
		return d.peekErr(EOFWhileParsingValue)
	}

	d.scratch = d.scratch[:0]
	switch {
	case ch == '-' && !isSigned:
		return d.peekErr(NumberOutOfRange)
	case ch == '-':
		d.src.Discard()
		d.scratch = append(d.scratch, '-')
	case !isDigit(ch):
		return d.peekInvalidType(v)
	}
	if err := d.scanInteger128(); err != nil {
		return err
	}
	at := d.src.Mark()

	n, ok := new(big.Int).SetString(string(d.scratch), 10)
	if !ok {
		return d.errAt(InvalidNumber)
	}
	lo, hi := minInt128, maxInt128
	if !isSigned {
		lo, hi = new(big.Int), maxUint128
	}
	if n.Cmp(lo) < 0 || n.Cmp(hi) > 0 {
		return d.errAt(NumberOutOfRange)
	}
	return d.fix(visitBigInt(v, n), at)
}

func visitBigInt(v Visitor, n *big.Int) error {
	if bv, ok := v.(BigIntVisitor); ok {
		return bv.VisitBigInt(n)
	} else if n.IsUint64() {
		return v.VisitUint64(n.Uint64())
	} else if n.IsInt64() {
		return v.VisitInt64(n.Int64())
	}
	return InvalidType(UnexpectedOther("integer `"+n.String()+"`"), v.Expecting())
}
