// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jdecode

import (
	"strings"

	"github.com/creachadair/jdecode/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as a JSON string value. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string { return string(escape.Quote(mem.S(src))) }

// Unquote decodes a JSON string value. Double quotation marks are removed,
// and escape sequences are replaced with their unescaped equivalents.
//
// Unquote reports an error of concrete type *Error for an invalid or
// incomplete escape sequence, or an unpaired surrogate.
func Unquote(src string) ([]byte, error) {
	if len(src) < 2 || !strings.HasPrefix(src, `"`) || !strings.HasSuffix(src, `"`) {
		return nil, &Error{Code: ExpectedDoubleQuote, Message: "missing quotations"}
	}
	dec, err := escape.Unquote(mem.S(src[1 : len(src)-1]))
	if err != nil {
		return nil, escapeError(err, LineCol{})
	}
	return dec, nil
}
