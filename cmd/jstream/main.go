// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Program jstream decodes a stream of concatenated JSON values and prints
// each value in compact form, one per line.
//
// Usage:
//
//	jstream [options] [file ...]
//
// With no files, or with "-", jstream reads standard input.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/creachadair/jdecode"
	"github.com/creachadair/jdecode/value"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/tailscale/hujson"
)

type options struct {
	HuJSON       bool
	Arbitrary    bool
	RoundTrip    bool
	NoDepthLimit bool
	Offsets      bool
	Raw          bool
	Debug        bool
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var opts options
	fs := pflag.NewFlagSet("jstream", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&opts.HuJSON, "hujson", false, "Accept comments and trailing commas (HuJSON)")
	fs.BoolVarP(&opts.Arbitrary, "arbitrary-precision", "a", false, "Preserve numbers beyond 64 bits as text")
	fs.BoolVarP(&opts.RoundTrip, "round-trip", "r", false, "Convert floating-point numbers exactly")
	fs.BoolVar(&opts.NoDepthLimit, "no-depth-limit", false, "Disable the nesting depth limit")
	fs.BoolVarP(&opts.Offsets, "offsets", "o", false, "Prefix each value with its ending byte offset")
	fs.BoolVar(&opts.Raw, "raw", false, "Print the source text of each value unmodified")
	fs.BoolVar(&opts.Debug, "debug", false, "Enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: stderr}).Level(level).With().Timestamp().Logger()

	inputs := fs.Args()
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	for _, name := range inputs {
		if err := processInput(name, stdin, stdout, opts, log); err != nil {
			return err
		}
	}
	return nil
}

// processInput decodes and prints the values in the named input.
func processInput(name string, stdin io.Reader, stdout io.Writer, opts options, log zerolog.Logger) error {
	r := stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	s, err := openStream(r, opts.HuJSON)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	d := s.Decoder()
	d.ArbitraryPrecision(opts.Arbitrary)
	d.RoundTripFloats(opts.RoundTrip)
	if opts.NoDepthLimit {
		d.DisableRecursionLimit()
	}

	var nv int
	for {
		text, err := nextValue(s, opts.Raw)
		if err == io.EOF {
			break
		} else if err != nil {
			ev := log.Error().Err(err).Str("input", name).Int("offset", s.ByteOffset())
			var de *jdecode.Error
			if errors.As(err, &de) && !de.Location.IsZero() {
				ev = ev.Int("line", de.Location.Line).Int("column", de.Location.Column)
			}
			ev.Msg("decoding failed")
			return fmt.Errorf("%s: %w", name, err)
		}
		nv++
		log.Debug().Str("input", name).Int("offset", s.ByteOffset()).Msg("decoded value")

		if opts.Offsets {
			fmt.Fprintf(stdout, "%d\t%s\n", s.ByteOffset(), text)
		} else {
			fmt.Fprintln(stdout, text)
		}
	}
	log.Debug().Str("input", name).Int("values", nv).Msg("done")
	return nil
}

// openStream returns a stream over the contents of r. HuJSON input is read
// fully and standardized, which leaves the byte offsets of values unchanged.
func openStream(r io.Reader, huJSON bool) (*jdecode.Stream, error) {
	if !huJSON {
		return jdecode.StreamReader(r), nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, err
	}
	return jdecode.StreamSlice(std), nil
}

// nextValue decodes the next value from s and returns its text.
func nextValue(s *jdecode.Stream, raw bool) (string, error) {
	if raw {
		var text string
		err := s.Next(jdecode.Raw(&text))
		return text, err
	}
	var v value.Value
	if err := s.Next(value.Seed(&v)); err != nil {
		return "", err
	}
	return v.JSON(), nil
}
