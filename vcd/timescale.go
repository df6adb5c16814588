package vcd

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// unitFactors maps a VCD timescale unit to its value in femtoseconds,
// ordered coarsest-first so formatTimescale can prefer the coarsest unit
// that divides a value evenly.
var unitFactors = []struct {
	unit   string
	factor uint64
}{
	{"s", 1_000_000_000_000_000},
	{"ms", 1_000_000_000_000},
	{"us", 1_000_000_000},
	{"ns", 1_000_000},
	{"ps", 1_000},
	{"fs", 1},
}

// parseTimescale parses a $timescale value such as "1ns" or "10 ps" (already
// joined with a single space by takeToEnd) into femtoseconds per tick.
func parseTimescale(text string) (uint64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, ErrMalformedTimescale
	}

	// Split into the leading decimal run and the trailing unit, tolerating
	// either "1ns" or "1 ns" (a space between number and unit).
	fields := strings.Fields(text)
	var numStr, unitStr string
	switch len(fields) {
	case 1:
		i := 0
		for i < len(fields[0]) && fields[0][i] >= '0' && fields[0][i] <= '9' {
			i++
		}
		if i == 0 {
			return 0, ErrMalformedTimescale
		}
		numStr, unitStr = fields[0][:i], fields[0][i:]
	case 2:
		numStr, unitStr = fields[0], fields[1]
	default:
		return 0, ErrMalformedTimescale
	}

	n, err := strconv.ParseUint(numStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedTimescale, err)
	}

	for _, u := range unitFactors {
		if u.unit == unitStr {
			return n * u.factor, nil
		}
	}
	return 0, fmt.Errorf("%w: unrecognised unit %q", ErrMalformedTimescale, unitStr)
}

// formatTimescale renders a femtosecond value as a decimal integer followed
// by the coarsest unit that divides it evenly.
func formatTimescale(fs uint64) string {
	for _, u := range unitFactors {
		if fs%u.factor == 0 {
			return strconv.FormatUint(fs/u.factor, 10) + u.unit
		}
	}
	// Unreachable: "fs" has factor 1 and divides everything.
	return strconv.FormatUint(fs, 10) + "fs"
}

// gcd returns the greatest common divisor of a and b, for any integer type.
func gcd[T constraints.Integer](a, b T) T {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// ReconcileTimescales computes the gcd of every input's femtosecond
// timescale, rewrites each input's Timescale field to the integer
// multiplier by which its raw timestamps must be scaled to reach output
// units, and returns the canonical output timescale string.
func ReconcileTimescales(inputs []*VcdInput) (string, error) {
	if len(inputs) == 0 {
		return "", ErrNoInputs
	}

	g := inputs[0].timescaleFs
	for _, in := range inputs[1:] {
		g = gcd(g, in.timescaleFs)
	}
	if g == 0 {
		return "", ErrNoTimescale
	}

	for _, in := range inputs {
		in.Timescale = in.timescaleFs / g
	}

	return formatTimescale(g), nil
}
