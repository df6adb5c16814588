package vcd

import (
	"bytes"
	"fmt"
	"strconv"
)

// Section is a maximal contiguous byte range of one input's body whose
// timestamp lines, scaled to output units, are non-decreasing.
type Section struct {
	FirstTS uint64
	Bytes   []byte
	Owner   *VcdInput
}

// FindSections scans every input's body in a single streaming pass, in
// argument order, splitting each at timestamp regressions. Inputs must
// already have Timescale set by ReconcileTimescales.
func FindSections(inputs []*VcdInput) ([]Section, error) {
	var sections []Section
	for _, in := range inputs {
		found, err := findSectionsInInput(in)
		if err != nil {
			return nil, err
		}
		sections = append(sections, found...)
	}
	return sections, nil
}

type sectionBuilder struct {
	startOffset int
	firstTS     uint64
	lastTS      uint64
}

func findSectionsInInput(in *VcdInput) ([]Section, error) {
	data := in.Data
	var sections []Section
	var cur *sectionBuilder

	pos := in.EndOfDefinitions
	for pos < len(data) {
		lineStart := pos
		lineEnd := len(data)
		if nl := bytes.IndexByte(data[pos:], '\n'); nl >= 0 {
			lineEnd = pos + nl + 1
		}
		pos = lineEnd

		if lineEnd <= lineStart || data[lineStart] != '#' {
			continue
		}

		ts, err := parseTimestampLine(data[lineStart:lineEnd])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", in.Path, err)
		}
		ts *= in.Timescale

		switch {
		case cur == nil:
			cur = &sectionBuilder{startOffset: lineStart, firstTS: ts, lastTS: ts}
		case ts < cur.lastTS:
			sections = append(sections, Section{
				FirstTS: cur.firstTS,
				Bytes:   data[cur.startOffset:lineStart],
				Owner:   in,
			})
			cur = &sectionBuilder{startOffset: lineStart, firstTS: ts, lastTS: ts}
		default:
			cur.lastTS = ts
		}
	}

	if cur != nil {
		sections = append(sections, Section{
			FirstTS: cur.firstTS,
			Bytes:   data[cur.startOffset:],
			Owner:   in,
		})
	}
	return sections, nil
}

// parseTimestampLine parses the decimal integer following '#' in a
// "#N\n"-shaped line. Trailing "\r\n" is tolerated; any other non-digit
// byte before the line end is fatal.
func parseTimestampLine(line []byte) (uint64, error) {
	end := len(line)
	for end > 0 && (line[end-1] == '\n' || line[end-1] == '\r') {
		end--
	}
	digits := line[1:end]
	if len(digits) == 0 {
		return 0, fmt.Errorf("%w: empty timestamp", ErrMalformedTimestamp)
	}
	n, err := strconv.ParseUint(string(digits), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, digits)
	}
	return n, nil
}
