package vcd

import "errors"

var (
	// ErrNoTimescale is returned when an input declares no $timescale.
	ErrNoTimescale = errors.New("vcd: missing $timescale")

	// ErrMalformedTimescale is returned when a $timescale value cannot be
	// parsed as an integer followed by a recognised unit.
	ErrMalformedTimescale = errors.New("vcd: malformed $timescale")

	// ErrMalformedDirective is returned when a $scope/$var/$upscope/
	// $enddefinitions directive is missing required tokens or its $end.
	ErrMalformedDirective = errors.New("vcd: malformed directive")

	// ErrUnknownSymbol is returned when a value-change line in the body
	// references an IdCode absent from its input's symbol map.
	ErrUnknownSymbol = errors.New("vcd: value change references unknown symbol")

	// ErrMalformedTimestamp is returned when a '#' line contains non-digit
	// bytes.
	ErrMalformedTimestamp = errors.New("vcd: malformed timestamp")

	// ErrNoInputs is returned when Merge is asked to run with zero inputs.
	ErrNoInputs = errors.New("vcd: no inputs")
)
