package vcd

import (
	"fmt"
	"strings"

	"github.com/vcdtools/vcd-merger/idcode"
)

// Header accumulates the merged $date/$version/$timescale directives. Only
// the first input to supply each field wins (spec'd behaviour); Timescale is
// not set by ParseHeader: the caller assigns it afterwards from the string
// ReconcileTimescales returns.
type Header struct {
	Date    *string
	Version *string

	// Timescale is the canonical output timescale string, e.g. "10ps".
	// Left empty until the caller stores ReconcileTimescales' result here.
	Timescale string
}

// VcdInput holds everything the merge writer needs from one input file: its
// byte image, where its prelude ends, the declarations to re-emit verbatim,
// the old-to-new IdCode map, and the integer multiplier that scales its raw
// timestamps into output-timescale units.
type VcdInput struct {
	Path string
	Data []byte

	// EndOfDefinitions is the offset of the first body byte.
	EndOfDefinitions int

	// Declarations are $scope/$var/$upscope lines, already rewritten with
	// new IdCodes, in file order, each terminated by "\n".
	Declarations []string

	SymbolMap map[idcode.IdCode]idcode.IdCode

	// timescaleFs is this input's raw per-tick timescale in femtoseconds,
	// set by ParseHeader. Timescale (the integer multiplier applied to raw
	// timestamps) is filled in later by ReconcileTimescales.
	timescaleFs uint64
	Timescale   uint64
}

// ParseHeader tokenises one input's prelude, allocating fresh IdCodes via
// alloc and merging $date/$version into header. It returns a VcdInput ready
// for timescale reconciliation and section finding.
func ParseHeader(path string, data []byte, alloc *idcode.Allocator, header *Header) (*VcdInput, error) {
	in := &VcdInput{
		Path:             path,
		Data:             data,
		SymbolMap:        make(map[idcode.IdCode]idcode.IdCode),
		EndOfDefinitions: len(data),
	}

	tz := newTokenizer(data)
	haveTimescale := false

	for {
		tok, ok := tz.next()
		if !ok {
			break
		}

		switch string(tok) {
		case "$date":
			text := takeToEnd(tz)
			if header.Date == nil {
				header.Date = &text
			}

		case "$version":
			text := takeToEnd(tz)
			if header.Version == nil {
				header.Version = &text
			}

		case "$timescale":
			text := strings.TrimRight(takeToEnd(tz), " ")
			fs, err := parseTimescale(text)
			if err != nil {
				return nil, fmt.Errorf("%s: %w: %q", path, err, text)
			}
			in.timescaleFs = fs
			haveTimescale = true

		case "$scope":
			typ, ok1 := tz.next()
			name, ok2 := tz.next()
			end, ok3 := tz.next()
			if !ok1 || !ok2 || !ok3 || string(end) != "$end" {
				return nil, fmt.Errorf("%s: %w: $scope", path, ErrMalformedDirective)
			}
			in.Declarations = append(in.Declarations, fmt.Sprintf("$scope %s %s $end\n", typ, name))

		case "$var":
			typ, ok1 := tz.next()
			width, ok2 := tz.next()
			idTok, ok3 := tz.next()
			if !ok1 || !ok2 || !ok3 {
				return nil, fmt.Errorf("%s: %w: $var", path, ErrMalformedDirective)
			}
			name := strings.TrimRight(takeToEnd(tz), " ")

			oldID, err := idcode.Parse(idTok)
			if err != nil {
				return nil, fmt.Errorf("%s: $var id: %w", path, err)
			}

			newID, seen := in.SymbolMap[oldID]
			if !seen {
				newID, err = alloc.Next()
				if err != nil {
					return nil, fmt.Errorf("%s: %w", path, err)
				}
				in.SymbolMap[oldID] = newID
			}

			in.Declarations = append(in.Declarations, fmt.Sprintf("$var %s %s %s %s $end\n", typ, width, newID.String(), name))

		case "$upscope":
			end, ok := tz.next()
			if !ok || string(end) != "$end" {
				return nil, fmt.Errorf("%s: %w: $upscope", path, ErrMalformedDirective)
			}
			in.Declarations = append(in.Declarations, "$upscope $end\n")

		case "$enddefinitions":
			end, ok := tz.next()
			if !ok || string(end) != "$end" {
				return nil, fmt.Errorf("%s: %w: $enddefinitions", path, ErrMalformedDirective)
			}
			in.EndOfDefinitions = startOfNextLine(data, tz.pos)
			if !haveTimescale {
				return nil, fmt.Errorf("%s: %w", path, ErrNoTimescale)
			}
			return in, nil

		case "$dumpvars":
			in.EndOfDefinitions = tz.lineStart
			if !haveTimescale {
				return nil, fmt.Errorf("%s: %w", path, ErrNoTimescale)
			}
			return in, nil

		default:
			// Unrecognised initial token: prelude ends here, the rest of
			// the file (starting at this line) is body.
			in.EndOfDefinitions = tz.lineStart
			if !haveTimescale {
				return nil, fmt.Errorf("%s: %w", path, ErrNoTimescale)
			}
			return in, nil
		}
	}

	// Reached EOF without $enddefinitions, $dumpvars, or an unrecognised
	// token: the whole file was prelude.
	if !haveTimescale {
		return nil, fmt.Errorf("%s: %w", path, ErrNoTimescale)
	}
	return in, nil
}

// takeToEnd joins tokens with a single space each, up to and including the
// "$end" terminator, and preserves the trailing space the join leaves
// behind (matching $date/$version semantics).
func takeToEnd(tz *tokenizer) string {
	var sb strings.Builder
	for {
		tok, ok := tz.next()
		if !ok || string(tok) == "$end" {
			break
		}
		sb.Write(tok)
		sb.WriteByte(' ')
	}
	return sb.String()
}

// startOfNextLine returns the offset of the first byte after the next
// newline at or after pos, or len(data) if there is none.
func startOfNextLine(data []byte, pos int) int {
	for i := pos; i < len(data); i++ {
		if data[i] == '\n' {
			return i + 1
		}
	}
	return len(data)
}

// tokenizer splits a byte slice into whitespace-delimited tokens while
// tracking the start offset of the line containing the token most recently
// returned by next.
type tokenizer struct {
	data      []byte
	pos       int
	lineStart int
}

func newTokenizer(data []byte) *tokenizer {
	return &tokenizer{data: data}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r'
}

func (t *tokenizer) next() ([]byte, bool) {
	for t.pos < len(t.data) {
		c := t.data[t.pos]
		if c == '\n' {
			t.pos++
			t.lineStart = t.pos
			continue
		}
		if isSpace(c) {
			t.pos++
			continue
		}
		break
	}
	if t.pos >= len(t.data) {
		return nil, false
	}
	start := t.pos
	for t.pos < len(t.data) {
		c := t.data[t.pos]
		if c == '\n' || isSpace(c) {
			break
		}
		t.pos++
	}
	return t.data[start:t.pos], true
}
