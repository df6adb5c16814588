package vcd

import (
	"bufio"
	"bytes"
	"container/heap"
	"fmt"
	"io"
	"strconv"

	"github.com/vcdtools/vcd-merger/idcode"
)

// outputBufferSize matches the teacher's "large buffered writer" idiom,
// sized per spec.md §5 (~64 KiB).
const outputBufferSize = 64 * 1024

// Merge writes the merged header, every input's declarations, and the
// k-way-merged body to w. Sections must already be produced by
// FindSections over the same inputs, in input-then-file order.
func Merge(w io.Writer, header *Header, inputs []*VcdInput, sections []Section) error {
	if len(inputs) == 0 {
		return ErrNoInputs
	}

	bw := bufio.NewWriterSize(w, outputBufferSize)

	if header.Date != nil {
		if _, err := fmt.Fprintf(bw, "$date %s$end\n", *header.Date); err != nil {
			return err
		}
	}
	if header.Version != nil {
		if _, err := fmt.Fprintf(bw, "$version %s$end\n", *header.Version); err != nil {
			return err
		}
	}
	if header.Timescale != "" {
		if _, err := fmt.Fprintf(bw, "$timescale %s $end\n", header.Timescale); err != nil {
			return err
		}
	}

	for _, in := range inputs {
		for _, line := range in.Declarations {
			if _, err := bw.WriteString(line); err != nil {
				return err
			}
		}
	}

	if _, err := bw.WriteString("$enddefinitions $end\n"); err != nil {
		return err
	}

	if err := mergeBody(bw, sections); err != nil {
		return err
	}

	return bw.Flush()
}

// cursor tracks one section's progress through the k-way merge: the
// timestamp it will next emit, its stable tie-break index, and the
// as-yet-unconsumed tail of its section bytes (always starting at a "#N"
// line).
type cursor struct {
	ts        uint64
	seq       int
	owner     *VcdInput
	remaining []byte
}

type cursorHeap []*cursor

func (h cursorHeap) Len() int { return len(h) }
func (h cursorHeap) Less(i, j int) bool {
	if h[i].ts != h[j].ts {
		return h[i].ts < h[j].ts
	}
	return h[i].seq < h[j].seq
}
func (h cursorHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *cursorHeap) Push(x any)   { *h = append(*h, x.(*cursor)) }
func (h *cursorHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return c
}

func mergeBody(bw *bufio.Writer, sections []Section) error {
	h := make(cursorHeap, 0, len(sections))
	for i := range sections {
		s := &sections[i]
		h = append(h, &cursor{ts: s.FirstTS, seq: i, owner: s.Owner, remaining: s.Bytes})
	}
	heap.Init(&h)

	var lastTS uint64
	haveLast := false

	for h.Len() > 0 {
		c := h[0]

		if !haveLast || c.ts != lastTS {
			if err := writeTimestamp(bw, c.ts); err != nil {
				return err
			}
			lastTS = c.ts
			haveLast = true
		}

		// Consume the leading "#N" line that established c.ts.
		_, rest := nextLine(c.remaining)
		c.remaining = rest

		exhausted, err := advanceCursor(bw, c)
		if err != nil {
			return err
		}
		if exhausted {
			heap.Pop(&h)
		} else {
			heap.Fix(&h, 0)
		}
	}
	return nil
}

// advanceCursor emits value-change lines from the front of c.remaining until
// it either hits a new "#N" line (updates c.ts/c.remaining and returns
// false) or runs out of bytes (returns true).
func advanceCursor(bw *bufio.Writer, c *cursor) (exhausted bool, err error) {
	for len(c.remaining) > 0 {
		full := c.remaining
		line, rest := nextLine(full)
		trimmed := bytes.TrimRight(line, "\r\n")

		if len(trimmed) == 0 {
			c.remaining = rest
			continue
		}

		switch trimmed[0] {
		case '$':
			c.remaining = rest
			continue

		case '#':
			ts, err := parseTimestampLine(line)
			if err != nil {
				return false, fmt.Errorf("%s: %w", c.owner.Path, err)
			}
			c.ts = ts * c.owner.Timescale
			c.remaining = full
			return false, nil

		default:
			if err := emitValueLine(bw, trimmed, c.owner); err != nil {
				return false, err
			}
			c.remaining = rest
			continue
		}
	}
	return true, nil
}

// emitValueLine rewrites one already-trimmed, non-empty, non-directive body
// line with its new IdCode and writes it (with a trailing "\n") to bw.
func emitValueLine(bw *bufio.Writer, trimmed []byte, owner *VcdInput) error {
	var prefix, idBytes []byte

	switch trimmed[0] {
	case 'b', 'r':
		sp := bytes.IndexByte(trimmed, ' ')
		if sp < 0 {
			return fmt.Errorf("%s: malformed vector/real value line %q", owner.Path, trimmed)
		}
		prefix, idBytes = trimmed[:sp+1], trimmed[sp+1:]
	default:
		prefix, idBytes = trimmed[:1], trimmed[1:]
	}

	oldID, err := idcode.Parse(idBytes)
	if err != nil {
		return fmt.Errorf("%s: %w", owner.Path, err)
	}
	newID, ok := owner.SymbolMap[oldID]
	if !ok {
		return fmt.Errorf("%s: %w: %q", owner.Path, ErrUnknownSymbol, idBytes)
	}

	if _, err := bw.Write(prefix); err != nil {
		return err
	}
	if _, err := bw.WriteString(newID.String()); err != nil {
		return err
	}
	return bw.WriteByte('\n')
}

// writeTimestamp writes "#<ts>\n" using a stack-allocated buffer, per the
// rendering approach in spec.md §9.
func writeTimestamp(bw *bufio.Writer, ts uint64) error {
	var buf [1 + 20 + 1]byte
	buf[0] = '#'
	n := strconv.AppendUint(buf[1:1], ts, 10)
	end := 1 + len(n)
	buf[end] = '\n'
	_, err := bw.Write(buf[:end+1])
	return err
}

// nextLine splits b at its first newline, returning the line (including the
// newline, if any) and the remaining bytes.
func nextLine(b []byte) (line, rest []byte) {
	i := bytes.IndexByte(b, '\n')
	if i < 0 {
		return b, nil
	}
	return b[:i+1], b[i+1:]
}
