// Package idcode implements the compact identifier codes VCD traces use to
// name signals, and a monotonic allocator that hands out fresh codes.
package idcode

import (
	"errors"
	"fmt"
	"sync"
)

// Len is the maximum number of bytes an IdCode may hold.
const Len = 4

// minDigit and maxDigit bound the printable-ASCII alphabet an IdCode digit
// may take.
const (
	minDigit byte = 0x21
	maxDigit byte = 0x7E
)

// IdCode is a 1-4 byte printable-ASCII identifier, left-aligned and
// zero-padded to a fixed width so it can be compared and hashed as a plain
// array value instead of through a string or slice indirection.
type IdCode [Len]byte

// ErrTooLong is returned by Parse when given more than Len bytes.
var ErrTooLong = errors.New("idcode: code longer than 4 bytes")

// ErrEmpty is returned by Parse when given zero bytes.
var ErrEmpty = errors.New("idcode: empty code")

// ErrNotPrintable is returned by Parse when a byte falls outside 0x21..0x7E.
var ErrNotPrintable = errors.New("idcode: byte outside printable ASCII range")

// Parse validates and stores 1-4 printable-ASCII bytes as an IdCode.
func Parse(b []byte) (IdCode, error) {
	var c IdCode
	if len(b) == 0 {
		return c, ErrEmpty
	}
	if len(b) > Len {
		return c, fmt.Errorf("%w: %q", ErrTooLong, b)
	}
	for _, x := range b {
		if x < minDigit || x > maxDigit {
			return c, fmt.Errorf("%w: 0x%02x", ErrNotPrintable, x)
		}
	}
	copy(c[:], b)
	return c, nil
}

// String renders the code as its printable bytes, with the zero padding
// trimmed off.
func (c IdCode) String() string {
	n := 0
	for n < Len && c[n] != 0 {
		n++
	}
	return string(c[:n])
}

// Allocator hands out successive, process-wide unique IdCodes by advancing a
// little-endian odometer over the printable-ASCII alphabet: "!", "\"", …,
// "~", "!!", "\"!", …, through every code of one to four digits
// (94 + 94^2 + 94^3 + 94^4 distinct codes).
//
// The zero value is ready to use. Under the single-threaded model described
// by the merge pipeline, Next needs no synchronization of its own, but the
// mutex is kept so a future parallel header-parsing stage can share one
// Allocator across goroutines without other changes.
type Allocator struct {
	mu        sync.Mutex
	digits    []byte
	exhausted bool
}

// ErrExhausted is returned once every code of one to four digits has been
// allocated.
var ErrExhausted = errors.New("idcode: allocator exhausted")

// Next returns the next unused IdCode and advances the allocator's state.
func (a *Allocator) Next() (IdCode, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.exhausted {
		return IdCode{}, ErrExhausted
	}
	if len(a.digits) == 0 {
		a.digits = []byte{minDigit}
	}

	var out IdCode
	copy(out[:], a.digits)

	for i := 0; i < len(a.digits); i++ {
		if a.digits[i] < maxDigit {
			a.digits[i]++
			return out, nil
		}
		a.digits[i] = minDigit
		if i == len(a.digits)-1 {
			if len(a.digits) == Len {
				a.exhausted = true
				return out, nil
			}
			a.digits = append(a.digits, minDigit)
			return out, nil
		}
	}
	return out, nil
}
