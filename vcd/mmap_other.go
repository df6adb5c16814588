//go:build !linux && !darwin

package vcd

import (
	"io"
	"os"
)

// openMapped has no mmap implementation for this platform; it reads the
// whole file into a heap-allocated buffer instead. Sections still end up as
// zero-copy subslices of that buffer — the only cost relative to a true
// mmap is the one-time up-front read.
func openMapped(path string) ([]byte, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}

	buf := make([]byte, st.Size())
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, nil, err
	}
	return buf, func() error { return nil }, nil
}
