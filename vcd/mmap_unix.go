//go:build linux || darwin

package vcd

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// openMapped memory-maps path read-only, returning the mapped bytes and a
// closer that unmaps (and closes the file descriptor) when the caller is
// done with it. If mmap itself fails — a network filesystem, some other
// special file — it falls back to a plain buffered read, the same shape the
// retrieved Alain-L-quellog/parser mmap parser uses. A file whose Stat size
// is zero (which includes a pipe) is returned as an empty slice without
// mapping or reading it.
func openMapped(path string) ([]byte, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	size := st.Size()
	if size == 0 {
		f.Close()
		return nil, func() error { return nil }, nil
	}

	data, mmapErr := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if mmapErr != nil {
		buf := make([]byte, size)
		_, readErr := io.ReadFull(f, buf)
		closeErr := f.Close()
		if readErr != nil {
			return nil, nil, fmt.Errorf("mmap %s: %w (buffered fallback also failed: %v)", path, mmapErr, readErr)
		}
		if closeErr != nil {
			return nil, nil, closeErr
		}
		return buf, func() error { return nil }, nil
	}

	closer := func() error {
		uerr := unix.Munmap(data)
		cerr := f.Close()
		if uerr != nil {
			return uerr
		}
		return cerr
	}
	return data, closer, nil
}
