package vcd

import (
	"fmt"

	"github.com/vcdtools/vcd-merger/idcode"
)

// OpenInput memory-maps path, parses its prelude, and merges its $date/
// $version into header. The returned close func must be called once the
// input's sections have been fully consumed by Merge.
func OpenInput(path string, alloc *idcode.Allocator, header *Header) (in *VcdInput, closeFn func() error, err error) {
	data, closeFn, err := openMapped(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}

	in, err = ParseHeader(path, data, alloc, header)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return in, closeFn, nil
}
