package vcd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/vcdtools/vcd-merger/idcode"
)

// writeTemp writes content to dir/name and returns the path.
func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", name, err)
	}
	return path
}

// TestEndToEndTwoInputsViaFiles drives the real OpenInput -> mmap/fallback
// path (not just in-memory ParseHeader) to exercise the file-opening glue
// the CLI itself uses.
func TestEndToEndTwoInputsViaFiles(t *testing.T) {
	dir := t.TempDir()
	path1 := writeTemp(t, dir, "test1.vcd", "$timescale 1ns $end\n"+
		"$scope module a $end\n"+
		"$var wire 1 ! sigA $end\n"+
		"$upscope $end\n"+
		"$enddefinitions $end\n"+
		"#0\n"+
		"1!\n"+
		"#20\n"+
		"0!\n")
	path2 := writeTemp(t, dir, "test2.vcd", "$timescale 1ns $end\n"+
		"$scope module b $end\n"+
		"$var wire 1 ! sigB $end\n"+
		"$upscope $end\n"+
		"$enddefinitions $end\n"+
		"#10\n"+
		"1!\n"+
		"#30\n"+
		"0!\n")

	var alloc idcode.Allocator
	var header Header

	in1, close1, err := OpenInput(path1, &alloc, &header)
	if err != nil {
		t.Fatalf("OpenInput(%s): %v", path1, err)
	}
	defer close1()
	in2, close2, err := OpenInput(path2, &alloc, &header)
	if err != nil {
		t.Fatalf("OpenInput(%s): %v", path2, err)
	}
	defer close2()

	inputs := []*VcdInput{in1, in2}
	timescale, err := ReconcileTimescales(inputs)
	if err != nil {
		t.Fatalf("ReconcileTimescales: %v", err)
	}
	header.Timescale = timescale

	sections, err := FindSections(inputs)
	if err != nil {
		t.Fatalf("FindSections: %v", err)
	}

	outPath := filepath.Join(dir, "merged.vcd")
	out, err := os.Create(outPath)
	if err != nil {
		t.Fatalf("Create output: %v", err)
	}
	if err := Merge(out, &header, inputs, sections); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close output: %v", err)
	}

	merged, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile(merged): %v", err)
	}
	assertMonotoneAndDeduped(t, merged)

	want := "$timescale 1ns $end\n" +
		"$scope module a $end\n" +
		"$var wire 1 ! sigA $end\n" +
		"$upscope $end\n" +
		"$scope module b $end\n" +
		"$var wire 1 \" sigB $end\n" +
		"$upscope $end\n" +
		"$enddefinitions $end\n" +
		"#0\n" +
		"1!\n" +
		"#10\n" +
		"1\"\n" +
		"#20\n" +
		"0!\n" +
		"#30\n" +
		"0\"\n"

	if !bytes.Equal(merged, []byte(want)) {
		t.Errorf("merged output =\n%q\nwant\n%q", merged, want)
	}
}

// TestEndToEndEmptyInputIsRejected exercises the size==0 path in
// openMapped: an empty file has no $timescale, so OpenInput must fail.
func TestEndToEndEmptyInputIsRejected(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "empty.vcd", "")

	var alloc idcode.Allocator
	var header Header
	if _, closeFn, err := OpenInput(path, &alloc, &header); err == nil {
		if closeFn != nil {
			closeFn()
		}
		t.Fatal("OpenInput on an empty file with no $timescale = nil error, want error")
	}
}
