package vcd

import "testing"

func TestParseTimescale(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{in: "1ns", want: 1_000_000},
		{in: "10 ps", want: 10_000},
		{in: "1s", want: 1_000_000_000_000_000},
		{in: "100fs", want: 100},
		{in: "1 us", want: 1_000_000_000},
		{in: "", wantErr: true},
		{in: "ns", wantErr: true},
		{in: "1xyz", wantErr: true},
		{in: "1 2 3", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTimescale(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseTimescale(%q) = %d, nil, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseTimescale(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("parseTimescale(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatTimescale(t *testing.T) {
	tests := []struct {
		fs   uint64
		want string
	}{
		{fs: 1_000_000, want: "1ns"},
		{fs: 10_000, want: "10ps"},
		{fs: 1_000_000_000_000_000, want: "1s"},
		{fs: 100, want: "100fs"},
		{fs: 1, want: "1fs"},
		{fs: 2_000_000, want: "2ns"},
	}
	for _, tt := range tests {
		if got := formatTimescale(tt.fs); got != tt.want {
			t.Errorf("formatTimescale(%d) = %q, want %q", tt.fs, got, tt.want)
		}
	}
}

func TestReconcileTimescalesMixed(t *testing.T) {
	a := &VcdInput{Path: "a.vcd", timescaleFs: 1_000_000}  // 1ns
	b := &VcdInput{Path: "b.vcd", timescaleFs: 10_000}     // 10ps
	inputs := []*VcdInput{a, b}

	out, err := ReconcileTimescales(inputs)
	if err != nil {
		t.Fatalf("ReconcileTimescales: unexpected error: %v", err)
	}
	if out != "10ps" {
		t.Errorf("output timescale = %q, want %q", out, "10ps")
	}
	if a.Timescale != 100 {
		t.Errorf("a.Timescale = %d, want 100 (every A tick becomes 100x)", a.Timescale)
	}
	if b.Timescale != 1 {
		t.Errorf("b.Timescale = %d, want 1 (B passes through unchanged)", b.Timescale)
	}
}

func TestReconcileTimescalesEqual(t *testing.T) {
	a := &VcdInput{Path: "a.vcd", timescaleFs: 1_000_000}
	b := &VcdInput{Path: "b.vcd", timescaleFs: 1_000_000}
	out, err := ReconcileTimescales([]*VcdInput{a, b})
	if err != nil {
		t.Fatalf("ReconcileTimescales: unexpected error: %v", err)
	}
	if out != "1ns" {
		t.Errorf("output timescale = %q, want %q", out, "1ns")
	}
	if a.Timescale != 1 || b.Timescale != 1 {
		t.Errorf("multipliers = %d, %d, want 1, 1", a.Timescale, b.Timescale)
	}
}

func TestReconcileTimescalesNoInputs(t *testing.T) {
	if _, err := ReconcileTimescales(nil); err != ErrNoInputs {
		t.Errorf("ReconcileTimescales(nil) = %v, want ErrNoInputs", err)
	}
}
