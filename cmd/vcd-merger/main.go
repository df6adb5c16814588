// Command vcd-merger merges multiple Value Change Dump files into one VCD
// whose signal changes appear in non-decreasing simulation time.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/vcdtools/vcd-merger/idcode"
	"github.com/vcdtools/vcd-merger/vcd"
)

func main() {
	args := os.Args[1:]
	if len(args) < 2 {
		fmt.Println("usage: vcd-merger <input.vcd> [<input.vcd> ...] <output.vcd>")
		return
	}

	inputPaths := args[:len(args)-1]
	outputPath := args[len(args)-1]

	if err := run(inputPaths, outputPath); err != nil {
		log.Fatalf("vcd-merger: %v", err)
	}
}

func run(inputPaths []string, outputPath string) error {
	var alloc idcode.Allocator
	var header vcd.Header

	inputs := make([]*vcd.VcdInput, 0, len(inputPaths))
	for _, path := range inputPaths {
		in, closeFn, err := vcd.OpenInput(path, &alloc, &header)
		if err != nil {
			return err
		}
		defer closeFn()
		inputs = append(inputs, in)
		log.Printf("parsed %s: %d declarations", path, len(in.Declarations))
	}

	timescale, err := vcd.ReconcileTimescales(inputs)
	if err != nil {
		return err
	}
	header.Timescale = timescale
	log.Printf("merged timescale: %s", timescale)

	sections, err := vcd.FindSections(inputs)
	if err != nil {
		return err
	}
	log.Printf("found %d sections across %d inputs", len(sections), len(inputs))

	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := vcd.Merge(out, &header, inputs, sections); err != nil {
		return err
	}

	log.Printf("wrote %s", outputPath)
	return nil
}
