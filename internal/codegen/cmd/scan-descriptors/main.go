package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/openwire-go/openwire-gen/internal/codegen/meta"
	"github.com/openwire-go/openwire-gen/internal/codegen/model"
	"github.com/openwire-go/openwire-gen/internal/codegen/scanner"
)

// Usage: scan-descriptors <file-or-dir> [version]
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: scan-descriptors <file-or-dir> [version]")
		os.Exit(2)
	}

	version := 12
	if len(os.Args) > 2 {
		v, err := strconv.Atoi(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid version %q: %v\n", os.Args[2], err)
			os.Exit(2)
		}
		version = v
	}

	d, err := scanner.Scan(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to scan descriptors: %v\n", err)
		os.Exit(1)
	}
	set, err := model.NewClassSet(d.Classes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to link classes: %v\n", err)
		os.Exit(1)
	}

	plans, err := meta.New(meta.DefaultConfig(version)).AnalyzeAll(context.Background(), set.Classes())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to analyze classes: %v\n", err)
		os.Exit(1)
	}

	output, err := json.MarshalIndent(plans, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(output))
}
