// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Command tristrip reads an indexed triangle mesh from a JSON file and
// writes the stripified result back out as JSON.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/alexflint/go-arg"
	"go.uber.org/zap"

	"github.com/Source-Authors/NvTriStrip"
)

// meshFile is the on-disk format accepted on input (the result is
// written as an outputFile). It is deliberately minimal: no normals, UVs, or material
// assignments, since those play no role in stripification. Converting
// from a richer format (OBJ, glTF) is left to the caller.
type meshFile struct {
	Indices  []uint32 `json:"indices"`
	MaxIndex uint32   `json:"maxIndex"`
}

type outputFile struct {
	Groups []outputGroup `json:"groups"`
}

type outputGroup struct {
	Kind    string   `json:"kind"`
	Indices []uint32 `json:"indices"`
}

// Args are what are used to build the CLI.
type Args struct {
	Input  string `arg:"positional,required" help:"input mesh JSON file"`
	Output string `arg:"positional" help:"output mesh JSON file (default: stdout)"`

	CacheSize    int  `arg:"--cache-size" default:"16" help:"declared post-transform vertex cache size"`
	NoStitch     bool `arg:"--no-stitch" help:"emit one STRIP group per strip instead of one stitched group"`
	MinStripSize int  `arg:"--min-strip-size" help:"drop strips shorter than this many triangles into the trailing list"`
	ListsOnly    bool `arg:"--lists-only" help:"flatten the pipeline's committed strips into a single triangle list instead of emitting strips"`
	Remap        bool `arg:"--remap" help:"renumber vertices in first-touch order after stripification"`
	Verbose      bool `arg:"--verbose" help:"log every non-fatal diagnostic as it's discovered"`
}

// Main program that returns error.
func Main() error {
	args := Args{CacheSize: 16}
	config := arg.Config{}
	parser, err := arg.NewParser(config, &args)
	if err != nil {
		// programming error
		return err
	}
	if err := parser.Parse(os.Args[1:]); err != nil {
		if err == arg.ErrHelp {
			parser.WriteHelp(os.Stdout)
			return nil
		}
		return err
	}

	in, err := os.ReadFile(args.Input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", args.Input, err)
	}
	var mesh meshFile
	if err := json.Unmarshal(in, &mesh); err != nil {
		return fmt.Errorf("parsing %s: %w", args.Input, err)
	}

	cfg := tristrip.DefaultConfig()
	cfg.CacheSize = args.CacheSize
	cfg.StitchStrips = !args.NoStitch
	cfg.MinStripSize = args.MinStripSize
	cfg.ListsOnly = args.ListsOnly

	if args.Verbose {
		z, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		defer z.Sync()
		cfg.Logger = tristrip.NewZapLogger(z)
	}

	maxIndex := mesh.MaxIndex
	for _, idx := range mesh.Indices {
		if idx > maxIndex {
			maxIndex = idx
		}
	}

	groups, err := tristrip.Stripify(mesh.Indices, maxIndex, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tristrip: %v\n", err)
	}

	if args.Remap {
		groups, _ = tristrip.Remap(groups, int(maxIndex)+1)
	}

	out := outputFile{Groups: make([]outputGroup, len(groups))}
	for i, g := range groups {
		out.Groups[i] = outputGroup{Kind: g.Kind.String(), Indices: g.Indices}
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	if args.Output == "" {
		_, err = os.Stdout.Write(append(b, '\n'))
		return err
	}
	return os.WriteFile(args.Output, append(b, '\n'), 0o644)
}

func main() {
	if err := Main(); err != nil {
		fmt.Fprintf(os.Stderr, "tristrip: %v\n", err)
		os.Exit(1)
	}
}
