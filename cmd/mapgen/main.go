// Command mapgen writes ahead-of-time mapping functions for the mapper
// package's generated strategy.
//
// Annotate a destination struct and run go generate:
//
//	//go:generate go run github.com/Station-Manager/mapper/cmd/mapgen
//
//	//mapper:from Person
//	type PersonView struct { ... }
//
// Each package with mappings gets one file (mapper_gen.go by default) holding
// a To<Dst> function, a (*Dst).From<Src> method and an init registering it.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/davecgh/go-spew/spew"

	"github.com/Station-Manager/mapper/internal/analyze"
	"github.com/Station-Manager/mapper/internal/gen"
)

var (
	oFlag    = flag.String("o", gen.DefaultOutput, "output file name")
	cfgFlag  = flag.String("config", "", "YAML file declaring extra mappings")
	tagsFlag = flag.String("tags", "", "comma-separated build tags")
	dumpFlag = flag.Bool("dump", false, "dump the resolved mapping plan to stderr")
	vFlag    = flag.Bool("v", false, "list every generated field pair")
	cFlag    = flag.String("c", "auto", "colorize errors (auto|always|never)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: mapgen [flags] [packages]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	color := false
	switch *cFlag {
	case "auto":
		color = isatty(os.Stderr)
	case "always":
		color = true
	case "never":
	default:
		fmt.Fprintln(os.Stderr, "invalid -c value:", *cFlag)
		os.Exit(2)
	}

	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	opts := options{
		output:   *oFlag,
		config:   *cfgFlag,
		tags:     *tagsFlag,
		dump:     *dumpFlag,
		verbose:  *vFlag,
		env:      os.Environ(),
		patterns: flag.Args(),
	}
	if err := run(context.Background(), wd, opts, os.Stdout, os.Stderr); err != nil {
		message := err.Error()
		if color {
			message = colorize(message)
		}
		fmt.Fprintln(os.Stderr, message)
		os.Exit(1)
	}
}

// options carries the parsed command line into run.
type options struct {
	output   string
	config   string
	tags     string
	dump     bool
	verbose  bool
	env      []string
	patterns []string
}

func run(ctx context.Context, wd string, opts options, stdout, stderr io.Writer) error {
	var (
		cfg *analyze.Config
		err error
	)
	if opts.config != "" {
		if cfg, err = analyze.LoadConfig(opts.config); err != nil {
			return err
		}
	}

	plans, err := analyze.Load(ctx, wd, opts.env, opts.tags, cfg, opts.patterns)
	if err != nil {
		return err
	}
	if len(plans) == 0 {
		fmt.Fprintln(stderr, "mapgen: no mappings found")
		return nil
	}

	if opts.dump {
		for _, plan := range plans {
			spew.Fdump(stderr, plan.Summary())
		}
	}
	if opts.verbose {
		for _, plan := range plans {
			for _, m := range plan.Summary() {
				fmt.Fprintf(stderr, "%s: %s -> %s\n", m.Package, m.Source, m.Destination)
				for _, p := range m.Pairs {
					fmt.Fprintf(stderr, "\t%s = %s (%s)\n", p.To, p.From, p.Origin)
				}
			}
		}
	}

	files, err := gen.Generate(plans, opts.output)
	if err != nil {
		return err
	}
	if err := gen.WriteFiles(files); err != nil {
		return err
	}
	for _, f := range files {
		out := f.Filename
		if rel, err := filepath.Rel(wd, out); err == nil {
			out = rel
		}
		fmt.Fprintln(stdout, "Generated:", out)
	}
	return nil
}

// reLocation matches the file:line:col prefix of analyzer errors.
var reLocation = regexp.MustCompile(`(?m)^[^\s:]+\.go:\d+(:\d+)?`)

// colorize dims source locations and paints the rest red.
func colorize(message string) string {
	const (
		red   = "\033[31m"
		dim   = "\033[2m"
		reset = "\033[0m"
	)
	return red + reLocation.ReplaceAllStringFunc(message, func(loc string) string {
		return dim + loc + reset + red
	}) + reset
}
