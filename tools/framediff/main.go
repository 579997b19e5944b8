// Copyright 2024 the framediff authors.
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/specdiag/framediff/compare"
	"github.com/specdiag/framediff/frame"
	fdplot "github.com/specdiag/framediff/plot"
)

var (
	frameA  = flag.String("a", "", "first frame file (local path or gs://bucket/object)")
	frameB  = flag.String("b", "", "second frame file (local path or gs://bucket/object)")
	output  = flag.String("o", "", "basename for plots: <o>-2D.png, <o>-1D.png, <o>-hist.png")
	creds   = flag.String("creds", "", "service account credentials JSON file for gs:// inputs")
	jsonOut = flag.Bool("json", false, "write the report as JSON instead of text")
)

func printUsage() {
	fmt.Fprintf(os.Stderr,
		`Usage: `+os.Args[0]+` [options] -a <frame> -b <frame>

Statistically compares two extracted frames: closeness fractions for
flux, ivar, and resolution, detailed mismatch diagnostics, and pull
threshold sweeps. Disagreement is reported, not treated as failure; the
exit status is nonzero only when the frames cannot be compared at all.

options:
`,
	)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = printUsage
	flag.Parse()

	if *frameA == "" || *frameB == "" {
		flag.Usage()
		log.Fatal("both -a and -b frame files are required")
	}

	var credentials []byte
	if *creds != "" {
		var err error
		credentials, err = os.ReadFile(*creds)
		if err != nil {
			log.Fatal(err)
		}
	}

	ctx := context.Background()
	a, err := frame.Load(ctx, *frameA, credentials)
	if err != nil {
		log.Fatal(err)
	}
	b, err := frame.Load(ctx, *frameB, credentials)
	if err != nil {
		log.Fatal(err)
	}

	report, err := compare.Frames(a, b, compare.Options{})
	if err != nil {
		log.Fatal(err)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			log.Fatal(err)
		}
	} else {
		report.WriteText(os.Stdout)
	}

	if *output == "" {
		return
	}
	writePlot(*output+"-2D.png", func(w io.Writer) error {
		return fdplot.Heatmap(report.PullMap, a.Wave, w)
	})
	writePlot(*output+"-1D.png", func(w io.Writer) error {
		return fdplot.Traces(report.PullMap, a.Wave, w)
	})
	writePlot(*output+"-hist.png", func(w io.Writer) error {
		return fdplot.PullHist(report.PullMap.RawMatrix().Data, w)
	})
}

func writePlot(name string, render func(io.Writer) error) {
	f, err := os.Create(name)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if err := render(f); err != nil {
		log.Fatal(err)
	}
	log.Println("wrote", name)
}
