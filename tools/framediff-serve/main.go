// Copyright 2024 the framediff authors.
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/skratchdot/open-golang/open"

	"github.com/specdiag/framediff/compare"
	"github.com/specdiag/framediff/frame"
	fdplot "github.com/specdiag/framediff/plot"
)

var (
	frameA      = flag.String("a", "", "first frame file (local path or gs://bucket/object)")
	frameB      = flag.String("b", "", "second frame file (local path or gs://bucket/object)")
	creds       = flag.String("creds", "", "service account credentials JSON file for gs:// inputs")
	addr        = flag.String("addr", "", "listen address (default :$PORT or :8080)")
	openBrowser = flag.Bool("open", false, "open a browser window and connect to server")
)

func printUsage() {
	fmt.Fprintf(os.Stderr,
		`Usage: `+os.Args[0]+` [options] -a <frame> -b <frame>

Compares two extracted frames and serves the report and plots over HTTP.

options:
`,
	)
	flag.PrintDefaults()
}

const pageTemplate = `<!DOCTYPE html>
<html>
<head><title>frame comparison {{.Report.RunID}}</title></head>
<body>
<h1>frame comparison</h1>
<p>{{.FrameA}} vs {{.FrameB}} — {{.Report.NSpec}} spectra × {{.Report.NWave}} wavelengths
(<a href="/report.json">json</a>)</p>
<pre>{{.Text}}</pre>
<img src="/plots/2D.png" alt="pull heatmap"><br>
<img src="/plots/1D.png" alt="pull traces"><br>
<img src="/plots/hist.png" alt="pull histogram"><br>
</body>
</html>
`

type pageData struct {
	FrameA, FrameB string
	Report         *compare.Report
	Text           string
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
	report.FrameA = *frameA
	report.FrameB = *frameB

	plots := map[string][]byte{
		"2D": renderPlot(func(w io.Writer) error {
			return fdplot.Heatmap(report.PullMap, a.Wave, w)
		}),
		"1D": renderPlot(func(w io.Writer) error {
			return fdplot.Traces(report.PullMap, a.Wave, w)
		}),
		"hist": renderPlot(func(w io.Writer) error {
			return fdplot.PullHist(report.PullMap.RawMatrix().Data, w)
		}),
	}

	var text bytes.Buffer
	report.WriteText(&text)
	page := template.Must(template.New("page").Parse(pageTemplate))

	router := mux.NewRouter()
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		page.Execute(w, &pageData{
			FrameA: *frameA,
			FrameB: *frameB,
			Report: report,
			Text:   text.String(),
		})
	})
	router.HandleFunc("/report.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.Encode(report)
	})
	router.HandleFunc("/plots/{name}.png", func(w http.ResponseWriter, r *http.Request) {
		png, ok := plots[mux.Vars(r)["name"]]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	})

	listen := *addr
	if listen == "" {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		listen = ":" + port
	}

	if *openBrowser {
		go open.Run("http://localhost" + listen)
	}

	log.Println("serving report on", listen)
	log.Fatal(http.ListenAndServe(listen, router))
}

func renderPlot(render func(io.Writer) error) []byte {
	buf := &bytes.Buffer{}
	if err := render(buf); err != nil {
		log.Fatal(err)
	}
	return buf.Bytes()
}
