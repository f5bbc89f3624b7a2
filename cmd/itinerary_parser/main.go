// Command-line entry point for the itinerary parser.
//
// Input formats
// -------------
// Each input is one schedule document, read as raw bytes:
//   - PDF, optionally gzip/zlib compressed or raw deflate (-content-type application/deflate)
//   - ZIP archive of page-N.txt files
//   - JSON body {"text": "..."} (-content-type application/json, or a .json file)
//   - plain extracted text
//
// The output is the parse result for each document, or an array of results
// when several inputs are given.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"itinerary_parser/internal/config"
	_ "itinerary_parser/internal/extractor" // register PDF backends via init()
	"itinerary_parser/internal/registry"
	"itinerary_parser/pkg/logger"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "itinerary_parser - commands:")
	fmt.Fprintln(w, "  parse  - parse schedule documents and output JSON")
	fmt.Fprintln(w, "  trace  - show how every line of a document was classified")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  itinerary_parser parse -input doc.pdf [-input doc2.pdf.gz] [-content-type T] [-output out.json] [-pretty] [-stats] [-metrics-file f.prom]")
	fmt.Fprintln(w, "  itinerary_parser trace -input doc.pdf [-content-type T]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - Without -input the document is read from stdin.")
	fmt.Fprintf(w, "  - PDF backends, in fallback order: %s\n", strings.Join(registry.Default().Names(), ", "))
	fmt.Fprintln(w, "  - Settings: LOG_LEVEL, PARSE_WORKERS, PARSE_TIMEOUT_SEC, MAX_INPUT_BYTES, PDF_BACKENDS, METRICS_FILE (env or .env).")
	fmt.Fprintln(w, "")
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(2)
	}

	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "parse":
		os.Exit(runParse(cfg, os.Args[2:]))
	case "trace":
		os.Exit(runTrace(cfg, os.Args[2:]))
	case "-h", "--help", "help":
		usage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage(os.Stderr)
		os.Exit(2)
	}
}

// stringList collects a repeatable flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func runParse(cfg config.Config, args []string) int {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	var inputs stringList
	fs.Var(&inputs, "input", "Input document, repeatable (default: stdin)")
	contentType := fs.String("content-type", "", "Declared media type (default: guessed from the file name)")
	outPath := fs.String("output", "", "Output JSON file (default: stdout)")
	pretty := fs.Bool("pretty", false, "Pretty-print JSON output")
	showStats := fs.Bool("stats", false, "Print line counters to stderr")
	metricsFile := fs.String("metrics-file", cfg.MetricsFile, "Write Prometheus metrics to this file")
	backends := fs.String("backends", strings.Join(cfg.PDFBackends, ","), "Comma-separated PDF backends to use")
	workers := fs.Int("workers", cfg.Workers, "Documents parsed concurrently")
	_ = fs.Parse(args)

	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()

	cfg.Workers = *workers
	a, err := newApp(cfg, *backends, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}

	if len(inputs) == 0 {
		inputs = stringList{"-"}
	}

	outcomes := a.parseAll(context.Background(), inputs, *contentType)

	var out any
	if len(outcomes) == 1 {
		out = outcomes[0].body()
	} else {
		bodies := make([]any, 0, len(outcomes))
		for _, o := range outcomes {
			bodies = append(bodies, o.body())
		}
		out = bodies
	}

	code := 0
	for _, o := range outcomes {
		if o.Err != nil {
			code = 1
		}
	}

	if err := writeJSON(*outPath, out, *pretty); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
		return 1
	}

	if *showStats {
		for _, o := range outcomes {
			fmt.Fprintln(os.Stderr, o.statsLine())
		}
	}

	if *metricsFile != "" {
		if err := a.metrics.WriteTextfile(*metricsFile); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write metrics: %v\n", err)
			return 1
		}
	}

	return code
}

func runTrace(cfg config.Config, args []string) int {
	fs := flag.NewFlagSet("trace", flag.ExitOnError)
	inPath := fs.String("input", "-", "Input document (default: stdin)")
	contentType := fs.String("content-type", "", "Declared media type (default: guessed from the file name)")
	backends := fs.String("backends", strings.Join(cfg.PDFBackends, ","), "Comma-separated PDF backends to use")
	_ = fs.Parse(args)

	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()

	a, err := newApp(cfg, *backends, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}

	trace, err := a.traceOne(context.Background(), *inPath, *contentType)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse %s: %v\n", *inPath, err)
		return 1
	}

	if err := writeJSON("", trace, true); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
		return 1
	}
	return 0
}

func writeJSON(path string, v any, pretty bool) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	enc, err := marshalJSON(v, pretty)
	if err != nil {
		return err
	}
	if _, err := w.Write(enc); err != nil {
		return err
	}
	if w == os.Stdout {
		_, _ = w.Write([]byte("\n"))
	}
	return nil
}

func marshalJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
