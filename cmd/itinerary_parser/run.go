package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"itinerary_parser/internal/config"
	"itinerary_parser/internal/intake"
	"itinerary_parser/internal/metrics"
	"itinerary_parser/internal/registry"
	"itinerary_parser/internal/schedule"
	"itinerary_parser/pkg/logger"
)

type app struct {
	cfg     config.Config
	log     logger.Logger
	decoder *intake.Decoder
	metrics *metrics.Metrics
	stdin   io.Reader
}

func newApp(cfg config.Config, backends string, log logger.Logger) (*app, error) {
	reg := registry.Default()
	if names := strings.Split(backends, ","); strings.TrimSpace(backends) != "" {
		sel, err := reg.Select(names)
		if err != nil {
			return nil, err
		}
		reg = sel
	}

	return &app{
		cfg:     cfg,
		log:     log,
		decoder: intake.NewDecoder(reg, cfg.MaxInputBytes, log),
		metrics: metrics.New(),
		stdin:   os.Stdin,
	}, nil
}

// outcome is the result of one input document.
type outcome struct {
	Input  string
	Result *schedule.ParseResult
	Err    error
}

// failure is the JSON body reported for a document that could not be read.
type failure struct {
	Success bool                    `json:"success"`
	Error   string                  `json:"error"`
	Total   int                     `json:"total"`
	Flights []schedule.FlightRecord `json:"flights"`
}

func (o outcome) body() any {
	if o.Err != nil {
		return failure{Error: o.Err.Error(), Flights: []schedule.FlightRecord{}}
	}
	return o.Result
}

func (o outcome) statsLine() string {
	if o.Err != nil {
		return fmt.Sprintf("stats: input=%s error=%q", o.Input, o.Err)
	}
	st := o.Result.Stats
	return fmt.Sprintf(
		"stats: input=%s source=%s lines=%d skipped=%d candidates=%d continuations=%d noise=%d emitted=%d",
		o.Input, o.Result.Source, st.Lines, st.Skipped, st.Candidates, st.Continuations, st.Noise, st.Emitted,
	)
}

// parseAll parses the inputs concurrently, bounded by the worker setting.
// Outcomes keep the input order. A failed document never stops the others.
func (a *app) parseAll(ctx context.Context, inputs []string, contentType string) []outcome {
	outcomes := make([]outcome, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(a.cfg.Workers, 1))
	for i, input := range inputs {
		g.Go(func() error {
			res, err := a.parseOne(ctx, input, contentType)
			outcomes[i] = outcome{Input: input, Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (a *app) parseOne(ctx context.Context, input, contentType string) (*schedule.ParseResult, error) {
	log := a.log.With("input", input)
	start := time.Now()

	dec, err := a.decode(ctx, input, contentType)
	if dec != nil {
		a.metrics.ObserveAttempts(dec.Attempts)
	}
	if err != nil {
		a.metrics.ObserveFailure(time.Since(start))
		log.Error("failed to decode document", "error", err)
		return nil, err
	}

	res := schedule.Parse(dec.Text, dec.Source, schedule.WithLogger(log))
	elapsed := time.Since(start)
	a.metrics.ObserveResult(res, elapsed)

	log.Info("parsed document",
		"source", res.Source,
		"backend", dec.Backend,
		"flights", res.Total,
		"noise", res.Stats.Noise,
		"metadata", res.Metadata != nil,
		"duration", elapsed,
	)
	return res, nil
}

func (a *app) traceOne(ctx context.Context, input, contentType string) (*schedule.Trace, error) {
	dec, err := a.decode(ctx, input, contentType)
	if err != nil {
		return nil, err
	}
	return schedule.ParseWithTrace(dec.Text, dec.Source, schedule.WithLogger(a.log)), nil
}

// decode reads one input and converts it to text within the parse timeout.
func (a *app) decode(ctx context.Context, input, contentType string) (*intake.Decoded, error) {
	data, err := a.readInput(input)
	if err != nil {
		return nil, err
	}
	if contentType == "" {
		contentType = guessContentType(input)
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.ParseTimeout)
	defer cancel()

	return a.decoder.Decode(ctx, data, contentType)
}

func (a *app) readInput(input string) ([]byte, error) {
	if input == "" || input == "-" {
		return io.ReadAll(a.stdin)
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

// guessContentType maps file extensions that change how a body is read.
// Everything else is sniffed from its bytes.
func guessContentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return "application/json"
	case ".deflate":
		return "application/deflate"
	default:
		return ""
	}
}
