package schedule

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"itinerary_parser/pkg/logger"
)

// State is the position of the line state machine.
type State int

const (
	StateScanning State = iota
	StateCandidate
	StateEmitting
	StateContinuationPending
)

func (s State) String() string {
	switch s {
	case StateCandidate:
		return "candidate"
	case StateEmitting:
		return "emitting"
	case StateContinuationPending:
		return "continuation_pending"
	default:
		return "scanning"
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// skipMarkers identify header and footer lines that never hold flights.
var skipMarkers = []string{
	"S VLO", "EFECTIVIDAD", "ITINERARIOS", "Emisión", "EMISIÓN",
	"UTC", "Notas:", "información",
}

// dayHeader finds the weekday header and captures each letter.
var dayHeader = regexp.MustCompile(`\b(L)\s+(M)\s+(M)\s+(J)\s+(V)\s+(S)\s+(D)\b`)

// Option configures a parse.
type Option func(*options)

type options struct {
	log   logger.Logger
	trace func(LineTrace)
}

// WithLogger sets the logger used for per-line debug output.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func withTrace(fn func(LineTrace)) Option {
	return func(o *options) { o.trace = fn }
}

func buildOptions(opts []Option) options {
	o := options{log: logger.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// pendingLine is a candidate waiting for its single lookahead line.
type pendingLine struct {
	lineNo int
	tokens []Token
}

type lineParser struct {
	opts    options
	columns []int
	pending *pendingLine
	flights []FlightRecord
	stats   Stats
}

// ParseFlights walks text line by line and returns the flight records in
// document order. Lines that do not fit the flight grammar are skipped.
// The text is expected to be normalized already.
func ParseFlights(text string, opts ...Option) ([]FlightRecord, Stats) {
	p := &lineParser{opts: buildOptions(opts)}
	for i, line := range strings.Split(text, "\n") {
		p.step(i+1, line)
	}
	p.resolvePending("end of text")

	if p.flights == nil {
		p.flights = []FlightRecord{}
	}
	return p.flights, p.stats
}

// ParseLine reads a single line without header calibration or
// continuation.
func ParseLine(line string) (FlightRecord, bool) {
	rec, out, _ := readLine(Tokenize(line), nil)
	return rec, out == outcomeEmit
}

func (p *lineParser) step(lineNo int, line string) {
	// A blank line never completes a pending candidate.
	if strings.TrimSpace(line) == "" {
		p.resolvePending("blank lookahead line")
		return
	}
	p.stats.Lines++

	if cols, ok := headerColumns(line); ok {
		p.resolvePending("header lookahead line")
		p.columns = cols
		p.stats.Skipped++
		p.record(lineNo, line, StateScanning, "day header")
		return
	}
	if skipLine(line) {
		p.resolvePending("skipped lookahead line")
		p.stats.Skipped++
		p.record(lineNo, line, StateScanning, "skipped")
		return
	}

	tokens := Tokenize(line)

	if p.pending != nil {
		pending := p.pending
		p.pending = nil

		// A lookahead line that is a flight on its own is never merged.
		if isCandidate(tokens) {
			if _, out, _ := readLine(tokens, p.columns); out == outcomeEmit {
				p.discard(pending.lineNo, "lookahead line is a complete flight")
				p.evaluate(lineNo, line, tokens)
				return
			}
		}

		merged := make([]Token, 0, len(pending.tokens)+len(tokens))
		merged = append(merged, pending.tokens...)
		for _, t := range tokens {
			t.Line = 1
			merged = append(merged, t)
		}

		rec, out, reason := readLine(merged, p.columns)
		if out == outcomeEmit {
			p.stats.Continuations++
			p.emit(rec)
			p.opts.log.Debug("continued flight line", "line", pending.lineNo, "lookahead", lineNo, "flight", rec.FlightNumber)
			p.record(lineNo, line, StateEmitting, "continuation")
			return
		}
		p.discard(pending.lineNo, reason)
	}

	p.evaluate(lineNo, line, tokens)
}

// evaluate runs the grammar over a fresh physical line.
func (p *lineParser) evaluate(lineNo int, line string, tokens []Token) {
	if !isCandidate(tokens) {
		p.record(lineNo, line, StateScanning, "not a flight line")
		return
	}
	p.stats.Candidates++

	rec, out, reason := readLine(tokens, p.columns)
	switch out {
	case outcomeEmit:
		p.emit(rec)
		p.record(lineNo, line, StateEmitting, "")
	case outcomeNeedMore:
		p.pending = &pendingLine{lineNo: lineNo, tokens: tokens}
		p.record(lineNo, line, StateContinuationPending, reason)
	default:
		p.discard(lineNo, reason)
		p.record(lineNo, line, StateCandidate, reason)
	}
}

// resolvePending drops a buffered candidate whose lookahead could not
// complete it.
func (p *lineParser) resolvePending(reason string) {
	if p.pending == nil {
		return
	}
	p.discard(p.pending.lineNo, reason)
	p.pending = nil
}

func (p *lineParser) emit(rec FlightRecord) {
	p.flights = append(p.flights, rec)
	p.stats.Emitted++
}

func (p *lineParser) discard(lineNo int, reason string) {
	p.stats.Noise++
	p.opts.log.Debug("noise line", "line", lineNo, "reason", reason)
}

func (p *lineParser) record(lineNo int, line string, state State, reason string) {
	if p.opts.trace == nil {
		return
	}
	p.opts.trace(LineTrace{LineNo: lineNo, Text: line, State: state, Reason: reason})
}

// isCandidate reports whether the line opens like a flight: an optional
// status followed by a flight number.
func isCandidate(tokens []Token) bool {
	i := 0
	if i < len(tokens) && tokens[i].Kind == KindStatus {
		i++
	}
	return i < len(tokens) && tokens[i].numeric()
}

func skipLine(line string) bool {
	for _, m := range skipMarkers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

// headerColumns returns the rune columns of the weekday letters when line
// is a day header.
func headerColumns(line string) ([]int, bool) {
	loc := dayHeader.FindStringSubmatchIndex(line)
	if loc == nil {
		return nil, false
	}
	cols := make([]int, 0, maxDays)
	for g := 1; g <= maxDays; g++ {
		cols = append(cols, utf8.RuneCountInString(line[:loc[2*g]]))
	}
	return cols, true
}
