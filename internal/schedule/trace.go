package schedule

import (
	"strings"

	"itinerary_parser/internal/patterns"
)

// LineTrace records how the state machine left one physical line.
type LineTrace struct {
	LineNo int    `json:"line"`
	Text   string `json:"text"`
	State  State  `json:"state"`
	Reason string `json:"reason,omitempty"`
}

// Trace holds the per-line trace of a parse together with its result.
// Footer is the pattern trace of the last line that announces an issuance,
// nil when no such line exists.
type Trace struct {
	Lines  []LineTrace          `json:"lines"`
	Footer *patterns.ParseTrace `json:"footer,omitempty"`
	Result *ParseResult         `json:"result"`
}

// ParseWithTrace behaves like Parse and also records the state of every
// non-blank line. Intended for debugging extraction problems.
func ParseWithTrace(text, source string, opts ...Option) *Trace {
	t := &Trace{}
	opts = append(opts, withTrace(func(lt LineTrace) {
		t.Lines = append(t.Lines, lt)
	}))
	t.Result = Parse(text, source, opts...)
	t.Footer = footerTrace(Normalize(text))
	return t
}

// footerTrace runs the document formats against the last line mentioning
// an issuance, showing why a footer did or did not yield metadata.
func footerTrace(text string) *patterns.ParseTrace {
	compiler, err := getCompiler()
	if err != nil {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.Contains(strings.ToUpper(lines[i]), "EMISI") {
			return compiler.ParseWithTrace(lines[i])
		}
	}
	return nil
}
