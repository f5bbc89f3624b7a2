package schedule

import "unicode/utf8"

// Assemble builds the result for one document. Flights is never nil so an
// empty document serializes as "flights": [].
func Assemble(flights []FlightRecord, meta *ValidityMetadata, source string, textLength int, stats Stats) *ParseResult {
	if flights == nil {
		flights = []FlightRecord{}
	}
	return &ParseResult{
		Success:    true,
		Total:      len(flights),
		Flights:    flights,
		Source:     source,
		TextLength: textLength,
		Metadata:   meta,
		Stats:      stats,
	}
}

// Parse normalizes text, reads its flights and footer metadata and
// assembles the result. source is the provenance tag of the text.
func Parse(text, source string, opts ...Option) *ParseResult {
	normalized := Normalize(text)
	flights, stats := ParseFlights(normalized, opts...)
	return Assemble(flights, ExtractMetadata(normalized), source, utf8.RuneCountInString(text), stats)
}
