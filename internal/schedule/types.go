// Package schedule turns the extracted text of an airline itinerary document
// into flight records and the document's validity window.
package schedule

// Status is the change marker printed in front of a schedule line.
type Status string

const (
	StatusUnchanged Status = ""
	StatusNew       Status = "A"
	StatusCancelled Status = "C"
)

// DayNames are the serialized weekday keys, Monday first.
var DayNames = [7]string{"lun", "mar", "mie", "jue", "vie", "sab", "dom"}

// FlightRecord is one schedule line: a flight with up to three legs, its
// weekly operating pattern and its effective window.
type FlightRecord struct {
	Status       Status `json:"status"`
	FlightNumber string `json:"vuelo"`
	Origin       string `json:"origen"`
	Departure1   string `json:"salida1"`
	Stop1        string `json:"escala1"`
	Arrival1     string `json:"llegada1"`
	Departure2   string `json:"salida2"`
	Stop2        string `json:"escala2"`
	Arrival2     string `json:"llegada2"`
	Departure3   string `json:"salida3"`
	Destination  string `json:"destino"`
	Arrival3     string `json:"llegada3"`

	// Equipment code per weekday; empty when the flight does not operate.
	Mon string `json:"lun"`
	Tue string `json:"mar"`
	Wed string `json:"mie"`
	Thu string `json:"jue"`
	Fri string `json:"vie"`
	Sat string `json:"sab"`
	Sun string `json:"dom"`

	ValidFrom string `json:"fechaInicio"` // YYMMDD
	ValidTo   string `json:"fechaFin"`    // YYMMDD
}

// Days returns the weekday fields, Monday first.
func (f *FlightRecord) Days() [7]string {
	return [7]string{f.Mon, f.Tue, f.Wed, f.Thu, f.Fri, f.Sat, f.Sun}
}

// SetDay sets the equipment code for weekday i (0 = Monday).
func (f *FlightRecord) SetDay(i int, code string) {
	switch i {
	case 0:
		f.Mon = code
	case 1:
		f.Tue = code
	case 2:
		f.Wed = code
	case 3:
		f.Thu = code
	case 4:
		f.Fri = code
	case 5:
		f.Sat = code
	case 6:
		f.Sun = code
	}
}

// Operates reports whether at least one weekday is set.
func (f *FlightRecord) Operates() bool {
	for _, d := range f.Days() {
		if d != "" {
			return true
		}
	}
	return false
}

// ValidityMetadata is the document-level effective window announced in the
// footer. Dates use DD-MMM-YYYY with Spanish month abbreviations.
type ValidityMetadata struct {
	IssuanceCode string `json:"codigoEmision"`
	IssuanceDate string `json:"fechaEmision"`
	ValidFrom    string `json:"vigenciaInicio"`
	ValidTo      string `json:"vigenciaFin"`
}

// Stats counts how lines were classified during one parse.
type Stats struct {
	Lines         int // Non-empty physical lines scanned.
	Skipped       int // Known header/footer lines.
	Candidates    int // Lines that looked like the start of a flight.
	Continuations int // Records completed with the following line.
	Noise         int // Candidates rejected by the grammar.
	Emitted       int
}

// ParseResult is the outcome of parsing one document.
type ParseResult struct {
	Success    bool              `json:"success"`
	Total      int               `json:"total"`
	Flights    []FlightRecord    `json:"flights"`
	Source     string            `json:"source"`
	TextLength int               `json:"textLength"`
	Metadata   *ValidityMetadata `json:"metadata,omitempty"`

	Stats Stats `json:"-"`
}
