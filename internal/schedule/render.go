package schedule

import (
	"strings"
	"unicode/utf8"
)

// Layout of rendered lines. The day block starts at dayColumn and every
// weekday owns a slot of daySlot characters.
const (
	dayColumn = 56
	daySlot   = 3
)

// headerLabel opens the header row written by Format.
const headerLabel = "S VLO ORIGEN DESTINO"

// Line renders the record in the raw-line form read by the parser. Days are
// written into fixed columns so gaps survive when the line is read under
// the header produced by Format.
func (f *FlightRecord) Line() string {
	var fields []string
	if f.Status != StatusUnchanged {
		fields = append(fields, string(f.Status))
	}
	fields = append(fields, f.FlightNumber)
	fields = appendNonEmpty(fields, f.Origin, f.Departure1)
	fields = appendNonEmpty(fields, f.Stop1, f.Arrival1, f.Departure2)
	fields = appendNonEmpty(fields, f.Stop2, f.Arrival2, f.Departure3)
	fields = appendNonEmpty(fields, f.Destination, f.Arrival3)

	var b strings.Builder
	b.WriteString(padTo(strings.Join(fields, " "), dayColumn))

	days := f.Days()
	last := 0
	for i, d := range days {
		if d != "" {
			last = i
		}
	}
	for i := 0; i <= last; i++ {
		if i == last {
			b.WriteString(days[i])
			break
		}
		b.WriteString(days[i] + strings.Repeat(" ", daySlot-len(days[i])))
	}

	b.WriteString("  ")
	b.WriteString(f.ValidFrom)
	b.WriteString(" ")
	b.WriteString(f.ValidTo)
	return b.String()
}

// Format renders records as a document: a day header followed by one line
// per record.
func Format(records []FlightRecord) string {
	var b strings.Builder
	b.WriteString(padTo(headerLabel, dayColumn))
	for i, name := range []string{"L", "M", "M", "J", "V", "S", "D"} {
		if i > 0 {
			b.WriteString(strings.Repeat(" ", daySlot-1))
		}
		b.WriteString(name)
	}
	b.WriteString("\n")

	for i := range records {
		b.WriteString(records[i].Line())
		b.WriteString("\n")
	}
	return b.String()
}

func appendNonEmpty(fields []string, values ...string) []string {
	for _, v := range values {
		if v != "" {
			fields = append(fields, v)
		}
	}
	return fields
}

// padTo right-pads s with spaces to width runes, keeping at least two
// spaces after s.
func padTo(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n+2 <= width {
		return s + strings.Repeat(" ", width-n)
	}
	return s + "  "
}
