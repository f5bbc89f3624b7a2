package schedule

import (
	"fmt"
	"strconv"
)

// monthAbbrev maps Spanish month names (upper case) to the 3-letter
// abbreviations used in DD-MMM-YYYY dates.
var monthAbbrev = map[string]string{
	"ENERO":      "ENE",
	"FEBRERO":    "FEB",
	"MARZO":      "MAR",
	"ABRIL":      "ABR",
	"MAYO":       "MAY",
	"JUNIO":      "JUN",
	"JULIO":      "JUL",
	"AGOSTO":     "AGO",
	"SEPTIEMBRE": "SEP",
	"SETIEMBRE":  "SEP",
	"OCTUBRE":    "OCT",
	"NOVIEMBRE":  "NOV",
	"DICIEMBRE":  "DIC",
}

// ExtractMetadata reads the issuance footer of a document. When the phrase
// occurs more than once the last occurrence is used. It returns nil when no
// footer is present or the matched footer holds an invalid date.
func ExtractMetadata(text string) *ValidityMetadata {
	compiler, err := getCompiler()
	if err != nil {
		return nil
	}

	m := compiler.FindLast(text, "issuance_footer")
	if m == nil {
		return nil
	}

	code := m.GetCapture("code", "")
	if !validIssuanceCode(code) {
		return nil
	}
	from, ok := formatDate(m.GetCapture("from_day", ""), m.GetCapture("from_month", ""), m.GetCapture("from_year", ""))
	if !ok {
		return nil
	}
	to, ok := formatDate(m.GetCapture("to_day", ""), m.GetCapture("to_month", ""), m.GetCapture("to_year", ""))
	if !ok {
		return nil
	}

	return &ValidityMetadata{
		IssuanceCode: code,
		IssuanceDate: from,
		ValidFrom:    from,
		ValidTo:      to,
	}
}

// formatDate renders a footer date as DD-MMM-YYYY.
func formatDate(day, month, year string) (string, bool) {
	d, err := strconv.Atoi(day)
	if err != nil || d < 1 || d > 31 {
		return "", false
	}
	abbrev, ok := monthAbbrev[month]
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%02d-%s-%s", d, abbrev, year), true
}

// validIssuanceCode checks the MM part of an MM/YY code.
func validIssuanceCode(code string) bool {
	if len(code) != 5 {
		return false
	}
	mm, err := strconv.Atoi(code[:2])
	return err == nil && mm >= 1 && mm <= 12
}
