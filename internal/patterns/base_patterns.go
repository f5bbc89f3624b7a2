// Package patterns provides the grok-style pattern compiler and the shared
// shape patterns used to read flight-schedule text.
// This file contains the base patterns referenced as {NAME}.

package patterns

// BasePatterns defines reusable regex components for grok-style pattern composition.
var BasePatterns = map[string]string{
	// Airport codes.
	"IATA": `[A-Z]{3}`,

	// Schedule line fields.
	"STATUS":   `[AC-]`,
	"FLIGHTNO": `\d{1,4}`,
	"TIME4":    `(?:[01]\d|2[0-3])[0-5]\d`,                     // HHMM
	"DATE6":    `\d{2}(?:0[1-9]|1[0-2])(?:0[1-9]|[12]\d|3[01])`, // YYMMDD
	"EQUIP":    `(?:1[0-4]|[1-9])`,                              // Day marker / equipment code.
	"GLUED":    `\d{1,4}[A-Z]{3}`,                               // 1MEX, 1030MAD

	// Footer fields.
	"ISSUE": `\d{2}/\d{2}`,  // MM/YY
	"DAY":   `\d{1,2}`,
	"MONTH": `\p{L}+`,
	"YEAR":  `\d{4}`,
}
