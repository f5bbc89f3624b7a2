package schedule

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"itinerary_parser/internal/patterns"
)

// Kind is the shape class of a token.
type Kind int

const (
	KindWord Kind = iota
	KindStatus
	KindAirport
	KindDate
	KindTime
	KindDay
	KindNumber
)

var kindNames = map[Kind]string{
	KindWord:    "word",
	KindStatus:  "status",
	KindAirport: "airport",
	KindDate:    "date",
	KindTime:    "time",
	KindDay:     "day",
	KindNumber:  "number",
}

func (k Kind) String() string { return kindNames[k] }

// Token is one whitespace-delimited field of a line, tagged by shape.
type Token struct {
	Text string
	Kind Kind
	Col  int // Rune column in the physical line.
	Line int // 0 for the line itself, 1 for a continuation line.
}

// numeric reports whether the token can serve as a flight number.
func (t Token) numeric() bool {
	return t.Kind == KindDay || t.Kind == KindTime || t.Kind == KindNumber
}

type shapeMatcher struct {
	kind Kind
	re   *regexp.Regexp
}

// shapes is evaluated in order; the first match decides the kind. Day
// markers are checked before plain numbers so "7" is a day, "15" a number.
var shapes = []shapeMatcher{
	{KindStatus, patterns.MustShape(`{STATUS}`)},
	{KindAirport, patterns.MustShape(`{IATA}`)},
	{KindDate, patterns.MustShape(`{DATE6}`)},
	{KindTime, patterns.MustShape(`{TIME4}`)},
	{KindDay, patterns.MustShape(`{EQUIP}`)},
	{KindNumber, patterns.MustShape(`{FLIGHTNO}`)},
}

var glued = patterns.MustShape(`{GLUED}`)

// Classify returns the shape kind of a single field.
func Classify(field string) Kind {
	for _, s := range shapes {
		if s.re.MatchString(field) {
			return s.kind
		}
	}
	return KindWord
}

// Tokenize splits a physical line into shape-tagged tokens. Fields where
// extraction dropped the space between digits and an airport code, such as
// "1MEX" or "1030MAD", are split in two.
func Tokenize(line string) []Token {
	var tokens []Token

	col := 0
	start, startCol := -1, 0
	flush := func(end int) {
		if start < 0 {
			return
		}
		tokens = appendField(tokens, line[start:end], startCol)
		start = -1
	}

	for i, r := range line {
		if unicode.IsSpace(r) {
			flush(i)
		} else if start < 0 {
			start, startCol = i, col
		}
		col++
	}
	flush(len(line))

	return tokens
}

func appendField(tokens []Token, field string, col int) []Token {
	if glued.MatchString(field) {
		split := len(field) - 3
		digits, code := field[:split], field[split:]
		return append(tokens,
			Token{Text: digits, Kind: Classify(digits), Col: col},
			Token{Text: code, Kind: KindAirport, Col: col + utf8.RuneCountInString(digits)},
		)
	}
	return append(tokens, Token{Text: field, Kind: Classify(field), Col: col})
}
