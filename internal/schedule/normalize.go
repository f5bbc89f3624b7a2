package schedule

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Normalize repairs text extraction artifacts before parsing.
//
// Line endings are unified to "\n" and the text is composed to NFC, so an
// accent emitted as a combining mark matches its precomposed form. A pair of
// digit runs split by a single blank is joined when together they form a
// 4-digit year, time or flight number and one side already holds at least 3
// of the digits:
//
//	"202 6"     -> "2026"
//	"0 600"     -> "0600"
//	"MEX 6"     -> unchanged
//	"12 14"     -> unchanged (two equipment codes)
//	"1 2 3 4"   -> unchanged (more than two runs: a day block)
//	"1030 12"   -> unchanged (a time followed by an equipment code)
//
// Runs touching a letter are never altered and multi-space gaps are never
// closed. Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = norm.NFC.String(text)

	var b strings.Builder
	b.Grow(len(text))

	i := 0
	for i < len(text) {
		if !isDigit(text[i]) {
			b.WriteByte(text[i])
			i++
			continue
		}

		runs, end := digitChain(text, i)
		if joinable(text, i, end, runs) {
			for _, r := range runs {
				b.WriteString(text[r[0]:r[1]])
			}
		} else {
			b.WriteString(text[i:end])
		}
		i = end
	}

	return b.String()
}

// digitChain collects the digit runs starting at start that are separated by
// exactly one blank. It returns the runs as [begin, end) offsets and the end
// offset of the whole chain.
func digitChain(text string, start int) ([][2]int, int) {
	var runs [][2]int
	j := start
	for {
		k := j
		for k < len(text) && isDigit(text[k]) {
			k++
		}
		runs = append(runs, [2]int{j, k})
		if k+1 < len(text) && isBlank(text[k]) && isDigit(text[k+1]) {
			j = k + 1
			continue
		}
		return runs, k
	}
}

func joinable(text string, start, end int, runs [][2]int) bool {
	if len(runs) != 2 {
		return false
	}
	if start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(text[:start]); unicode.IsLetter(r) {
			return false
		}
	}
	if end < len(text) {
		if r, _ := utf8.DecodeRuneInString(text[end:]); unicode.IsLetter(r) {
			return false
		}
	}

	a := runs[0][1] - runs[0][0]
	b := runs[1][1] - runs[1][0]
	return a+b == 4 && max(a, b) >= 3
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isBlank(c byte) bool { return c == ' ' || c == '\t' }
