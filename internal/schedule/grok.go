package schedule

import (
	"sync"

	"itinerary_parser/internal/patterns"
)

// Formats defines the document-level lines read with the grok compiler.
var Formats = []patterns.Format{
	// Issuance footer.
	// Example: Emisión 02/26 Del 26 de enero 2026 al 22 de febrero 2026
	// Groups: code, from_day, from_month, from_year, to_day, to_month, to_year
	{
		Name: "issuance_footer",
		Pattern: `EMISI[OÓ]N\s+(?P<code>{ISSUE})\s+DEL\s+(?P<from_day>{DAY})\s+DE\s+` +
			`(?P<from_month>{MONTH})\s+(?P<from_year>{YEAR})\s+AL\s+(?P<to_day>{DAY})\s+DE\s+` +
			`(?P<to_month>{MONTH})\s+(?P<to_year>{YEAR})`,
		Fields: []string{"code", "from_day", "from_month", "from_year", "to_day", "to_month", "to_year"},
	},
}

// Grok compiler singleton.
var (
	grokCompiler *patterns.Compiler
	grokOnce     sync.Once
	grokErr      error
)

func getCompiler() (*patterns.Compiler, error) {
	grokOnce.Do(func() {
		grokCompiler = patterns.NewCompiler(Formats, nil)
		grokErr = grokCompiler.Compile()
	})
	return grokCompiler, grokErr
}
