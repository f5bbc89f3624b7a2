// Package patterns provides the grok-style pattern compiler and the shared
// shape patterns used to read flight-schedule text.

package patterns

import (
	"fmt"
	"regexp"
	"strings"
)

// Format represents a line format with named capture groups.
type Format struct {
	Name     string         // Format name for identification
	Pattern  string         // Pattern with {PLACEHOLDER} syntax
	Compiled *regexp.Regexp // Compiled regex (populated by Compile)
	Fields   []string       // Field names in capture order (for documentation)
}

// Compiler manages pattern compilation and matching for a set of formats.
// Input text is upper-cased before matching, so formats are written in
// upper case.
type Compiler struct {
	basePatterns map[string]string
	formats      []Format
}

// NewCompiler creates a new pattern compiler with the given formats.
// Local patterns override the global BasePatterns of the same name.
func NewCompiler(formats []Format, localPatterns map[string]string) *Compiler {
	c := &Compiler{
		basePatterns: make(map[string]string, len(BasePatterns)+len(localPatterns)),
		formats:      make([]Format, len(formats)),
	}

	for k, v := range BasePatterns {
		c.basePatterns[k] = v
	}
	for k, v := range localPatterns {
		c.basePatterns[k] = v
	}

	copy(c.formats, formats)

	return c
}

// Compile expands all {PLACEHOLDER} references and compiles regexes.
func (c *Compiler) Compile() error {
	for i := range c.formats {
		expanded := c.expand(c.formats[i].Pattern)
		re, err := regexp.Compile(expanded)
		if err != nil {
			return fmt.Errorf("format %s: %w", c.formats[i].Name, err)
		}
		c.formats[i].Compiled = re
	}
	return nil
}

// expand replaces {PLACEHOLDER} with actual regex patterns.
func (c *Compiler) expand(pattern string) string {
	return Expand(pattern, c.basePatterns)
}

// Expand replaces every {NAME} in pattern with the matching entry of base.
// Unknown placeholders are left as they are.
func Expand(pattern string, base map[string]string) string {
	result := pattern
	for name, regex := range base {
		result = strings.ReplaceAll(result, "{"+name+"}", regex)
	}
	return result
}

// Shape compiles a whole-token matcher from a pattern such as "{IATA}".
// The result only matches when the entire token has the shape.
func Shape(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(`^(?:` + Expand(pattern, BasePatterns) + `)$`)
}

// MustShape is like Shape but panics on a bad pattern. It is intended for
// package-level matcher tables.
func MustShape(pattern string) *regexp.Regexp {
	re, err := Shape(pattern)
	if err != nil {
		panic(fmt.Sprintf("patterns: shape %q: %v", pattern, err))
	}
	return re
}

// Match represents a successful pattern match with extracted fields.
type Match struct {
	FormatName string            `json:"format"`
	Captures   map[string]string `json:"captures"`
}

// FindAllMatches finds every occurrence of the named format in text, in
// document order.
func (c *Compiler) FindAllMatches(text string, formatName string) []map[string]string {
	format, ok := c.format(formatName)
	if !ok {
		return nil
	}

	upperText := strings.ToUpper(text)
	var results []map[string]string
	for _, match := range format.Compiled.FindAllStringSubmatch(upperText, -1) {
		results = append(results, captures(format.Compiled, match))
	}
	return results
}

// FindLast returns the last occurrence of the named format, or nil when the
// format does not occur.
func (c *Compiler) FindLast(text string, formatName string) *Match {
	all := c.FindAllMatches(text, formatName)
	if len(all) == 0 {
		return nil
	}
	return &Match{FormatName: formatName, Captures: all[len(all)-1]}
}

func (c *Compiler) format(name string) (Format, bool) {
	for _, f := range c.formats {
		if f.Name == name && f.Compiled != nil {
			return f, true
		}
	}
	return Format{}, false
}

func captures(re *regexp.Regexp, match []string) map[string]string {
	out := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		out[name] = match[i]
	}
	return out
}

// GetCapture is a helper to safely get a capture value with a default.
func (m *Match) GetCapture(name string, defaultVal string) string {
	if m == nil {
		return defaultVal
	}
	if val, ok := m.Captures[name]; ok && val != "" {
		return val
	}
	return defaultVal
}

// FormatTrace contains debug information about a format match attempt.
type FormatTrace struct {
	Name     string            `json:"name"`
	Matched  bool              `json:"matched"`
	Pattern  string            `json:"pattern"` // Expanded regex.
	Captures map[string]string `json:"captures,omitempty"`
}

// ParseTrace contains complete trace information for a parse attempt.
type ParseTrace struct {
	Input   string        `json:"input"`
	Formats []FormatTrace `json:"formats"`
	Match   *Match        `json:"match,omitempty"` // First successful match.
}

// ParseWithTrace tries every format against text and records each attempt,
// so a line that fails to match can be compared with the expanded patterns.
func (c *Compiler) ParseWithTrace(text string) *ParseTrace {
	upperText := strings.ToUpper(text)
	trace := &ParseTrace{
		Input:   text,
		Formats: make([]FormatTrace, 0, len(c.formats)),
	}

	for _, format := range c.formats {
		ft := FormatTrace{
			Name:    format.Name,
			Pattern: c.expand(format.Pattern),
		}

		if format.Compiled != nil {
			if match := format.Compiled.FindStringSubmatch(upperText); match != nil {
				ft.Matched = true
				ft.Captures = captures(format.Compiled, match)
				if trace.Match == nil {
					trace.Match = &Match{FormatName: format.Name, Captures: ft.Captures}
				}
			}
		}

		trace.Formats = append(trace.Formats, ft)
	}

	return trace
}
