package model

import (
	"strings"
	"unicode/utf8"
)

// quoteKind is the output form the Quoting Planner chooses for a Char
// value (spec 4.5).
type quoteKind uint8

const (
	quoteBare quoteKind = iota
	quoteSingle
	quoteDouble
	quoteTripleSingle
	quoteTripleDouble
	quoteTextBlock
)

// maxLineLen reports the longest logical line of text, in code
// points, not bytes.
func maxLineLen(text string) int {
	max := 0
	for _, line := range strings.Split(text, "\n") {
		if n := utf8.RuneCountInString(line); n > max {
			max = n
		}
	}
	return max
}

// isBareSafe reports whether text can be emitted unquoted: it must
// not collide with a reserved word, a container delimiter, the
// special unknown/inapplicable markers, or anything the tokenizer
// would scan back as something other than a plain Char value.
func isBareSafe(text string) bool {
	if text == "" || text == "?" || text == "." {
		return false
	}
	if strings.ContainsAny(text, " \t\n\r'\"[]{}#") {
		return false
	}
	switch text[0] {
	case '_', ';', '$':
		return false
	}
	lower := strings.ToLower(text)
	if strings.HasPrefix(lower, "data_") || strings.HasPrefix(lower, "save_") ||
		lower == "loop_" || lower == "stop_" || lower == "global_" {
		return false
	}
	if _, ok := ParseNumber(text); ok {
		// would be rescanned as Num, not Char: must be quoted to
		// round-trip (spec 8, invariant 3).
		return false
	}
	return true
}

// planQuoting picks the quoting style of spec 4.5 for text, given the
// dialect (v2 unlocks triple-quoting) and the active line limit.
func planQuoting(text string, v2 bool, lineLimit int) quoteKind {
	if isBareSafe(text) && maxLineLen(text) <= lineLimit {
		return quoteBare
	}

	if !strings.Contains(text, "\n") {
		if maxLineLen(text) <= lineLimit-2 {
			switch {
			case !strings.Contains(text, "'"):
				return quoteSingle
			case !strings.Contains(text, "\""):
				return quoteDouble
			case v2 && !strings.Contains(text, "'''"):
				return quoteTripleSingle
			case v2 && !strings.Contains(text, "\"\"\""):
				return quoteTripleDouble
			}
		}
	} else if v2 {
		lines := strings.Split(text, "\n")
		first, last := lines[0], lines[len(lines)-1]
		fits := utf8.RuneCountInString(first)+3 <= lineLimit && utf8.RuneCountInString(last)+3 <= lineLimit
		switch {
		case fits && !strings.Contains(text, "'''"):
			return quoteTripleSingle
		case fits && !strings.Contains(text, "\"\"\""):
			return quoteTripleDouble
		}
	}

	return quoteTextBlock
}
