package model

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// textSegment is one emitted piece of a text block's content: the
// piece text, and whether the break after it is an inserted fold
// (backslash + LF, joined back together on decode) rather than a
// literal line break preserved from the source value.
type textSegment struct {
	text      string
	foldAfter bool
}

// foldLine splits line into pieces no longer than limit code points,
// preferring to break at a whitespace boundary within six code points
// of the target cut (spec 4.5). Operating on runes rather than UTF-16
// code units means a cut index can never fall inside a surrogate
// pair, satisfying "surrogate pairs are never split" for free.
func foldLine(line string, limit int) []string {
	if limit <= 0 {
		return []string{line}
	}
	runes := []rune(line)
	if len(runes) <= limit {
		return []string{line}
	}
	const window = 6
	var pieces []string
	for len(runes) > limit {
		cut := limit
		lo, hi := cut-window, cut+window
		if lo < 0 {
			lo = 0
		}
		if hi > limit {
			hi = limit
		}
		best := -1
		for i := hi; i > lo; i-- {
			if unicode.IsSpace(runes[i-1]) {
				best = i
				break
			}
		}
		if best > 0 {
			cut = best
		}
		pieces = append(pieces, string(runes[:cut]))
		runes = runes[cut:]
	}
	pieces = append(pieces, string(runes))
	return pieces
}

func buildSegments(lines []string, avail int) (segs []textSegment, anyFold bool) {
	for _, l := range lines {
		pieces := foldLine(l, avail)
		if len(pieces) > 1 {
			anyFold = true
		}
		for i, piece := range pieces {
			segs = append(segs, textSegment{text: piece, foldAfter: i != len(pieces)-1})
		}
	}
	return segs, anyFold
}

// encodeTextBlock renders text as a ';'-delimited text block,
// applying the line-folding and prefix in-band protocols of spec 4.5.
// It is the writer-side inverse of the parser's decodeTextBlock.
//
// The prefix protocol is mandatory, not just a length optimization,
// whenever any logical line of text begins with ';': such a line
// would otherwise be indistinguishable from the block's own closing
// delimiter (an LF followed by ';' at column 1).
func encodeTextBlock(text string, lineLimit int) string {
	lines := strings.Split(text, "\n")

	needsPrefix := false
	for _, l := range lines {
		if strings.HasPrefix(l, ";") {
			needsPrefix = true
			break
		}
	}

	prefix := ""
	avail := lineLimit
	if needsPrefix {
		prefix = "> "
		if w := utf8.RuneCountInString(prefix); avail > w {
			avail -= w
		}
	}

	segs, anyFold := buildSegments(lines, avail)
	hasSignal := anyFold || needsPrefix

	var b strings.Builder
	b.WriteByte(';')
	if hasSignal {
		b.WriteString(prefix)
		// The signal line always carries the fold marker once any
		// protocol is active: a prefix with no marker would be
		// indistinguishable from ordinary content starting with "> ".
		b.WriteByte('\\')
		b.WriteByte('\n')
	}
	for i, s := range segs {
		b.WriteString(prefix)
		b.WriteString(s.text)
		if i != len(segs)-1 {
			if s.foldAfter {
				b.WriteByte('\\')
			}
			b.WriteByte('\n')
		}
	}
	b.WriteString("\n;")
	return b.String()
}
