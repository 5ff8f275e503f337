package tokenizer

import "github.com/COMCIFS/cif-api-sub003/internal/logging"

// maxLineLength is the v1/v2 shared line-length limit, in code points
// (spec 6: "Line-length limit 2048 code points").
const maxLineLength = 2048

// lineNormalizer wraps a CharDecoder and collapses CR and CRLF
// sequences to a single LF, so every downstream consumer only ever
// sees LF (spec 4.1).
type lineNormalizer struct {
	src        CharDecoder
	pending    rune
	hasPending bool
}

func (n *lineNormalizer) next() (rune, bool, error) {
	var r rune
	if n.hasPending {
		r = n.pending
		n.hasPending = false
	} else {
		var ok bool
		var err error
		r, ok, err = n.src.Next()
		if err != nil || !ok {
			return r, ok, err
		}
	}
	if r == '\r' {
		nxt, ok, err := n.src.Next()
		if err != nil {
			return 0, false, err
		}
		if ok && nxt != '\n' {
			n.pending = nxt
			n.hasPending = true
		}
		return '\n', true, nil
	}
	return r, true, nil
}

// buffer is the Scanning Buffer: a growable sliding window of code
// points fed by a CharDecoder. It maintains three cursors with the
// invariant textStart <= valueStart <= nextChar <= limit (spec 4.1
// and Design Notes 9), and tracks, for every buffered code point, the
// 1-based line/column it occupies, so error reporting and the buffer
// cursors stay independent of how far ahead the buffer has been
// filled.
type buffer struct {
	norm    *lineNormalizer
	dialect Dialect
	sink    ErrorSink

	data  []rune
	lines []int32
	cols  []int32

	textStart  int // start of the token currently being scanned
	valueStart int // start of the token's semantic value
	nextChar   int // scan head
	limit      int // end of valid data in `data`

	line, col    int // position that will be assigned to the next appended code point
	lineInLength int // code points seen since the last LF, for OVERLENGTH_LINE

	seenAnyChar bool
	atEOF       bool
	fatal       error
	aborted     bool
}

func newBuffer(src CharDecoder, dialect Dialect, sink ErrorSink) *buffer {
	return &buffer{
		norm:    &lineNormalizer{src: src},
		dialect: dialect,
		sink:    sink,
		data:    make([]rune, 0, 256),
		lines:   make([]int32, 0, 256),
		cols:    make([]int32, 0, 256),
		line:    1,
		col:     1,
	}
}

// report forwards an Error to the sink; if the sink requests an
// abort, the buffer latches that so every subsequent report is
// skipped (the parser checks Aborted() after every production).
func (b *buffer) report(code Code, line, col int, text string) {
	if b.aborted {
		return
	}
	if !b.sink.HandleError(Error{Code: code, Line: line, Col: col, Text: text}) {
		b.aborted = true
	}
}

// Aborted reports whether the error sink has requested the parse stop.
func (b *buffer) Aborted() bool { return b.aborted }

// compact slides unconsumed data (from textStart onward) to the front
// of the backing arrays, so they do not grow without bound across a
// long parse (spec 4.1: "if data needs to be preserved ... it is
// moved to the buffer start").
func (b *buffer) compact() {
	if b.textStart == 0 {
		return
	}
	n := copy(b.data, b.data[b.textStart:b.limit])
	copy(b.lines, b.lines[b.textStart:b.limit])
	copy(b.cols, b.cols[b.textStart:b.limit])
	b.data = b.data[:n]
	b.lines = b.lines[:n]
	b.cols = b.cols[:n]
	b.valueStart -= b.textStart
	b.nextChar -= b.textStart
	b.limit -= b.textStart
	b.textStart = 0
}

// fill pulls more code points from the source, normalizing line
// terminators and validating surrogates/non-characters/BOM placement
// as it goes (spec 4.1). It returns false once the source is
// exhausted and no more data was added.
func (b *buffer) fill() bool {
	if b.atEOF {
		return false
	}
	if b.textStart > 64 && b.textStart > len(b.data)/2 {
		b.compact()
	}

	const chunk = 256
	added := 0
	for added < chunk {
		r, ok, err := b.norm.next()
		if err != nil {
			b.fatal = err
			b.atEOF = true
			break
		}
		if !ok {
			b.atEOF = true
			break
		}
		r = b.validate(r)

		line, col := b.line, b.col
		b.data = append(b.data, r)
		b.lines = append(b.lines, int32(line))
		b.cols = append(b.cols, int32(col))
		b.limit++
		added++

		if r == '\n' {
			if b.lineInLength > maxLineLength {
				b.report(OverlengthLine, line, col, "")
			}
			b.line++
			b.col = 1
			b.lineInLength = 0
		} else {
			b.col++
			b.lineInLength++
		}
		b.seenAnyChar = true
	}
	logging.Scanf("buffer: filled %d code points (limit=%d, eof=%v)\n", added, b.limit, b.atEOF)
	return added > 0
}

// validate applies the surrogate/non-character/BOM/dialect checks
// from spec 4.1 and returns the code point to store: isolated
// surrogates are replaced (U+FFFD in v2, '?' in v1) per their
// prescribed recovery; every other case is accepted as-is.
func (b *buffer) validate(r rune) rune {
	switch {
	case isIsolatedSurrogate(r):
		b.report(InvalidChar, b.line, b.col, string(r))
		if b.dialect == V1 {
			return '?'
		}
		return 0xFFFD
	case isNonCharacter(r):
		b.report(DisallowedChar, b.line, b.col, string(r))
	case r == '﻿' && b.seenAnyChar:
		b.report(DisallowedChar, b.line, b.col, string(r))
	case r >= 128 && b.dialect == V1:
		b.report(DisallowedChar, b.line, b.col, string(r))
	}
	return r
}

func isIsolatedSurrogate(r rune) bool {
	return r >= 0xD800 && r <= 0xDFFF
}

func isNonCharacter(r rune) bool {
	if r >= 0xFDD0 && r <= 0xFDEF {
		return true
	}
	low := r & 0xFFFF
	return low == 0xFFFE || low == 0xFFFF
}

// peekAt ensures at least n+1 code points are available from
// nextChar and returns data[nextChar+n], or (0, false) at end of
// input.
func (b *buffer) peekAt(n int) (rune, bool) {
	for b.nextChar+n >= b.limit {
		if !b.fill() {
			return 0, false
		}
	}
	return b.data[b.nextChar+n], true
}

// peek returns the code point at the scan head without advancing it.
func (b *buffer) peek() (rune, bool) { return b.peekAt(0) }

// advance consumes and returns the code point at the scan head.
func (b *buffer) advance() (rune, bool) {
	r, ok := b.peek()
	if !ok {
		return 0, false
	}
	b.nextChar++
	return r, true
}

// startToken marks the current scan head as the beginning of a new
// token (text_start) and, by default, its value (value_start).
func (b *buffer) startToken() {
	b.textStart = b.nextChar
	b.valueStart = b.nextChar
}

// markValueStart records that the token's semantic value begins at
// the current scan head, which may be after an opening delimiter.
func (b *buffer) markValueStart() {
	b.valueStart = b.nextChar
}

// textSince returns the code points from start up to (not including)
// the scan head.
func (b *buffer) textSince(start int) string {
	return string(b.data[start:b.nextChar])
}

// tokenText returns the full raw text of the current token.
func (b *buffer) tokenText() string { return b.textSince(b.textStart) }

// valueText returns the semantic value of the current token.
func (b *buffer) valueText() string { return b.textSince(b.valueStart) }

// tokenPosition reports the 1-based line/column of the start of the
// token currently being scanned.
func (b *buffer) tokenPosition() (line, col int) {
	if b.textStart < b.limit {
		return int(b.lines[b.textStart]), int(b.cols[b.textStart])
	}
	return b.line, b.col
}

// position reports the 1-based line/column of the scan head.
func (b *buffer) position() (line, col int) {
	if b.nextChar < b.limit {
		return int(b.lines[b.nextChar]), int(b.cols[b.nextChar])
	}
	return b.line, b.col
}
