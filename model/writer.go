package model

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/COMCIFS/cif-api-sub003/internal/logging"
)

// Dialect selects which of the two CIF text dialects the Writer
// targets. It mirrors tokenizer.Dialect but is declared independently
// so that model stays free of any dependency on parser/tokenizer
// (spec 3: model is the leaf of the dependency chain).
type Dialect uint8

const (
	V1 Dialect = iota
	V2
)

// WriteCode identifies one of the writer-specific error conditions of
// spec 7 ("Writer errors are limited to..."). Unlike the parser's
// Code catalog these are never recoverable: the writer returns
// immediately.
type WriteCode uint8

const (
	_ WriteCode = iota
	WriteDisallowedChar
	WriteDisallowedValue
)

func (c WriteCode) String() string {
	switch c {
	case WriteDisallowedChar:
		return "DISALLOWED_CHAR"
	case WriteDisallowedValue:
		return "DISALLOWED_VALUE"
	default:
		return "UNKNOWN_WRITE_CODE"
	}
}

// WriteError reports a writer-side failure: a value could not be
// represented in the target dialect.
type WriteError struct {
	Code WriteCode
	Text string
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("cif: write error %s: %q", e.Code, e.Text)
}

// WriteOptions controls Writer output. Its zero value is a valid
// configuration: v1, the standard 2048 code point line limit, both
// in-band protocols enabled.
type WriteOptions struct {
	Dialect              Dialect
	LineLimit            int
	DisableLineFolding   bool
	DisableTextPrefixing bool
}

func (o WriteOptions) lineLimit() int {
	if o.LineLimit > 0 {
		return o.LineLimit
	}
	return 2048
}

// Writer renders a Document as CIF text (spec 4.5). Like output in
// the teacher's own writer, it defers error checking: once the first
// write fails, every subsequent call becomes a no-op and the error is
// surfaced from WriteDocument.
type Writer struct {
	dst  io.Writer
	opts WriteOptions
	err  error
}

// NewWriter returns a Writer targeting dst.
func NewWriter(dst io.Writer, opts WriteOptions) *Writer {
	return &Writer{dst: dst, opts: opts}
}

func (w *Writer) str(s string) {
	if w.err != nil {
		return
	}
	if w.opts.Dialect == V1 && !isASCII(s) {
		w.err = &WriteError{Code: WriteDisallowedChar, Text: s}
		return
	}
	if _, err := io.WriteString(w.dst, s); err != nil {
		w.err = err
	}
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// WriteDocument writes doc in full: the version comment, then every
// top-level block.
func (w *Writer) WriteDocument(doc *Document) error {
	if w.opts.Dialect == V2 {
		w.str("#\\#CIF_2.0\n")
	} else {
		w.str("#\\#CIF_1.1\n")
	}
	for _, blk := range doc.Blocks {
		w.writeContainer(blk, 0)
	}
	logging.Writef("writer: wrote %d block(s) in dialect %v\n", len(doc.Blocks), w.opts.Dialect)
	return w.err
}

func (w *Writer) writeContainer(c *Container, depth int) {
	if depth == 0 {
		w.str("\ndata_" + c.Code + "\n")
	} else {
		w.str("\nsave_" + c.Code + "\n")
	}
	for _, it := range c.Items {
		w.writeItem(it)
	}
	for _, lp := range c.Loops {
		w.writeLoop(lp)
	}
	for _, f := range c.Frames {
		w.writeContainer(f, depth+1)
	}
	if depth > 0 {
		w.str("\nsave_\n")
	}
}

func (w *Writer) writeItem(it Item) {
	w.str(it.Name)
	if w.needsOwnLine(it.Value) {
		w.str("\n")
	} else {
		w.str(" ")
	}
	w.str(w.renderValue(it.Value))
	w.str("\n")
}

// needsOwnLine reports whether v renders as a text block: its opening
// ';' is only recognised by the tokenizer at column 1 (spec 4.3), so
// it can never follow "name " on the same line.
func (w *Writer) needsOwnLine(v Value) bool {
	return v.Kind == Char && planQuoting(v.Text, w.opts.Dialect == V2, w.opts.lineLimit()) == quoteTextBlock
}

func (w *Writer) writeLoop(l *Loop) {
	w.str("\nloop_\n")
	for _, n := range l.Names {
		w.str(" " + n + "\n")
	}
	limit := w.opts.lineLimit()
	for _, pkt := range l.Packets {
		col := 0
		endedOnBlock := false
		for _, v := range pkt.Values {
			if w.needsOwnLine(v) {
				// a text block's ';' must start at column 1 (spec
				// 4.3): flush whatever precedes it, write the block on
				// its own lines, then resume a fresh packet line.
				if col > 0 {
					w.str("\n")
				}
				w.str(w.renderValue(v))
				w.str("\n")
				col = 0
				endedOnBlock = true
				continue
			}
			endedOnBlock = false
			text := w.renderValue(v)
			tlen := utf8.RuneCountInString(text)
			switch {
			case col == 0:
				// first value on the line, no separator needed
			case col+1+tlen > limit:
				w.str("\n")
				col = 0
			default:
				w.str(" ")
				col++
			}
			w.str(text)
			col += tlen
		}
		if !endedOnBlock {
			w.str("\n")
		}
	}
}

// renderValue dispatches on Kind; lists and tables are v2-only (spec
// 7: writing one while targeting v1 is DISALLOWED_VALUE).
func (w *Writer) renderValue(v Value) string {
	if w.err != nil {
		return ""
	}
	switch v.Kind {
	case Unknown:
		return "?"
	case NotApplicable:
		return "."
	case Num:
		if v.Number.Text != "" {
			return v.Number.Text
		}
		return CanonicalText(v.Number)
	case Char:
		return w.renderChar(v.Text)
	case List:
		if w.opts.Dialect == V1 {
			w.err = &WriteError{Code: WriteDisallowedValue, Text: "list value in v1 output"}
			return ""
		}
		parts := make([]string, len(v.Items))
		for i, it := range v.Items {
			parts[i] = w.renderValue(it)
		}
		return "[" + strings.Join(parts, " ") + "]"
	case Table:
		if w.opts.Dialect == V1 {
			w.err = &WriteError{Code: WriteDisallowedValue, Text: "table value in v1 output"}
			return ""
		}
		parts := make([]string, len(v.Pairs))
		for i, p := range v.Pairs {
			parts[i] = p.Key + ":" + w.renderValue(p.Value)
		}
		return "{" + strings.Join(parts, " ") + "}"
	default:
		return "?"
	}
}

func (w *Writer) renderChar(text string) string {
	limit := w.opts.lineLimit()
	kind := planQuoting(text, w.opts.Dialect == V2, limit)
	switch kind {
	case quoteBare:
		return text
	case quoteSingle:
		return "'" + text + "'"
	case quoteDouble:
		return "\"" + text + "\""
	case quoteTripleSingle:
		return "'''" + text + "'''"
	case quoteTripleDouble:
		return "\"\"\"" + text + "\"\"\""
	default:
		if needsTextBlockPrefix(text) && (w.opts.Dialect == V1 || w.opts.DisableTextPrefixing) {
			w.err = &WriteError{Code: WriteDisallowedValue, Text: "text block has a line starting with ';' and requires the prefix protocol, which is unavailable here"}
			return ""
		}
		block := encodeTextBlock(text, limit)
		if w.opts.DisableLineFolding {
			block = encodeTextBlock(text, 0)
		}
		return block
	}
}

func needsTextBlockPrefix(text string) bool {
	for _, l := range strings.Split(text, "\n") {
		if strings.HasPrefix(l, ";") {
			return true
		}
	}
	return false
}
