package cif

import (
	"context"
	"errors"
	"io"

	"github.com/COMCIFS/cif-api-sub003/internal/logging"
	"github.com/COMCIFS/cif-api-sub003/model"
	"github.com/COMCIFS/cif-api-sub003/parser"
	"github.com/COMCIFS/cif-api-sub003/parser/tokenizer"
)

// ErrCanceled is returned by ReadDocument/WriteDocument when ctx is
// done before the operation completes.
var ErrCanceled = errors.New("cif: canceled")

// ReadOptions controls ReadDocument. Its zero value auto-detects the
// dialect (v1 absent a CIF 2.0 magic comment) with default recovery
// (die on first error) and no save-frame support.
type ReadOptions struct {
	Dialect              tokenizer.Dialect
	MaxFrameDepth        int
	DisableLineFolding   bool
	DisableTextPrefixing bool
	ExtraWSChars         []rune
	ExtraEOLChars        []rune
	Handler              parser.Handler
	ErrorSink            tokenizer.ErrorSink

	// PreferCIF2 feeds DetectDialect's prefer_cif2 hint when the input
	// carries no magic comment. Auto-detection runs whenever
	// ForceDialect is false, and Dialect is then ignored.
	PreferCIF2 int
	// ForceDialect, when true, skips auto-detection and uses Dialect
	// as given even if it is the zero value (v1).
	ForceDialect bool
}

// ReadDocument parses src into a fresh model.Document. Unless
// opts.ForceDialect is set, the dialect is auto-detected from the
// input's leading bytes (spec 6) before the real parse begins.
func ReadDocument(ctx context.Context, src io.Reader, opts ReadOptions) (*model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, ErrCanceled
	}

	br := &peekReader{r: src}
	head, err := br.peek(sniffWindow)
	if err != nil && err != io.EOF {
		return nil, err
	}

	enc, bomLen, _ := DetectEncoding(head)
	dialect := opts.Dialect
	if !opts.ForceDialect {
		dialect = DetectDialect(head[bomLen:], opts.PreferCIF2)
	}
	br.pos = bomLen // the decoder must not see the BOM as content

	dec := NewDecoder(br, enc)
	ctxDec := &contextDecoder{ctx: ctx, inner: dec}

	doc := &model.Document{}
	pd := DialectV1
	if dialect == tokenizer.V2 {
		pd = DialectV2
	}
	sink := opts.errorSink()
	builder := NewDocumentBuilder(doc, sinkAdapter{sink}, pd)

	popts := parser.Options{
		Dialect:              dialect,
		DisableLineFolding:   opts.DisableLineFolding,
		DisableTextPrefixing: opts.DisableTextPrefixing,
		MaxFrameDepth:        opts.MaxFrameDepth,
		ExtraWSChars:         opts.ExtraWSChars,
		ExtraEOLChars:        opts.ExtraEOLChars,
		Handler:              opts.Handler,
		ErrorSink:            sink,
	}
	p := parser.New(ctxDec, popts, builder)
	if err := p.Parse(); err != nil {
		return doc, err
	}
	logging.Parsef("cif: read document with %d block(s), dialect=%v\n", len(doc.Blocks), dialect)
	return doc, nil
}

func (o ReadOptions) errorSink() tokenizer.ErrorSink {
	if o.ErrorSink != nil {
		return o.ErrorSink
	}
	return tokenizer.Die
}

// sinkAdapter lets a tokenizer.ErrorSink also serve as the
// DocumentBuilder's ParseErrorSink, so both the grammar driver and the
// builder report through the single sink the caller configured.
type sinkAdapter struct {
	sink tokenizer.ErrorSink
}

func (a sinkAdapter) HandleError(code parser.Code, line, col int, text string) bool {
	return a.sink.HandleError(tokenizer.Error{Code: code, Line: line, Col: col, Text: text})
}

// WriteDocument renders doc to dst per opts.
func WriteDocument(ctx context.Context, dst io.Writer, doc *model.Document, opts model.WriteOptions) error {
	if err := ctx.Err(); err != nil {
		return ErrCanceled
	}
	w := model.NewWriter(&contextWriter{ctx: ctx, inner: dst}, opts)
	return w.WriteDocument(doc)
}

// contextDecoder wraps a tokenizer.CharDecoder, checking ctx before
// every code point it yields so a long parse can be aborted promptly.
type contextDecoder struct {
	ctx   context.Context
	inner tokenizer.CharDecoder
}

func (d *contextDecoder) Next() (rune, bool, error) {
	if err := d.ctx.Err(); err != nil {
		return 0, false, ErrCanceled
	}
	return d.inner.Next()
}

// contextWriter wraps an io.Writer, checking ctx before each write so
// a long document write can be aborted between items.
type contextWriter struct {
	ctx   context.Context
	inner io.Writer
}

func (w *contextWriter) Write(p []byte) (int, error) {
	if err := w.ctx.Err(); err != nil {
		return 0, ErrCanceled
	}
	return w.inner.Write(p)
}

// peekReader buffers up to sniffWindow bytes so the caller can sniff
// the encoding/dialect before handing the stream to a CharDecoder,
// without consuming it.
type peekReader struct {
	r      io.Reader
	buf    []byte
	pos    int
	peeked bool
}

func (p *peekReader) peek(n int) ([]byte, error) {
	if !p.peeked {
		buf := make([]byte, n)
		read, err := io.ReadFull(p.r, buf)
		p.buf = buf[:read]
		p.peeked = true
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return p.buf, io.EOF
		}
		return p.buf, err
	}
	return p.buf, nil
}

func (p *peekReader) Read(b []byte) (int, error) {
	if p.pos < len(p.buf) {
		n := copy(b, p.buf[p.pos:])
		p.pos += n
		return n, nil
	}
	return p.r.Read(b)
}
