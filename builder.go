package cif

import (
	"strings"

	"github.com/COMCIFS/cif-api-sub003/internal/logging"
	"github.com/COMCIFS/cif-api-sub003/model"
	"github.com/COMCIFS/cif-api-sub003/parser"
)

// DocumentBuilder is the default parser.Builder: it assembles a
// model.Document in memory, validating block/frame/data-name
// identifiers and raising the semantic-level recovery codes of spec
// 7.iv that the grammar driver itself has no identifier knowledge to
// raise (INVALID_BLOCKCODE, INVALID_FRAMECODE, INVALID_DATANAME,
// DUP_FRAMECODE, RESERVED_LOOP_CATEGORY).
//
// It lives in this package rather than in model to avoid a
// model -> parser -> model import cycle: model does not import parser,
// and parser imports model for model.Value.
type DocumentBuilder struct {
	Doc *model.Document

	sink    ParseErrorSink
	dialect ParseDialect

	stack     []*model.Container
	loopStack []*loopState
}

type loopState struct {
	loop      *model.Loop
	container *model.Container
	values    []model.Value
}

// ParseErrorSink lets DocumentBuilder raise its own semantic errors
// through the same reporting channel the Parser itself uses.
type ParseErrorSink interface {
	HandleError(code parser.Code, line, col int, text string) bool
}

// ParseDialect distinguishes v1 from v2 for RESERVED_LOOP_CATEGORY
// (a v1-only restriction): dialect-bearing callers pass their
// tokenizer.Dialect converted to this small facade-local type so
// DocumentBuilder need not import parser/tokenizer directly.
type ParseDialect uint8

const (
	DialectV1 ParseDialect = iota
	DialectV2
)

// NewDocumentBuilder returns a DocumentBuilder that populates doc
// (typically a fresh &model.Document{}).
func NewDocumentBuilder(doc *model.Document, sink ParseErrorSink, dialect ParseDialect) *DocumentBuilder {
	return &DocumentBuilder{Doc: doc, sink: sink, dialect: dialect}
}

func (b *DocumentBuilder) current() *model.Container {
	if len(b.stack) == 0 {
		return nil
	}
	return b.stack[len(b.stack)-1]
}

func (b *DocumentBuilder) report(code parser.Code, text string) parser.Outcome {
	if b.sink == nil || b.sink.HandleError(code, 0, 0, text) {
		return parser.Continue
	}
	return parser.SkipCurrent
}

func (b *DocumentBuilder) DocumentStart() parser.Outcome {
	logging.Parsef("builder: document start\n")
	return parser.Continue
}

func (b *DocumentBuilder) DocumentEnd() {
	logging.Parsef("builder: document end, %d block(s)\n", len(b.Doc.Blocks))
}

func (b *DocumentBuilder) BlockStart(code string) parser.Outcome {
	if !model.ValidCode(code) {
		b.report(parser.InvalidBlockcode, code)
	}
	// DUP_BLOCKCODE recovery reopens the existing block rather than
	// creating a second Container with the same normalized code (spec
	// 4.4/3: the Document is a set keyed by normalized block code).
	if blk, dup := b.Doc.FindBlock(model.NormalizeCode(code)); dup {
		b.stack = append(b.stack, blk)
		return parser.Continue
	}
	blk := b.Doc.AddBlock(code)
	b.stack = append(b.stack, blk)
	return parser.Continue
}

func (b *DocumentBuilder) BlockEnd() {
	b.stack = b.stack[:len(b.stack)-1]
}

func (b *DocumentBuilder) FrameStart(code string) parser.Outcome {
	if !model.ValidCode(code) {
		b.report(parser.InvalidFramecode, code)
	}
	parent := b.current()
	frame := &model.Container{Code: code, NormCode: model.NormalizeCode(code), IsFrame: true}
	if parent != nil {
		if _, dup := parent.FindFrame(frame.NormCode); dup {
			b.report(parser.DupFramecode, code)
		}
		parent.Frames = append(parent.Frames, frame)
	}
	b.stack = append(b.stack, frame)
	return parser.Continue
}

func (b *DocumentBuilder) FrameEnd() {
	b.stack = b.stack[:len(b.stack)-1]
}

func (b *DocumentBuilder) Item(name string, v model.Value) parser.Outcome {
	if !model.ValidDataname(name) {
		if o := b.report(parser.InvalidDataname, name); o != parser.Continue {
			return o
		}
	}
	c := b.current()
	if c == nil {
		return parser.Continue
	}
	c.Items = append(c.Items, model.Item{Name: name, NormName: model.NormalizeCode(name), Value: v})
	return parser.Continue
}

func (b *DocumentBuilder) LoopStart(names []string) parser.Outcome {
	normNames := make([]string, len(names))
	for i, n := range names {
		if !model.ValidDataname(n) {
			b.report(parser.InvalidDataname, n)
		}
		normNames[i] = model.NormalizeCode(n)
	}
	if b.dialect == DialectV1 && len(normNames) > 0 && isReservedLoopCategory(normNames[0]) {
		b.report(parser.ReservedLoopCategory, names[0])
	}
	loop := &model.Loop{Names: names, NormNames: normNames}
	c := b.current()
	if c != nil {
		c.Loops = append(c.Loops, loop)
	}
	b.loopStack = append(b.loopStack, &loopState{loop: loop, container: c})
	return parser.Continue
}

// reservedScalarCategories are data name prefixes the core dictionary
// reserves for scalar-only use; looping one is RESERVED_LOOP_CATEGORY
// in v1 (spec 7.iv).
var reservedScalarCategories = []string{"_audit_", "_cell_", "_journal_"}

func isReservedLoopCategory(normFirstName string) bool {
	for _, prefix := range reservedScalarCategories {
		if strings.HasPrefix(normFirstName, prefix) {
			return true
		}
	}
	return false
}

func (b *DocumentBuilder) PacketStart() parser.Outcome {
	if ls := b.currentLoop(); ls != nil {
		ls.values = ls.values[:0]
	}
	return parser.Continue
}

func (b *DocumentBuilder) PacketItem(name string, v model.Value) parser.Outcome {
	if ls := b.currentLoop(); ls != nil {
		ls.values = append(ls.values, v)
	}
	return parser.Continue
}

func (b *DocumentBuilder) PacketEnd() {
	ls := b.currentLoop()
	if ls == nil {
		return
	}
	pkt := model.Packet{Values: append([]model.Value(nil), ls.values...)}
	ls.loop.Packets = append(ls.loop.Packets, pkt)
}

func (b *DocumentBuilder) LoopEnd() {
	b.loopStack = b.loopStack[:len(b.loopStack)-1]
}

func (b *DocumentBuilder) currentLoop() *loopState {
	if len(b.loopStack) == 0 {
		return nil
	}
	return b.loopStack[len(b.loopStack)-1]
}
