// Package parser implements the predictive recursive-descent grammar
// that turns a tokenizer.Tokenizer's stream into calls on a Builder
// (spec 4.4). It never stores a document itself; see package model
// for the value representation it constructs and package cif for the
// default Builder that assembles a model.Document.
package parser

import (
	"fmt"
	"strings"

	"github.com/COMCIFS/cif-api-sub003/internal/logging"
	"github.com/COMCIFS/cif-api-sub003/model"
	"github.com/COMCIFS/cif-api-sub003/parser/tokenizer"
)

// AbortError is returned by Parse when the ErrorSink requested the
// parse stop (spec 7: "the parser only aborts when the callback
// returns non-zero").
type AbortError struct {
	Code Code
	Line int
	Col  int
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("cif: parse aborted at line %d, column %d (%s)", e.Line, e.Col, CodeString(e.Code))
}

// Parser drives Options.Handler/Builder over one document. It is
// single-use (spec 5: "two concurrent parses require two independent
// parser instances").
type Parser struct {
	tok  *tokenizer.Tokenizer
	opts Options
	sink tokenizer.ErrorSink
	b    Builder

	skipDepth int
	ended     bool
	aborted   bool
	abortErr  *AbortError
	fatalErr  error

	nameStack []map[string]bool
}

// New builds a Parser reading from src with the given options,
// driving b.
func New(src tokenizer.CharDecoder, opts Options, b Builder) *Parser {
	sink := opts.errorSink()
	t := tokenizer.New(src, opts.Dialect, opts.ExtraWSChars, opts.ExtraEOLChars, sink)
	t.OnSkip = func(text string, isComment bool, line, col int) {
		if opts.Handler.WhitespaceCallback != nil {
			opts.Handler.WhitespaceCallback(text, isComment, line, col)
		}
	}
	return &Parser{tok: t, opts: opts, sink: sink, b: b}
}

// Parse runs the grammar to completion (or to early End/abort) and
// reports the outcome.
func (p *Parser) Parse() error {
	outcome := p.callDocumentStart()
	suppress, _ := p.classify(outcome)
	if suppress {
		p.skipDepth++
	}
	if !p.ended {
		p.parseTopLevel()
	}
	if suppress {
		p.skipDepth--
	}
	p.callDocumentEnd()

	if p.fatalErr != nil {
		return p.fatalErr
	}
	if p.aborted {
		return p.abortErr
	}
	return nil
}

func (p *Parser) report(code Code, line, col int, text string) {
	if p.aborted {
		return
	}
	if !p.sink.HandleError(tokenizer.Error{Code: code, Line: line, Col: col, Text: text}) {
		p.aborted = true
		p.abortErr = &AbortError{Code: code, Line: line, Col: col}
	}
	logging.Parsef("parser: %s at %d:%d %q\n", CodeString(code), line, col, text)
}

func (p *Parser) fatal(err error) {
	if p.fatalErr == nil {
		p.fatalErr = err
	}
}

func (p *Parser) halted() bool {
	return p.aborted || p.ended || p.fatalErr != nil || p.tok.Aborted()
}

// classify interprets a Builder Outcome: suppress reports whether the
// node that produced it should have its own storage calls (and its
// subtree's) withheld, and stop reports whether the enclosing sibling
// loop should stop asking for further siblings at this level (spec 9:
// skip-depth state machine).
func (p *Parser) classify(o Outcome) (suppress, stop bool) {
	switch o {
	case Continue:
		return false, false
	case SkipCurrent:
		return true, false
	case SkipSiblings:
		return true, true
	case End:
		p.ended = true
		return true, true
	default:
		return false, false
	}
}

func (p *Parser) pushNames()        { p.nameStack = append(p.nameStack, map[string]bool{}) }
func (p *Parser) popNames()         { p.nameStack = p.nameStack[:len(p.nameStack)-1] }
func (p *Parser) seenName(n string) bool {
	if len(p.nameStack) == 0 {
		return false
	}
	return p.nameStack[len(p.nameStack)-1][n]
}
func (p *Parser) markName(n string) {
	if len(p.nameStack) == 0 {
		return
	}
	p.nameStack[len(p.nameStack)-1][n] = true
}

// --- Builder call wrappers: every one is a no-op (returning the
// neutral Continue where a value is expected) while skipDepth > 0,
// which is how "nothing is stored" from spec 9 is implemented. ---

func (p *Parser) callDocumentStart() Outcome {
	if p.skipDepth > 0 {
		return Continue
	}
	return p.b.DocumentStart()
}
func (p *Parser) callDocumentEnd() {
	if p.skipDepth == 0 {
		p.b.DocumentEnd()
	}
}
func (p *Parser) callBlockStart(code string) Outcome {
	if p.skipDepth > 0 {
		return Continue
	}
	return p.b.BlockStart(code)
}
func (p *Parser) callBlockEnd() {
	if p.skipDepth == 0 {
		p.b.BlockEnd()
	}
}
func (p *Parser) callFrameStart(code string) Outcome {
	if p.skipDepth > 0 {
		return Continue
	}
	return p.b.FrameStart(code)
}
func (p *Parser) callFrameEnd() {
	if p.skipDepth == 0 {
		p.b.FrameEnd()
	}
}
func (p *Parser) callItem(name string, v model.Value) Outcome {
	if p.skipDepth > 0 {
		return Continue
	}
	return p.b.Item(name, v)
}
func (p *Parser) callLoopStart(names []string) Outcome {
	if p.skipDepth > 0 {
		return Continue
	}
	return p.b.LoopStart(names)
}
func (p *Parser) callLoopEnd() {
	if p.skipDepth == 0 {
		p.b.LoopEnd()
	}
}
func (p *Parser) callPacketStart() Outcome {
	if p.skipDepth > 0 {
		return Continue
	}
	return p.b.PacketStart()
}
func (p *Parser) callPacketItem(name string, v model.Value) Outcome {
	if p.skipDepth > 0 {
		return Continue
	}
	return p.b.PacketItem(name, v)
}
func (p *Parser) callPacketEnd() {
	if p.skipDepth == 0 {
		p.b.PacketEnd()
	}
}

func (p *Parser) keyword(kw string, line, col int) {
	if p.opts.Handler.KeywordCallback != nil {
		p.opts.Handler.KeywordCallback(kw, line, col)
	}
}

// parseTopLevel implements the *cif* production: zero or more
// container-blocks, then end-of-input.
func (p *Parser) parseTopLevel() {
	seenBlocks := map[string]bool{}
	first := true
	for {
		if p.halted() {
			return
		}
		tok, err := p.tok.PeekToken()
		if err != nil {
			p.fatal(err)
			return
		}
		if tok.Kind == tokenizer.EOF {
			return
		}
		if first && tok.Kind != tokenizer.BlockHead {
			p.report(NoBlockHeader, tok.Line, tok.Col, "")
			first = false
			if p.parseOneBlock("") {
				return
			}
			continue
		}
		first = false
		if tok.Kind != tokenizer.BlockHead {
			// parseOneBlock always returns control at the next
			// BLOCK_HEAD or EOF; reaching here defensively guarantees
			// forward progress instead of looping forever.
			p.tok.NextToken()
			continue
		}
		p.tok.NextToken()
		p.keyword("data_", tok.Line, tok.Col)
		norm := model.NormalizeCode(tok.Value)
		if seenBlocks[norm] {
			p.report(DupBlockcode, tok.Line, tok.Col, tok.Value)
		}
		seenBlocks[norm] = true
		if p.parseOneBlock(tok.Value) {
			return
		}
	}
}

func (p *Parser) parseOneBlock(code string) (stop bool) {
	outcome := p.callBlockStart(code)
	suppress, stop := p.classify(outcome)
	if suppress {
		p.skipDepth++
	}
	p.pushNames()
	p.parseContainerBody(false, 0)
	p.popNames()
	p.callBlockEnd()
	if suppress {
		p.skipDepth--
	}
	return stop
}

func (p *Parser) parseFrame(code string, depth int) (stop bool) {
	outcome := p.callFrameStart(code)
	suppress, stop := p.classify(outcome)
	if suppress {
		p.skipDepth++
	}
	p.pushNames()
	p.parseContainerBody(true, depth)
	p.popNames()
	p.callFrameEnd()
	if suppress {
		p.skipDepth--
	}
	return stop
}

// parseContainerBody implements *container-body*: interleaved item,
// loop, and (if allowed) nested save frame productions.
func (p *Parser) parseContainerBody(isFrame bool, depth int) {
	for {
		if p.halted() {
			return
		}
		tok, err := p.tok.PeekToken()
		if err != nil {
			p.fatal(err)
			return
		}
		var stop bool
		switch tok.Kind {
		case tokenizer.EOF:
			return
		case tokenizer.BlockHead:
			if isFrame {
				p.report(NoFrameTerm, tok.Line, tok.Col, "")
			}
			return
		case tokenizer.FrameTerm:
			p.tok.NextToken()
			p.keyword("save_", tok.Line, tok.Col)
			if isFrame {
				return
			}
			p.report(UnexpectedTerm, tok.Line, tok.Col, "")
			continue
		case tokenizer.Name:
			p.tok.NextToken()
			stop = p.parseItem(tok)
		case tokenizer.FrameHead:
			p.tok.NextToken()
			p.keyword("save_"+tok.Value, tok.Line, tok.Col)
			if depth+1 > p.opts.MaxFrameDepth {
				p.report(FrameNotAllowed, tok.Line, tok.Col, tok.Value)
			}
			stop = p.parseFrame(tok.Value, depth+1)
		case tokenizer.LoopKW:
			p.tok.NextToken()
			p.keyword("loop_", tok.Line, tok.Col)
			stop = p.parseLoop()
		default:
			p.report(UnexpectedDelimiter, tok.Line, tok.Col, tok.Value)
			p.tok.NextToken()
		}
		if stop || p.halted() {
			return
		}
	}
}

func isValueStart(k tokenizer.Kind) bool {
	switch k {
	case tokenizer.Value, tokenizer.QValue, tokenizer.TValue, tokenizer.OList, tokenizer.OTable:
		return true
	}
	return false
}

// parseItem implements *item*: NAME value.
func (p *Parser) parseItem(nameTok tokenizer.Token) (stop bool) {
	if p.opts.Handler.DatanameCallback != nil {
		p.opts.Handler.DatanameCallback(nameTok.Value, nameTok.Line, nameTok.Col)
	}
	norm := model.NormalizeCode(nameTok.Value)
	if p.seenName(norm) {
		p.report(DupItemname, nameTok.Line, nameTok.Col, nameTok.Value)
		p.parseValue()
		return false
	}
	p.markName(norm)

	tok, err := p.tok.PeekToken()
	if err != nil {
		p.fatal(err)
		return false
	}
	if !isValueStart(tok.Kind) {
		p.report(MissingValue, tok.Line, tok.Col, "")
		_, stop := p.classify(p.callItem(nameTok.Value, model.Value{Kind: model.Unknown}))
		return stop
	}
	v := p.parseValue()
	_, stop = p.classify(p.callItem(nameTok.Value, v))
	return stop
}

// parseLoop implements *loop*: LOOPKW names packets.
func (p *Parser) parseLoop() (stop bool) {
	var names, normNames []string
	for {
		tok, err := p.tok.PeekToken()
		if err != nil {
			p.fatal(err)
			return false
		}
		if tok.Kind != tokenizer.Name {
			break
		}
		p.tok.NextToken()
		names = append(names, tok.Value)
		normNames = append(normNames, model.NormalizeCode(tok.Value))
	}
	_ = normNames
	if len(names) == 0 {
		tok, _ := p.tok.PeekToken()
		p.report(NullLoop, tok.Line, tok.Col, "")
		return false
	}

	suppress, stop := p.classify(p.callLoopStart(names))
	if suppress {
		p.skipDepth++
	}

	packetCount := 0
	stopLoop := false
	for !stopLoop {
		tok, err := p.tok.PeekToken()
		if err != nil {
			p.fatal(err)
			break
		}
		if !isValueStart(tok.Kind) {
			break
		}
		pSuppress, pStop := p.classify(p.callPacketStart())
		if pSuppress {
			p.skipDepth++
		}

		col := 0
		for col < len(names) {
			t2, err2 := p.tok.PeekToken()
			if err2 != nil {
				p.fatal(err2)
				break
			}
			if !isValueStart(t2.Kind) {
				break
			}
			v := p.parseValue()
			_, iStop := p.classify(p.callPacketItem(names[col], v))
			if iStop {
				pStop = true
			}
			col++
		}
		if col != len(names) {
			tok2, _ := p.tok.PeekToken()
			p.report(PartialPacket, tok2.Line, tok2.Col, "")
			for col < len(names) {
				p.callPacketItem(names[col], model.Value{Kind: model.Unknown})
				col++
			}
		}
		p.callPacketEnd()
		if pSuppress {
			p.skipDepth--
		}
		packetCount++
		if pStop {
			stopLoop = true
		}
	}
	if packetCount == 0 {
		tok, _ := p.tok.PeekToken()
		p.report(EmptyLoop, tok.Line, tok.Col, "")
	}
	p.callLoopEnd()
	if suppress {
		p.skipDepth--
	}
	return stop || stopLoop
}

// parseValue implements *value*: a scalar token or a list/table.
func (p *Parser) parseValue() model.Value {
	tok, err := p.tok.NextToken()
	if err != nil {
		p.fatal(err)
		return model.Value{Kind: model.Unknown}
	}
	switch tok.Kind {
	case tokenizer.Value:
		return p.bareValue(tok.Value)
	case tokenizer.QValue:
		return model.CharValue(tok.Value)
	case tokenizer.TValue:
		decoded := decodeTextBlock(tok.Value, p.opts, p.sink, tok.Line)
		return model.CharValue(decoded)
	case tokenizer.OList:
		return p.parseListBody()
	case tokenizer.OTable:
		return p.parseTableBody()
	default:
		p.report(MissingValue, tok.Line, tok.Col, "")
		return model.Value{Kind: model.Unknown}
	}
}

func (p *Parser) bareValue(text string) model.Value {
	switch text {
	case "?":
		return model.Value{Kind: model.Unknown}
	case ".":
		return model.Value{Kind: model.NotApplicable}
	}
	if n, ok := model.ParseNumber(text); ok {
		return model.NumValue(n)
	}
	return model.CharValue(text)
}

func (p *Parser) parseListBody() model.Value {
	var items []model.Value
	for {
		tok, err := p.tok.PeekToken()
		if err != nil {
			p.fatal(err)
			break
		}
		if tok.Kind == tokenizer.CList {
			p.tok.NextToken()
			break
		}
		if tok.Kind == tokenizer.EOF {
			p.report(UnterminatedList, tok.Line, tok.Col, "")
			break
		}
		if !isValueStart(tok.Kind) {
			p.report(UnexpectedDelimiter, tok.Line, tok.Col, tok.Value)
			p.tok.NextToken()
			continue
		}
		items = append(items, p.parseValue())
	}
	return model.ListValue(items)
}

func (p *Parser) parseTableBody() model.Value {
	var pairs []model.Pair
	for {
		tok, err := p.tok.PeekToken()
		if err != nil {
			p.fatal(err)
			return model.TableValue(pairs)
		}
		switch tok.Kind {
		case tokenizer.CTable:
			p.tok.NextToken()
			return model.TableValue(pairs)
		case tokenizer.EOF:
			p.report(UnterminatedTable, tok.Line, tok.Col, "")
			return model.TableValue(pairs)
		case tokenizer.Key:
			p.tok.NextToken()
			if tok.Value == "" {
				p.report(NullKey, tok.Line, tok.Col, "")
			}
			val := p.parseValue()
			pairs = append(pairs, model.Pair{Key: tok.Value, NormKey: model.NormalizeTableKey(tok.Value), Value: val})
		case tokenizer.TKey:
			p.tok.NextToken()
			p.report(MisquotedKey, tok.Line, tok.Col, tok.Value)
			key := decodeTextBlock(tok.Value, p.opts, p.sink, tok.Line)
			if key == "" {
				p.report(NullKey, tok.Line, tok.Col, "")
			}
			val := p.parseValue()
			pairs = append(pairs, model.Pair{Key: key, NormKey: model.NormalizeTableKey(key), Value: val})
		case tokenizer.Value:
			p.tok.NextToken()
			idx := strings.IndexByte(tok.Value, ':')
			if idx < 0 {
				p.report(MissingKey, tok.Line, tok.Col, tok.Value)
				continue
			}
			p.report(UnquotedKey, tok.Line, tok.Col, tok.Value)
			key, rest := tok.Value[:idx], tok.Value[idx+1:]
			if key == "" {
				p.report(NullKey, tok.Line, tok.Col, "")
			}
			var val model.Value
			if rest != "" {
				val = p.bareValue(rest)
			} else {
				val = p.parseValue()
			}
			pairs = append(pairs, model.Pair{Key: key, NormKey: model.NormalizeTableKey(key), Value: val})
		default:
			p.report(UnexpectedDelimiter, tok.Line, tok.Col, tok.Value)
			p.tok.NextToken()
		}
	}
}
