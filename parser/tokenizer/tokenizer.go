package tokenizer

import "strings"

// Tokenizer consumes a Scanning Buffer and produces a stream of
// classified Tokens. It is dialect-aware: in V1 mode curly braces are
// ordinary characters, embedded apostrophes are accepted inside
// single-quoted values, and code points >= 128 are flagged.
//
// A Tokenizer is single-use and not safe for concurrent access; one
// instance corresponds to one parse (spec 5).
type Tokenizer struct {
	buf     *buffer
	classes *ClassTable
	dialect Dialect

	hasLast  bool
	lastKind Kind

	// OnSkip, if set, is invoked for every whitespace run and comment
	// the tokenizer consumes, so the parser can forward it to an
	// optional Handler.WhitespaceCallback (spec 6).
	OnSkip func(text string, isComment bool, line, col int)

	cur              Token
	peeked           bool
	sawEOLBeforePeek bool
}

// New builds a Tokenizer over src, classifying code points according
// to dialect d and sink for error reporting. extraWS and extraEOL
// overlay the character classes below U+0080 (spec 4.2).
func New(src CharDecoder, d Dialect, extraWS, extraEOL []rune, sink ErrorSink) *Tokenizer {
	classes := NewClassTable(d, extraWS, extraEOL)
	return &Tokenizer{
		buf:     newBuffer(src, d, sink),
		classes: classes,
		dialect: d,
	}
}

// Aborted reports whether the error sink requested the parse stop.
func (t *Tokenizer) Aborted() bool { return t.buf.Aborted() }

// PeekToken returns the next token without consuming it.
func (t *Tokenizer) PeekToken() (Token, error) {
	if !t.peeked {
		tok, err := t.scan()
		if err != nil {
			return tok, err
		}
		t.cur = tok
		t.peeked = true
	}
	return t.cur, nil
}

// NextToken consumes and returns the next token.
func (t *Tokenizer) NextToken() (Token, error) {
	if t.peeked {
		t.peeked = false
		return t.cur, t.buf.fatal
	}
	return t.scan()
}

// HasEOLBeforeToken reports whether an end-of-line was skipped as
// part of the whitespace run immediately preceding the next token.
func (t *Tokenizer) HasEOLBeforeToken() bool {
	_, _ = t.PeekToken()
	return t.sawEOLBeforePeek
}

func isDelimiterClass(c class) bool {
	switch c {
	case clsWS, clsEOL, clsHASH, clsQUOTE, clsOBRAK, clsCBRAK, clsOCURL, clsCCURL:
		return true
	}
	return false
}

func (t *Tokenizer) scan() (Token, error) {
	wsBefore := false
	t.sawEOLBeforePeek = false
	for {
		t.buf.startToken()
		r, ok := t.buf.peek()
		if !ok {
			tok := Token{Kind: EOF, WSBefore: wsBefore}
			tok.Line, tok.Col = t.buf.position()
			return tok, t.buf.fatal
		}
		cls := t.classes.Classify(r)
		if cls.metaclass() == metaWhitespace {
			if cls == clsEOL || r == '\n' {
				t.sawEOLBeforePeek = true
			}
			t.skipWhitespaceRun()
			wsBefore = true
			continue
		}
		if cls == clsHASH {
			t.skipComment()
			wsBefore = true
			continue
		}
		break
	}

	line, col := t.buf.position()
	r, _ := t.buf.peek()
	cls := t.classes.Classify(r)

	var tok Token
	switch cls {
	case clsUNDERSC:
		tok = t.scanName()
	case clsOBRAK:
		t.buf.advance()
		tok = Token{Kind: OList}
	case clsCBRAK:
		t.buf.advance()
		tok = Token{Kind: CList}
	case clsOCURL:
		t.buf.advance()
		tok = Token{Kind: OTable}
	case clsCCURL:
		t.buf.advance()
		tok = Token{Kind: CTable}
	case clsQUOTE:
		tok = t.scanQuoted(r)
	case clsSEMI:
		if col == 1 {
			tok = t.scanTextBlock()
		} else {
			tok = t.scanUnquoted()
		}
	default:
		tok = t.scanUnquoted()
	}
	tok.Line, tok.Col = line, col
	tok.WSBefore = wsBefore

	if !wsBefore && t.hasLast && !abuttingAllowed(t.lastKind, tok.Kind) {
		t.buf.report(MissingSpace, line, col, "")
	}
	t.hasLast = true
	t.lastKind = tok.Kind

	return tok, t.buf.fatal
}

func abuttingAllowed(prev, cur Kind) bool {
	switch cur {
	case CList, CTable:
		return true
	}
	switch prev {
	case Key, TKey:
		return true
	case OList, OTable:
		return true
	}
	return false
}

func (t *Tokenizer) skipWhitespaceRun() {
	for {
		r, ok := t.buf.peek()
		if !ok || t.classes.Classify(r).metaclass() != metaWhitespace {
			break
		}
		t.buf.advance()
	}
	if t.OnSkip != nil {
		l, c := t.buf.tokenPosition()
		t.OnSkip(t.buf.tokenText(), false, l, c)
	}
}

func (t *Tokenizer) skipComment() {
	for {
		r, ok := t.buf.peek()
		if !ok || r == '\n' {
			break
		}
		t.buf.advance()
	}
	if t.OnSkip != nil {
		l, c := t.buf.tokenPosition()
		t.OnSkip(t.buf.tokenText(), true, l, c)
	}
}

func (t *Tokenizer) scanName() Token {
	t.buf.markValueStart()
	for {
		r, ok := t.buf.peek()
		if !ok || isDelimiterClass(t.classes.Classify(r)) {
			break
		}
		t.buf.advance()
	}
	return Token{Kind: Name, Value: t.buf.valueText()}
}

func (t *Tokenizer) scanUnquoted() Token {
	t.buf.markValueStart()
	for {
		r, ok := t.buf.peek()
		if !ok || isDelimiterClass(t.classes.Classify(r)) {
			break
		}
		t.buf.advance()
	}
	return t.classifyUnquoted(t.buf.valueText())
}

func (t *Tokenizer) classifyUnquoted(text string) Token {
	lower := strings.ToLower(text)
	switch {
	case strings.HasPrefix(lower, "data_") && len(text) > len("data_"):
		return Token{Kind: BlockHead, Value: text[len("data_"):]}
	case strings.HasPrefix(lower, "save_") && len(text) > len("save_"):
		return Token{Kind: FrameHead, Value: text[len("save_"):]}
	case lower == "save_":
		return Token{Kind: FrameTerm, Value: ""}
	case lower == "loop_":
		return Token{Kind: LoopKW}
	case lower == "data_", lower == "stop_", lower == "global_":
		l, c := t.buf.tokenPosition()
		t.buf.report(ReservedWord, l, c, text)
		return Token{Kind: Value, Value: text}
	default:
		return Token{Kind: Value, Value: text}
	}
}

// scanQuoted scans a '...'/"..." (or, in V2, '''...'''/"""..."""
// triple) delimited value starting at delim. In V1, a closing quote
// is only recognised when followed by whitespace, so an embedded
// apostrophe such as don't is accepted unquoted.
func (t *Tokenizer) scanQuoted(delim rune) Token {
	t.buf.advance() // opening delimiter

	triple := false
	if t.dialect == V2 {
		r1, ok1 := t.buf.peekAt(0)
		r2, ok2 := t.buf.peekAt(1)
		if ok1 && ok2 && r1 == delim && r2 == delim {
			t.buf.advance()
			t.buf.advance()
			triple = true
		}
	}
	t.buf.markValueStart()

	closed := false
	for {
		r, ok := t.buf.peek()
		if !ok {
			break
		}
		if triple {
			if r == delim {
				r2, ok2 := t.buf.peekAt(1)
				r3, ok3 := t.buf.peekAt(2)
				if ok2 && ok3 && r2 == delim && r3 == delim {
					closed = true
					break
				}
			}
			t.buf.advance()
			continue
		}
		if r == '\n' {
			break
		}
		if r == delim {
			if t.dialect == V1 {
				nxt, okNxt := t.buf.peekAt(1)
				if !okNxt || t.classes.Classify(nxt).metaclass() == metaWhitespace {
					closed = true
					break
				}
				t.buf.advance() // embedded apostrophe
				continue
			}
			closed = true
			break
		}
		t.buf.advance()
	}

	value := t.buf.valueText()
	if !closed {
		l, c := t.buf.position()
		t.buf.report(MissingEndquote, l, c, value)
	} else {
		t.buf.advance()
		if triple {
			t.buf.advance()
			t.buf.advance()
		}
	}

	tok := Token{Kind: QValue, Value: value, Delim: delim, Triple: triple}
	if t.dialect == V2 {
		if nxt, ok := t.buf.peek(); ok && nxt == ':' {
			t.buf.advance()
			tok.Kind = Key
		}
	}
	return tok
}

// scanTextBlock scans a semicolon-delimited text block: ';' at
// column 1 opens it, and it is closed by a ';' that is itself the
// first character of a line (spec 4.3/4.4). Decoding of the
// line-folding and prefix in-band protocols happens later, in the
// parser (spec 4.4), since it depends on parser options.
func (t *Tokenizer) scanTextBlock() Token {
	t.buf.advance() // opening ';'
	t.buf.markValueStart()

	for {
		for {
			r, ok := t.buf.peek()
			if !ok || r == '\n' {
				break
			}
			t.buf.advance()
		}
		r, ok := t.buf.peek()
		if !ok {
			break
		}
		// r == '\n'; peek one past it for a closing ';'
		closer, okCloser := t.buf.peekAt(1)
		if okCloser && closer == ';' {
			value := t.buf.textSince(t.buf.valueStart)
			t.buf.advance() // LF
			t.buf.advance() // ';'
			tok := Token{Kind: TValue, Value: value}
			if t.dialect == V2 {
				if nxt, okNxt := t.buf.peek(); okNxt && nxt == ':' {
					t.buf.advance()
					tok.Kind = TKey
				}
			}
			return tok
		}
		t.buf.advance() // LF, keep scanning the next line
	}

	value := t.buf.valueText()
	l, c := t.buf.position()
	t.buf.report(UnterminatedTextBlock, l, c, "")
	return Token{Kind: TValue, Value: value}
}
