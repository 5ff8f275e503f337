package tokenizer

import (
	"strings"
	"testing"
)

type collectingSink struct {
	errs []Error
}

func (s *collectingSink) HandleError(e Error) bool {
	s.errs = append(s.errs, e)
	return true
}

func scanAll(t *testing.T, input string, d Dialect) ([]Token, *collectingSink) {
	t.Helper()
	sink := &collectingSink{}
	tok := New(NewUTF8Decoder(strings.NewReader(input)), d, nil, nil, sink)
	var toks []Token
	for {
		tk, err := tok.NextToken()
		if err != nil {
			t.Fatalf("unexpected decoder error: %v", err)
		}
		toks = append(toks, tk)
		if tk.Kind == EOF {
			break
		}
	}
	return toks, sink
}

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, tk := range toks {
		out[i] = tk.Kind
	}
	return out
}

func assertKinds(t *testing.T, got []Token, want []Kind) {
	t.Helper()
	gk := kinds(got)
	if len(gk) != len(want) {
		t.Fatalf("got %d tokens %v, want %d %v", len(gk), gk, len(want), want)
	}
	for i := range want {
		if gk[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, gk[i], want[i])
		}
	}
}

func TestBlockHeaderAndItem(t *testing.T) {
	toks, sink := scanAll(t, "data_quartz\n_cell_length_a 4.916\n", V2)
	if len(sink.errs) != 0 {
		t.Fatalf("unexpected errors: %v", sink.errs)
	}
	assertKinds(t, toks, []Kind{BlockHead, Name, Value, EOF})
	if toks[0].Value != "quartz" {
		t.Errorf("block code = %q, want quartz", toks[0].Value)
	}
	if toks[1].Value != "_cell_length_a" {
		t.Errorf("name = %q", toks[1].Value)
	}
	if toks[2].Value != "4.916" {
		t.Errorf("value = %q", toks[2].Value)
	}
}

func TestLoopHeaderAndPackets(t *testing.T) {
	toks, sink := scanAll(t, "loop_\n_a\n_b\n1 2\n3 4\n", V2)
	if len(sink.errs) != 0 {
		t.Fatalf("unexpected errors: %v", sink.errs)
	}
	assertKinds(t, toks, []Kind{
		LoopKW, Name, Name, Value, Value, Value, Value, EOF,
	})
}

func TestBareListAndTable(t *testing.T) {
	toks, sink := scanAll(t, "_x [1 2 3]\n_y {'a':1 'b':2}\n", V2)
	if len(sink.errs) != 0 {
		t.Fatalf("unexpected errors: %v", sink.errs)
	}
	assertKinds(t, toks, []Kind{
		Name, OList, Value, Value, Value, CList,
		Name, OTable, Key, Value, Key, Value, CTable,
		EOF,
	})
}

func TestQuotedValueAndKeyUpgrade(t *testing.T) {
	toks, sink := scanAll(t, "{'alpha':1}\n", V2)
	if len(sink.errs) != 0 {
		t.Fatalf("unexpected errors: %v", sink.errs)
	}
	assertKinds(t, toks, []Kind{OTable, Key, Value, CTable, EOF})
	if toks[1].Value != "alpha" || toks[1].Delim != '\'' {
		t.Errorf("key token = %+v", toks[1])
	}
}

func TestTripleQuotedValueSpansLines(t *testing.T) {
	toks, sink := scanAll(t, "_x '''first\nsecond'''\n", V2)
	if len(sink.errs) != 0 {
		t.Fatalf("unexpected errors: %v", sink.errs)
	}
	assertKinds(t, toks, []Kind{Name, QValue, EOF})
	want := "first\nsecond"
	if toks[1].Value != want {
		t.Errorf("triple-quoted value = %q, want %q", toks[1].Value, want)
	}
	if !toks[1].Triple {
		t.Errorf("expected Triple=true")
	}
}

func TestV1EmbeddedApostropheNotClosing(t *testing.T) {
	toks, sink := scanAll(t, "_x 'don't stop'\n", V1)
	if len(sink.errs) != 0 {
		t.Fatalf("unexpected errors: %v", sink.errs)
	}
	assertKinds(t, toks, []Kind{Name, QValue, EOF})
	if toks[1].Value != "don't stop" {
		t.Errorf("value = %q", toks[1].Value)
	}
}

func TestMissingEndquoteAtEOL(t *testing.T) {
	toks, sink := scanAll(t, "_x 'unterminated\n_y 1\n", V2)
	if len(sink.errs) != 1 || sink.errs[0].Code != MissingEndquote {
		t.Fatalf("errs = %v, want one MISSING_ENDQUOTE", sink.errs)
	}
	assertKinds(t, toks, []Kind{Name, QValue, Name, Value, EOF})
}

func TestTextBlock(t *testing.T) {
	toks, sink := scanAll(t, "_x\n;line one\nline two\n;\n", V2)
	if len(sink.errs) != 0 {
		t.Fatalf("unexpected errors: %v", sink.errs)
	}
	assertKinds(t, toks, []Kind{Name, TValue, EOF})
	want := "line one\nline two"
	if toks[1].Value != want {
		t.Errorf("text block value = %q, want %q", toks[1].Value, want)
	}
}

func TestTextBlockEmpty(t *testing.T) {
	toks, sink := scanAll(t, "_x\n;\n;\n", V2)
	if len(sink.errs) != 0 {
		t.Fatalf("unexpected errors: %v", sink.errs)
	}
	assertKinds(t, toks, []Kind{Name, TValue, EOF})
	if toks[1].Value != "" {
		t.Errorf("empty text block value = %q", toks[1].Value)
	}
}

func TestUnterminatedTextBlock(t *testing.T) {
	toks, sink := scanAll(t, "_x\n;never closed\n", V2)
	if len(sink.errs) != 1 || sink.errs[0].Code != UnterminatedTextBlock {
		t.Fatalf("errs = %v, want one UNTERMINATED_TEXT_BLOCK", sink.errs)
	}
	assertKinds(t, toks, []Kind{Name, TValue, EOF})
}

func TestMissingSpaceBetweenAbuttingTokens(t *testing.T) {
	toks, sink := scanAll(t, "_x 1'b'\n", V2)
	if len(sink.errs) != 1 || sink.errs[0].Code != MissingSpace {
		t.Fatalf("errs = %v, want one MISSING_SPACE", sink.errs)
	}
	assertKinds(t, toks, []Kind{Name, Value, QValue, EOF})
}

func TestNoMissingSpaceBeforeClosingBracket(t *testing.T) {
	_, sink := scanAll(t, "_x [1 2]\n", V2)
	if len(sink.errs) != 0 {
		t.Fatalf("unexpected errors: %v", sink.errs)
	}
}

func TestReservedWordOutOfPlace(t *testing.T) {
	_, sink := scanAll(t, "data_\n", V2)
	if len(sink.errs) != 1 || sink.errs[0].Code != ReservedWord {
		t.Fatalf("errs = %v, want one RESERVED_WORD", sink.errs)
	}
}

func TestCommentAndWhitespaceSkipped(t *testing.T) {
	var skipped []string
	sink := &collectingSink{}
	tok := New(NewUTF8Decoder(strings.NewReader("_x # a comment\n 1\n")), V2, nil, nil, sink)
	tok.OnSkip = func(text string, isComment bool, line, col int) {
		skipped = append(skipped, text)
	}
	for {
		tk, err := tok.NextToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tk.Kind == EOF {
			break
		}
	}
	if len(skipped) == 0 {
		t.Fatalf("expected at least one skipped whitespace/comment run")
	}
}

func TestFrameHeaderAndTerminator(t *testing.T) {
	toks, sink := scanAll(t, "save_frame1\n_a 1\nsave_\n", V2)
	if len(sink.errs) != 0 {
		t.Fatalf("unexpected errors: %v", sink.errs)
	}
	assertKinds(t, toks, []Kind{FrameHead, Name, Value, FrameTerm, EOF})
	if toks[0].Value != "frame1" {
		t.Errorf("frame code = %q", toks[0].Value)
	}
}
