package parser

import (
	"strings"
	"testing"

	"github.com/COMCIFS/cif-api-sub003/model"
	"github.com/COMCIFS/cif-api-sub003/parser/tokenizer"
)

// recordingBuilder appends a trace line per callback, good enough to
// assert grammar shape without building a full document tree.
type recordingBuilder struct {
	trace []string
}

func (b *recordingBuilder) DocumentStart() Outcome { b.trace = append(b.trace, "doc-start"); return Continue }
func (b *recordingBuilder) DocumentEnd()           { b.trace = append(b.trace, "doc-end") }
func (b *recordingBuilder) BlockStart(code string) Outcome {
	b.trace = append(b.trace, "block-start:"+code)
	return Continue
}
func (b *recordingBuilder) BlockEnd() { b.trace = append(b.trace, "block-end") }
func (b *recordingBuilder) FrameStart(code string) Outcome {
	b.trace = append(b.trace, "frame-start:"+code)
	return Continue
}
func (b *recordingBuilder) FrameEnd() { b.trace = append(b.trace, "frame-end") }
func (b *recordingBuilder) Item(name string, v model.Value) Outcome {
	b.trace = append(b.trace, "item:"+name+"="+valueLabel(v))
	return Continue
}
func (b *recordingBuilder) LoopStart(names []string) Outcome {
	b.trace = append(b.trace, "loop-start:"+strings.Join(names, ","))
	return Continue
}
func (b *recordingBuilder) PacketStart() Outcome { b.trace = append(b.trace, "packet-start"); return Continue }
func (b *recordingBuilder) PacketItem(name string, v model.Value) Outcome {
	b.trace = append(b.trace, "packet-item:"+name+"="+valueLabel(v))
	return Continue
}
func (b *recordingBuilder) PacketEnd() { b.trace = append(b.trace, "packet-end") }
func (b *recordingBuilder) LoopEnd()   { b.trace = append(b.trace, "loop-end") }

func valueLabel(v model.Value) string {
	switch v.Kind {
	case model.Unknown:
		return "?"
	case model.NotApplicable:
		return "."
	case model.Char:
		return v.Text
	case model.Num:
		return v.Number.Text
	case model.List:
		return "<list>"
	case model.Table:
		return "<table>"
	}
	return "<invalid>"
}

func parseString(t *testing.T, input string, opts Options) (*recordingBuilder, error) {
	t.Helper()
	b := &recordingBuilder{}
	dec := tokenizer.NewUTF8Decoder(strings.NewReader(input))
	p := New(dec, opts, b)
	err := p.Parse()
	return b, err
}

func TestParserSimpleBlockWithScalarItem(t *testing.T) {
	b, err := parseString(t, "data_quartz\n_cell_length_a 4.913\n", Options{Dialect: tokenizer.V1, ErrorSink: tokenizer.Die})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"doc-start", "block-start:quartz", "item:_cell_length_a=4.913", "block-end", "doc-end"}
	assertTrace(t, b.trace, want)
}

func TestParserLoopWithTwoPackets(t *testing.T) {
	input := "data_a\nloop_\n_atom_site_label\n_atom_site_type\nSi1 Si\nO1 O\n"
	b, err := parseString(t, input, Options{Dialect: tokenizer.V1, ErrorSink: tokenizer.Die})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"doc-start", "block-start:a",
		"loop-start:_atom_site_label,_atom_site_type",
		"packet-start", "packet-item:_atom_site_label=Si1", "packet-item:_atom_site_type=Si", "packet-end",
		"packet-start", "packet-item:_atom_site_label=O1", "packet-item:_atom_site_type=O", "packet-end",
		"loop-end", "block-end", "doc-end",
	}
	assertTrace(t, b.trace, want)
}

func TestParserNestedFrame(t *testing.T) {
	input := "data_a\nsave_frame1\n_x 1\nsave_\n_y 2\n"
	b, err := parseString(t, input, Options{Dialect: tokenizer.V1, ErrorSink: tokenizer.Die, MaxFrameDepth: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"doc-start", "block-start:a",
		"frame-start:frame1", "item:_x=1", "frame-end",
		"item:_y=2", "block-end", "doc-end",
	}
	assertTrace(t, b.trace, want)
}

func TestParserNoBlockHeaderRecovery(t *testing.T) {
	input := "_x 1\n"
	b, err := parseString(t, input, Options{Dialect: tokenizer.V1, ErrorSink: tokenizer.Ignore})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"doc-start", "block-start:", "item:_x=1", "block-end", "doc-end"}
	assertTrace(t, b.trace, want)
}

func TestParserMissingValueRecovery(t *testing.T) {
	input := "data_a\n_x _y 1\n"
	b, err := parseString(t, input, Options{Dialect: tokenizer.V1, ErrorSink: tokenizer.Ignore})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"doc-start", "block-start:a", "item:_x=?", "item:_y=1", "block-end", "doc-end"}
	assertTrace(t, b.trace, want)
}

func TestParserPartialPacketRecovery(t *testing.T) {
	input := "data_a\nloop_\n_u\n_v\n1 2\n3\n"
	b, err := parseString(t, input, Options{Dialect: tokenizer.V1, ErrorSink: tokenizer.Ignore})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"doc-start", "block-start:a", "loop-start:_u,_v",
		"packet-start", "packet-item:_u=1", "packet-item:_v=2", "packet-end",
		"packet-start", "packet-item:_u=3", "packet-item:_v=?", "packet-end",
		"loop-end", "block-end", "doc-end",
	}
	assertTrace(t, b.trace, want)
}

func TestParserDupBlockcodeRecovery(t *testing.T) {
	input := "data_a\n_x 1\ndata_a\n_y 2\n"
	recovered := false
	sink := sinkFunc(func(e tokenizer.Error) bool {
		if e.Code == DupBlockcode {
			recovered = true
		}
		return true
	})
	b, err := parseString(t, input, Options{Dialect: tokenizer.V1, ErrorSink: sink})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !recovered {
		t.Errorf("expected DUP_BLOCKCODE to be reported")
	}
	want := []string{"doc-start", "block-start:a", "item:_x=1", "block-end", "block-start:a", "item:_y=2", "block-end", "doc-end"}
	assertTrace(t, b.trace, want)
}

func TestParserAbortStopsOnDie(t *testing.T) {
	input := "data_a\n_x _y 1\n"
	_, err := parseString(t, input, Options{Dialect: tokenizer.V1, ErrorSink: tokenizer.Die})
	if err == nil {
		t.Fatalf("expected an AbortError")
	}
	if ae, ok := err.(*AbortError); !ok || ae.Code != MissingValue {
		t.Errorf("expected AbortError{MissingValue}, got %#v", err)
	}
}

type sinkFunc func(tokenizer.Error) bool

func (f sinkFunc) HandleError(e tokenizer.Error) bool { return f(e) }

func assertTrace(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("trace length mismatch:\n got: %v\nwant: %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("trace[%d] = %q, want %q\n full got: %v", i, got[i], want[i], got)
		}
	}
}
