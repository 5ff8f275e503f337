package model

import (
	"strings"
	"testing"
)

func writeString(t *testing.T, doc *Document, opts WriteOptions) string {
	t.Helper()
	var b strings.Builder
	if err := NewWriter(&b, opts).WriteDocument(doc); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}
	return b.String()
}

func TestWriterSimpleBlock(t *testing.T) {
	doc := &Document{}
	blk := doc.AddBlock("quartz")
	blk.Items = append(blk.Items, Item{Name: "_cell_length_a", NormName: NormalizeCode("_cell_length_a"), Value: NumValue(Number{Sign: 1, Digits: "4913", Scale: 3, Text: "4.913"})})

	got := writeString(t, doc, WriteOptions{Dialect: V1})
	want := "#\\#CIF_1.1\n\ndata_quartz\n_cell_length_a 4.913\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriterLoop(t *testing.T) {
	doc := &Document{}
	blk := doc.AddBlock("a")
	loop := &Loop{Names: []string{"_x", "_y"}, NormNames: []string{NormalizeCode("_x"), NormalizeCode("_y")}}
	loop.Packets = append(loop.Packets, Packet{Values: []Value{CharValue("p"), CharValue("q")}})
	blk.Loops = append(blk.Loops, loop)

	got := writeString(t, doc, WriteOptions{Dialect: V1})
	want := "#\\#CIF_1.1\n\ndata_a\n\nloop_\n _x\n _y\np q\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriterQuotesValueWithLeadingUnderscore(t *testing.T) {
	doc := &Document{}
	blk := doc.AddBlock("a")
	blk.Items = append(blk.Items, Item{Name: "_x", Value: CharValue("_looks_like_a_name")})

	got := writeString(t, doc, WriteOptions{Dialect: V1})
	if !strings.Contains(got, "'_looks_like_a_name'") {
		t.Errorf("expected value to be quoted, got %q", got)
	}
}

func TestWriterDisallowsListInV1(t *testing.T) {
	doc := &Document{}
	blk := doc.AddBlock("a")
	blk.Items = append(blk.Items, Item{Name: "_x", Value: ListValue([]Value{CharValue("a")})})

	var b strings.Builder
	err := NewWriter(&b, WriteOptions{Dialect: V1}).WriteDocument(doc)
	if err == nil {
		t.Fatal("expected a DISALLOWED_VALUE error")
	}
	we, ok := err.(*WriteError)
	if !ok || we.Code != WriteDisallowedValue {
		t.Errorf("got %#v, want WriteDisallowedValue", err)
	}
}

func TestWriterTextBlockRoundTripsWithoutProtocol(t *testing.T) {
	text := "first line\nsecond line"
	got := encodeTextBlock(text, 2048)
	want := ";first line\nsecond line\n;"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriterTextBlockPrefixesLeadingSemicolon(t *testing.T) {
	text := ";danger\nsafe"
	got := encodeTextBlock(text, 2048)
	if !strings.HasPrefix(got, ";> \\\n") {
		t.Errorf("expected a prefix signal line, got %q", got)
	}
	if !strings.Contains(got, "> ;danger\n> safe") {
		t.Errorf("expected every content line prefixed, got %q", got)
	}
}

func TestWriterTextBlockFoldsLongLines(t *testing.T) {
	text := strings.Repeat("a", 30)
	got := encodeTextBlock(text, 10)
	if !strings.HasPrefix(got, ";\\\n") {
		t.Errorf("expected a fold signal line, got %q", got)
	}
	if !strings.Contains(got, "\\\n") {
		t.Errorf("expected an inserted fold join, got %q", got)
	}
}
