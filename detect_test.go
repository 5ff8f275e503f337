package cif

import (
	"testing"

	"github.com/COMCIFS/cif-api-sub003/parser/tokenizer"
)

func TestDetectEncodingUTF8BOM(t *testing.T) {
	head := append([]byte{0xEF, 0xBB, 0xBF}, []byte("data_a\n")...)
	enc, n, ok := DetectEncoding(head)
	if !ok || enc != EncodingUTF8 || n != 3 {
		t.Fatalf("got enc=%v n=%d ok=%v", enc, n, ok)
	}
}

func TestDetectEncodingNoBOM(t *testing.T) {
	enc, n, ok := DetectEncoding([]byte("data_a\n"))
	if ok || enc != EncodingUTF8 || n != 0 {
		t.Fatalf("got enc=%v n=%d ok=%v", enc, n, ok)
	}
}

func TestDetectEncodingUTF32LEBeforeUTF16LE(t *testing.T) {
	head := []byte{0xFF, 0xFE, 0x00, 0x00}
	enc, n, ok := DetectEncoding(head)
	if !ok || enc != EncodingUTF32LE || n != 4 {
		t.Fatalf("got enc=%v n=%d ok=%v, want UTF-32LE", enc, n, ok)
	}
}

func TestDetectDialectMagicV2(t *testing.T) {
	got := DetectDialect([]byte("#\\#CIF_2.0\ndata_a\n"), 0)
	if got != tokenizer.V2 {
		t.Errorf("got %v, want V2", got)
	}
}

func TestDetectDialectMagicV1(t *testing.T) {
	got := DetectDialect([]byte("#\\#CIF_1.1\ndata_a\n"), 0)
	if got != tokenizer.V1 {
		t.Errorf("got %v, want V1", got)
	}
}

func TestDetectDialectNoMagicFallsBackToHint(t *testing.T) {
	if got := DetectDialect([]byte("data_a\n_x 1\n"), 0); got != tokenizer.V1 {
		t.Errorf("preferCIF2=0: got %v, want V1", got)
	}
	if got := DetectDialect([]byte("data_a\n_x 1\n"), 20); got != tokenizer.V2 {
		t.Errorf("preferCIF2=20: got %v, want V2", got)
	}
}
