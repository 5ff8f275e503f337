// Package cif is the top-level facade: it detects a document's
// dialect and encoding, wires a parser.Parser to a DocumentBuilder to
// read a full model.Document, and wires a model.Writer to write one
// back out (spec 6 "External Interfaces").
package cif

import (
	"bytes"
	"io"

	"github.com/COMCIFS/cif-api-sub003/parser/tokenizer"
)

// Encoding identifies the byte-level encoding detected (or forced) for
// an input stream, before any CharDecoder is constructed.
type Encoding uint8

const (
	EncodingUTF8 Encoding = iota
	EncodingUTF16LE
	EncodingUTF16BE
	EncodingUTF32LE
	EncodingUTF32BE
)

func (e Encoding) String() string {
	switch e {
	case EncodingUTF8:
		return "UTF-8"
	case EncodingUTF16LE:
		return "UTF-16LE"
	case EncodingUTF16BE:
		return "UTF-16BE"
	case EncodingUTF32LE:
		return "UTF-32LE"
	case EncodingUTF32BE:
		return "UTF-32BE"
	default:
		return "unknown"
	}
}

// sniffWindow is how much of the input DetectEncoding/DetectDialect
// inspect before giving up and falling back to the caller's hints
// (spec 6: "the first up-to-4096 bytes").
const sniffWindow = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF32BE = []byte{0x00, 0x00, 0xFE, 0xFF}
	bomUTF32LE = []byte{0xFF, 0xFE, 0x00, 0x00}

	magicV2 = []byte("#\\#CIF_2.0")
	magicV1 = []byte("#\\#CIF_")
)

// DetectEncoding inspects the first bytes of head (the caller's own
// sniff window, at most sniffWindow bytes) for a Unicode byte-order
// mark and reports the encoding it implies. ok is false when no BOM
// is present, leaving the caller to fall back to DetectDialect's
// magic-comment scan or its own encoding hint.
func DetectEncoding(head []byte) (enc Encoding, bomLen int, ok bool) {
	if len(head) > sniffWindow {
		head = head[:sniffWindow]
	}
	switch {
	case bytes.HasPrefix(head, bomUTF32LE):
		// must be checked before UTF-16LE: a UTF-32LE BOM's first two
		// bytes also match the UTF-16LE BOM.
		return EncodingUTF32LE, len(bomUTF32LE), true
	case bytes.HasPrefix(head, bomUTF32BE):
		return EncodingUTF32BE, len(bomUTF32BE), true
	case bytes.HasPrefix(head, bomUTF8):
		return EncodingUTF8, len(bomUTF8), true
	case bytes.HasPrefix(head, bomUTF16BE):
		return EncodingUTF16BE, len(bomUTF16BE), true
	case bytes.HasPrefix(head, bomUTF16LE):
		return EncodingUTF16LE, len(bomUTF16LE), true
	default:
		return EncodingUTF8, 0, false
	}
}

// DetectDialect implements the magic-comment half of spec 6's
// detection algorithm: absent a BOM, the bytes (assumed already
// decoded to ASCII-compatible text, i.e. the BOM has been stripped)
// are matched against the "#\#CIF_2.0" / "#\#CIF_<other>" magic
// comment. preferCIF2 is the `prefer_cif2` hint used only when no
// magic comment is found: <=0 forces v1, >=20 forces v2, anything
// between defaults to v2.
func DetectDialect(head []byte, preferCIF2 int) tokenizer.Dialect {
	if len(head) > sniffWindow {
		head = head[:sniffWindow]
	}
	trimmed := bytes.TrimLeft(head, "\xEF\xBB\xBF")
	if bytes.HasPrefix(trimmed, magicV2) {
		return tokenizer.V2
	}
	if bytes.HasPrefix(trimmed, magicV1) {
		return tokenizer.V1
	}
	switch {
	case preferCIF2 <= 0:
		return tokenizer.V1
	case preferCIF2 >= 20:
		return tokenizer.V2
	default:
		return tokenizer.V2
	}
}

// NewDecoder builds the tokenizer.CharDecoder for enc, wrapping src
// with the corresponding built-in decoder (spec 4.1: no ICU
// dependency, only UTF-8/16/32 are supported natively).
func NewDecoder(src io.Reader, enc Encoding) tokenizer.CharDecoder {
	switch enc {
	case EncodingUTF16BE:
		return tokenizer.NewUTF16Decoder(src, true)
	case EncodingUTF16LE:
		return tokenizer.NewUTF16Decoder(src, false)
	case EncodingUTF32BE:
		return tokenizer.NewUTF32Decoder(src, true)
	case EncodingUTF32LE:
		return tokenizer.NewUTF32Decoder(src, false)
	default:
		return tokenizer.NewUTF8Decoder(src)
	}
}
