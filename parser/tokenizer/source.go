package tokenizer

import (
	"bufio"
	"io"
	"unicode/utf8"
)

// CharDecoder is the Character Source: it yields Unicode code points
// from an arbitrary byte stream. It is the only place the tokenizer
// allows a pluggable decoder, keeping character-encoding conversion
// itself out of the core (spec 4.1, Design Notes 9).
//
// Next reports ok=false once the underlying stream is exhausted.
// Isolated surrogates and disallowed code points (non-characters) are
// not an error from the decoder's point of view: it returns them
// as-is (ok=true, err=nil) so the Scanning Buffer can classify and
// recover from them per spec 4.1.
type CharDecoder interface {
	Next() (r rune, ok bool, err error)
}

// NewUTF8Decoder returns a CharDecoder reading UTF-8 from src.
func NewUTF8Decoder(src io.Reader) CharDecoder {
	return &utf8Decoder{br: bufio.NewReader(src)}
}

type utf8Decoder struct {
	br *bufio.Reader
}

func (d *utf8Decoder) Next() (rune, bool, error) {
	r, _, err := d.br.ReadRune()
	if err == io.EOF {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	// r == utf8.RuneError with size 1 means one malformed byte: the
	// bufio reader already recovered by skipping it. It is passed on
	// as an ordinary U+FFFD code point; no error is reported for it.
	return r, true, nil
}

// NewUTF16Decoder returns a CharDecoder reading UTF-16 (big or
// little endian) from src, combining surrogate pairs into
// supplementary code points and surfacing isolated surrogates
// unmodified for the Scanning Buffer to classify.
func NewUTF16Decoder(src io.Reader, bigEndian bool) CharDecoder {
	return &utf16Decoder{br: bufio.NewReader(src), big: bigEndian, pending: -1}
}

type utf16Decoder struct {
	br      *bufio.Reader
	big     bool
	pending rune // a buffered unit not yet consumed, or -1
}

func (d *utf16Decoder) readUnit() (rune, bool, error) {
	if d.pending >= 0 {
		u := d.pending
		d.pending = -1
		return u, true, nil
	}
	var b [2]byte
	n, err := io.ReadFull(d.br, b[:])
	if n == 0 && (err == io.EOF || err == io.ErrUnexpectedEOF) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	var u uint16
	if d.big {
		u = uint16(b[0])<<8 | uint16(b[1])
	} else {
		u = uint16(b[1])<<8 | uint16(b[0])
	}
	return rune(u), true, nil
}

func (d *utf16Decoder) Next() (rune, bool, error) {
	u1, ok, err := d.readUnit()
	if !ok || err != nil {
		return 0, ok, err
	}
	if u1 < 0xD800 || u1 > 0xDFFF {
		return u1, true, nil
	}
	if u1 > 0xDBFF {
		// isolated low surrogate: surface as-is, INVALID_CHAR is
		// raised by the buffer.
		return u1, true, nil
	}
	// u1 is a high surrogate; try to pair it.
	u2, ok, err := d.readUnit()
	if err != nil {
		return 0, false, err
	}
	if !ok {
		return u1, true, nil // isolated high surrogate at EOF
	}
	if u2 < 0xDC00 || u2 > 0xDFFF {
		d.pending = u2
		return u1, true, nil // isolated high surrogate
	}
	r := 0x10000 + (u1-0xD800)<<10 + (u2 - 0xDC00)
	return r, true, nil
}

// NewUTF32Decoder returns a CharDecoder reading UTF-32 (big or
// little endian) from src.
func NewUTF32Decoder(src io.Reader, bigEndian bool) CharDecoder {
	return &utf32Decoder{br: bufio.NewReader(src), big: bigEndian}
}

type utf32Decoder struct {
	br  *bufio.Reader
	big bool
}

func (d *utf32Decoder) Next() (rune, bool, error) {
	var b [4]byte
	n, err := io.ReadFull(d.br, b[:])
	if n == 0 && (err == io.EOF || err == io.ErrUnexpectedEOF) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	var v uint32
	if d.big {
		v = uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	} else {
		v = uint32(b[3])<<24 | uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0])
	}
	r := rune(v)
	if r > utf8.MaxRune || r < 0 {
		r = utf8.RuneError
	}
	return r, true, nil
}
