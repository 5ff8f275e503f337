package parser

import "github.com/COMCIFS/cif-api-sub003/parser/tokenizer"

// Options controls parsing behaviour (spec 6, "Parse-options
// contract"). Its zero value is a valid configuration: v1 dialect,
// UTF-8, line/text-prefix folding decoding enabled, frames
// disallowed, die-on-error.
type Options struct {
	// Dialect selects v1 or v2 grammar and character classes. Dialect
	// detection (spec 6) happens above this package, in the facade;
	// by the time a Parser is constructed the dialect is already
	// decided.
	Dialect tokenizer.Dialect

	// DisableLineFolding, when true, leaves a TVALUE's line-folding
	// in-band protocol undecoded even if its first line signals it.
	DisableLineFolding bool
	// DisableTextPrefixing is the equivalent switch for the prefix
	// protocol.
	DisableTextPrefixing bool

	// MaxFrameDepth: 0 disallows save frames entirely, 1 allows one
	// level, N allows N levels of nesting.
	MaxFrameDepth int

	// ExtraWSChars and ExtraEOLChars overlay the character classifier
	// for code points below U+0080 (spec 4.2).
	ExtraWSChars  []rune
	ExtraEOLChars []rune

	// Handler carries the optional whitespace/keyword/dataname
	// sub-callbacks (spec 6).
	Handler Handler

	// ErrorSink receives every recoverable error; nil defaults to
	// tokenizer.Die (abort on first error).
	ErrorSink tokenizer.ErrorSink
}

func (o Options) errorSink() tokenizer.ErrorSink {
	if o.ErrorSink != nil {
		return o.ErrorSink
	}
	return tokenizer.Die
}
