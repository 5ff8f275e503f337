package tokenizer

// Code identifies one recoverable (or fatal) error raised while
// scanning or parsing a CIF document (spec 7). The character-level
// and lexical codes are defined here, next to the Buffer and
// Tokenizer that raise them; the syntactic and semantic codes raised
// by the parser are defined as further constants of this same type in
// package parser, continuing the enumeration from a disjoint base so
// the two packages never collide.
type Code uint16

const (
	_ Code = iota

	// character-level (spec 7.i)
	InvalidChar      // isolated surrogate; recovery: replace with U+FFFD (v2) or '?' (v1)
	DisallowedChar   // non-character code point, or a BOM after the first code unit; recovery: accept as-is
	OverlengthLine   // line exceeds the 2048 code point limit; recovery: accept
	EncodingMismatch // decoder reported a malformed byte sequence; recovery: replace with U+FFFD

	// lexical (spec 7.ii)
	MissingSpace          // two tokens abut without required whitespace; recovery: assume the whitespace
	MissingEndquote       // a quoted value is not closed before end of line/input; recovery: close at EOL/EOF
	UnterminatedTextBlock // a text block's opening ';' has no matching closing ';'
	InvalidBareValue      // an unquoted value could not be scanned (should not normally occur)
	ReservedWord          // bare data_, stop_ or global_ outside of a valid position
	DisallowedInitialChar // a token begins with a character forbidden in that position
)

// String renders a short diagnostic label; it is not meant to be a
// stable machine-readable identifier.
func (c Code) String() string {
	switch c {
	case InvalidChar:
		return "INVALID_CHAR"
	case DisallowedChar:
		return "DISALLOWED_CHAR"
	case OverlengthLine:
		return "OVERLENGTH_LINE"
	case EncodingMismatch:
		return "ENCODING_MISMATCH"
	case MissingSpace:
		return "MISSING_SPACE"
	case MissingEndquote:
		return "MISSING_ENDQUOTE"
	case UnterminatedTextBlock:
		return "UNTERMINATED_TEXT_BLOCK"
	case InvalidBareValue:
		return "INVALID_BARE_VALUE"
	case ReservedWord:
		return "RESERVED_WORD"
	case DisallowedInitialChar:
		return "DISALLOWED_INITIAL_CHAR"
	default:
		return "UNKNOWN_CODE"
	}
}

// Error describes a single recoverable (or fatal) condition raised
// while processing a document. Line and Col are 1-based. Text is the
// offending slice of input, when one is meaningful for the code.
type Error struct {
	Code Code
	Line int
	Col  int
	Text string
}

// ErrorSink is the single capability a Parser (and, transitively, the
// Buffer and Tokenizer) uses to report an Error. Returning true
// requests the error's prescribed recovery and continues the parse;
// returning false aborts the parse, surfacing this Error to the
// caller (spec 7: "the parser only aborts when the callback returns
// non-zero").
type ErrorSink interface {
	HandleError(e Error) bool
}

type dieSink struct{}

func (dieSink) HandleError(Error) bool { return false }

// Die is the "die" default error sink: it aborts the parse on the
// first reported error.
var Die ErrorSink = dieSink{}

type ignoreSink struct{}

func (ignoreSink) HandleError(Error) bool { return true }

// Ignore is the "ignore" default error sink: it always requests the
// prescribed recovery and keeps parsing.
var Ignore ErrorSink = ignoreSink{}
