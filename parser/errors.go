package parser

import "github.com/COMCIFS/cif-api-sub003/parser/tokenizer"

// Code is shared with the tokenizer: the character-level and lexical
// codes live in package tokenizer, the syntactic and semantic codes
// raised while driving the grammar live here, continuing the same
// enumeration from a disjoint base.
type Code = tokenizer.Code

const (
	// syntactic (spec 7.iii)
	NoBlockHeader Code = 100 + iota
	UnexpectedTerm
	FrameNotAllowed
	NoFrameTerm
	MissingValue
	PartialPacket
	EmptyLoop
	NullLoop
	UnquotedKey
	MisquotedKey
	MissingPrefix
	MissingKey
	NullKey
	UnterminatedList
	UnterminatedTable
	UnexpectedDelimiter

	// semantic (spec 7.iv)
	InvalidBlockcode
	InvalidFramecode
	InvalidDataname
	DupBlockcode
	DupFramecode
	DupItemname
	DisallowedValueKind
	ReservedLoopCategory

	// fatal
	AllocationFailure
)

// CodeString renders a short diagnostic label for a Code raised by
// this package; for tokenizer-level codes, use tokenizer.Code.String.
func CodeString(c Code) string {
	switch c {
	case NoBlockHeader:
		return "NO_BLOCK_HEADER"
	case UnexpectedTerm:
		return "UNEXPECTED_TERM"
	case FrameNotAllowed:
		return "FRAME_NOT_ALLOWED"
	case NoFrameTerm:
		return "NO_FRAME_TERM"
	case MissingValue:
		return "MISSING_VALUE"
	case PartialPacket:
		return "PARTIAL_PACKET"
	case EmptyLoop:
		return "EMPTY_LOOP"
	case NullLoop:
		return "NULL_LOOP"
	case UnquotedKey:
		return "UNQUOTED_KEY"
	case MisquotedKey:
		return "MISQUOTED_KEY"
	case MissingPrefix:
		return "MISSING_PREFIX"
	case MissingKey:
		return "MISSING_KEY"
	case NullKey:
		return "NULL_KEY"
	case UnterminatedList:
		return "UNTERMINATED_LIST"
	case UnterminatedTable:
		return "UNTERMINATED_TABLE"
	case UnexpectedDelimiter:
		return "UNEXPECTED_DELIMITER"
	case InvalidBlockcode:
		return "INVALID_BLOCKCODE"
	case InvalidFramecode:
		return "INVALID_FRAMECODE"
	case InvalidDataname:
		return "INVALID_DATANAME"
	case DupBlockcode:
		return "DUP_BLOCKCODE"
	case DupFramecode:
		return "DUP_FRAMECODE"
	case DupItemname:
		return "DUP_ITEMNAME"
	case DisallowedValueKind:
		return "DISALLOWED_VALUE_KIND"
	case ReservedLoopCategory:
		return "RESERVED_LOOP_CATEGORY"
	case AllocationFailure:
		return "ALLOCATION_FAILURE"
	default:
		return c.String()
	}
}
