package parser

import "github.com/COMCIFS/cif-api-sub003/model"

// Outcome is the navigation code a Builder callback returns,
// replacing the source's callback-return-code-plus-user-data pattern
// with a small closed set of typed results (spec 9).
type Outcome uint8

const (
	// Continue stores (where applicable) and keeps descending normally.
	Continue Outcome = iota
	// SkipCurrent discards the current node (container, loop, or item)
	// without storing it, then resumes normal descent.
	SkipCurrent
	// SkipSiblings discards the current node and every remaining
	// sibling at this level, resuming at the parent's next production.
	SkipSiblings
	// End stops the parse immediately after cleanly closing every
	// open container; Parse then returns nil.
	End
)

// Builder externalises storage from the parser (spec 9): the parser
// never owns a document tree itself, it only drives these calls in
// strict document order (spec 5). Every Value passed to a callback is
// borrowed for the duration of that call; implementations that need
// to retain it must copy.
type Builder interface {
	// DocumentStart/DocumentEnd bracket the whole parse.
	DocumentStart() Outcome
	DocumentEnd()

	// BlockStart is called on BLOCK_HEAD with the raw (un-normalized)
	// code; BlockEnd closes it.
	BlockStart(code string) Outcome
	BlockEnd()

	// FrameStart is called on FRAME_HEAD; FrameEnd on the matching
	// FRAME_TERM (or on synthetic closure during recovery).
	FrameStart(code string) Outcome
	FrameEnd()

	// Item is called once the value of a scalar NAME has been fully
	// parsed. Storing the value is the Builder's own decision; of its
	// Outcome, only SkipSiblings and End have an effect (they stop the
	// remaining productions of the enclosing container).
	Item(name string, v model.Value) Outcome

	// LoopStart is called once loop_ and its column names have been
	// read, before any packet; LoopEnd follows the last packet.
	LoopStart(names []string) Outcome
	// PacketStart/PacketEnd bracket each row; PacketItem is called
	// once per column, in column order, between them.
	PacketStart() Outcome
	PacketItem(name string, v model.Value) Outcome
	PacketEnd()
	LoopEnd()
}

// Handler bundles the optional sub-callbacks from spec 6 that report
// skipped, non-semantic input. Any field may be left nil.
type Handler struct {
	// WhitespaceCallback, if set, is invoked for every whitespace run
	// or comment the tokenizer skips.
	WhitespaceCallback func(text string, isComment bool, line, col int)
	// KeywordCallback, if set, is invoked whenever a reserved word
	// (data_, save_, loop_, stop_, global_) is recognised.
	KeywordCallback func(keyword string, line, col int)
	// DatanameCallback, if set, is invoked for every NAME token, before
	// its value is parsed.
	DatanameCallback func(name string, line, col int)
}
