// Package tokenizer implements the lowest level of processing of CIF
// text: a pluggable Character Source, a growable Scanning Buffer with
// line-terminator normalization, a dialect-aware Character Classifier,
// and the Tokenizer itself.
//
// Code ported from the COMCIFS CIF API reference parser.
//
// See the higher level package parser to turn a token stream into a
// document tree.
package tokenizer
