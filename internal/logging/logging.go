// Package logging routes the low-level tracing emitted while scanning,
// parsing and writing CIF documents through a single category logger,
// the way github.com/pdfcpu/pdfcpu/pkg/log is used from
// parser.ParseObject and parser.parseArray in the PDF tooling this
// package is modeled on: call sites never construct their own loggers,
// they just call the package-level helpers below.
package logging

import "github.com/pdfcpu/pdfcpu/pkg/log"

// Scanf traces a single tokenizer decision (class dispatch, buffer
// refill, line-terminator normalization).
func Scanf(format string, args ...interface{}) {
	log.Parse.Printf(format, args...)
}

// Parsef traces a single parser production (container entered, item
// stored, recovery applied).
func Parsef(format string, args ...interface{}) {
	log.Parse.Printf(format, args...)
}

// Writef traces a single writer decision (quoting style chosen, fold
// point picked).
func Writef(format string, args ...interface{}) {
	log.Parse.Printf(format, args...)
}
