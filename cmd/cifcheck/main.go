// This tool parses a CIF file and reports the recoverable errors it
// found, optionally re-emitting the document in a requested dialect.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	cif "github.com/COMCIFS/cif-api-sub003"
	"github.com/COMCIFS/cif-api-sub003/model"
	"github.com/COMCIFS/cif-api-sub003/parser"
	"github.com/COMCIFS/cif-api-sub003/parser/tokenizer"
)

func check(err error) {
	if err != nil {
		fmt.Println("fatal error:", err)
		os.Exit(1)
	}
}

type reportingSink struct {
	count int
}

func (s *reportingSink) HandleError(e tokenizer.Error) bool {
	s.count++
	fmt.Printf("  line %d, col %d: %s %q\n", e.Line, e.Col, parser.CodeString(e.Code), e.Text)
	return true
}

func main() {
	emitV2 := flag.Bool("v2", false, "re-emit the document as CIF 2.0")
	out := flag.String("o", "", "write the re-emitted document to this path")
	flag.Parse()
	input := flag.Arg(0)
	if input == "" {
		fmt.Println("usage: cifcheck [-v2] [-o path] <file>")
		os.Exit(2)
	}

	f, err := os.Open(input)
	check(err)
	defer f.Close()

	sink := &reportingSink{}
	doc, err := cif.ReadDocument(context.Background(), f, cif.ReadOptions{
		MaxFrameDepth: 8,
		ErrorSink:     sink,
	})
	if err != nil {
		check(err)
	}

	fmt.Printf("%s: %d block(s), %d recoverable error(s)\n", input, len(doc.Blocks), sink.count)

	if *out == "" {
		return
	}
	w, err := os.Create(*out)
	check(err)
	defer w.Close()

	dialect := model.V1
	if *emitV2 {
		dialect = model.V2
	}
	err = cif.WriteDocument(context.Background(), w, doc, model.WriteOptions{Dialect: dialect})
	check(err)
	fmt.Println("wrote", *out)
}
