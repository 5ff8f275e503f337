package parser

import (
	"strings"

	"github.com/COMCIFS/cif-api-sub003/parser/tokenizer"
)

// decodeTextBlock implements the text-block decoder of spec 4.4. raw
// is the TVALUE token's value (the text between the opening ';' and
// the LF immediately before the closing ';', exclusive of both). line
// is the 1-based line the opening ';' was on, used to attribute
// MISSING_PREFIX errors to the offending line.
func decodeTextBlock(raw string, o Options, sink tokenizer.ErrorSink, line int) string {
	if raw == "" {
		return raw
	}
	lines := strings.Split(raw, "\n")

	folding := false
	prefixing := false
	var prefix string

	signal := strings.TrimRight(lines[0], " \t")
	if strings.HasSuffix(signal, "\\") {
		candidatePrefix := signal[:len(signal)-1]
		if !o.DisableLineFolding {
			folding = true
		}
		if candidatePrefix != "" && !o.DisableTextPrefixing {
			prefixing = true
			prefix = candidatePrefix
		}
	}

	content := lines
	firstLine := line + 1
	if folding || prefixing {
		content = lines[1:]
		firstLine = line + 2
	}

	if prefixing {
		stripped := make([]string, len(content))
		for i, l := range content {
			if strings.HasPrefix(l, prefix) {
				stripped[i] = l[len(prefix):]
			} else {
				if sink != nil {
					sink.HandleError(tokenizer.Error{
						Code: MissingPrefix,
						Line: firstLine + i,
						Col:  1,
						Text: l,
					})
				}
				stripped[i] = l
			}
		}
		content = stripped
	}

	if !folding {
		return strings.Join(content, "\n")
	}

	var b strings.Builder
	for i, l := range content {
		if strings.HasSuffix(l, "\\") {
			b.WriteString(l[:len(l)-1])
			continue
		}
		b.WriteString(l)
		if i != len(content)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
