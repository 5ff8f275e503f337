package tokenizer

// Dialect selects which of the two incompatible CIF text dialects a
// ClassTable, Tokenizer or Writer should honour.
type Dialect uint8

const (
	// V1 is CIF 1.1: mostly 7-bit ASCII, no list/table container
	// values, curly braces are ordinary characters.
	V1 Dialect = iota
	// V2 is CIF 2.0: Unicode/UTF-8, with list ([...]) and table
	// ({...}) container values.
	V2
)

func (d Dialect) String() string {
	if d == V2 {
		return "2.0"
	}
	return "1.1"
}

// class is the per-code-point lexical class assigned by a ClassTable.
// The letter classes (A,B,D,E,G,L,O,P,S,T,V) exist only to recognise
// the reserved words data_, save_, loop_, stop_ and global_ case
// insensitively without allocating on every token.
type class uint8

const (
	clsNO class = iota
	clsGENERAL
	clsWS
	clsEOL
	clsQUOTE
	clsHASH
	clsDOLLAR
	clsSEMI
	clsOBRAK
	clsCBRAK
	clsOCURL
	clsCCURL
	clsUNDERSC
	clsA
	clsB
	clsD
	clsE
	clsG
	clsL
	clsO
	clsP
	clsS
	clsT
	clsV
)

// metaclass groups classes the way the tokenizer's dispatch loop and
// the parser's whitespace/bracket checks need them grouped.
type metaclass uint8

const (
	metaNone metaclass = iota
	metaGeneral
	metaWhitespace
	metaOpenBracket
	metaCloseBracket
)

func (c class) metaclass() metaclass {
	switch c {
	case clsNO:
		return metaNone
	case clsWS, clsEOL:
		return metaWhitespace
	case clsOBRAK, clsOCURL:
		return metaOpenBracket
	case clsCBRAK, clsCCURL:
		return metaCloseBracket
	default:
		return metaGeneral
	}
}

// letterClasses maps the ASCII letters participating in reserved-word
// recognition to their class, case insensitively.
var letterClasses = map[byte]class{
	'a': clsA, 'A': clsA,
	'b': clsB, 'B': clsB,
	'd': clsD, 'D': clsD,
	'e': clsE, 'E': clsE,
	'g': clsG, 'G': clsG,
	'l': clsL, 'L': clsL,
	'o': clsO, 'O': clsO,
	'p': clsP, 'P': clsP,
	's': clsS, 'S': clsS,
	't': clsT, 'T': clsT,
	'v': clsV, 'V': clsV,
}

// ClassTable is a per-parser, immutable character-class table,
// parameterised by dialect and by caller-supplied extra whitespace
// and end-of-line code points (spec: "Caller-supplied extra
// whitespace and EOL code-point sets overlay this table for code
// points < 128"). It is built once at parser construction, never
// shared mutable global state.
type ClassTable struct {
	dialect  Dialect
	base     [128]class
	extraWS  map[rune]bool
	extraEOL map[rune]bool
}

// NewClassTable builds an immutable classification table for dialect
// d, overlaid with extraWS and extraEOL code points (which must be <
// 0x80 to have any effect, per spec 4.2).
func NewClassTable(d Dialect, extraWS, extraEOL []rune) *ClassTable {
	t := &ClassTable{dialect: d}
	for i := 0; i < 128; i++ {
		t.base[i] = classifyASCII(byte(i))
	}
	if d == V1 {
		// v2 structural brackets are not recognised as structure in
		// v1: curly braces demote to GENERAL, square brackets map to
		// legacy (ordinary) classes.
		t.base['{'] = clsGENERAL
		t.base['}'] = clsGENERAL
		t.base['['] = clsGENERAL
		t.base[']'] = clsGENERAL
	}
	if len(extraWS) > 0 {
		t.extraWS = make(map[rune]bool, len(extraWS))
		for _, r := range extraWS {
			t.extraWS[r] = true
		}
	}
	if len(extraEOL) > 0 {
		t.extraEOL = make(map[rune]bool, len(extraEOL))
		for _, r := range extraEOL {
			t.extraEOL[r] = true
		}
	}
	return t
}

func classifyASCII(b byte) class {
	switch b {
	case ' ', '\t', '\v', '\f':
		return clsWS
	case '\n':
		return clsEOL
	case '\'', '"':
		return clsQUOTE
	case '#':
		return clsHASH
	case '$':
		return clsDOLLAR
	case ';':
		return clsSEMI
	case '[':
		return clsOBRAK
	case ']':
		return clsCBRAK
	case '{':
		return clsOCURL
	case '}':
		return clsCCURL
	case '_':
		return clsUNDERSC
	}
	if lc, ok := letterClasses[b]; ok {
		return lc
	}
	if b < 0x20 || b == 0x7f {
		return clsNO
	}
	return clsGENERAL
}

// Classify returns the class assigned to code point r.
func (t *ClassTable) Classify(r rune) class {
	if r >= 0 && r < 128 {
		if t.extraEOL != nil && t.extraEOL[r] {
			return clsEOL
		}
		if t.extraWS != nil && t.extraWS[r] {
			return clsWS
		}
		return t.base[byte(r)]
	}
	if t.dialect == V2 {
		return clsGENERAL
	}
	return clsNO
}

// Meta is a convenience combining Classify and class.metaclass.
func (t *ClassTable) Meta(r rune) metaclass {
	return t.Classify(r).metaclass()
}
