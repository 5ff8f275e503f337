// Package model holds the in-memory representation of a CIF value and
// document (spec 3), plus the numeric formatter, identifier
// normalizer, and document tree that the higher level parser and
// writer packages build and walk. It has no dependency on the
// tokenizer or parser: it is the leaf of the dependency chain,
// constructed from already-decoded text.
package model

// Kind discriminates a Value's variant.
type Kind uint8

const (
	Unknown Kind = iota
	NotApplicable
	Char
	Num
	List
	Table
)

func (k Kind) String() string {
	switch k {
	case Unknown:
		return "unknown"
	case NotApplicable:
		return "not-applicable"
	case Char:
		return "char"
	case Num:
		return "number"
	case List:
		return "list"
	case Table:
		return "table"
	default:
		return "<invalid kind>"
	}
}

// Value is the tagged union described by spec 3. Exactly one of the
// payload fields is meaningful, selected by Kind:
//   - Char: Text
//   - Num: Number (Number.Text, when set, is the cached input rendering)
//   - List: Items
//   - Table: Pairs
//
// Unknown and NotApplicable carry no payload ('?' and '.' respectively).
type Value struct {
	Kind   Kind
	Text   string
	Number Number
	Items  []Value
	Pairs  []Pair
}

// Pair is one entry of a Table value, preserving both the original
// key spelling and its NFC-normalized form (spec 3: "table keys
// normalize to NFC only, no case fold").
type Pair struct {
	Key     string
	NormKey string
	Value   Value
}

// CharValue builds a Char value.
func CharValue(text string) Value { return Value{Kind: Char, Text: text} }

// NumValue builds a Num value from an already-constructed Number.
func NumValue(n Number) Value { return Value{Kind: Num, Number: n} }

// ListValue builds a List value.
func ListValue(items []Value) Value { return Value{Kind: List, Items: items} }

// TableValue builds a Table value from key-ordered pairs.
func TableValue(pairs []Pair) Value { return Value{Kind: Table, Pairs: pairs} }

// Get looks up a table pair by its NFC-normalized key. Ok is false if
// v is not a Table or the key is absent.
func (v Value) Get(normKey string) (Value, bool) {
	if v.Kind != Table {
		return Value{}, false
	}
	for _, p := range v.Pairs {
		if p.NormKey == normKey {
			return p.Value, true
		}
	}
	return Value{}, false
}

// Equal reports whether v and other represent the same CIF value,
// modulo the textual rendering of numbers (spec 8, invariant 3):
// comparison is on digits/scale/sign/su, not on Number.Text.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case Unknown, NotApplicable:
		return true
	case Char:
		return v.Text == other.Text
	case Num:
		return v.Number.Sign == other.Number.Sign &&
			v.Number.Digits == other.Number.Digits &&
			v.Number.Scale == other.Number.Scale &&
			v.Number.SUDigits == other.Number.SUDigits
	case List:
		if len(v.Items) != len(other.Items) {
			return false
		}
		for i := range v.Items {
			if !v.Items[i].Equal(other.Items[i]) {
				return false
			}
		}
		return true
	case Table:
		if len(v.Pairs) != len(other.Pairs) {
			return false
		}
		for i := range v.Pairs {
			if v.Pairs[i].NormKey != other.Pairs[i].NormKey || !v.Pairs[i].Value.Equal(other.Pairs[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}
