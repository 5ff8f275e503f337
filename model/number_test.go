package model

import "testing"

func TestParseNumberBasic(t *testing.T) {
	cases := []struct {
		text   string
		sign   int8
		digits string
		scale  int
		su     string
	}{
		{"1", 1, "1", 0, ""},
		{"-1", -1, "1", 0, ""},
		{"+4.916", 1, "4916", 3, ""},
		{"0.5", 1, "5", 1, ""},
		{"1.23(4)", 1, "123", 2, "4"},
		{"1.5e2", 1, "15", -1, ""},
		{"1.5E-2", 1, "15", 3, ""},
		{"007", 1, "7", 0, ""},
	}
	for _, c := range cases {
		n, ok := ParseNumber(c.text)
		if !ok {
			t.Errorf("ParseNumber(%q): not a number", c.text)
			continue
		}
		if n.Sign != c.sign || n.Digits != c.digits || n.Scale != c.scale || n.SUDigits != c.su {
			t.Errorf("ParseNumber(%q) = %+v, want sign=%d digits=%s scale=%d su=%s",
				c.text, n, c.sign, c.digits, c.scale, c.su)
		}
		if n.Text != c.text {
			t.Errorf("ParseNumber(%q).Text = %q, want original text preserved", c.text, n.Text)
		}
	}
}

func TestParseNumberRejectsNonNumbers(t *testing.T) {
	for _, text := range []string{"", "abc", "1.2.3", "1e", "1(2", "--1", "."} {
		if _, ok := ParseNumber(text); ok {
			t.Errorf("ParseNumber(%q): expected rejection", text)
		}
	}
}

func TestCanonicalText(t *testing.T) {
	n := Number{Sign: 1, Digits: "4916", Scale: 3}
	if got := CanonicalText(n); got != "4.916" {
		t.Errorf("CanonicalText = %q, want 4.916", got)
	}
	neg := Number{Sign: -1, Digits: "5", Scale: 1, SUDigits: "2"}
	if got := CanonicalText(neg); got != "-0.5(2)" {
		t.Errorf("CanonicalText = %q, want -0.5(2)", got)
	}
	intWithTrailingZeros := Number{Sign: 1, Digits: "15", Scale: -2}
	if got := CanonicalText(intWithTrailingZeros); got != "1500" {
		t.Errorf("CanonicalText = %q, want 1500", got)
	}
}

func TestNewNumberDecimalVsScientific(t *testing.T) {
	n := NewNumber(4.916, 0, 3, 2)
	if n.Text != "4.916" {
		t.Errorf("NewNumber decimal Text = %q, want 4.916", n.Text)
	}
	tiny := NewNumber(0.0000123, 0, 10, 2)
	if tiny.Scale < 0 {
		t.Fatalf("unexpected negative scale: %d", tiny.Scale)
	}
	// 0.0000123 at scale 10 has 5 leading integer zeros, over the
	// maxLeadingZeros+1=3 budget, so scientific notation is expected.
	if tiny.Text != "1.23000e-5" {
		t.Errorf("NewNumber scientific Text = %q, want 1.23000e-5", tiny.Text)
	}
}

func TestValueEqualIgnoresNumberText(t *testing.T) {
	a := NumValue(Number{Sign: 1, Digits: "5", Scale: 1, Text: "0.5"})
	b := NumValue(Number{Sign: 1, Digits: "5", Scale: 1, Text: ".5"})
	if !a.Equal(b) {
		t.Errorf("values with different Text but same structure should be Equal")
	}
}
