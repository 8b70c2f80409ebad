package lex

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		b    int
		want Kind
	}{
		{-1, KindEOF},
		{' ', KindWhitespace},
		{'\t', KindWhitespace},
		{'(', KindOpen},
		{')', KindClose},
		{'.', KindDot},
		{':', KindColon},
		{'#', KindHash},
		{'0', KindLineInfo},
		{'~', KindLineInfo},
		{',', KindLineInfo},
		{'+', KindNumber},
		{'-', KindNumber},
		{'\'', KindChar},
		{'"', KindString},
		{'a', KindIdentOrSym},
	}
	for _, c := range cases {
		if got := Classify(c.b); got != c.want {
			t.Fatalf("Classify(%q) = %v, want %v", rune(c.b), got, c.want)
		}
	}
}

func TestIsIdentStart(t *testing.T) {
	for _, b := range []byte{'a', 'Z', '_', '\\', 128, 255} {
		if !IsIdentStart(b) {
			t.Fatalf("IsIdentStart(%v) = false, want true", b)
		}
	}
	for _, b := range []byte{'0', '9', '(', ')', '.', ':'} {
		if IsIdentStart(b) {
			t.Fatalf("IsIdentStart(%q) = true, want false", b)
		}
	}
}

func TestIsIdentChar(t *testing.T) {
	if !IsIdentChar('9') {
		t.Fatalf("IsIdentChar('9') should be true")
	}
	if IsIdentChar('.') {
		t.Fatalf("IsIdentChar('.') should be false")
	}
}

func TestIsSymbolTailChar(t *testing.T) {
	if !IsSymbolTailChar('.') {
		t.Fatalf("'.' must be a valid symbol tail char")
	}
	if !IsSymbolTailChar('9') {
		t.Fatalf("digit must be a valid symbol tail char")
	}
	if IsSymbolTailChar('(') {
		t.Fatalf("'(' must not be a valid symbol tail char")
	}
}

func TestIsWhitespace(t *testing.T) {
	for _, b := range []byte{0x20, 0x09, 0x0A, 0x0D} {
		if !IsWhitespace(b) {
			t.Fatalf("IsWhitespace(%#x) should be true", b)
		}
	}
	if IsWhitespace('a') {
		t.Fatalf("IsWhitespace('a') should be false")
	}
}
