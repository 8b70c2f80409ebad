package ast

import "testing"

func TestIsLocalSymbol(t *testing.T) {
	cases := []struct {
		sym  string
		want bool
	}{
		{"x.1", true},
		{"x.42", true},
		{"x.1.2", false}, // two dots, global
		{"x.", false},    // empty tail
		{"x.a", false},   // non-digit tail
		{"x", false},     // no dot at all
	}
	for _, c := range cases {
		if got := IsLocalSymbol([]byte(c.sym)); got != c.want {
			t.Fatalf("IsLocalSymbol(%q) = %v, want %v", c.sym, got, c.want)
		}
	}
}

func TestIsGlobalSymbol(t *testing.T) {
	cases := []struct {
		sym  string
		want bool
	}{
		{"pkg.Type.field", true},
		{"a.b", false},
		{"a", false},
		{"a.b.c.d", true},
	}
	for _, c := range cases {
		if got := IsGlobalSymbol([]byte(c.sym)); got != c.want {
			t.Fatalf("IsGlobalSymbol(%q) = %v, want %v", c.sym, got, c.want)
		}
	}
}

func TestDotCount(t *testing.T) {
	if DotCount([]byte("a.b.c")) != 2 {
		t.Fatalf("DotCount wrong")
	}
	if DotCount([]byte("abc")) != 0 {
		t.Fatalf("DotCount wrong for no dots")
	}
}

func TestHasTrailingDot(t *testing.T) {
	if !HasTrailingDot([]byte("foo.")) {
		t.Fatalf("expected trailing dot detected")
	}
	if HasTrailingDot([]byte("foo")) {
		t.Fatalf("unexpected trailing dot detected")
	}
	if HasTrailingDot(nil) {
		t.Fatalf("empty bytes must not have a trailing dot")
	}
}

func TestArenaRefZeroReservedAndNodesAllocate(t *testing.T) {
	a := NewArena()
	if len(a.Nodes) != 1 {
		t.Fatalf("expected arena to start with one reserved slot, got %d", len(a.Nodes))
	}
	ref := a.NewIdentifier(Prefix{}, []byte("foo"))
	if ref == 0 {
		t.Fatalf("NewIdentifier must never return the reserved zero Ref")
	}
	n := a.Get(ref)
	if n.Kind != KindIdentifier || string(n.Bytes) != "foo" {
		t.Fatalf("unexpected node: %+v", n)
	}
}

func TestNewCompoundChildren(t *testing.T) {
	a := NewArena()
	c1 := a.NewIdentifier(Prefix{}, []byte("a"))
	c2 := a.NewIdentifier(Prefix{}, []byte("b"))
	comp := a.NewCompound(Prefix{}, []byte("stmt"), []Ref{c1, c2})
	n := a.Get(comp)
	if n.Kind != KindCompound {
		t.Fatalf("expected Compound kind")
	}
	if len(n.Children) != 2 || n.Children[0] != c1 || n.Children[1] != c2 {
		t.Fatalf("children not preserved: %v", n.Children)
	}
	if n.IsAtom() {
		t.Fatalf("compound node must not report IsAtom")
	}
}

func TestLangScope(t *testing.T) {
	a := NewArena()
	ref := a.NewIdentifier(Prefix{}, []byte("x"))
	a.SetLangScope(ref, []string{"c", "c.expr"})
	got := a.Get(ref).LangScope()
	if len(got) != 2 || got[0] != "c" || got[1] != "c.expr" {
		t.Fatalf("LangScope mismatch: %v", got)
	}
}

func TestNumberHasFracHasExp(t *testing.T) {
	n := Number{Digits: []byte("12")}
	if n.HasFrac() || n.HasExp() {
		t.Fatalf("bare int Number should have neither frac nor exp")
	}
	n.Frac = []byte("5")
	if !n.HasFrac() {
		t.Fatalf("expected HasFrac true once Frac is set")
	}
	n.Exp = []byte("10")
	if !n.HasExp() {
		t.Fatalf("expected HasExp true once Exp is set")
	}
}
