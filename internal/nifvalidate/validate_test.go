package nifvalidate

import (
	"strings"
	"testing"

	"nif/internal/ast"
	"nif/internal/nifparse"
)

func TestTreeAcceptsWellFormedModule(t *testing.T) {
	src := []byte(`(.nif26)(proc :a.0.m (x))(.index (x a.0.m +8))`)
	res, err := nifparse.Parse(src, nifparse.Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := Tree(res.Arena, res.Module); err != nil {
		t.Fatalf("Tree() = %v, want nil", err)
	}
}

func TestTreeRejectsIndexedLocalSymbol(t *testing.T) {
	// Hand-construct an Index entry with a local (single-dot) symbol;
	// the parser itself would never classify "local.1" as global, so
	// this exercises Tree's own defense-in-depth check.
	src := []byte(`(.nif26)(proc :a.0.m (x))`)
	res, err := nifparse.Parse(src, nifparse.Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	res.Module.Index = &ast.Index{Entries: []ast.IndexEntry{
		{Visibility: ast.Exported, Symbol: []byte("local.1"), Offset: 0},
	}}
	err = Tree(res.Arena, res.Module)
	if err == nil || !strings.Contains(err.Error(), "must be global") {
		t.Fatalf("expected a 'must be global' failure, got %v", err)
	}
}

func TestTreeRejectsIndexEntryWithNoMatchingDef(t *testing.T) {
	src := []byte(`(.nif26)(proc :a.0.m (x))`)
	res, err := nifparse.Parse(src, nifparse.Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	res.Module.Index = &ast.Index{Entries: []ast.IndexEntry{
		{Visibility: ast.Exported, Symbol: []byte("nowhere.0.m"), Offset: 0},
	}}
	err = Tree(res.Arena, res.Module)
	if err == nil || !strings.Contains(err.Error(), "no matching SymbolDef") {
		t.Fatalf("expected a 'no matching SymbolDef' failure, got %v", err)
	}
}

func TestIndexWrapsMismatches(t *testing.T) {
	src := []byte(`(.nif26)(proc :a.0.m (x))(.index (x a.0.m +999))`)
	res, err := nifparse.Parse(src, nifparse.Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := Index(res.Arena, res.Module, nil); err == nil {
		t.Fatalf("expected a mismatch error")
	}
}

func TestDeadCodeReportsUnreferencedDef(t *testing.T) {
	src := []byte(`(.nif26)(proc :unused.0.m (x))`)
	res, err := nifparse.Parse(src, nifparse.Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	dead := DeadCode(res.Arena, res.Module)
	if len(dead) != 1 || dead[0] != "unused.0.m" {
		t.Fatalf("expected unused.0.m flagged as dead, got %v", dead)
	}
}
