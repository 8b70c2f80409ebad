// Package nifvalidate performs lightweight, dependency-free structural
// validation of a parsed module: the checks a producer wants before
// calling a tree fit to serialize, over and above what the parser
// itself enforces while it reads a byte stream.
//
// Goals:
//   - No external dependencies beyond the other internal/ packages
//   - Aggregate every issue found into a single error for better UX
//   - Deterministic, strict-enough checks without being overbearing
package nifvalidate

import (
	"errors"
	"fmt"
	"strings"

	"nif/internal/ast"
	"nif/internal/nifindex"
	"nif/internal/nifwrite"
	"nif/internal/symgraph"
)

// Tree validates structural constraints on a parsed module that the
// parser does not itself enforce because they depend on tree shape
// rather than token shape:
//
//   - A SymbolDef atom may only appear as the first child of the
//     compound that introduces it; a SymbolDef found anywhere else
//     (nested deeper, or not in first-child position) is rejected.
//   - If module.Index is non-nil, every entry's symbol must resolve to
//     a global SymbolDef actually present in the tree, and every
//     indexed symbol must itself be global (>=2 dots); a local symbol
//     in the index is rejected outright.
//
// It returns nil if everything looks fine, or a single aggregated
// error describing every issue found.
func Tree(arena *ast.Arena, module *ast.Module) error {
	var errs errlist

	for _, ref := range module.Body {
		checkSymbolDefPlacement(arena, ref, false, &errs)
	}

	if module.Index != nil {
		defined := make(map[string]struct{})
		for _, ref := range module.Body {
			collectGlobalDefs(arena, ref, defined)
		}
		for i, e := range module.Index.Entries {
			sym := string(e.Symbol)
			if !ast.IsGlobalSymbol(e.Symbol) {
				errs.add("index[%d] (%s): indexed symbol must be global (>=2 dots)", i, sym)
				continue
			}
			if _, ok := defined[sym]; !ok {
				errs.add("index[%d] (%s): no matching SymbolDef found in tree", i, sym)
			}
		}
	}

	return errs.err()
}

// checkSymbolDefPlacement walks ref's subtree; atFront is true only for
// the very first child of a compound, the one legal position for a
// SymbolDef.
func checkSymbolDefPlacement(arena *ast.Arena, ref ast.Ref, atFront bool, errs *errlist) {
	node := arena.Get(ref)
	if node.Kind == ast.KindSymbolDef && !atFront {
		errs.add("SymbolDef %q at byte offset %d appears outside first-child position", string(node.Bytes), node.Offset)
	}
	if node.Kind != ast.KindCompound {
		return
	}
	for i, child := range node.Children {
		checkSymbolDefPlacement(arena, child, i == 0, errs)
	}
}

func collectGlobalDefs(arena *ast.Arena, ref ast.Ref, defined map[string]struct{}) {
	node := arena.Get(ref)
	if node.Kind != ast.KindCompound {
		return
	}
	if len(node.Children) > 0 {
		first := arena.Get(node.Children[0])
		if first.Kind == ast.KindSymbolDef && ast.IsGlobalSymbol(first.Bytes) {
			defined[string(first.Bytes)] = struct{}{}
		}
	}
	for _, child := range node.Children {
		collectGlobalDefs(arena, child, defined)
	}
}

// Index cross-checks module's on-disk index against a freshly
// recomputed one and folds every mismatch into a single error.
func Index(arena *ast.Arena, module *ast.Module, visibility nifwrite.VisibilityFunc) error {
	mismatches := nifindex.Verify(arena, module, visibility)
	if len(mismatches) == 0 {
		return nil
	}
	var errs errlist
	for _, m := range mismatches {
		errs.add("%s", m.String())
	}
	return errs.err()
}

// DeadCode returns a sorted, advisory (never fatal) list of global
// symbols defined somewhere in module but never referenced inside
// another global definition's compound (see symgraph.BuildFrom).
// Callers decide whether to surface these as warnings.
func DeadCode(arena *ast.Arena, module *ast.Module) []string {
	g := symgraph.BuildFrom(arena, module)
	return symgraph.Unreferenced(g)
}

// errlist aggregates multiple validation issues into a single error.
type errlist struct {
	msgs []string
}

func (e *errlist) add(format string, args ...any) {
	if e == nil {
		return
	}
	e.msgs = append(e.msgs, fmt.Sprintf(format, args...))
}

func (e *errlist) err() error {
	if e == nil || len(e.msgs) == 0 {
		return nil
	}
	return errors.New(strings.Join(e.msgs, "\n"))
}
