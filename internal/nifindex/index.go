// Package nifindex builds, decodes, and verifies the trailing `.index`
// structure: the diff-encoded map from exportable global symbols to
// their absolute byte offsets.
package nifindex

import (
	"fmt"

	"nif/internal/ast"
	"nif/internal/nifparse"
	"nif/internal/nifwrite"
)

// Build walks a parsed module's body looking for every compound whose
// first child is a global (>=2 dot) SymbolDef, and returns the index
// that a correct writer would have produced for this tree. visibility
// is optional; a nil func defaults every symbol to Exported.
func Build(arena *ast.Arena, module *ast.Module, visibility nifwrite.VisibilityFunc) *ast.Index {
	idx := &ast.Index{}
	for _, ref := range module.Body {
		collect(arena, ref, visibility, idx)
	}
	return idx
}

func collect(arena *ast.Arena, ref ast.Ref, visibility nifwrite.VisibilityFunc, idx *ast.Index) {
	node := arena.Get(ref)
	if node.Kind != ast.KindCompound {
		return
	}
	if len(node.Children) > 0 {
		first := arena.Get(node.Children[0])
		if first.Kind == ast.KindSymbolDef && ast.IsGlobalSymbol(first.Bytes) {
			vis := ast.Exported
			if visibility != nil {
				vis = visibility(first.Bytes)
			}
			idx.Entries = append(idx.Entries, ast.IndexEntry{
				Visibility: vis,
				Symbol:     first.Bytes,
				Offset:     int64(node.Offset),
			})
		}
	}
	for _, child := range node.Children {
		collect(arena, child, visibility, idx)
	}
}

// Mismatch describes one entry where the on-disk index disagrees with
// a freshly recomputed one.
type Mismatch struct {
	Symbol   string
	Reason   string
	OnDisk   *ast.IndexEntry
	Computed *ast.IndexEntry
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: %s", m.Symbol, m.Reason)
}

// Verify recomputes the index for a full .nif file already parsed into
// arena/module and compares it entry-by-entry against the
// module's on-disk Index, by symbol, in the order present. It does not
// require the file to have been parsed with Strict, since a deliberate
// nifindex check must be able to report the mismatch, not fail to
// parse at all.
func Verify(arena *ast.Arena, module *ast.Module, visibility nifwrite.VisibilityFunc) []Mismatch {
	computed := Build(arena, module, visibility)
	var mismatches []Mismatch

	bysymbol := make(map[string]ast.IndexEntry, len(computed.Entries))
	for _, e := range computed.Entries {
		bysymbolSet(bysymbol, e)
	}
	seen := make(map[string]bool)

	if module.Index == nil {
		if len(computed.Entries) > 0 {
			mismatches = append(mismatches, Mismatch{Symbol: "<index>", Reason: "module has no .index but exportable symbols exist"})
		}
		return mismatches
	}

	for _, onDisk := range module.Index.Entries {
		sym := string(onDisk.Symbol)
		seen[sym] = true
		want, ok := bysymbol[sym]
		e := onDisk
		if !ok {
			mismatches = append(mismatches, Mismatch{Symbol: sym, Reason: "present on disk but not found in recomputed index", OnDisk: &e})
			continue
		}
		if want.Offset != onDisk.Offset {
			w := want
			mismatches = append(mismatches, Mismatch{Symbol: sym, Reason: fmt.Sprintf("offset mismatch: on-disk %d, recomputed %d", onDisk.Offset, want.Offset), OnDisk: &e, Computed: &w})
		}
		if want.Visibility != onDisk.Visibility {
			w := want
			mismatches = append(mismatches, Mismatch{Symbol: sym, Reason: "visibility mismatch", OnDisk: &e, Computed: &w})
		}
	}
	for _, e := range computed.Entries {
		sym := string(e.Symbol)
		if !seen[sym] {
			ce := e
			mismatches = append(mismatches, Mismatch{Symbol: sym, Reason: "exportable symbol missing from on-disk index", Computed: &ce})
		}
	}
	return mismatches
}

func bysymbolSet(m map[string]ast.IndexEntry, e ast.IndexEntry) {
	m[string(e.Symbol)] = e
}

// ParseAndVerify is a convenience wrapper: parse data, then verify its
// index against a fresh recomputation.
func ParseAndVerify(data []byte, opts nifparse.Options, visibility nifwrite.VisibilityFunc) (*nifparse.Result, []Mismatch, error) {
	res, err := nifparse.Parse(data, opts)
	if err != nil {
		return nil, nil, err
	}
	return res, Verify(res.Arena, res.Module, visibility), nil
}
